package chat

import (
	"fmt"
	"testing"
)

func msgAt(ts string, role Role, content string) Message {
	return Message{Timestamp: ts, Role: role, Content: content}
}

func TestSortedOrdersByTimestamp(t *testing.T) {
	h := NewHistory([]Message{
		msgAt("2024-01-01T00:00:02Z", RoleAssistant, "second"),
		msgAt("2024-01-01T00:00:01Z", RoleUser, "first"),
		msgAt("2024-01-01T00:00:03Z", RoleUser, "third"),
	})

	out := h.Sorted()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if out[i].Content != w {
			t.Errorf("sorted[%d] = %q, want %q", i, out[i].Content, w)
		}
	}
}

func TestSortedIsStableForEqualTimestamps(t *testing.T) {
	h := NewHistory([]Message{
		msgAt("2024-01-01T00:00:01Z", RoleUser, "a"),
		msgAt("2024-01-01T00:00:01Z", RoleAssistant, "b"),
	})

	out := h.Sorted()
	if out[0].Content != "a" || out[1].Content != "b" {
		t.Errorf("equal timestamps reordered: %q, %q", out[0].Content, out[1].Content)
	}
}

func TestWindowKeepsMostRecent(t *testing.T) {
	var h History
	for i := 0; i < 14; i++ {
		h.Append(msgAt(fmt.Sprintf("2024-01-01T00:00:%02dZ", i), RoleUser, fmt.Sprintf("m%d", i)))
	}

	out := h.Window()
	if len(out) != HistoryLimit {
		t.Fatalf("window length = %d, want %d", len(out), HistoryLimit)
	}
	if out[0].Content != "m4" {
		t.Errorf("oldest kept = %q, want m4", out[0].Content)
	}
	if out[len(out)-1].Content != "m13" {
		t.Errorf("newest kept = %q, want m13", out[len(out)-1].Content)
	}
}

func TestWindowShortHistoryUnchanged(t *testing.T) {
	h := NewHistory([]Message{
		msgAt("2024-01-01T00:00:01Z", RoleUser, "hello"),
	})
	out := h.Window()
	if len(out) != 1 || out[0].Content != "hello" {
		t.Errorf("window = %+v", out)
	}
}

func TestTruncateKeepsMostRecent(t *testing.T) {
	var h History
	for i := 0; i < 14; i++ {
		h.Append(msgAt(fmt.Sprintf("2024-01-01T00:00:%02dZ", i), RoleUser, fmt.Sprintf("m%d", i)))
	}

	h.Truncate()
	if h.Len() != HistoryLimit {
		t.Fatalf("length = %d, want %d", h.Len(), HistoryLimit)
	}
	msgs := h.Messages()
	if msgs[0].Content != "m4" {
		t.Errorf("oldest kept = %q, want m4", msgs[0].Content)
	}
	if msgs[len(msgs)-1].Content != "m13" {
		t.Errorf("newest kept = %q, want m13", msgs[len(msgs)-1].Content)
	}
}

func TestTruncateShortHistoryUnchanged(t *testing.T) {
	h := NewHistory([]Message{
		msgAt("2024-01-01T00:00:01Z", RoleUser, "hello"),
	})
	h.Truncate()
	if h.Len() != 1 {
		t.Errorf("length = %d, want 1", h.Len())
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	h := NewHistory([]Message{msgAt("2024-01-01T00:00:01Z", RoleUser, "x")})
	got := h.Messages()
	got[0].Content = "mutated"
	if h.Messages()[0].Content != "x" {
		t.Error("Messages leaked internal slice")
	}
}
