package chat

import (
	"sort"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser is the human participant.
	RoleUser Role = "user"
	// RoleAssistant is the model.
	RoleAssistant Role = "assistant"
)

// HistoryLimit is the maximum number of messages sent to the model,
// not counting the system prompt.
const HistoryLimit = 10

// Message is one conversation turn. Timestamp is RFC 3339 with nanoseconds in
// UTC so that lexical order equals chronological order.
type Message struct {
	Timestamp string `json:"timestamp"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Role:      role,
		Content:   content,
	}
}

// History is an append-only conversation transcript.
type History struct {
	messages []Message
}

// NewHistory creates a history from existing messages.
func NewHistory(messages []Message) History {
	return History{messages: append([]Message(nil), messages...)}
}

// Append adds a message to the transcript.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
}

// Messages returns a copy of the transcript in insertion order.
func (h *History) Messages() []Message {
	return append([]Message(nil), h.messages...)
}

// Sorted returns the transcript ordered by timestamp. The sort is stable so
// that messages sharing a timestamp keep their insertion order.
func (h *History) Sorted() []Message {
	out := h.Messages()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Window returns the last HistoryLimit messages of the sorted transcript.
func (h *History) Window() []Message {
	out := h.Sorted()
	if len(out) > HistoryLimit {
		out = out[len(out)-HistoryLimit:]
	}
	return out
}

// Truncate drops the oldest messages so that at most HistoryLimit remain.
func (h *History) Truncate() {
	if len(h.messages) > HistoryLimit {
		h.messages = append([]Message(nil), h.messages[len(h.messages)-HistoryLimit:]...)
	}
}

// Len returns the number of messages.
func (h *History) Len() int { return len(h.messages) }

// Stream yields the chunks of a model reply as they are generated.
type Stream interface {
	// Recv returns the next chunk, or io.EOF when the reply is complete.
	Recv() (string, error)
	Close() error
}
