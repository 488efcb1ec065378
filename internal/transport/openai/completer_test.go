package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ndc-analytics/ndcsearch/internal/domain/chat"
)

func TestBuildRequestSendsTemperatureOnWire(t *testing.T) {
	c := &Completer{model: "gpt-4o"}
	req := c.buildRequest("system prompt", []chat.Message{
		{Role: chat.RoleUser, Content: "hi"},
	})

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	if !strings.Contains(string(data), `"temperature"`) {
		t.Errorf("temperature missing from request body: %s", data)
	}
	if req.Temperature >= 1e-9 {
		t.Errorf("temperature = %v, want effectively zero", req.Temperature)
	}
}

func TestBuildRequestPrependsSystemMessage(t *testing.T) {
	c := &Completer{model: "gpt-4o"}
	req := c.buildRequest("system prompt", []chat.Message{
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "second"},
	})

	if len(req.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "system prompt" {
		t.Errorf("first message = %+v, want system prompt", req.Messages[0])
	}
	if req.Messages[1].Content != "first" || req.Messages[2].Content != "second" {
		t.Errorf("history order not preserved: %+v", req.Messages[1:])
	}
}
