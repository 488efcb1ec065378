package openai

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/chat"
	"github.com/ndc-analytics/ndcsearch/internal/metrics"
)

// Completer generates chat completions via the OpenAI-compatible API.
// Temperature is pinned to zero: answers must stay grounded in the
// retrieved contexts.
type Completer struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion provider.
func NewCompleter(cfg *Config) *Completer {
	return &Completer{
		client:   newClient(cfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Complete runs a non-streaming completion and returns the full reply text.
func (c *Completer) Complete(ctx context.Context, system string, messages []chat.Message) (string, error) {
	req := c.buildRequest(system, messages)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.recordError(err)
		return "", parseAPIError("chat", err)
	}
	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModelFailure)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

// Stream starts a streaming completion. Errors raised while opening the
// stream are classified; errors mid-stream surface through Recv.
func (c *Completer) Stream(ctx context.Context, system string, messages []chat.Message) (chat.Stream, error) {
	req := c.buildRequest(system, messages)
	req.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		c.recordError(err)
		return nil, parseAPIError("chat", err)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	return &chatStream{inner: stream}, nil
}

func (c *Completer) buildRequest(system string, messages []chat.Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
		// Temperature has omitempty, so a literal 0 never reaches the API
		// and the provider falls back to its default. The smallest positive
		// float pins it to zero on the wire.
		Temperature: math.SmallestNonzeroFloat32,
	}
}

func (c *Completer) recordError(err error) {
	status := "error"
	if isContentFiltered(err) {
		status = "content_filtered"
		metrics.ChatContentFilteredTotal.WithLabelValues(c.provider, c.model).Inc()
	}
	metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, status).Inc()
}

// chatStream adapts the provider stream to chat.Stream.
type chatStream struct {
	inner *openai.ChatCompletionStream
}

func (s *chatStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", parseAPIError("chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *chatStream) Close() error {
	return s.inner.Close()
}
