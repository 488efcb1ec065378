package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	domchat "github.com/ndc-analytics/ndcsearch/internal/domain/chat"
	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
)

// Fixed replies substituted when generation cannot proceed. They stream like
// model output so the client handles every reply the same way.
const (
	policyRejectedMessage = "I am sorry, but I cannot answer this question. " +
		"The conversation was flagged by the content filter. " +
		"Please rephrase your question or start a new conversation."
	failureMessage = "I am sorry, something went wrong while generating the answer. " +
		"Please try again in a moment."
)

// Kind classifies a reply.
type Kind string

const (
	// KindAnswer is a grounded model answer.
	KindAnswer Kind = "answer"
	// KindPolicyRejected is the fixed apology after a content filter rejection.
	KindPolicyRejected Kind = "policy_rejected"
	// KindFailed is the fixed notice after any other generation failure.
	KindFailed Kind = "failed"
)

// Reply is the outcome of a conversation turn. Stream always yields the full
// reply text, whatever the kind.
type Reply struct {
	Kind   Kind
	Stream domchat.Stream
}

// Completer opens streaming completions.
type Completer interface {
	Stream(ctx context.Context, system string, messages []domchat.Message) (domchat.Stream, error)
}

// Retriever fetches answer contexts for a question.
type Retriever interface {
	Retrieve(ctx context.Context, history []domchat.Message, question string) ([]passage.Context, error)
}

// Service runs grounded conversations over the NDC corpus.
type Service struct {
	completer Completer
	retriever Retriever
	prompts   refdata.Prompts
	logger    *zap.Logger
}

// New creates a chat service.
func New(completer Completer, retriever Retriever, prompts refdata.Prompts, logger *zap.Logger) *Service {
	return &Service{
		completer: completer,
		retriever: retriever,
		prompts:   prompts,
		logger:    logger,
	}
}

// Respond answers a question against the conversation history. Failures do
// not surface as errors: a content filter rejection or model failure yields
// a fixed substitute reply, so a turn always completes and can be appended
// to the transcript like any other.
func (s *Service) Respond(ctx context.Context, history domchat.History, question string) Reply {
	contexts, err := s.retriever.Retrieve(ctx, history.Messages(), question)
	if err != nil {
		return s.substitute(err)
	}

	system, err := s.answerPrompt(contexts)
	if err != nil {
		s.logger.Error("Failed to render answer prompt", zap.Error(err))
		return Reply{Kind: KindFailed, Stream: newFixedStream(failureMessage)}
	}

	history.Append(domchat.NewMessage(domchat.RoleUser, question))

	stream, err := s.completer.Stream(ctx, system, history.Window())
	if err != nil {
		return s.substitute(err)
	}

	return Reply{Kind: KindAnswer, Stream: stream}
}

// substitute classifies a generation failure into a fixed streamed reply.
func (s *Service) substitute(err error) Reply {
	if errors.Is(err, domain.ErrContentPolicy) {
		s.logger.Warn("Conversation rejected by content filter", zap.Error(err))
		return Reply{Kind: KindPolicyRejected, Stream: newFixedStream(policyRejectedMessage)}
	}
	s.logger.Error("Failed to generate answer", zap.Error(err))
	return Reply{Kind: KindFailed, Stream: newFixedStream(failureMessage)}
}

// answerPrompt renders the answering system prompt with serialized contexts.
func (s *Service) answerPrompt(contexts []passage.Context) (string, error) {
	data, err := json.MarshalIndent(contexts, "", "  ")
	if err != nil {
		return "", err
	}
	return strings.Replace(s.prompts.RAG, "{contexts}", string(data), 1), nil
}

// fixedStream streams a predetermined reply in small chunks.
type fixedStream struct {
	chunks []string
	pos    int
}

const fixedChunkSize = 16

func newFixedStream(text string) *fixedStream {
	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		n := fixedChunkSize
		if n > len(runes) {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return &fixedStream{chunks: chunks}
}

func (f *fixedStream) Recv() (string, error) {
	if f.pos >= len(f.chunks) {
		return "", io.EOF
	}
	chunk := f.chunks[f.pos]
	f.pos++
	return chunk, nil
}

func (f *fixedStream) Close() error { return nil }
