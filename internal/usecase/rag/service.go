package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/chat"
	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/filter"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
)

// Repository reads passages from the search index.
type Repository interface {
	SearchVector(ctx context.Context, vector []float32, filters filter.Expression, limit int) ([]passage.Passage, error)
}

// Completer generates non-streaming completions.
type Completer interface {
	Complete(ctx context.Context, system string, messages []chat.Message) (string, error)
}

// Service retrieves citation-bearing contexts for answering questions about
// NDC submissions.
type Service struct {
	completer Completer
	embedder  domain.Embedder
	repo      Repository
	prompts   refdata.Prompts
	limit     int
	logger    *zap.Logger
}

// New creates a retrieval service. limit caps the number of passages used as
// answer contexts.
func New(
	completer Completer,
	embedder domain.Embedder,
	repo Repository,
	prompts refdata.Prompts,
	limit int,
	logger *zap.Logger,
) *Service {
	return &Service{
		completer: completer,
		embedder:  embedder,
		repo:      repo,
		prompts:   prompts,
		limit:     limit,
		logger:    logger,
	}
}

// Retrieve reformulates the question against the conversation, embeds the
// standalone form, and returns the best-matching passages as prompt contexts
// in retrieval order.
func (s *Service) Retrieve(ctx context.Context, history []chat.Message, question string) ([]passage.Context, error) {
	standalone, err := s.Paraphrase(ctx, history, question)
	if err != nil {
		return nil, err
	}

	emb, err := s.embedder.Embed(ctx, []string{standalone})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	passages, err := s.repo.SearchVector(ctx, emb.Embeddings[0], filter.Expression{}, s.limit)
	if err != nil {
		return nil, fmt.Errorf("retrieve contexts: %w", err)
	}

	s.logger.Debug("Contexts retrieved",
		zap.String("standalone", standalone),
		zap.Int("passages", len(passages)))

	return BuildContexts(passages), nil
}

// Paraphrase rewrites a follow-up question into a standalone one. With no
// prior conversation the question passes through the model unchanged in
// meaning, which also normalizes phrasing for retrieval.
func (s *Service) Paraphrase(ctx context.Context, history []chat.Message, question string) (string, error) {
	h := chat.NewHistory(history)
	h.Append(chat.NewMessage(chat.RoleUser, question))

	standalone, err := s.completer.Complete(ctx, s.prompts.Paraphrase, h.Window())
	if err != nil {
		return "", fmt.Errorf("paraphrase question: %w", err)
	}
	return standalone, nil
}

// BuildContexts converts passages into prompt contexts, preserving
// retrieval order.
func BuildContexts(passages []passage.Passage) []passage.Context {
	if len(passages) == 0 {
		return nil
	}
	contexts := make([]passage.Context, 0, len(passages))
	for i := range passages {
		contexts = append(contexts, passages[i].ToContext())
	}
	return contexts
}
