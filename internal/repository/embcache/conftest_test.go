package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/db"
	"github.com/ndc-analytics/ndcsearch/internal/domain"
)

type mockEmbedder struct {
	vector []float32
	tokens int
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.vector
	}
	return domain.EmbeddingResult{
		Embeddings:  embeddings,
		TotalTokens: m.tokens * len(texts),
	}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, time.Hour, nil, zap.NewNop())
	return ce, ms
}
