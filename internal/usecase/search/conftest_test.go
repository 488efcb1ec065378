package search

import (
	"context"
	"fmt"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/filter"
)

type mockRepo struct {
	vectorHits   []passage.Passage
	fulltextHits []passage.Passage
	err          error

	lastVector  []float32
	lastQuery   string
	lastFilters filter.Expression
	lastLimit   int
	vectorCalls int
	textCalls   int
}

func (m *mockRepo) SearchVector(
	_ context.Context, vector []float32, filters filter.Expression, limit int,
) ([]passage.Passage, error) {
	m.vectorCalls++
	m.lastVector = vector
	m.lastFilters = filters
	m.lastLimit = limit
	return m.vectorHits, m.err
}

func (m *mockRepo) SearchFulltext(
	_ context.Context, query string, filters filter.Expression, limit int,
) ([]passage.Passage, error) {
	m.textCalls++
	m.lastQuery = query
	m.lastFilters = filters
	m.lastLimit = limit
	return m.fulltextHits, m.err
}

type mockEmbedder struct {
	vector []float32
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
	return domain.EmbeddingResult{Embeddings: embeddings}, nil
}

// mockGeos resolves a fixed option table.
type mockGeos struct {
	table map[string][]string
}

func (m *mockGeos) Resolve(name string) ([]string, error) {
	if name == "" || name == "All countries" {
		return nil, nil
	}
	codes, ok := m.table[name]
	if !ok {
		return nil, fmt.Errorf("unknown geography %q", name)
	}
	return codes, nil
}

func defaultGeos() *mockGeos {
	return &mockGeos{table: map[string][]string{
		"Kenya":          {"KEN"},
		"Eastern Africa": {"KEN", "ETH", "TZA"},
	}}
}
