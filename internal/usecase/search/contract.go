package search

import (
	"context"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/filter"
)

// Repository reads passages from the search index.
type Repository interface {
	SearchVector(ctx context.Context, vector []float32, filters filter.Expression, limit int) ([]passage.Passage, error)
	SearchFulltext(ctx context.Context, query string, filters filter.Expression, limit int) ([]passage.Passage, error)
}

// Embedder converts query text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) (domain.EmbeddingResult, error)
}

// Geographies resolves geography option names to ISO country codes.
type Geographies interface {
	Resolve(name string) ([]string, error)
}
