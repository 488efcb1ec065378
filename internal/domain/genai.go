package domain

import "context"

// EmbeddingResult holds embeddings for a batch of texts plus token usage.
// TotalTokens is zero when every embedding came from cache.
type EmbeddingResult struct {
	Embeddings  [][]float32
	TotalTokens int
}

// Embedder converts texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) (EmbeddingResult, error)
}
