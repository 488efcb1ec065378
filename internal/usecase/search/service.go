package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/request"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
)

// Params is a raw search request as it arrives from the API.
type Params struct {
	Engine    engine.Engine
	Query     string
	Geography string
	Category  string
	Version   *int
	From      time.Time
	To        time.Time
}

// Service runs searches over the NDC passage index and aggregates the hits
// into document-level results.
type Service struct {
	repo     Repository
	embedder Embedder
	geos     Geographies
	limit    int
	logger   *zap.Logger
}

// New creates a search service. limit caps the number of passages fetched
// from the index per query.
func New(repo Repository, embedder Embedder, geos Geographies, limit int, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		embedder: embedder,
		geos:     geos,
		limit:    limit,
		logger:   logger,
	}
}

// Search validates the request, queries the index with the selected engine,
// and returns aggregated document results ordered by score ascending.
func (s *Service) Search(ctx context.Context, params Params) ([]result.Aggregated, error) {
	filters := request.Filters{
		Geography: params.Geography,
		Category:  params.Category,
		Version:   params.Version,
		From:      params.From,
		To:        params.To,
	}

	var req request.Request
	var err error

	switch params.Engine.Kind() {
	case engine.Neural:
		if params.Query == "" {
			return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidRequest)
		}
		emb, embErr := s.embedder.Embed(ctx, []string{params.Query})
		if embErr != nil {
			return nil, fmt.Errorf("embed query: %w", embErr)
		}
		req, err = request.NewNeural(emb.Embeddings[0], filters)
	default:
		req, err = request.NewFulltext(params.Engine, params.Query, filters)
	}
	if err != nil {
		return nil, err
	}

	expr, err := buildFilters(req, s.geos)
	if err != nil {
		return nil, err
	}

	switch req.Engine().Kind() {
	case engine.Neural:
		hits, err := s.repo.SearchVector(ctx, req.Vector(), expr, s.limit)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Neural search done",
			zap.Int("hits", len(hits)), zap.Int("limit", s.limit))
		return Aggregate(hits, engine.Neural), nil
	default:
		hits, err := s.repo.SearchFulltext(ctx, req.Text(), expr, s.limit)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Fulltext search done",
			zap.Int("hits", len(hits)), zap.Int("limit", s.limit))
		return Aggregate(hits, engine.Fulltext), nil
	}
}
