package panel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	dompanel "github.com/ndc-analytics/ndcsearch/internal/domain/panel"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
	"github.com/ndc-analytics/ndcsearch/internal/usecase/search"
)

// Searcher runs an aggregated search.
type Searcher interface {
	Search(ctx context.Context, params search.Params) ([]result.Aggregated, error)
}

// CatalogReader provides the corpus catalog.
type CatalogReader interface {
	Metadata(ctx context.Context) (catalog.Metadata, error)
}

// Service builds complete country-by-year panels for map and trend views.
type Service struct {
	searcher  Searcher
	catalog   CatalogReader
	countries []refdata.Country
	logger    *zap.Logger
}

// New creates a panel service over the mappable country set.
func New(searcher Searcher, cat CatalogReader, countries []refdata.Country, logger *zap.Logger) *Service {
	return &Service{
		searcher:  searcher,
		catalog:   cat,
		countries: countries,
		logger:    logger,
	}
}

// Build searches with the given parameters and completes the results into a
// dense panel covering every mappable country and submission year.
func (s *Service) Build(ctx context.Context, params search.Params) ([]dompanel.Row, error) {
	results, err := s.searcher.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("panel search: %w", err)
	}

	meta, err := s.catalog.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("panel catalog: %w", err)
	}

	rows := Complete(results, meta.Documents, s.countries)
	s.logger.Debug("Panel built",
		zap.Int("results", len(results)),
		zap.Int("rows", len(rows)))
	return rows, nil
}
