package panel

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
	"github.com/ndc-analytics/ndcsearch/internal/usecase/search"
)

type stubSearcher struct {
	results []result.Aggregated
	err     error
}

func (s *stubSearcher) Search(_ context.Context, _ search.Params) ([]result.Aggregated, error) {
	return s.results, s.err
}

type stubCatalog struct {
	meta catalog.Metadata
	err  error
}

func (s *stubCatalog) Metadata(_ context.Context) (catalog.Metadata, error) {
	return s.meta, s.err
}

func TestBuild(t *testing.T) {
	searcher := &stubSearcher{results: []result.Aggregated{hit("KEN", 2020, 3)}}
	cat := &stubCatalog{meta: catalog.Metadata{
		Documents: []catalog.Document{doc("KEN", "Kenya", 2020, 1)},
	}}
	svc := New(searcher, cat, testCountries, zap.NewNop())

	rows, err := svc.Build(context.Background(), search.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != len(testCountries) {
		t.Errorf("rows = %d, want %d", len(rows), len(testCountries))
	}
	if findRow(t, rows, "KEN", 2020).Count != 3 {
		t.Errorf("KEN count = %d, want 3", findRow(t, rows, "KEN", 2020).Count)
	}
}

func TestBuildSearchErrorPropagates(t *testing.T) {
	svc := New(&stubSearcher{err: errors.New("index down")}, &stubCatalog{}, testCountries, zap.NewNop())
	if _, err := svc.Build(context.Background(), search.Params{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildCatalogErrorPropagates(t *testing.T) {
	svc := New(&stubSearcher{}, &stubCatalog{err: errors.New("no catalog")}, testCountries, zap.NewNop())
	if _, err := svc.Build(context.Background(), search.Params{}); err == nil {
		t.Fatal("expected error")
	}
}
