package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	domcatalog "github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
)

type stubLoader struct {
	meta  domcatalog.Metadata
	err   error
	calls int
}

func (s *stubLoader) Load(_ context.Context) (domcatalog.Metadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestMetadataCaches(t *testing.T) {
	loader := &stubLoader{meta: domcatalog.Metadata{
		Documents: []domcatalog.Document{{ISO: "KEN"}},
	}}
	svc := New(loader, time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		meta, err := svc.Metadata(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(meta.Documents) != 1 {
			t.Fatalf("documents = %d", len(meta.Documents))
		}
	}
	if loader.calls != 1 {
		t.Errorf("loader calls = %d, want 1", loader.calls)
	}
}

func TestMetadataRefreshesAfterTTL(t *testing.T) {
	loader := &stubLoader{}
	svc := New(loader, 0, zap.NewNop())

	svc.Metadata(context.Background())
	svc.Metadata(context.Background())
	if loader.calls != 2 {
		t.Errorf("loader calls = %d, want 2", loader.calls)
	}
}

func TestMetadataServesStaleOnRefreshFailure(t *testing.T) {
	loader := &stubLoader{meta: domcatalog.Metadata{
		Documents: []domcatalog.Document{{ISO: "KEN"}},
	}}
	svc := New(loader, 0, zap.NewNop())

	if _, err := svc.Metadata(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader.err = errors.New("index down")
	meta, err := svc.Metadata(context.Background())
	if err != nil {
		t.Fatalf("expected stale data, got error: %v", err)
	}
	if len(meta.Documents) != 1 {
		t.Errorf("stale documents = %d, want 1", len(meta.Documents))
	}
}

func TestMetadataErrorsWithNoCache(t *testing.T) {
	loader := &stubLoader{err: errors.New("index down")}
	svc := New(loader, time.Hour, zap.NewNop())

	if _, err := svc.Metadata(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestInvalidate(t *testing.T) {
	loader := &stubLoader{}
	svc := New(loader, time.Hour, zap.NewNop())

	svc.Metadata(context.Background())
	svc.Invalidate()
	svc.Metadata(context.Background())
	if loader.calls != 2 {
		t.Errorf("loader calls = %d, want 2", loader.calls)
	}
}
