package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domcatalog "github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
)

// Loader scans the index and builds the catalog.
type Loader interface {
	Load(ctx context.Context) (domcatalog.Metadata, error)
}

// Service caches the corpus catalog. Building it scans the whole index, so
// the result is reused until the TTL elapses; when a refresh fails, the
// previous catalog is served stale rather than erroring the request.
type Service struct {
	loader Loader
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	cached   domcatalog.Metadata
	loadedAt time.Time
	hasData  bool
}

// New creates a catalog service.
func New(loader Loader, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{loader: loader, ttl: ttl, logger: logger}
}

// Metadata returns the corpus catalog, refreshing it when the TTL elapsed.
func (s *Service) Metadata(ctx context.Context) (domcatalog.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasData && time.Since(s.loadedAt) < s.ttl {
		return s.cached, nil
	}

	meta, err := s.loader.Load(ctx)
	if err != nil {
		if s.hasData {
			s.logger.Warn("Catalog refresh failed, serving stale data", zap.Error(err))
			return s.cached, nil
		}
		return domcatalog.Metadata{}, fmt.Errorf("load catalog: %w", err)
	}

	s.cached = meta
	s.loadedAt = time.Now()
	s.hasData = true
	return meta, nil
}

// Invalidate drops the cached catalog so the next read reloads.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasData = false
}
