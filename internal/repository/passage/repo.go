package passage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/db"
	"github.com/ndc-analytics/ndcsearch/internal/domain"
	dompassage "github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/filter"
)

const (
	// IndexName is the FT index over indexed NDC passages.
	IndexName = domain.KeyPrefix + "passages:idx"
	// KeyPrefix is the hash key prefix of indexed passages.
	KeyPrefix = domain.KeyPrefix + "passage:"

	listPageSize = 1000
)

// store is the consumer interface for passage search operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// metadata fields returned for every hit; text is added for search, vector
// is never returned.
var docFields = []string{
	"iso", "party", "version", "date", "type",
	"title", "url", "file_name", "language", "pages", "categories",
}

// Repo reads NDC passages from the search index.
type Repo struct {
	store      store
	vectorDims int
}

// New creates a passage repository. vectorDims is the embedding width of the
// index schema.
func New(s store, vectorDims int) *Repo {
	return &Repo{store: s, vectorDims: vectorDims}
}

// EnsureIndex creates the passages FT index if it does not exist. An external
// ingestion job populates the hashes; this service only guarantees the schema.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check passages index: %w: %w", domain.ErrBackendUnavailable, err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(IndexName).
		Prefix(KeyPrefix).
		Tag("iso").
		Tag("language").
		Tag("type").
		TagWithSeparator("categories", ",").
		Numeric("version").
		Numeric("date").
		Text("text").
		VectorHNSW("vector", r.vectorDims, db.DistanceCosine).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create passages index: %w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// SearchVector performs a KNN search. Relevance of each returned passage is
// the similarity score scaled to [0, 100].
func (r *Repo) SearchVector(
	ctx context.Context, vector []float32, filters filter.Expression, limit int,
) ([]dompassage.Passage, error) {
	q := &db.KNNQuery{
		IndexName:    IndexName,
		Filters:      filters,
		Vector:       vector,
		K:            limit,
		ReturnFields: append([]string{"text", "__vector_score"}, docFields...),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search passages knn: %w: %w", domain.ErrBackendUnavailable, err)
	}

	passages := make([]dompassage.Passage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		p := parsePassage(entry)
		// entry.Score is cosine distance; clamp before scaling.
		p.Relevance = max(0, 1.0-entry.Score) * 100
		passages = append(passages, p)
	}
	return passages, nil
}

// SearchFulltext performs a BM25 search. Relevance of each returned passage
// is a pseudo-distance in (0, 1]: higher BM25 scores map closer to zero.
func (r *Repo) SearchFulltext(
	ctx context.Context, query string, filters filter.Expression, limit int,
) ([]dompassage.Passage, error) {
	q := &db.TextQuery{
		IndexName:    IndexName,
		Field:        "text",
		Query:        query,
		Filters:      filters,
		TopK:         limit,
		ReturnFields: append([]string{"text"}, docFields...),
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search passages fulltext: %w: %w", domain.ErrBackendUnavailable, err)
	}

	passages := make([]dompassage.Passage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		p := parsePassage(entry)
		p.Relevance = 1.0 / (1.0 + entry.Score)
		passages = append(passages, p)
	}
	return passages, nil
}

// ListAll pages through every indexed passage, returning document metadata
// without text or vectors. Used to build the corpus catalog.
func (r *Repo) ListAll(ctx context.Context) ([]dompassage.Passage, error) {
	var all []dompassage.Passage
	offset := 0

	for {
		sr, err := r.store.SearchList(ctx, IndexName, "*", offset, listPageSize, docFields)
		if err != nil {
			return nil, fmt.Errorf("list passages: %w: %w", domain.ErrBackendUnavailable, err)
		}

		for _, entry := range sr.Entries {
			all = append(all, parsePassage(entry))
		}

		offset += listPageSize
		if offset >= sr.Total || len(sr.Entries) == 0 {
			break
		}
	}

	return all, nil
}

// parsePassage converts flat hash fields into a domain passage.
func parsePassage(entry db.SearchEntry) dompassage.Passage {
	f := entry.Fields
	p := dompassage.Passage{
		ISO:      f["iso"],
		Party:    f["party"],
		Type:     dompassage.Type(f["type"]),
		Title:    f["title"],
		URL:      f["url"],
		FileName: f["file_name"],
		Language: f["language"],
		Text:     f["text"],
	}

	if v, err := strconv.Atoi(f["version"]); err == nil {
		p.Version = v
	}
	if epoch, err := strconv.ParseInt(f["date"], 10, 64); err == nil {
		p.Date = time.Unix(epoch, 0).UTC()
	}
	p.Pages = parsePages(f["pages"])
	if cats := f["categories"]; cats != "" {
		p.Categories = strings.Split(cats, ",")
	}

	return p
}

// parsePages parses the comma-separated zero-indexed page list, e.g. "3,4".
func parsePages(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	pages := make([]int, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			pages = append(pages, n)
		}
	}
	return pages
}
