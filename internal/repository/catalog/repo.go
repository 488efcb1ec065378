package catalog

import (
	"context"
	"fmt"
	"sort"

	domcatalog "github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
)

// lister is the consumer interface over the passage repository.
type lister interface {
	ListAll(ctx context.Context) ([]passage.Passage, error)
}

// Repo derives corpus metadata from the passage index.
type Repo struct {
	passages lister
}

// New creates a catalog repository.
func New(passages lister) *Repo {
	return &Repo{passages: passages}
}

// Load scans the index and summarizes it: distinct documents, the corpus
// date range, passage counts per category, and party counts per version.
func (r *Repo) Load(ctx context.Context) (domcatalog.Metadata, error) {
	passages, err := r.passages.ListAll(ctx)
	if err != nil {
		return domcatalog.Metadata{}, fmt.Errorf("load catalog: %w", err)
	}

	var meta domcatalog.Metadata
	categoryCounts := make(map[string]int)
	versionParties := make(map[int]map[string]struct{})
	seenDocs := make(map[passage.Identity]struct{})

	for i := range passages {
		p := &passages[i]

		if meta.From.IsZero() || p.Date.Before(meta.From) {
			meta.From = p.Date
		}
		if p.Date.After(meta.To) {
			meta.To = p.Date
		}

		for _, cat := range p.Categories {
			categoryCounts[cat]++
		}

		if versionParties[p.Version] == nil {
			versionParties[p.Version] = make(map[string]struct{})
		}
		versionParties[p.Version][p.ISO] = struct{}{}

		id := p.Identity()
		if _, seen := seenDocs[id]; seen {
			continue
		}
		seenDocs[id] = struct{}{}
		meta.Documents = append(meta.Documents, domcatalog.Document{
			URL:      p.URL,
			ISO:      p.ISO,
			Party:    p.Party,
			Version:  p.Version,
			Language: refdata.LanguageName(p.Language),
			Date:     p.Date,
			Title:    p.Title,
			Type:     string(p.Type),
		})
	}

	meta.Categories = sortedCategories(categoryCounts)
	meta.Versions = sortedVersions(versionParties)
	sortDocuments(meta.Documents)

	return meta, nil
}

// sortedCategories orders categories by passage count descending, then name.
func sortedCategories(counts map[string]int) []domcatalog.CategoryCount {
	out := make([]domcatalog.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, domcatalog.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// sortedVersions orders versions ascending, counting distinct parties.
func sortedVersions(parties map[int]map[string]struct{}) []domcatalog.VersionCount {
	out := make([]domcatalog.VersionCount, 0, len(parties))
	for v, isos := range parties {
		out = append(out, domcatalog.VersionCount{Version: v, Parties: len(isos)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// sortDocuments orders newest first, then by party for a stable listing.
func sortDocuments(docs []domcatalog.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].Date.Equal(docs[j].Date) {
			return docs[i].Date.After(docs[j].Date)
		}
		return docs[i].Party < docs[j].Party
	})
}
