package request

import (
	"fmt"
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
)

// Filters carries the optional narrowing criteria of a search request.
// Zero values mean "not set".
type Filters struct {
	Geography string
	Category  string
	Version   *int
	From      time.Time
	To        time.Time
}

// Request is a validated search request. Exactly one of text or vector is
// populated, matching the engine kind.
type Request struct {
	eng       engine.Engine
	text      string
	vector    []float32
	geography string
	category  string
	version   *int
	from      time.Time
	to        time.Time
}

// New validates and creates a search request. Full-text engines require query
// text; neural engines require a query vector. The date range, when both ends
// are set, must not be inverted.
func New(eng engine.Engine, text string, vector []float32, f Filters) (Request, error) {
	if eng.IsZero() {
		return Request{}, fmt.Errorf("%w: search engine is required", domain.ErrInvalidRequest)
	}
	switch eng.Kind() {
	case engine.Fulltext:
		if text == "" {
			return Request{}, fmt.Errorf("%w: query text is required for full-text search", domain.ErrInvalidRequest)
		}
		if len(vector) > 0 {
			return Request{}, fmt.Errorf("%w: query vector is not applicable to full-text search", domain.ErrInvalidRequest)
		}
	case engine.Neural:
		if len(vector) == 0 {
			return Request{}, fmt.Errorf("%w: query vector is required for neural search", domain.ErrInvalidRequest)
		}
	default:
		return Request{}, fmt.Errorf("%w: unknown engine kind %q", domain.ErrInvalidRequest, eng.Kind())
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return Request{}, fmt.Errorf("%w: date range is inverted", domain.ErrInvalidRequest)
	}
	if f.Version != nil && *f.Version < 1 {
		return Request{}, fmt.Errorf("%w: version must be positive", domain.ErrInvalidRequest)
	}
	return Request{
		eng:       eng,
		text:      text,
		vector:    vector,
		geography: f.Geography,
		category:  f.Category,
		version:   f.Version,
		from:      f.From,
		to:        f.To,
	}, nil
}

// NewFulltext creates a validated full-text request.
func NewFulltext(eng engine.Engine, text string, f Filters) (Request, error) {
	return New(eng, text, nil, f)
}

// NewNeural creates a validated neural request.
func NewNeural(vector []float32, f Filters) (Request, error) {
	return New(engine.NeuralSearch, "", vector, f)
}

// Engine returns the selected search engine.
func (r Request) Engine() engine.Engine { return r.eng }

// Text returns the full-text query string.
func (r Request) Text() string { return r.text }

// Vector returns the neural query embedding.
func (r Request) Vector() []float32 { return r.vector }

// Geography returns the selected geography option, empty if unset.
func (r Request) Geography() string { return r.geography }

// Category returns the selected topical category, empty if unset.
func (r Request) Category() string { return r.category }

// Version returns the submission version filter, nil if unset.
func (r Request) Version() *int { return r.version }

// From returns the inclusive lower date bound, zero if unset.
func (r Request) From() time.Time { return r.from }

// To returns the inclusive upper date bound, zero if unset.
func (r Request) To() time.Time { return r.to }
