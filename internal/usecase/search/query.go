package search

import (
	"fmt"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/filter"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/request"
)

// buildFilters translates a validated request into index filter conditions.
//
// Full-text requests are pinned to the engine's language so that lexical
// matching only runs over documents it can score. Neural requests search all
// languages. The category selection deliberately produces no condition:
// category tags are too coarse to pre-filter on without hiding relevant
// passages, so categories only appear in corpus metadata.
func buildFilters(req request.Request, geos Geographies) (filter.Expression, error) {
	var conds []filter.Condition

	if !req.From().IsZero() || !req.To().IsZero() {
		var gte, lte *float64
		if !req.From().IsZero() {
			v := float64(req.From().Unix())
			gte = &v
		}
		if !req.To().IsZero() {
			v := float64(req.To().Unix())
			lte = &v
		}
		r, err := filter.NewRangeBounds(gte, lte)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		cond, err := filter.NewRange("date", r)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, cond)
	}

	if req.Engine().Kind() == engine.Fulltext {
		cond, err := filter.NewMatch("language", req.Engine().Language())
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, cond)
	}

	if v := req.Version(); v != nil {
		cond, err := filter.NewRange("version", filter.Exactly(float64(*v)))
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		conds = append(conds, cond)
	}

	if geo := req.Geography(); geo != "" {
		codes, err := geos.Resolve(geo)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
		}
		switch {
		case len(codes) == 1:
			cond, err := filter.NewMatch("iso", codes[0])
			if err != nil {
				return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
			}
			conds = append(conds, cond)
		case len(codes) > 1:
			cond, err := filter.NewSet("iso", codes)
			if err != nil {
				return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
			}
			conds = append(conds, cond)
		}
	}

	return filter.NewExpression(conds...), nil
}
