package search

import (
	"math"
	"sort"

	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
)

// Aggregate collapses passage hits into document-level results. Passages
// sharing a document identity become one result carrying all their matches,
// a match count, and a 75th-percentile score. Results are returned ordered
// by score ascending so the strongest documents arrive last.
func Aggregate(passages []passage.Passage, kind engine.Kind) []result.Aggregated {
	if len(passages) == 0 {
		return nil
	}

	groups := make(map[passage.Identity]int)
	var out []result.Aggregated

	for i := range passages {
		p := &passages[i]
		id := p.Identity()

		idx, seen := groups[id]
		if !seen {
			idx = len(out)
			groups[id] = idx
			out = append(out, result.Aggregated{
				FileName: p.FileName,
				Language: p.Language,
				ISO:      p.ISO,
				Party:    p.Party,
				Date:     p.Date,
				Version:  p.Version,
				Title:    p.Title,
				Type:     p.Type,
				URL:      p.URL,
			})
		}

		out[idx].Matches = append(out[idx].Matches, result.Match{
			Pages: p.Pages,
			Text:  p.Text,
			Score: matchScore(p.Relevance, kind),
		})
	}

	for i := range out {
		r := &out[i]
		sortMatches(r.Matches)
		r.Count = len(r.Matches)
		r.Score = percentile75(matchScores(r.Matches))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})

	return out
}

// matchScore normalizes the engine relevance onto [0, 100]. Full-text
// relevance is a distance; neural relevance is already a score.
func matchScore(relevance float64, kind engine.Kind) float64 {
	if kind == engine.Fulltext {
		return (1.0 - relevance) * 100
	}
	return relevance
}

// sortMatches orders matches by their first page, keeping hit order for ties.
func sortMatches(matches []result.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return firstPage(matches[i]) < firstPage(matches[j])
	})
}

func firstPage(m result.Match) int {
	if len(m.Pages) == 0 {
		return 0
	}
	return m.Pages[0]
}

func matchScores(matches []result.Match) []float64 {
	scores := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.Score
	}
	return scores
}

// percentile75 computes the 75th percentile with linear interpolation
// between closest ranks.
func percentile75(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	pos := 0.75 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
