package search

import (
	"math"
	"testing"
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
)

func neuralHit(file string, pages []int, score float64) passage.Passage {
	return passage.Passage{
		FileName:  file,
		ISO:       "KEN",
		Party:     "Kenya",
		Date:      time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC),
		Version:   1,
		Title:     "Kenya NDC",
		Pages:     pages,
		Relevance: score,
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, engine.Neural); got != nil {
		t.Errorf("Aggregate(nil) = %v, want nil", got)
	}
}

func TestAggregateGroupsByDocument(t *testing.T) {
	passages := []passage.Passage{
		neuralHit("a.pdf", []int{1}, 80),
		neuralHit("b.pdf", []int{2}, 90),
		neuralHit("a.pdf", []int{5}, 70),
	}

	got := Aggregate(passages, engine.Neural)
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	for _, r := range got {
		switch r.FileName {
		case "a.pdf":
			if r.Count != 2 {
				t.Errorf("a.pdf count = %d, want 2", r.Count)
			}
		case "b.pdf":
			if r.Count != 1 {
				t.Errorf("b.pdf count = %d, want 1", r.Count)
			}
		default:
			t.Errorf("unexpected file %q", r.FileName)
		}
	}
}

func TestAggregatePercentile75(t *testing.T) {
	passages := []passage.Passage{
		neuralHit("a.pdf", []int{1}, 10),
		neuralHit("a.pdf", []int{2}, 20),
		neuralHit("a.pdf", []int{3}, 30),
		neuralHit("a.pdf", []int{4}, 40),
	}

	got := Aggregate(passages, engine.Neural)
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
	// interpolated 75th percentile of [10 20 30 40]
	if math.Abs(got[0].Score-32.5) > 1e-9 {
		t.Errorf("score = %v, want 32.5", got[0].Score)
	}
}

func TestAggregateSingleMatchScore(t *testing.T) {
	got := Aggregate([]passage.Passage{neuralHit("a.pdf", []int{1}, 64)}, engine.Neural)
	if got[0].Score != 64 {
		t.Errorf("score = %v, want 64", got[0].Score)
	}
}

func TestAggregateFulltextDistanceConversion(t *testing.T) {
	p := neuralHit("a.pdf", []int{1}, 0.25) // distance, not score
	got := Aggregate([]passage.Passage{p}, engine.Fulltext)
	if got[0].Score != 75 {
		t.Errorf("score = %v, want 75", got[0].Score)
	}
}

func TestAggregateOrdersAscending(t *testing.T) {
	passages := []passage.Passage{
		neuralHit("mid.pdf", []int{1}, 50),
		neuralHit("high.pdf", []int{1}, 90),
		neuralHit("low.pdf", []int{1}, 10),
	}

	got := Aggregate(passages, engine.Neural)
	want := []string{"low.pdf", "mid.pdf", "high.pdf"}
	for i, w := range want {
		if got[i].FileName != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].FileName, w)
		}
	}
}

func TestAggregateMatchesSortedByFirstPage(t *testing.T) {
	passages := []passage.Passage{
		neuralHit("a.pdf", []int{7, 8}, 50),
		neuralHit("a.pdf", []int{2}, 60),
		neuralHit("a.pdf", nil, 70),
	}

	got := Aggregate(passages, engine.Neural)
	m := got[0].Matches
	if len(m) != 3 {
		t.Fatalf("matches = %d, want 3", len(m))
	}
	if len(m[0].Pages) != 0 {
		t.Errorf("first match should be the pageless one, got %v", m[0].Pages)
	}
	if len(m[1].Pages) == 0 || m[1].Pages[0] != 2 {
		t.Errorf("second match pages = %v, want [2]", m[1].Pages)
	}
	if len(m[2].Pages) == 0 || m[2].Pages[0] != 7 {
		t.Errorf("third match pages = %v, want [7 8]", m[2].Pages)
	}
}

func TestAggregateDistinguishesVersions(t *testing.T) {
	v1 := neuralHit("a.pdf", []int{1}, 50)
	v2 := neuralHit("a.pdf", []int{1}, 60)
	v2.Version = 2

	got := Aggregate([]passage.Passage{v1, v2}, engine.Neural)
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2 (versions are distinct documents)", len(got))
	}
}

func TestPercentile75(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"single", []float64{42}, 42},
		{"pair", []float64{0, 100}, 75},
		{"quartet", []float64{10, 20, 30, 40}, 32.5},
		{"unsorted input", []float64{40, 10, 30, 20}, 32.5},
		{"empty", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := percentile75(tc.scores); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("percentile75(%v) = %v, want %v", tc.scores, got, tc.want)
			}
		})
	}
}
