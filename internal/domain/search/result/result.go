package result

import (
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/domain/passage"
)

// Match is a single passage hit within an aggregated document result.
// Score is normalized to [0, 100].
type Match struct {
	Pages []int
	Text  string
	Score float64
}

// Aggregated is a document-level search result: all passage hits from one
// document collapsed into one row. Score is the 75th percentile of the
// match scores.
type Aggregated struct {
	FileName string
	Language string
	ISO      string
	Party    string
	Date     time.Time
	Version  int
	Title    string
	Type     passage.Type
	URL      string
	Matches  []Match
	Count    int
	Score    float64
}
