package passage

import (
	"fmt"
	"strings"
	"time"
)

// Type distinguishes original submissions from English translations.
type Type string

const (
	// TypeOriginal is a document in its language of submission.
	TypeOriginal Type = "original"
	// TypeTranslation is an English translation of an original.
	TypeTranslation Type = "translation"
)

// Passage is a page-scoped text chunk of an NDC document, the atomic unit of
// search. Produced by the index in response to a query; treated as immutable.
//
// Relevance holds the raw engine value: a distance in [0,1) for full-text
// hits, a score in [0,100] for neural hits. The aggregator normalizes both
// onto the score scale.
type Passage struct {
	ISO        string
	Party      string
	Version    int
	Date       time.Time
	Type       Type
	Title      string
	URL        string
	FileName   string
	Language   string
	Text       string
	Pages      []int
	Categories []string
	Relevance  float64
	Vector     []float32
}

// Identity is the document-level grouping key for passages.
type Identity struct {
	FileName string
	Language string
	ISO      string
	Party    string
	Date     int64
	Version  int
	Title    string
	Type     Type
	URL      string
}

// Identity returns the document identity this passage belongs to.
func (p *Passage) Identity() Identity {
	return Identity{
		FileName: p.FileName,
		Language: p.Language,
		ISO:      p.ISO,
		Party:    p.Party,
		Date:     p.Date.Unix(),
		Version:  p.Version,
		Title:    p.Title,
		Type:     p.Type,
		URL:      p.URL,
	}
}

// Citation returns a user-facing markdown citation with a deep link to the
// first matched page. Pages are zero-indexed in the index and displayed
// one-indexed.
func (p *Passage) Citation() string {
	var page string
	if len(p.Pages) > 1 {
		page = fmt.Sprintf("pp. %d-%d", p.Pages[0]+1, p.Pages[len(p.Pages)-1]+1)
	} else if len(p.Pages) == 1 {
		page = fmt.Sprintf("p. %d", p.Pages[0]+1)
	}
	url := p.URL
	if len(p.Pages) > 0 {
		url = fmt.Sprintf("%s#page=%d", p.URL, p.Pages[0]+1)
	}
	return strings.TrimSpace(fmt.Sprintf("[%s](%s), %s %d", p.Title, url, page, p.Date.Year()))
}

// Context is a citation-bearing prompt fragment derived from a passage.
type Context struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// ToContext converts the passage into a prompt context.
func (p *Passage) ToContext() Context {
	return Context{
		Source: p.Citation(),
		Text:   p.Text,
	}
}
