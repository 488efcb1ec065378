package engine

import "fmt"

// Kind is the execution mode of a search engine.
type Kind string

const (
	// Fulltext is lexical term matching, language-specific.
	Fulltext Kind = "fulltext"
	// Neural is embedding similarity, language-agnostic.
	Neural Kind = "neural"
)

// Engine is a closed set of search engine variants. Matching logic keys on
// Kind and Language; display text lives in a separate table so that renaming
// an option in the UI cannot change behavior.
type Engine struct {
	id       string
	kind     Kind
	language string
}

var (
	// FulltextEN is English full-text search.
	FulltextEN = Engine{id: "fulltext_en", kind: Fulltext, language: "en"}
	// NeuralSearch is multilingual vector search.
	NeuralSearch = Engine{id: "neural", kind: Neural}
)

var displayNames = map[Engine]string{
	FulltextEN:   "Full-text search (English)",
	NeuralSearch: "Neural search",
}

// All returns the supported engines in display order.
func All() []Engine {
	return []Engine{FulltextEN, NeuralSearch}
}

// Parse resolves an engine by its wire identifier.
func Parse(id string) (Engine, error) {
	for _, e := range All() {
		if e.id == id {
			return e, nil
		}
	}
	return Engine{}, fmt.Errorf("unknown search engine %q", id)
}

// ID returns the wire identifier.
func (e Engine) ID() string { return e.id }

// Kind returns the execution mode.
func (e Engine) Kind() Kind { return e.kind }

// Language returns the ISO 639-1 code for full-text engines, empty for neural.
func (e Engine) Language() string { return e.language }

// IsZero reports whether the engine is unset.
func (e Engine) IsZero() bool { return e.id == "" }

// String returns the display name.
func (e Engine) String() string {
	if name, ok := displayNames[e]; ok {
		return name
	}
	return e.id
}
