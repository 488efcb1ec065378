package refdata

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

//go:embed data/prompts.toml
var promptsTOML []byte

// Prompts holds the system prompt templates used by the chat pipeline.
type Prompts struct {
	// Paraphrase rewrites a follow-up question into a standalone query.
	Paraphrase string `toml:"paraphrase"`
	// RAG is the answering prompt; the literal {contexts} placeholder is
	// replaced with serialized retrieval contexts.
	RAG string `toml:"rag"`
}

// LoadPrompts parses the embedded prompt templates.
func LoadPrompts() (Prompts, error) {
	var p Prompts
	if err := toml.Unmarshal(promptsTOML, &p); err != nil {
		return Prompts{}, fmt.Errorf("parse prompts: %w", err)
	}
	if p.Paraphrase == "" || p.RAG == "" {
		return Prompts{}, fmt.Errorf("prompts are incomplete")
	}
	return p, nil
}

// MustLoadPrompts is LoadPrompts that panics on error.
func MustLoadPrompts() Prompts {
	p, err := LoadPrompts()
	if err != nil {
		panic(err)
	}
	return p
}
