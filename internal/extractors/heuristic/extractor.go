// Package heuristic provides the default entity extractor.
//
// The heuristic is intentionally crude: whitespace tokens longer than
// five characters whose first character is an uppercase letter are
// treated as entity candidates. It exists to give the knowledge graph
// something to link on without a model dependency; swap in a real NER
// extractor via the driven.EntityExtractor port for better quality.
package heuristic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quarrylabs/strata-cli/internal/core/ports/driven"
)

// MinEntityLength is the exclusive lower bound on entity token length.
const MinEntityLength = 5

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// Extractor keeps capitalized whitespace tokens as entities.
type Extractor struct{}

// New creates a heuristic extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the distinct capitalized tokens longer than
// MinEntityLength, case-sensitively deduplicated, in first-seen order.
func (e *Extractor) Extract(text string) []string {
	var entities []string
	seen := make(map[string]struct{})

	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) <= MinEntityLength {
			continue
		}
		first, _ := utf8.DecodeRuneInString(token)
		if !unicode.IsUpper(first) {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		entities = append(entities, token)
	}

	return entities
}
