package dictionary

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer turns a raw cell into a dictionary word.
// It is not safe for concurrent use.
type Normalizer struct {
	lower cases.Caser
	fold  bool
}

// NewNormalizer returns a Normalizer that trims and, when lowercase is set,
// folds words to lower case.
func NewNormalizer(lowercase bool) *Normalizer {
	return &Normalizer{
		lower: cases.Lower(language.Und),
		fold:  lowercase,
	}
}

// Word trims cell and optionally lowercases it. An empty result means the
// cell carries no word.
func (n *Normalizer) Word(cell string) string {
	word := strings.TrimSpace(cell)
	if n.fold {
		word = n.lower.String(word)
	}
	return strings.TrimSpace(word)
}
