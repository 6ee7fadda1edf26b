// =============================================================================
// CSV to LIWC Dictionary - Scan Module
// =============================================================================
//
// This module checks which dictionary entries and categories occur in a
// piece of text. It is a quick way to try out a freshly converted
// dictionary, not a replacement for LIWC's own scoring.
//
// MATCHING RULES:
//   - Text and entries are lowercased and split into tokens of letters,
//     digits and apostrophes; everything else separates tokens.
//   - A plain entry matches whole tokens only ("happy" does not match
//     "unhappy" or "happyness").
//   - An entry ending in "*" matches any token starting with the rest
//     ("happ*" matches "happy" and "happiness").
//   - Multi-token entries ("kind of") match the same token sequence.
//   - Each entry counts once per text, however often it occurs.
//
// =============================================================================

package scan

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dictionary"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
)

// Wildcard marks a prefix entry.
const Wildcard = "*"

// Report is the outcome of scanning one text.
type Report struct {
	// Tokens is the number of tokens in the text.
	Tokens int

	// Matches lists the dictionary entries found, sorted.
	Matches []string

	// CategoryHits maps a category number to the number of matched
	// entries belonging to it. Categories without hits are absent.
	CategoryHits map[int]int
}

// entry is one matcher pattern and what it stands for.
type entry struct {
	words      []string
	categories []int
}

// Scanner matches text against one dictionary. It is safe for concurrent
// use.
type Scanner struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	entries []entry
	norm    *dictionary.Normalizer
}

// New builds a Scanner for d. Entries that normalize to nothing are
// ignored; entries that normalize to the same pattern are merged.
func New(d *types.Dictionary) *Scanner {
	s := &Scanner{norm: dictionary.NewNormalizer(true)}

	index := make(map[string]int)
	var patterns []string

	for _, word := range d.Words {
		pattern := s.pattern(word)
		if pattern == "" {
			continue
		}

		i, ok := index[pattern]
		if !ok {
			i = len(s.entries)
			index[pattern] = i
			patterns = append(patterns, pattern)
			s.entries = append(s.entries, entry{})
		}

		e := &s.entries[i]
		e.words = append(e.words, word)
		for _, cat := range d.WordCategories[word] {
			if !slices.Contains(e.categories, cat) {
				e.categories = append(e.categories, cat)
			}
		}
	}

	if len(patterns) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return s
}

// Scan reports the entries and categories present in text.
func (s *Scanner) Scan(text string) Report {
	report := Report{CategoryHits: make(map[int]int)}

	tokens := s.tokens(text)
	report.Tokens = len(tokens)
	if s.matcher == nil || len(tokens) == 0 {
		return report
	}

	haystack := " " + strings.Join(tokens, " ") + " "

	s.mu.Lock()
	hits := s.matcher.Match([]byte(haystack))
	s.mu.Unlock()

	for _, i := range hits {
		e := s.entries[i]
		report.Matches = append(report.Matches, e.words...)
		for _, cat := range e.categories {
			report.CategoryHits[cat]++
		}
	}
	sort.Strings(report.Matches)

	return report
}

// ScanReader reads r to the end and scans it.
func (s *Scanner) ScanReader(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read text: %w", err)
	}
	return s.Scan(string(data)), nil
}

// pattern turns a dictionary entry into the byte pattern fed to the
// matcher. Whole-token entries are padded with spaces on both sides,
// prefix entries on the left only.
func (s *Scanner) pattern(word string) string {
	prefix := strings.HasSuffix(word, Wildcard)
	word = strings.TrimSuffix(word, Wildcard)

	tokens := s.tokens(word)
	if len(tokens) == 0 {
		return ""
	}

	pattern := " " + strings.Join(tokens, " ")
	if !prefix {
		pattern += " "
	}
	return pattern
}

// tokens lowercases text and splits it into tokens.
func (s *Scanner) tokens(text string) []string {
	s.mu.Lock()
	lowered := s.norm.Word(text)
	s.mu.Unlock()

	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r) && r != '\''
	})
}
