// =============================================================================
// CSV to LIWC Dictionary - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - config      (style selector)
//   - dictionary  (builds a Dictionary)
//   - dicwriter   (serializes a Dictionary)
//   - dicparser   (reads a Dictionary back)
//   - validation  (checks a Dictionary)
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// =============================================================================
// CSV STYLE
// =============================================================================

// Style selects how a CSV layout is mapped onto words and categories.
type Style string

const (
	// StyleTable keeps the word in column 0; every other populated header
	// cell is a category and a non-blank data cell marks membership.
	StyleTable Style = "Table"

	// StylePoster has no word column; every populated header cell is a
	// category and every data cell beneath it is a word of that category.
	StylePoster Style = "Poster"
)

// ErrInvalidStyle is returned for a style name other than Table or Poster.
var ErrInvalidStyle = errors.New("invalid style")

// ParseStyle resolves a style name case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return StyleTable, nil
	case "poster":
		return StylePoster, nil
	default:
		return "", fmt.Errorf("%w %q (want %q or %q)", ErrInvalidStyle, s, StyleTable, StylePoster)
	}
}

// =============================================================================
// DICTIONARY
// =============================================================================

// Dictionary is the in-memory form of a LIWC dictionary.
type Dictionary struct {
	// Categories maps a category number to its name.
	// Numbers are kept exactly as registered, gaps included.
	Categories map[int]string

	// Words holds each distinct word once, in discovery order until Sort
	// is called.
	Words []string

	// WordCategories maps a word to the category numbers it belongs to.
	WordCategories map[string][]int
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Categories:     make(map[int]string),
		WordCategories: make(map[string][]int),
	}
}

// AddCategory registers a category number and name.
func (d *Dictionary) AddCategory(num int, name string) {
	d.Categories[num] = name
}

// HasCategory reports whether num is a registered category.
func (d *Dictionary) HasCategory(num int) bool {
	_, ok := d.Categories[num]
	return ok
}

// Add assigns category cat to word. It returns false when the word already
// carried that category.
func (d *Dictionary) Add(word string, cat int) bool {
	cats, exists := d.WordCategories[word]
	if !exists {
		d.Words = append(d.Words, word)
		d.WordCategories[word] = []int{cat}
		return true
	}
	if slices.Contains(cats, cat) {
		return false
	}
	d.WordCategories[word] = append(cats, cat)
	return true
}

// CategoryNumbers returns the registered category numbers in ascending order.
func (d *Dictionary) CategoryNumbers() []int {
	nums := make([]int, 0, len(d.Categories))
	for num := range d.Categories {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// Sort orders Words ordinally and each word's categories ascending.
// This is the order the writer emits.
func (d *Dictionary) Sort() {
	sort.Strings(d.Words)
	for _, cats := range d.WordCategories {
		sort.Ints(cats)
	}
}

// Remove deletes word and its category assignments. It reports whether the
// word was present.
func (d *Dictionary) Remove(word string) bool {
	if _, ok := d.WordCategories[word]; !ok {
		return false
	}
	delete(d.WordCategories, word)
	d.Words = slices.DeleteFunc(d.Words, func(w string) bool { return w == word })
	return true
}
