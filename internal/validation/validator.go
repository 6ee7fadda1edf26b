// =============================================================================
// CSV to LIWC Dictionary - Validation Engine
// =============================================================================
//
// This module checks a Dictionary against the rules every LIWC dictionary
// file must satisfy before it is written or after it is read back:
//   - Category numbers are positive and names are non-empty
//   - Category names and words contain no tab or line break
//   - Every word appears once and belongs to at least one category
//   - Every category a word references is declared
//   - A word lists each category at most once
//
// ERROR HANDLING:
//   - Problems are collected, not returned one at a time
//   - "error" findings mean the file would be unreadable by LIWC tools
//   - "warning" findings are legal but probably unintended (for example a
//     category no word belongs to)
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleCategoryNumber     = "category-number"
	RuleCategoryName       = "category-name"
	RuleUnusedCategory     = "unused-category"
	RuleEmptyWord          = "empty-word"
	RuleWordCharacters     = "word-characters"
	RuleDuplicateWord      = "duplicate-word"
	RuleUnlistedWord       = "unlisted-word"
	RuleNoCategories       = "no-categories"
	RuleUndeclaredCategory = "undeclared-category"
	RuleRepeatedCategory   = "repeated-category"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Rule is the rule that was violated.
	Rule string

	// Word is the word involved, if any.
	Word string

	// Category is the category number involved, or 0.
	Category int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var subject string
	switch {
	case e.Word != "":
		subject = fmt.Sprintf("word %q", e.Word)
	case e.Category != 0:
		subject = fmt.Sprintf("category %d", e.Category)
	default:
		subject = "dictionary"
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", strings.ToUpper(e.Severity), subject, e.Message, e.Rule)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is false when any error-level finding exists.
	IsValid bool

	// Errors contains all findings, warnings included, in check order.
	Errors []*ValidationError

	// ErrorCount is the number of error-level findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// WordsValidated is the number of word entries checked.
	WordsValidated int

	// CategoriesValidated is the number of categories checked.
	CategoriesValidated int
}

func (r *ValidationResult) add(severity, rule, word string, category int, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{
		Severity: severity,
		Rule:     rule,
		Word:     word,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	})
	if severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks d and returns every finding.
//
// PARAMETERS:
//   - d: The dictionary to check. Word order does not matter.
//
// RETURNS:
//   - A ValidationResult; IsValid reports whether d can be written as a
//     well-formed dictionary file.
func Validate(d *types.Dictionary) *ValidationResult {
	result := &ValidationResult{
		IsValid:             true,
		Errors:              make([]*ValidationError, 0),
		WordsValidated:      len(d.Words),
		CategoriesValidated: len(d.Categories),
	}

	for _, num := range d.CategoryNumbers() {
		validateCategory(result, num, d.Categories[num])
	}

	used := make(map[int]bool, len(d.Categories))
	listed := make(map[string]bool, len(d.Words))
	for _, word := range d.Words {
		if listed[word] {
			result.add(SeverityError, RuleDuplicateWord, word, 0, "word is listed more than once")
			continue
		}
		listed[word] = true
		validateWord(result, d, word, used)
	}

	for word := range d.WordCategories {
		if !listed[word] {
			result.add(SeverityError, RuleUnlistedWord, word, 0, "word has categories but is missing from the word list")
		}
	}

	for _, num := range d.CategoryNumbers() {
		if !used[num] {
			result.add(SeverityWarning, RuleUnusedCategory, "", num, "no word belongs to category %q", d.Categories[num])
		}
	}

	return result
}

func validateCategory(result *ValidationResult, num int, name string) {
	if num <= 0 {
		result.add(SeverityError, RuleCategoryNumber, "", num, "category number must be positive")
	}
	if strings.TrimSpace(name) == "" {
		result.add(SeverityError, RuleCategoryName, "", num, "category name is empty")
	} else if strings.ContainsAny(name, "\t\r\n") {
		result.add(SeverityError, RuleCategoryName, "", num, "category name contains a tab or line break")
	}
}

func validateWord(result *ValidationResult, d *types.Dictionary, word string, used map[int]bool) {
	if strings.TrimSpace(word) == "" {
		result.add(SeverityError, RuleEmptyWord, "", 0, "empty word in word list")
		return
	}
	if strings.ContainsAny(word, "\t\r\n") || word == "%" {
		result.add(SeverityError, RuleWordCharacters, word, 0, "word would break the dictionary layout")
	}

	cats := d.WordCategories[word]
	if len(cats) == 0 {
		result.add(SeverityError, RuleNoCategories, word, 0, "word belongs to no category")
		return
	}

	seen := make(map[int]bool, len(cats))
	for _, cat := range cats {
		if seen[cat] {
			result.add(SeverityError, RuleRepeatedCategory, word, cat, "category %d listed more than once", cat)
			continue
		}
		seen[cat] = true

		if _, ok := d.Categories[cat]; !ok {
			result.add(SeverityError, RuleUndeclaredCategory, word, cat, "category %d is not declared", cat)
			continue
		}
		used[cat] = true
	}
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats findings for display or logging.
//
// PARAMETERS:
//   - errors: The findings to format.
//
// RETURNS:
//   - A formatted string containing all findings.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
