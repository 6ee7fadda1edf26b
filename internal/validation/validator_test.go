package validation

import (
	"testing"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDictionary() *types.Dictionary {
	d := types.NewDictionary()
	d.AddCategory(1, "Positive")
	d.AddCategory(2, "Negative")
	d.Add("happy", 1)
	d.Add("sad", 2)
	return d
}

func rules(result *ValidationResult) []string {
	out := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		out = append(out, e.Rule)
	}
	return out
}

func TestValidateCleanDictionary(t *testing.T) {
	result := Validate(validDictionary())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.WordsValidated)
	assert.Equal(t, 2, result.CategoriesValidated)
}

func TestValidateEmptyDictionary(t *testing.T) {
	result := Validate(types.NewDictionary())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateUnusedCategoryIsWarning(t *testing.T) {
	d := validDictionary()
	d.AddCategory(7, "Spare")

	result := Validate(d)

	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.WarningCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, RuleUnusedCategory, result.Errors[0].Rule)
	assert.Equal(t, 7, result.Errors[0].Category)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *types.Dictionary)
		rule   string
	}{
		{
			name:   "zero category number",
			mutate: func(d *types.Dictionary) { d.Categories[0] = "Zero"; d.WordCategories["happy"] = append(d.WordCategories["happy"], 0) },
			rule:   RuleCategoryNumber,
		},
		{
			name:   "blank category name",
			mutate: func(d *types.Dictionary) { d.Categories[1] = "  " },
			rule:   RuleCategoryName,
		},
		{
			name:   "tab in category name",
			mutate: func(d *types.Dictionary) { d.Categories[1] = "Pos\titive" },
			rule:   RuleCategoryName,
		},
		{
			name:   "duplicate word",
			mutate: func(d *types.Dictionary) { d.Words = append(d.Words, "happy") },
			rule:   RuleDuplicateWord,
		},
		{
			name:   "word missing from list",
			mutate: func(d *types.Dictionary) { d.Words = d.Words[:1] },
			rule:   RuleUnlistedWord,
		},
		{
			name:   "word without categories",
			mutate: func(d *types.Dictionary) { d.WordCategories["happy"] = nil },
			rule:   RuleNoCategories,
		},
		{
			name:   "undeclared category",
			mutate: func(d *types.Dictionary) { d.WordCategories["happy"] = []int{1, 9} },
			rule:   RuleUndeclaredCategory,
		},
		{
			name:   "repeated category",
			mutate: func(d *types.Dictionary) { d.WordCategories["happy"] = []int{1, 1} },
			rule:   RuleRepeatedCategory,
		},
		{
			name:   "section marker as word",
			mutate: func(d *types.Dictionary) { d.Add("%", 1) },
			rule:   RuleWordCharacters,
		},
		{
			name:   "blank word",
			mutate: func(d *types.Dictionary) { d.Add(" ", 1) },
			rule:   RuleEmptyWord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDictionary()
			tt.mutate(d)

			result := Validate(d)

			assert.False(t, result.IsValid)
			assert.Positive(t, result.ErrorCount)
			assert.Contains(t, rules(result), tt.rule)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Severity: SeverityError, Rule: RuleNoCategories, Word: "lonely", Message: "word belongs to no category"}
	assert.Equal(t, `[ERROR] word "lonely": word belongs to no category (no-categories)`, err.Error())

	err = &ValidationError{Severity: SeverityWarning, Rule: RuleUnusedCategory, Category: 3, Message: "unused"}
	assert.Equal(t, "[WARNING] category 3: unused (unused-category)", err.Error())
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	d := validDictionary()
	d.AddCategory(4, "Spare")
	out := FormatErrors(Validate(d).Errors)

	assert.Contains(t, out, "1 finding(s)")
	assert.Contains(t, out, "1. [WARNING] category 4")
}
