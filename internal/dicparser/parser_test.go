package dicparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dicwriter"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "%\n1\tPositive\n3\tNegative\n%\nhappy\t1\nsad\t3\nmeh\t1\t3\n"

	d, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, map[int]string{1: "Positive", 3: "Negative"}, d.Categories)
	assert.Equal(t, []string{"happy", "sad", "meh"}, d.Words)
	assert.Equal(t, []int{1, 3}, d.WordCategories["meh"])
}

func TestParseCRLFAndLeadingBlankLines(t *testing.T) {
	input := "\r\n%\r\n1\tA\r\n%\r\nword\t1\r\n"

	d, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"word"}, d.Words)
	assert.Equal(t, "A", d.Categories[1])
}

func TestParseEmptyDictionary(t *testing.T) {
	d, err := Parse(strings.NewReader("%\n%\n"))
	require.NoError(t, err)
	assert.Empty(t, d.Categories)
	assert.Empty(t, d.Words)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "preamble text", input: "hello\n%\n%\n", line: 1},
		{name: "category without tab", input: "%\n1 Positive\n%\n", line: 2},
		{name: "category not a number", input: "%\nx\tPositive\n%\n", line: 2},
		{name: "zero category", input: "%\n0\tPositive\n%\n", line: 2},
		{name: "duplicate category", input: "%\n1\tA\n1\tB\n%\n", line: 3},
		{name: "word without categories", input: "%\n1\tA\n%\nlonely\n", line: 4},
		{name: "word with bad number", input: "%\n1\tA\n%\nword\tone\n", line: 4},
		{name: "duplicate word", input: "%\n1\tA\n%\nw\t1\nw\t1\n", line: 5},
		{name: "third marker", input: "%\n%\n%\n", line: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var lineErr *LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Equal(t, tt.line, lineErr.Line)
		})
	}
}

func TestParseMissingMarker(t *testing.T) {
	_, err := Parse(strings.NewReader("%\n1\tA\n"))
	assert.ErrorIs(t, err, ErrMissingMarker)
}

func TestParseReadsWriterOutput(t *testing.T) {
	original := types.NewDictionary()
	original.AddCategory(2, "Affect")
	original.AddCategory(7, "Social")
	original.Add("friend", 7)
	original.Add("friend", 2)
	original.Add("joy", 2)
	original.Sort()

	var buf bytes.Buffer
	require.NoError(t, dicwriter.Write(&buf, original, dicwriter.DefaultOptions()))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseFileWithEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.dic")
	require.NoError(t, os.WriteFile(path, []byte("%\n1\tFood\n%\ncaf\xe9\t1\n"), 0644))

	enc, _, err := textenc.Lookup("windows-1252")
	require.NoError(t, err)

	d, err := ParseFile(path, enc)
	require.NoError(t, err)
	assert.Equal(t, []string{"café"}, d.Words)
}
