package converter

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// options writes input to a temp file and returns default options pointing
// at it and at a sibling output path.
func options(t *testing.T, name, input string) config.Options {
	t.Helper()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(inputPath, []byte(input), 0644))

	opts := config.Default().Conversion
	opts.InputPath = inputPath
	opts.OutputPath = filepath.Join(dir, "out.dic")
	return opts
}

func run(t *testing.T, opts config.Options) (Result, string) {
	t.Helper()
	result := New(opts, nil).Run(context.Background())
	require.NoError(t, result.Error)
	require.True(t, result.Success)

	got, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	return result, string(got)
}

func TestRunTableStyle(t *testing.T) {
	opts := options(t, "table.csv", "word,Positive,Negative\nhappy,x,\nsad,,y\n")

	result, got := run(t, opts)

	assert.Equal(t, "%\n1\tPositive\n2\tNegative\n%\nhappy\t1\nsad\t2\n", got)
	assert.Equal(t, opts.InputPath, result.InputFile)
	assert.Equal(t, 2, result.Stats.RowsRead)
	assert.Zero(t, result.Stats.RowsSkipped)
	assert.EqualValues(t, 2, result.Stats.WordsProcessed)
	assert.Equal(t, 2, result.Stats.Words)
	assert.Equal(t, 2, result.Stats.Categories)

	_, err := uuid.Parse(result.RunID)
	assert.NoError(t, err)
}

func TestRunPosterStyle(t *testing.T) {
	opts := options(t, "poster.csv", ",Positive,Negative\n,glad,mad\n")
	opts.Style = types.StylePoster

	_, got := run(t, opts)

	assert.Equal(t, "%\n2\tPositive\n3\tNegative\n%\nglad\t2\nmad\t3\n", got)
}

func TestRunStyleNameIsCaseInsensitive(t *testing.T) {
	opts := options(t, "poster.csv", "A\nword\n")
	opts.Style = "poster"

	_, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n%\nword\t1\n", got)
}

func TestRunIsIdempotent(t *testing.T) {
	opts := options(t, "words.csv", "word,A,B\nDog,x,\ncat,,x\ndog,,x\nant,x,x\n")

	_, first := run(t, opts)
	_, second := run(t, opts)

	assert.Equal(t, first, second)
	assert.Equal(t, "%\n1\tA\n2\tB\n%\nant\t1\t2\ncat\t2\ndog\t1\t2\n", first)
}

func TestRunKeepsCaseWhenLowercaseIsOff(t *testing.T) {
	opts := options(t, "words.csv", "word,A\nDog,x\ndog,x\n")
	opts.Lowercase = false

	_, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n%\nDog\t1\ndog\t1\n", got)
}

func TestRunSkipsMalformedRows(t *testing.T) {
	opts := options(t, "short.csv", "word,A,B\nshort,x\nok,x,\n")

	result, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n2\tB\n%\nok\t1\n", got)
	assert.Equal(t, 2, result.Stats.RowsRead)
	assert.Equal(t, 1, result.Stats.RowsSkipped)
	assert.Equal(t, 1, result.Stats.ValidationWarnings)
}

func TestRunDropsWordsThatBreakTheLayout(t *testing.T) {
	opts := options(t, "tabs.csv", "word,A\n\"bad\tword\",x\n%,x\ngood,x\n")

	result, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n%\ngood\t1\n", got)
	assert.Equal(t, 2, result.Stats.WordsDropped)
	assert.Equal(t, 1, result.Stats.Words)
}

func TestRunFlattensMultiLineHeader(t *testing.T) {
	opts := options(t, "header.csv", "word,\"Positive\nEmotion\",Negative\nhappy,x,\nsad,,y\n")

	result, got := run(t, opts)

	assert.Equal(t, "%\n1\tPositive Emotion\n2\tNegative\n%\nhappy\t1\nsad\t2\n", got)
	assert.Equal(t, 2, result.Stats.Categories)
}

func TestRunCustomDelimiterAndQuote(t *testing.T) {
	opts := options(t, "semi.csv", "word;A\n'x;y';1\n")
	opts.Delimiter = "semicolon"
	opts.Quote = "'"

	_, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n%\nx;y\t1\n", got)
}

func TestRunEncodingAndLineEnding(t *testing.T) {
	opts := options(t, "latin.csv", "word,Food\ncaf\xe9,x\n")
	opts.Encoding = "windows-1252"
	opts.LineEnding = "crlf"

	_, got := run(t, opts)

	assert.Equal(t, "%\r\n1\tFood\r\n%\r\ncaf\xe9\t1\r\n", got)
}

func TestRunStripsUTF8BOM(t *testing.T) {
	opts := options(t, "bom.csv", "\xef\xbb\xbfword,A\nhello,x\n")

	_, got := run(t, opts)

	assert.Equal(t, "%\n1\tA\n%\nhello\t1\n", got)
}

func TestRunWorkbookInput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "words.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Work", "Leisure"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"Job", "Game"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]string{"desk"}))
	require.NoError(t, f.SaveAs(inputPath))
	require.NoError(t, f.Close())

	opts := config.Default().Conversion
	opts.InputPath = inputPath
	opts.OutputPath = filepath.Join(dir, "out.dic")
	opts.Style = types.StylePoster

	_, got := run(t, opts)

	assert.Equal(t, "%\n1\tWork\n2\tLeisure\n%\ndesk\t1\ngame\t2\njob\t1\n", got)
}

func TestRunReportsProgress(t *testing.T) {
	opts := options(t, "table.csv", "word,Positive,Negative\nhappy,x,\nsad,,y\n")
	opts.ProgressInterval = time.Millisecond

	var mu sync.Mutex
	var statuses []string
	conv := New(opts, nil).OnProgress(func(status string) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, status)
	})

	result := conv.Run(context.Background())
	require.NoError(t, result.Error)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, statuses)
	assert.Equal(t, "Processed: 2 words across 2 categories", statuses[len(statuses)-1])
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Processed: 0 words across 0 categories", Status(0, 0))
	assert.Equal(t, "Processed: 12 words across 3 categories", Status(12, 3))
}

// =============================================================================
// FAILURES
// =============================================================================

func TestRunMissingInputLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.dic")
	require.NoError(t, os.WriteFile(outputPath, []byte("keep"), 0644))

	opts := config.Default().Conversion
	opts.InputPath = filepath.Join(dir, "missing.csv")
	opts.OutputPath = outputPath

	result := New(opts, nil).Run(context.Background())

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, os.ErrNotExist)
	assert.Empty(t, result.OutputFile)

	got, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))
}

func TestRunRejectsBadOptionsBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *config.Options)
		target error
	}{
		{name: "encoding", mutate: func(o *config.Options) { o.Encoding = "no-such-codec" }, target: textenc.ErrUnsupportedEncoding},
		{name: "style", mutate: func(o *config.Options) { o.Style = "Spreadsheet" }, target: types.ErrInvalidStyle},
		{name: "delimiter", mutate: func(o *config.Options) { o.Delimiter = ",," }, target: config.ErrInvalidOption},
		{name: "quote equals delimiter", mutate: func(o *config.Options) { o.Quote = "," }, target: config.ErrInvalidOption},
		{name: "line ending", mutate: func(o *config.Options) { o.LineEnding = "cr" }, target: config.ErrInvalidOption},
		{name: "empty output path", mutate: func(o *config.Options) { o.OutputPath = "" }, target: config.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options(t, "table.csv", "word,A\nhappy,x\n")
			outputPath := opts.OutputPath
			tt.mutate(&opts)

			result := New(opts, nil).Run(context.Background())

			assert.False(t, result.Success)
			assert.ErrorIs(t, result.Error, tt.target)
			assert.NoFileExists(t, outputPath)
		})
	}
}

func TestRunMissingOutputDirectory(t *testing.T) {
	opts := options(t, "table.csv", "word,A\nhappy,x\n")
	opts.OutputPath = filepath.Join(filepath.Dir(opts.InputPath), "nope", "out.dic")

	result := New(opts, nil).Run(context.Background())

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRunEmptyInputHasNoHeader(t *testing.T) {
	opts := options(t, "empty.csv", "")

	result := New(opts, nil).Run(context.Background())

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRunHonoursCancellation(t *testing.T) {
	opts := options(t, "table.csv", "word,A\nhappy,x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(opts, nil).Run(ctx)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, context.Canceled)
	assert.NoFileExists(t, opts.OutputPath)
}
