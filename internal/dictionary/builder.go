// =============================================================================
// CSV to LIWC Dictionary - Dictionary Builder
// =============================================================================
//
// The builder turns a header row and a stream of data rows into a
// Dictionary. Two layouts are supported:
//
//   TABLE STYLE
//     word    | Positive | Negative
//     happy   | x        |
//     sad     |          | y
//   Column 0 holds the word. Category numbers are the raw column index of
//   every populated header cell after column 0. A non-blank cell assigns
//   that category; its content is ignored.
//
//   POSTER STYLE
//     Positive | Negative
//     glad     | mad
//     happy    | angry
//   There is no word column. Category numbers are column index + 1 for
//   every populated header cell, and every non-blank cell under one is a
//   word of that category.
//
// ROW-LEVEL ERRORS:
//   A row with fewer fields than the header is skipped whole. Skipped rows
//   are counted but never reported as errors.
//
// =============================================================================

package dictionary

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
)

// RowSource is a stream of data rows. Both the CSV and XLSX parsers
// implement it.
type RowSource interface {
	Next() bool
	Row() []string
	Err() error
}

// Options configures a Builder.
type Options struct {
	Style     types.Style
	Lowercase bool
}

// Builder accumulates one dictionary. A Builder is single-use.
//
// Processed and Categories may be read from another goroutine while Build
// runs; everything else belongs to the building goroutine.
type Builder struct {
	opts       Options
	normalizer *Normalizer

	processed  atomic.Int64
	categories atomic.Int64

	rowsRead    int
	rowsSkipped int
}

// NewBuilder returns a Builder for the given style.
func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:       opts,
		normalizer: NewNormalizer(opts.Lowercase),
	}
}

// Build consumes rows and returns the resulting dictionary.
//
// PARAMETERS:
//   - ctx: Checked between rows; cancelling it aborts the build.
//   - header: The raw header row.
//   - rows: The data rows.
//
// RETURNS:
//   - The dictionary in discovery order. Call Sort before writing it.
//   - ctx.Err() if cancelled, or the row source's own error.
func (b *Builder) Build(ctx context.Context, header []string, rows RowSource) (*types.Dictionary, error) {
	dict := types.NewDictionary()

	var addRow func(dict *types.Dictionary, row []string)
	if b.opts.Style == types.StylePoster {
		registerCategories(dict, header, 0, 1)
		addRow = b.addPosterRow
	} else {
		registerCategories(dict, header, 1, 0)
		addRow = b.addTableRow
	}
	b.categories.Store(int64(len(dict.Categories)))

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := rows.Row()
		b.rowsRead++

		if len(row) < len(header) {
			b.rowsSkipped++
			continue
		}
		addRow(dict, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dict, nil
}

// registerCategories adds every populated header cell from index start on,
// numbered as index + offset. Tabs and line breaks inside a quoted header
// cell become a single space so the name stays on one line.
func registerCategories(dict *types.Dictionary, header []string, start, offset int) {
	for i := start; i < len(header); i++ {
		name := categoryName(header[i])
		if name == "" {
			continue
		}
		dict.AddCategory(i+offset, name)
	}
}

func categoryName(cell string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(cell), func(r rune) bool {
		return r == '\t' || r == '\r' || r == '\n'
	})
	return strings.Join(parts, " ")
}

// addTableRow handles a Table-style row: one word, many indicator cells.
func (b *Builder) addTableRow(dict *types.Dictionary, row []string) {
	if len(row) == 0 {
		return
	}
	word := b.normalizer.Word(row[0])
	if word == "" {
		return
	}

	for i := 1; i < len(row); i++ {
		if !dict.HasCategory(i) || isBlank(row[i]) {
			continue
		}
		b.assign(dict, word, i)
	}
}

// addPosterRow handles a Poster-style row: every cell is a word.
func (b *Builder) addPosterRow(dict *types.Dictionary, row []string) {
	for i, cell := range row {
		cat := i + 1
		if !dict.HasCategory(cat) {
			continue
		}
		word := b.normalizer.Word(cell)
		if word == "" {
			continue
		}
		b.assign(dict, word, cat)
	}
}

func (b *Builder) assign(dict *types.Dictionary, word string, cat int) {
	if dict.Add(word, cat) {
		b.processed.Add(1)
	}
}

// Processed returns the number of word-category assignments made so far.
func (b *Builder) Processed() int64 {
	return b.processed.Load()
}

// Categories returns the number of registered categories. It is zero until
// Build has read the header.
func (b *Builder) Categories() int64 {
	return b.categories.Load()
}

// RowsRead returns the number of data rows consumed.
func (b *Builder) RowsRead() int {
	return b.rowsRead
}

// RowsSkipped returns the number of malformed rows ignored.
func (b *Builder) RowsSkipped() int {
	return b.rowsSkipped
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
