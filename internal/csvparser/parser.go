// =============================================================================
// CSV to LIWC Dictionary - CSV Parser Module
// =============================================================================
//
// This module streams dictionary CSV files. It handles:
//   - Any delimiter (comma, tab, pipe, semicolon, or a literal character)
//   - Any quote character, not only the double quote
//   - Any encoding known to the textenc package, with BOM detection
//
// The first record is the header. Every following record is a row, handed
// out one at a time so large word lists never sit in memory twice.
//
// ROW-LEVEL ERRORS:
//   A record the CSV tokenizer rejects is skipped and counted; it never
//   stops the parse. Only I/O and decoding failures end the stream.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"golang.org/x/text/encoding"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when the input holds no header record.
var ErrNoHeader = errors.New("file has no header row")

// =============================================================================
// SETTINGS
// =============================================================================

// Settings are the resolved parsing options.
type Settings struct {
	// Encoding decodes the input bytes.
	Encoding encoding.Encoding

	// Delimiter separates fields.
	Delimiter rune

	// Quote encloses fields that contain delimiters, quotes or newlines.
	Quote rune
}

// SettingsFromOptions resolves the textual conversion options.
func SettingsFromOptions(opts config.Options) (Settings, error) {
	enc, _, err := textenc.Lookup(opts.Encoding)
	if err != nil {
		return Settings{}, err
	}
	delim, err := config.ParseDelimiter(opts.Delimiter)
	if err != nil {
		return Settings{}, err
	}
	quote, err := config.ParseQuote(opts.Quote)
	if err != nil {
		return Settings{}, err
	}
	if delim == quote {
		return Settings{}, fmt.Errorf("%w: delimiter and quote are both %q", config.ErrInvalidOption, delim)
	}

	return Settings{Encoding: enc, Delimiter: delim, Quote: quote}, nil
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads a CSV file one row at a time.
//
// USAGE:
//
//	parser, err := csvparser.NewStreamingParser(filePath, settings)
//	if err != nil {
//	    return err
//	}
//	defer parser.Close()
//
//	header := parser.Headers()
//	for parser.Next() {
//	    row := parser.Row()
//	    // Process the row...
//	}
//
//	if err := parser.Err(); err != nil {
//	    return err
//	}
type StreamingParser struct {
	closer     io.Closer
	reader     *csv.Reader
	headers    []string
	currentRow []string
	rowNumber  int
	skipped    int
	err        error

	// unquote reverses the quote swap applied to the input stream.
	// Nil when the quote character is already '"'.
	unquote func(rune) rune
}

// NewStreamingParser opens filePath and reads its header record.
//
// RETURNS:
//   - A parser positioned before the first data row.
//   - An error if the file cannot be opened or has no header.
func NewStreamingParser(filePath string, settings Settings) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	parser, err := NewParser(file, settings)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.closer = file
	return parser, nil
}

// NewParser reads CSV from r. Close does not close r.
func NewParser(r io.Reader, settings Settings) (*StreamingParser, error) {
	if settings.Encoding == nil {
		return nil, fmt.Errorf("%w: no encoding", textenc.ErrUnsupportedEncoding)
	}

	var text io.Reader = textenc.NewReader(bufio.NewReader(r), settings.Encoding)

	parser := &StreamingParser{}
	comma := settings.Delimiter

	// encoding/csv only understands '"'. Any other quote character is
	// swapped with '"' on the way in and swapped back in every field, so
	// literal double quotes survive the round trip.
	if settings.Quote != '"' {
		swap := swapper(settings.Quote, '"')
		text = transform.NewReader(text, runes.Map(swap))
		parser.unquote = swap
		comma = swap(comma)
	}

	parser.reader = csv.NewReader(text)
	configureReader(parser.reader, comma)

	if err := parser.readHeaders(); err != nil {
		return nil, err
	}
	return parser, nil
}

// configureReader applies the reader options shared by every parse.
func configureReader(reader *csv.Reader, comma rune) {
	reader.Comma = comma

	// Rows may be ragged; short rows are judged by the dictionary builder.
	reader.FieldsPerRecord = -1

	// Accept quotes that don't follow strict CSV rules.
	reader.LazyQuotes = true

	// Leading-space trimming would also swallow empty tab-separated fields.
	reader.TrimLeadingSpace = false
}

// readHeaders reads the header record.
func (p *StreamingParser) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	p.rowNumber++
	p.headers = p.restore(row)
	return nil
}

// Next advances to the next row. It returns false at the end of the input
// or after a fatal read error; check Err to tell them apart.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	for {
		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				p.rowNumber++
				p.skipped++
				continue
			}
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}

		p.rowNumber++
		p.currentRow = p.restore(row)
		return true
	}
}

// Row returns the current row's fields.
func (p *StreamingParser) Row() []string {
	return p.currentRow
}

// Headers returns the raw header fields.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// RowNumber returns the number of records consumed, header included.
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Skipped returns how many records the tokenizer rejected.
func (p *StreamingParser) Skipped() int {
	return p.skipped
}

// Err returns the error that stopped Next, if any.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close releases the underlying file.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// restore undoes the quote swap on every field.
func (p *StreamingParser) restore(row []string) []string {
	if p.unquote == nil {
		return row
	}
	for i, field := range row {
		row[i] = strings.Map(p.unquote, field)
	}
	return row
}

// swapper exchanges a and b and leaves every other rune alone.
func swapper(a, b rune) func(rune) rune {
	return func(r rune) rune {
		switch r {
		case a:
			return b
		case b:
			return a
		}
		return r
	}
}
