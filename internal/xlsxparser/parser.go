// =============================================================================
// CSV to LIWC Dictionary - XLSX Parser Module
// =============================================================================
//
// Dictionary word lists are often kept in spreadsheets. This module reads an
// XLSX worksheet with the same layout a dictionary CSV would have: the first
// row is the header, every following row is data.
//
// The parser exposes the same streaming surface as csvparser.StreamingParser
// so the converter can use either without caring which file type it got.
//
// NOTE:
//   excelize drops trailing empty cells from a row. Rows are padded back to
//   the header width so a row is never mistaken for a malformed short row
//   just because its last cells were blank.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads worksheet rows one at a time.
type StreamingParser struct {
	file       *excelize.File
	rows       *excelize.Rows
	headers    []string
	currentRow []string
	rowNumber  int
	skipped    int
	err        error
}

// IsWorkbook reports whether path names a file this package can read.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// NewStreamingParser opens filePath and reads the header row of sheet.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - A parser positioned before the first data row.
//   - An error if the workbook or sheet cannot be opened, or the sheet is empty.
func NewStreamingParser(filePath, sheet string) (*StreamingParser, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	parser, err := newParser(f, sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	return parser, nil
}

func newParser(f *excelize.File, sheet string) (*StreamingParser, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	parser := &StreamingParser{file: f, rows: rows}

	if !rows.Next() {
		rows.Close()
		if err := rows.Error(); err != nil {
			return nil, fmt.Errorf("failed to read header row: %w", err)
		}
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	headers, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	parser.headers = headers
	parser.rowNumber = 1

	return parser, nil
}

// Next advances to the next row.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	for p.rows.Next() {
		p.rowNumber++
		cols, err := p.rows.Columns()
		if err != nil {
			p.skipped++
			continue
		}
		p.currentRow = pad(cols, len(p.headers))
		return true
	}

	if err := p.rows.Error(); err != nil {
		p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
	}
	return false
}

// Row returns the current row's cells.
func (p *StreamingParser) Row() []string {
	return p.currentRow
}

// Headers returns the header row's cells.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// Skipped returns how many rows could not be read.
func (p *StreamingParser) Skipped() int {
	return p.skipped
}

// Err returns the error that stopped Next, if any.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close releases the row iterator and the workbook.
func (p *StreamingParser) Close() error {
	return errors.Join(p.rows.Close(), p.file.Close())
}

// pad extends row with empty cells up to width.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
