// =============================================================================
// CSV to LIWC Dictionary - Dictionary Writer Module
// =============================================================================
//
// This module serializes a Dictionary into the LIWC dictionary format:
//
//   %
//   1	Positive
//   2	Negative
//   %
//   happy	1
//   sad	2
//
// FORMAT RULES:
//   - The two "%" lines delimit the category block.
//   - Category lines are ordered by number. Numbers are written exactly as
//     registered; gaps are kept, never renumbered.
//   - Word lines follow the dictionary's word order, which the caller sorts
//     beforehand. Category numbers on a line are ascending.
//   - Fields are tab-separated; every record ends with the line ending.
//
// =============================================================================

package dicwriter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"golang.org/x/text/encoding"
)

// SectionMarker delimits the category block.
const SectionMarker = "%"

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options contains options for dictionary output.
type Options struct {
	// Encoding is the output encoding. Nil means UTF-8.
	Encoding encoding.Encoding

	// LineEnding terminates every record.
	// Default: "\n"
	LineEnding string
}

// DefaultOptions returns UTF-8 output with "\n" line endings.
func DefaultOptions() Options {
	return Options{LineEnding: "\n"}
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// WriteFile creates or truncates path and writes d to it.
//
// RETURNS:
//   - An error if the file cannot be created, written, flushed or closed.
//     A partially written file is left behind on failure.
func WriteFile(path string, d *types.Dictionary, opts Options) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	var out io.Writer = file
	var encoder io.WriteCloser
	if opts.Encoding != nil {
		encoder = textenc.NewWriter(file, opts.Encoding)
		out = encoder
	}

	if err := Write(out, d, opts); err != nil {
		return err
	}

	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	}
	return nil
}

// Write writes d to w as UTF-8 text. Encoding in opts is ignored; wrap w
// to change it.
func Write(w io.Writer, d *types.Dictionary, opts Options) error {
	eol := opts.LineEnding
	if eol == "" {
		eol = "\n"
	}

	bw := bufio.NewWriter(w)
	line := func(parts ...string) {
		for i, part := range parts {
			if i > 0 {
				bw.WriteByte('\t')
			}
			bw.WriteString(part)
		}
		bw.WriteString(eol)
	}

	line(SectionMarker)
	for _, num := range d.CategoryNumbers() {
		line(strconv.Itoa(num), d.Categories[num])
	}
	line(SectionMarker)

	for _, word := range d.Words {
		cats := slices.Clone(d.WordCategories[word])
		if len(cats) == 0 {
			return fmt.Errorf("word %q has no categories", word)
		}
		slices.Sort(cats)

		fields := make([]string, 0, len(cats)+1)
		fields = append(fields, word)
		for _, cat := range cats {
			fields = append(fields, strconv.Itoa(cat))
		}
		line(fields...)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}
