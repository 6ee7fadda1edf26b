// =============================================================================
// CSV to LIWC Dictionary - Dictionary Parser Module
// =============================================================================
//
// This module reads LIWC dictionary files back into a Dictionary. It is the
// inverse of dicwriter and is used to validate converted files and to load
// dictionaries for scanning.
//
// ACCEPTED INPUT:
//   - Optional blank lines before the first "%"
//   - "\n" or "\r\n" line endings
//   - Category lines "<number>\t<name>" between the two "%" lines
//   - Word lines "<word>\t<number>[\t<number>...]" after the second "%"
//
// Any other line is an error carrying its line number; dictionary files are
// machine-generated, so a bad line means the file is damaged.
//
// =============================================================================

package dicparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"golang.org/x/text/encoding"
)

// SectionMarker delimits the category block.
const SectionMarker = "%"

// ErrMissingMarker is returned when a "%" section marker is missing.
var ErrMissingMarker = errors.New("missing % section marker")

// LineError reports a malformed line.
type LineError struct {
	Line    int
	Message string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

const (
	sectionPreamble = iota
	sectionCategories
	sectionWords
)

// ParseFile reads the dictionary at path in the given encoding. A nil
// encoding means UTF-8.
func ParseFile(path string, enc encoding.Encoding) (*types.Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if enc != nil {
		r = textenc.NewReader(file, enc)
	}
	return Parse(r)
}

// Parse reads a dictionary from r.
//
// RETURNS:
//   - The dictionary with words in file order.
//   - A *LineError for a malformed line, ErrMissingMarker for a truncated
//     file, or the reader's error.
func Parse(r io.Reader) (*types.Dictionary, error) {
	d := types.NewDictionary()
	section := sectionPreamble

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == SectionMarker {
			if section == sectionWords {
				return nil, &LineError{Line: lineNo, Message: "unexpected third % marker"}
			}
			section++
			continue
		}

		switch section {
		case sectionPreamble:
			if strings.TrimSpace(line) != "" {
				return nil, &LineError{Line: lineNo, Message: "content before the first % marker"}
			}
		case sectionCategories:
			if err := parseCategory(d, line, lineNo); err != nil {
				return nil, err
			}
		case sectionWords:
			if err := parseWord(d, line, lineNo); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	if section != sectionWords {
		return nil, ErrMissingMarker
	}
	return d, nil
}

func parseCategory(d *types.Dictionary, line string, lineNo int) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	num, name, ok := strings.Cut(line, "\t")
	if !ok {
		return &LineError{Line: lineNo, Message: "category line needs a tab"}
	}
	n, err := parseNumber(num)
	if err != nil {
		return &LineError{Line: lineNo, Message: err.Error()}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &LineError{Line: lineNo, Message: "empty category name"}
	}
	if d.HasCategory(n) {
		return &LineError{Line: lineNo, Message: fmt.Sprintf("duplicate category %d", n)}
	}

	d.AddCategory(n, name)
	return nil
}

func parseWord(d *types.Dictionary, line string, lineNo int) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	fields := strings.Split(line, "\t")
	word := fields[0]
	if strings.TrimSpace(word) == "" {
		return &LineError{Line: lineNo, Message: "empty word"}
	}
	if len(fields) < 2 {
		return &LineError{Line: lineNo, Message: fmt.Sprintf("word %q has no categories", word)}
	}
	if _, seen := d.WordCategories[word]; seen {
		return &LineError{Line: lineNo, Message: fmt.Sprintf("duplicate word %q", word)}
	}

	for _, field := range fields[1:] {
		n, err := parseNumber(field)
		if err != nil {
			return &LineError{Line: lineNo, Message: err.Error()}
		}
		d.Add(word, n)
	}
	return nil
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid category number %q", s)
	}
	return n, nil
}
