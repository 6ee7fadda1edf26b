// Package textenc resolves text encodings by name and wraps readers and
// writers so the rest of the converter only ever sees UTF-8.
package textenc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnsupportedEncoding is returned when a name maps to no usable encoding.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Lookup resolves an encoding name and returns the encoding together with
// its canonical name.
//
// IANA names ("UTF-8", "ISO-8859-1", "windows-1252", "UTF-16") are tried
// first, then WHATWG labels ("latin1", "utf8", "cp1252").
func Lookup(name string) (encoding.Encoding, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: empty name", ErrUnsupportedEncoding)
	}

	// ianaindex returns a nil encoding for names it knows but cannot serve.
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		canonical, nameErr := ianaindex.IANA.Name(enc)
		if nameErr != nil {
			canonical = name
		}
		return enc, canonical, nil
	}

	if enc, canonical := charset.Lookup(name); enc != nil {
		return enc, canonical, nil
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}

// NewReader decodes r from enc into UTF-8. A leading byte order mark
// overrides enc and is stripped.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}

// NewWriter encodes UTF-8 text written to it into enc. Characters enc
// cannot represent are replaced with the encoding's substitute. Close
// flushes pending bytes; it does not close w.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder()))
}
