package textenc

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "iana utf-8", in: "utf-8"},
		{name: "iana upper", in: "UTF-8"},
		{name: "windows code page", in: "windows-1252"},
		{name: "whatwg label", in: "latin1"},
		{name: "utf-16", in: "UTF-16LE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, canonical, err := Lookup(tt.in)
			require.NoError(t, err)
			assert.NotNil(t, enc)
			assert.NotEmpty(t, canonical)
		})
	}
}

func TestLookupUnsupported(t *testing.T) {
	for _, in := range []string{"", "   ", "klingon-42"} {
		_, _, err := Lookup(in)
		assert.ErrorIs(t, err, ErrUnsupportedEncoding, "name %q", in)
	}
}

func TestNewReaderDecodesLatin1(t *testing.T) {
	enc, _, err := Lookup("windows-1252")
	require.NoError(t, err)

	got, err := io.ReadAll(NewReader(bytes.NewReader([]byte{'c', 'a', 'f', 0xE9}), enc))
	require.NoError(t, err)
	assert.Equal(t, "café", string(got))
}

func TestNewReaderStripsBOM(t *testing.T) {
	enc, _, err := Lookup("utf-8")
	require.NoError(t, err)

	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("word,Cat")...)
	got, err := io.ReadAll(NewReader(bytes.NewReader(input), enc))
	require.NoError(t, err)
	assert.Equal(t, "word,Cat", string(got))
}

func TestNewWriterEncodes(t *testing.T) {
	enc, _, err := Lookup("windows-1252")
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf, enc)
	_, err = io.Copy(w, strings.NewReader("café"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, buf.Bytes())
}
