package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestStreamingParserPadsRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"word", "Positive", "Negative"},
		{"happy", "x"},
		{"sad", "", "y"},
	})

	p, err := NewStreamingParser(path, "")
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"word", "Positive", "Negative"}, p.Headers())

	var rows [][]string
	for p.Next() {
		rows = append(rows, p.Row())
	}
	require.NoError(t, p.Err())

	assert.Equal(t, [][]string{
		{"happy", "x", ""},
		{"sad", "", "y"},
	}, rows)
	assert.Zero(t, p.Skipped())
}

func TestStreamingParserClose(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"word", "Positive"},
		{"happy", "x"},
	})

	p, err := NewStreamingParser(path, "")
	require.NoError(t, err)
	for p.Next() {
	}
	require.NoError(t, p.Err())
	assert.NoError(t, p.Close())
}

func TestStreamingParserNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Words", [][]interface{}{
		{"", "Positive"},
		{"", "glad"},
	})

	p, err := NewStreamingParser(path, "Words")
	require.NoError(t, err)
	defer p.Close()

	require.True(t, p.Next())
	assert.Equal(t, []string{"", "glad"}, p.Row())
}

func TestStreamingParserUnknownSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{{"word", "Cat"}})

	_, err := NewStreamingParser(path, "Missing")
	assert.Error(t, err)
}

func TestStreamingParserMissingFile(t *testing.T) {
	_, err := NewStreamingParser(filepath.Join(t.TempDir(), "none.xlsx"), "")
	assert.Error(t, err)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("a/b/Words.XLSX"))
	assert.False(t, IsWorkbook("words.csv"))
}
