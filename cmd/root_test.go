package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPrintsHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.RunE(rootCmd, nil))
	assert.Contains(t, buf.String(), "liwcdic convert -i words.csv")
}
