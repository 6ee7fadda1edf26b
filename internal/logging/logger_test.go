package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, err := NewZapLogger(config.LoggerConfig{Level: "info", FilePath: path})
	require.NoError(t, err)

	logger.With("run_id", "abc").Info("conversion complete", "words", 3)
	logger.Debug("dropped below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["L"])
	assert.Equal(t, "conversion complete", entry["M"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.EqualValues(t, 3, entry["words"])
}

func TestNewZapLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewZapLogger(config.LoggerConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("ignored", "k", "v")
	assert.NotNil(t, logger.With("k", "v"))
}
