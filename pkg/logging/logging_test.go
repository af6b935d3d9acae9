package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	logger.Debug("extracted workpiece")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "expected JSON output, got %q", data)
	assert.Contains(t, string(data), "extracted workpiece")
}

func TestNewLevelFallback(t *testing.T) {
	logger, err := New(Config{Level: "chatty", Format: "console", OutputPath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "debug should be disabled after falling back to info")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "unknown log format")
}
