package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-tracker/pkg/config"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := NewLogger(config.LogConfig{Level: "debug", File: path}, true)
	require.NoError(t, err)

	log.Info("quote submitted")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"quote submitted"`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
