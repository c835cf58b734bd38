package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New("info", "json", path)
	require.NoError(t, err)

	log.Info("server started")
	log.Debug("dropped at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"server started"`)
	assert.Contains(t, string(data), `"timestamp":`)
	assert.NotContains(t, string(data), "dropped at info level")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "json", "")
	assert.Error(t, err)
}
