package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDebug(t *testing.T) {
	require.NoError(t, logger.Init(false, filepath.Join(t.TempDir(), "log.txt")))

	assert.False(t, logger.DebugEnabled())
	logger.SetDebug(true)
	assert.True(t, logger.DebugEnabled())
	logger.SetDebug(false)
	assert.False(t, logger.DebugEnabled())
}

func TestVerboseKeepsDebug(t *testing.T) {
	require.NoError(t, logger.Init(true, filepath.Join(t.TempDir(), "log.txt")))
	t.Cleanup(func() { _ = logger.Init(false, filepath.Join(t.TempDir(), "log.txt")) })

	logger.SetDebug(false)
	assert.True(t, logger.DebugEnabled())
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, logger.Init(false, path))

	logger.Log.Info("hello from test")
	logger.Log.Debug("hidden")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.NotContains(t, string(data), "hidden")
}

func TestInitBadPath(t *testing.T) {
	err := logger.Init(false, filepath.Join(t.TempDir(), "missing", "log.txt"))
	assert.Error(t, err)
}
