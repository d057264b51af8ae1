package logger

import (
	"nihongo_backend/internal/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetMode(t *testing.T) {
	t.Cleanup(func() { SetMode("release") })

	SetMode("debug")
	assert.True(t, level.Enabled(zap.DebugLevel))

	SetMode("release")
	assert.False(t, level.Enabled(zap.DebugLevel))
	assert.True(t, level.Enabled(zap.InfoLevel))
}

func TestInitLogger_WritesFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1},
	})
	Log.Info("lesson created", zap.String("title", "Kana"))
	_ = Log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"lesson created"`)
	assert.Contains(t, string(data), `"service":"nihongo-backend"`)
}
