package iologger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/mdverse/mddb/pkg/config"
	"github.com/mdverse/mddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_File(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	logPath := filepath.Join(dir, LogFile)

	closer, err := Init(dir, cfg, false)
	require.NoError(t, err)
	slog.Info("first run", "table", "datasets")
	slog.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"first run"`)
	assert.Contains(t, string(data), `"table":"datasets"`)
	assert.NotContains(t, string(data), "hidden")

	t.Run("append keeps old lines", func(t *testing.T) {
		closer, err := Init(dir, cfg, true)
		require.NoError(t, err)
		slog.Info("second run")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "first run")
		assert.Contains(t, string(data), "second run")
	})

	t.Run("truncate drops old lines", func(t *testing.T) {
		cfg.Format = "text"
		closer, err := Init(dir, cfg, false)
		require.NoError(t, err)
		slog.Info("third run")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "first run")
		assert.Contains(t, string(data), "msg=\"third run\"")
	})
}

func TestInit_Error(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	dir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Destination: "file"}

	_, err := Init(dir, cfg, false)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}
