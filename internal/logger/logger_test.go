package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetByName(t *testing.T) {
	t.Cleanup(func() { Level.Set(slog.LevelInfo) })

	tests := []struct {
		name string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"WARN", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, Level.SetByName(tt.name))
			assert.Equal(t, tt.want, Level.lvl.Level())
		})
	}

	Level.Set(slog.LevelWarn)
	assert.False(t, Level.SetByName("verbose"))
	assert.Equal(t, slog.LevelWarn, Level.lvl.Level(), "unknown names keep the level")
}

func TestNewTextHandler(t *testing.T) {
	t.Cleanup(func() { Level.Set(slog.LevelInfo) })
	Level.Set(slog.LevelInfo)

	var buf bytes.Buffer
	l := New(&buf)
	l.Debug("hidden")
	l.Info("listing processes", "page", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "page=2")
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		Level.Set(slog.LevelInfo)
	})

	path := filepath.Join(t.TempDir(), "nested", "docket.log")
	l, closer, err := SetupFile("debug", path)
	require.NoError(t, err)
	l.Debug("edit committed", "id", 42)
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "edit committed")
	assert.Contains(t, string(b), "id=42")
}
