// Package logger builds the slog handlers docket logs through: a colored
// tint handler on terminals and a plain text handler otherwise.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New returns a logger writing to w. Terminals get the tint handler.
func New(w io.Writer) *slog.Logger {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(newTerminalHandler(w))
	}
	return slog.New(newTextHandler(w))
}

// Setup sets the level by name and installs a stderr logger as the slog
// default.
func Setup(levelName string) *slog.Logger {
	if !Level.SetByName(levelName) {
		Level.Set(slog.LevelInfo)
	}
	l := New(os.Stderr)
	slog.SetDefault(l)
	return l
}

// SetupFile installs a logger that appends to path as the slog default.
// The terminal dashboard logs here so log lines do not corrupt the screen.
// The returned closer releases the file.
func SetupFile(levelName, path string) (*slog.Logger, io.Closer, error) {
	if !Level.SetByName(levelName) {
		Level.Set(slog.LevelInfo)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l := slog.New(newTextHandler(f))
	slog.SetDefault(l)
	return l, f, nil
}

func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level.lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor: runtime.GOOS == "windows",
		Level:   Level.lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
