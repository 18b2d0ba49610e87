// Package logging sets up the slog logger. The TUI owns the terminal, so
// logs go to a file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "TUNEDECK_LOG_LEVEL"

// DefaultPath returns $XDG_STATE_HOME/tunedeck/tunedeck.log.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join("tunedeck", "tunedeck.log"))
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Level resolves the effective level: the environment wins over configured.
func Level(configured string) slog.Level {
	if env := os.Getenv(EnvLevel); env != "" {
		return ParseLevel(env)
	}
	return ParseLevel(configured)
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open appends to the log file at path (DefaultPath when empty), installs
// the logger as slog's default and returns it with the file to close on exit.
func Open(path, level string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	log := New(f, Level(level))
	slog.SetDefault(log)
	return log, f, nil
}
