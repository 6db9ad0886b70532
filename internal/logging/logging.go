// Package logging builds the structured logger shared by the dispatcher and the demo host.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// level is shared by every logger built here so it can change at runtime.
var level slog.LevelVar

// New returns a text logger writing to w at the given level ("debug", "info", "warn", "error").
func New(w io.Writer, lvl string) *slog.Logger {
	SetLevel(lvl)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
}

// NewFile opens dir/dragdrop_<timestamp>.log and returns a logger writing to it.
// The caller closes the returned file.
func NewFile(dir, lvl string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	name := filepath.Join(dir, "dragdrop_"+time.Now().Format("20060102_150405")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, lvl), f, nil
}

// SetLevel changes the level of every logger built by this package.
func SetLevel(lvl string) {
	level.Set(ParseLevel(lvl))
}

// Level returns the current level name.
func Level() string {
	switch level.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel maps a level name to a slog level. Unknown names mean error.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
