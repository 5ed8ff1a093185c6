// Package logging configures the process-wide slog logger. The TUI owns
// the terminal, so records go to a file under the data directory unless a
// writer is supplied.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/studydesk/internal/store"
)

// Options selects where and how verbosely to log.
type Options struct {
	Level string    // debug, info, warn, error; "" means info
	Path  string    // log file; "" means <data dir>/studydesk.log
	Out   io.Writer // when set, overrides Path (used by headless commands)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// DefaultPath returns <data dir>/studydesk.log.
func DefaultPath() (string, error) {
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studydesk.log"), nil
}

// Setup installs a text handler as the default slog logger. The returned
// close function releases the log file, if one was opened.
func Setup(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	closeFn := func() error { return nil }
	w := opts.Out
	if w == nil {
		path := opts.Path
		if path == "" {
			if path, err = DefaultPath(); err != nil {
				return nil, err
			}
		}
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w = f
		closeFn = f.Close
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
