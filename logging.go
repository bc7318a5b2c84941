package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tinyland/lab/cpu-pulse/config"
)

// parseLevel maps a config level name to a slog.Level. Validate has already
// rejected unknown names, so the default branch is only reached for "info".
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// newLogger builds the process logger writing to w.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// setupLogger returns the logger for the chosen mode. While the TUI owns the
// terminal, logs go to the configured file (or nowhere if it is unset);
// otherwise they go to stderr. The returned func closes the file.
func setupLogger(cfg config.LogConfig, verbose, tui bool, stderr io.Writer) (*slog.Logger, func(), error) {
	if !tui {
		return newLogger(cfg, verbose, stderr), func() {}, nil
	}
	if cfg.File == "" {
		return newLogger(cfg, verbose, io.Discard), func() {}, nil
	}
	f, err := openLogFile(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(cfg, verbose, f), func() { _ = f.Close() }, nil
}
