package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/cache"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// errExporterRunning is returned by acquire when another live process owns
// the export directory.
var errExporterRunning = errors.New("another cpu-pulse instance is exporting")

// exporter writes the snapshot file read by -status. Only one process may
// export into a directory at a time; ownership is recorded in a PID file.
type exporter struct {
	store   *cache.Store
	board   *collectors.StatusBoard
	logger  *slog.Logger
	pidFile string
	now     func() time.Time
}

func newExporter(dir string, board *collectors.StatusBoard, logger *slog.Logger) (*exporter, error) {
	store, err := cache.NewStore(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("exporter: %w", err)
	}
	return &exporter{
		store:   store,
		board:   board,
		logger:  logger,
		pidFile: filepath.Join(dir, "cpu-pulse.pid"),
		now:     time.Now,
	}, nil
}

// acquire claims the export directory by writing the current PID.
func (e *exporter) acquire() error {
	if running, pid := e.otherInstance(); running {
		return fmt.Errorf("%w (PID %d)", errExporterRunning, pid)
	}
	pid := os.Getpid()
	if err := os.WriteFile(e.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("exporter: write PID file: %w", err)
	}
	e.logger.Debug("wrote PID file", "path", e.pidFile, "pid", pid)
	return nil
}

// release removes the PID file.
func (e *exporter) release() {
	if err := os.Remove(e.pidFile); err != nil && !os.IsNotExist(err) {
		e.logger.Error("failed to remove PID file", "path", e.pidFile, "error", err)
	}
}

// otherInstance reports whether the PID file names a live process other than
// this one. Corrupt or stale PID files are removed.
func (e *exporter) otherInstance() (bool, int) {
	data, err := os.ReadFile(e.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		e.logger.Warn("corrupt PID file, removing", "path", e.pidFile, "content", string(data))
		_ = os.Remove(e.pidFile)
		return false, 0
	}
	if pid == os.Getpid() {
		return false, 0
	}

	// Signal 0 probes for existence without delivering anything.
	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		e.logger.Warn("stale PID file, removing", "path", e.pidFile, "pid", pid)
		_ = os.Remove(e.pidFile)
		return false, 0
	}
	return true, pid
}

// export writes v together with the current producer health.
func (e *exporter) export(v telemetry.View) error {
	snap := cache.Snapshot{
		CapturedAt: e.now(),
		View:       v,
	}
	if e.board != nil {
		snap.Producers = e.board.All()
	}
	if err := cache.WriteSnapshot(e.store, snap); err != nil {
		return fmt.Errorf("exporter: %w", err)
	}
	return nil
}
