// Package sysmetrics provides the host producers for cpu-pulse: CPU load
// (overall and per core), the host identity and the process count. All three
// sample through gopsutil and expose their sampling functions as fields so
// tests can substitute fixed readings.
package sysmetrics

import (
	"io"
	"log/slog"
)

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
