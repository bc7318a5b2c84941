package sysmetrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

const (
	processCollectorName        = "processes"
	processCollectorDescription = "Number of running processes"

	// DefaultProcessInterval is how often the process producer samples.
	DefaultProcessInterval = 500 * time.Millisecond
)

// ProcessCollector counts the processes visible to cpu-pulse.
type ProcessCollector struct {
	interval time.Duration
	logger   *slog.Logger

	// pids is overridable for testing.
	pids func(ctx context.Context) ([]int32, error)
}

// NewProcessCollector returns a process producer sampling every interval.
// A non-positive interval selects DefaultProcessInterval.
func NewProcessCollector(interval time.Duration, logger *slog.Logger) *ProcessCollector {
	if interval <= 0 {
		interval = DefaultProcessInterval
	}
	return &ProcessCollector{
		interval: interval,
		logger:   discardIfNil(logger),
		pids:     process.PidsWithContext,
	}
}

func (c *ProcessCollector) Name() string            { return processCollectorName }
func (c *ProcessCollector) Description() string     { return processCollectorDescription }
func (c *ProcessCollector) Interval() time.Duration { return c.interval }

func (c *ProcessCollector) Collect(ctx context.Context) (telemetry.ProcessCountSample, error) {
	pids, err := c.pids(ctx)
	if err != nil {
		return telemetry.ProcessCountSample{}, fmt.Errorf("sysmetrics: list pids: %w", err)
	}
	c.logger.Debug("processes sampled", "count", len(pids))
	return telemetry.ProcessCountSample{Count: uint64(len(pids))}, nil
}
