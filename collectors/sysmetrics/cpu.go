package sysmetrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"

	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

const (
	cpuCollectorName        = "cpu"
	cpuCollectorDescription = "Aggregate and per-core CPU utilization"

	// DefaultCPUInterval is how often the CPU producer samples.
	DefaultCPUInterval = 500 * time.Millisecond
)

// CPUCollector samples cumulative CPU times and reports the busy share of the
// time elapsed since the previous call. The first call reports the average
// since boot.
type CPUCollector struct {
	interval time.Duration
	logger   *slog.Logger

	prevTotal   cpu.TimesStat
	prevPerCore []cpu.TimesStat

	// times is overridable for testing.
	times func(ctx context.Context, perCPU bool) ([]cpu.TimesStat, error)
}

// NewCPUCollector returns a CPU producer sampling every interval.
// A non-positive interval selects DefaultCPUInterval.
func NewCPUCollector(interval time.Duration, logger *slog.Logger) *CPUCollector {
	if interval <= 0 {
		interval = DefaultCPUInterval
	}
	return &CPUCollector{
		interval: interval,
		logger:   discardIfNil(logger),
		times:    cpu.TimesWithContext,
	}
}

func (c *CPUCollector) Name() string            { return cpuCollectorName }
func (c *CPUCollector) Description() string     { return cpuCollectorDescription }
func (c *CPUCollector) Interval() time.Duration { return c.interval }

// Collect returns the utilization since the previous call.
func (c *CPUCollector) Collect(ctx context.Context) (telemetry.CPUSample, error) {
	total, err := c.times(ctx, false)
	if err != nil {
		return telemetry.CPUSample{}, fmt.Errorf("sysmetrics: cpu times: %w", err)
	}
	if len(total) == 0 {
		return telemetry.CPUSample{}, fmt.Errorf("sysmetrics: cpu times: empty result")
	}
	perCore, err := c.times(ctx, true)
	if err != nil {
		return telemetry.CPUSample{}, fmt.Errorf("sysmetrics: per-cpu times: %w", err)
	}

	sample := telemetry.CPUSample{
		Overall: busyPercent(c.prevTotal, total[0]),
		PerCore: make([]float64, len(perCore)),
	}
	c.prevTotal = total[0]

	// A hotplugged core changes the count; start those deltas over.
	if len(c.prevPerCore) != len(perCore) {
		c.prevPerCore = make([]cpu.TimesStat, len(perCore))
	}
	for i, t := range perCore {
		sample.PerCore[i] = busyPercent(c.prevPerCore[i], t)
		c.prevPerCore[i] = t
	}

	c.logger.Debug("cpu sampled",
		"overall", fmt.Sprintf("%.1f%%", sample.Overall),
		"cores", len(sample.PerCore),
	)
	return sample, nil
}

// totalTime sums every accounted state. Guest time is already included in
// User and Nice on Linux.
func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// busyPercent returns the non-idle share of the interval between prev and
// cur, in [0, 100].
func busyPercent(prev, cur cpu.TimesStat) float64 {
	dTotal := totalTime(cur) - totalTime(prev)
	if dTotal <= 0 {
		return 0
	}
	dIdle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	pct := (dTotal - dIdle) / dTotal * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
