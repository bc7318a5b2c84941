package sysmetrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shirou/gopsutil/v4/cpu"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

var _ collectors.Collector[telemetry.CPUSample] = (*CPUCollector)(nil)

// fakeTimes replays one reading per call: reading[0] is the aggregate and
// the rest are per-core.
func fakeTimes(readings ...[]cpu.TimesStat) func(context.Context, bool) ([]cpu.TimesStat, error) {
	call := 0
	return func(_ context.Context, perCPU bool) ([]cpu.TimesStat, error) {
		r := readings[min(call, len(readings)-1)]
		if perCPU {
			call++
			return r[1:], nil
		}
		return r[:1], nil
	}
}

func ts(user, system, idle float64) cpu.TimesStat {
	return cpu.TimesStat{User: user, System: system, Idle: idle}
}

func TestBusyPercent(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur cpu.TimesStat
		want      float64
	}{
		{"since boot", cpu.TimesStat{}, ts(30, 20, 50), 50},
		{"fully idle", ts(10, 0, 10), ts(10, 0, 20), 0},
		{"fully busy", ts(10, 0, 10), ts(15, 5, 10), 100},
		{"iowait counts as idle", cpu.TimesStat{}, cpu.TimesStat{User: 25, Idle: 50, Iowait: 25}, 25},
		{"no time elapsed", ts(1, 1, 1), ts(1, 1, 1), 0},
		{"counter went backwards", ts(10, 10, 10), ts(5, 5, 5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := busyPercent(tt.prev, tt.cur)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("busyPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCPUCollector_Deltas(t *testing.T) {
	c := NewCPUCollector(0, nil)
	c.times = fakeTimes(
		[]cpu.TimesStat{ts(10, 10, 80), ts(5, 5, 40), ts(5, 5, 40)},
		[]cpu.TimesStat{ts(30, 10, 160), ts(25, 5, 40), ts(5, 5, 120)},
	)

	first, err := c.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Overall != 20 || len(first.PerCore) != 2 {
		t.Fatalf("first sample = %+v, want overall 20 with 2 cores", first)
	}

	second, err := c.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Aggregate: 20 busy of 100 elapsed.
	if math.Abs(second.Overall-20) > 1e-9 {
		t.Errorf("Overall = %v, want 20", second.Overall)
	}
	// Core 0: 20 busy of 20; core 1: 0 busy of 80.
	if second.PerCore[0] != 100 || second.PerCore[1] != 0 {
		t.Errorf("PerCore = %v, want [100 0]", second.PerCore)
	}
}

func TestCPUCollector_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		times func(context.Context, bool) ([]cpu.TimesStat, error)
	}{
		{"aggregate fails", func(context.Context, bool) ([]cpu.TimesStat, error) { return nil, boom }},
		{"aggregate empty", func(context.Context, bool) ([]cpu.TimesStat, error) { return nil, nil }},
		{"per-core fails", func(_ context.Context, per bool) ([]cpu.TimesStat, error) {
			if per {
				return nil, boom
			}
			return []cpu.TimesStat{ts(1, 1, 1)}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCPUCollector(0, nil)
			c.times = tt.times
			if _, err := c.Collect(context.Background()); err == nil {
				t.Error("Collect() error = nil")
			}
		})
	}
}

func TestCPUCollector_Defaults(t *testing.T) {
	c := NewCPUCollector(0, nil)
	if c.Interval() != DefaultCPUInterval {
		t.Errorf("Interval() = %v, want %v", c.Interval(), DefaultCPUInterval)
	}
	if c.Name() != "cpu" {
		t.Errorf("Name() = %q", c.Name())
	}
	if collectors.IsOneShot(c) {
		t.Error("cpu collector reported one-shot")
	}
}
