package telemetry

import (
	"errors"
	"fmt"
)

// ErrCoreCountMismatch is returned when a CPU sample reports a different
// number of cores than the one that initialized the per-core series.
var ErrCoreCountMismatch = errors.New("telemetry: core count mismatch")

// CoreCountMismatchError carries the expected and received core counts.
// It matches ErrCoreCountMismatch with errors.Is.
type CoreCountMismatchError struct {
	Want int
	Got  int
}

func (e *CoreCountMismatchError) Error() string {
	return fmt.Sprintf("telemetry: core count mismatch: series sized for %d cores, sample has %d", e.Want, e.Got)
}

func (e *CoreCountMismatchError) Unwrap() error {
	return ErrCoreCountMismatch
}

// CoreSet holds the per-core series. It is created once, sized by the first
// CPU sample, and never resized. A nil *CoreSet means no sample has arrived
// yet.
type CoreSet struct {
	series []Series
}

func newCoreSet(n int) *CoreSet {
	return &CoreSet{series: make([]Series, n)}
}

// Len returns the number of cores.
func (c *CoreSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.series)
}

// At returns the series for core i.
func (c *CoreSet) At(i int) *Series {
	return &c.series[i]
}

// Aggregator is the engine's mutable state. It is not safe for concurrent
// use: a single goroutine (the refresh loop) owns it and every producer
// reaches it only through a channel.
type Aggregator struct {
	overall   Series
	cores     *CoreSet
	identity  IdentitySample
	processes ProcessCountSample
	applied   uint64
}

// NewAggregator returns an Aggregator with empty series and placeholder
// identity and process values.
func NewAggregator() *Aggregator {
	return &Aggregator{
		identity: NewIdentitySample(),
	}
}

// ApplyCPUSample folds one CPU sample into the overall and per-core series.
// The first sample sizes the per-core series. A later sample with a different
// core count is rejected with a *CoreCountMismatchError and leaves every
// series untouched.
func (a *Aggregator) ApplyCPUSample(s CPUSample) error {
	if a.cores != nil && len(s.PerCore) != a.cores.Len() {
		return &CoreCountMismatchError{Want: a.cores.Len(), Got: len(s.PerCore)}
	}

	a.overall.push(s.Overall)

	if a.cores == nil {
		a.cores = newCoreSet(len(s.PerCore))
	}
	for i, v := range s.PerCore {
		a.cores.series[i].push(v)
	}

	a.applied++
	return nil
}

// ApplyIdentitySample replaces the stored identity.
func (a *Aggregator) ApplyIdentitySample(s IdentitySample) {
	a.identity = s
}

// ApplyProcessCountSample replaces the stored process count.
func (a *Aggregator) ApplyProcessCountSample(s ProcessCountSample) {
	a.processes = s
}

// Overall returns the aggregate CPU series.
func (a *Aggregator) Overall() *Series {
	return &a.overall
}

// Cores returns the per-core series, or nil before the first CPU sample.
func (a *Aggregator) Cores() *CoreSet {
	return a.cores
}

// CoresInitialized reports whether a CPU sample has sized the per-core series.
func (a *Aggregator) CoresInitialized() bool {
	return a.cores != nil
}

// CoreCount returns the number of per-core series, 0 before the first sample.
func (a *Aggregator) CoreCount() int {
	return a.cores.Len()
}

// Core returns the series for core i. ok is false before the first CPU sample
// or when i is out of range.
func (a *Aggregator) Core(i int) (*Series, bool) {
	if i < 0 || i >= a.cores.Len() {
		return nil, false
	}
	return a.cores.At(i), true
}

// Identity returns the latest host identity.
func (a *Aggregator) Identity() IdentitySample {
	return a.identity
}

// ProcessCount returns the latest process count.
func (a *Aggregator) ProcessCount() uint64 {
	return a.processes.Count
}

// SamplesApplied returns how many CPU samples have been applied.
func (a *Aggregator) SamplesApplied() uint64 {
	return a.applied
}
