// Package collectors defines the producer side of cpu-pulse: sources that
// sample the host on their own cadence and hand each snapshot to the engine
// over a channel.
package collectors

import (
	"context"
	"errors"
	"time"
)

// ErrSkipped is returned (possibly wrapped) by a Collect call that
// deliberately did no work, for example because a circuit breaker is open.
// The runner counts it but does not treat it as a failure.
var ErrSkipped = errors.New("collectors: collection skipped")

// Collector produces snapshots of type T.
type Collector[T any] interface {
	// Name returns the collector's unique identifier (e.g. "cpu").
	Name() string

	// Description returns a human-readable description of what this collector gathers.
	Description() string

	// Interval returns the polling interval. For a OneShot collector it is
	// the delay between attempts until the first success.
	Interval() time.Duration

	// Collect takes one sample. It should respect ctx cancellation.
	Collect(ctx context.Context) (T, error)
}

// OneShot is implemented by collectors whose value does not change over the
// process lifetime. The runner stops collecting after the first successful
// sample but keeps the channel open until shutdown.
type OneShot interface {
	OneShot() bool
}

// IsOneShot reports whether c asks to be collected only once.
func IsOneShot(c any) bool {
	o, ok := c.(OneShot)
	return ok && o.OneShot()
}

// Func adapts a plain function to the Collector interface.
type Func[T any] struct {
	name        string
	description string
	interval    time.Duration
	fn          func(context.Context) (T, error)
}

// NewFunc returns a Collector named name that calls fn every interval.
func NewFunc[T any](name, description string, interval time.Duration, fn func(context.Context) (T, error)) *Func[T] {
	return &Func[T]{name: name, description: description, interval: interval, fn: fn}
}

func (f *Func[T]) Name() string            { return f.name }
func (f *Func[T]) Description() string     { return f.description }
func (f *Func[T]) Interval() time.Duration { return f.interval }

func (f *Func[T]) Collect(ctx context.Context) (T, error) {
	return f.fn(ctx)
}
