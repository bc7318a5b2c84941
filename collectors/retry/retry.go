// Package retry wraps producers in a circuit breaker. After repeated
// failures the breaker stops calling the producer and reports a skip instead,
// waiting longer after each failed probe, so a broken host API does not flood
// the log at sub-second cadence.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
)

// ErrCircuitOpen is returned by Collect while the circuit is open. It wraps
// collectors.ErrSkipped so the runner counts it as a skip, not a failure.
var ErrCircuitOpen = fmt.Errorf("retry: circuit open: %w", collectors.ErrSkipped)

// State is the breaker position.
type State int

const (
	// StateClosed passes every call through.
	StateClosed State = iota
	// StateOpen skips calls until the current timeout has elapsed.
	StateOpen
	// StateHalfOpen lets a single probe through to test recovery.
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half_open",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Config tunes the breaker.
type Config struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// ResetTimeout is the first wait before a probe.
	ResetTimeout time.Duration
	// MaxResetTimeout caps the wait after repeated failed probes.
	MaxResetTimeout time.Duration
	// BackoffMultiplier scales the wait after each failed probe.
	BackoffMultiplier float64
	// Logger receives state transitions. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns defaults suited to sub-second host sampling.
func DefaultConfig() Config {
	return Config{
		MaxFailures:       3,
		ResetTimeout:      5 * time.Second,
		MaxResetTimeout:   2 * time.Minute,
		BackoffMultiplier: 2.0,
	}
}

// Stats is a point-in-time copy of the breaker counters.
type Stats struct {
	State            State
	ConsecutiveFails int
	TotalFailures    int
	TotalSuccesses   int
	LastFailure      time.Time
	LastSuccess      time.Time
	CurrentTimeout   time.Duration
	ConsecutiveSkips int
}

// CircuitBreaker is a collectors.Collector[T] guarding another one.
type CircuitBreaker[T any] struct {
	inner  collectors.Collector[T]
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	stats Stats
}

// Wrap returns c behind a circuit breaker configured by cfg.
func Wrap[T any](c collectors.Collector[T], cfg Config) *CircuitBreaker[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CircuitBreaker[T]{
		inner:  c,
		cfg:    cfg,
		logger: logger.With("collector", c.Name()),
		now:    time.Now,
		stats:  Stats{State: StateClosed, CurrentTimeout: cfg.ResetTimeout},
	}
}

func (cb *CircuitBreaker[T]) Name() string            { return cb.inner.Name() }
func (cb *CircuitBreaker[T]) Interval() time.Duration { return cb.inner.Interval() }

// Description is the wrapped description followed by the circuit state.
func (cb *CircuitBreaker[T]) Description() string {
	return fmt.Sprintf("%s [circuit: %s]", cb.inner.Description(), cb.State())
}

// OneShot reports whether the wrapped collector is one-shot.
func (cb *CircuitBreaker[T]) OneShot() bool {
	return collectors.IsOneShot(cb.inner)
}

// Collect calls the wrapped collector unless the circuit is open.
func (cb *CircuitBreaker[T]) Collect(ctx context.Context) (T, error) {
	probe, err := cb.admit()
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := cb.inner.Collect(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// Shutdown, not a producer fault.
		return v, err
	}
	cb.record(err, probe)
	return v, err
}

// admit decides whether a call may go through and whether it is a probe.
func (cb *CircuitBreaker[T]) admit() (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	st := &cb.stats
	switch st.State {
	case StateClosed:
		return false, nil
	case StateHalfOpen:
		return true, nil
	}

	wait := st.CurrentTimeout - cb.now().Sub(st.LastFailure)
	if wait > 0 {
		st.ConsecutiveSkips++
		cb.logger.Debug("circuit open, skipping", "failures", st.ConsecutiveFails, "retry_in", wait)
		return false, fmt.Errorf("%w: %s failed %d times, retry in %s",
			ErrCircuitOpen, cb.inner.Name(), st.ConsecutiveFails, wait.Truncate(time.Millisecond))
	}
	st.State = StateHalfOpen
	cb.logger.Info("circuit half-open, probing")
	return true, nil
}

// record applies the outcome of an admitted call.
func (cb *CircuitBreaker[T]) record(err error, probe bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	st := &cb.stats
	now := cb.now()
	if err == nil {
		if probe {
			cb.logger.Info("circuit closed after successful probe")
		}
		st.State = StateClosed
		st.ConsecutiveFails = 0
		st.ConsecutiveSkips = 0
		st.TotalSuccesses++
		st.LastSuccess = now
		st.CurrentTimeout = cb.cfg.ResetTimeout
		return
	}

	st.ConsecutiveFails++
	st.TotalFailures++
	st.LastFailure = now

	switch {
	case probe:
		next := time.Duration(float64(st.CurrentTimeout) * cb.cfg.BackoffMultiplier)
		st.CurrentTimeout = min(next, cb.cfg.MaxResetTimeout)
		st.State = StateOpen
		cb.logger.Warn("circuit re-opened after failed probe",
			"failures", st.ConsecutiveFails, "next_timeout", st.CurrentTimeout)
	case st.ConsecutiveFails >= cb.cfg.MaxFailures:
		st.State = StateOpen
		st.CurrentTimeout = cb.cfg.ResetTimeout
		cb.logger.Warn("circuit opened", "failures", st.ConsecutiveFails, "timeout", st.CurrentTimeout)
	}
}

// State returns the current breaker position.
func (cb *CircuitBreaker[T]) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats.State
}

// Stats returns a copy of the breaker counters.
func (cb *CircuitBreaker[T]) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats
}
