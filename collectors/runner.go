package collectors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/channel"
)

// errTracker deduplicates repeated identical errors per collector.
type errTracker struct {
	lastMsg    string
	lastTime   time.Time
	suppressed int64
}

// Runner drives collectors. Each collector runs in its own goroutine (see
// Run) with an independent ticker and its own output channel. The Runner
// holds what those goroutines share: the status board and the error log
// deduplication state.
type Runner struct {
	board  *StatusBoard
	logger *slog.Logger

	mu          sync.Mutex
	errTrackers map[string]*errTracker
}

// NewRunner returns a Runner reporting to board. A nil board gets a fresh one
// and a nil logger discards output.
func NewRunner(board *StatusBoard, logger *slog.Logger) *Runner {
	if board == nil {
		board = NewStatusBoard()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		board:       board,
		logger:      logger,
		errTrackers: make(map[string]*errTracker),
	}
}

// Board returns the status board the runner reports to.
func (r *Runner) Board() *StatusBoard {
	return r.board
}

// Run collects from c every c.Interval() and sends each successful sample on
// tx until ctx is cancelled. It collects once immediately on start. Errors are
// recorded and logged but never sent. tx is closed when Run returns, which is
// how the consumer learns that the producer is gone; this includes the case
// where Collect panics.
//
// Run always returns nil so it can sit in an errgroup without tearing the
// group down when a single producer dies.
func Run[T any](ctx context.Context, r *Runner, c Collector[T], tx *channel.Sender[T]) error {
	name := c.Name()
	defer tx.Close()
	defer r.board.update(name, func(s *Status) { s.Stopped = true })
	defer func() {
		if p := recover(); p != nil {
			r.board.update(name, func(s *Status) {
				s.Healthy = false
				s.LastError = fmt.Sprintf("panic: %v", p)
			})
			r.logger.Error("collector panicked, closing its stream", "collector", name, "panic", p)
		}
	}()

	interval := c.Interval()
	if interval <= 0 {
		interval = time.Second
	}
	oneShot := IsOneShot(c)

	r.board.update(name, func(*Status) {})
	r.logger.Debug("collector started", "collector", name, "interval", interval, "one_shot", oneShot)

	sent := collectAndSend(ctx, r, c, tx)
	if !(oneShot && sent) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

	loop:
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if collectAndSend(ctx, r, c, tx) && oneShot {
					break loop
				}
			}
		}
	}

	// One-shot collectors keep the channel open so the consumer does not
	// mistake a finished producer for a dead one.
	<-ctx.Done()
	return nil
}

// collectAndSend performs one collection and reports whether a sample was
// sent.
func collectAndSend[T any](ctx context.Context, r *Runner, c Collector[T], tx *channel.Sender[T]) bool {
	name := c.Name()
	start := time.Now()

	v, err := c.Collect(ctx)
	latency := time.Since(start)

	if errors.Is(err, ErrSkipped) {
		r.board.update(name, func(s *Status) { s.SkipCount++ })
		return false
	}

	r.board.update(name, func(s *Status) {
		s.LastRun = start
		s.RunCount++
		s.LastLatency = latency
		if err != nil {
			s.ErrorCount++
			s.LastError = err.Error()
			s.Healthy = false
		} else {
			s.LastError = ""
			s.Healthy = true
		}
	})

	if err != nil {
		if ctx.Err() == nil {
			r.logCollectorError(name, err)
		}
		return false
	}

	if err := tx.Send(v); err != nil {
		r.logger.Debug("collector send failed", "collector", name, "error", err)
		return false
	}
	return true
}

// logCollectorError deduplicates repeated identical errors from the same
// collector. The same message within an hour is suppressed, with a summary
// every 100 repeats.
func (r *Runner) logCollectorError(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := err.Error()
	tracker := r.errTrackers[name]
	if tracker == nil {
		tracker = &errTracker{}
		r.errTrackers[name] = tracker
	}
	now := time.Now()
	if msg == tracker.lastMsg && now.Sub(tracker.lastTime) < time.Hour {
		tracker.suppressed++
		if tracker.suppressed%100 == 0 {
			r.logger.Warn("collector error repeated", "collector", name, "count", tracker.suppressed, "error", err)
		}
		return
	}
	if tracker.suppressed > 0 {
		r.logger.Info("collector previous error repeated", "collector", name, "count", tracker.suppressed)
	}
	r.logger.Warn("collector error", "collector", name, "error", err)
	tracker.lastMsg = msg
	tracker.lastTime = now
	tracker.suppressed = 0
}
