package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/display/statusline"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// headless drives the Ingestor without a TUI: every refresh tick drains the
// producer channels and, when a new CPU sample was applied, prints one
// status line.
type headless struct {
	pipe    *pipeline
	out     io.Writer
	logger  *slog.Logger
	refresh time.Duration
	line    statusline.Options

	// export is nil when exporting is disabled.
	export      func(telemetry.View) error
	exportEvery time.Duration
	lastExport  time.Time
}

// run loops until ctx is cancelled or every producer has gone away.
func (h *headless) run(ctx context.Context) error {
	ticker := time.NewTicker(h.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("headless loop shutting down")
			h.maybeExport(time.Now(), true)
			return nil
		case now := <-ticker.C:
			rep := h.pipe.ingest.Tick()
			if rep.CPU {
				fmt.Fprintln(h.out, statusline.Format(h.pipe.ingest.View(), h.line))
			}
			h.maybeExport(now, false)

			if h.pipe.allSilent() {
				h.logger.Warn("all producers stopped, exiting")
				h.maybeExport(now, true)
				return nil
			}
		}
	}
}

// maybeExport writes the snapshot when it is due or when force is set.
func (h *headless) maybeExport(now time.Time, force bool) {
	if h.export == nil || h.pipe.ingest.Aggregator().SamplesApplied() == 0 {
		return
	}
	if !force && !h.lastExport.IsZero() && now.Sub(h.lastExport) < h.exportEvery {
		return
	}
	h.lastExport = now
	if err := h.export(h.pipe.ingest.View()); err != nil {
		h.logger.Error("snapshot export failed", "error", err)
	}
}
