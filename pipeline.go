package main

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/cpu-pulse/channel"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors/retry"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/cpu-pulse/config"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// producers is the set of collectors feeding the engine.
type producers struct {
	cpu       collectors.Collector[telemetry.CPUSample]
	identity  collectors.Collector[telemetry.IdentitySample]
	processes collectors.Collector[telemetry.ProcessCountSample]
}

// hostProducers builds the gopsutil-backed collectors from cfg. The periodic
// ones sit behind a circuit breaker so a failing source backs off instead of
// logging every interval.
func hostProducers(cfg *config.Config, logger *slog.Logger) producers {
	breaker := retry.DefaultConfig()
	breaker.Logger = logger
	return producers{
		cpu: retry.Wrap[telemetry.CPUSample](
			sysmetrics.NewCPUCollector(cfg.Collectors.CPU.Interval.Duration, logger), breaker),
		identity: sysmetrics.NewIdentityCollector(cfg.Collectors.Identity.RetryInterval.Duration, logger),
		processes: retry.Wrap[telemetry.ProcessCountSample](
			sysmetrics.NewProcessCollector(cfg.Collectors.Processes.Interval.Duration, logger), breaker),
	}
}

// pipeline connects the producers to the Ingestor through one channel per
// metric kind. The Ingestor belongs to whichever loop drives it (TUI or
// headless); producers only ever touch their Sender.
type pipeline struct {
	prod   producers
	runner *collectors.Runner
	ingest *telemetry.Ingestor

	cpuTx   *channel.Sender[telemetry.CPUSample]
	identTx *channel.Sender[telemetry.IdentitySample]
	procsTx *channel.Sender[telemetry.ProcessCountSample]
}

func newPipeline(prod producers, board *collectors.StatusBoard, logger *slog.Logger) *pipeline {
	cpuTx, cpuRx := channel.New[telemetry.CPUSample]()
	identTx, identRx := channel.New[telemetry.IdentitySample]()
	procsTx, procsRx := channel.New[telemetry.ProcessCountSample]()

	return &pipeline{
		prod:   prod,
		runner: collectors.NewRunner(board, logger),
		ingest: telemetry.NewIngestor(nil, telemetry.Sources{
			CPU:       cpuRx,
			Identity:  identRx,
			Processes: procsRx,
		}, logger),
		cpuTx:   cpuTx,
		identTx: identTx,
		procsTx: procsTx,
	}
}

// start launches one goroutine per producer in g. Each closes its Sender
// when ctx is cancelled.
func (p *pipeline) start(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error { return collectors.Run(ctx, p.runner, p.prod.cpu, p.cpuTx) })
	g.Go(func() error { return collectors.Run(ctx, p.runner, p.prod.identity, p.identTx) })
	g.Go(func() error { return collectors.Run(ctx, p.runner, p.prod.processes, p.procsTx) })
}

// board returns the producer status board.
func (p *pipeline) board() *collectors.StatusBoard {
	return p.runner.Board()
}

// allSilent reports whether every producer has gone away.
func (p *pipeline) allSilent() bool {
	for _, s := range telemetry.Streams {
		if !p.ingest.Silent(s) {
			return false
		}
	}
	return true
}
