// cpu-pulse is a live host load monitor.
//
// Background producers sample overall and per-core CPU load, the process
// count and the host identity. A single refresh loop drains their channels,
// keeps a short rolling history per series and smooths it with an
// exponential moving average, then renders the result either as an
// interactive dashboard or, when stdout is not a terminal, as one status line
// per CPU sample. The latest view is exported to a JSON snapshot that
// `cpu-pulse -status` prints for shell prompts.
//
// Usage:
//
//	cpu-pulse [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/cpu-pulse/config.yaml)
//	-headless       Print status lines instead of launching the dashboard
//	-status         Print the last exported snapshot and exit
//	-json           Output -status as JSON
//	-man            Print man page to stdout in roff format
//	-no-color       Disable colored output
//	-shell string   Output shell integration script (bash|zsh|fish|nushell)
//	-verbose        Enable debug logging
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/config"
	"gitlab.com/tinyland/lab/cpu-pulse/display/color"
	"gitlab.com/tinyland/lab/cpu-pulse/display/statusline"
	"gitlab.com/tinyland/lab/cpu-pulse/display/tui"
	"gitlab.com/tinyland/lab/cpu-pulse/docs/manpage"
	"gitlab.com/tinyland/lab/cpu-pulse/shell"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the os.Exit, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cpu-pulse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath   = fs.String("config", "", "Path to configuration file (default: ~/.config/cpu-pulse/config.yaml)")
		headlessMode = fs.Bool("headless", false, "Print status lines instead of launching the dashboard")
		statusMode   = fs.Bool("status", false, "Print the last exported snapshot and exit")
		jsonOutput   = fs.Bool("json", false, "Output -status as JSON")
		noColor      = fs.Bool("no-color", false, "Disable colored output")
		verbose      = fs.Bool("verbose", false, "Enable debug logging")
		showVersion  = fs.Bool("version", false, "Print version and exit")
		shellName    = fs.String("shell", "", "Output shell integration script (bash|zsh|fish|nushell)")
		showMan      = fs.Bool("man", false, "Print man page to stdout in roff format")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// ---------------------------------------------------------------
	// Commands that don't require config
	// ---------------------------------------------------------------

	if *showVersion {
		fmt.Fprintf(stdout, "cpu-pulse %s (%s) built %s\n", version, commit, date)
		return 0
	}

	if *showMan {
		fmt.Fprint(stdout, manpage.Generate(version, commit, date, fs))
		return 0
	}

	if *shellName != "" {
		st, err := shell.ParseShellType(*shellName)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg := shell.DefaultIntegrationConfig()
		cfg.ConfigPath = *configPath
		fmt.Fprint(stdout, shell.GenerateIntegration(st, cfg))
		return 0
	}

	// ---------------------------------------------------------------
	// Load configuration
	// ---------------------------------------------------------------

	if _, err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	out := fileOf(stdout)
	color.Apply(*noColor || cfg.Display.NoColor, out)

	// ---------------------------------------------------------------
	// Status mode
	// ---------------------------------------------------------------

	if *statusMode {
		return checkStatus(cfg.Export.Dir, cfg.Export.TTL.Duration,
			statusline.TerminalWidth(out), *jsonOutput, stdout, stderr)
	}

	// ---------------------------------------------------------------
	// Monitor mode
	// ---------------------------------------------------------------

	interactive := !*headlessMode && color.IsTerminal(os.Stdin) && color.IsTerminal(out)

	logger, closeLog, err := setupLogger(cfg.Log, *verbose, interactive, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to set up logging: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board := collectors.NewStatusBoard()
	pipe := newPipeline(hostProducers(cfg, logger), board, logger)

	var export func(telemetry.View) error
	if cfg.Export.Enabled {
		exp, err := newExporter(cfg.Export.Dir, board, logger)
		if err == nil {
			err = exp.acquire()
		}
		if err != nil {
			logger.Warn("snapshot export disabled", "error", err)
		} else {
			defer exp.release()
			export = exp.export
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	pipe.start(gctx, g)

	if interactive {
		g.Go(func() error {
			defer cancel()
			return runTUI(gctx, pipe, tui.Options{
				Refresh:     cfg.RefreshInterval.Duration,
				Board:       board,
				Export:      export,
				ExportEvery: cfg.Export.Interval.Duration,
			})
		})
	} else {
		h := &headless{
			pipe:        pipe,
			out:         stdout,
			logger:      logger,
			refresh:     cfg.RefreshInterval.Duration,
			line:        statusline.Options{Width: statusline.TerminalWidth(out), Sparkline: true},
			export:      export,
			exportEvery: cfg.Export.Interval.Duration,
		}
		g.Go(func() error {
			defer cancel()
			return h.run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "cpu-pulse: %v\n", err)
		return 1
	}
	return 0
}

// runTUI runs the dashboard until the user quits or ctx is cancelled.
func runTUI(ctx context.Context, pipe *pipeline, opts tui.Options) error {
	p := tea.NewProgram(tui.NewModel(pipe.ingest, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// fileOf returns w as an *os.File when it is one, for terminal detection.
func fileOf(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
