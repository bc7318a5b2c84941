// Package manpage generates a roff-formatted man page for cpu-pulse.
//
// The OPTIONS and KEYBINDINGS sections are generated at runtime from the
// command's flag set and the dashboard key map, keeping documentation in
// sync with the code automatically.
//
// Usage:
//
//	cpu-pulse -man | man -l -
//	cpu-pulse -man > ~/.local/share/man/man1/cpu-pulse.1
package manpage

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/display/tui"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// Generate produces a complete roff-formatted man(1) page for cpu-pulse.
// The version, commit, and date parameters are passed from the build-time
// linker variables so the man page always reflects the current build. flags
// is the command's flag set.
func Generate(version, commit, date string, flags *flag.FlagSet) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b, flags)
	writeKeybindings(&b)
	writeConfiguration(&b)
	writeShellIntegration(&b)
	writeFiles(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeBugs(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH CPU-PULSE 1 \"%s\" \"cpu-pulse %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
cpu\-pulse \- live, smoothed host load monitor
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B cpu\-pulse
[\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	fmt.Fprintf(b, `.SH DESCRIPTION
.B cpu\-pulse
samples overall and per\-core CPU load, the process count and the host
identity on background producers. A single refresh loop takes the latest
sample from each producer, keeps the last %d readings per series and smooths
them with an exponential moving average (alpha %.1f).
.PP
The tool operates in several modes:
.IP \(bu 2
.B Dashboard mode
(default on a terminal): an interactive Bubbletea dashboard with overall
and per\-core views.
.IP \(bu 2
.B Headless mode
(\fB\-headless\fR, or when stdout is not a terminal): prints one status
line per CPU sample.
.IP \(bu 2
.B Status mode
(\fB\-status\fR): prints the snapshot last exported by a running instance
and exits. Intended for shell prompts.
`, telemetry.HistoryCapacity, telemetry.SmoothingFactor)
}

func writeOptions(b *strings.Builder, flags *flag.FlagSet) {
	b.WriteString(".SH OPTIONS\n")
	if flags == nil {
		return
	}
	flags.VisitAll(func(f *flag.Flag) {
		b.WriteString(".TP\n")
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Fprintf(b, ".BR \\-%s \" \\fI%s\\fR\"\n", roffEscape(f.Name), name)
		} else {
			fmt.Fprintf(b, ".B \\-%s\n", roffEscape(f.Name))
		}
		b.WriteString(usage + "\n")
	})
}

func writeKeybindings(b *strings.Builder) {
	b.WriteString(`.SH KEYBINDINGS
Active in the interactive dashboard.
`)
	for _, k := range tui.Bindings() {
		keysStr := strings.Join(k.Keys(), ", ")
		fmt.Fprintf(b, ".TP\n.B %s\n%s\n", roffEscape(keysStr), k.Help().Desc)
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Configuration is read from
.B ~/.config/cpu\-pulse/config.yaml
(or
.BR config.toml )
by default, or from the path given with \fB\-config\fR. A file ending in
.B .toml
is parsed as TOML, anything else as YAML. Durations are written as
strings such as "500ms" or "2s".
.TP
.B refresh_interval
Ingestion and redraw cadence. Default: "100ms".
.TP
.B collectors.cpu.interval
CPU sampling period. Default: "500ms".
.TP
.B collectors.processes.interval
Process count sampling period. Default: "500ms".
.TP
.B collectors.identity.retry_interval
Delay between host identity attempts until one succeeds. Default: "5s".
.TP
.B export.enabled
Write the snapshot read by \fB\-status\fR. Default: true.
.TP
.B export.dir
Snapshot directory. Default: ~/.cache/cpu\-pulse.
.TP
.B export.interval
How often the snapshot is rewritten. Default: "2s".
.TP
.B export.ttl
Age after which \fB\-status\fR reports the snapshot as stale; "0s" disables
the check. Default: "30s".
.TP
.B log.level
One of debug, info, warn, error. Default: info.
.TP
.B log.format
text or json. Default: text.
.TP
.B log.file
Log destination while the dashboard owns the terminal. Default:
~/.local/state/cpu\-pulse/cpu\-pulse.log.
.TP
.B display.no_color
Disable colored output. Default: false.
`)
}

func writeShellIntegration(b *strings.Builder) {
	b.WriteString(`.SH SHELL INTEGRATION
Shell integration scripts bind Ctrl+P to open the dashboard, add a prompt
segment that reads \fB\-status\fR, and define \fBpulse\-start\fR and
\fBpulse\-stop\fR to manage a background headless exporter.
.PP
.nf
eval "$(cpu\-pulse \-shell bash)"
eval "$(cpu\-pulse \-shell zsh)"
cpu\-pulse \-shell fish | source
.fi
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/cpu\-pulse/config.yaml
Configuration file.
.TP
.I ~/.cache/cpu\-pulse/snapshot.json
Last exported view, read by \fB\-status\fR.
.TP
.I ~/.cache/cpu\-pulse/cpu\-pulse.pid
PID of the instance currently exporting.
.TP
.I ~/.local/state/cpu\-pulse/cpu\-pulse.log
Log file used in dashboard mode.
.TP
.I .env
Loaded from the working directory before the configuration; existing
variables are not overridden.
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B CPU_PULSE_REFRESH_INTERVAL
Overrides refresh_interval.
.TP
.B CPU_PULSE_LOG_LEVEL
Overrides log.level.
.TP
.B CPU_PULSE_LOG_FORMAT
Overrides log.format.
.TP
.B CPU_PULSE_LOG_FILE
Overrides log.file.
.TP
.B CPU_PULSE_EXPORT_DIR
Overrides export.dir.
.TP
.B NO_COLOR
When set to a non\-empty value, disables colored output.
.TP
.B XDG_CONFIG_HOME, XDG_CACHE_HOME, XDG_STATE_HOME
Base directories for the default paths.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString(".TP\n.B 0\n")
	b.WriteString("Success. For \\fB\\-status\\fR, the snapshot is fresh.\n")
	b.WriteString(".TP\n.B 1\n")
	b.WriteString("Failure. For \\fB\\-status\\fR, the snapshot is stale or missing.\n")
	b.WriteString(".TP\n.B 2\n")
	b.WriteString("Invalid command line.\n")
}

func writeBugs(b *strings.Builder) {
	b.WriteString(`.SH BUGS
Report bugs at <https://gitlab.com/tinyland/lab/cpu\-pulse/\-/issues>.
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\n%s (%s) built %s\n", version, commit, date)
}
