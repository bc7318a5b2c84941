// Package statusline renders the aggregated telemetry as a single line for
// headless mode, shell prompts and status bars.
package statusline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cpu-pulse/display/widgets"
	"gitlab.com/tinyland/lab/cpu-pulse/internal/format"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

const separator = " | "

// Options control rendering.
type Options struct {
	// Width is the maximum visible width; 0 means unlimited. Lower-priority
	// segments are dropped first.
	Width int
	// Sparkline adds the overall raw history.
	Sparkline bool
	// Age, when non-zero, is how old the data is. It is shown when Stale.
	Age   time.Duration
	Stale bool
}

var dim = lipgloss.NewStyle().Faint(true)

// Format renders v. Segments in priority order: overall load, core count,
// process count, identity, silent streams.
func Format(v telemetry.View, opt Options) string {
	segments := []string{
		loadSegment(v, opt),
		coresSegment(v),
		fmt.Sprintf("%d procs", v.ProcessCount),
		identitySegment(v.Identity),
	}
	if len(v.Silent) > 0 {
		segments = append(segments, dim.Render("silent: "+strings.Join(v.Silent, ",")))
	}
	if opt.Stale {
		segments = append(segments, dim.Render("stale, updated "+format.Ago(opt.Age)))
	}

	if opt.Width <= 0 {
		return format.JoinNonEmpty(separator, segments...)
	}

	line := segments[0]
	if lipgloss.Width(line) > opt.Width {
		return format.TruncateWithEllipsis(stripStyles(v), opt.Width)
	}
	for _, s := range segments[1:] {
		if s == "" {
			continue
		}
		next := line + separator + s
		if lipgloss.Width(next) > opt.Width {
			break
		}
		line = next
	}
	return line
}

func loadSegment(v telemetry.View, opt Options) string {
	if len(v.Overall.Raw) == 0 {
		return "CPU --"
	}
	avg := v.Overall.LatestEMA
	parts := []string{"CPU"}
	if opt.Sparkline {
		parts = append(parts, widgets.Sparkline{
			Data:  v.Overall.Raw,
			Width: telemetry.HistoryCapacity,
			Color: widgets.LoadColor(avg),
		}.Render())
	}
	parts = append(parts,
		widgets.LoadStyle(avg).Render(format.Percent(avg)),
		dim.Render("(raw "+format.Percent(v.Overall.Latest)+")"),
	)
	return strings.Join(parts, " ")
}

func coresSegment(v telemetry.View) string {
	switch n := len(v.Cores); n {
	case 0:
		return ""
	case 1:
		return "1 core"
	default:
		return fmt.Sprintf("%d cores", n)
	}
}

func identitySegment(id telemetry.IdentitySample) string {
	var parts []string
	for _, p := range []string{id.Name, id.Version, id.Architecture} {
		if p != telemetry.Placeholder && p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, " ")
	if id.HostName != telemetry.Placeholder && id.HostName != "" {
		s = format.JoinNonEmpty(" @ ", s, id.HostName)
	}
	return s
}

// stripStyles renders the first segment without styling, for hard
// truncation.
func stripStyles(v telemetry.View) string {
	if len(v.Overall.Raw) == 0 {
		return "CPU --"
	}
	return "CPU " + format.Percent(v.Overall.LatestEMA)
}
