package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// coreCellWidth is the width of one rendered core cell:
// "cpu00 " + 10 gauge + " 100.0% " + 10 sparkline.
const coreCellWidth = 6 + 10 + 8 + telemetry.HistoryCapacity

// CoreGrid renders one cell per core, laid out in as many columns as fit in
// Width. Each cell shows the core's smoothed load as a gauge and its raw
// history as a sparkline.
type CoreGrid struct {
	Cores *telemetry.CoreSet
	Width int
}

// Columns returns how many cells fit side by side.
func (g CoreGrid) Columns() int {
	cols := (g.Width + 2) / (coreCellWidth + 2)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Render draws the grid, or a waiting message before the first sample.
func (g CoreGrid) Render() string {
	n := g.Cores.Len()
	if n == 0 {
		return lipgloss.NewStyle().Faint(true).Render("waiting for per-core data…")
	}

	cols := g.Columns()
	var rows []string
	for start := 0; start < n; start += cols {
		var cells []string
		for i := start; i < min(start+cols, n); i++ {
			cells = append(cells, coreCell(i, g.Cores.At(i)))
		}
		rows = append(rows, strings.Join(cells, "  "))
	}
	return strings.Join(rows, "\n")
}

func coreCell(i int, s *telemetry.Series) string {
	avg, _ := s.LatestEMA()
	return fmt.Sprintf("cpu%-2d %s %s %s",
		i,
		MiniGauge(avg, 10),
		LoadStyle(avg).Render(fmt.Sprintf("%5.1f%%", avg)),
		HistorySparkline(s.Raw(), LoadColor(avg)),
	)
}
