package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// sparkBlocks are the eight block heights, lowest first.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a series of load percentages on a fixed 0-100 scale so
// sparklines of different series are comparable.
type Sparkline struct {
	// Data points, oldest first.
	Data []float64
	// Width in cells. Shorter data is left-padded; longer data keeps the
	// newest points. 0 means len(Data).
	Width int
	// Color of the blocks; empty leaves them unstyled.
	Color lipgloss.Color
}

// Render draws the sparkline.
func (s Sparkline) Render() string {
	data := s.Data
	width := s.Width
	if width <= 0 {
		width = len(data)
	}
	if width == 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	runes := make([]rune, 0, width)
	for _, v := range data {
		runes = append(runes, sparkBlock(v))
	}

	out := string(runes)
	if s.Color != "" {
		out = lipgloss.NewStyle().Foreground(s.Color).Render(out)
	}
	if pad := width - len(data); pad > 0 {
		out = strings.Repeat(" ", pad) + out
	}
	return out
}

func sparkBlock(percent float64) rune {
	n := math.Max(0, math.Min(100, percent)) / 100
	idx := int(math.Round(n * float64(len(sparkBlocks)-1)))
	return sparkBlocks[idx]
}

// HistorySparkline renders h at telemetry.HistoryCapacity cells.
func HistorySparkline(h telemetry.History, color lipgloss.Color) string {
	var buf [telemetry.HistoryCapacity]float64
	return Sparkline{
		Data:  h.AppendTo(buf[:0]),
		Width: telemetry.HistoryCapacity,
		Color: color,
	}.Render()
}
