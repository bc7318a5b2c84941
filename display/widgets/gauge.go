package widgets

import (
	"fmt"
	"math"
	"strings"
)

const (
	gaugeFilled = "█"
	gaugeEmpty  = "░"
)

// Gauge is a horizontal load bar.
type Gauge struct {
	// Width is the bar width in cells; 0 selects 20.
	Width int
	// Percent is clamped to [0, 100].
	Percent float64
	// Label is shown to the left of the bar when set.
	Label string
	// ShowPercent appends the value as "XX.X%".
	ShowPercent bool
}

// Render draws the gauge as [Label] ████░░░░ [XX.X%]. The filled part is
// colored by LoadColor.
func (g Gauge) Render() string {
	percent := math.Max(0, math.Min(100, g.Percent))
	width := g.Width
	if width <= 0 {
		width = 20
	}

	filled := int(math.Round(percent / 100 * float64(width)))
	bar := LoadStyle(percent).Render(strings.Repeat(gaugeFilled, filled)) +
		strings.Repeat(gaugeEmpty, width-filled)

	var sb strings.Builder
	if g.Label != "" {
		sb.WriteString(g.Label)
		sb.WriteByte(' ')
	}
	sb.WriteString(bar)
	if g.ShowPercent {
		fmt.Fprintf(&sb, " %5.1f%%", percent)
	}
	return sb.String()
}

// MiniGauge renders a bare bar of the given width.
func MiniGauge(percent float64, width int) string {
	return Gauge{Width: width, Percent: percent}.Render()
}
