// Package widgets renders the small building blocks of the dashboard: load
// gauges, sparklines and the per-core grid. Widgets are pure functions of
// their input and return styled strings.
package widgets

import "github.com/charmbracelet/lipgloss"

// Load thresholds in percent.
const (
	LoadWarning = 70.0
	LoadDanger  = 90.0
)

var (
	colorOK      = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#EAB308")
	colorDanger  = lipgloss.Color("#EF4444")
)

// LoadColor returns the color for a load percentage.
func LoadColor(percent float64) lipgloss.Color {
	switch {
	case percent >= LoadDanger:
		return colorDanger
	case percent >= LoadWarning:
		return colorWarning
	default:
		return colorOK
	}
}

// LoadStyle returns a foreground style colored for percent.
func LoadStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LoadColor(percent))
}
