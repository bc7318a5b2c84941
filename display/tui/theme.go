package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the dashboard.
const (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
)

var (
	styleActiveTab = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 2)

	styleInactiveTab = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	styleHeader = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorMuted)

	styleContent = lipgloss.NewStyle().Padding(1, 2)

	styleFooter = lipgloss.NewStyle().Foreground(colorMuted)

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorSecondary)

	styleLabel = lipgloss.NewStyle().Foreground(colorMuted).Width(11)

	styleHealthy   = lipgloss.NewStyle().Foreground(colorSuccess)
	styleUnhealthy = lipgloss.NewStyle().Foreground(colorDanger)
)
