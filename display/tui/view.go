package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cpu-pulse/display/widgets"
	"gitlab.com/tinyland/lab/cpu-pulse/internal/format"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// renderHeader renders the tab bar with the active tab highlighted, followed
// by the host name.
func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		name := tabNames[i]
		if i == m.activeTab {
			tabs = append(tabs, styleActiveTab.Render(name))
		} else {
			tabs = append(tabs, styleInactiveTab.Render(name))
		}
	}

	id := m.ingest.Aggregator().Identity()
	tabs = append(tabs, "  ", styleTitle.Render("cpu-pulse"), styleFooter.Render(" · "+id.HostName))

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return styleHeader.Width(m.width).Render(tabBar)
}

// renderTabContent delegates to the appropriate tab renderer based on the active tab.
func (m Model) renderTabContent() string {
	var content string
	switch m.activeTab {
	case TabOverview:
		content = m.renderOverview()
	case TabCores:
		content = widgets.CoreGrid{
			Cores: m.ingest.Aggregator().Cores(),
			Width: m.width - 4,
		}.Render()
	}
	return styleContent.Width(m.width).Render(content)
}

func (m Model) renderOverview() string {
	agg := m.ingest.Aggregator()
	overall := agg.Overall()

	var lines []string
	if avg, ok := overall.LatestEMA(); ok {
		raw, _ := overall.Latest()
		lines = append(lines,
			row("CPU", m.bar.ViewAs(avg/100)+" "+widgets.LoadStyle(avg).Render(format.Percent(avg))),
			row("", styleFooter.Render("now "+format.Percent(raw))),
			row("History", widgets.HistorySparkline(overall.Raw(), colorSecondary)+"  raw"),
			row("", widgets.HistorySparkline(overall.EMA(), colorPrimary)+"  smoothed"),
		)
	} else {
		lines = append(lines, row("CPU", styleFooter.Render("waiting for first sample…")))
	}

	lines = append(lines, "")
	if agg.CoresInitialized() {
		lines = append(lines, row("Cores", fmt.Sprint(agg.CoreCount())))
	}
	lines = append(lines, row("Processes", fmt.Sprint(agg.ProcessCount())))

	id := agg.Identity()
	lines = append(lines,
		row("OS", id.Name+" "+id.Version),
		row("Arch", id.Architecture),
		row("Host", id.HostName),
	)

	if p := m.renderProducers(); p != "" {
		lines = append(lines, "", p)
	}
	return strings.Join(lines, "\n")
}

// renderProducers lists each producer with its health and flags streams
// whose producer has gone away.
func (m Model) renderProducers() string {
	var lines []string
	if m.opts.Board != nil {
		for _, s := range m.opts.Board.All() {
			mark := styleHealthy.Render("●")
			detail := fmt.Sprintf("%d runs", s.RunCount)
			if !s.Healthy {
				mark = styleUnhealthy.Render("●")
				detail = format.TruncateWithEllipsis(s.LastError, max(20, m.width-30))
			}
			if s.Stopped {
				mark = styleFooter.Render("○")
				detail = "stopped"
			}
			lines = append(lines, row(s.Name, mark+" "+detail))
		}
	}
	for _, s := range telemetry.Streams {
		if m.ingest.Silent(s) {
			lines = append(lines, row(s.String(), styleUnhealthy.Render("silent, holding last value")))
		}
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return styleLabel.Render(label) + value
}

// renderFooter renders the help text and the last update time.
func (m Model) renderFooter() string {
	status := "waiting for data"
	if !m.lastApplied.IsZero() {
		status = "updated " + format.Ago(m.opts.now().Sub(m.lastApplied))
	}
	if m.paused {
		status = "paused"
	}
	if m.exportErr != nil {
		status += " · export failed"
	}

	return styleFooter.Width(m.width).Render(m.help.View(keys) + "  " + status)
}
