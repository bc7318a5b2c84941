package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// Tab identifies which tab is currently active.
type Tab int

const (
	TabOverview Tab = iota
	TabCores
	tabCount // sentinel for wrapping
)

// tabNames maps each Tab value to its display label.
var tabNames = map[Tab]string{
	TabOverview: "Overview",
	TabCores:    "Cores",
}

// Options configures the dashboard.
type Options struct {
	// Refresh is the tick period at which queued samples are ingested.
	Refresh time.Duration

	// Board, when set, is shown as the producer health list.
	Board *collectors.StatusBoard

	// Export, when set, is called with a detached view every ExportEvery.
	// It runs as a tea.Cmd, off the update loop.
	Export      func(telemetry.View) error
	ExportEvery time.Duration

	// now is overridable in tests.
	now func() time.Time
}

type tickMsg time.Time

type exportedMsg struct{ err error }

// Model is the top-level Bubbletea model for the cpu-pulse dashboard. It owns
// the Ingestor: every tick drains the producer channels into the aggregator
// on the update goroutine, so the aggregator needs no locking.
type Model struct {
	ingest *telemetry.Ingestor
	opts   Options

	activeTab Tab
	width     int
	height    int
	ready     bool
	paused    bool

	bar  progress.Model
	help help.Model

	lastReport  telemetry.TickReport
	lastApplied time.Time
	lastExport  time.Time
	exportErr   error
}

// NewModel returns a Model reading from in. A non-positive refresh period
// falls back to 100ms.
func NewModel(in *telemetry.Ingestor, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = 100 * time.Millisecond
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	return Model{
		ingest:    in,
		opts:      opts,
		activeTab: TabOverview,
		bar: progress.New(
			progress.WithGradient(string(colorSuccess), string(colorDanger)),
			progress.WithoutPercentage(),
		),
		help: help.New(),
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model. It starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick(m.opts.Refresh)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		cmds := []tea.Cmd{tick(m.opts.Refresh)}
		if !m.paused {
			m.lastReport = m.ingest.Tick()
			if m.lastReport.Applied() {
				m.lastApplied = time.Time(msg)
			}
		}
		if cmd := m.maybeExport(time.Time(msg)); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case exportedMsg:
		m.exportErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
		case key.Matches(msg, keys.PrevTab):
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case key.Matches(msg, keys.Overview):
			m.activeTab = TabOverview
		case key.Matches(msg, keys.Cores):
			m.activeTab = TabCores
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = max(10, min(60, msg.Width-30))
		m.ready = true
	}

	return m, nil
}

// maybeExport returns a command writing the current view when an export is
// due, or nil.
func (m *Model) maybeExport(now time.Time) tea.Cmd {
	if m.opts.Export == nil || m.opts.ExportEvery <= 0 {
		return nil
	}
	if !m.lastExport.IsZero() && now.Sub(m.lastExport) < m.opts.ExportEvery {
		return nil
	}
	if m.ingest.Aggregator().SamplesApplied() == 0 {
		return nil
	}
	m.lastExport = now

	export := m.opts.Export
	view := m.ingest.View()
	return func() tea.Msg {
		return exportedMsg{err: export(view)}
	}
}

// Paused reports whether ingestion is paused.
func (m Model) Paused() bool {
	return m.paused
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab {
	return m.activeTab
}

// View implements tea.Model. It renders the header, active tab content, and footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	content := m.renderTabContent()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
