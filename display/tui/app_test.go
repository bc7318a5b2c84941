package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/cpu-pulse/channel"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// isQuitCmd executes a tea.Cmd and returns true if it produces a tea.QuitMsg.
func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	return ok
}

type fixture struct {
	cpu   *channel.Sender[telemetry.CPUSample]
	ident *channel.Sender[telemetry.IdentitySample]
	procs *channel.Sender[telemetry.ProcessCountSample]
	in    *telemetry.Ingestor
}

func newFixture() *fixture {
	cpuTx, cpuRx := channel.New[telemetry.CPUSample]()
	idTx, idRx := channel.New[telemetry.IdentitySample]()
	prTx, prRx := channel.New[telemetry.ProcessCountSample]()
	return &fixture{
		cpu:   cpuTx,
		ident: idTx,
		procs: prTx,
		in: telemetry.NewIngestor(nil, telemetry.Sources{
			CPU:       cpuRx,
			Identity:  idRx,
			Processes: prRx,
		}, nil),
	}
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func tickAt(t *testing.T, m Model, at time.Time) Model {
	t.Helper()
	updated, cmd := m.Update(tickMsg(at))
	if cmd == nil {
		t.Fatal("tick must reschedule itself")
	}
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	m := NewModel(newFixture().in, Options{})

	if m.activeTab != TabOverview {
		t.Errorf("expected activeTab to be TabOverview, got %d", m.activeTab)
	}
	if m.opts.Refresh != 100*time.Millisecond {
		t.Errorf("default refresh = %v, want 100ms", m.opts.Refresh)
	}
	if m.ready {
		t.Error("expected ready to be false")
	}
	if m.Init() == nil {
		t.Error("expected Init() to start the refresh ticker")
	}
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before resize = %q", got)
	}
}

func TestModel_Update_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(newFixture().in, Options{})
			_, cmd := m.Update(tt.msg)
			if !isQuitCmd(cmd) {
				t.Errorf("expected %s to produce tea.Quit command", tt.name)
			}
		})
	}
}

func TestModel_Update_Tabs(t *testing.T) {
	m := NewModel(newFixture().in, Options{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.ActiveTab() != TabCores {
		t.Errorf("after tab: %d, want TabCores", m.ActiveTab())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.ActiveTab() != TabOverview {
		t.Errorf("tab should wrap to TabOverview, got %d", m.ActiveTab())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	if m.ActiveTab() != TabCores {
		t.Errorf("shift+tab should wrap to TabCores, got %d", m.ActiveTab())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = updated.(Model)
	if m.ActiveTab() != TabOverview {
		t.Errorf("'1' should select TabOverview, got %d", m.ActiveTab())
	}
}

func TestModel_TickIngests(t *testing.T) {
	f := newFixture()
	m := sized(NewModel(f.in, Options{}))

	_ = f.cpu.Send(telemetry.CPUSample{Overall: 50, PerCore: []float64{10, 90}})
	m = tickAt(t, m, time.Now())
	_ = f.cpu.Send(telemetry.CPUSample{Overall: 60, PerCore: []float64{20, 80}})
	_ = f.procs.Send(telemetry.ProcessCountSample{Count: 211})
	m = tickAt(t, m, time.Now())

	agg := f.in.Aggregator()
	if got, _ := agg.Overall().LatestEMA(); got < 53.99 || got > 54.01 {
		t.Errorf("overall EMA = %v, want 54", got)
	}

	view := m.View()
	for _, want := range []string{"54.0%", "now 60.0%", "211", "Overview"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModel_PauseHoldsQueuedSamples(t *testing.T) {
	f := newFixture()
	m := NewModel(f.in, Options{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(Model)
	if !m.Paused() {
		t.Fatal("expected paused after 'p'")
	}

	for _, v := range []float64{10, 20, 30} {
		_ = f.cpu.Send(telemetry.CPUSample{Overall: v, PerCore: []float64{v}})
	}
	m = tickAt(t, m, time.Now())
	if f.in.Aggregator().SamplesApplied() != 0 {
		t.Fatal("samples applied while paused")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	m = updated.(Model)
	m = tickAt(t, m, time.Now())

	agg := f.in.Aggregator()
	if agg.SamplesApplied() != 1 {
		t.Errorf("SamplesApplied() = %d, want 1 (only the latest of the burst)", agg.SamplesApplied())
	}
	if got, _ := agg.Overall().Latest(); got != 30 {
		t.Errorf("Latest() = %v, want 30", got)
	}
}

func TestModel_CoresTab(t *testing.T) {
	f := newFixture()
	m := sized(NewModel(f.in, Options{}))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)

	if !strings.Contains(m.View(), "waiting for per-core data") {
		t.Error("cores tab should show the waiting message before data")
	}

	_ = f.cpu.Send(telemetry.CPUSample{Overall: 40, PerCore: []float64{10, 20, 30, 40}})
	m = tickAt(t, m, time.Now())

	view := m.View()
	for _, want := range []string{"cpu0", "cpu3", "40.0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("cores view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_SilentStreamShown(t *testing.T) {
	f := newFixture()
	m := sized(NewModel(f.in, Options{}))

	f.procs.Close()
	m = tickAt(t, m, time.Now())

	if !strings.Contains(m.View(), "silent, holding last value") {
		t.Errorf("View() should flag the silent processes stream:\n%s", m.View())
	}
}

func TestModel_ProducerBoard(t *testing.T) {
	board := collectors.NewStatusBoard()
	r := collectors.NewRunner(board, nil)

	probe := collectors.NewFunc("probe", "test producer", time.Hour, func(context.Context) (int, error) {
		return 1, nil
	})
	tx, _ := channel.New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = collectors.Run(ctx, r, probe, tx)
	}()

	deadline := time.Now().Add(time.Second)
	for {
		if s, ok := board.Get("probe"); ok && s.RunCount > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("probe never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}

	f := newFixture()
	m := sized(NewModel(f.in, Options{Board: board}))
	if view := m.View(); !strings.Contains(view, "probe") || !strings.Contains(view, "1 runs") {
		t.Errorf("View() should list the running producer:\n%s", view)
	}

	cancel()
	<-done
	if view := m.View(); !strings.Contains(view, "stopped") {
		t.Errorf("View() should mark the producer stopped:\n%s", view)
	}
}

func TestModel_Export(t *testing.T) {
	f := newFixture()
	var exported []telemetry.View
	m := NewModel(f.in, Options{
		ExportEvery: time.Second,
		Export: func(v telemetry.View) error {
			exported = append(exported, v)
			return nil
		},
	})

	t0 := time.Now()
	if cmd := m.maybeExport(t0); cmd != nil {
		t.Fatal("nothing to export before the first sample")
	}

	_ = f.cpu.Send(telemetry.CPUSample{Overall: 25, PerCore: []float64{25}})
	f.in.Tick()

	cmd := m.maybeExport(t0)
	if cmd == nil {
		t.Fatal("expected an export command")
	}
	if msg, ok := cmd().(exportedMsg); !ok || msg.err != nil {
		t.Fatalf("export cmd returned %#v", msg)
	}
	if len(exported) != 1 || exported[0].Overall.Latest != 25 {
		t.Errorf("exported = %+v", exported)
	}

	if cmd := m.maybeExport(t0.Add(500 * time.Millisecond)); cmd != nil {
		t.Error("export repeated before ExportEvery elapsed")
	}
	if cmd := m.maybeExport(t0.Add(time.Second)); cmd == nil {
		t.Error("expected a second export after ExportEvery")
	}
}

func TestModel_ExportFailureShown(t *testing.T) {
	m := sized(NewModel(newFixture().in, Options{}))
	updated, _ := m.Update(exportedMsg{err: errors.New("disk full")})
	m = updated.(Model)
	if !strings.Contains(m.View(), "export failed") {
		t.Error("footer should report the failed export")
	}
}
