package retry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
)

type mockCollector struct {
	name    string
	oneShot bool
	errors  []error
	calls   int
	mu      sync.Mutex
}

func (m *mockCollector) Name() string            { return m.name }
func (m *mockCollector) Description() string     { return m.name + " collector" }
func (m *mockCollector) Interval() time.Duration { return 500 * time.Millisecond }
func (m *mockCollector) OneShot() bool           { return m.oneShot }

func (m *mockCollector) Collect(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return 0, m.errors[idx]
	}
	return idx, nil
}

func (m *mockCollector) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newFailingMock(name string, n int) *mockCollector {
	m := &mockCollector{name: name, errors: make([]error, n)}
	for i := range n {
		m.errors[i] = fmt.Errorf("fail-%d", i)
	}
	return m
}

// fakeClock is advanced by hand so tests never sleep.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(m *mockCollector, cfg Config) (*CircuitBreaker[int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := Wrap[int](m, cfg)
	cb.now = clock.Now
	return cb, clock
}

func testConfig() Config {
	return Config{
		MaxFailures:       3,
		ResetTimeout:      time.Second,
		MaxResetTimeout:   4 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxFailures != 3 {
		t.Errorf("MaxFailures = %d, want 3", cfg.MaxFailures)
	}
	if cfg.ResetTimeout != 5*time.Second {
		t.Errorf("ResetTimeout = %v, want 5s", cfg.ResetTimeout)
	}
	if cfg.MaxResetTimeout != 2*time.Minute {
		t.Errorf("MaxResetTimeout = %v, want 2m", cfg.MaxResetTimeout)
	}
	if cfg.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %f, want 2.0", cfg.BackoffMultiplier)
	}
	if cfg.Logger != nil {
		t.Error("Logger should be nil by default")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half_open"},
		{State(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestCircuitBreaker_Delegates(t *testing.T) {
	m := &mockCollector{name: "cpu", oneShot: true}
	cb, _ := newTestBreaker(m, testConfig())

	if cb.Name() != "cpu" {
		t.Errorf("Name() = %q, want cpu", cb.Name())
	}
	if cb.Interval() != 500*time.Millisecond {
		t.Errorf("Interval() = %v, want 500ms", cb.Interval())
	}
	if want := "cpu collector [circuit: closed]"; cb.Description() != want {
		t.Errorf("Description() = %q, want %q", cb.Description(), want)
	}
	if !collectors.IsOneShot(cb) {
		t.Error("breaker hides OneShot of the wrapped collector")
	}
}

func TestCollect_OpensAfterMaxFailures(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		wantState State
	}{
		{"no failures", 0, StateClosed},
		{"single failure", 1, StateClosed},
		{"below threshold", 2, StateClosed},
		{"at threshold", 3, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFailingMock("cpu", tt.failures)
			cb, _ := newTestBreaker(m, testConfig())
			for range tt.failures {
				_, _ = cb.Collect(context.Background())
			}
			if cb.State() != tt.wantState {
				t.Errorf("State() = %s, want %s", cb.State(), tt.wantState)
			}
		})
	}
}

func TestCollect_OpenCircuitSkips(t *testing.T) {
	m := newFailingMock("cpu", 3)
	cb, _ := newTestBreaker(m, testConfig())
	for range 3 {
		_, _ = cb.Collect(context.Background())
	}

	_, err := cb.Collect(context.Background())
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen", err)
	}
	if !errors.Is(err, collectors.ErrSkipped) {
		t.Error("ErrCircuitOpen does not match collectors.ErrSkipped")
	}
	if m.callCount() != 3 {
		t.Errorf("collector called %d times, want 3", m.callCount())
	}
	if s := cb.Stats(); s.ConsecutiveSkips != 1 {
		t.Errorf("ConsecutiveSkips = %d, want 1", s.ConsecutiveSkips)
	}
}

func TestCollect_HalfOpenSuccessCloses(t *testing.T) {
	m := newFailingMock("cpu", 3)
	cb, clock := newTestBreaker(m, testConfig())
	for range 3 {
		_, _ = cb.Collect(context.Background())
	}

	clock.Advance(time.Second)
	v, err := cb.Collect(context.Background())
	if err != nil {
		t.Fatalf("probe error: %v", err)
	}
	if v != 3 {
		t.Errorf("probe value = %d, want 3", v)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %s, want closed", cb.State())
	}
	if s := cb.Stats(); s.ConsecutiveFails != 0 || s.CurrentTimeout != time.Second {
		t.Errorf("Stats() = %+v, want counters reset", s)
	}
}

func TestCollect_HalfOpenFailureBacksOff(t *testing.T) {
	m := newFailingMock("cpu", 10)
	cb, clock := newTestBreaker(m, testConfig())
	for range 3 {
		_, _ = cb.Collect(context.Background())
	}

	wantTimeouts := []time.Duration{2 * time.Second, 4 * time.Second, 4 * time.Second}
	timeout := time.Second
	for i, want := range wantTimeouts {
		clock.Advance(timeout)
		if _, err := cb.Collect(context.Background()); err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("probe %d error = %v, want collector failure", i, err)
		}
		if cb.State() != StateOpen {
			t.Fatalf("probe %d: State() = %s, want open", i, cb.State())
		}
		got := cb.Stats().CurrentTimeout
		if got != want {
			t.Errorf("probe %d: CurrentTimeout = %v, want %v", i, got, want)
		}
		timeout = got
	}
}

func TestCollect_SuccessResetsFailureCount(t *testing.T) {
	m := &mockCollector{name: "cpu", errors: []error{errors.New("a"), errors.New("b"), nil, errors.New("c"), errors.New("d")}}
	cb, _ := newTestBreaker(m, testConfig())
	for range 5 {
		_, _ = cb.Collect(context.Background())
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %s, want closed", cb.State())
	}
	if s := cb.Stats(); s.ConsecutiveFails != 2 || s.TotalFailures != 4 || s.TotalSuccesses != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCollect_ContextCancelled(t *testing.T) {
	m := &mockCollector{name: "cpu"}
	cb, _ := newTestBreaker(m, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for range 5 {
		if _, err := cb.Collect(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}
	if s := cb.Stats(); s.State != StateClosed || s.TotalFailures != 0 {
		t.Errorf("shutdown counted as failure: %+v", s)
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := newFailingMock("cpu", 50)
	cb, _ := newTestBreaker(m, testConfig())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_, _ = cb.Collect(context.Background())
				_ = cb.Stats()
				_ = cb.Description()
			}
		}()
	}
	wg.Wait()

	if cb.State() != StateOpen {
		t.Errorf("State() = %s, want open", cb.State())
	}
}
