package collectors

import (
	"sort"
	"sync"
	"time"
)

// Status records the health of one collector. It is JSON-serializable so it
// can be exported alongside the telemetry snapshot.
type Status struct {
	Name        string        `json:"name"`
	Healthy     bool          `json:"healthy"`
	LastRun     time.Time     `json:"last_run"`
	LastLatency time.Duration `json:"last_latency"`
	LastError   string        `json:"last_error,omitempty"`
	RunCount    int64         `json:"run_count"`
	ErrorCount  int64         `json:"error_count"`
	SkipCount   int64         `json:"skip_count"`
	Stopped     bool          `json:"stopped"`
}

// StatusBoard tracks the Status of every running collector. It is safe for
// concurrent use.
type StatusBoard struct {
	mu       sync.RWMutex
	statuses map[string]*Status
}

// NewStatusBoard returns an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{statuses: make(map[string]*Status)}
}

func (b *StatusBoard) update(name string, fn func(s *Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.statuses[name]
	if !ok {
		s = &Status{Name: name}
		b.statuses[name] = s
	}
	fn(s)
}

// Get returns the status of the named collector.
func (b *StatusBoard) Get(name string) (Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.statuses[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// All returns every status sorted by name.
func (b *StatusBoard) All() []Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Status, 0, len(b.statuses))
	for _, s := range b.statuses {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Health maps each collector name to its healthy flag.
func (b *StatusBoard) Health() map[string]bool {
	statuses := b.All()
	result := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		result[s.Name] = s.Healthy
	}
	return result
}
