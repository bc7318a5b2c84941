package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type reading struct {
	Load  float64 `json:"load"`
	Cores int     `json:"cores"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cpu-pulse"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func backdate(t *testing.T, s *Store, key string, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	if err := os.Chtimes(s.Path(key), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, s *Store)
		wantOK   bool
		wantGone bool
	}{
		{
			name:   "written entry",
			setup:  func(t *testing.T, s *Store) { _ = s.Set("k", reading{Load: 42.5, Cores: 8}) },
			wantOK: true,
		},
		{
			name:  "missing key",
			setup: func(*testing.T, *Store) {},
		},
		{
			name: "invalid JSON removed",
			setup: func(t *testing.T, s *Store) {
				if err := os.WriteFile(s.Path("k"), []byte("{nope"), 0o600); err != nil {
					t.Fatal(err)
				}
			},
			wantGone: true,
		},
		{
			name:     "wrong shape removed",
			setup:    func(t *testing.T, s *Store) { _ = s.Set("k", []int{1, 2}) },
			wantGone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			tt.setup(t, s)

			var got reading
			written, ok, err := s.Load("k", &got)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok {
				if got != (reading{Load: 42.5, Cores: 8}) {
					t.Errorf("decoded %+v", got)
				}
				if time.Since(written) > time.Minute {
					t.Errorf("written = %v, want recent", written)
				}
			}
			if tt.wantGone {
				if _, err := os.Stat(s.Path("k")); !os.IsNotExist(err) {
					t.Error("unreadable file was not removed")
				}
			}
		})
	}
}

func TestStore_ConcurrentWritesStayValid(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 25 {
				if err := s.Set("concurrent", reading{Load: float64(i), Cores: g}); err != nil {
					t.Errorf("writer %d: Set: %v", g, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	var v reading
	if _, ok, err := s.Load("concurrent", &v); err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp files left behind", len(entries))
	}
}

func TestStore_Permissions(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("perms", "v"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(s.Path("perms"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file permissions = %04o, want 0600", perm)
	}
	dirInfo, err := os.Stat(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("directory permissions = %04o, want 0700", perm)
	}
}
