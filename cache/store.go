// Package cache persists the latest aggregated telemetry to a small JSON file
// so other processes (shell prompts, status bars, `cpu-pulse -status`) can
// read it without talking to the running dashboard.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Store keeps one JSON document per key in a private directory:
//
//	~/.cache/cpu-pulse/
//	  snapshot.json
//
// The file modification time is the write time.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore opens the store at dir, creating it with 0700 permissions.
// A nil logger discards output.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Set encodes v and replaces key with it. Readers see either the old or the
// new document, never a partial one.
func (s *Store) Set(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := writeAtomic(s.Path(key), data, 0o600); err != nil {
		return fmt.Errorf("cache: write %s: %w", key, err)
	}
	return nil
}

// Load decodes key into dst and returns when it was written. ok is false if
// the key does not exist. A document that does not decode into dst is
// deleted and reported as missing.
func (s *Store) Load(key string, dst any) (written time.Time, ok bool, err error) {
	path := s.Path(key)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cache: open %s: %w", key, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cache: stat %s: %w", key, err)
	}
	if err := json.NewDecoder(f).Decode(dst); err != nil {
		s.logger.Warn("cache: dropping unreadable entry", "key", key, "error", err)
		_ = os.Remove(path)
		return time.Time{}, false, nil
	}
	return info.ModTime(), true, nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place.
func writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
