package cache

import (
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// SnapshotKey is the store key of the exported snapshot.
const SnapshotKey = "snapshot"

// Snapshot is the exported file: the aggregated view plus producer health.
// It is written for other processes and never read back into the engine.
type Snapshot struct {
	CapturedAt time.Time           `json:"captured_at"`
	View       telemetry.View      `json:"view"`
	Producers  []collectors.Status `json:"producers,omitempty"`
}

// WriteSnapshot stores snap under SnapshotKey.
func WriteSnapshot(s *Store, snap Snapshot) error {
	return s.Set(SnapshotKey, snap)
}

// ReadSnapshot loads the exported snapshot. It returns nil if none has been
// written. fresh reports whether the file is younger than ttl.
func ReadSnapshot(s *Store, ttl time.Duration) (snap *Snapshot, fresh bool, err error) {
	var v Snapshot
	written, ok, err := s.Load(SnapshotKey, &v)
	if err != nil || !ok {
		return nil, false, err
	}
	return &v, time.Since(written) < ttl, nil
}
