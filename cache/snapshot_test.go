package cache

import (
	"math"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	agg := telemetry.NewAggregator()
	_ = agg.ApplyCPUSample(telemetry.CPUSample{Overall: 50, PerCore: []float64{10, 90}})
	_ = agg.ApplyCPUSample(telemetry.CPUSample{Overall: 60, PerCore: []float64{20, 80}})
	agg.ApplyProcessCountSample(telemetry.ProcessCountSample{Count: 211})

	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := Snapshot{
		CapturedAt: captured,
		View:       agg.View(),
		Producers:  []collectors.Status{{Name: "cpu", Healthy: true, RunCount: 2}},
	}
	if err := WriteSnapshot(s, want); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	got, fresh, err := ReadSnapshot(s, time.Minute)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if got == nil || !fresh {
		t.Fatalf("ReadSnapshot() = %v, fresh %v", got, fresh)
	}
	if !got.CapturedAt.Equal(captured) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, captured)
	}
	if math.Abs(got.View.Overall.LatestEMA-54) > 1e-9 {
		t.Errorf("overall EMA = %v, want 54", got.View.Overall.LatestEMA)
	}
	if len(got.View.Cores) != 2 || got.View.ProcessCount != 211 {
		t.Errorf("view = %+v", got.View)
	}
	if len(got.Producers) != 1 || got.Producers[0].Name != "cpu" {
		t.Errorf("Producers = %+v", got.Producers)
	}
}

func TestReadSnapshot_Missing(t *testing.T) {
	s := newTestStore(t)
	got, fresh, err := ReadSnapshot(s, time.Minute)
	if got != nil || fresh || err != nil {
		t.Errorf("ReadSnapshot() = %v, %v, %v; want nil, false, nil", got, fresh, err)
	}
}

func TestReadSnapshot_Stale(t *testing.T) {
	s := newTestStore(t)
	if err := WriteSnapshot(s, Snapshot{CapturedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	backdate(t, s, SnapshotKey, 2*time.Minute)

	got, fresh, err := ReadSnapshot(s, time.Minute)
	if err != nil || got == nil {
		t.Fatalf("ReadSnapshot() = %v, %v", got, err)
	}
	if fresh {
		t.Error("two-minute-old snapshot reported fresh with a one-minute ttl")
	}
}
