package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gitlab.com/tinyland/lab/cpu-pulse/cache"
	"gitlab.com/tinyland/lab/cpu-pulse/collectors"
	"gitlab.com/tinyland/lab/cpu-pulse/display/statusline"
	"gitlab.com/tinyland/lab/cpu-pulse/telemetry"
)

// statusReport is the -status -json output.
type statusReport struct {
	Status     string              `json:"status"`
	CapturedAt time.Time           `json:"captured_at"`
	Age        string              `json:"age"`
	Stale      bool                `json:"stale"`
	View       telemetry.View      `json:"view"`
	Producers  []collectors.Status `json:"producers,omitempty"`
}

// checkStatus reads the exported snapshot from dir and prints it as a status
// line or JSON. A snapshot older than ttl is stale; ttl <= 0 disables the
// check. Returns exit code 0 for a fresh snapshot, 1 for stale or missing.
func checkStatus(dir string, ttl time.Duration, width int, jsonOutput bool, stdout, stderr io.Writer) int {
	store, err := cache.NewStore(dir, nil)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return 1
	}

	snap, fresh, err := cache.ReadSnapshot(store, ttl)
	if err != nil {
		fmt.Fprintf(stderr, "status: %v\n", err)
		return 1
	}
	if snap == nil {
		if jsonOutput {
			fmt.Fprintln(stdout, `{"status":"missing","error":"no snapshot found"}`)
		} else {
			fmt.Fprintln(stderr, "cpu-pulse not running (no snapshot)")
		}
		return 1
	}

	age := time.Since(snap.CapturedAt)
	isStale := ttl > 0 && !fresh

	if jsonOutput {
		report := statusReport{
			Status:     "ok",
			CapturedAt: snap.CapturedAt,
			Age:        age.Round(time.Millisecond).String(),
			Stale:      isStale,
			View:       snap.View,
			Producers:  snap.Producers,
		}
		if isStale {
			report.Status = "stale"
		}
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprintln(stdout, statusline.Format(snap.View, statusline.Options{
			Width: width,
			Age:   age,
			Stale: isStale,
		}))
	}

	if isStale {
		return 1
	}
	return 0
}
