// Package telemetry is the aggregation and smoothing engine behind the
// dashboard. It applies snapshots produced by the collectors to a set of
// bounded rolling series and exponential moving averages, and exposes a
// read-only view of the result to the presentation layer.
package telemetry

// Placeholder is shown for identity fields the host could not report.
const Placeholder = "N/A"

// CPUSample is one emission of the CPU producer. Values are usage
// percentages in [0, 100]. PerCore has one entry per logical core.
type CPUSample struct {
	Overall float64   `json:"overall"`
	PerCore []float64 `json:"per_core"`
}

// IdentitySample describes the host. Each field is independently optional at
// the source and holds Placeholder when unavailable.
type IdentitySample struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
	HostName     string `json:"host_name"`
}

// NewIdentitySample returns an identity with every field set to Placeholder.
func NewIdentitySample() IdentitySample {
	return IdentitySample{
		Name:         Placeholder,
		Version:      Placeholder,
		Architecture: Placeholder,
		HostName:     Placeholder,
	}
}

// ProcessCountSample is one emission of the process producer.
type ProcessCountSample struct {
	Count uint64 `json:"count"`
}
