package telemetry

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func approx(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		ok       bool
		sample   float64
		want     float64
	}{
		{"cold start seeds with sample", 0, false, 42.5, 42.5},
		{"cold start ignores stale previous", 99, false, 3, 3},
		{"cold start zero", 0, false, 0, 0},
		{"recurrence", 50, true, 60, 54},
		{"recurrence falling", 90, true, 80, 86},
		{"steady state", 25, true, 25, 25},
		{"from zero", 0, true, 100, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EMA(tt.previous, tt.ok, tt.sample)
			if !approx(got, tt.want) {
				t.Errorf("EMA(%v, %v, %v) = %v, want %v", tt.previous, tt.ok, tt.sample, got, tt.want)
			}
		})
	}
}

func TestEMA_MatchesFormula(t *testing.T) {
	prev := 17.0
	for _, x := range []float64{0, 1.5, 33.3, 100} {
		want := 0.4*x + 0.6*prev
		if got := EMA(prev, true, x); !approx(got, want) {
			t.Errorf("EMA(%v, %v) = %v, want %v", prev, x, got, want)
		}
		prev = want
	}
}
