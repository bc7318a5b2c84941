package telemetry

// SeriesView is a detached copy of a Series.
type SeriesView struct {
	Raw       []float64 `json:"raw"`
	EMA       []float64 `json:"ema"`
	Latest    float64   `json:"latest"`
	LatestEMA float64   `json:"latest_ema"`
}

// View is a detached, JSON-serializable copy of the aggregated state. It
// shares no memory with the Aggregator and may be handed to another
// goroutine.
type View struct {
	Overall        SeriesView     `json:"overall"`
	Cores          []SeriesView   `json:"cores"`
	Identity       IdentitySample `json:"identity"`
	ProcessCount   uint64         `json:"process_count"`
	SamplesApplied uint64         `json:"samples_applied"`
	Silent         []string       `json:"silent,omitempty"`
}

func viewOf(s *Series) SeriesView {
	v := SeriesView{
		Raw: s.raw.Values(),
		EMA: s.ema.Values(),
	}
	v.Latest, _ = s.Latest()
	v.LatestEMA, _ = s.LatestEMA()
	return v
}

// View returns a copy of the current state.
func (a *Aggregator) View() View {
	v := View{
		Overall:        viewOf(&a.overall),
		Identity:       a.identity,
		ProcessCount:   a.processes.Count,
		SamplesApplied: a.applied,
	}
	if n := a.cores.Len(); n > 0 {
		v.Cores = make([]SeriesView, n)
		for i := range v.Cores {
			v.Cores[i] = viewOf(a.cores.At(i))
		}
	}
	return v
}

// View returns a copy of the aggregated state with the silent streams filled
// in.
func (in *Ingestor) View() View {
	v := in.agg.View()
	for _, s := range Streams {
		if in.silent[s] {
			v.Silent = append(v.Silent, s.String())
		}
	}
	return v
}
