package telemetry

// Series is one metric stream: its raw values, the matching moving averages
// and the accumulator the next average is computed from. Raw and EMA always
// have the same length.
type Series struct {
	raw     History
	ema     History
	lastEMA float64
	hasEMA  bool
}

// push records one raw sample and its smoothed value in the same step.
func (s *Series) push(sample float64) {
	avg := EMA(s.lastEMA, s.hasEMA, sample)
	s.lastEMA = avg
	s.hasEMA = true
	s.raw.Push(sample)
	s.ema.Push(avg)
}

// Latest returns the newest raw value.
func (s *Series) Latest() (float64, bool) {
	return s.raw.Latest()
}

// LatestEMA returns the current moving average.
func (s *Series) LatestEMA() (float64, bool) {
	return s.lastEMA, s.hasEMA
}

// Raw returns a copy of the raw history.
func (s *Series) Raw() History {
	return s.raw
}

// EMA returns a copy of the moving-average history.
func (s *Series) EMA() History {
	return s.ema
}

// Len returns the number of points held, identical for both histories.
func (s *Series) Len() int {
	return s.raw.Len()
}
