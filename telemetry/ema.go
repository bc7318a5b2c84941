package telemetry

// SmoothingFactor is the weight given to the newest sample.
const SmoothingFactor = 0.4

// EMA returns the next exponential moving average for sample. When ok is
// false there is no previous average and the sample itself seeds it.
func EMA(previous float64, ok bool, sample float64) float64 {
	if !ok {
		return sample
	}
	return sample*SmoothingFactor + previous*(1-SmoothingFactor)
}
