package telemetry

// HistoryCapacity is the number of points kept per series.
const HistoryCapacity = 10

// History is a fixed-capacity ring of the most recent values of one series.
// Pushing onto a full History evicts the oldest value. The zero value is an
// empty History ready for use. Read methods take a value receiver so a
// History returned by value is a cheap read-only snapshot.
type History struct {
	data  [HistoryCapacity]float64
	head  int // index of the oldest value
	count int
}

// Push appends v as the newest value, evicting the oldest once full.
func (h *History) Push(v float64) {
	if h.count < HistoryCapacity {
		h.data[(h.head+h.count)%HistoryCapacity] = v
		h.count++
		return
	}
	h.data[h.head] = v
	h.head = (h.head + 1) % HistoryCapacity
}

// Len returns the number of values held.
func (h History) Len() int {
	return h.count
}

// At returns the i-th value in oldest-to-newest order. It panics if i is out
// of range, like a slice index.
func (h History) At(i int) float64 {
	if i < 0 || i >= h.count {
		panic("telemetry: history index out of range")
	}
	return h.data[(h.head+i)%HistoryCapacity]
}

// Latest returns the newest value.
func (h History) Latest() (float64, bool) {
	if h.count == 0 {
		return 0, false
	}
	return h.At(h.count - 1), true
}

// AppendTo appends the held values to dst, oldest first.
func (h History) AppendTo(dst []float64) []float64 {
	for i := 0; i < h.count; i++ {
		dst = append(dst, h.data[(h.head+i)%HistoryCapacity])
	}
	return dst
}

// Values returns a copy of the held values, oldest first.
func (h History) Values() []float64 {
	return h.AppendTo(make([]float64, 0, h.count))
}
