package sim

// History sampling cadence and bound.
const (
	HistoryStride   = 5   // a sample is taken every HistoryStride ticks
	HistoryCapacity = 200 // oldest samples are dropped beyond this
)

// HistorySample is one point in the run's rolling history.
type HistorySample struct {
	Tick       int64
	WIP        int
	Completed  int64
	Throughput float64
}

// History is a bounded ring of periodic run samples, reset on every
// metrics-epoch bump.
type History struct {
	samples []HistorySample
}

// Append adds a sample, dropping the oldest when capacity is exceeded.
func (h *History) Append(s HistorySample) {
	h.samples = append(h.samples, s)
	if len(h.samples) > HistoryCapacity {
		h.samples = h.samples[len(h.samples)-HistoryCapacity:]
	}
}

// Samples returns the retained samples, oldest first. The returned slice is
// the internal storage -- callers MUST NOT modify it.
func (h *History) Samples() []HistorySample {
	return h.samples
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Reset discards all samples.
func (h *History) Reset() {
	h.samples = nil
}
