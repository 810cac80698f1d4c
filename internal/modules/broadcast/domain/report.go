package domain

// Failure records one channel that could not be delivered to, with a bounded
// reason string.
type Failure struct {
	Title  string
	Reason string
}

// Report is the ephemeral result of one dispatch run. It exists only long
// enough to update statistics and answer the initiating admin.
type Report struct {
	Total   int
	Success int
	Failed  []Failure
}

// FailedCount returns the exact number of failed deliveries, regardless of
// how the failed list is truncated for display.
func (r Report) FailedCount() int {
	return len(r.Failed)
}

// SuccessRate returns the success percentage. Callers skip empty runs before
// reporting, but a zero total still yields 0 rather than a division by zero.
func (r Report) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Success) / float64(r.Total) * 100
}
