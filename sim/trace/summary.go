package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDeliveries int
	LastClock       int64
	PerNode         map[int]int    // target node → deliveries
	PerPath         map[string]int // destination path → deliveries
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PerNode: make(map[int]int),
		PerPath: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDeliveries = len(st.Deliveries)
	for _, d := range st.Deliveries {
		summary.PerNode[d.Target]++
		summary.PerPath[d.Path]++
		if d.Clock > summary.LastClock {
			summary.LastClock = d.Clock
		}
	}
	return summary
}
