// Tracks run-wide statistics: scheduled and delivered events, buffered messages
// and the final logical clock.

package sim

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Metrics aggregates statistics about a simulation run for final reporting.
type Metrics struct {
	Scheduled  int   // Events scheduled through the Network
	Delivered  int   // Events popped and delivered to a node
	Pending    int   // Events still queued (non-zero only after an aborted run)
	Unroutable int   // Messages that arrived before their path was subscribed
	Backlogged int   // Messages still buffered at the end of the run
	FinalClock int64 // Logical clock at the end of the run (in ticks)

	PerNodeDelivered map[NodeID]int // node → delivered events
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{PerNodeDelivered: make(map[NodeID]int)}
}

// Print displays the aggregated metrics.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Scheduled Events     : %d\n", m.Scheduled)
	fmt.Printf("Delivered Events     : %d\n", m.Delivered)
	fmt.Printf("Pending Events       : %d\n", m.Pending)
	fmt.Printf("Buffered On Arrival  : %d\n", m.Unroutable)
	fmt.Printf("Still Backlogged     : %d\n", m.Backlogged)
	fmt.Printf("Final Clock          : %d ticks (%.3f ms)\n", m.FinalClock, float64(m.FinalClock)/float64(Millisecond))

	ids := maps.Keys(m.PerNodeDelivered)
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Printf("  node %-4d delivered : %d\n", id, m.PerNodeDelivered[id])
	}
}
