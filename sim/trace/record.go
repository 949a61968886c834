// Package trace provides delivery-trace recording for simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DeliveryRecord captures one event popped from the queue and delivered to a node.
type DeliveryRecord struct {
	Clock   int64  // Delivery instant (in ticks)
	Target  int    // Receiving node
	Sender  int    // Sending node
	Path    string // Destination path, as printed by sim.Path
	Payload string // Payload, as printed by sim.Payload
}
