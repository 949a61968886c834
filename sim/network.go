package sim

import "fmt"

// Network injects latency and schedules deliveries on the shared EventQueue.
// There is no real I/O: every sent message becomes exactly one Event.
type Network struct {
	queue   *EventQueue
	latency LatencyModel

	sent int // events scheduled through this network
}

// NewNetwork creates a Network scheduling onto queue with delays from latency.
func NewNetwork(queue *EventQueue, latency LatencyModel) *Network {
	return &Network{queue: queue, latency: latency}
}

// Send schedules msg for delivery to dst after the delay the latency model
// returns for (msg.Sender, dst).
func (n *Network) Send(msg Message, dst NodeID) error {
	delay, err := n.latency.Latency(msg.Sender, dst)
	if err != nil {
		return fmt.Errorf("sending %s to node %d: %w", msg.Path, dst, err)
	}
	if delay < 0 {
		return fmt.Errorf("sending %s from node %d to node %d: delay %d: %w", msg.Path, msg.Sender, dst, delay, ErrNegativeLatency)
	}
	if _, err := n.queue.Push(delay, dst, msg); err != nil {
		return err
	}
	n.sent++
	return nil
}

// Broadcast sends msg to each destination independently. Each delivery draws
// its own delay; no relative order between destinations is implied.
func (n *Network) Broadcast(msg Message, dsts []NodeID) error {
	for _, dst := range dsts {
		if err := n.Send(msg, dst); err != nil {
			return err
		}
	}
	return nil
}

// Sent returns the number of events scheduled so far.
func (n *Network) Sent() int {
	return n.sent
}

// Clock returns the current simulated instant of the underlying queue.
func (n *Network) Clock() int64 {
	return n.queue.Clock()
}
