package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/protosim/protosim/sim/trace"
)

// Simulator owns the EventQueue, the Network and the full set of Nodes for one run.
// It is created once at wiring time, run once, and discarded.
type Simulator struct {
	queue   *EventQueue
	network *Network
	nodes   map[NodeID]*Node
	order   []NodeID // node IDs ascending; start order

	// Trace, when enabled, receives one record per delivered event.
	Trace *trace.SimulationTrace

	delivered map[NodeID]int
	ran       bool
}

// NewSimulator creates a simulator over nodes. Node IDs must be unique.
func NewSimulator(queue *EventQueue, network *Network, nodes []*Node) (*Simulator, error) {
	s := &Simulator{
		queue:     queue,
		network:   network,
		nodes:     make(map[NodeID]*Node, len(nodes)),
		order:     make([]NodeID, 0, len(nodes)),
		delivered: make(map[NodeID]int, len(nodes)),
	}
	for _, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("simulator: nil node")
		}
		if _, exists := s.nodes[n.ID()]; exists {
			return nil, fmt.Errorf("simulator: node %d registered twice", n.ID())
		}
		s.nodes[n.ID()] = n
		s.order = append(s.order, n.ID())
	}
	slices.Sort(s.order)
	return s, nil
}

// Clock returns the current simulated instant.
func (s *Simulator) Clock() int64 { return s.queue.Clock() }

// Queue returns the event queue.
func (s *Simulator) Queue() *EventQueue { return s.queue }

// Network returns the network.
func (s *Simulator) Network() *Network { return s.network }

// Node returns the node with the given id, or nil.
func (s *Simulator) Node(id NodeID) *Node { return s.nodes[id] }

// NodeIDs returns the node IDs in ascending order.
func (s *Simulator) NodeIDs() []NodeID { return slices.Clone(s.order) }

// Run starts every node exactly once, in NodeID order, then delivers events in
// delivery order until the queue is empty. Returns the first error raised by a
// protocol or by the engine; the run stops immediately on error.
//
// Termination requires protocols to eventually stop sending.
func (s *Simulator) Run() error {
	if s.ran {
		return fmt.Errorf("simulator: Run called twice")
	}
	s.ran = true

	logrus.Infof("Starting simulation with %d node(s)", len(s.order))
	for _, id := range s.order {
		if err := s.nodes[id].Start(); err != nil {
			return err
		}
	}

	for s.queue.Len() > 0 {
		logrus.Debugf("There are %d event(s) in the queue", s.queue.Len())
		event, err := s.queue.Pop()
		if err != nil {
			return err
		}
		if err := s.deliver(event); err != nil {
			return err
		}
	}

	logrus.Infof("Simulation complete at %d ticks", s.queue.Clock())
	return nil
}

func (s *Simulator) deliver(e Event) error {
	node, ok := s.nodes[e.Target()]
	if !ok {
		return fmt.Errorf("delivering %s: node %d: %w", e, e.Target(), ErrUnknownNode)
	}
	msg := e.Message()
	logrus.Debugf("Node %d processing %s at instant %d", e.Target(), msg, e.Timestamp())

	s.delivered[e.Target()]++
	if s.Trace.Enabled() {
		s.Trace.RecordDelivery(trace.DeliveryRecord{
			Clock:   e.Timestamp(),
			Target:  int(e.Target()),
			Sender:  int(msg.Sender),
			Path:    msg.Path.String(),
			Payload: msg.Payload.String(),
		})
	}
	if err := node.Deliver(msg); err != nil {
		return fmt.Errorf("node %d handling %s at %d: %w", e.Target(), msg.Path, e.Timestamp(), err)
	}
	return nil
}

// Metrics snapshots run statistics.
func (s *Simulator) Metrics() *Metrics {
	m := NewMetrics()
	m.Scheduled = s.network.Sent()
	m.Pending = s.queue.Len()
	m.FinalClock = s.queue.Clock()
	for _, id := range s.order {
		d := s.nodes[id].Dispatcher()
		m.PerNodeDelivered[id] = s.delivered[id]
		m.Delivered += s.delivered[id]
		m.Unroutable += d.Unroutable()
		m.Backlogged += d.BacklogLen()
	}
	return m
}
