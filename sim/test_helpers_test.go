package sim

import "fmt"

// constantLatency delays every message by the same number of ticks.
type constantLatency int64

func (c constantLatency) Latency(src, dst NodeID) (int64, error) {
	return int64(c), nil
}

// tableLatency looks delays up per (src, dst) pair; missing pairs are unknown nodes.
type tableLatency map[[2]NodeID]int64

func (t tableLatency) Latency(src, dst NodeID) (int64, error) {
	d, ok := t[[2]NodeID{src, dst}]
	if !ok {
		return 0, fmt.Errorf("no latency for %d->%d: %w", src, dst, ErrUnknownNode)
	}
	return d, nil
}

// testMsg builds a message on a one-segment path.
func testMsg(channel string, sender NodeID) Message {
	return Message{Path: Path{}.Channel(channel), Sender: sender}
}

// funcProtocol is a Protocol whose Start is supplied by the test.
type funcProtocol struct {
	BaseProtocol
	start func(p *funcProtocol) error
}

func newFuncProtocol(id InstanceID, ctx *NodeContext, parent Protocol, start func(p *funcProtocol) error) *funcProtocol {
	return &funcProtocol{BaseProtocol: NewBaseProtocol(id, ctx, parent), start: start}
}

func (p *funcProtocol) Start() error {
	if p.start == nil {
		return nil
	}
	return p.start(p)
}

// testCluster wires n nodes sharing one queue and network; start builds each root.
type testCluster struct {
	queue   *EventQueue
	network *Network
	group   []NodeID
	ctxs    []*NodeContext
}

func newTestCluster(n int, latency LatencyModel) *testCluster {
	q := NewEventQueue()
	net := NewNetwork(q, latency)
	group := make([]NodeID, n)
	for i := range group {
		group[i] = NodeID(i)
	}
	c := &testCluster{queue: q, network: net, group: group}
	for _, id := range group {
		c.ctxs = append(c.ctxs, NewNodeContext(id, group, net, NewDispatcher(id)))
	}
	return c
}

// simulator builds nodes from roots (indexed by node) and returns the Simulator.
func (c *testCluster) simulator(roots []Protocol) (*Simulator, error) {
	nodes := make([]*Node, len(roots))
	for i, root := range roots {
		nodes[i] = NewNode(c.ctxs[i].ID, c.ctxs[i].Dispatcher, root)
	}
	return NewSimulator(c.queue, c.network, nodes)
}
