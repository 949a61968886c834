package wiring

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/protosim/protosim/sim"
	"github.com/protosim/protosim/sim/latency"
	"github.com/protosim/protosim/sim/trace"
)

// Build validates cfg and constructs everything one run needs: the PartitionedRNG,
// the shared EventQueue and Network, the LatencyModel, and per node a Dispatcher,
// a NodeContext, a root Protocol and a Node.
func Build(cfg Config, reg *Registry) (*sim.Simulator, error) {
	if err := cfg.Validate(reg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	factory, _ := reg.Lookup(cfg.Protocol)
	group := cfg.Group()

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	lm, err := latency.NewLatencyModel(cfg.Latency, group, rng)
	if err != nil {
		return nil, err
	}
	queue := sim.NewEventQueue()
	network := sim.NewNetwork(queue, lm)

	nodes := make([]*sim.Node, 0, len(group))
	for _, id := range group {
		dispatcher := sim.NewDispatcher(id)
		ctx := sim.NewNodeContext(id, group, network, dispatcher)
		root, err := factory(ctx, cfg.Params)
		if err != nil {
			return nil, fmt.Errorf("building %s root for node %d: %w", cfg.Protocol, id, err)
		}
		nodes = append(nodes, sim.NewNode(id, dispatcher, root))
	}

	s, err := sim.NewSimulator(queue, network, nodes)
	if err != nil {
		return nil, err
	}
	if trace.TraceLevel(cfg.Trace) == trace.TraceLevelDeliveries {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDeliveries})
	}
	logrus.Debugf("Built %s simulation: %d node(s), latency=%q, seed=%d",
		cfg.Protocol, len(group), cfg.Latency.Model, cfg.Seed)
	return s, nil
}
