// Package wiring is the explicit build step of protosim: it turns a Config into a
// ready-to-run Simulator. For every NodeID it creates a Dispatcher and a
// sim.NodeContext, and builds the node's root protocol through a typed Registry.
package wiring

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/protosim/protosim/sim"
	"github.com/protosim/protosim/sim/protocol"
)

// Protocol names registered by DefaultRegistry.
const (
	ProtocolPing            = "ping"
	ProtocolEchoBroadcast   = "echo-broadcast"
	ProtocolBinaryConsensus = "binary-consensus"
)

// RootFactory builds a node's root protocol inside its node scope.
type RootFactory func(ctx *sim.NodeContext, params Params) (sim.Protocol, error)

// Registry maps protocol names to root factories.
type Registry struct {
	factories map[string]RootFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]RootFactory)}
}

// Register adds a factory under name. Names are unique.
func (r *Registry) Register(name string, f RootFactory) error {
	if name == "" {
		return fmt.Errorf("registry: empty protocol name")
	}
	if f == nil {
		return fmt.Errorf("registry: nil factory for %q", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("registry: protocol %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (RootFactory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered protocol names, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.factories)
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry holding the built-in protocol families.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r, ProtocolPing, newPingRoot)
	mustRegister(r, ProtocolEchoBroadcast, newEchoBroadcastRoot)
	mustRegister(r, ProtocolBinaryConsensus, newBinaryConsensusRoot)
	return r
}

func mustRegister(r *Registry, name string, f RootFactory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

func newPingRoot(ctx *sim.NodeContext, params Params) (sim.Protocol, error) {
	if err := checkMember(ctx, "pinger", params.Pinger); err != nil {
		return nil, err
	}
	id := sim.NewSegment(sim.WithKind(ProtocolPing))
	return protocol.NewBroadcastPing(id, ctx, nil, params.Pinger, params.Rounds), nil
}

func newEchoBroadcastRoot(ctx *sim.NodeContext, params Params) (sim.Protocol, error) {
	if err := checkMember(ctx, "sender", params.Sender); err != nil {
		return nil, err
	}
	id := sim.NewSegment(sim.WithKind(ProtocolEchoBroadcast))
	return protocol.NewEchoConsistentBroadcast(id, ctx, nil, params.Sender, params.Value, nil), nil
}

func newBinaryConsensusRoot(ctx *sim.NodeContext, params Params) (sim.Protocol, error) {
	id := sim.NewSegment(sim.WithKind(ProtocolBinaryConsensus))
	return protocol.NewBinaryConsensus(id, ctx, nil, params.Proposal(ctx.ID), nil), nil
}

func checkMember(ctx *sim.NodeContext, role string, id sim.NodeID) error {
	if !slices.Contains(ctx.Group, id) {
		return fmt.Errorf("%s %d is not in the group: %w", role, id, sim.ErrUnknownNode)
	}
	return nil
}
