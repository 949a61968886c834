package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/protosim/protosim/sim"
)

// KindBroadcast is the instance kind of the broadcast children of BinaryConsensus.
const KindBroadcast = "broadcast"

// DecideFunc is called once when a consensus instance decides.
type DecideFunc func(decision bool) error

// BinaryConsensus agrees on one bit. Every node disseminates its proposal through
// its own EchoConsistentBroadcast child (instance {Kind: "broadcast", ID: node});
// once the proposals of all group members are delivered the node decides the
// majority bit, with ties deciding false. Consistent broadcast guarantees every
// node sees the same proposals, so all nodes decide the same bit.
type BinaryConsensus struct {
	sim.BaseProtocol
	proposal bool
	onDecide DecideFunc

	children  []*EchoConsistentBroadcast // ordered by sender
	proposals map[sim.NodeID]bool
	decided   bool
	decision  bool
}

// NewBinaryConsensus creates a consensus instance and its broadcast children.
// onDecide may be nil.
func NewBinaryConsensus(id sim.InstanceID, ctx *sim.NodeContext, parent sim.Protocol,
	proposal bool, onDecide DecideFunc) *BinaryConsensus {
	c := &BinaryConsensus{
		BaseProtocol: sim.NewBaseProtocol(id, ctx, parent),
		proposal:     proposal,
		onDecide:     onDecide,
		proposals:    make(map[sim.NodeID]bool, len(ctx.Group)),
	}
	for _, sender := range ctx.Group {
		value := ""
		if sender == ctx.ID {
			value = encodeBit(proposal)
		}
		child := NewEchoConsistentBroadcast(
			sim.NewSegment(sim.WithKind(KindBroadcast), sim.WithID(int(sender))),
			ctx, c, sender, value, c.onProposal)
		c.children = append(c.children, child)
	}
	return c
}

// Start implements sim.Protocol by starting every broadcast child.
func (c *BinaryConsensus) Start() error {
	for _, child := range c.children {
		if err := child.Start(); err != nil {
			return err
		}
	}
	return nil
}

func (c *BinaryConsensus) onProposal(sender sim.NodeID, value string) error {
	bit, err := decodeBit(value)
	if err != nil {
		return fmt.Errorf("node %d: proposal from %d: %w", c.NodeID(), sender, err)
	}
	c.proposals[sender] = bit
	if c.decided || len(c.proposals) < len(c.Group()) {
		return nil
	}

	ones := 0
	for _, b := range c.proposals {
		if b {
			ones++
		}
	}
	c.decided = true
	c.decision = 2*ones > len(c.proposals)
	logrus.Infof("Node %d decided %t at %d (%d/%d proposals for true)",
		c.NodeID(), c.decision, c.Now(), ones, len(c.proposals))
	if c.onDecide != nil {
		return c.onDecide(c.decision)
	}
	return nil
}

// Proposal returns this node's input bit.
func (c *BinaryConsensus) Proposal() bool { return c.proposal }

// Decision returns the decided bit and whether a decision was reached.
func (c *BinaryConsensus) Decision() (bool, bool) { return c.decision, c.decided }

// Children returns the broadcast children ordered by sender.
func (c *BinaryConsensus) Children() []*EchoConsistentBroadcast {
	out := make([]*EchoConsistentBroadcast, len(c.children))
	copy(out, c.children)
	return out
}

func encodeBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func decodeBit(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid binary value %q", s)
	}
}
