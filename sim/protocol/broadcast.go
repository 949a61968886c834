package protocol

import (
	"github.com/sirupsen/logrus"

	"github.com/protosim/protosim/sim"
)

// Channel names used by EchoConsistentBroadcast.
const (
	ChannelSend = "send"
	ChannelEcho = "echo"
)

// DeliverFunc is called once when a broadcast instance delivers its value.
type DeliverFunc func(sender sim.NodeID, value string) error

// EchoConsistentBroadcast disseminates one value from a designated sender.
//
// The sender sends its value to the group on the send channel. Every node echoes
// the first value it receives from the sender on the echo channel, and delivers
// a value once it holds Quorum matching echoes from distinct nodes.
// No two nodes deliver different values.
type EchoConsistentBroadcast struct {
	sim.BaseProtocol
	sender    sim.NodeID
	value     string // meaningful at the sender only
	onDeliver DeliverFunc

	echoed    bool
	echoes    map[string]map[sim.NodeID]bool // value → echoing nodes
	delivered bool
	result    string
}

// NewEchoConsistentBroadcast creates one broadcast instance. value is used only
// when ctx.ID == sender. onDeliver may be nil.
func NewEchoConsistentBroadcast(id sim.InstanceID, ctx *sim.NodeContext, parent sim.Protocol,
	sender sim.NodeID, value string, onDeliver DeliverFunc) *EchoConsistentBroadcast {
	return &EchoConsistentBroadcast{
		BaseProtocol: sim.NewBaseProtocol(id, ctx, parent),
		sender:       sender,
		value:        value,
		onDeliver:    onDeliver,
		echoes:       make(map[string]map[sim.NodeID]bool),
	}
}

// MaxFaulty returns f = floor((n-1)/3).
func MaxFaulty(n int) int {
	if n < 1 {
		return 0
	}
	return (n - 1) / 3
}

// Quorum returns ceil((n+f+1)/2), the echo count required to deliver.
func Quorum(n int) int {
	return (n + MaxFaulty(n) + 2) / 2
}

// Start implements sim.Protocol.
func (b *EchoConsistentBroadcast) Start() error {
	if err := b.Subscribe(b.Path().Channel(ChannelSend), b.onSend); err != nil {
		return err
	}
	if err := b.Subscribe(b.Path().Channel(ChannelEcho), b.onEcho); err != nil {
		return err
	}
	if b.NodeID() != b.sender {
		return nil
	}
	send := b.NewMessage(b.Path().Channel(ChannelSend), sim.Payload{Kind: sim.PayloadSend, Value: b.value})
	return b.Broadcast(send, b.Group())
}

func (b *EchoConsistentBroadcast) onSend(msg sim.Message) error {
	if msg.Sender != b.sender {
		logrus.Warnf("Node %d ignoring send on %s from %d; sender is %d", b.NodeID(), b.Path(), msg.Sender, b.sender)
		return nil
	}
	if b.echoed {
		return nil
	}
	b.echoed = true
	echo := b.NewMessage(b.Path().Channel(ChannelEcho), sim.Payload{Kind: sim.PayloadEcho, Value: msg.Payload.Value})
	return b.Broadcast(echo, b.Group())
}

func (b *EchoConsistentBroadcast) onEcho(msg sim.Message) error {
	v := msg.Payload.Value
	from := b.echoes[v]
	if from == nil {
		from = make(map[sim.NodeID]bool)
		b.echoes[v] = from
	}
	from[msg.Sender] = true

	if b.delivered || len(from) < Quorum(len(b.Group())) {
		return nil
	}
	b.delivered = true
	b.result = v
	logrus.Debugf("Node %d delivered %q from %d on %s at %d", b.NodeID(), v, b.sender, b.Path(), b.Now())
	if b.onDeliver != nil {
		return b.onDeliver(b.sender, v)
	}
	return nil
}

// Sender returns the designated sender.
func (b *EchoConsistentBroadcast) Sender() sim.NodeID { return b.sender }

// Delivered returns the delivered value and whether delivery happened.
func (b *EchoConsistentBroadcast) Delivered() (string, bool) { return b.result, b.delivered }
