package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/protosim/protosim/sim"
)

// Channel names used by BroadcastPing.
const (
	ChannelPing = "ping"
	ChannelPong = "pong"
)

// BroadcastPing: the pinger broadcasts a ping to the whole group, every other node
// answers with a pong to the pinger, and the pinger counts pongs. The pinger
// receives its own ping but does not answer it. With more than one round, the
// pinger starts round r+1 once every pong of round r has arrived.
type BroadcastPing struct {
	sim.BaseProtocol
	pinger sim.NodeID
	rounds int

	round         int // current round at the pinger
	roundPongs    int // pongs received for the current round
	pingsReceived int
	pongsReceived int
	lastPong      int64
}

// NewBroadcastPing creates a BroadcastPing instance for the node described by ctx.
// rounds < 1 is treated as a single round.
func NewBroadcastPing(id sim.InstanceID, ctx *sim.NodeContext, parent sim.Protocol, pinger sim.NodeID, rounds int) *BroadcastPing {
	if rounds < 1 {
		rounds = 1
	}
	return &BroadcastPing{
		BaseProtocol: sim.NewBaseProtocol(id, ctx, parent),
		pinger:       pinger,
		rounds:       rounds,
	}
}

// Start implements sim.Protocol.
func (p *BroadcastPing) Start() error {
	if err := p.Subscribe(p.Path().Channel(ChannelPing), p.onPing); err != nil {
		return err
	}
	if p.NodeID() != p.pinger {
		return nil
	}
	if err := p.Subscribe(p.Path().Channel(ChannelPong), p.onPong); err != nil {
		return err
	}
	return p.startRound(1)
}

func (p *BroadcastPing) startRound(round int) error {
	p.round = round
	p.roundPongs = 0
	ping := p.NewMessage(p.Path().Channel(ChannelPing), sim.Payload{Kind: sim.PayloadPing, Round: round})
	return p.Broadcast(ping, p.Group())
}

func (p *BroadcastPing) onPing(msg sim.Message) error {
	p.pingsReceived++
	if p.NodeID() == p.pinger {
		return nil
	}
	logrus.Debugf("Node %d got ping round %d from %d at %d", p.NodeID(), msg.Payload.Round, msg.Sender, p.Now())
	pong := p.NewMessage(p.Path().Channel(ChannelPong), sim.Payload{Kind: sim.PayloadPong, Round: msg.Payload.Round})
	return p.Send(pong, msg.Sender)
}

func (p *BroadcastPing) onPong(msg sim.Message) error {
	if msg.Payload.Round != p.round {
		return fmt.Errorf("pinger %d: pong for round %d during round %d", p.NodeID(), msg.Payload.Round, p.round)
	}
	p.pongsReceived++
	p.roundPongs++
	p.lastPong = p.Now()
	expected := len(p.Group()) - 1
	logrus.Debugf("Pinger %d got pong %d/%d of round %d from %d at %d",
		p.NodeID(), p.roundPongs, expected, p.round, msg.Sender, p.lastPong)

	if p.roundPongs == expected && p.round < p.rounds {
		return p.startRound(p.round + 1)
	}
	return nil
}

// Pinger returns the node that starts the exchange.
func (p *BroadcastPing) Pinger() sim.NodeID { return p.pinger }

// PingsReceived returns how many pings this node received, including its own.
func (p *BroadcastPing) PingsReceived() int { return p.pingsReceived }

// PongsReceived returns how many pongs the pinger received over all rounds.
func (p *BroadcastPing) PongsReceived() int { return p.pongsReceived }

// Round returns the pinger's current round.
func (p *BroadcastPing) Round() int { return p.round }

// LastPongAt returns the instant the most recent pong arrived.
func (p *BroadcastPing) LastPongAt() int64 { return p.lastPong }
