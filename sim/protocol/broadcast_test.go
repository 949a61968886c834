package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosim/protosim/sim"
)

func TestQuorum(t *testing.T) {
	tests := []struct {
		n, f, quorum int
	}{
		{1, 0, 1},
		{2, 0, 2},
		{3, 0, 2},
		{4, 1, 3},
		{7, 2, 5},
		{10, 3, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.f, MaxFaulty(tt.n), "MaxFaulty(%d)", tt.n)
		assert.Equal(t, tt.quorum, Quorum(tt.n), "Quorum(%d)", tt.n)
	}
}

func TestEchoConsistentBroadcast_AllNodesDeliverSenderValue(t *testing.T) {
	// GIVEN 4 nodes and sender 1 broadcasting "v"
	var deliveries []string
	s, roots := buildGroup(t, 4, discreteLatency(t, 7), func(ctx *sim.NodeContext) *EchoConsistentBroadcast {
		return NewEchoConsistentBroadcast(sim.NewSegment(sim.WithKind("echo-broadcast")), ctx, nil, 1, "v",
			func(sender sim.NodeID, value string) error {
				deliveries = append(deliveries, value)
				return nil
			})
	})

	// WHEN run
	require.NoError(t, s.Run())

	// THEN every node delivered "v" exactly once
	assert.Equal(t, []string{"v", "v", "v", "v"}, deliveries)
	for _, r := range roots {
		v, ok := r.Delivered()
		assert.True(t, ok)
		assert.Equal(t, "v", v)
		assert.Equal(t, sim.NodeID(1), r.Sender())
	}
	// n sends + n*n echoes
	assert.Equal(t, 4+16, s.Metrics().Delivered)
}

func TestEchoConsistentBroadcast_OnlySenderValueIsUsed(t *testing.T) {
	// Non-sender nodes were built with a different value; it must never be broadcast.
	s, roots := buildGroup(t, 3, fixedLatency(t, 2), func(ctx *sim.NodeContext) *EchoConsistentBroadcast {
		value := "ignored"
		if ctx.ID == 0 {
			value = "real"
		}
		return NewEchoConsistentBroadcast(sim.NewSegment(sim.WithKind("b")), ctx, nil, 0, value, nil)
	})

	require.NoError(t, s.Run())

	for _, r := range roots {
		v, ok := r.Delivered()
		require.True(t, ok)
		assert.Equal(t, "real", v)
	}
}

func TestEchoConsistentBroadcast_SendFromNonSenderIgnored(t *testing.T) {
	// GIVEN a node that is not the designated sender
	q := sim.NewEventQueue()
	net := sim.NewNetwork(q, fixedLatency(t, 1))
	group := []sim.NodeID{0, 1}
	d := sim.NewDispatcher(1)
	b := NewEchoConsistentBroadcast(sim.NewSegment(sim.WithKind("b")), sim.NewNodeContext(1, group, net, d), nil, 0, "", nil)
	require.NoError(t, b.Start())

	// WHEN a send arrives from node 1 instead of node 0
	forged := sim.Message{Path: b.Path().Channel(ChannelSend), Sender: 1, Payload: sim.Payload{Kind: sim.PayloadSend, Value: "x"}}
	require.NoError(t, d.Deliver(forged))

	// THEN no echo is scheduled
	assert.Equal(t, 0, q.Len())
}
