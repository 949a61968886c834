package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosim/protosim/sim"
)

func TestBroadcastPing_FourNodes_SevenDeliveries(t *testing.T) {
	// GIVEN 4 nodes, node 0 pinging, fixed per-edge delay d = 10 ms
	d := 10 * sim.Millisecond
	s, roots := buildGroup(t, 4, fixedLatency(t, 10), func(ctx *sim.NodeContext) *BroadcastPing {
		return NewBroadcastPing(sim.NewSegment(sim.WithKind("ping")), ctx, nil, 0, 1)
	})

	// WHEN the simulation runs to completion
	require.NoError(t, s.Run())

	// THEN 4 pings (including the self-ping) + 3 pongs were delivered
	m := s.Metrics()
	assert.Equal(t, 7, m.Scheduled)
	assert.Equal(t, 7, m.Delivered)
	assert.Equal(t, 0, s.Queue().Len())
	assert.Equal(t, 0, m.Unroutable)

	// AND pings land at d, pongs at 2d
	assert.Equal(t, 2*d, s.Clock())
	assert.Equal(t, 3, roots[0].PongsReceived())
	assert.Equal(t, 2*d, roots[0].LastPongAt())
	for _, r := range roots {
		assert.Equal(t, 1, r.PingsReceived())
	}
	assert.Equal(t, 0, roots[1].PongsReceived())
	assert.Equal(t, map[sim.NodeID]int{0: 4, 1: 1, 2: 1, 3: 1}, m.PerNodeDelivered)
}

func TestBroadcastPing_MultipleRounds(t *testing.T) {
	s, roots := buildGroup(t, 3, fixedLatency(t, 1), func(ctx *sim.NodeContext) *BroadcastPing {
		return NewBroadcastPing(sim.NewSegment(sim.WithKind("ping")), ctx, nil, 0, 3)
	})

	require.NoError(t, s.Run())

	// 3 rounds × (3 pings + 2 pongs)
	assert.Equal(t, 15, s.Metrics().Delivered)
	assert.Equal(t, 3, roots[0].Round())
	assert.Equal(t, 6, roots[0].PongsReceived())
	assert.Equal(t, 3, roots[2].PingsReceived())
	assert.Equal(t, 6*sim.Millisecond, s.Clock())
}

func TestBroadcastPing_RandomLatency_Terminates(t *testing.T) {
	s, roots := buildGroup(t, 5, discreteLatency(t, 42), func(ctx *sim.NodeContext) *BroadcastPing {
		return NewBroadcastPing(sim.NewSegment(sim.WithKind("ping")), ctx, nil, 2, 2)
	})

	require.NoError(t, s.Run())

	assert.Equal(t, 2*(5+4), s.Metrics().Delivered)
	assert.Equal(t, sim.NodeID(2), roots[0].Pinger())
	assert.Equal(t, 8, roots[2].PongsReceived())
}

func TestBroadcastPing_SameSeed_SameOutcome(t *testing.T) {
	run := func() int64 {
		s, _ := buildGroup(t, 6, discreteLatency(t, 99), func(ctx *sim.NodeContext) *BroadcastPing {
			return NewBroadcastPing(sim.NewSegment(sim.WithKind("ping")), ctx, nil, 0, 2)
		})
		require.NoError(t, s.Run())
		return s.Clock()
	}
	assert.Equal(t, run(), run())
}

func TestBroadcastPing_NestedUnderParentPath(t *testing.T) {
	_, roots := buildGroup(t, 2, fixedLatency(t, 1), func(ctx *sim.NodeContext) *BroadcastPing {
		parent := NewBroadcastPing(sim.NewSegment(sim.WithKind("outer")), ctx, nil, 0, 1)
		return NewBroadcastPing(sim.NewSegment(sim.WithKind("ping"), sim.WithRound(2)), ctx, parent, 0, 1)
	})
	assert.Equal(t, "/outer/ping[round=2]", roots[0].Path().String())
}
