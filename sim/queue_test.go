package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_PopOnEmpty_ReturnsErrEmptyQueue(t *testing.T) {
	q := NewEventQueue()

	_, err := q.Pop()

	assert.ErrorIs(t, err, ErrEmptyQueue)
	assert.Equal(t, int64(0), q.Clock())
}

func TestEventQueue_Push_SchedulesRelativeToClock(t *testing.T) {
	// GIVEN a queue whose clock has advanced to 100
	q := NewEventQueue()
	_, err := q.Push(100, 0, testMsg("a", 0))
	require.NoError(t, err)
	_, err = q.Pop()
	require.NoError(t, err)
	require.Equal(t, int64(100), q.Clock())

	// WHEN an event is pushed with delay 5
	e, err := q.Push(5, 1, testMsg("b", 0))
	require.NoError(t, err)

	// THEN it is scheduled at 105 and the clock does not move
	assert.Equal(t, int64(105), e.Timestamp())
	assert.Equal(t, int64(100), q.Clock())
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_Push_NegativeDelay_Rejected(t *testing.T) {
	q := NewEventQueue()

	_, err := q.Push(-1, 0, testMsg("a", 0))

	assert.ErrorIs(t, err, ErrNegativeLatency)
	assert.Equal(t, 0, q.Len())
}

func TestEventQueue_TimestampOrdering(t *testing.T) {
	q := NewEventQueue()
	for _, d := range []int64{100, 50, 150} {
		_, err := q.Push(d, 0, testMsg("a", 0))
		require.NoError(t, err)
	}

	for _, want := range []int64{50, 100, 150} {
		e, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, e.Timestamp())
		assert.Equal(t, want, q.Clock(), "clock must equal popped delivery time")
	}
	assert.Equal(t, 0, q.Len())
}

func TestEventQueue_SameInstant_OrderedByTargetNode(t *testing.T) {
	tests := []struct {
		name   string
		pushes []NodeID
	}{
		{"ascending push order", []NodeID{1, 2, 3}},
		{"descending push order", []NodeID{3, 2, 1}},
		{"mixed push order", []NodeID{2, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewEventQueue()
			for _, target := range tt.pushes {
				_, err := q.Push(10, target, testMsg("a", 0))
				require.NoError(t, err)
			}
			var got []NodeID
			for q.Len() > 0 {
				e, err := q.Pop()
				require.NoError(t, err)
				got = append(got, e.Target())
			}
			assert.Equal(t, []NodeID{1, 2, 3}, got)
		})
	}
}

func TestEventQueue_MonotonicClock_RandomSchedule(t *testing.T) {
	// GIVEN events pushed with random delays, interleaved with pops
	rng := rand.New(rand.NewSource(7))
	q := NewEventQueue()
	for i := 0; i < 50; i++ {
		_, err := q.Push(rng.Int63n(100), NodeID(rng.Intn(5)), testMsg("a", 0))
		require.NoError(t, err)
	}

	// WHEN the queue is drained, pushing a new event after every few pops
	prev := q.Clock()
	pops := 0
	for q.Len() > 0 {
		e, err := q.Pop()
		require.NoError(t, err)
		pops++

		// THEN the clock never decreases and equals the popped delivery time
		assert.GreaterOrEqual(t, q.Clock(), prev)
		assert.Equal(t, e.Timestamp(), q.Clock())
		prev = q.Clock()

		if pops%3 == 0 && pops < 60 {
			_, err := q.Push(rng.Int63n(20), NodeID(rng.Intn(5)), testMsg("b", 0))
			require.NoError(t, err)
		}
	}
}

func TestEventQueue_Peek_DoesNotAdvanceClock(t *testing.T) {
	q := NewEventQueue()
	_, ok := q.Peek()
	assert.False(t, ok)

	_, err := q.Push(30, 2, testMsg("a", 0))
	require.NoError(t, err)

	e, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(30), e.Timestamp())
	assert.Equal(t, int64(0), q.Clock())
	assert.Equal(t, 1, q.Len())
}
