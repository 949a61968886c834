package sim

import (
	"container/heap"
	"fmt"
)

// NodeID identifies a simulated participant. It is stable for a run and is the
// tie-break key for events scheduled at the same instant.
type NodeID int

// Millisecond is the number of ticks in one millisecond.
// The logical clock counts ticks (microseconds); latency models speak in milliseconds.
const Millisecond int64 = 1000

// Event is a scheduled delivery of a Message to a Node.
// Events are created by the Network and are immutable once created.
type Event struct {
	time    int64   // Absolute delivery time (in ticks)
	target  NodeID  // Node that will process the message
	message Message // Message delivered to the node
}

// NewEvent creates an Event delivering msg to target at the absolute time t.
func NewEvent(t int64, target NodeID, msg Message) Event {
	return Event{time: t, target: target, message: msg}
}

// Timestamp returns the absolute delivery time of the event.
func (e Event) Timestamp() int64 {
	return e.time
}

// Target returns the node the event is delivered to.
func (e Event) Target() NodeID {
	return e.target
}

// Message returns the message carried by the event.
func (e Event) Message() Message {
	return e.message
}

func (e Event) String() string {
	return fmt.Sprintf("event{t=%d, node=%d, %s}", e.time, e.target, e.message)
}

// eventHeap implements heap.Interface.
// Order by: delivery time → target node.
// Events with equal time and equal target have no defined relative order.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].target < h[j].target
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// EventQueue is the logical clock plus the pending deliveries ordered by delivery key.
//
// Invariants:
//   - Clock is non-decreasing and equals the delivery time of the most recently popped event.
//   - Every pushed event is scheduled at or after the clock value at push time.
//
// Thread-safety: NOT thread-safe. Owned by the Simulator's run loop.
type EventQueue struct {
	clock  int64
	events eventHeap
}

// NewEventQueue creates an empty queue with the clock at zero.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Clock returns the current simulated instant (in ticks).
func (q *EventQueue) Clock() int64 {
	return q.clock
}

// Push schedules msg for delivery to target at Clock()+delay.
// Push never advances the clock.
func (q *EventQueue) Push(delay int64, target NodeID, msg Message) (Event, error) {
	if delay < 0 {
		return Event{}, fmt.Errorf("scheduling message for node %d with delay %d: %w", target, delay, ErrNegativeLatency)
	}
	e := NewEvent(q.clock+delay, target, msg)
	heap.Push(&q.events, e)
	return e, nil
}

// Pop removes and returns the earliest event and advances the clock to its delivery time.
// Returns ErrEmptyQueue if nothing is pending.
func (q *EventQueue) Pop() (Event, error) {
	if len(q.events) == 0 {
		return Event{}, ErrEmptyQueue
	}
	e := heap.Pop(&q.events).(Event)
	q.clock = e.time
	return e, nil
}

// Peek returns the earliest event without removing it.
func (q *EventQueue) Peek() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}
	return q.events[0], true
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
