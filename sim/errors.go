package sim

import "errors"

var (
	// ErrEmptyQueue is returned by EventQueue.Pop when no events are pending.
	ErrEmptyQueue = errors.New("event queue is empty")

	// ErrDuplicateSubscription is returned when a Path already has a handler.
	// It signals two protocol instances computing the same address.
	ErrDuplicateSubscription = errors.New("duplicate subscription")

	// ErrUnknownNode is returned for a NodeID outside the simulated group.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNegativeLatency is returned when a latency model yields a delay below zero.
	ErrNegativeLatency = errors.New("negative latency")
)
