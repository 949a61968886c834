package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Handler processes a message delivered to a subscribed Path.
// A non-nil error aborts the simulation run.
type Handler func(msg Message) error

// Dispatcher routes a node's incoming messages from Path to Handler.
// Messages for a Path without a handler are kept in a per-path backlog, in arrival
// order, and flushed when the Path is subscribed.
//
// Invariant: a PathKey is present in at most one of subscriptions or backlog.
type Dispatcher struct {
	nodeID        NodeID
	subscriptions map[PathKey]Handler
	backlog       map[PathKey][]Message
	paths         map[PathKey]Path // for reporting only

	delivered  int // messages passed to a handler
	unroutable int // messages that had to be buffered on arrival
}

// NewDispatcher creates an empty dispatcher for nodeID.
func NewDispatcher(nodeID NodeID) *Dispatcher {
	return &Dispatcher{
		nodeID:        nodeID,
		subscriptions: make(map[PathKey]Handler),
		backlog:       make(map[PathKey][]Message),
		paths:         make(map[PathKey]Path),
	}
}

// NodeID returns the node this dispatcher belongs to.
func (d *Dispatcher) NodeID() NodeID {
	return d.nodeID
}

// Subscribe registers h for path, then synchronously delivers any backlogged
// messages for path in arrival order. Returns ErrDuplicateSubscription if path
// already has a handler; the existing handler stays active.
func (d *Dispatcher) Subscribe(path Path, h Handler) error {
	if h == nil {
		return fmt.Errorf("node %d: nil handler for path %s", d.nodeID, path)
	}
	key := path.Key()
	if _, exists := d.subscriptions[key]; exists {
		return fmt.Errorf("node %d already has a subscription for path %s: %w", d.nodeID, path, ErrDuplicateSubscription)
	}
	d.subscriptions[key] = h
	d.paths[key] = path

	pending, ok := d.backlog[key]
	if !ok {
		return nil
	}
	delete(d.backlog, key)
	logrus.Debugf("Node %d flushing %d backlogged message(s) for path %s", d.nodeID, len(pending), path)
	for _, msg := range pending {
		d.delivered++
		if err := h(msg); err != nil {
			return err
		}
	}
	return nil
}

// Deliver invokes the handler subscribed to msg.Path, or buffers msg if none exists.
// Buffering is not an error; it is logged at warning level.
func (d *Dispatcher) Deliver(msg Message) error {
	key := msg.Path.Key()
	if h, ok := d.subscriptions[key]; ok {
		d.delivered++
		return h(msg)
	}
	d.backlog[key] = append(d.backlog[key], msg)
	d.paths[key] = msg.Path
	d.unroutable++
	logrus.Warnf("Node %d does not have a subscription for path %s; message buffered", d.nodeID, msg.Path)
	return nil
}

// IsSubscribed reports whether path has a handler.
func (d *Dispatcher) IsSubscribed(path Path) bool {
	_, ok := d.subscriptions[path.Key()]
	return ok
}

// Backlog returns a copy of the messages buffered for path.
func (d *Dispatcher) Backlog(path Path) []Message {
	return slices.Clone(d.backlog[path.Key()])
}

// BacklogLen returns the number of messages buffered across all paths.
func (d *Dispatcher) BacklogLen() int {
	n := 0
	for _, msgs := range d.backlog {
		n += len(msgs)
	}
	return n
}

// PendingPaths returns the paths holding backlogged messages, sorted by key.
func (d *Dispatcher) PendingPaths() []Path {
	keys := maps.Keys(d.backlog)
	slices.Sort(keys)
	paths := make([]Path, len(keys))
	for i, k := range keys {
		paths[i] = d.paths[k]
	}
	return paths
}

// Delivered returns how many messages reached a handler, including flushed backlog.
func (d *Dispatcher) Delivered() int {
	return d.delivered
}

// Unroutable returns how many messages arrived before their path was subscribed.
func (d *Dispatcher) Unroutable() int {
	return d.unroutable
}
