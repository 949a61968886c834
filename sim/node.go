package sim

import "fmt"

// Node binds a node identity, its Dispatcher and its root Protocol.
type Node struct {
	id         NodeID
	dispatcher *Dispatcher
	root       Protocol
	started    bool
}

// NewNode creates a node. The root protocol must have been built with a
// NodeContext holding the same dispatcher.
func NewNode(id NodeID, dispatcher *Dispatcher, root Protocol) *Node {
	return &Node{id: id, dispatcher: dispatcher, root: root}
}

// ID returns the node identity.
func (n *Node) ID() NodeID { return n.id }

// Dispatcher returns the node's dispatcher.
func (n *Node) Dispatcher() *Dispatcher { return n.dispatcher }

// Root returns the root protocol.
func (n *Node) Root() Protocol { return n.root }

// Start starts the root protocol. A node can be started only once.
func (n *Node) Start() error {
	if n.started {
		return fmt.Errorf("node %d already started", n.id)
	}
	n.started = true
	if err := n.root.Start(); err != nil {
		return fmt.Errorf("starting node %d: %w", n.id, err)
	}
	return nil
}

// Deliver hands msg to the node's dispatcher.
func (n *Node) Deliver(msg Message) error {
	return n.dispatcher.Deliver(msg)
}
