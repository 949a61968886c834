package sim

// NodeContext is the per-node scope handed to Protocol constructors: the node's
// identity, the simulated group, the shared Network and the node's own Dispatcher.
type NodeContext struct {
	ID         NodeID
	Group      []NodeID
	Network    *Network
	Dispatcher *Dispatcher
}

// NewNodeContext creates the construction context for node id.
func NewNodeContext(id NodeID, group []NodeID, network *Network, dispatcher *Dispatcher) *NodeContext {
	return &NodeContext{ID: id, Group: group, Network: network, Dispatcher: dispatcher}
}

// Protocol is the unit of addressable, message-driven behavior.
//
// Start is invoked exactly once, by the owning Node, when the simulation begins.
// It performs the initial subscriptions and sends. Afterwards the engine only calls
// into a Protocol through handlers routed by the Dispatcher.
type Protocol interface {
	Start() error
	Path() Path
}

// BaseProtocol carries the addressing and transport plumbing shared by all
// protocol families. Concrete protocols embed it and implement Start.
// Children are composed by constructing them with the parent passed as parent.
type BaseProtocol struct {
	instanceID InstanceID
	ctx        *NodeContext
	parent     Protocol
	path       Path
}

// NewBaseProtocol derives the instance path: parent.Path() (or the empty Path
// when parent is nil) with instanceID appended. The path never changes afterwards.
func NewBaseProtocol(instanceID InstanceID, ctx *NodeContext, parent Protocol) BaseProtocol {
	var parentPath Path
	if parent != nil {
		parentPath = parent.Path()
	}
	return BaseProtocol{
		instanceID: instanceID,
		ctx:        ctx,
		parent:     parent,
		path:       parentPath.Append(instanceID),
	}
}

// Path returns the instance address.
func (p *BaseProtocol) Path() Path { return p.path }

// InstanceID returns the segment identifying this instance under its parent.
func (p *BaseProtocol) InstanceID() InstanceID { return p.instanceID }

// NodeID returns the owning node.
func (p *BaseProtocol) NodeID() NodeID { return p.ctx.ID }

// Group returns the simulated group.
func (p *BaseProtocol) Group() []NodeID { return p.ctx.Group }

// Context returns the node scope, for constructing child protocols.
func (p *BaseProtocol) Context() *NodeContext { return p.ctx }

// Parent returns the enclosing protocol, or nil for a root protocol.
func (p *BaseProtocol) Parent() Protocol { return p.parent }

// Now returns the current simulated instant.
func (p *BaseProtocol) Now() int64 { return p.ctx.Network.Clock() }

// Subscribe registers h for path on the node's Dispatcher.
func (p *BaseProtocol) Subscribe(path Path, h Handler) error {
	return p.ctx.Dispatcher.Subscribe(path, h)
}

// NewMessage builds a message from this node addressed to path.
func (p *BaseProtocol) NewMessage(path Path, payload Payload) Message {
	return Message{Path: path, Sender: p.ctx.ID, Payload: payload}
}

// Send delivers msg to dst through the Network.
func (p *BaseProtocol) Send(msg Message, dst NodeID) error {
	return p.ctx.Network.Send(msg, dst)
}

// Broadcast delivers msg to every node in dsts through the Network.
func (p *BaseProtocol) Broadcast(msg Message, dsts []NodeID) error {
	return p.ctx.Network.Broadcast(msg, dsts)
}
