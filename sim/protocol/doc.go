// Package protocol provides the protocol families run on top of the protosim engine.
//
// Every family embeds sim.BaseProtocol and implements Start. Composite protocols
// hold child instances built with themselves as parent, so child paths nest under
// the parent's path:
//
//	/consensus                      BinaryConsensus on every node
//	/consensus/broadcast[id=2]      EchoConsistentBroadcast of node 2's proposal
//	/consensus/broadcast[id=2]/echo echo sub-channel of that broadcast
package protocol
