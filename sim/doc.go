// Package sim provides the discrete-event simulation engine for protosim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: Event and the EventQueue (logical clock + delivery heap)
//   - path.go: Segment / Path hierarchical addressing of protocol instances
//   - dispatcher.go: per-node routing from Path to handler, with backlog buffering
//   - simulator.go: the run loop
//
// # Architecture
//
// The sim package defines the engine and its interfaces; implementations live in
// sub-packages:
//   - sim/latency/: latency models (fixed, discrete random, geographic)
//   - sim/protocol/: protocol families (broadcast ping, echo consistent broadcast, binary consensus)
//   - sim/wiring/: explicit build step turning a Config into a ready-to-run Simulator
//   - sim/trace/: delivery trace recording
//
// # Execution Model
//
// The engine is single-threaded and run-to-completion. Each popped Event is delivered
// synchronously to its target Node; the handler runs to completion, and any sends it
// performs only enqueue future Events. Given a fixed LatencyModel and seed, every run
// produces the same Event interleaving.
//
// # Key Interfaces
//   - LatencyModel: inter-node delay in ticks
//   - Protocol: Start plus per-path handler registration through BaseProtocol
package sim
