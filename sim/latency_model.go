package sim

// LatencyModel computes the delay of a message from src to dst.
// Implementations live in sim/latency: FixedLatencyModel, DiscreteRandomLatencyModel
// and GeoLatencyModel. Delays are in ticks and must be non-negative.
type LatencyModel interface {
	// Latency returns the delay for one message from src to dst.
	// Returns an error wrapping ErrUnknownNode if either node has no latency data.
	Latency(src, dst NodeID) (int64, error)
}
