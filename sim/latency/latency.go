// Package latency provides latency model implementations for the protosim engine.
// The LatencyModel interface is defined in sim/ (parent package).
// This package provides FixedLatencyModel (constant delay), DiscreteRandomLatencyModel
// (uniform draw from a fixed set) and GeoLatencyModel (great-circle distance between
// sampled node locations).
//
// Models are configured in milliseconds and return delays in ticks.
package latency

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/protosim/protosim/sim"
)

// DefaultDiscreteValues is the discrete latency set used when none is configured (in ms).
var DefaultDiscreteValues = []float64{5, 50, 100}

// FixedLatencyModel delays every message by the same amount.
type FixedLatencyModel struct {
	delay int64
}

// NewFixedLatencyModel creates a model delaying every message by delayMs milliseconds.
func NewFixedLatencyModel(delayMs float64) (*FixedLatencyModel, error) {
	if err := validateMillis("delay", delayMs); err != nil {
		return nil, err
	}
	return &FixedLatencyModel{delay: msToTicks(delayMs)}, nil
}

// Latency implements sim.LatencyModel.
func (m *FixedLatencyModel) Latency(src, dst sim.NodeID) (int64, error) {
	return m.delay, nil
}

// DiscreteRandomLatencyModel draws every delay independently and uniformly from a
// fixed set, ignoring source and destination.
type DiscreteRandomLatencyModel struct {
	values []int64
	rng    *rand.Rand
}

// NewDiscreteRandomLatencyModel creates a model drawing from valuesMs (milliseconds).
// rng is typically PartitionedRNG.ForSubsystem(sim.SubsystemLatency).
func NewDiscreteRandomLatencyModel(valuesMs []float64, rng *rand.Rand) (*DiscreteRandomLatencyModel, error) {
	if len(valuesMs) == 0 {
		return nil, fmt.Errorf("latency model: discrete-random requires at least one value")
	}
	if rng == nil {
		return nil, fmt.Errorf("latency model: discrete-random requires an RNG")
	}
	values := make([]int64, len(valuesMs))
	for i, v := range valuesMs {
		if err := validateMillis(fmt.Sprintf("values[%d]", i), v); err != nil {
			return nil, err
		}
		values[i] = msToTicks(v)
	}
	return &DiscreteRandomLatencyModel{values: values, rng: rng}, nil
}

// Latency implements sim.LatencyModel.
func (m *DiscreteRandomLatencyModel) Latency(src, dst sim.NodeID) (int64, error) {
	return m.values[m.rng.Intn(len(m.values))], nil
}

// Values returns the candidate delays in ticks.
func (m *DiscreteRandomLatencyModel) Values() []int64 {
	cp := make([]int64, len(m.values))
	copy(cp, m.values)
	return cp
}

// msToTicks converts milliseconds to ticks, rounding to the nearest tick.
func msToTicks(ms float64) int64 {
	return int64(math.Round(ms * float64(sim.Millisecond)))
}

// validateMillis rejects NaN, Inf and negative delays.
func validateMillis(name string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("latency model: %s is NaN", name)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("latency model: %s is Inf", name)
	}
	if v < 0 {
		return fmt.Errorf("latency model: %s is %v: %w", name, v, sim.ErrNegativeLatency)
	}
	return nil
}
