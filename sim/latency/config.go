package latency

import (
	"fmt"

	"github.com/protosim/protosim/sim"
)

// Latency model names accepted by NewLatencyModel.
const (
	ModelFixed          = "fixed"
	ModelDiscreteRandom = "discrete-random"
	ModelGeo            = "geo"
)

var validModels = map[string]bool{
	"":                  true, // empty defaults to discrete-random
	ModelFixed:          true,
	ModelDiscreteRandom: true,
	ModelGeo:            true,
}

// IsValidModel returns true if name is a recognized latency model.
func IsValidModel(name string) bool {
	return validModels[name]
}

// ValidModelNames returns the accepted model names for help text.
func ValidModelNames() []string {
	return []string{ModelFixed, ModelDiscreteRandom, ModelGeo}
}

// Config selects and parameterizes a latency model. All delays are in milliseconds.
type Config struct {
	Model      string     `yaml:"model"`
	Delay      float64    `yaml:"delay,omitempty"`      // fixed
	Values     []float64  `yaml:"values,omitempty"`     // discrete-random; defaults to DefaultDiscreteValues
	GeoData    string     `yaml:"geo_data,omitempty"`   // geo: population file
	Population []Location `yaml:"population,omitempty"` // geo: inline population, used when GeoData is empty
}

// NewLatencyModel creates the model named by cfg.Model for the given group.
// Randomness is drawn from the sim.SubsystemLatency and sim.SubsystemGeo partitions of rng.
func NewLatencyModel(cfg Config, group []sim.NodeID, rng *sim.PartitionedRNG) (sim.LatencyModel, error) {
	if !IsValidModel(cfg.Model) {
		return nil, fmt.Errorf("latency model: unknown model %q; valid: %v", cfg.Model, ValidModelNames())
	}
	switch cfg.Model {
	case ModelFixed:
		return NewFixedLatencyModel(cfg.Delay)
	case "", ModelDiscreteRandom:
		values := cfg.Values
		if len(values) == 0 {
			values = DefaultDiscreteValues
		}
		return NewDiscreteRandomLatencyModel(values, rng.ForSubsystem(sim.SubsystemLatency))
	case ModelGeo:
		population := cfg.Population
		if cfg.GeoData != "" {
			loaded, err := LoadPopulation(cfg.GeoData)
			if err != nil {
				return nil, fmt.Errorf("latency model: %w", err)
			}
			population = loaded
		}
		return NewGeoLatencyModel(group, population, rng.ForSubsystem(sim.SubsystemGeo))
	default:
		panic(fmt.Sprintf("unhandled latency model %q", cfg.Model))
	}
}
