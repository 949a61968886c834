package wiring

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/protosim/protosim/sim"
	"github.com/protosim/protosim/sim/latency"
	"github.com/protosim/protosim/sim/trace"
)

// Config describes one simulation run.
// Loaded from YAML via LoadConfig(path).
type Config struct {
	GroupSize int            `yaml:"group_size"`
	Seed      int64          `yaml:"seed"`
	Protocol  string         `yaml:"protocol"`
	Params    Params         `yaml:"params"`
	Latency   latency.Config `yaml:"latency"`
	Trace     string         `yaml:"trace,omitempty"` // none | deliveries
}

// Params are the algorithm-specific parameters of the root protocols.
type Params struct {
	Pinger    sim.NodeID `yaml:"pinger"`              // ping
	Rounds    int        `yaml:"rounds,omitempty"`    // ping; defaults to 1
	Sender    sim.NodeID `yaml:"sender"`              // echo-broadcast
	Value     string     `yaml:"value,omitempty"`     // echo-broadcast
	Proposals []bool     `yaml:"proposals,omitempty"` // binary-consensus, indexed by node
}

// Proposal returns the binary consensus input of node id: Proposals[id] when
// configured, otherwise true for even nodes.
func (p Params) Proposal(id sim.NodeID) bool {
	if int(id) < len(p.Proposals) {
		return p.Proposals[id]
	}
	return id%2 == 0
}

// DefaultConfig returns the four-node ping scenario.
func DefaultConfig() Config {
	return Config{
		GroupSize: 4,
		Seed:      42,
		Protocol:  ProtocolPing,
		Params:    Params{Rounds: 1, Value: "v"},
		Latency:   latency.Config{Model: latency.ModelDiscreteRandom},
	}
}

// LoadConfig reads and parses a YAML scenario file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML scenario data on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config against reg.
func (c Config) Validate(reg *Registry) error {
	if c.GroupSize < 1 {
		return fmt.Errorf("group_size must be positive, got %d", c.GroupSize)
	}
	if _, ok := reg.Lookup(c.Protocol); !ok {
		return fmt.Errorf("unknown protocol %q; valid: %v", c.Protocol, reg.Names())
	}
	if !latency.IsValidModel(c.Latency.Model) {
		return fmt.Errorf("unknown latency model %q; valid: %v", c.Latency.Model, latency.ValidModelNames())
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, deliveries", c.Trace)
	}
	if len(c.Params.Proposals) > c.GroupSize {
		return fmt.Errorf("params.proposals has %d entries for %d nodes", len(c.Params.Proposals), c.GroupSize)
	}
	return nil
}

// Group returns the node IDs 0..GroupSize-1.
func (c Config) Group() []sim.NodeID {
	group := make([]sim.NodeID, c.GroupSize)
	for i := range group {
		group[i] = sim.NodeID(i)
	}
	return group
}
