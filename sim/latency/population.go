package latency

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// coordinate accepts both numbers and numeric strings; geo datasets exported
// as JSON often quote their coordinates.
type coordinate float64

func (c *coordinate) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: coordinate must be a scalar", value.Line)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid coordinate %q: %w", value.Line, value.Value, err)
	}
	*c = coordinate(f)
	return nil
}

type populationRecord struct {
	Latitude  coordinate `yaml:"latitude"`
	Longitude coordinate `yaml:"longitude"`
	City      string     `yaml:"city"`
	Country   string     `yaml:"country"`
}

// ParsePopulation decodes a sequence of {latitude, longitude, city, country}
// records. JSON input is accepted since JSON is a subset of YAML.
// Unrecognized record fields are ignored.
func ParsePopulation(data []byte) ([]Location, error) {
	var records []populationRecord
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing geo population: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing geo population: no records")
	}
	population := make([]Location, len(records))
	for i, r := range records {
		loc := Location{
			Latitude:  float64(r.Latitude),
			Longitude: float64(r.Longitude),
			City:      r.City,
			Country:   r.Country,
		}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("parsing geo population: record %d: %w", i, err)
		}
		population[i] = loc
	}
	return population, nil
}

// LoadPopulation reads a geo population file.
func LoadPopulation(path string) ([]Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geo population: %w", err)
	}
	return ParsePopulation(data)
}
