package latency

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/protosim/protosim/sim"
)

const (
	// EarthRadiusKm is the mean Earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0088

	// Signal propagation: 1.5 ms per 200 km.
	kmPerStep = 200.0
	msPerStep = 1.5
)

// Location is a geographic position of a simulated node.
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	City      string  `yaml:"city"`
	Country   string  `yaml:"country"`
}

// Validate checks that the coordinates are finite and in range.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Longitude)
	}
	return nil
}

func (l Location) String() string {
	if l.City == "" && l.Country == "" {
		return fmt.Sprintf("(%.4f, %.4f)", l.Latitude, l.Longitude)
	}
	return fmt.Sprintf("%s, %s", l.City, l.Country)
}

// GreatCircleDistance returns the haversine distance between a and b in kilometers.
func GreatCircleDistance(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// GeoLatencyModel derives delays from the distance between node locations.
// Each node gets a location once, at construction; locations never change.
type GeoLatencyModel struct {
	locations map[sim.NodeID]Location
}

// NewGeoLatencyModel assigns every node in group a location sampled with
// replacement from population. Returns an error if population is empty.
// rng is typically PartitionedRNG.ForSubsystem(sim.SubsystemGeo).
func NewGeoLatencyModel(group []sim.NodeID, population []Location, rng *rand.Rand) (*GeoLatencyModel, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("latency model: geo requires a non-empty population")
	}
	if rng == nil {
		return nil, fmt.Errorf("latency model: geo requires an RNG")
	}
	for i, loc := range population {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("latency model: population[%d]: %w", i, err)
		}
	}
	locations := make(map[sim.NodeID]Location, len(group))
	for _, id := range group {
		loc := population[rng.Intn(len(population))]
		locations[id] = loc
		logrus.Infof("Node %d is located in %s", id, loc)
	}
	return &GeoLatencyModel{locations: locations}, nil
}

// NewGeoLatencyModelWithLocations creates a model from explicit node placements.
func NewGeoLatencyModelWithLocations(locations map[sim.NodeID]Location) (*GeoLatencyModel, error) {
	placed := make(map[sim.NodeID]Location, len(locations))
	for id, loc := range locations {
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("latency model: node %d: %w", id, err)
		}
		placed[id] = loc
	}
	return &GeoLatencyModel{locations: placed}, nil
}

// Location returns the location assigned to id.
func (m *GeoLatencyModel) Location(id sim.NodeID) (Location, error) {
	loc, ok := m.locations[id]
	if !ok {
		return Location{}, fmt.Errorf("latency model: no location for node %d: %w", id, sim.ErrUnknownNode)
	}
	return loc, nil
}

// Distance returns the great-circle distance between two nodes in kilometers.
func (m *GeoLatencyModel) Distance(src, dst sim.NodeID) (float64, error) {
	a, err := m.Location(src)
	if err != nil {
		return 0, err
	}
	b, err := m.Location(dst)
	if err != nil {
		return 0, err
	}
	return GreatCircleDistance(a, b), nil
}

// Latency implements sim.LatencyModel: distance_km / 200 * 1.5 milliseconds.
func (m *GeoLatencyModel) Latency(src, dst sim.NodeID) (int64, error) {
	km, err := m.Distance(src, dst)
	if err != nil {
		return 0, err
	}
	return msToTicks(km / kmPerStep * msPerStep), nil
}
