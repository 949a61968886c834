package latency

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protosim/protosim/sim"
)

// equatorPoint returns a point on the equator km kilometers east of (0, 0).
func equatorPoint(km float64) Location {
	return Location{Latitude: 0, Longitude: km / EarthRadiusKm * 180 / math.Pi}
}

func TestGeoLatencyModel_SameLocation_ZeroLatency(t *testing.T) {
	paris := Location{Latitude: 48.8566, Longitude: 2.3522, City: "Paris", Country: "FR"}
	m, err := NewGeoLatencyModelWithLocations(map[sim.NodeID]Location{0: paris, 1: paris})
	require.NoError(t, err)

	d, err := m.Latency(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), d)
}

func TestGeoLatencyModel_200Km_IsOneAndAHalfMilliseconds(t *testing.T) {
	// GIVEN two nodes 200 km apart along the equator
	m, err := NewGeoLatencyModelWithLocations(map[sim.NodeID]Location{
		0: equatorPoint(0),
		1: equatorPoint(200),
	})
	require.NoError(t, err)

	km, err := m.Distance(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, km, 1e-6)

	// WHEN computing latency in both directions
	d01, err := m.Latency(0, 1)
	require.NoError(t, err)
	d10, err := m.Latency(1, 0)
	require.NoError(t, err)

	// THEN it is exactly 1.5 ms
	assert.Equal(t, int64(1500), d01)
	assert.Equal(t, int64(3*sim.Millisecond/2), d10)
}

func TestGreatCircleDistance_KnownCities(t *testing.T) {
	london := Location{Latitude: 51.5074, Longitude: -0.1278}
	paris := Location{Latitude: 48.8566, Longitude: 2.3522}

	// ~343.5 km on a sphere
	assert.InDelta(t, 343.5, GreatCircleDistance(london, paris), 1.0)
	assert.InDelta(t, GreatCircleDistance(london, paris), GreatCircleDistance(paris, london), 1e-9)
}

func TestGeoLatencyModel_UnknownNode(t *testing.T) {
	m, err := NewGeoLatencyModelWithLocations(map[sim.NodeID]Location{0: equatorPoint(0)})
	require.NoError(t, err)

	_, err = m.Latency(0, 5)
	assert.ErrorIs(t, err, sim.ErrUnknownNode)
	_, err = m.Location(5)
	assert.ErrorIs(t, err, sim.ErrUnknownNode)
}

func TestNewGeoLatencyModel_EmptyPopulation(t *testing.T) {
	_, err := NewGeoLatencyModel([]sim.NodeID{0, 1}, nil, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestNewGeoLatencyModel_InvalidPopulationRecord(t *testing.T) {
	_, err := NewGeoLatencyModel([]sim.NodeID{0}, []Location{{Latitude: 95}}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestNewGeoLatencyModel_SamplesFromPopulationOnce(t *testing.T) {
	// GIVEN a population of three cities
	population := []Location{
		{Latitude: 1, Longitude: 1, City: "A", Country: "X"},
		{Latitude: 2, Longitude: 2, City: "B", Country: "X"},
		{Latitude: 3, Longitude: 3, City: "C", Country: "X"},
	}
	group := []sim.NodeID{0, 1, 2, 3, 4, 5, 6, 7}

	m, err := NewGeoLatencyModel(group, population, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	// THEN every node is placed in the population and placement is stable
	for _, id := range group {
		loc, err := m.Location(id)
		require.NoError(t, err)
		assert.Contains(t, population, loc)

		again, err := m.Location(id)
		require.NoError(t, err)
		assert.Equal(t, loc, again)
	}
	d1, _ := m.Latency(0, 7)
	d2, _ := m.Latency(0, 7)
	assert.Equal(t, d1, d2, "locations must not be re-sampled per call")

	// AND the same seed reproduces the placement
	m2, err := NewGeoLatencyModel(group, population, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	for _, id := range group {
		a, _ := m.Location(id)
		b, _ := m2.Location(id)
		assert.Equal(t, a, b)
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "Paris, FR", Location{City: "Paris", Country: "FR"}.String())
	assert.Equal(t, "(1.0000, 2.0000)", Location{Latitude: 1, Longitude: 2}.String())
}
