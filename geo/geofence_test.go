package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var facultad = Coordinate{Lat: -34.604425, Lon: -58.392582}

// northOf moves a coordinate d meters along its meridian.
func northOf(c Coordinate, d float64) Coordinate {
	return Coordinate{Lat: c.Lat + d/EarthRadiusMeters*180/math.Pi, Lon: c.Lon}
}

func TestDistanceToSelfIsZero(t *testing.T) {
	points := []Coordinate{
		facultad,
		{Lat: 0, Lon: 0},
		{Lat: 90, Lon: 180},
		{Lat: -89.9999, Lon: -179.9999},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p), "point %s", p)
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{facultad, {Lat: -34.611334, Lon: -58.436502}},
		{{Lat: 51.5007, Lon: -0.1246}, {Lat: 40.6892, Lon: -74.0445}},
		{{Lat: 10, Lon: 170}, {Lat: -10, Lon: -170}},
	}
	for _, p := range pairs {
		assert.InDelta(t, DistanceMeters(p[0], p[1]), DistanceMeters(p[1], p[0]), 1e-9)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Both reference buildings are roughly 4 km apart.
	d := DistanceMeters(facultad, Coordinate{Lat: -34.611334, Lon: -58.436502})
	assert.InDelta(t, 4100, d, 100)
}

func TestDistanceAntipodalIsFinite(t *testing.T) {
	d := DistanceMeters(Coordinate{Lat: 0, Lon: 0}, Coordinate{Lat: 0, Lon: 180})
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, d, 1e-3)
}

func TestGeofenceAdmission(t *testing.T) {
	fence := Geofence{Center: facultad, RadiusMeters: 150}

	assert.True(t, fence.Contains(facultad))
	assert.True(t, fence.Contains(northOf(facultad, 149)))
	assert.False(t, fence.Contains(northOf(facultad, 151)))
}

func TestGeofenceBoundaryIsInclusive(t *testing.T) {
	p := northOf(facultad, 150)
	fence := Geofence{Center: facultad, RadiusMeters: DistanceMeters(p, facultad)}

	assert.True(t, fence.Contains(p))
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, facultad.Valid())
	assert.True(t, Coordinate{Lat: 90, Lon: -180}.Valid())
	assert.False(t, Coordinate{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Coordinate{Lat: 0, Lon: 180.5}.Valid())
	assert.False(t, Coordinate{Lat: math.NaN(), Lon: 0}.Valid())
	assert.False(t, Coordinate{Lat: 0, Lon: math.Inf(1)}.Valid())
}
