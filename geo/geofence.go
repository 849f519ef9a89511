// Package geo holds the great-circle distance check used to admit reports
// sent from inside the building.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371e3

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the coordinate is finite and inside the lat/lon ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Geofence is a circle around a building. Reports are admitted only from inside it.
type Geofence struct {
	Center       Coordinate `json:"centro"`
	RadiusMeters float64    `json:"radio_metros"`
}

// Contains reports whether p lies within the radius. The boundary is inclusive.
func (g Geofence) Contains(p Coordinate) bool {
	return DistanceMeters(p, g.Center) <= g.RadiusMeters
}

// DistanceMeters returns the Haversine distance between a and b in meters.
// No rounding is applied.
func DistanceMeters(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*sinLon*sinLon

	// h can drift just past 1 for near-antipodal points; sqrt(1-h) would be NaN.
	h = math.Min(math.Max(h, 0), 1)

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
