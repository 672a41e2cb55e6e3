// Package geo estimates road distances from city positions.
package geo

import (
	"road_routing/internal/models"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// MeanEarthRadiusKm is the IUGG mean radius. orb measures on the
// equatorial radius, which overstates distances by about 0.1%.
const MeanEarthRadiusKm = 6371.0088

// Distance is the great-circle distance between a and b in kilometers.
func Distance(a, b models.Coordinate) float64 {
	if a == b {
		return 0
	}
	// orb points are (lon, lat).
	m := orbgeo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
	return m / orb.EarthRadius * MeanEarthRadiusKm
}

// Heuristic estimates remaining distance as the straight line between two
// cities. It is usually below the road distance but nothing enforces that.
type Heuristic struct {
	coords models.Coordinates
}

func NewHeuristic(coords models.Coordinates) *Heuristic {
	return &Heuristic{coords: coords}
}

// Estimate fails with a *models.MissingCoordinateError naming whichever
// node has no position.
func (h *Heuristic) Estimate(from, to string) (float64, error) {
	a, err := h.coords.Lookup(from)
	if err != nil {
		return 0, err
	}
	b, err := h.coords.Lookup(to)
	if err != nil {
		return 0, err
	}
	return Distance(a, b), nil
}
