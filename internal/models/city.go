package models

// City is a stored location. Coordinates are optional.
type City struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (c City) Coordinate() (Coordinate, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Latitude, Lon: *c.Longitude}, true
}

// Connection is a stored road between two cities.
type Connection struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
}
