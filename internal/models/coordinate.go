package models

import (
	"errors"
	"fmt"
)

var ErrMissingCoordinate = errors.New("missing coordinates")

// MissingCoordinateError names the node whose position is unknown. It
// matches ErrMissingCoordinate.
type MissingCoordinateError struct {
	Node string
}

func (e *MissingCoordinateError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingCoordinate, e.Node)
}

func (e *MissingCoordinateError) Is(target error) bool { return target == ErrMissingCoordinate }

// Coordinate is a WGS 84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinates maps a node to its position. Not every node needs one.
type Coordinates map[string]Coordinate

func (c Coordinates) Lookup(node string) (Coordinate, error) {
	coord, ok := c[node]
	if !ok {
		return Coordinate{}, &MissingCoordinateError{Node: node}
	}
	return coord, nil
}
