package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Network is an immutable snapshot of the road network handed to searches.
type Network struct {
	Graph       *Graph
	Coordinates Coordinates
	Cities      []City

	fingerprint uint64
}

// BuildNetwork turns stored cities and connections into a searchable
// snapshot. Stores keep both directions of every road, so the first record
// for an unordered pair wins and the rest are ignored. Records that cannot
// be added are returned as warnings.
func BuildNetwork(cities []City, connections []Connection) (*Network, []error) {
	var warnings []error

	g := NewGraph()
	coords := make(Coordinates)
	kept := make([]City, 0, len(cities))
	for _, c := range cities {
		if c.Name == "" {
			warnings = append(warnings, errors.New("city without a name ignored"))
			continue
		}
		if g.HasNode(c.Name) {
			warnings = append(warnings, fmt.Errorf("duplicate city %q ignored", c.Name))
			continue
		}
		g.AddNode(c.Name)
		kept = append(kept, c)
		if coord, ok := c.Coordinate(); ok {
			coords[c.Name] = coord
		}
	}

	for _, conn := range connections {
		if _, ok := g.Weight(conn.From, conn.To); ok {
			continue
		}
		if err := g.AddEdge(conn.From, conn.To, conn.DistanceKm); err != nil {
			warnings = append(warnings, err)
		}
	}

	n := &Network{Graph: g, Coordinates: coords, Cities: kept}
	n.fingerprint = n.computeFingerprint()
	return n, warnings
}

// Fingerprint identifies the content of the snapshot. Two snapshots with the
// same nodes, edges and coordinates share a fingerprint.
func (n *Network) Fingerprint() uint64 { return n.fingerprint }

func (n *Network) computeFingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)

	for _, name := range n.Graph.Nodes() {
		buf = buf[:0]
		buf = append(buf, 'n')
		buf = append(buf, name...)
		buf = append(buf, 0)
		if c, ok := n.Coordinates[name]; ok {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.Lat))
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.Lon))
		}
		d.Write(buf)
	}
	for _, e := range n.Graph.Edges() {
		buf = buf[:0]
		buf = append(buf, 'e')
		buf = append(buf, e.From...)
		buf = append(buf, 0)
		buf = append(buf, e.To...)
		buf = append(buf, 0)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(e.Weight))
		d.Write(buf)
	}
	return d.Sum64()
}
