package usecases

import (
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/geo"
)

func routeDistance(network *da.Network, segments []string) float64 {
	dist := 0.0
	for _, id := range segments {
		if l, ok := network.LengthOf(id); ok {
			dist += l
		}
	}
	return dist
}

// routePolyline joins the segment shapes, dropping the shared point between consecutive segments.
func routePolyline(network *da.Network, segments []string) string {
	coords := make([]geo.Coordinate, 0, 2*len(segments))
	for _, id := range segments {
		s, ok := network.GetSegment(id)
		if !ok {
			continue
		}
		for _, p := range s.GetShape() {
			c := geo.NewCoordinate(p.Y, p.X)
			if n := len(coords); n > 0 && coords[n-1] == c {
				continue
			}
			coords = append(coords, c)
		}
	}
	return geo.EncodePolyline(coords)
}
