package geo

import (
	"github.com/twpayne/go-polyline"
)

// EncodePolyline google encoded polyline of coords (lat, lon order).
func EncodePolyline(coords []Coordinate) string {
	raw := make([][]float64, 0, len(coords))
	for _, c := range coords {
		raw = append(raw, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(raw))
}
