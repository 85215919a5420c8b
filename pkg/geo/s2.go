package geo

import (
	"github.com/golang/geo/s2"
)

func toS2Point(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// PolylineLength great-circle length of coords in meter.
func PolylineLength(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}
	latlngs := make([]s2.LatLng, 0, len(coords))
	for _, c := range coords {
		latlngs = append(latlngs, s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	return s2.PolylineFromLatLngs(latlngs).Length().Radians() * earthRadiusKM * 1000
}

func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate,
	snap Coordinate) Coordinate {
	projection := s2.Project(toS2Point(snap), toS2Point(pointA), toS2Point(pointB))
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// return in meter
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate,
	snap Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(pointA, pointB, snap)

	dist := CalculateHaversineDistance(snap.GetLat(), snap.GetLon(), projectionPoint.GetLat(), projectionPoint.GetLon())

	return dist * 1000
}
