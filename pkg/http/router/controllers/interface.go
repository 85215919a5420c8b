package controllers

import (
	"github.com/lintang-b-s/trafficrouter/pkg/http/usecases"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
)

type RoutingService interface {
	ComputeRoute(origin, destination, algorithm string) (usecases.RouteResult, error)
	Snapshot() (usecases.SnapshotResult, error)
	NearbySegments(x, y, radius float64) []spatialindex.NearbySegment
}
