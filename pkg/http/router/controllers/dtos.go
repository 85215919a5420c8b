package controllers

import (
	"github.com/lintang-b-s/trafficrouter/pkg/http/usecases"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
)

type computeRoutesRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Algorithm   string `json:"algorithm" validate:"required,oneof=dijkstra bfs"`
}

type computeRoutesResponse struct {
	Tick     int      `json:"tick"`
	Segments []string `json:"segments"`
	Cost     float64  `json:"cost"`
	Distance float64  `json:"distance"`
	Path     string   `json:"path,omitempty"`
}

func NewComputeRoutesResponse(res usecases.RouteResult) computeRoutesResponse {
	return computeRoutesResponse{
		Tick:     res.Tick,
		Segments: res.Route.Segments,
		Cost:     res.Route.Cost,
		Distance: res.Distance,
		Path:     res.Polyline,
	}
}

type snapshotResponse struct {
	Tick  int                `json:"tick"`
	Costs map[string]float64 `json:"costs"`
}

func NewSnapshotResponse(res usecases.SnapshotResult) snapshotResponse {
	return snapshotResponse{Tick: res.Tick, Costs: res.Costs}
}

type nearbySegmentsRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius" validate:"gt=0,lte=10000"`
}

type nearbySegmentsResponse struct {
	Segments []spatialindex.NearbySegment `json:"segments"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
