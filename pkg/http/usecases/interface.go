package usecases

import (
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
)

type RoutingEngine interface {
	GetNetwork() *da.Network
	Query(algorithm, origin, destination string, snapshot *da.CostSnapshot) (routing.Route, bool, error)
}

// SnapshotSource hands out the most recently published cost snapshot, nil before the first one.
type SnapshotSource interface {
	LatestSnapshot() *da.CostSnapshot
}

type SpatialIndex interface {
	SearchWithinRadius(network *da.Network, x, y, radius float64) []spatialindex.NearbySegment
}
