package routing

import (
	"github.com/lintang-b-s/trafficrouter/pkg/costfunction"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
)

type CostFunction interface {
	FreeFlowWeight(s costfunction.SegmentAttributes) float64
}

type Router interface {
	ShortestPath(origin, destination string, snapshot *da.CostSnapshot) (Route, bool, error)
	ReachabilityPath(origin, destination string) (Route, bool, error)
}

// Route ordered segment ids from origin to destination, both inclusive.
// Cost is the travel time in seconds for weighted searches and the hop count for reachability searches.
type Route struct {
	Segments []string `json:"segments"`
	Cost     float64  `json:"cost"`
}
