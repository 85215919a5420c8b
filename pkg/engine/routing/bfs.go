package routing

import (
	"time"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
)

func unitCost(da.Index) float64 {
	return 1
}

// ReachabilityPath fewest-segments route, expanded breadth first. stops as soon as destination is discovered.
func (re *RoutingEngine) ReachabilityPath(origin, destination string) (Route, bool, error) {
	start := time.Now()
	s, t, err := re.resolveEndpoints(origin, destination)
	if err != nil {
		observeQuery(ALGORITHM_BFS, outcomeInvalid, start, 0)
		return Route{}, false, err
	}
	if !re.endpointsOpen(s, t) {
		observeQuery(ALGORITHM_BFS, outcomeNoPath, start, 0)
		return Route{}, false, nil
	}
	if s == t {
		observeQuery(ALGORITHM_BFS, outcomeFound, start, 1)
		return Route{Segments: []string{origin}, Cost: 0}, true, nil
	}

	si := re.acquireSearchInfo()
	defer re.releaseSearchInfo(si)

	if !re.graphSearch(si, s, t, newFifoFrontier(64), unitCost, true) {
		observeQuery(ALGORITHM_BFS, outcomeNoPath, start, 0)
		return Route{}, false, nil
	}

	route := Route{Segments: si.path(re.network, t), Cost: si.dist[t]}
	observeQuery(ALGORITHM_BFS, outcomeFound, start, len(route.Segments))
	return route, true, nil
}

// Reachable reports whether destination can be reached from origin at all.
func (re *RoutingEngine) Reachable(origin, destination string) (bool, error) {
	_, found, err := re.ReachabilityPath(origin, destination)
	return found, err
}
