package routing

import (
	"time"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"go.uber.org/zap"
)

// ShortestPath minimum travel time route from origin to destination using the segment costs of snapshot.
// the cost of a route is the sum of the costs of every segment entered after the origin.
// segments the snapshot does not track cost their free-flow travel time; a nil snapshot means free-flow everywhere.
// found is false when destination can not be reached through segments open to the engine's mode.
func (re *RoutingEngine) ShortestPath(origin, destination string, snapshot *da.CostSnapshot) (Route, bool, error) {
	start := time.Now()
	s, t, err := re.resolveEndpoints(origin, destination)
	if err != nil {
		observeQuery(ALGORITHM_DIJKSTRA, outcomeInvalid, start, 0)
		return Route{}, false, err
	}
	if !re.endpointsOpen(s, t) {
		observeQuery(ALGORITHM_DIJKSTRA, outcomeNoPath, start, 0)
		return Route{}, false, nil
	}
	if s == t {
		observeQuery(ALGORITHM_DIJKSTRA, outcomeFound, start, 1)
		return Route{Segments: []string{origin}, Cost: 0}, true, nil
	}

	si := re.acquireSearchInfo()
	defer re.releaseSearchInfo(si)

	cost := func(v da.Index) float64 {
		if snapshot != nil {
			if w, ok := snapshot.GetWeight(v); ok {
				return w
			}
		}
		return re.costFunction.FreeFlowWeight(re.network.GetSegmentAt(v))
	}

	found := re.graphSearch(si, s, t, newHeapFrontier(re.network.NumberOfSegments()), cost, false)
	if !found {
		re.logger.Debug("no path found", zap.String("origin", origin), zap.String("destination", destination),
			zap.Int("settled", si.numSettled))
		observeQuery(ALGORITHM_DIJKSTRA, outcomeNoPath, start, 0)
		return Route{}, false, nil
	}

	route := Route{Segments: si.path(re.network, t), Cost: si.dist[t]}
	observeQuery(ALGORITHM_DIJKSTRA, outcomeFound, start, len(route.Segments))
	return route, true, nil
}
