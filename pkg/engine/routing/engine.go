package routing

import (
	"sync"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

// RoutingEngine answers path queries over an immutable network. it never mutates the network or the
// snapshots it is given, so one engine can serve the control loop and the http api at the same time.
type RoutingEngine struct {
	network      *da.Network
	mode         string
	costFunction CostFunction
	logger       *zap.Logger
	infoPool     sync.Pool
}

func NewRoutingEngine(network *da.Network, mode string, costFunction CostFunction, logger *zap.Logger) *RoutingEngine {
	re := &RoutingEngine{
		network:      network,
		mode:         mode,
		costFunction: costFunction,
		logger:       logger,
	}
	re.BuildBufferPool()
	return re
}

func (re *RoutingEngine) GetNetwork() *da.Network {
	return re.network
}

func (re *RoutingEngine) GetMode() string {
	return re.mode
}

func (re *RoutingEngine) BuildBufferPool() {
	n := re.network.NumberOfSegments()
	re.infoPool = sync.Pool{
		New: func() any {
			return newSearchInfo(n)
		},
	}
}

func (re *RoutingEngine) acquireSearchInfo() *searchInfo {
	si := re.infoPool.Get().(*searchInfo)
	si.reset()
	return si
}

func (re *RoutingEngine) releaseSearchInfo(si *searchInfo) {
	re.infoPool.Put(si)
}

// resolveEndpoints rejects internal segments and ids the network does not know.
func (re *RoutingEngine) resolveEndpoints(origin, destination string) (da.Index, da.Index, error) {
	s, err := re.resolve(origin)
	if err != nil {
		return da.INVALID_INDEX, da.INVALID_INDEX, err
	}
	t, err := re.resolve(destination)
	if err != nil {
		return da.INVALID_INDEX, da.INVALID_INDEX, err
	}
	return s, t, nil
}

// endpointsOpen reports whether both endpoints may be used by the engine's mode. a route must lie entirely
// in the mode-filtered subgraph, so a closed origin or destination means there is no path.
func (re *RoutingEngine) endpointsOpen(s, t da.Index) bool {
	return re.network.IsModeAllowedAt(s, re.mode) && re.network.IsModeAllowedAt(t, re.mode)
}

func (re *RoutingEngine) resolve(id string) (da.Index, error) {
	if util.IsInternalSegment(id) {
		return da.INVALID_INDEX, util.WrapErrorf(nil, util.ErrInvalidEndpoint, "segment %q is internal", id)
	}
	i, ok := re.network.IndexOf(id)
	if !ok {
		return da.INVALID_INDEX, util.WrapErrorf(nil, util.ErrInvalidEndpoint, "segment %q is not in the network", id)
	}
	return i, nil
}

// Query dispatches on algorithm name. unknown names fall back to the weighted search.
func (re *RoutingEngine) Query(algorithm, origin, destination string, snapshot *da.CostSnapshot) (Route, bool, error) {
	if algorithm == ALGORITHM_BFS {
		return re.ReachabilityPath(origin, destination)
	}
	return re.ShortestPath(origin, destination, snapshot)
}
