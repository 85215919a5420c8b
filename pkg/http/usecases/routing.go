package usecases

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/engine/routing"
	"github.com/lintang-b-s/trafficrouter/pkg/spatialindex"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrPathNotFound = errors.New("no path found")
	ErrNoSnapshot   = errors.New("no cost snapshot published yet")
)

type routeCacheKey struct {
	tick        int
	origin      string
	destination string
	algorithm   string
}

type RouteResult struct {
	Tick     int
	Route    routing.Route
	Distance float64 // meters, sum of segment lengths
	Polyline string  // encoded geometry, empty for non geographic networks
}

type SnapshotResult struct {
	Tick  int
	Costs map[string]float64
}

// RoutingService answers read-only queries against the published snapshots. it never touches the estimator.
type RoutingService struct {
	log          *zap.Logger
	engine       RoutingEngine
	snapshots    SnapshotSource
	spatialIndex SpatialIndex
	cache        *lru.Cache[routeCacheKey, RouteResult]
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, snapshots SnapshotSource, spatialIndex SpatialIndex,
	cacheSize int) (*RoutingService, error) {
	if cacheSize <= 0 {
		cacheSize = 1 << 12
	}
	cache, err := lru.New[routeCacheKey, RouteResult](cacheSize)
	if err != nil {
		return nil, err
	}
	return &RoutingService{
		log:          log,
		engine:       engine,
		snapshots:    snapshots,
		spatialIndex: spatialIndex,
		cache:        cache,
	}, nil
}

func (rs *RoutingService) latest() (*da.CostSnapshot, error) {
	snapshot := rs.snapshots.LatestSnapshot()
	if snapshot == nil {
		return nil, util.WrapErrorf(ErrNoSnapshot, util.ErrNotFound, "snapshot unavailable")
	}
	return snapshot, nil
}

func (rs *RoutingService) ComputeRoute(origin, destination, algorithm string) (RouteResult, error) {
	snapshot, err := rs.latest()
	if err != nil {
		return RouteResult{}, err
	}

	key := routeCacheKey{tick: snapshot.GetTick(), origin: origin, destination: destination, algorithm: algorithm}
	if res, ok := rs.cache.Get(key); ok {
		return res, nil
	}

	route, found, err := rs.engine.Query(algorithm, origin, destination, snapshot)
	if err != nil {
		if errors.Is(err, util.ErrInvalidEndpoint) {
			return RouteResult{}, util.WrapErrorf(err, util.ErrBadParamInput, "invalid endpoint")
		}
		return RouteResult{}, util.WrapErrorf(err, util.ErrInternalServerError, "route query failed")
	}
	if !found {
		return RouteResult{}, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "no path found from %s to %s",
			origin, destination)
	}

	network := rs.engine.GetNetwork()
	res := RouteResult{
		Tick:     snapshot.GetTick(),
		Route:    route,
		Distance: routeDistance(network, route.Segments),
	}
	if network.IsGeographic() {
		res.Polyline = routePolyline(network, route.Segments)
	}
	rs.cache.Add(key, res)
	return res, nil
}

func (rs *RoutingService) Snapshot() (SnapshotResult, error) {
	snapshot, err := rs.latest()
	if err != nil {
		return SnapshotResult{}, err
	}
	return SnapshotResult{Tick: snapshot.GetTick(), Costs: snapshot.AsMap()}, nil
}

func (rs *RoutingService) NearbySegments(x, y, radius float64) []spatialindex.NearbySegment {
	return rs.spatialIndex.SearchWithinRadius(rs.engine.GetNetwork(), x, y, radius)
}
