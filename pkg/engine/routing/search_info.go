package routing

import (
	"github.com/lintang-b-s/trafficrouter/pkg"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
)

// searchInfo labels of one search. reused across searches through the engine's pool.
type searchInfo struct {
	dist    []float64
	parent  []da.Index
	settled []bool

	numSettled int
}

func newSearchInfo(n int) *searchInfo {
	si := &searchInfo{
		dist:    make([]float64, n),
		parent:  make([]da.Index, n),
		settled: make([]bool, n),
	}
	si.reset()
	return si
}

func (si *searchInfo) reset() {
	for i := range si.dist {
		si.dist[i] = pkg.INF_WEIGHT
		si.parent[i] = da.INVALID_INDEX
		si.settled[i] = false
	}
	si.numSettled = 0
}

// path walks the predecessor links back from t. the origin has no predecessor.
func (si *searchInfo) path(network *da.Network, t da.Index) []string {
	ids := make([]string, 0)
	for v := t; v != da.INVALID_INDEX; v = si.parent[v] {
		ids = append(ids, network.GetID(v))
	}
	return util.ReverseG(ids)
}
