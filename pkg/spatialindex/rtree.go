package spatialindex

import (
	"math"
	"sort"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const defaultMaxResults = 20

// Rtree indexes every piece of every segment shape. for geographic networks X is lon and Y is lat and
// distances are in meters; otherwise coordinates and distances are in the network's planar units.
type Rtree struct {
	tr         *rtree.RTreeG[shapePiece]
	geographic bool
	maxResults int
}

type shapePiece struct {
	segment da.Index
	a, b    da.Point
}

type NearbySegment struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
}

func NewRtree(geographic bool) *Rtree {
	var tr rtree.RTreeG[shapePiece]
	return &Rtree{
		tr:         &tr,
		geographic: geographic,
		maxResults: defaultMaxResults,
	}
}

func (rt *Rtree) SetMaxResults(n int) {
	if n > 0 {
		rt.maxResults = n
	}
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// Build inserts the shape pieces of the segments open to mode. segments without a shape are not indexed.
func (rt *Rtree) Build(network *da.Network, mode string, log *zap.Logger) {
	log.Info("Building R-tree spatial index...")
	for _, i := range network.ModeAllowedIndices(mode) {
		shape := network.GetSegmentAt(i).GetShape()
		switch len(shape) {
		case 0:
			continue
		case 1:
			rt.insert(i, shape[0], shape[0])
		default:
			for k := 0; k+1 < len(shape); k++ {
				rt.insert(i, shape[k], shape[k+1])
			}
		}
	}
	log.Info("R-tree spatial index built.", zap.Int("pieces", rt.tr.Len()))
}

func (rt *Rtree) insert(segment da.Index, a, b da.Point) {
	rt.tr.Insert([2]float64{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		[2]float64{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
		shapePiece{segment: segment, a: a, b: b})
}

// SearchWithinRadius returns the segments whose shape passes within radius of (x, y), nearest first.
func (rt *Rtree) SearchWithinRadius(network *da.Network, x, y, radius float64) []NearbySegment {
	var lower, upper [2]float64
	if rt.geographic {
		lowerLat, lowerLon := geo.GetDestinationPoint(y, x, 225, radius/1000*math.Sqrt2)
		upperLat, upperLon := geo.GetDestinationPoint(y, x, 45, radius/1000*math.Sqrt2)
		lower, upper = [2]float64{lowerLon, lowerLat}, [2]float64{upperLon, upperLat}
	} else {
		lower, upper = [2]float64{x - radius, y - radius}, [2]float64{x + radius, y + radius}
	}

	best := make(map[da.Index]float64)
	rt.tr.Search(lower, upper, func(min, max [2]float64, p shapePiece) bool {
		d := rt.distance(x, y, p)
		if d > radius {
			return true
		}
		if old, ok := best[p.segment]; !ok || d < old {
			best[p.segment] = d
		}
		return true
	})

	results := make([]NearbySegment, 0, len(best))
	for i, d := range best {
		results = append(results, NearbySegment{ID: network.GetID(i), Distance: d})
	}
	sort.Slice(results, func(a, b int) bool {
		if results[a].Distance != results[b].Distance {
			return results[a].Distance < results[b].Distance
		}
		return results[a].ID < results[b].ID
	})
	if len(results) > rt.maxResults {
		results = results[:rt.maxResults]
	}
	return results
}

func (rt *Rtree) distance(x, y float64, p shapePiece) float64 {
	if !rt.geographic {
		return geo.PointSegmentDistance(x, y, p.a.X, p.a.Y, p.b.X, p.b.Y)
	}
	q := geo.NewCoordinate(y, x)
	if p.a == p.b {
		return geo.CalculateHaversineDistance(y, x, p.a.Y, p.a.X) * 1000
	}
	return geo.PointLinePerpendicularDistance(geo.NewCoordinate(p.a.Y, p.a.X), geo.NewCoordinate(p.b.Y, p.b.X), q)
}
