package spatialindex

import (
	"testing"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func shapedSegment(id string, outgoing []string, allow string, shape ...da.Point) *da.Segment {
	lanes := []da.Lane{da.NewLane(id+"_0", 10, 100, da.ParsePermission(allow, ""))}
	s := da.NewSegment(id, id+"_from", id+"_to", 100, 10, lanes, outgoing)
	s.SetShape(shape)
	return s
}

func TestSearchWithinRadiusPlanar(t *testing.T) {
	n, err := da.NewNetwork([]*da.Segment{
		shapedSegment("east", []string{"north"}, "", da.NewPoint(0, 0), da.NewPoint(100, 0)),
		shapedSegment("north", nil, "", da.NewPoint(100, 0), da.NewPoint(100, 50), da.NewPoint(100, 100)),
		shapedSegment("busway", nil, "bus", da.NewPoint(0, 5), da.NewPoint(100, 5)),
		shapedSegment("noshape", nil, ""),
	}, false)
	require.NoError(t, err)

	rt := NewRtree(false)
	rt.Build(n, "passenger", zap.NewNop())
	assert.Equal(t, 3, rt.Len())

	testCases := []struct {
		name   string
		x, y   float64
		radius float64
		want   []NearbySegment
	}{
		{
			name: "single segment", x: 50, y: 10, radius: 15,
			want: []NearbySegment{{ID: "east", Distance: 10}},
		},
		{
			name: "corner, ties by id", x: 97, y: 3, radius: 10,
			want: []NearbySegment{{ID: "east", Distance: 3}, {ID: "north", Distance: 3}},
		},
		{
			name: "nothing close", x: 50, y: 60, radius: 5,
			want: []NearbySegment{},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := rt.SearchWithinRadius(n, tt.x, tt.y, tt.radius)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].ID, got[i].ID)
				assert.InDelta(t, tt.want[i].Distance, got[i].Distance, 1e-9)
			}
		})
	}
}

func TestSearchWithinRadiusGeographic(t *testing.T) {
	// ~111m per 0.001 degree of latitude
	n, err := da.NewNetwork([]*da.Segment{
		shapedSegment("w1#0", nil, "", da.NewPoint(110.0, -7.0), da.NewPoint(110.0, -7.01)),
		shapedSegment("w2#0", nil, "", da.NewPoint(110.01, -7.0), da.NewPoint(110.01, -7.01)),
	}, true)
	require.NoError(t, err)

	rt := NewRtree(true)
	rt.Build(n, "passenger", zap.NewNop())

	got := rt.SearchWithinRadius(n, 110.0005, -7.005, 100)
	require.Len(t, got, 1)
	assert.Equal(t, "w1#0", got[0].ID)
	assert.InDelta(t, 55.2, got[0].Distance, 1.0)

	rt.SetMaxResults(1)
	got = rt.SearchWithinRadius(n, 110.005, -7.005, 5000)
	assert.Len(t, got, 1)
}
