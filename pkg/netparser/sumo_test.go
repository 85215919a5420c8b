package netparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumoNet = `<?xml version="1.0" encoding="UTF-8"?>
<net version="1.9" junctionCornerDetail="5">
    <location netOffset="0.00,0.00" convBoundary="0.00,0.00,200.00,100.00" origBoundary="0,0,200,100" projParameter="!"/>
    <edge id=":J1_0" function="internal">
        <lane id=":J1_0_0" index="0" speed="13.89" length="4.82" shape="100.00,-1.60 104.82,-1.60"/>
    </edge>
    <edge id="A" from="J0" to="J1" priority="9" type="highway.tertiary">
        <lane id="A_0" index="0" speed="13.89" length="100.00" shape="0.00,-1.60 100.00,-1.60"/>
    </edge>
    <edge id="B" from="J1" to="J2" priority="4">
        <lane id="B_0" index="0" speed="10.00" length="150.00" shape="100.00,-1.60 250.00,-1.60"/>
    </edge>
    <edge id="C" from="J1" to="J3" priority="4">
        <lane id="C_0" index="0" speed="8.00" length="80.00" shape="100.00,0.00 100.00,80.00"/>
        <lane id="C_1" index="1" allow="bus" speed="8.00" length="80.00" shape="101.60,0.00 101.60,80.00"/>
    </edge>
    <edge id="D" from="J2" to="J0" priority="2">
        <lane id="D_0" index="0" disallow="pedestrian" speed="5.00" length="40.00" shape="250.00,0.00 0.00,0.00"/>
    </edge>
    <junction id="J1" type="priority" x="100.00" y="0.00" incLanes="A_0" intLanes=":J1_0_0" shape="100.00,0.00"/>
    <connection from="A" to="B" fromLane="0" toLane="0" via=":J1_0_0" dir="s" state="M"/>
    <connection from="A" to="C" fromLane="0" toLane="0" dir="l" state="m"/>
    <connection from="A" to="C" fromLane="0" toLane="1" dir="l" state="m"/>
    <connection from=":J1_0" to="B" fromLane="0" toLane="0" dir="s" state="M"/>
    <connection from="B" to="D" fromLane="0" toLane="0" dir="r" state="M"/>
    <connection from="D" to="A" fromLane="0" toLane="0" dir="s" state="M"/>
</net>`

func TestParseSumo(t *testing.T) {
	n, err := ParseSumo(strings.NewReader(sumoNet))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, n.SegmentIDs())
	assert.False(t, n.Contains(":J1_0"))
	assert.False(t, n.IsGeographic())

	assert.Equal(t, []string{"B", "C"}, n.OutgoingOf("A"))
	assert.Equal(t, []string{"D"}, n.OutgoingOf("B"))
	assert.Equal(t, []string{}, n.OutgoingOf("C"))

	length, _ := n.LengthOf("B")
	speed, _ := n.FreeFlowSpeedOf("B")
	assert.Equal(t, 150.0, length)
	assert.Equal(t, 10.0, speed)

	assert.True(t, n.IsModeAllowed("A", "passenger"))
	assert.False(t, n.IsModeAllowed("C", "passenger"), "bus-only lane")
	assert.True(t, n.IsModeAllowed("D", "passenger"))
	assert.False(t, n.IsModeAllowed("D", "pedestrian"))

	a, _ := n.GetSegment("A")
	assert.Equal(t, 9, a.GetPriority())
	assert.Equal(t, "highway.tertiary", a.GetRoadType())
	require.Len(t, a.GetShape(), 2)
	assert.Equal(t, 100.0, a.GetShape()[1].X)
	assert.Equal(t, -1.6, a.GetShape()[1].Y)
}

func TestParseSumoErrors(t *testing.T) {
	testCases := []struct {
		name string
		net  string
	}{
		{
			name: "no edges",
			net:  `<net></net>`,
		},
		{
			name: "zero speed",
			net: `<net><edge id="A" from="a" to="b"><lane id="A_0" index="0" speed="0" length="10"/></edge></net>`,
		},
		{
			name: "unknown connection target",
			net: `<net><edge id="A" from="a" to="b"><lane id="A_0" index="0" speed="10" length="10"/></edge>
				<connection from="A" to="Z"/></net>`,
		},
		{
			name: "malformed xml",
			net:  `<net><edge id="A" from="a" to="b"><lane id="A_0"`,
		},
		{
			name: "bad priority",
			net:  `<net><edge id="A" from="a" to="b" priority="high"><lane id="A_0" index="0" speed="10" length="10"/></edge></net>`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSumo(strings.NewReader(tt.net))
			assert.Error(t, err)
		})
	}
}

func TestReadSumoPriorities(t *testing.T) {
	edges, err := ReadSumoPriorities(strings.NewReader(sumoNet))
	require.NoError(t, err)
	require.Len(t, edges, 5)
	assert.Equal(t, SumoEdgePriority{ID: ":J1_0", Priority: 0, Internal: true}, edges[0])
	assert.Equal(t, SumoEdgePriority{ID: "A", Priority: 9}, edges[1])
	assert.Equal(t, SumoEdgePriority{ID: "D", Priority: 2}, edges[4])
}
