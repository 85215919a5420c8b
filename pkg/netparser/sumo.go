package netparser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
)

type sumoLane struct {
	ID       string  `xml:"id,attr"`
	Index    int     `xml:"index,attr"`
	Speed    float64 `xml:"speed,attr"`
	Length   float64 `xml:"length,attr"`
	Allow    string  `xml:"allow,attr"`
	Disallow string  `xml:"disallow,attr"`
	Shape    string  `xml:"shape,attr"`
}

type sumoEdge struct {
	ID       string     `xml:"id,attr"`
	From     string     `xml:"from,attr"`
	To       string     `xml:"to,attr"`
	Priority string     `xml:"priority,attr"`
	Function string     `xml:"function,attr"`
	Type     string     `xml:"type,attr"`
	Lanes    []sumoLane `xml:"lane"`
}

type sumoConnection struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

// IsInternal. intersection-internal edges carry function="internal" and a ':' prefixed id.
func (e *sumoEdge) IsInternal() bool {
	return e.Function == SUMO_FUNCTION_INTERNAL || util.IsInternalSegment(e.ID)
}

// ParseSumo builds a network from a sumo .net.xml stream. length and speed come from the first lane,
// outgoing segments from the <connection> elements in document order.
func ParseSumo(r io.Reader) (*da.Network, error) {
	edges := make([]sumoEdge, 0)
	outgoing := make(map[string][]string)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "edge":
			var e sumoEdge
			if err := dec.DecodeElement(&e, &start); err != nil {
				return nil, err
			}
			if e.IsInternal() {
				continue
			}
			edges = append(edges, e)
		case "connection":
			var c sumoConnection
			if err := dec.DecodeElement(&c, &start); err != nil {
				return nil, err
			}
			if util.IsInternalSegment(c.From) || util.IsInternalSegment(c.To) {
				continue
			}
			outgoing[c.From] = append(outgoing[c.From], c.To)
		}
	}

	if len(edges) == 0 {
		return nil, errors.New("network has no edges")
	}

	segments := make([]*da.Segment, 0, len(edges))
	for _, e := range edges {
		s, err := e.toSegment(outgoing[e.ID])
		if err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}

	return da.NewNetwork(segments, false)
}

func (e *sumoEdge) toSegment(outgoing []string) (*da.Segment, error) {
	if len(e.Lanes) == 0 {
		return nil, fmt.Errorf("edge %q has no lanes", e.ID)
	}

	lanes := make([]da.Lane, 0, len(e.Lanes))
	for _, l := range e.Lanes {
		lanes = append(lanes, da.NewLane(l.ID, l.Speed, l.Length, da.ParsePermission(l.Allow, l.Disallow)))
	}

	first := e.Lanes[0]
	s := da.NewSegment(e.ID, e.From, e.To, first.Length, first.Speed, lanes, outgoing)
	s.SetRoadType(e.Type)
	if e.Priority != "" {
		priority, err := strconv.Atoi(e.Priority)
		if err != nil {
			return nil, fmt.Errorf("edge %q has invalid priority %q", e.ID, e.Priority)
		}
		s.SetPriority(priority)
	}
	shape, err := parseShape(first.Shape)
	if err != nil {
		return nil, fmt.Errorf("edge %q: %w", e.ID, err)
	}
	s.SetShape(shape)
	return s, nil
}

// parseShape reads "x1,y1 x2,y2 ..." (an optional z is ignored).
func parseShape(shape string) ([]da.Point, error) {
	fields := strings.Fields(shape)
	points := make([]da.Point, 0, len(fields))
	for _, f := range fields {
		xyz := strings.Split(f, ",")
		if len(xyz) < 2 {
			return nil, fmt.Errorf("invalid shape point %q", f)
		}
		x, err := util.StringToFloat64(xyz[0])
		if err != nil {
			return nil, err
		}
		y, err := util.StringToFloat64(xyz[1])
		if err != nil {
			return nil, err
		}
		points = append(points, da.NewPoint(x, y))
	}
	return points, nil
}

// SumoEdgePriority is the light view of an edge used by the priority patch.
type SumoEdgePriority struct {
	ID       string
	Priority int
	Internal bool
}

// ReadSumoPriorities lists every edge of a .net.xml with its priority, internal edges included.
func ReadSumoPriorities(r io.Reader) ([]SumoEdgePriority, error) {
	res := make([]SumoEdgePriority, 0)
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "edge" {
			continue
		}
		var e sumoEdge
		if err := dec.DecodeElement(&e, &start); err != nil {
			return nil, err
		}
		priority := 0
		if e.Priority != "" {
			priority, err = strconv.Atoi(e.Priority)
			if err != nil {
				return nil, fmt.Errorf("edge %q has invalid priority %q", e.ID, e.Priority)
			}
		}
		res = append(res, SumoEdgePriority{ID: e.ID, Priority: priority, Internal: e.IsInternal()})
	}
}
