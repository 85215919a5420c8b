package netparser

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lintang-b-s/trafficrouter/pkg"
	da "github.com/lintang-b-s/trafficrouter/pkg/datastructure"
	"github.com/lintang-b-s/trafficrouter/pkg/geo"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

type osmWay struct {
	id       int64
	nodes    []int64
	hwTag    string
	speed    float64 // m/s
	lanes    int
	oneWay   bool
	forward  bool
	carsOpen bool
}

// OsmParser turns openstreetmap ways into sumo-like segments: each way is split at nodes shared with other
// ways, piece k becomes "<way>#<k>" and, for two-way streets, "-<way>#<k>" in the opposite direction.
type OsmParser struct {
	logger       *zap.Logger
	nodeCoords   map[int64]geo.Coordinate
	wayNodeCount map[int64]int
	ways         []osmWay
}

func NewOsmParser(logger *zap.Logger) *OsmParser {
	return &OsmParser{
		logger:       logger,
		nodeCoords:   make(map[int64]geo.Coordinate),
		wayNodeCount: make(map[int64]int),
		ways:         make([]osmWay, 0),
	}
}

func (p *OsmParser) ParseXML(ctx context.Context, r io.Reader) (*da.Network, error) {
	return p.parse(osmxml.New(ctx, r))
}

func (p *OsmParser) ParsePBF(ctx context.Context, r io.Reader) (*da.Network, error) {
	return p.parse(osmpbf.New(ctx, r, 1))
}

func (p *OsmParser) parse(scanner osmScanner) (*da.Network, error) {
	// must not be parallel
	defer scanner.Close()

	countWays := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			p.nodeCoords[int64(o.ID)] = geo.NewCoordinate(o.Lat, o.Lon)
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				p.logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
			}
			countWays++
			p.ways = append(p.ways, p.processWay(o))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.ways) == 0 {
		return nil, fmt.Errorf("no routable ways found")
	}

	for _, w := range p.ways {
		for _, n := range w.nodes {
			p.wayNodeCount[n]++
		}
	}

	segments, err := p.buildSegments()
	if err != nil {
		return nil, err
	}
	return da.NewNetwork(segments, true)
}

func acceptOsmWay(way *osm.Way) bool {
	_, ok := acceptedHighway[way.Tags.Find("highway")]
	return ok
}

func (p *OsmParser) processWay(way *osm.Way) osmWay {
	hwTag := way.Tags.Find("highway")
	hwType := pkg.GetHighwayType(hwTag)

	w := osmWay{
		id:       int64(way.ID),
		nodes:    make([]int64, 0, len(way.Nodes)),
		hwTag:    hwTag,
		speed:    parseMaxSpeed(way.Tags.Find("maxspeed")),
		lanes:    1,
		forward:  true,
		carsOpen: hwType != pkg.FOOTWAY,
	}
	for _, n := range way.Nodes {
		w.nodes = append(w.nodes, int64(n.ID))
	}
	if w.speed <= 0 {
		w.speed = pkg.DefaultHighwaySpeed(hwType)
	}
	if lanes, err := strconv.Atoi(way.Tags.Find("lanes")); err == nil && lanes > 0 {
		w.lanes = lanes
	}

	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		w.oneWay = true
	case "-1", "reverse":
		w.oneWay = true
		w.forward = false
	}
	if way.Tags.Find("junction") == "roundabout" || hwTag == "motorway" {
		w.oneWay = true
	}
	if !w.oneWay && w.lanes > 1 {
		w.lanes = (w.lanes + 1) / 2
	}

	for _, key := range passengerAccessKeys {
		if way.Tags.Find(key) == "no" {
			w.carsOpen = false
		}
	}
	return w
}

// parseMaxSpeed returns m/s, or 0 when the tag is missing or not numeric. plain numbers are km/h.
func parseMaxSpeed(tag string) float64 {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0
	}
	factor := 1.0
	switch {
	case strings.HasSuffix(tag, "mph"):
		tag = strings.TrimSuffix(tag, "mph")
		factor = 1.609344
	case strings.HasSuffix(tag, "km/h"):
		tag = strings.TrimSuffix(tag, "km/h")
	case strings.HasSuffix(tag, "knots"):
		tag = strings.TrimSuffix(tag, "knots")
		factor = 1.852
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(tag), 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v * factor / 3.6
}

func (p *OsmParser) isJunctionNode(nodeID int64) bool {
	return p.wayNodeCount[nodeID] > 1
}

type osmPiece struct {
	segment  *da.Segment
	fromNode int64
	toNode   int64
}

func (p *OsmParser) buildSegments() ([]*da.Segment, error) {
	pieces := make([]osmPiece, 0)
	startingAt := make(map[int64][]int)

	for _, w := range p.ways {
		for k, nodes := range p.splitWay(w) {
			coords := make([]geo.Coordinate, 0, len(nodes))
			for _, n := range nodes {
				c, ok := p.nodeCoords[n]
				if !ok {
					return nil, fmt.Errorf("way %d references missing node %d", w.id, n)
				}
				coords = append(coords, c)
			}
			length := geo.PolylineLength(coords)
			if length <= 0 {
				continue
			}

			id := fmt.Sprintf("%d#%d", w.id, k)
			if !w.oneWay || w.forward {
				pieces = append(pieces, p.newPiece(w, id, nodes, coords, length))
			}
			if !w.oneWay || !w.forward {
				pieces = append(pieces, p.newPiece(w, REVERSE_PREFIX+id, util.ReverseG(nodes), util.ReverseG(coords), length))
			}
		}
	}

	for i, pc := range pieces {
		startingAt[pc.fromNode] = append(startingAt[pc.fromNode], i)
	}

	segments := make([]*da.Segment, 0, len(pieces))
	for _, pc := range pieces {
		twin := reverseTwin(pc.segment.GetID())
		outgoing := make([]string, 0)
		for _, j := range startingAt[pc.toNode] {
			next := pieces[j].segment.GetID()
			if next == twin {
				continue
			}
			outgoing = append(outgoing, next)
		}
		pc.segment.SetOutgoing(outgoing)
		segments = append(segments, pc.segment)
	}
	return segments, nil
}

func (p *OsmParser) newPiece(w osmWay, id string, nodes []int64, coords []geo.Coordinate, length float64) osmPiece {
	permission := da.NewPermission(nil, nil)
	if !w.carsOpen {
		permission = da.NewPermission(nonMotorClasses, nil)
	}
	lanes := make([]da.Lane, 0, w.lanes)
	for l := 0; l < w.lanes; l++ {
		lanes = append(lanes, da.NewLane(fmt.Sprintf("%s_%d", id, l), w.speed, length, permission))
	}

	from, to := nodes[0], nodes[len(nodes)-1]
	s := da.NewSegment(id, strconv.FormatInt(from, 10), strconv.FormatInt(to, 10), length, w.speed, lanes, nil)
	s.SetRoadType("highway." + w.hwTag)
	s.SetPriority(pkg.HighwayPriority(pkg.GetHighwayType(w.hwTag)))
	shape := make([]da.Point, 0, len(coords))
	for _, c := range coords {
		shape = append(shape, da.NewPoint(c.Lon, c.Lat))
	}
	s.SetShape(shape)
	return osmPiece{segment: s, fromNode: from, toNode: to}
}

// splitWay cuts the way at every interior node shared with another way (or visited twice by this one).
func (p *OsmParser) splitWay(w osmWay) [][]int64 {
	pieces := make([][]int64, 0, 1)
	current := []int64{w.nodes[0]}
	for i := 1; i < len(w.nodes); i++ {
		n := w.nodes[i]
		if n == current[len(current)-1] {
			continue
		}
		current = append(current, n)
		if i < len(w.nodes)-1 && p.isJunctionNode(n) {
			pieces = append(pieces, current)
			current = []int64{n}
		}
	}
	if len(current) > 1 {
		pieces = append(pieces, current)
	}
	return pieces
}

func reverseTwin(id string) string {
	if strings.HasPrefix(id, REVERSE_PREFIX) {
		return strings.TrimPrefix(id, REVERSE_PREFIX)
	}
	return REVERSE_PREFIX + id
}
