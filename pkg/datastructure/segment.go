package datastructure

import (
	"math"
	"strings"
)

type Index uint32

const INVALID_INDEX Index = math.MaxUint32

type Point struct {
	X float64 // lon for geographic networks
	Y float64 // lat for geographic networks
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Permission is the vehicle-class filter of one lane.
// allow set → only those classes; disallow set → everything except those; neither → everything.
type Permission struct {
	allow    map[string]struct{}
	disallow map[string]struct{}
}

func NewPermission(allow, disallow []string) Permission {
	p := Permission{}
	if len(allow) > 0 {
		p.allow = make(map[string]struct{}, len(allow))
		for _, c := range allow {
			p.allow[c] = struct{}{}
		}
	}
	if len(disallow) > 0 {
		p.disallow = make(map[string]struct{}, len(disallow))
		for _, c := range disallow {
			p.disallow[c] = struct{}{}
		}
	}
	return p
}

// ParsePermission reads space separated SUMO vehicle-class lists.
func ParsePermission(allow, disallow string) Permission {
	return NewPermission(strings.Fields(allow), strings.Fields(disallow))
}

func (p Permission) Allows(class string) bool {
	if p.allow != nil {
		_, all := p.allow["all"]
		_, ok := p.allow[class]
		return all || ok
	}
	if p.disallow != nil {
		_, all := p.disallow["all"]
		_, ok := p.disallow[class]
		return !(all || ok)
	}
	return true
}

type Lane struct {
	id         string
	speed      float64 // m/s
	length     float64 // meter
	permission Permission
}

func NewLane(id string, speed, length float64, permission Permission) Lane {
	return Lane{id: id, speed: speed, length: length, permission: permission}
}

func (l Lane) GetID() string {
	return l.id
}

func (l Lane) GetSpeed() float64 {
	return l.speed
}

func (l Lane) GetLength() float64 {
	return l.length
}

func (l Lane) Allows(class string) bool {
	return l.permission.Allows(class)
}

// Segment is a directed road edge. outgoing lists the segments reachable from its downstream end.
type Segment struct {
	id       string
	from, to string
	length   float64 // meter
	speed    float64 // m/s
	priority int
	roadType string
	lanes    []Lane
	outgoing []string
	shape    []Point
}

func NewSegment(id, from, to string, length, speed float64, lanes []Lane, outgoing []string) *Segment {
	return &Segment{
		id:       id,
		from:     from,
		to:       to,
		length:   length,
		speed:    speed,
		lanes:    lanes,
		outgoing: outgoing,
	}
}

func (s *Segment) SetPriority(priority int) {
	s.priority = priority
}

func (s *Segment) SetRoadType(roadType string) {
	s.roadType = roadType
}

func (s *Segment) SetShape(shape []Point) {
	s.shape = shape
}

func (s *Segment) SetOutgoing(outgoing []string) {
	s.outgoing = outgoing
}

func (s *Segment) GetID() string {
	return s.id
}

func (s *Segment) GetFrom() string {
	return s.from
}

func (s *Segment) GetTo() string {
	return s.to
}

func (s *Segment) GetLength() float64 {
	return s.length
}

func (s *Segment) GetSpeed() float64 {
	return s.speed
}

func (s *Segment) GetPriority() int {
	return s.priority
}

func (s *Segment) GetRoadType() string {
	return s.roadType
}

func (s *Segment) GetLanes() []Lane {
	return s.lanes
}

func (s *Segment) GetOutgoing() []string {
	return s.outgoing
}

func (s *Segment) GetShape() []Point {
	return s.shape
}

// FreeFlowTravelTime in seconds.
func (s *Segment) FreeFlowTravelTime() float64 {
	return s.length / s.speed
}

// AllowsMode. a single lane that does not permit the class disallows the whole segment.
func (s *Segment) AllowsMode(class string) bool {
	if len(s.lanes) == 0 {
		return false
	}
	for _, l := range s.lanes {
		if !l.Allows(class) {
			return false
		}
	}
	return true
}
