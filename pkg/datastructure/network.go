package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"github.com/samber/lo"
)

// Network is the routable road graph. It is immutable once built and safe for concurrent readers.
// Every segment gets a dense Index so searches can work on slices instead of maps.
type Network struct {
	segments   []*Segment
	index      map[string]Index
	outgoing   [][]Index
	geographic bool
}

// NewNetwork drops internal segments and references to them. Duplicate ids, non-positive
// length/speed, segments without lanes and outgoing references to unknown segments are rejected.
// the network keeps its own copy of every segment; the caller's segments are left untouched.
func NewNetwork(segments []*Segment, geographic bool) (*Network, error) {
	routable := lo.FilterMap(segments, func(s *Segment, _ int) (*Segment, bool) {
		if util.IsInternalSegment(s.id) {
			return nil, false
		}
		cp := *s
		return &cp, true
	})

	n := &Network{
		segments:   routable,
		index:      make(map[string]Index, len(routable)),
		outgoing:   make([][]Index, len(routable)),
		geographic: geographic,
	}

	for i, s := range routable {
		if _, dup := n.index[s.id]; dup {
			return nil, fmt.Errorf("duplicate segment id %q", s.id)
		}
		if s.speed <= 0 {
			return nil, fmt.Errorf("segment %q has non-positive speed limit %v", s.id, s.speed)
		}
		if s.length <= 0 {
			return nil, fmt.Errorf("segment %q has non-positive length %v", s.id, s.length)
		}
		if len(s.lanes) == 0 {
			return nil, fmt.Errorf("segment %q has no lanes", s.id)
		}
		n.index[s.id] = Index(i)
	}

	for i, s := range routable {
		outs := make([]Index, 0, len(s.outgoing))
		ids := make([]string, 0, len(s.outgoing))
		seen := make(map[Index]struct{}, len(s.outgoing))
		for _, o := range s.outgoing {
			if util.IsInternalSegment(o) {
				continue
			}
			v, ok := n.index[o]
			if !ok {
				return nil, fmt.Errorf("segment %q references unknown outgoing segment %q", s.id, o)
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			outs = append(outs, v)
			ids = append(ids, o)
		}
		s.outgoing = ids
		n.outgoing[i] = outs
	}

	return n, nil
}

func (n *Network) NumberOfSegments() int {
	return len(n.segments)
}

func (n *Network) IsGeographic() bool {
	return n.geographic
}

func (n *Network) IndexOf(id string) (Index, bool) {
	i, ok := n.index[id]
	return i, ok
}

func (n *Network) GetSegmentAt(i Index) *Segment {
	return n.segments[i]
}

func (n *Network) GetSegment(id string) (*Segment, bool) {
	i, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return n.segments[i], true
}

func (n *Network) GetID(i Index) string {
	return n.segments[i].id
}

// Contains reports whether id is a routable (non-internal) segment of the network.
func (n *Network) Contains(id string) bool {
	_, ok := n.index[id]
	return ok
}

// OutgoingOf returns the downstream segment ids in load order; empty for unknown ids.
func (n *Network) OutgoingOf(id string) []string {
	s, ok := n.GetSegment(id)
	if !ok {
		return []string{}
	}
	return s.outgoing
}

func (n *Network) IsModeAllowed(id string, mode string) bool {
	s, ok := n.GetSegment(id)
	if !ok {
		return false
	}
	return s.AllowsMode(mode)
}

func (n *Network) IsModeAllowedAt(i Index, mode string) bool {
	return n.segments[i].AllowsMode(mode)
}

func (n *Network) LengthOf(id string) (float64, bool) {
	s, ok := n.GetSegment(id)
	if !ok {
		return 0, false
	}
	return s.length, true
}

func (n *Network) FreeFlowSpeedOf(id string) (float64, bool) {
	s, ok := n.GetSegment(id)
	if !ok {
		return 0, false
	}
	return s.speed, true
}

// ForAllowedOutgoing is the capability-checked adjacency iterator shared by every traversal.
func (n *Network) ForAllowedOutgoing(u Index, mode string, handle func(v Index)) {
	for _, v := range n.outgoing[u] {
		if !n.segments[v].AllowsMode(mode) {
			continue
		}
		handle(v)
	}
}

func (n *Network) ForSegments(handle func(i Index, s *Segment)) {
	for i, s := range n.segments {
		handle(Index(i), s)
	}
}

func (n *Network) SegmentIDs() []string {
	return lo.Map(n.segments, func(s *Segment, _ int) string { return s.id })
}

// ModeAllowedIndices returns the segments open to mode in index order.
func (n *Network) ModeAllowedIndices(mode string) []Index {
	res := make([]Index, 0, len(n.segments))
	for i, s := range n.segments {
		if s.AllowsMode(mode) {
			res = append(res, Index(i))
		}
	}
	return res
}

func (n *Network) ModeAllowedIDs(mode string) []string {
	return lo.Map(n.ModeAllowedIndices(mode), func(i Index, _ int) string { return n.segments[i].id })
}
