package path

// Segment is one candidate suffix: a chain of speculative nodes from a
// branch point to a matched element or wildcard. The chain is built backward
// by Prepend as a search unwinds; the edge out of the start node stays
// dangling until the segment is chosen.
type Segment struct {
	start           *Node
	afterStart      *Node
	end             *Node
	afterStartIndex int
}

// NewSegment creates a single-node segment ending (and starting) at end.
func NewSegment(end *Node) *Segment {
	return &Segment{start: end, end: end, afterStartIndex: NoNextState}
}

// Start returns the branch-point node.
func (s *Segment) Start() *Node { return s.start }

// AfterStart returns the first node after the branch point, or nil for a
// single-node segment.
func (s *Segment) AfterStart() *Node { return s.afterStart }

// End returns the matched node.
func (s *Segment) End() *Node { return s.end }

// AfterStartIndex returns the child index of the dangling edge out of Start.
func (s *Segment) AfterStartIndex() int { return s.afterStartIndex }

// Prepend makes pn the new start of the segment. The previous start is
// cloned into the chain (sibling candidates may still share the original)
// and its formerly dangling edge is materialised on the clone; the edge out
// of pn becomes the new dangling edge, selecting child index.
func (s *Segment) Prepend(pool *Pool, pn *Node, index int) {
	clone := pool.Clone(s.start)
	clone.IndexOfNextState = s.afterStartIndex
	if s.afterStart != nil {
		clone.Link(s.afterStart)
	} else {
		s.end = clone
	}
	s.afterStart = clone
	s.afterStartIndex = index
	s.start = pn
}

// Len returns the number of nodes in the segment including the start.
func (s *Segment) Len() int {
	if s.afterStart == nil {
		return 1
	}
	n := 1
	for pn := s.afterStart; pn != nil; pn = pn.Next() {
		n++
	}
	return n
}
