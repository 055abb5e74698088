package pathfinder

import "github.com/jacoelho/xsdpath/internal/path"

// decisionPoint snapshots an ambiguity: the branch node the candidates
// diverge from, the ordered alternatives not yet tried, the index of the
// start event that caused the divergence, and the stacks as they were just
// before that event.
//
// A decision point stays on the stack after its first candidate is taken;
// it is popped only once every alternative has been refuted.
type decisionPoint struct {
	branch        *path.Node // nil when the divergence is at the document root
	candidates    []*path.Segment
	next          int
	eventIndex    int
	elementStack  nameStack
	wildcardStack nameStack
}

func (dp *decisionPoint) exhausted() bool {
	return dp.next >= len(dp.candidates)
}

func (dp *decisionPoint) take() *path.Segment {
	seg := dp.candidates[dp.next]
	dp.next++
	return seg
}
