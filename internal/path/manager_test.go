package path

import (
	"testing"

	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// buildSegment links a hand-made chain into a segment rooted at start with
// the given dangling edge, mirroring what a search produces.
func buildSegment(start *Node, index int, rest ...*Node) *Segment {
	seg := &Segment{start: start, afterStartIndex: index}
	if len(rest) == 0 {
		seg.end = start
		return seg
	}
	seg.afterStart = rest[0]
	prev := rest[0]
	for _, pn := range rest[1:] {
		prev.Link(pn)
		prev = pn
	}
	seg.end = prev
	return seg
}

func TestFollowBootstrapCommitsRoot(t *testing.T) {
	pool := NewPool()
	mgr := NewManager(pool)

	root := elem("root", 1, 1)
	rootPN := pool.Get(root, DirectionChild, 1)

	cur, err := mgr.Follow(buildSegment(rootPN, NoNextState))
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if cur != rootPN {
		t.Fatal("current is not the root node")
	}
	if rootPN.Doc == nil || rootPN.Doc.Iteration != 1 {
		t.Fatal("root document node not committed")
	}
	if rootPN.Doc.Parent != nil {
		t.Fatal("root document node has a parent")
	}
}

func TestFollowAndUnfollowChildChain(t *testing.T) {
	pool := NewPool()
	mgr := NewManager(pool)

	a := elem("a", 1, 2)
	seq := statemachine.NewGroup(statemachine.KindSequence, 1, 1, a)
	root := statemachine.NewElement(
		statemachine.ElementDecl{Name: qn("root")}, 1, 1, seq)

	rootPN := pool.Get(root, DirectionChild, 1)
	if _, err := mgr.Follow(buildSegment(rootPN, NoNextState)); err != nil {
		t.Fatalf("Follow root: %v", err)
	}

	seqPN := pool.Get(seq, DirectionChild, 1)
	aPN := pool.Get(a, DirectionChild, 1)
	seqPN.IndexOfNextState = 0
	cur, err := mgr.Follow(buildSegment(rootPN, 0, seqPN, aPN))
	if err != nil {
		t.Fatalf("Follow chain: %v", err)
	}
	if cur != aPN {
		t.Fatal("current is not the chain end")
	}

	seqDN := rootPN.Doc.Child(1, 0)
	if seqDN == nil || seqDN.Iteration != 1 {
		t.Fatal("sequence document node not committed")
	}
	if seqDN.ChildIteration(1, 0) != 1 {
		t.Fatal("element document node not committed")
	}
	if seqDN.SequencePosition(1) != 0 {
		t.Fatal("sequence position not at entered child")
	}
	if aPN.Doc.Schema != a {
		t.Fatal("path node bound to wrong document node")
	}

	// a sibling step re-enters the element
	sibPN := pool.Get(a, DirectionSibling, 2)
	if _, err := mgr.Follow(buildSegment(aPN, NoNextState, sibPN)); err != nil {
		t.Fatalf("Follow sibling: %v", err)
	}
	if aPN.Doc.Iteration != 2 {
		t.Fatalf("element iteration = %d, want 2", aPN.Doc.Iteration)
	}

	// retract back to the root
	mgr.Unfollow(rootPN, rootPN)
	if rootPN.Next() != nil {
		t.Fatal("chain not truncated")
	}
	if rootPN.Doc.Child(1, 0) != nil {
		t.Fatal("retracted child still recorded")
	}
	if seqDN.Iteration != 0 {
		t.Fatalf("sequence iteration = %d, want 0", seqDN.Iteration)
	}
}

func TestFollowSiblingAboveMaxFails(t *testing.T) {
	pool := NewPool()
	mgr := NewManager(pool)

	a := elem("a", 1, 1)
	aPN := pool.Get(a, DirectionChild, 1)
	if _, err := mgr.Follow(buildSegment(aPN, NoNextState)); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	sib := pool.Get(a, DirectionSibling, 2)
	if _, err := mgr.Follow(buildSegment(aPN, NoNextState, sib)); err == nil {
		t.Fatal("sibling above maxOccurs committed")
	}
}

func TestUnfollowNilBranchKeepsHead(t *testing.T) {
	pool := NewPool()
	mgr := NewManager(pool)

	seq := statemachine.NewGroup(statemachine.KindSequence, 1, 1, elem("a", 1, 1))
	root := statemachine.NewElement(
		statemachine.ElementDecl{Name: qn("root")}, 1, 1, seq)

	rootPN := pool.Get(root, DirectionChild, 1)
	seqPN := pool.Get(seq, DirectionChild, 1)
	if _, err := mgr.Follow(buildSegment(rootPN, 0, seqPN)); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	mgr.Unfollow(nil, rootPN)
	if rootPN.Doc != nil {
		t.Fatal("head still bound after full retraction")
	}
	if rootPN.Next() != nil {
		t.Fatal("head still linked after full retraction")
	}
	if rootPN.IndexOfNextState != NoNextState {
		t.Fatal("head edge not reset")
	}
}

func TestFollowSequencePositionRollback(t *testing.T) {
	pool := NewPool()
	mgr := NewManager(pool)

	a := elem("a", 0, 1)
	b := elem("b", 0, 1)
	seq := statemachine.NewGroup(statemachine.KindSequence, 1, 1, a, b)
	root := statemachine.NewElement(
		statemachine.ElementDecl{Name: qn("root")}, 1, 1, seq)

	rootPN := pool.Get(root, DirectionChild, 1)
	seqPN := pool.Get(seq, DirectionChild, 1)
	if _, err := mgr.Follow(buildSegment(rootPN, 0, seqPN)); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	bPN := pool.Get(b, DirectionChild, 1)
	if _, err := mgr.Follow(buildSegment(seqPN, 1, bPN)); err != nil {
		t.Fatalf("Follow b: %v", err)
	}
	if seqPN.Doc.SequencePosition(1) != 1 {
		t.Fatal("sequence position did not advance")
	}

	mgr.Unfollow(seqPN, rootPN)
	if seqPN.Doc.SequencePosition(1) != 0 {
		t.Fatal("sequence position not restored")
	}
}
