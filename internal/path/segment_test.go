package path

import (
	"testing"

	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

func TestSegmentPrepend(t *testing.T) {
	pool := NewPool()
	a := elem("a", 1, 1)
	choice := statemachine.NewGroup(statemachine.KindChoice, 1, 1, a)
	seq := statemachine.NewGroup(statemachine.KindSequence, 1, 1, choice)

	leaf := pool.Get(a, DirectionChild, 1)
	seg := NewSegment(leaf)
	if seg.Len() != 1 || seg.Start() != leaf || seg.End() != leaf {
		t.Fatal("single-node segment malformed")
	}

	choicePN := pool.Get(choice, DirectionChild, 1)
	seg.Prepend(pool, choicePN, 0)

	if seg.Start() != choicePN {
		t.Fatal("start not replaced by prepended node")
	}
	if seg.AfterStartIndex() != 0 {
		t.Fatalf("afterStartIndex = %d, want 0", seg.AfterStartIndex())
	}
	if seg.End() == leaf {
		t.Fatal("end still references the shared original leaf")
	}
	if seg.End().Schema != a {
		t.Fatal("cloned end lost its schema")
	}
	if seg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", seg.Len())
	}

	seqPN := pool.Get(seq, DirectionChild, 1)
	seg.Prepend(pool, seqPN, 0)

	if seg.Len() != 3 {
		t.Fatalf("Len = %d, want 3", seg.Len())
	}
	// the interior clone of choicePN carries the previously dangling edge
	if seg.AfterStart().Schema != choice {
		t.Fatal("afterStart is not the choice step")
	}
	if seg.AfterStart().IndexOfNextState != 0 {
		t.Fatalf("materialised edge = %d, want 0", seg.AfterStart().IndexOfNextState)
	}
	// the shared node stays untouched for sibling candidates
	if choicePN.IndexOfNextState != NoNextState {
		t.Fatal("shared original was mutated by prepend")
	}
	if seg.AfterStart().Next() != seg.End() {
		t.Fatal("interior chain not linked")
	}
}

func TestSegmentSharedStartAcrossCandidates(t *testing.T) {
	pool := NewPool()
	a := elem("a", 1, 1)
	b := elem("b", 1, 1)
	choice := statemachine.NewGroup(statemachine.KindChoice, 1, 1, a, b)

	choicePN := pool.Get(choice, DirectionChild, 1)
	segA := NewSegment(pool.Get(a, DirectionChild, 1))
	segB := NewSegment(pool.Get(b, DirectionChild, 1))

	segA.Prepend(pool, choicePN, 0)
	segB.Prepend(pool, choicePN, 1)

	if segA.Start() != choicePN || segB.Start() != choicePN {
		t.Fatal("candidates do not share the branch node")
	}
	if segA.AfterStartIndex() != 0 || segB.AfterStartIndex() != 1 {
		t.Fatal("per-candidate dangling edges interfere")
	}
	if segA.End().Schema.Element.Name != (model.QName{Local: "a"}) {
		t.Fatal("segment A lost its match")
	}
	if segB.End().Schema.Element.Name != (model.QName{Local: "b"}) {
		t.Fatal("segment B lost its match")
	}
}

func TestPoolRecycleReuses(t *testing.T) {
	pool := NewPool()
	a := elem("a", 1, 1)

	n1 := pool.Get(a, DirectionChild, 1)
	n1.IndexOfNextState = 3
	pool.Recycle(n1)

	n2 := pool.Get(a, DirectionSibling, 2)
	if n2 != n1 {
		t.Fatal("pool did not reuse the recycled node")
	}
	if n2.IndexOfNextState != NoNextState {
		t.Fatal("recycled node not reset")
	}
	if n2.Direction != DirectionSibling || n2.Iteration != 2 {
		t.Fatal("recycled node not reinitialised")
	}
}
