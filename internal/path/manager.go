package path

import (
	"fmt"

	"github.com/jacoelho/xsdpath/internal/doctree"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// Manager commits chosen segments into the document tree and retracts them
// again when a branch is refuted.
type Manager struct {
	pool *Pool
}

// NewManager creates a manager that recycles retracted nodes into pool.
func NewManager(pool *Pool) *Manager {
	return &Manager{pool: pool}
}

// Follow splices seg into the committed chain and binds each new step to the
// document tree, creating or re-entering document nodes as the directions
// dictate. It returns the new chain end.
//
// When the segment's start is already committed (the live branch point) only
// its dangling edge is materialised; otherwise the start itself is committed
// first, which happens once per document for the root step.
func (m *Manager) Follow(seg *Segment) (*Node, error) {
	start := seg.Start()
	first := start

	if start.Doc != nil {
		start.IndexOfNextState = seg.AfterStartIndex()
		if seg.AfterStart() == nil {
			return start, nil
		}
		start.Link(seg.AfterStart())
		first = seg.AfterStart()
	} else if seg.AfterStart() != nil {
		start.IndexOfNextState = seg.AfterStartIndex()
		start.Link(seg.AfterStart())
	}

	for pn := first; pn != nil; pn = pn.Next() {
		if err := m.commit(pn); err != nil {
			return nil, err
		}
	}
	return seg.End(), nil
}

func (m *Manager) commit(pn *Node) error {
	prev := pn.Prev()
	switch pn.Direction {
	case DirectionChild:
		if prev == nil {
			// document root: no parent document node
			dn := doctree.New(pn.Schema, nil)
			dn.Enter()
			pn.Doc = dn
			return nil
		}
		return m.commitChild(pn, prev)
	case DirectionSibling:
		dn := prev.Doc
		if dn == nil || dn.Schema != pn.Schema {
			return fmt.Errorf("sibling step from unbound or foreign state %s", pn.Schema.Name())
		}
		if !pn.Schema.MaxOccurs.Allows(dn.Iteration + 1) {
			return fmt.Errorf("%s repeated above maxOccurs %s", pn.Schema.Name(), pn.Schema.MaxOccurs)
		}
		dn.Enter()
		pn.Iteration = dn.Iteration
		pn.Doc = dn
		return nil
	case DirectionParent:
		if prev == nil || prev.Doc == nil || prev.Doc.Parent == nil {
			return fmt.Errorf("parent step above the document root")
		}
		pn.Doc = prev.Doc.Parent
		pn.Iteration = pn.Doc.Iteration
		return nil
	case DirectionContent:
		if prev == nil || prev.Doc == nil {
			return fmt.Errorf("content step with no committed predecessor")
		}
		pn.Doc = prev.Doc
		pn.Iteration = prev.Iteration
		return nil
	default:
		return fmt.Errorf("unknown direction %d", pn.Direction)
	}
}

func (m *Manager) commitChild(pn, prev *Node) error {
	parent := prev.Doc
	if parent == nil {
		return fmt.Errorf("child step from uncommitted state %s", prev.Schema.Name())
	}
	idx := prev.IndexOfNextState
	if idx < 0 || idx >= len(prev.Schema.Next) || prev.Schema.Next[idx] != pn.Schema {
		return fmt.Errorf("child edge %d of %s does not lead to %s",
			idx, prev.Schema.Name(), pn.Schema.Name())
	}

	child := parent.Child(prev.Iteration, idx)
	if child == nil {
		child = doctree.New(pn.Schema, parent)
		parent.SetChild(prev.Iteration, idx, child)
	}
	if !pn.Schema.MaxOccurs.Allows(child.Iteration + 1) {
		return fmt.Errorf("%s entered above maxOccurs %s", pn.Schema.Name(), pn.Schema.MaxOccurs)
	}

	if parent.Schema.Kind == statemachine.KindSequence {
		pos := parent.SequencePosition(prev.Iteration)
		if idx < pos {
			return fmt.Errorf("sequence position moved backward from %d to %d", pos, idx)
		}
		pn.DocSequencePos = pos
		parent.SetSequencePosition(prev.Iteration, idx)
	}

	child.Enter()
	pn.Iteration = child.Iteration
	pn.Doc = child
	return nil
}

// Unfollow retracts everything committed after branch, restoring document
// iterations and sequence positions, and recycles the severed nodes. A nil
// branch retracts the whole chain from head; head itself is unbound but kept,
// since sibling candidates at the root still reference it.
func (m *Manager) Unfollow(branch, head *Node) {
	var first *Node
	if branch != nil {
		first = branch.Next()
	} else {
		first = head
	}
	if first == nil {
		return
	}

	// undo in reverse commit order so nested retractions see the state
	// their step left behind; links stay intact until after the walk
	tail := first
	for tail.Next() != nil {
		tail = tail.Next()
	}
	for pn := tail; pn != nil; pn = pn.Prev() {
		m.retract(pn)
		if pn == first {
			break
		}
	}

	if branch != nil {
		branch.Truncate()
		branch.IndexOfNextState = NoNextState
	}

	if branch == nil {
		// keep the shared root node, unbound and unlinked
		rest := head.Next()
		head.Truncate()
		head.Doc = nil
		head.IndexOfNextState = NoNextState
		m.pool.RecycleChain(rest)
		return
	}
	m.pool.RecycleChain(first)
}

func (m *Manager) retract(pn *Node) {
	switch pn.Direction {
	case DirectionChild:
		dn := pn.Doc
		if dn == nil {
			return
		}
		dn.Leave()
		prev := pn.Prev()
		if prev == nil || dn.Parent == nil {
			return
		}
		if dn.Iteration == 0 {
			dn.Parent.RemoveChild(prev.Iteration, prev.IndexOfNextState)
		}
		if dn.Parent.Schema.Kind == statemachine.KindSequence {
			dn.Parent.SetSequencePosition(prev.Iteration, pn.DocSequencePos)
		}
	case DirectionSibling:
		if pn.Doc != nil {
			pn.Doc.Leave()
		}
	case DirectionParent, DirectionContent:
		// no document mutation to reverse
	}
}
