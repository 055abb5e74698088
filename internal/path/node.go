package path

import (
	"github.com/jacoelho/xsdpath/internal/doctree"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// NoNextState marks a node whose outgoing edge selects no child state.
const NoNextState = -1

// Node is one step of a (possibly speculative) traversal. Nodes form a
// doubly linked chain; Doc is bound when the step is committed.
type Node struct {
	Schema    *statemachine.Node
	Direction Direction
	Iteration int
	Doc       *doctree.Node

	// DocSequencePos preserves the parent's sequence progress from before
	// this step was committed, for rollback.
	DocSequencePos int

	// IndexOfNextState selects which child of Schema the outgoing edge
	// follows; NoNextState for sibling, parent, and content edges.
	IndexOfNextState int

	prev, next *Node
}

// Prev returns the preceding node in the chain.
func (n *Node) Prev() *Node { return n.prev }

// Next returns the following node in the chain.
func (n *Node) Next() *Node { return n.next }

// Link attaches next after n.
func (n *Node) Link(next *Node) {
	n.next = next
	if next != nil {
		next.prev = n
	}
}

// Truncate severs the chain after n.
func (n *Node) Truncate() {
	if n.next != nil {
		n.next.prev = nil
	}
	n.next = nil
}

// DocIteration returns the committed iteration of the bound document node,
// or zero while the step is speculative.
func (n *Node) DocIteration() int {
	if n.Doc == nil {
		return 0
	}
	return n.Doc.Iteration
}

// IsFresh reports whether the node represents a repetition not yet committed.
func (n *Node) IsFresh() bool {
	return n.Iteration > n.DocIteration()
}
