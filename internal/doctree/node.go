// Package doctree records committed occurrences of state-machine positions.
// One node exists per schema position actually instantiated by the document;
// children and sequence progress are kept per repetition so a re-entered
// group starts from an empty state.
package doctree

import "github.com/jacoelho/xsdpath/internal/statemachine"

// Node is one committed occurrence of a state-machine position.
type Node struct {
	Schema          *statemachine.Node
	Parent          *Node
	Iteration       int
	ReceivedContent bool

	// children[i] and seqPos[i] belong to repetition i+1.
	children []map[int]*Node
	seqPos   []int
}

// New creates an unentered node for schema under parent.
func New(schema *statemachine.Node, parent *Node) *Node {
	return &Node{Schema: schema, Parent: parent}
}

// Enter starts the next repetition of this position.
func (n *Node) Enter() {
	n.Iteration++
	n.children = append(n.children, nil)
	n.seqPos = append(n.seqPos, 0)
}

// Leave retracts the latest repetition.
func (n *Node) Leave() {
	if n.Iteration == 0 {
		return
	}
	n.Iteration--
	n.children = n.children[:n.Iteration]
	n.seqPos = n.seqPos[:n.Iteration]
}

// Child returns the child at index for the given repetition, or nil.
func (n *Node) Child(iteration, index int) *Node {
	if iteration < 1 || iteration > len(n.children) {
		return nil
	}
	return n.children[iteration-1][index]
}

// SetChild records the child at index for the given repetition.
func (n *Node) SetChild(iteration, index int, child *Node) {
	if iteration < 1 || iteration > len(n.children) {
		return
	}
	if n.children[iteration-1] == nil {
		n.children[iteration-1] = make(map[int]*Node)
	}
	n.children[iteration-1][index] = child
}

// RemoveChild forgets the child at index for the given repetition.
func (n *Node) RemoveChild(iteration, index int) {
	if iteration < 1 || iteration > len(n.children) {
		return
	}
	delete(n.children[iteration-1], index)
}

// ChildIteration returns how many times the child position at index has been
// entered within the given repetition; zero when the child does not exist.
func (n *Node) ChildIteration(iteration, index int) int {
	c := n.Child(iteration, index)
	if c == nil {
		return 0
	}
	return c.Iteration
}

// SequencePosition returns the sequence progress of the given repetition.
func (n *Node) SequencePosition(iteration int) int {
	if iteration < 1 || iteration > len(n.seqPos) {
		return 0
	}
	return n.seqPos[iteration-1]
}

// SetSequencePosition records the sequence progress of the given repetition.
func (n *Node) SetSequencePosition(iteration, pos int) {
	if iteration < 1 || iteration > len(n.seqPos) {
		return
	}
	n.seqPos[iteration-1] = pos
}
