package path

import (
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// Pool owns path-node storage. Nodes refuted during search return here and
// are reused for later candidates.
type Pool struct {
	free []*Node
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a reset node for the given step.
func (p *Pool) Get(schema *statemachine.Node, dir Direction, iteration int) *Node {
	n := p.take()
	n.Schema = schema
	n.Direction = dir
	n.Iteration = iteration
	return n
}

// Clone copies the scalar fields of src into a fresh node. Links and the
// document binding are cleared; the clone is speculative.
func (p *Pool) Clone(src *Node) *Node {
	n := p.take()
	n.Schema = src.Schema
	n.Direction = src.Direction
	n.Iteration = src.Iteration
	n.IndexOfNextState = src.IndexOfNextState
	return n
}

// Recycle returns a single unlinked node to the free list.
func (p *Pool) Recycle(n *Node) {
	if n == nil {
		return
	}
	n.prev = nil
	n.next = nil
	n.Doc = nil
	p.free = append(p.free, n)
}

// RecycleChain returns n and everything after it to the free list.
func (p *Pool) RecycleChain(n *Node) {
	for n != nil {
		next := n.next
		p.Recycle(n)
		n = next
	}
}

// Reset drops all pooled nodes.
func (p *Pool) Reset() {
	p.free = nil
}

func (p *Pool) take() *Node {
	if len(p.free) > 0 {
		n := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		*n = Node{}
		n.IndexOfNextState = NoNextState
		return n
	}
	return &Node{IndexOfNextState: NoNextState}
}
