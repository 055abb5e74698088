package pathfinder

import (
	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/path"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// maxDepth bounds the recursive search so self-referential groups cannot
// expand forever. Hitting the guard yields no candidates from that branch;
// other branches still get their chance.
const maxDepth = 256

// find enumerates candidate segments from the current node to a state
// matching name. When the current node is the element just opened, the
// search first descends into its content model; the current node is then
// prepended so every candidate starts at the live branch point.
func (f *Finder) find(from *path.Node, name model.QName) ([]*path.Segment, error) {
	if from == nil {
		// document start: search from a prospective root step
		if f.root == nil {
			f.root = f.pool.Get(f.machine, path.DirectionChild, 1)
		}
		return f.search(f.root, name, nil, 0)
	}

	if f.atOpenElement(from) {
		cm := from.Schema.ContentModel()
		if cm == nil {
			return nil, nil
		}
		child := f.childNode(from, 0)
		out, err := f.search(child, name, nil, 0)
		if err != nil {
			return nil, err
		}
		for _, seg := range out {
			seg.Prepend(f.pool, from, 0)
		}
		f.pool.Recycle(child)
		return out, nil
	}

	return f.search(from, name, nil, 0)
}

// atOpenElement reports whether n sits at the element currently open, so
// that matching must continue inside its content model.
func (f *Finder) atOpenElement(n *path.Node) bool {
	return n.Schema.Kind == statemachine.KindElement &&
		!f.elements.empty() &&
		n.Schema.Element.Name.Equal(f.elements.top())
}

// search explores downward, sideways, and upward from pn, collecting
// segments that end at a state admitting name. avoid suppresses re-descent
// into the child an upward step just came from.
func (f *Finder) search(pn *path.Node, name model.QName, avoid *statemachine.Node, depth int) ([]*path.Segment, error) {
	if depth >= maxDepth {
		return nil, nil
	}
	if pn.IsFresh() && !pn.Schema.MaxOccurs.Allows(pn.Iteration) {
		// the proposed repetition would blow the occurrence bound
		return nil, nil
	}

	ful, admissible, err := path.ComputeWithChildren(pn)
	if err != nil {
		return nil, err
	}

	var out []*path.Segment

	if pn.Schema.Kind.IsGroup() {
		// downward into admissible children
		for _, idx := range admissible {
			if pn.Schema.Next[idx] == avoid {
				continue
			}
			child := f.childNode(pn, idx)
			sub, err := f.search(child, name, nil, depth+1)
			if err != nil {
				return nil, err
			}
			for _, seg := range sub {
				seg.Prepend(f.pool, pn, idx)
			}
			out = append(out, sub...)
			f.pool.Recycle(child)
		}
	} else if pn.IsFresh() && f.leafMatches(pn, name) {
		out = append(out, path.NewSegment(pn))
		// the node now belongs to the segment; it is cloned on prepend so
		// sibling candidates can still share it
	}

	// sideways and upward moves leave the current repetition behind, which
	// only makes sense once that repetition is committed; a speculative
	// repetition consumed nothing and has nowhere to move from
	if pn.IsFresh() {
		return out, nil
	}

	// sideways: a fulfilled state may repeat
	if ful.Fulfilled() && pn.Schema.MaxOccurs.Allows(pn.Iteration+1) {
		sib := f.pool.Get(pn.Schema, path.DirectionSibling, pn.Iteration+1)
		sib.Doc = pn.Doc
		sub, err := f.search(sib, name, nil, depth+1)
		if err != nil {
			return nil, err
		}
		for _, seg := range sub {
			seg.Prepend(f.pool, pn, path.NoNextState)
		}
		out = append(out, sub...)
		f.pool.Recycle(sib)
	}

	// upward: a fulfilled state lets the search continue in the enclosing
	// group, but never beyond the element that is still open
	if ful.Fulfilled() && pn.Doc != nil && pn.Doc.Parent != nil &&
		pn.Doc.Parent.Schema.Kind != statemachine.KindElement {
		parentDN := pn.Doc.Parent
		par := f.pool.Get(parentDN.Schema, path.DirectionParent, parentDN.Iteration)
		par.Doc = parentDN
		sub, err := f.search(par, name, pn.Schema, depth+1)
		if err != nil {
			return nil, err
		}
		for _, seg := range sub {
			seg.Prepend(f.pool, pn, path.NoNextState)
		}
		out = append(out, sub...)
		f.pool.Recycle(par)
	}

	return out, nil
}

// childNode builds a prospective child step of pn at index, binding it to
// the already-committed child document node when one exists.
func (f *Finder) childNode(pn *path.Node, idx int) *path.Node {
	schema := pn.Schema.Next[idx]
	iteration := 1
	child := f.pool.Get(schema, path.DirectionChild, iteration)
	if pn.Doc != nil {
		if dn := pn.Doc.Child(pn.Iteration, idx); dn != nil {
			child.Doc = dn
			child.Iteration = dn.Iteration + 1
		}
	}
	return child
}

func (f *Finder) leafMatches(pn *path.Node, name model.QName) bool {
	switch pn.Schema.Kind {
	case statemachine.KindElement:
		return pn.Schema.Element != nil && pn.Schema.Element.Name.Equal(name)
	case statemachine.KindAny:
		fallback := model.NamespaceEmpty
		if !f.elements.empty() {
			fallback = f.elements.top().Namespace
		}
		return pn.Schema.Wildcard.Allows(name.Namespace, fallback)
	default:
		return false
	}
}
