package statemachine

const emptiableMaxDepth = 256

// Emptiable reports whether the particle can match empty content: either it
// may occur zero times, or one occurrence can be satisfied without consuming
// any element. Self-referential groups are cut off by a depth guard and
// treated as non-emptiable.
func Emptiable(n *Node) bool {
	return emptiable(n, 0)
}

func emptiable(n *Node, depth int) bool {
	if n == nil {
		return true
	}
	if depth >= emptiableMaxDepth {
		return false
	}
	if n.MinOccurs == 0 {
		return true
	}
	switch n.Kind {
	case KindSequence, KindAll:
		for _, c := range n.Next {
			if !emptiable(c, depth+1) {
				return false
			}
		}
		return true
	case KindChoice, KindSubstitutionGroup:
		for _, c := range n.Next {
			if emptiable(c, depth+1) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
