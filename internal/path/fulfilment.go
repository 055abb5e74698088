package path

import (
	"fmt"

	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// Fulfilment is the occurrence status of a path node relative to its
// state-machine bounds.
type Fulfilment int

const (
	// FulfilmentNot means minimum occurrences are not yet met.
	FulfilmentNot Fulfilment = iota
	// FulfilmentPartial means minimums are met and more content is admissible.
	FulfilmentPartial
	// FulfilmentComplete means maximums are reached; nothing more fits here.
	FulfilmentComplete
)

// String returns the fulfilment name.
func (f Fulfilment) String() string {
	switch f {
	case FulfilmentNot:
		return "not"
	case FulfilmentPartial:
		return "partial"
	case FulfilmentComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Fulfilled reports whether minimum occurrences are met.
func (f Fulfilment) Fulfilled() bool {
	return f != FulfilmentNot
}

// Compute returns the fulfilment of pn for the repetition pn.Iteration.
func Compute(pn *Node) (Fulfilment, error) {
	f, _, err := compute(pn, false)
	return f, err
}

// ComputeWithChildren returns the fulfilment of pn together with the child
// indices admissible as the next entry, in preference order.
func ComputeWithChildren(pn *Node) (Fulfilment, []int, error) {
	return compute(pn, true)
}

func compute(pn *Node, wantChildren bool) (Fulfilment, []int, error) {
	schema := pn.Schema
	switch schema.Kind {
	case statemachine.KindElement, statemachine.KindAny:
		it := pn.DocIteration()
		if schema.MaxOccurs.Exceeded(it) {
			return FulfilmentNot, nil, fmt.Errorf(
				"%s entered %d times, above maxOccurs %s", schema.Name(), it, schema.MaxOccurs)
		}
		switch {
		case schema.MaxOccurs.Reached(it):
			return FulfilmentComplete, nil, nil
		case schema.MinOccurs.Satisfied(it):
			return FulfilmentPartial, nil, nil
		default:
			return FulfilmentNot, nil, nil
		}
	case statemachine.KindChoice, statemachine.KindSubstitutionGroup:
		return computeChoice(pn, wantChildren)
	case statemachine.KindAll:
		return computeAll(pn, wantChildren)
	case statemachine.KindSequence:
		return computeSequence(pn, wantChildren)
	default:
		return FulfilmentNot, nil, fmt.Errorf("unknown state kind %d", schema.Kind)
	}
}

// computeChoice handles choice and substitution groups: at most one branch
// is ever entered within a repetition.
func computeChoice(pn *Node, wantChildren bool) (Fulfilment, []int, error) {
	children := pn.Schema.Next
	if len(children) == 0 {
		return FulfilmentNot, nil, fmt.Errorf("%s group has no children", pn.Schema.Kind)
	}

	entered := -1
	for i := range children {
		if childIteration(pn, i) > 0 {
			entered = i
			break
		}
	}

	if entered < 0 {
		// nothing chosen yet: the repetition is satisfied only if some
		// branch can match empty content; every non-prohibited branch is
		// admissible
		f := FulfilmentNot
		for _, c := range children {
			if statemachine.Emptiable(c) {
				f = FulfilmentPartial
				break
			}
		}
		var admissible []int
		if wantChildren {
			for i, c := range children {
				if !c.MaxOccurs.Reached(0) {
					admissible = append(admissible, i)
				}
			}
		}
		return combineSelf(pn, f), admissible, nil
	}

	it := childIteration(pn, entered)
	chosen := children[entered]
	if chosen.MaxOccurs.Exceeded(it) {
		return FulfilmentNot, nil, fmt.Errorf(
			"%s branch entered %d times, above maxOccurs %s", pn.Schema.Kind, it, chosen.MaxOccurs)
	}

	var admissible []int
	if wantChildren && !chosen.MaxOccurs.Reached(it) {
		admissible = append(admissible, entered)
	}
	switch {
	case !chosen.MinOccurs.Satisfied(it):
		return FulfilmentNot, admissible, nil
	case chosen.MaxOccurs.Reached(it):
		return combineSelf(pn, FulfilmentComplete), admissible, nil
	default:
		return combineSelf(pn, FulfilmentPartial), admissible, nil
	}
}

func computeAll(pn *Node, wantChildren bool) (Fulfilment, []int, error) {
	children := pn.Schema.Next
	if len(children) == 0 {
		return FulfilmentNot, nil, fmt.Errorf("all group has no children")
	}

	satisfied := true
	complete := true
	var admissible []int
	for i, c := range children {
		it := childIteration(pn, i)
		if c.MaxOccurs.Exceeded(it) {
			return FulfilmentNot, nil, fmt.Errorf(
				"all member %d entered %d times, above maxOccurs %s", i, it, c.MaxOccurs)
		}
		if !c.MinOccurs.Satisfied(it) {
			satisfied = false
		}
		if !c.MaxOccurs.Reached(it) {
			complete = false
			if wantChildren {
				admissible = append(admissible, i)
			}
		}
	}

	switch {
	case complete:
		return combineSelf(pn, FulfilmentComplete), admissible, nil
	case satisfied:
		return combineSelf(pn, FulfilmentPartial), admissible, nil
	default:
		return FulfilmentNot, admissible, nil
	}
}

// computeSequence walks positions from the current sequence progress onward.
// A required position that has not met its minimum blocks both fulfilment
// and admission of any later position.
func computeSequence(pn *Node, wantChildren bool) (Fulfilment, []int, error) {
	children := pn.Schema.Next
	if len(children) == 0 {
		return FulfilmentNot, nil, fmt.Errorf("sequence has no children")
	}

	pos := sequencePosition(pn)
	if pos >= len(children) {
		pos = len(children) - 1
	}

	satisfied := true
	complete := true
	var admissible []int
	for j := pos; j < len(children); j++ {
		c := children[j]
		it := childIteration(pn, j)
		if c.MaxOccurs.Exceeded(it) {
			return FulfilmentNot, nil, fmt.Errorf(
				"sequence position %d entered %d times, above maxOccurs %s", j, it, c.MaxOccurs)
		}
		if !c.MaxOccurs.Reached(it) {
			complete = false
			if wantChildren && satisfied {
				admissible = append(admissible, j)
			}
		}
		if !c.MinOccurs.Satisfied(it) {
			satisfied = false
			break
		}
	}

	switch {
	case !satisfied:
		return FulfilmentNot, admissible, nil
	case complete:
		return combineSelf(pn, FulfilmentComplete), admissible, nil
	default:
		return combineSelf(pn, FulfilmentPartial), admissible, nil
	}
}

// combineSelf folds the node's own occurrence bound into the content result:
// a repetition whose contents are complete still admits more only through a
// further repetition, so completeness requires the self bound reached too.
func combineSelf(pn *Node, f Fulfilment) Fulfilment {
	if f == FulfilmentComplete && !pn.Schema.MaxOccurs.Reached(pn.Iteration) {
		return FulfilmentPartial
	}
	return f
}

func childIteration(pn *Node, index int) int {
	if pn.Doc == nil {
		return 0
	}
	return pn.Doc.ChildIteration(pn.Iteration, index)
}

func sequencePosition(pn *Node) int {
	if pn.Doc == nil {
		return 0
	}
	return pn.Doc.SequencePosition(pn.Iteration)
}
