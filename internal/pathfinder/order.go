package pathfinder

import (
	"sort"

	"github.com/jacoelho/xsdpath/internal/path"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// sortCandidates orders candidate segments by preference. The sort is
// stable: candidates equal under every criterion keep discovery order, which
// keeps matching deterministic.
func sortCandidates(segs []*path.Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return compareSegments(segs[i], segs[j]) < 0
	})
}

// compareSegments ranks a before b when negative. Preference order:
//
//  1. a concrete element match beats a wildcard match
//  2. walking both chains in lock-step, the first differing step wins by
//     direction rank, then by smaller child index
//  3. the chain that reaches its match first
//  4. for two single-step candidates, the smaller child index at the match
func compareSegments(a, b *path.Segment) int {
	aWild := a.End().Schema.Kind == statemachine.KindAny
	bWild := b.End().Schema.Kind == statemachine.KindAny
	if aWild != bWild {
		if aWild {
			return 1
		}
		return -1
	}

	na, nb := a.AfterStart(), b.AfterStart()
	idxA, idxB := a.AfterStartIndex(), b.AfterStartIndex()
	for na != nil && nb != nil {
		if r := na.Direction.Rank() - nb.Direction.Rank(); r != 0 {
			return r
		}
		if idxA != idxB {
			return idxA - idxB
		}
		idxA, idxB = na.IndexOfNextState, nb.IndexOfNextState
		na, nb = na.Next(), nb.Next()
	}

	switch {
	case na == nil && nb != nil:
		return -1
	case na != nil && nb == nil:
		return 1
	}

	if a.AfterStart() == nil && b.AfterStart() == nil {
		return a.End().IndexOfNextState - b.End().IndexOfNextState
	}
	return 0
}
