package pathfinder

import (
	goerrors "errors"

	patherrors "github.com/jacoelho/xsdpath/errors"
	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/sax"
)

// pendingEvent is the live event whose processing found no continuation and
// triggered backtracking. It is retried after every successful replay.
type pendingEvent struct {
	kind  EventKind
	name  model.QName
	attrs []sax.Attr
}

// backtrack walks the decision-point stack, retrying alternatives until one
// of them both survives a replay of the logged events and admits the pending
// event. The log itself is never truncated; refuted interpretations are
// undone only in the committed path and document tree.
//
// Replay may push fresh decision points; they stay on the stack and are
// tried before older ones, so exploration is depth-first over the decision
// tree bounded by the finite log.
func (f *Finder) backtrack(pending pendingEvent) error {
	for len(f.decisions) > 0 {
		dp := f.decisions[len(f.decisions)-1]
		if dp.exhausted() {
			f.decisions = f.decisions[:len(f.decisions)-1]
			continue
		}
		candidate := dp.take()

		// undo everything committed past the divergence
		f.mgr.Unfollow(dp.branch, f.root)
		f.current = dp.branch
		if dp.branch == nil {
			f.root = nil
		}
		f.elements = dp.elementStack.clone()
		f.wildcards = dp.wildcardStack.clone()

		// commit the alternative for the event that diverged
		divergedName := f.events[dp.eventIndex].Name
		if err := f.commitStep(candidate, divergedName); err != nil {
			return err
		}

		ok, err := f.replay(dp.eventIndex + 1)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		err = f.retryPending(pending)
		if err == nil {
			return nil
		}
		if !goerrors.Is(err, errNoPath) {
			return err
		}
	}

	return f.failf(patherrors.ErrPathNotFound,
		"no interpretation of the schema admits %s:%s", pending.name, pending.kind)
}

// replay re-runs logged events from index from against the current branch.
// It reports false when the branch is refuted partway through; decision
// points pushed by the replayed events remain for the caller to try.
func (f *Finder) replay(from int) (bool, error) {
	for i := from; i < len(f.events); i++ {
		ev := f.events[i]
		var err error
		switch ev.Kind {
		case EventStart:
			err = f.stepStart(ev.Name, nil, i, true)
		case EventContent:
			f.replayContent()
		case EventEnd:
			err = f.stepEnd(ev.Name, true)
		}
		if err != nil {
			if goerrors.Is(err, errNoPath) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// replayContent re-inserts a content step. Validation already happened when
// the event was live; only the structural record is rebuilt.
func (f *Finder) replayContent() {
	if f.insideWildcard() || f.current == nil {
		return
	}
	if dn := f.owningElementDoc(); dn != nil {
		dn.ReceivedContent = true
	}
	f.appendContent()
}

func (f *Finder) retryPending(pending pendingEvent) error {
	switch pending.kind {
	case EventStart:
		return f.stepStart(pending.name, pending.attrs, len(f.events), false)
	case EventEnd:
		return f.stepEnd(pending.name, false)
	default:
		return f.failf(patherrors.ErrSchemaInvariant,
			"unexpected pending event kind %s", pending.kind)
	}
}
