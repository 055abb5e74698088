// Package pathfinder drives the online matching of a document event stream
// against a precompiled content-model state machine. For every element event
// it extends a single committed traversal, recording ambiguities as decision
// points and backtracking through them when a later event refutes an earlier
// choice.
package pathfinder

import (
	goerrors "errors"
	"fmt"

	patherrors "github.com/jacoelho/xsdpath/errors"
	"github.com/jacoelho/xsdpath/internal/doctree"
	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/path"
	"github.com/jacoelho/xsdpath/internal/sax"
	"github.com/jacoelho/xsdpath/internal/statemachine"
	"github.com/jacoelho/xsdpath/internal/whitespace"
)

// errNoPath signals that the active branch admits no continuation for the
// event being processed. It never escapes the finder: either a decision
// point absorbs it or it surfaces as a path-not-found traversal error.
var errNoPath = goerrors.New("no admissible continuation")

// errMissingContent refutes a close whose simple-content element received
// nothing. It unwraps to errNoPath so decision points absorb it like any
// other refutation; EndElement surfaces it as missing-content only once
// backtracking is exhausted.
var errMissingContent = fmt.Errorf("%w: required content missing", errNoPath)

// Finder is the SAX-event-driven matcher. One instance processes one
// document at a time; the state machine it interprets is shared and
// read-only.
type Finder struct {
	machine   *statemachine.Node
	validator ElementValidator
	nsctx     *sax.NamespaceContext

	pool *path.Pool
	mgr  *path.Manager

	root    *path.Node
	current *path.Node

	elements  nameStack
	wildcards nameStack

	events    []traversedEvent
	decisions []*decisionPoint

	done bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithValidator installs the element validator consulted for attributes and
// character content.
func WithValidator(v ElementValidator) Option {
	return func(f *Finder) {
		if v != nil {
			f.validator = v
		}
	}
}

// New creates a matcher for the given state-machine root.
func New(machine *statemachine.Node, opts ...Option) *Finder {
	pool := path.NewPool()
	f := &Finder{
		machine:   machine,
		validator: acceptAllValidator{},
		nsctx:     sax.NewNamespaceContext(),
		pool:      pool,
		mgr:       path.NewManager(pool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the head of the committed traversal. It is meaningful after
// EndDocument; downstream consumers walk the chain through Next.
func (f *Finder) Path() *path.Node {
	return f.root
}

// StartDocument resets per-document state.
func (f *Finder) StartDocument() error {
	f.root = nil
	f.current = nil
	f.elements = nil
	f.wildcards = nil
	f.events = nil
	f.decisions = nil
	f.nsctx = sax.NewNamespaceContext()
	f.done = false
	return nil
}

// StartPrefixMapping records a namespace declaration.
func (f *Finder) StartPrefixMapping(prefix, uri string) error {
	f.nsctx.Declare(prefix, model.NamespaceURI(uri))
	return nil
}

// EndPrefixMapping is a no-op: the registry is append-only.
func (f *Finder) EndPrefixMapping(string) error {
	return nil
}

// StartElement matches the opened element against the state machine,
// committing the preferred interpretation and backtracking through earlier
// decisions when no continuation admits it.
func (f *Finder) StartElement(name model.QName, attrs []sax.Attr) error {
	err := f.stepStart(name, attrs, len(f.events), false)
	if err == nil {
		return nil
	}
	if !goerrors.Is(err, errNoPath) {
		return err
	}
	return f.backtrack(pendingEvent{kind: EventStart, name: name, attrs: attrs})
}

// Characters attributes text to the element owning the current position.
func (f *Finder) Characters(text string) error {
	if f.insideWildcard() {
		return nil
	}
	if f.current == nil {
		if whitespace.IsAll(text) {
			return nil
		}
		return f.fail(patherrors.ErrUnexpectedCharacterData,
			"character data before the document root")
	}

	ownerDN := f.owningElementDoc()
	if ownerDN == nil {
		return f.fail(patherrors.ErrSchemaInvariant, "no owning element for character data")
	}
	decl := ownerDN.Schema.Element
	trimmed := whitespace.TrimString(text)

	if !decl.Content.ExpectsText() {
		if trimmed == "" {
			return nil
		}
		return f.failf(patherrors.ErrUnexpectedCharacterData,
			"element %s does not accept character data", decl.Name)
	}

	if trimmed == "" && decl.Content == statemachine.ContentSimple &&
		!decl.Nillable && !decl.HasValueConstraint() {
		return f.failf(patherrors.ErrMissingContent,
			"element %s requires content but received only whitespace", decl.Name)
	}

	if err := f.validator.ValidateContent(ownerDN.Schema, text, f.nsctx); err != nil {
		return f.wrap(patherrors.ErrContentInvalid, err,
			"content of element %s rejected", decl.Name)
	}

	ownerDN.ReceivedContent = true
	f.appendContent()
	f.events = append(f.events, traversedEvent{Name: decl.Name, Kind: EventContent})
	return nil
}

// EndElement closes the open element, walking the path up to it and then as
// far out of completed groups as the state machine forces.
func (f *Finder) EndElement(name model.QName) error {
	err := f.stepEnd(name, false)
	if err == nil {
		return nil
	}
	if !goerrors.Is(err, errNoPath) {
		return err
	}
	berr := f.backtrack(pendingEvent{kind: EventEnd, name: name})
	if berr != nil && goerrors.Is(err, errMissingContent) &&
		patherrors.CodeOf(berr) == patherrors.ErrPathNotFound {
		// no other interpretation absorbed the element either; report the
		// cause of the original refutation
		return f.failf(patherrors.ErrMissingContent,
			"element %s closed without required content", name)
	}
	return berr
}

// EndDocument finishes matching; the committed traversal is reachable from
// Path afterwards.
func (f *Finder) EndDocument() error {
	if !f.elements.empty() {
		return f.failf(patherrors.ErrUnclosedElements,
			"document ended with %d open elements", len(f.elements))
	}
	f.decisions = nil
	f.pool.Reset()
	f.done = true
	return nil
}

// Done reports whether the document was fully matched.
func (f *Finder) Done() bool {
	return f.done
}

func (f *Finder) insideWildcard() bool {
	return f.current != nil &&
		f.current.Schema.Kind == statemachine.KindAny &&
		!f.wildcards.empty()
}

// stepStart is the start-element core shared by live processing and replay.
// eventIndex is where this event sits in the log; during live processing the
// event is appended there on success.
func (f *Finder) stepStart(name model.QName, attrs []sax.Attr, eventIndex int, replay bool) error {
	if f.insideWildcard() {
		f.elements.push(name)
		f.wildcards.push(name)
		if !replay {
			f.events = append(f.events, traversedEvent{Name: name, Kind: EventStart})
		}
		return nil
	}

	candidates, err := f.find(f.current, name)
	if err != nil {
		return f.wrap(patherrors.ErrSchemaInvariant, err, "search for %s failed", name)
	}
	if len(candidates) == 0 {
		return errNoPath
	}

	sortCandidates(candidates)
	chosen := candidates[0]
	if len(candidates) > 1 {
		f.decisions = append(f.decisions, &decisionPoint{
			branch:        f.current,
			candidates:    candidates,
			next:          1,
			eventIndex:    eventIndex,
			elementStack:  f.elements.clone(),
			wildcardStack: f.wildcards.clone(),
		})
	}

	if err := f.commitStep(chosen, name); err != nil {
		return err
	}
	if !replay {
		if verr := f.validateAttributes(attrs); verr != nil {
			return verr
		}
		f.events = append(f.events, traversedEvent{Name: name, Kind: EventStart})
	}
	return nil
}

// commitStep follows a chosen candidate and updates stacks for the element
// that caused it.
func (f *Finder) commitStep(chosen *path.Segment, name model.QName) error {
	cur, err := f.mgr.Follow(chosen)
	if err != nil {
		return f.wrap(patherrors.ErrSchemaInvariant, err, "committing step for %s", name)
	}
	f.current = cur
	if f.root == nil {
		f.root = chosen.Start()
	}
	f.elements.push(name)
	if cur.Schema.Kind == statemachine.KindAny {
		f.wildcards.push(name)
	}
	return nil
}

func (f *Finder) validateAttributes(attrs []sax.Attr) error {
	if f.current.Schema.Kind != statemachine.KindElement {
		// wildcard content is opaque; nothing to validate against
		return nil
	}
	if err := f.validator.ValidateAttributes(f.current.Schema, attrs, f.nsctx); err != nil {
		return f.wrap(patherrors.ErrContentInvalid, err,
			"attributes of element %s rejected", f.current.Schema.Element.Name)
	}
	return nil
}

// stepEnd is the end-element core shared by live processing and replay.
func (f *Finder) stepEnd(name model.QName, replay bool) error {
	if f.insideWildcard() {
		if f.elements.empty() {
			return f.failf(patherrors.ErrMismatchedEnd, "end of %s with no open element", name)
		}
		f.elements.pop()
		f.wildcards.pop()
		if !replay {
			f.events = append(f.events, traversedEvent{Name: name, Kind: EventEnd})
		}
		if f.wildcards.empty() {
			// the wildcard-matched element itself closed
			return f.walkUpTree()
		}
		return nil
	}

	if f.elements.empty() {
		return f.failf(patherrors.ErrMismatchedEnd, "end of %s with no open element", name)
	}
	if !f.elements.top().Equal(name) {
		return f.failf(patherrors.ErrMismatchedEnd,
			"end of %s, open element is %s", name, f.elements.top())
	}

	if err := f.walkUpToElement(name); err != nil {
		return err
	}

	if err := f.checkElementClose(name); err != nil {
		return err
	}

	if !replay {
		f.events = append(f.events, traversedEvent{Name: name, Kind: EventEnd})
	}
	f.elements.pop()
	return f.walkUpTree()
}

// checkElementClose verifies the closing element received what its type
// requires: character content for simple types, a satisfied content model
// otherwise. A violation refutes the active branch; another interpretation
// of the same events may still absorb the element.
func (f *Finder) checkElementClose(name model.QName) error {
	dn := f.current.Doc
	decl := dn.Schema.Element

	if decl.Content == statemachine.ContentSimple &&
		!dn.ReceivedContent && !decl.Nillable && !decl.HasValueConstraint() {
		return errMissingContent
	}

	cm := dn.Schema.ContentModel()
	if cm == nil {
		return nil
	}
	cmDN := dn.Child(dn.Iteration, 0)
	if cmDN == nil {
		if statemachine.Emptiable(cm) {
			return nil
		}
		return errNoPath
	}
	if !cm.MinOccurs.Satisfied(cmDN.Iteration) {
		return errNoPath
	}
	probe := path.Node{Schema: cm, Iteration: cmDN.Iteration, Doc: cmDN}
	ful, err := path.Compute(&probe)
	if err != nil {
		return f.wrap(patherrors.ErrSchemaInvariant, err, "closing element %s", name)
	}
	if !ful.Fulfilled() {
		return errNoPath
	}
	return nil
}

// walkUpToElement ascends the path until the current node is the element
// being closed, verifying every group it leaves met its minimum. A child
// element closed earlier and left in place by walkUpTree is left the same way.
func (f *Finder) walkUpToElement(name model.QName) error {
	for {
		cur := f.current
		if cur.Schema.Kind == statemachine.KindElement {
			// the open element is nested as deep among element occurrences as
			// the element stack; a deeper one is an already closed child
			depth := 0
			for dn := cur.Doc; dn != nil; dn = dn.Parent {
				if dn.Schema.Kind == statemachine.KindElement {
					depth++
				}
			}
			if depth == len(f.elements) {
				if cur.Schema.Element == nil || !cur.Schema.Element.Name.Equal(name) {
					return f.failf(patherrors.ErrSchemaInvariant,
						"walk-up reached element %s while closing %s", cur.Schema.Name(), name)
				}
				return nil
			}
		}

		ful, err := path.Compute(cur)
		if err != nil {
			return f.wrap(patherrors.ErrSchemaInvariant, err, "walk-up from %s", cur.Schema.Name())
		}
		if !ful.Fulfilled() {
			return errNoPath
		}
		if cur.Doc == nil || cur.Doc.Parent == nil {
			return f.failf(patherrors.ErrSchemaInvariant,
				"walk-up above the document root while closing %s", name)
		}
		f.ascend()
	}
}

// walkUpTree ascends out of states that are complete: nothing further can
// happen inside them. The ascent stops at the first incomplete state, at an
// enclosing element, or at the document root.
func (f *Finder) walkUpTree() error {
	for {
		cur := f.current
		ful, err := path.Compute(cur)
		if err != nil {
			return f.wrap(patherrors.ErrSchemaInvariant, err, "tree walk-up from %s", cur.Schema.Name())
		}
		if ful != path.FulfilmentComplete {
			return nil
		}
		if cur.Doc == nil || cur.Doc.Parent == nil {
			return nil
		}
		parentIsElement := cur.Doc.Parent.Schema.Kind == statemachine.KindElement
		f.ascend()
		if parentIsElement {
			return nil
		}
	}
}

// ascend commits a parent step above the current node.
func (f *Finder) ascend() {
	parentDN := f.current.Doc.Parent
	pn := f.pool.Get(parentDN.Schema, path.DirectionParent, parentDN.Iteration)
	pn.Doc = parentDN
	f.current.Link(pn)
	f.current = pn
}

// appendContent commits a content step after the current node.
func (f *Finder) appendContent() {
	pn := f.pool.Get(f.current.Schema, path.DirectionContent, f.current.Iteration)
	pn.Doc = f.current.Doc
	f.current.Link(pn)
	f.current = pn
}

// owningElementDoc walks up the document tree to the element whose content
// the current position is inside of.
func (f *Finder) owningElementDoc() *doctree.Node {
	dn := f.current.Doc
	for dn != nil && dn.Schema.Kind != statemachine.KindElement {
		dn = dn.Parent
	}
	return dn
}

func (f *Finder) fail(code patherrors.ErrorCode, msg string) error {
	return patherrors.NewTraversal(code, msg, renderEvents(f.events))
}

func (f *Finder) failf(code patherrors.ErrorCode, format string, args ...any) error {
	return patherrors.NewTraversalf(code, renderEvents(f.events), format, args...)
}

func (f *Finder) wrap(code patherrors.ErrorCode, cause error, format string, args ...any) error {
	t := patherrors.NewTraversalf(code, renderEvents(f.events), format, args...)
	t.Cause = cause
	return t
}
