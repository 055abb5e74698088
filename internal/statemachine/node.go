// Package statemachine defines the precompiled content-model graph the
// matcher interprets. Nodes are immutable after construction and safely
// shareable across matcher instances.
package statemachine

import (
	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/occurs"
)

// Kind identifies the variant of a state-machine node.
type Kind int

const (
	// KindElement is a concrete element declaration.
	KindElement Kind = iota
	// KindAny is an element wildcard.
	KindAny
	// KindSequence is an ordered group.
	KindSequence
	// KindAll is an unordered group.
	KindAll
	// KindChoice is an exclusive group.
	KindChoice
	// KindSubstitutionGroup groups a head element with its substitutes.
	KindSubstitutionGroup
)

// String returns the kind name used in diagnostics and renderings.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindAny:
		return "any"
	case KindSequence:
		return "sequence"
	case KindAll:
		return "all"
	case KindChoice:
		return "choice"
	case KindSubstitutionGroup:
		return "substitutionGroup"
	default:
		return "unknown"
	}
}

// IsGroup reports whether the kind is a compositor.
func (k Kind) IsGroup() bool {
	switch k {
	case KindSequence, KindAll, KindChoice, KindSubstitutionGroup:
		return true
	default:
		return false
	}
}

// ContentCategory classifies what an element's type accepts as content.
type ContentCategory int

const (
	// ContentElementOnly accepts child elements and ignorable whitespace.
	ContentElementOnly ContentCategory = iota
	// ContentSimple accepts character data only.
	ContentSimple
	// ContentMixed accepts interleaved character data and child elements.
	ContentMixed
	// ContentEmpty accepts nothing.
	ContentEmpty
)

// String returns the category name.
func (c ContentCategory) String() string {
	switch c {
	case ContentElementOnly:
		return "elementOnly"
	case ContentSimple:
		return "simple"
	case ContentMixed:
		return "mixed"
	case ContentEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ExpectsText reports whether character data belongs to this content category.
func (c ContentCategory) ExpectsText() bool {
	return c == ContentSimple || c == ContentMixed
}

// ElementDecl carries the element metadata of a KindElement node.
type ElementDecl struct {
	Name       model.QName
	Content    ContentCategory
	Nillable   bool
	Default    string
	HasDefault bool
	Fixed      string
	HasFixed   bool
}

// HasValueConstraint reports whether the element declares a default or fixed value.
func (e *ElementDecl) HasValueConstraint() bool {
	return e != nil && (e.HasDefault || e.HasFixed)
}

// Node is one state in the precompiled content model. For compositors Next
// holds the children in declaration order; for elements it holds at most the
// content-model entry; wildcards have no successors.
type Node struct {
	Kind      Kind
	MinOccurs occurs.Occurs
	MaxOccurs occurs.Occurs
	Next      []*Node
	Element   *ElementDecl
	Wildcard  *Wildcard
}

// ContentModel returns the content-model entry of an element node, or nil.
func (n *Node) ContentModel() *Node {
	if n.Kind != KindElement || len(n.Next) == 0 {
		return nil
	}
	return n.Next[0]
}

// Name returns a display name for the node: the element qname for elements,
// the kind otherwise.
func (n *Node) Name() string {
	if n.Kind == KindElement && n.Element != nil {
		return n.Element.Name.String()
	}
	return n.Kind.String()
}

// NewElement builds an element node. contentModel may be nil for simple or
// empty content.
func NewElement(decl ElementDecl, min, max occurs.Occurs, contentModel *Node) *Node {
	n := &Node{Kind: KindElement, MinOccurs: min, MaxOccurs: max, Element: &decl}
	if contentModel != nil {
		n.Next = []*Node{contentModel}
	}
	return n
}

// NewAny builds a wildcard node.
func NewAny(w Wildcard, min, max occurs.Occurs) *Node {
	return &Node{Kind: KindAny, MinOccurs: min, MaxOccurs: max, Wildcard: &w}
}

// NewGroup builds a compositor node.
func NewGroup(kind Kind, min, max occurs.Occurs, children ...*Node) *Node {
	return &Node{Kind: kind, MinOccurs: min, MaxOccurs: max, Next: children}
}
