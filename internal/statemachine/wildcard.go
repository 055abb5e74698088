package statemachine

import "github.com/jacoelho/xsdpath/internal/model"

// NamespaceConstraint represents a wildcard namespace constraint.
type NamespaceConstraint int

const (
	// NSCAny allows any namespace.
	NSCAny NamespaceConstraint = iota
	// NSCOther allows any namespace except the target namespace.
	NSCOther
	// NSCTargetNamespace allows only the target namespace.
	NSCTargetNamespace
	// NSCLocal allows only no-namespace.
	NSCLocal
	// NSCList allows an explicit namespace list.
	NSCList
)

// Wildcard represents an <any> position in the content model.
type Wildcard struct {
	Namespace       NamespaceConstraint
	NamespaceList   []model.NamespaceURI
	TargetNamespace model.NamespaceURI
}

// Allows reports whether the wildcard admits an element in namespace ns.
// fallback stands in for the target namespace when the wildcard does not
// record one; callers pass the namespace of the currently open element.
func (w *Wildcard) Allows(ns, fallback model.NamespaceURI) bool {
	if w == nil {
		return false
	}
	target := w.TargetNamespace
	if target.IsEmpty() {
		target = fallback
	}
	switch w.Namespace {
	case NSCAny:
		return true
	case NSCLocal:
		return ns.IsEmpty()
	case NSCTargetNamespace:
		return ns == target
	case NSCOther:
		return ns != target && !ns.IsEmpty()
	case NSCList:
		for _, allowed := range w.NamespaceList {
			if allowed.Resolve(target) == ns {
				return true
			}
		}
		return false
	default:
		return false
	}
}
