package model

// QName identifies an element by namespace URI and local name. By the time
// a name reaches the matcher its prefix is already resolved, so two QNames
// are the same name exactly when both parts are equal.
type QName struct {
	Namespace NamespaceURI
	Local     string
}

// String renders the name in {namespace}local form, or just the local name
// when unqualified. Event logs and diagnostics use this rendering.
func (q QName) String() string {
	if q.Namespace.IsEmpty() {
		return q.Local
	}
	return "{" + q.Namespace.String() + "}" + q.Local
}

// IsZero reports whether the QName is the zero value.
func (q QName) IsZero() bool {
	return q.Namespace.IsEmpty() && q.Local == ""
}

// Equal reports whether two QNames name the same element.
func (q QName) Equal(other QName) bool {
	return q.Namespace == other.Namespace && q.Local == other.Local
}
