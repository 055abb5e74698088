package sax

import "github.com/jacoelho/xsdpath/internal/model"

type nsMapping struct {
	prefix string
	uri    model.NamespaceURI
}

// NamespaceContext is an append-only registry of prefix to namespace URI
// mappings. Later declarations of the same prefix shadow earlier ones;
// nothing is ever removed.
type NamespaceContext struct {
	mappings []nsMapping
}

// NewNamespaceContext creates an empty registry.
func NewNamespaceContext() *NamespaceContext {
	return &NamespaceContext{}
}

// Declare records a prefix mapping. The empty prefix declares the default
// namespace.
func (c *NamespaceContext) Declare(prefix string, uri model.NamespaceURI) {
	c.mappings = append(c.mappings, nsMapping{prefix: prefix, uri: uri})
}

// Resolve returns the most recent namespace URI bound to prefix.
func (c *NamespaceContext) Resolve(prefix string) (model.NamespaceURI, bool) {
	for i := len(c.mappings) - 1; i >= 0; i-- {
		if c.mappings[i].prefix == prefix {
			return c.mappings[i].uri, true
		}
	}
	return model.NamespaceEmpty, false
}

// Prefixes returns every prefix bound to the namespace URI.
func (c *NamespaceContext) Prefixes(uri model.NamespaceURI) []string {
	var out []string
	seen := make(map[string]bool)
	for i := len(c.mappings) - 1; i >= 0; i-- {
		m := c.mappings[i]
		if m.uri == uri && !seen[m.prefix] {
			seen[m.prefix] = true
			out = append(out, m.prefix)
		}
	}
	return out
}

// Len returns the number of declarations recorded.
func (c *NamespaceContext) Len() int {
	return len(c.mappings)
}
