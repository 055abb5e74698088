// Package sax defines the streaming event surface the matcher consumes and
// a driver that produces those events from an XML document.
package sax

import "github.com/jacoelho/xsdpath/internal/model"

// Attr is one attribute of a start-element event.
type Attr struct {
	Name  model.QName
	Value string
}

// Handler receives document events in order. Implementations process each
// event fully before returning; a non-nil error aborts the stream.
type Handler interface {
	StartDocument() error
	StartPrefixMapping(prefix, uri string) error
	EndPrefixMapping(prefix string) error
	StartElement(name model.QName, attrs []Attr) error
	Characters(text string) error
	EndElement(name model.QName) error
	EndDocument() error
}
