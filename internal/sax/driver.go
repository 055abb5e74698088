package sax

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"

	"github.com/jacoelho/xsdpath/internal/model"
)

const xmlnsPrefix = "xmlns"

// Driver pumps tokens from an XML document into a Handler, translating
// token-level structure into the event surface: prefix mappings are reported
// before the element that declares them, attributes exclude namespace
// declarations.
type Driver struct {
	handler Handler

	// prefixes declared by each open element, for end-of-scope reporting
	scopes [][]string
}

// NewDriver creates a driver delivering events to handler.
func NewDriver(handler Handler) *Driver {
	return &Driver{handler: handler}
}

// Run streams the document from r to the handler. Handler errors abort the
// stream and are returned unwrapped; read errors are wrapped with position
// context.
func (d *Driver) Run(r io.Reader) error {
	dec := xml.NewDecoder(r)

	if err := d.handler.StartDocument(); err != nil {
		return err
	}

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading XML token at offset %d", dec.InputOffset())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			if err := d.startElement(t); err != nil {
				return err
			}
		case xml.EndElement:
			name := model.QName{Namespace: model.NamespaceURI(t.Name.Space), Local: t.Name.Local}
			if err := d.handler.EndElement(name); err != nil {
				return err
			}
			if err := d.endScope(); err != nil {
				return err
			}
		case xml.CharData:
			if err := d.handler.Characters(string(t)); err != nil {
				return err
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
			// structure only; nothing to report
		}
	}

	if !sawRoot {
		return errors.New("document has no root element")
	}
	return d.handler.EndDocument()
}

func (d *Driver) startElement(t xml.StartElement) error {
	attrs := make([]Attr, 0, len(t.Attr))
	var declared []string
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == xmlnsPrefix:
			if err := d.handler.StartPrefixMapping(a.Name.Local, a.Value); err != nil {
				return err
			}
			declared = append(declared, a.Name.Local)
		case a.Name.Space == "" && a.Name.Local == xmlnsPrefix:
			if err := d.handler.StartPrefixMapping("", a.Value); err != nil {
				return err
			}
			declared = append(declared, "")
		default:
			attrs = append(attrs, Attr{
				Name:  model.QName{Namespace: model.NamespaceURI(a.Name.Space), Local: a.Name.Local},
				Value: a.Value,
			})
		}
	}

	d.scopes = append(d.scopes, declared)
	name := model.QName{Namespace: model.NamespaceURI(t.Name.Space), Local: t.Name.Local}
	return d.handler.StartElement(name, attrs)
}

func (d *Driver) endScope() error {
	if len(d.scopes) == 0 {
		return nil
	}
	declared := d.scopes[len(d.scopes)-1]
	d.scopes = d.scopes[:len(d.scopes)-1]
	for i := len(declared) - 1; i >= 0; i-- {
		if err := d.handler.EndPrefixMapping(declared[i]); err != nil {
			return err
		}
	}
	return nil
}
