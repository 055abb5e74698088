package sax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xsdpath/internal/model"
)

type recordingHandler struct {
	events []string
	failOn string
}

func (h *recordingHandler) record(ev string) error {
	h.events = append(h.events, ev)
	if h.failOn != "" && ev == h.failOn {
		return fmt.Errorf("handler rejected %s", ev)
	}
	return nil
}

func (h *recordingHandler) StartDocument() error { return h.record("startDocument") }
func (h *recordingHandler) EndDocument() error   { return h.record("endDocument") }

func (h *recordingHandler) StartPrefixMapping(prefix, uri string) error {
	return h.record(fmt.Sprintf("prefix %s=%s", prefix, uri))
}

func (h *recordingHandler) EndPrefixMapping(prefix string) error {
	return h.record(fmt.Sprintf("endPrefix %s", prefix))
}

func (h *recordingHandler) StartElement(name model.QName, attrs []Attr) error {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Name, a.Value))
	}
	return h.record(fmt.Sprintf("start %s [%s]", name, strings.Join(parts, " ")))
}

func (h *recordingHandler) Characters(text string) error {
	return h.record(fmt.Sprintf("chars %q", text))
}

func (h *recordingHandler) EndElement(name model.QName) error {
	return h.record(fmt.Sprintf("end %s", name))
}

func TestDriverEventOrder(t *testing.T) {
	doc := `<root a="1"><child>text</child></root>`
	h := &recordingHandler{}

	err := NewDriver(h).Run(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"startDocument",
		"start root [a=1]",
		"start child []",
		`chars "text"`,
		"end child",
		"end root",
		"endDocument",
	}, h.events)
}

func TestDriverNamespaces(t *testing.T) {
	doc := `<root xmlns="urn:d" xmlns:p="urn:p"><p:item p:kind="x"/></root>`
	h := &recordingHandler{}

	err := NewDriver(h).Run(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Contains(t, h.events, "prefix =urn:d")
	assert.Contains(t, h.events, "prefix p=urn:p")
	assert.Contains(t, h.events, "start {urn:p}item [{urn:p}kind=x]")
	assert.Contains(t, h.events, "endPrefix p")
	assert.Contains(t, h.events, "endPrefix ")
	// namespace declarations never surface as attributes
	for _, ev := range h.events {
		assert.NotContains(t, ev, "xmlns")
	}
}

func TestDriverHandlerErrorAborts(t *testing.T) {
	doc := `<root><a/><b/></root>`
	h := &recordingHandler{failOn: "start a []"}

	err := NewDriver(h).Run(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler rejected")
	assert.NotContains(t, h.events, "start b []")
}

func TestDriverMalformedDocument(t *testing.T) {
	h := &recordingHandler{}
	err := NewDriver(h).Run(strings.NewReader(`<root><unclosed></root>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading XML token")
}

func TestDriverEmptyInput(t *testing.T) {
	h := &recordingHandler{}
	err := NewDriver(h).Run(strings.NewReader(""))
	require.Error(t, err)
}

func TestNamespaceContext(t *testing.T) {
	ctx := NewNamespaceContext()
	ctx.Declare("p", "urn:one")
	ctx.Declare("q", "urn:two")
	ctx.Declare("p", "urn:three") // shadows the first declaration

	uri, ok := ctx.Resolve("p")
	require.True(t, ok)
	assert.Equal(t, model.NamespaceURI("urn:three"), uri)

	uri, ok = ctx.Resolve("q")
	require.True(t, ok)
	assert.Equal(t, model.NamespaceURI("urn:two"), uri)

	_, ok = ctx.Resolve("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"q"}, ctx.Prefixes("urn:two"))
	assert.Equal(t, 3, ctx.Len())
}
