package pathfinder

import (
	"github.com/jacoelho/xsdpath/internal/sax"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// ElementValidator checks attributes and character content against the
// matched element declaration. Lexical-space checking lives behind this
// interface; the matcher only routes values to it and surfaces rejections.
type ElementValidator interface {
	ValidateAttributes(elem *statemachine.Node, attrs []sax.Attr, nsctx *sax.NamespaceContext) error
	ValidateContent(elem *statemachine.Node, text string, nsctx *sax.NamespaceContext) error
}

// acceptAllValidator accepts every value. It is the default when no
// validator is configured.
type acceptAllValidator struct{}

func (acceptAllValidator) ValidateAttributes(*statemachine.Node, []sax.Attr, *sax.NamespaceContext) error {
	return nil
}

func (acceptAllValidator) ValidateContent(*statemachine.Node, string, *sax.NamespaceContext) error {
	return nil
}
