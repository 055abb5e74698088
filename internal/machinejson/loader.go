// Package machinejson loads a precompiled content-model state machine from
// its JSON interchange form. Compilation from schema documents happens
// upstream; this loader only reconstructs the graph, including cycles, which
// the format expresses through named defs and refs.
package machinejson

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/occurs"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// Machine is the loaded state machine together with its target namespace.
type Machine struct {
	Root   *statemachine.Node
	Target model.NamespaceURI
}

type loader struct {
	target model.NamespaceURI
	defs   map[string]gjson.Result
	nodes  map[string]*statemachine.Node
	// building guards against ref cycles that never reach a concrete node
	building map[string]bool
}

// Load parses the JSON interchange form.
func Load(data []byte) (*Machine, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("machine description is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	root := doc.Get("root")
	if !root.Exists() {
		return nil, errors.New("machine description has no root")
	}

	l := &loader{
		target:   model.NamespaceURI(doc.Get("target").String()),
		defs:     map[string]gjson.Result{},
		nodes:    map[string]*statemachine.Node{},
		building: map[string]bool{},
	}

	var defErr error
	doc.Get("defs").ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			defErr = errors.Errorf("def %q is not an object", key.String())
			return false
		}
		l.defs[key.String()] = value
		return true
	})
	if defErr != nil {
		return nil, defErr
	}

	node, err := l.node(root, "root")
	if err != nil {
		return nil, err
	}
	return &Machine{Root: node, Target: l.target}, nil
}

func (l *loader) node(v gjson.Result, where string) (*statemachine.Node, error) {
	if ref := v.Get("ref"); ref.Exists() {
		return l.resolveRef(ref.String(), where)
	}

	kind, err := parseKind(v.Get("kind").String())
	if err != nil {
		return nil, errors.Wrapf(err, "at %s", where)
	}

	min, max, err := parseOccurs(v)
	if err != nil {
		return nil, errors.Wrapf(err, "at %s", where)
	}

	switch kind {
	case statemachine.KindElement:
		return l.elementNode(v, where, min, max)
	case statemachine.KindAny:
		w, err := l.wildcard(v, where)
		if err != nil {
			return nil, err
		}
		return statemachine.NewAny(*w, min, max), nil
	default:
		children, err := l.children(v, where)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, errors.Errorf("at %s: %s group has no children", where, kind)
		}
		return statemachine.NewGroup(kind, min, max, children...), nil
	}
}

func (l *loader) resolveRef(name, where string) (*statemachine.Node, error) {
	if n, ok := l.nodes[name]; ok {
		return n, nil
	}
	def, ok := l.defs[name]
	if !ok {
		return nil, errors.Errorf("at %s: ref %q has no def", where, name)
	}
	if l.building[name] {
		return nil, errors.Errorf("at %s: ref %q cycles through itself without a node", where, name)
	}

	// register the shell first so self-references resolve to it
	kind, err := parseKind(def.Get("kind").String())
	if err != nil {
		return nil, errors.Wrapf(err, "def %q", name)
	}
	min, max, err := parseOccurs(def)
	if err != nil {
		return nil, errors.Wrapf(err, "def %q", name)
	}

	shell := &statemachine.Node{Kind: kind, MinOccurs: min, MaxOccurs: max}
	l.nodes[name] = shell
	l.building[name] = true
	defer delete(l.building, name)

	built, err := l.node(def, "def "+name)
	if err != nil {
		delete(l.nodes, name)
		return nil, err
	}
	*shell = *built
	return shell, nil
}

func (l *loader) elementNode(v gjson.Result, where string, min, max occurs.Occurs) (*statemachine.Node, error) {
	name, err := parseName(v.Get("name"))
	if err != nil {
		return nil, errors.Wrapf(err, "at %s", where)
	}

	decl := statemachine.ElementDecl{
		Name:     name,
		Nillable: v.Get("nillable").Bool(),
	}
	switch content := v.Get("content").String(); content {
	case "", "elementOnly":
		decl.Content = statemachine.ContentElementOnly
	case "simple":
		decl.Content = statemachine.ContentSimple
	case "mixed":
		decl.Content = statemachine.ContentMixed
	case "empty":
		decl.Content = statemachine.ContentEmpty
	default:
		return nil, errors.Errorf("at %s: unknown content category %q", where, content)
	}
	if d := v.Get("default"); d.Exists() {
		decl.Default = d.String()
		decl.HasDefault = true
	}
	if fx := v.Get("fixed"); fx.Exists() {
		decl.Fixed = fx.String()
		decl.HasFixed = true
	}

	children, err := l.children(v, where)
	if err != nil {
		return nil, err
	}
	switch len(children) {
	case 0:
		return statemachine.NewElement(decl, min, max, nil), nil
	case 1:
		return statemachine.NewElement(decl, min, max, children[0]), nil
	default:
		return nil, errors.Errorf("at %s: element %s has %d content models", where, name, len(children))
	}
}

func (l *loader) children(v gjson.Result, where string) ([]*statemachine.Node, error) {
	raw := v.Get("children")
	if !raw.Exists() {
		return nil, nil
	}
	if !raw.IsArray() {
		return nil, errors.Errorf("at %s: children is not an array", where)
	}

	var out []*statemachine.Node
	var err error
	raw.ForEach(func(_, child gjson.Result) bool {
		var n *statemachine.Node
		n, err = l.node(child, where)
		if err != nil {
			return false
		}
		out = append(out, n)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *loader) wildcard(v gjson.Result, where string) (*statemachine.Wildcard, error) {
	w := &statemachine.Wildcard{TargetNamespace: l.target}

	ns := v.Get("namespace")
	switch {
	case !ns.Exists(), ns.String() == "##any":
		w.Namespace = statemachine.NSCAny
	case ns.String() == "##other":
		w.Namespace = statemachine.NSCOther
	case ns.String() == "##targetNamespace":
		w.Namespace = statemachine.NSCTargetNamespace
	case ns.String() == "##local":
		w.Namespace = statemachine.NSCLocal
	case ns.IsArray():
		w.Namespace = statemachine.NSCList
		ns.ForEach(func(_, item gjson.Result) bool {
			w.NamespaceList = append(w.NamespaceList, model.NamespaceURI(item.String()))
			return true
		})
	default:
		return nil, errors.Errorf("at %s: unknown wildcard namespace %q", where, ns.String())
	}
	return w, nil
}

func parseKind(s string) (statemachine.Kind, error) {
	switch s {
	case "element":
		return statemachine.KindElement, nil
	case "any":
		return statemachine.KindAny, nil
	case "sequence":
		return statemachine.KindSequence, nil
	case "all":
		return statemachine.KindAll, nil
	case "choice":
		return statemachine.KindChoice, nil
	case "substitutionGroup":
		return statemachine.KindSubstitutionGroup, nil
	case "":
		return 0, errors.New("node has no kind")
	default:
		return 0, errors.Errorf("unknown kind %q", s)
	}
}

func parseOccurs(v gjson.Result) (min, max occurs.Occurs, err error) {
	min, max = 1, 1

	if m := v.Get("min"); m.Exists() {
		if m.Type != gjson.Number || m.Int() < 0 {
			return 0, 0, errors.Errorf("invalid min %q", m.String())
		}
		min = occurs.FromInt(int(m.Int()))
	}
	if m := v.Get("max"); m.Exists() {
		switch {
		case m.Type == gjson.String && m.String() == "unbounded":
			max = occurs.Unbounded
		case m.Type == gjson.Number && m.Int() >= 0:
			max = occurs.FromInt(int(m.Int()))
		default:
			return 0, 0, errors.Errorf("invalid max %q", m.String())
		}
	}
	if !max.IsUnbounded() && min > max {
		return 0, 0, errors.Errorf("min %s above max %s", min, max)
	}
	return min, max, nil
}

func parseName(v gjson.Result) (model.QName, error) {
	switch {
	case v.Type == gjson.String && v.String() != "":
		return model.QName{Local: v.String()}, nil
	case v.IsObject():
		local := v.Get("local").String()
		if local == "" {
			return model.QName{}, errors.New("element name has no local part")
		}
		return model.QName{
			Namespace: model.NamespaceURI(v.Get("ns").String()),
			Local:     local,
		}, nil
	default:
		return model.QName{}, errors.New("element has no name")
	}
}
