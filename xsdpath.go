// Package xsdpath aligns streaming XML documents against a precompiled
// content-model state machine, producing for each document the single
// canonical traversal through the machine that the schema and the document
// agree on.
package xsdpath

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/jacoelho/xsdpath/internal/machinejson"
	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/path"
	"github.com/jacoelho/xsdpath/internal/pathfinder"
	"github.com/jacoelho/xsdpath/internal/pathjson"
	"github.com/jacoelho/xsdpath/internal/sax"
)

// Machine is a loaded content-model state machine. It is immutable and may
// be shared across concurrent Find calls; each call owns its own matcher
// state.
type Machine struct {
	root   *machinejson.Machine
	target model.NamespaceURI
}

// TargetNamespace returns the machine's target namespace.
func (m *Machine) TargetNamespace() string {
	return m.target.String()
}

// LoadMachine reads a machine description from r.
func LoadMachine(r io.Reader) (*Machine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading machine description")
	}
	return LoadMachineBytes(data)
}

// LoadMachineBytes parses a machine description.
func LoadMachineBytes(data []byte) (*Machine, error) {
	m, err := machinejson.Load(data)
	if err != nil {
		return nil, errors.Wrap(err, "loading machine description")
	}
	return &Machine{root: m, target: m.Target}, nil
}

// LoadMachineFile reads a machine description from a file.
func LoadMachineFile(name string) (*Machine, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening machine description %s", name)
	}
	defer f.Close()
	return LoadMachine(f)
}

// Step is one committed step of the canonical traversal.
type Step struct {
	Kind      string
	Direction string
	Name      string
	Iteration int
}

// Path is the canonical traversal of one document.
type Path struct {
	head  *path.Node
	steps []Step
}

// Steps returns the traversal steps in document order.
func (p *Path) Steps() []Step {
	return p.steps
}

// String renders the traversal as the deterministic step sequence.
func (p *Path) String() string {
	parts := make([]string, len(p.steps))
	for i, s := range p.steps {
		parts[i] = fmt.Sprintf("(%s,%s,%d)", s.Name, s.Direction, s.Iteration)
	}
	return strings.Join(parts, " ")
}

// JSON renders the traversal as a JSON document.
func (p *Path) JSON() ([]byte, error) {
	return pathjson.Encode(p.head)
}

// Find matches the XML document from r against the machine and returns its
// canonical traversal.
func Find(m *Machine, r io.Reader) (*Path, error) {
	finder := pathfinder.New(m.root.Root)
	driver := sax.NewDriver(finder)
	if err := driver.Run(r); err != nil {
		return nil, err
	}

	p := &Path{head: finder.Path()}
	for pn := p.head; pn != nil; pn = pn.Next() {
		p.steps = append(p.steps, Step{
			Kind:      pn.Schema.Kind.String(),
			Direction: pn.Direction.String(),
			Name:      pn.Schema.Name(),
			Iteration: pn.Iteration,
		})
	}
	return p, nil
}

// FindString matches an in-memory document.
func FindString(m *Machine, doc string) (*Path, error) {
	return Find(m, strings.NewReader(doc))
}
