// Package pathjson renders a committed traversal as JSON for downstream
// consumers. The document is built incrementally, one step at a time.
package pathjson

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/jacoelho/xsdpath/internal/path"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

// Encode renders the chain starting at head.
func Encode(head *path.Node) ([]byte, error) {
	out := []byte(`{"steps":[]}`)
	var err error

	i := 0
	for pn := head; pn != nil; pn = pn.Next() {
		base := fmt.Sprintf("steps.%d", i)
		out, err = sjson.SetBytes(out, base+".kind", pn.Schema.Kind.String())
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetBytes(out, base+".direction", pn.Direction.String())
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetBytes(out, base+".iteration", pn.Iteration)
		if err != nil {
			return nil, err
		}
		if pn.Schema.Kind == statemachine.KindElement && pn.Schema.Element != nil {
			name := pn.Schema.Element.Name
			out, err = sjson.SetBytes(out, base+".name", name.Local)
			if err != nil {
				return nil, err
			}
			if !name.Namespace.IsEmpty() {
				out, err = sjson.SetBytes(out, base+".namespace", name.Namespace.String())
				if err != nil {
					return nil, err
				}
			}
		}
		i++
	}
	return out, nil
}
