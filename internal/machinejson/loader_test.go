package machinejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xsdpath/internal/model"
	"github.com/jacoelho/xsdpath/internal/occurs"
	"github.com/jacoelho/xsdpath/internal/statemachine"
)

func TestLoadBasicMachine(t *testing.T) {
	data := []byte(`{
		"target": "urn:root",
		"root": {
			"kind": "element",
			"name": {"ns": "urn:root", "local": "root"},
			"children": [{
				"kind": "sequence",
				"children": [
					{
						"kind": "choice", "min": 0, "max": "unbounded",
						"children": [
							{"kind": "element", "name": "A"},
							{"kind": "element", "name": "B", "content": "simple", "nillable": true}
						]
					},
					{"kind": "any", "namespace": "##other", "min": 0, "max": 1}
				]
			}]
		}
	}`)

	m, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, model.NamespaceURI("urn:root"), m.Target)

	root := m.Root
	require.Equal(t, statemachine.KindElement, root.Kind)
	assert.Equal(t, model.QName{Namespace: "urn:root", Local: "root"}, root.Element.Name)
	assert.Equal(t, occurs.Occurs(1), root.MinOccurs)

	seq := root.ContentModel()
	require.NotNil(t, seq)
	require.Equal(t, statemachine.KindSequence, seq.Kind)
	require.Len(t, seq.Next, 2)

	choice := seq.Next[0]
	assert.Equal(t, statemachine.KindChoice, choice.Kind)
	assert.Equal(t, occurs.Occurs(0), choice.MinOccurs)
	assert.Equal(t, occurs.Unbounded, choice.MaxOccurs)
	require.Len(t, choice.Next, 2)
	assert.Equal(t, "A", choice.Next[0].Element.Name.Local)
	assert.Equal(t, statemachine.ContentSimple, choice.Next[1].Element.Content)
	assert.True(t, choice.Next[1].Element.Nillable)

	wildcard := seq.Next[1]
	require.Equal(t, statemachine.KindAny, wildcard.Kind)
	assert.Equal(t, statemachine.NSCOther, wildcard.Wildcard.Namespace)
	assert.Equal(t, model.NamespaceURI("urn:root"), wildcard.Wildcard.TargetNamespace)
}

func TestLoadRecursiveModel(t *testing.T) {
	data := []byte(`{
		"defs": {
			"item": {
				"kind": "element",
				"name": "item",
				"children": [{
					"kind": "sequence",
					"children": [{"ref": "item", "min": 0}]
				}]
			}
		},
		"root": {
			"kind": "element",
			"name": "root",
			"children": [{
				"kind": "sequence",
				"children": [{"ref": "item"}]
			}]
		}
	}`)

	m, err := Load(data)
	require.NoError(t, err)

	item := m.Root.ContentModel().Next[0]
	require.Equal(t, statemachine.KindElement, item.Kind)
	assert.Equal(t, "item", item.Element.Name.Local)

	// the definition refers back to itself
	inner := item.ContentModel().Next[0]
	assert.Same(t, item, inner)
}

func TestLoadDefaultsAndValues(t *testing.T) {
	data := []byte(`{
		"root": {
			"kind": "element",
			"name": "root",
			"children": [{
				"kind": "sequence",
				"children": [
					{"kind": "element", "name": "a", "content": "simple", "default": "x"},
					{"kind": "element", "name": "b", "content": "simple", "fixed": "y"}
				]
			}]
		}
	}`)

	m, err := Load(data)
	require.NoError(t, err)
	seq := m.Root.ContentModel()
	assert.True(t, seq.Next[0].Element.HasDefault)
	assert.Equal(t, "x", seq.Next[0].Element.Default)
	assert.True(t, seq.Next[1].Element.HasFixed)
	assert.Equal(t, "y", seq.Next[1].Element.Fixed)
}

func TestLoadWildcardList(t *testing.T) {
	data := []byte(`{
		"target": "urn:t",
		"root": {
			"kind": "element",
			"name": "root",
			"children": [{
				"kind": "sequence",
				"children": [{"kind": "any", "namespace": ["urn:a", "##targetNamespace"]}]
			}]
		}
	}`)

	m, err := Load(data)
	require.NoError(t, err)
	w := m.Root.ContentModel().Next[0].Wildcard
	require.Equal(t, statemachine.NSCList, w.Namespace)
	assert.Len(t, w.NamespaceList, 2)
	assert.True(t, w.Allows("urn:a", ""))
	assert.True(t, w.Allows("urn:t", ""))
	assert.False(t, w.Allows("urn:z", ""))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{`, "not valid JSON"},
		{"no root", `{"defs": {}}`, "no root"},
		{"unknown kind", `{"root": {"kind": "mystery"}}`, "unknown kind"},
		{"missing kind", `{"root": {"name": "x"}}`, "no kind"},
		{"element without name", `{"root": {"kind": "element"}}`, "no name"},
		{
			"group without children",
			`{"root": {"kind": "element", "name": "r", "children": [{"kind": "sequence"}]}}`,
			"no children",
		},
		{
			"dangling ref",
			`{"root": {"kind": "element", "name": "r", "children": [{"kind": "sequence", "children": [{"ref": "ghost"}]}]}}`,
			"no def",
		},
		{
			"bad max",
			`{"root": {"kind": "element", "name": "r", "max": "lots"}}`,
			"invalid max",
		},
		{
			"min above max",
			`{"root": {"kind": "element", "name": "r", "min": 3, "max": 2}}`,
			"above max",
		},
		{
			"bad wildcard namespace",
			`{"root": {"kind": "element", "name": "r", "children": [{"kind": "sequence", "children": [{"kind": "any", "namespace": "##everything"}]}]}}`,
			"wildcard namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
