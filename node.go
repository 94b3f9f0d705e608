package uiskema

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

// ElementNode is an untrusted, generator-produced node of a UI document.
// Children is kept untyped because generators get it wrong: a well-formed
// node carries []any, []map[string]any or []ElementNode; anything else is
// reported by the tree validator.
type ElementNode struct {
	Type     string         `json:"type" yaml:"type"`
	Props    map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Children any            `json:"children,omitempty" yaml:"children,omitempty"`
}

// ValidatedNode is the canonical output of a successful validation: props
// are normalized (defaults applied, declared order) and every child has been
// validated against its own component contract.
type ValidatedNode struct {
	Type     string          `json:"type" yaml:"type"`
	Props    *Props          `json:"props" yaml:"props"`
	Children []ValidatedNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Element converts the node back into its input shape, so that it can be
// validated again.
func (n ValidatedNode) Element() ElementNode {
	el := ElementNode{Type: n.Type, Props: n.Props.ToMap()}
	if len(n.Children) > 0 {
		children := make([]ElementNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = c.Element()
		}
		el.Children = children
	}
	return el
}

// Document is a validated UI document: one root, or several when the input
// was a JSON array.
type Document struct {
	Roots []ValidatedNode
	Multi bool
}

// Root returns the first root; a valid document always has one.
func (d Document) Root() ValidatedNode {
	if len(d.Roots) == 0 {
		return ValidatedNode{}
	}
	return d.Roots[0]
}

// Elements converts every root back into its input shape.
func (d Document) Elements() []ElementNode {
	out := make([]ElementNode, len(d.Roots))
	for i, r := range d.Roots {
		out[i] = r.Element()
	}
	return out
}

// MarshalJSON emits a single object, or an array for multi-root documents.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Multi {
		roots := d.Roots
		if roots == nil {
			roots = []ValidatedNode{}
		}
		return json.Marshal(roots)
	}
	return json.Marshal(d.Root())
}

// MarshalYAML mirrors MarshalJSON.
func (d Document) MarshalYAML() (any, error) {
	if d.Multi {
		return d.Roots, nil
	}
	return d.Root(), nil
}

// Canonical returns the compact canonical JSON encoding of the document.
func (d Document) Canonical() ([]byte, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Compact(&out, b); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Hash is the xxhash of the canonical encoding. Equal documents hash equally
// across processes, which makes it usable as a render cache key.
func (d Document) Hash() (uint64, error) {
	b, err := d.Canonical()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}
