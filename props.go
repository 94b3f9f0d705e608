package uiskema

import (
	"bytes"
	"reflect"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Props is a normalized property bag. Keys keep the order in which they were
// set, which for validated output is the schema-declared order followed by
// pass-through keys sorted by name. JSON and YAML encoding honor that order.
type Props struct {
	keys   []string
	values map[string]any
}

// NewProps returns an empty bag with room for n keys.
func NewProps(n int) *Props {
	return &Props{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores v under k, appending k when it is new.
func (p *Props) Set(k string, v any) {
	if p.values == nil {
		p.values = map[string]any{}
	}
	if _, ok := p.values[k]; !ok {
		p.keys = append(p.keys, k)
	}
	p.values[k] = v
}

// Get returns the value stored under k.
func (p *Props) Get(k string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[k]
	return v, ok
}

// Len reports the number of keys.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in order.
func (p *Props) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Range calls fn for every key in order until fn returns false.
func (p *Props) Range(fn func(k string, v any) bool) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

// ToMap converts the bag (and any nested bags) into plain maps.
func (p *Props) ToMap() map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p.keys))
	for _, k := range p.keys {
		out[k] = plainValue(p.values[k])
	}
	return out
}

// Equal reports whether both bags hold the same keys in the same order with
// deeply equal values.
func (p *Props) Equal(o *Props) bool {
	if p.Len() != o.Len() {
		return false
	}
	if p.Len() == 0 {
		return true
	}
	for i, k := range p.keys {
		if o.keys[i] != k {
			return false
		}
	}
	return reflect.DeepEqual(p.values, o.values)
}

// MarshalJSON encodes the bag as a JSON object in key order.
func (p *Props) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the bag as a YAML mapping in key order.
func (p *Props) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return n, nil
	}
	for _, k := range p.keys {
		var kn, vn yaml.Node
		if err := kn.Encode(k); err != nil {
			return nil, err
		}
		if err := vn.Encode(p.values[k]); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &kn, &vn)
	}
	return n, nil
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Props:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}
