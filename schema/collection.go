package schema

import (
	"sort"

	"github.com/reoring/uiskema"
	js "github.com/reoring/uiskema/jsonschema"
)

type arrayType struct{ elem Type }

type recordType struct{ value Type }

// Array accepts a JSON array whose items all match elem.
func Array(elem Type) Type { return arrayType{elem: elem} }

// Record accepts a JSON object with arbitrary keys whose values match value.
// Keys keep sorted order in the normalized output.
func Record(value Type) Type { return recordType{value: value} }

func (arrayType) Kind() Kind { return KindArray }

func (a arrayType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	items, ok := asArray(v)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, a.describe(), v)}
	}
	out := make([]any, 0, len(items))
	var ds uiskema.Diagnostics
	for i, it := range items {
		nv, ids := a.elem.check(env, it, at.Index(i))
		if len(ids) > 0 {
			ds = uiskema.AppendDiagnostics(ds, ids...)
			continue
		}
		out = append(out, nv)
	}
	return out, ds
}

func (a arrayType) describe() string { return "array of " + a.elem.describe() }

func (a arrayType) jsonSchema(env *Env) *js.Schema {
	return &js.Schema{Type: "array", Items: a.elem.jsonSchema(env)}
}

func (recordType) Kind() Kind { return KindRecord }

func (r recordType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	src, ok := asObject(v)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "object", v)}
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := uiskema.NewProps(len(keys))
	var ds uiskema.Diagnostics
	for _, k := range keys {
		nv, kds := r.value.check(env, src[k], at.Field(k))
		if len(kds) > 0 {
			ds = uiskema.AppendDiagnostics(ds, kds...)
			continue
		}
		out.Set(k, nv)
	}
	return out, ds
}

func (r recordType) describe() string { return "record of " + r.value.describe() }

func (r recordType) jsonSchema(env *Env) *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: r.value.jsonSchema(env)}
}

// Elem returns the item type of an Array or the value type of a Record.
func Elem(t Type) (Type, bool) {
	switch c := t.(type) {
	case arrayType:
		return c.elem, true
	case recordType:
		return c.value, true
	}
	return nil, false
}
