package schema

import (
	"sort"

	"github.com/reoring/uiskema"
	js "github.com/reoring/uiskema/jsonschema"
)

// Field is one declared key of an object schema.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Default     any
	HasDefault  bool
	Description string
}

type objRefine struct {
	name string
	fn   func(*uiskema.Props) error
}

// ObjectType validates a JSON object against an ordered list of fields.
// Undeclared keys are handled according to its Policy.
type ObjectType struct {
	fields  []Field
	index   map[string]int
	policy  uiskema.Policy
	refines []objRefine
}

var _ Type = (*ObjectType)(nil)

func (*ObjectType) Kind() Kind { return KindObject }

// Fields returns the declared fields in declaration order.
func (o *ObjectType) Fields() []Field { return append([]Field(nil), o.fields...) }

// Field looks up a declared field by name.
func (o *ObjectType) Field(name string) (Field, bool) {
	i, ok := o.index[name]
	if !ok {
		return Field{}, false
	}
	return o.fields[i], true
}

// Policy reports how undeclared keys are treated.
func (o *ObjectType) Policy() uiskema.Policy { return o.policy }

// Rules returns the names of the object-level refinements.
func (o *ObjectType) Rules() []string {
	if len(o.refines) == 0 {
		return nil
	}
	out := make([]string, len(o.refines))
	for i, r := range o.refines {
		out[i] = r.name
	}
	return out
}

// CheckProps validates v and returns the normalized props: declared keys in
// declaration order with defaults applied, followed by passed-through keys
// in sorted order. The props are returned even when diagnostics are present.
func (o *ObjectType) CheckProps(env *Env, v any, at uiskema.PathRef) (*uiskema.Props, uiskema.Diagnostics) {
	if env == nil {
		env = &Env{}
	}
	out, ds := o.check(env, v, at)
	p, _ := out.(*uiskema.Props)
	return p, ds
}

func (o *ObjectType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	src, ok := asObject(v)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "object", v)}
	}
	out := uiskema.NewProps(len(src))
	var ds uiskema.Diagnostics
	for _, f := range o.fields {
		val, present := src[f.Name]
		if !present {
			switch {
			case f.HasDefault:
				out.Set(f.Name, Clone(f.Default))
			case f.Required:
				ds = uiskema.AppendDiagnostics(ds, env.diag(at.Field(f.Name), uiskema.CodeMissingRequiredProp,
					map[string]string{"key": quote(f.Name)},
					map[string]any{"key": f.Name}))
			}
			continue
		}
		nv, fds := f.Type.check(env, val, at.Field(f.Name))
		if len(fds) > 0 {
			ds = uiskema.AppendDiagnostics(ds, fds...)
			continue
		}
		out.Set(f.Name, nv)
	}

	unknown := make([]string, 0, len(src))
	for k := range src {
		if _, declared := o.index[k]; !declared {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		switch o.policy {
		case uiskema.PolicyOpen:
			out.Set(k, Clone(src[k]))
		case uiskema.PolicyStrip:
		default:
			ds = uiskema.AppendDiagnostics(ds, env.diag(at.Field(k), uiskema.CodeUnknownProp,
				map[string]string{"key": quote(k)},
				map[string]any{"key": k, "allowed": o.names()}))
		}
	}

	if len(ds) == 0 {
		for _, r := range o.refines {
			if err := r.fn(out); err != nil {
				ds = uiskema.AppendDiagnostics(ds, env.diag(at, uiskema.CodeRefinementFailed,
					map[string]string{"rule": err.Error()},
					map[string]any{"rule": r.name}))
			}
		}
	}
	return out, ds
}

func (o *ObjectType) names() []string {
	out := make([]string, len(o.fields))
	for i, f := range o.fields {
		out[i] = f.Name
	}
	return out
}

func (o *ObjectType) describe() string { return "object" }

func (o *ObjectType) jsonSchema(env *Env) *js.Schema {
	s := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(o.fields))}
	for _, f := range o.fields {
		fs := f.Type.jsonSchema(env)
		if f.Description != "" {
			fs.Description = f.Description
		}
		if f.HasDefault {
			fs.Default = f.Default
		}
		s.Properties[f.Name] = fs
		if f.Required && !f.HasDefault {
			s.Required = append(s.Required, f.Name)
		}
	}
	if o.policy == uiskema.PolicyClosed {
		s.AdditionalProperties = false
	}
	return s
}
