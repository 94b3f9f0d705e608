package schema

import (
	"errors"
	"fmt"

	"github.com/reoring/uiskema"
)

// ObjectBuilder assembles an ObjectType. Fields keep their declaration
// order, which is the order of normalized props and of diagnostics.
type ObjectBuilder struct {
	fields  []Field
	policy  uiskema.Policy
	refines []objRefine
}

// FieldStep configures the field most recently added to a builder.
type FieldStep struct {
	b *ObjectBuilder
	i int
}

// Object starts an object schema. Undeclared keys are rejected unless Open
// or Strip is selected.
func Object() *ObjectBuilder {
	return &ObjectBuilder{policy: uiskema.PolicyClosed}
}

// Field declares an optional field of type t.
func (b *ObjectBuilder) Field(name string, t Type) *FieldStep {
	b.fields = append(b.fields, Field{Name: name, Type: t})
	return &FieldStep{b: b, i: len(b.fields) - 1}
}

// Closed rejects undeclared keys with unknown_prop.
func (b *ObjectBuilder) Closed() *ObjectBuilder { b.policy = uiskema.PolicyClosed; return b }

// Open keeps undeclared keys unvalidated.
func (b *ObjectBuilder) Open() *ObjectBuilder { b.policy = uiskema.PolicyOpen; return b }

// Strip silently drops undeclared keys.
func (b *ObjectBuilder) Strip() *ObjectBuilder { b.policy = uiskema.PolicyStrip; return b }

// Refine adds an object-level rule. Rules run in order, only when every
// field validated cleanly; a non-nil error becomes refinement_failed.
func (b *ObjectBuilder) Refine(name string, fn func(*uiskema.Props) error) *ObjectBuilder {
	if fn != nil {
		b.refines = append(b.refines, objRefine{name: name, fn: fn})
	}
	return b
}

// Build checks the declaration and returns the schema. Duplicate field
// names and defaults that do not satisfy their own field type are errors.
func (b *ObjectBuilder) Build() (*ObjectType, error) {
	o := &ObjectType{
		fields:  append([]Field(nil), b.fields...),
		index:   make(map[string]int, len(b.fields)),
		policy:  b.policy,
		refines: append([]objRefine(nil), b.refines...),
	}
	var errs []error
	for i, f := range o.fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field %d: empty name", i))
			continue
		}
		if f.Type == nil {
			errs = append(errs, fmt.Errorf("field %q: nil type", f.Name))
			continue
		}
		if _, dup := o.index[f.Name]; dup {
			errs = append(errs, fmt.Errorf("field %q: declared twice", f.Name))
			continue
		}
		o.index[f.Name] = i
		if f.HasDefault {
			if _, ds := Check(nil, f.Type, f.Default, uiskema.Root().Field(f.Name)); len(ds) > 0 && f.Type.Kind() != KindAction {
				errs = append(errs, fmt.Errorf("field %q: default: %w", f.Name, ds))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return o, nil
}

// MustBuild is Build that panics on error.
func (b *ObjectBuilder) MustBuild() *ObjectType {
	o, err := b.Build()
	if err != nil {
		panic(err)
	}
	return o
}

// Required marks the field as required.
func (f *FieldStep) Required() *ObjectBuilder {
	f.b.fields[f.i].Required = true
	return f.b
}

// Optional marks the field as optional, which is the default.
func (f *FieldStep) Optional() *ObjectBuilder {
	f.b.fields[f.i].Required = false
	return f.b
}

// Default sets the value used when the field is absent. A field with a
// default is always satisfied, even when it is also required.
func (f *FieldStep) Default(v any) *ObjectBuilder {
	f.b.fields[f.i].Default = v
	f.b.fields[f.i].HasDefault = true
	return f.b
}

// Describe attaches a human readable description used by manifests.
func (f *FieldStep) Describe(text string) *FieldStep {
	f.b.fields[f.i].Description = text
	return f
}

func (f *FieldStep) Field(name string, t Type) *FieldStep { return f.b.Field(name, t) }
func (f *FieldStep) Closed() *ObjectBuilder               { return f.b.Closed() }
func (f *FieldStep) Open() *ObjectBuilder                 { return f.b.Open() }
func (f *FieldStep) Strip() *ObjectBuilder                { return f.b.Strip() }
func (f *FieldStep) Refine(name string, fn func(*uiskema.Props) error) *ObjectBuilder {
	return f.b.Refine(name, fn)
}
func (f *FieldStep) Build() (*ObjectType, error) { return f.b.Build() }
func (f *FieldStep) MustBuild() *ObjectType      { return f.b.MustBuild() }
