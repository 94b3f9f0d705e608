package schema

import (
	"slices"
	"strings"

	"github.com/reoring/uiskema"
	js "github.com/reoring/uiskema/jsonschema"
)

// unionType tries its alternatives in declared order; the first one that
// matches without diagnostics wins. Values are never coerced between
// alternatives.
type unionType struct {
	alts []Type
}

// Union accepts a value matching any of alts.
func Union(alts ...Type) Type { return unionType{alts: append([]Type(nil), alts...)} }

func (unionType) Kind() Kind { return KindUnion }

func (u unionType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	for _, alt := range u.alts {
		if out, ds := alt.check(env, v, at); len(ds) == 0 {
			return out, nil
		}
	}
	return nil, uiskema.Diagnostics{env.invalidType(at, u.describe(), v)}
}

func (u unionType) describe() string {
	parts := make([]string, len(u.alts))
	for i, a := range u.alts {
		parts[i] = a.describe()
	}
	return strings.Join(parts, " | ")
}

func (u unionType) jsonSchema(env *Env) *js.Schema {
	s := &js.Schema{}
	for _, a := range u.alts {
		s.AnyOf = append(s.AnyOf, a.jsonSchema(env))
	}
	return s
}

// Variant binds one or more discriminator values to an object schema.
type Variant struct {
	Tags   []string
	Object *ObjectType
}

// taggedType is a discriminated union over objects: the discriminator key
// selects the variant, whose diagnostics are then reported in full.
type taggedType struct {
	discriminator string
	variants      []Variant
	byTag         map[string]*ObjectType
	defaultTag    string
}

// Tagged builds a discriminated union keyed by discriminator. Each variant
// object declares the discriminator itself, usually as an Enum of its tags.
// Tags must be unique across variants; Tagged panics otherwise.
func Tagged(discriminator string, variants ...Variant) *TaggedBuilder {
	t := &taggedType{discriminator: discriminator, byTag: map[string]*ObjectType{}}
	for _, v := range variants {
		for _, tag := range v.Tags {
			if _, dup := t.byTag[tag]; dup {
				panic("schema: duplicate variant tag " + quote(tag))
			}
			t.byTag[tag] = v.Object
		}
		t.variants = append(t.variants, v)
	}
	return &TaggedBuilder{t: t}
}

// Variants returns the discriminator and variants of a Tagged union.
func Variants(t Type) (discriminator string, variants []Variant, ok bool) {
	tt, ok := t.(*taggedType)
	if !ok {
		return "", nil, false
	}
	return tt.discriminator, slices.Clone(tt.variants), true
}

// TaggedBuilder finishes a Tagged union.
type TaggedBuilder struct{ t *taggedType }

// DefaultTag selects the variant used when the discriminator is absent.
func (b *TaggedBuilder) DefaultTag(tag string) *TaggedBuilder {
	if _, ok := b.t.byTag[tag]; !ok {
		panic("schema: default tag " + quote(tag) + " has no variant")
	}
	b.t.defaultTag = tag
	return b
}

// Type returns the union as a Type.
func (b *TaggedBuilder) Type() Type { return b.t }

func (*taggedType) Kind() Kind { return KindTagged }

func (t *taggedType) tags() []string {
	var out []string
	for _, v := range t.variants {
		out = append(out, v.Tags...)
	}
	return out
}

func (t *taggedType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	m, ok := asObject(v)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "object", v)}
	}
	dv, present := m[t.discriminator]
	tag, _ := dv.(string)
	if !present {
		if t.defaultTag == "" {
			return nil, uiskema.Diagnostics{env.diag(at.Field(t.discriminator), uiskema.CodeMissingRequiredProp,
				map[string]string{"key": quote(t.discriminator)},
				map[string]any{"key": t.discriminator, "allowed": t.tags()})}
		}
		tag = t.defaultTag
		withTag := make(map[string]any, len(m)+1)
		for k, v := range m {
			withTag[k] = v
		}
		withTag[t.discriminator] = tag
		m = withTag
	}
	obj, known := t.byTag[tag]
	if !known || (present && dv == nil) {
		return nil, uiskema.Diagnostics{env.diag(at.Field(t.discriminator), uiskema.CodeInvalidEnumValue,
			map[string]string{"got": renderValue(dv), "allowed": quoteAll(t.tags())},
			map[string]any{"got": dv, "allowed": t.tags()})}
	}
	return obj.check(env, m, at)
}

func (t *taggedType) describe() string {
	return "object tagged by " + quote(t.discriminator) + " (" + strings.Join(quoteEach(t.tags()), " | ") + ")"
}

func (t *taggedType) jsonSchema(env *Env) *js.Schema {
	s := &js.Schema{Type: "object"}
	for _, v := range t.variants {
		s.OneOf = append(s.OneOf, v.Object.jsonSchema(env))
	}
	return s
}
