package schema

import (
	"slices"
	"strings"

	"github.com/reoring/uiskema"
	js "github.com/reoring/uiskema/jsonschema"
)

type stringType struct{}

type numberType struct{}

type boolType struct{}

type anyType struct{}

type actionType struct{}

// String accepts JSON strings.
func String() Type { return stringType{} }

// Number accepts JSON numbers. Numeric strings are rejected.
func Number() Type { return numberType{} }

// Bool accepts JSON booleans.
func Bool() Type { return boolType{} }

// Any accepts every value unvalidated; containers are copied.
func Any() Type { return anyType{} }

// ActionRef accepts the name of a registered action.
func ActionRef() Type { return actionType{} }

func (stringType) Kind() Kind { return KindString }
func (stringType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	s, ok := v.(string)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "string", v)}
	}
	return s, nil
}
func (stringType) describe() string           { return "string" }
func (stringType) jsonSchema(*Env) *js.Schema { return &js.Schema{Type: "string"} }

func (numberType) Kind() Kind { return KindNumber }
func (numberType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	if _, ok := asNumber(v); !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "number", v)}
	}
	return v, nil
}
func (numberType) describe() string           { return "number" }
func (numberType) jsonSchema(*Env) *js.Schema { return &js.Schema{Type: "number"} }

func (boolType) Kind() Kind { return KindBool }
func (boolType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	b, ok := v.(bool)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "boolean", v)}
	}
	return b, nil
}
func (boolType) describe() string           { return "boolean" }
func (boolType) jsonSchema(*Env) *js.Schema { return &js.Schema{Type: "boolean"} }

func (anyType) Kind() Kind { return KindAny }
func (anyType) check(_ *Env, v any, _ uiskema.PathRef) (any, uiskema.Diagnostics) {
	return Clone(v), nil
}
func (anyType) describe() string           { return "any" }
func (anyType) jsonSchema(*Env) *js.Schema { return &js.Schema{} }

func (actionType) Kind() Kind { return KindAction }
func (actionType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	name, ok := v.(string)
	if !ok {
		return nil, uiskema.Diagnostics{env.invalidType(at, "action name", v)}
	}
	if env.Actions == nil || !env.Actions.IsValidAction(name) {
		allowed := env.actionNames()
		return nil, uiskema.Diagnostics{env.diag(at, uiskema.CodeUnknownAction,
			map[string]string{"got": quote(name)},
			map[string]any{"got": name, "allowed": allowed})}
	}
	return name, nil
}
func (actionType) describe() string { return "action" }
func (actionType) jsonSchema(env *Env) *js.Schema {
	s := &js.Schema{Type: "string", Description: "registered action name"}
	for _, n := range env.actionNames() {
		s.Enum = append(s.Enum, n)
	}
	return s
}

// enumType accepts one of a fixed set of strings.
type enumType struct {
	values []string
}

// Enum accepts exactly one of values.
func Enum(values ...string) Type {
	return enumType{values: append([]string(nil), values...)}
}

// Literal accepts exactly value. It is the tag of a Tagged variant.
func Literal(value string) Type { return literalType{value: value} }

func (enumType) Kind() Kind { return KindEnum }
func (e enumType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	s, ok := v.(string)
	if ok && slices.Contains(e.values, s) {
		return s, nil
	}
	return nil, uiskema.Diagnostics{env.diag(at, uiskema.CodeInvalidEnumValue,
		map[string]string{"got": renderValue(v), "allowed": quoteAll(e.values)},
		map[string]any{"got": v, "allowed": append([]string(nil), e.values...)})}
}
func (e enumType) describe() string { return strings.Join(quoteEach(e.values), " | ") }
func (e enumType) jsonSchema(*Env) *js.Schema {
	s := &js.Schema{Type: "string"}
	for _, v := range e.values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

// Values returns the accepted strings.
func (e enumType) Values() []string { return append([]string(nil), e.values...) }

type literalType struct {
	value string
}

func (literalType) Kind() Kind { return KindLiteral }
func (l literalType) check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	if s, ok := v.(string); ok && s == l.value {
		return s, nil
	}
	return nil, uiskema.Diagnostics{env.diag(at, uiskema.CodeInvalidEnumValue,
		map[string]string{"got": renderValue(v), "allowed": quote(l.value)},
		map[string]any{"got": v, "allowed": []string{l.value}})}
}
func (l literalType) describe() string           { return quote(l.value) }
func (l literalType) jsonSchema(*Env) *js.Schema { return &js.Schema{Type: "string", Const: l.value} }

// Values returns the single accepted string.
func (l literalType) Values() []string { return []string{l.value} }

// EnumValues returns the accepted strings of an Enum or Literal type.
func EnumValues(t Type) ([]string, bool) {
	ev, ok := t.(interface{ Values() []string })
	if !ok {
		return nil, false
	}
	return ev.Values(), true
}

func quoteEach(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = quote(s)
	}
	return out
}
