package schema

import (
	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/i18n"
	js "github.com/reoring/uiskema/jsonschema"
)

// Kind identifies a node of the prop schema algebra.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindEnum
	KindLiteral
	KindUnion
	KindObject
	KindArray
	KindRecord
	KindAny
	KindAction
	KindTagged
)

// Type describes the accepted shape of one prop value. Implementations live
// in this package only; build them with the constructors.
type Type interface {
	Kind() Kind
	check(env *Env, v any, at uiskema.PathRef) (any, uiskema.Diagnostics)
	describe() string
	jsonSchema(env *Env) *js.Schema
}

// ActionSet resolves action references.
type ActionSet interface {
	IsValidAction(name string) bool
	Names() []string
}

// Env carries what a type check needs besides the value: the action
// registry and the message translator. A nil Env rejects every action.
type Env struct {
	Actions  ActionSet
	Messages i18n.Translator
}

// Check validates and normalizes v against t. Diagnostics are addressed
// below at.
func Check(env *Env, t Type, v any, at uiskema.PathRef) (any, uiskema.Diagnostics) {
	if env == nil {
		env = &Env{}
	}
	return t.check(env, v, at)
}

// Describe renders t in the short form used by diagnostics and manifests,
// e.g. "number | string".
func Describe(t Type) string { return t.describe() }

// JSONSchema projects t into JSON Schema. Action references are enumerated
// from env when it has an action registry.
func JSONSchema(env *Env, t Type) *js.Schema {
	if env == nil {
		env = &Env{}
	}
	return t.jsonSchema(env)
}

func (e *Env) message(code uiskema.Code, data map[string]string) string {
	if e.Messages != nil {
		return e.Messages.Message(string(code), data)
	}
	return i18n.T(string(code), data)
}

func (e *Env) diag(at uiskema.PathRef, code uiskema.Code, data map[string]string, params map[string]any) uiskema.Diagnostic {
	return at.Diag(code, e.message(code, data), params)
}

func (e *Env) invalidType(at uiskema.PathRef, expected string, v any) uiskema.Diagnostic {
	got := typeName(v)
	return e.diag(at, uiskema.CodeInvalidPropType,
		map[string]string{"expected": expected, "got": got},
		map[string]any{"expected": expected, "got": got})
}

func (e *Env) actionNames() []string {
	if e.Actions == nil {
		return nil
	}
	return e.Actions.Names()
}
