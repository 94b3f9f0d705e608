// Package schema is the prop schema algebra of a component catalog.
//
// A prop schema is built from primitives (String, Number, Bool, Any),
// enumerations (Enum, Literal), action references (ActionRef), containers
// (Array, Record, Object) and unions (Union, Tagged):
//
//	props := schema.Object().
//		Field("title", schema.String()).Required().
//		Field("value", schema.Union(schema.Number(), schema.String())).Required().
//		Field("format", schema.Enum("number", "currency", "percent")).Default("number").
//		MustBuild()
//
// Checking a value never coerces it: "42" is not a number. Diagnostics are
// collected for every problem and addressed with JSON Pointer paths.
package schema
