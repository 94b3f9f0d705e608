package uiskema

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of a Diagnostic.
type Code string

// Diagnostic codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnknownComponentType            Code = "unknown_component_type"
	CodeMissingRequiredProp             Code = "missing_required_prop"
	CodeUnknownProp                     Code = "unknown_prop"
	CodeInvalidPropType                 Code = "invalid_prop_type"
	CodeInvalidEnumValue                Code = "invalid_enum_value"
	CodeChildrenNotAllowed              Code = "children_not_allowed"
	CodeChildrenRequiredButMissingArray Code = "children_required_but_missing_array"
	CodeUnknownAction                   Code = "unknown_action"
	CodeMaxDepthExceeded                Code = "max_depth_exceeded"
	CodeRefinementFailed                Code = "refinement_failed"
	// Document-level problems found before the tree is walked.
	CodeInvalidNode  Code = "invalid_node"
	CodeParseError   Code = "parse_error"
	CodeDuplicateKey Code = "duplicate_key"
	CodeTooLarge     Code = "too_large"
)

// Diagnostic is a single path-addressed validation failure.
type Diagnostic struct {
	Path    string `json:"path" yaml:"path"` // JSON Pointer (for example: /children/2/props/format).
	Code    Code   `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Hint    string `json:"hint,omitempty" yaml:"hint,omitempty"`
	// Params carries structured correction data such as {"allowed": [...], "got": "x"}.
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Diagnostics is a collection of validation failures that implements error.
type Diagnostics []Diagnostic

// Error summarizes the first few diagnostics.
func (ds Diagnostics) Error() string {
	if len(ds) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ds)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. unknown_prop at /props/extra
		fmt.Fprintf(b, "%s at %s", ds[i].Code, ds[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes returns the code of every entry, in order.
func (ds Diagnostics) Codes() []Code {
	out := make([]Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

// Has reports whether any entry carries code at path.
func (ds Diagnostics) Has(code Code, path string) bool {
	for _, d := range ds {
		if d.Code == code && d.Path == path {
			return true
		}
	}
	return false
}

// AppendDiagnostics appends diagnostics to the destination, initializing the
// slice when needed.
func AppendDiagnostics(dst Diagnostics, more ...Diagnostic) Diagnostics {
	if dst == nil {
		dst = Diagnostics{}
	}
	return append(dst, more...)
}

// AsDiagnostics extracts Diagnostics from an error using errors.As internally.
func AsDiagnostics(err error) (Diagnostics, bool) {
	if err == nil {
		return nil, false
	}
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds, true
	}
	return nil, false
}
