package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/reoring/uiskema"
)

// typeName names the JSON type of v for diagnostics.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any, *uiskema.Props:
		return "object"
	}
	if _, ok := asNumber(v); ok {
		return "number"
	}
	if _, ok := asArray(v); ok {
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

// asNumber accepts Go numeric kinds and decoded JSON number literals. Strings are never
// numbers, even when they look like one.
func asNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case interface{ Float64() (float64, error) }:
		// json.Number from either decoder.
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case *uiskema.Props:
		if t == nil {
			return nil, false
		}
		return t.ToMap(), true
	}
	return nil, false
}

func asArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Clone deep-copies JSON-like values so that defaults and pass-through
// values in a validated tree never alias the schema or the caller's input.
// Props bags are flattened into plain maps first.
func Clone(v any) any {
	switch t := v.(type) {
	case *uiskema.Props:
		return Clone(t.ToMap())
	case map[string]any:
		var out map[string]any
		if err := deepcopy.Copy(&out, t); err != nil {
			return t
		}
		return out
	case []any:
		var out []any
		if err := deepcopy.Copy(&out, t); err != nil {
			return t
		}
		return out
	default:
		return v
	}
}

func quote(s string) string { return strconv.Quote(s) }

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = quote(s)
	}
	return strings.Join(q, ", ")
}

func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return quote(s)
	}
	if v == nil {
		return "null"
	}
	return typeName(v)
}
