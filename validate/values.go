package validate

import (
	"reflect"

	"github.com/reoring/uiskema"
)

func isObject(v any) bool {
	switch v.(type) {
	case map[string]any, *uiskema.Props:
		return true
	}
	return false
}

// asChildren lists the items of a children value. Typed slices such as
// []ElementNode are accepted along with decoded []any.
func asChildren(v any) ([]any, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case []any:
		return c, true
	case []uiskema.ElementNode:
		out := make([]any, len(c))
		for i := range c {
			out[i] = c[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(c))
		for i := range c {
			out[i] = c[i]
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any, *uiskema.Props:
		return "object"
	case []any:
		return "array"
	case float64, float32, int, int64, int32, interface{ Float64() (float64, error) }:
		return "number"
	}
	if reflect.ValueOf(v).Kind() == reflect.Slice {
		return "array"
	}
	return "value"
}
