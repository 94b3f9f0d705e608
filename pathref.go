package uiskema

import (
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way. The zero value is the
// document root ("/").
type PathRef struct {
	parts []string
}

// Root returns the root pointer.
func Root() PathRef { return PathRef{} }

// ParsePointer converts a rendered pointer back into a PathRef. Segments are
// kept in their escaped form.
func ParsePointer(ptr string) PathRef {
	if ptr == "" || ptr == "/" {
		return PathRef{}
	}
	return PathRef{parts: strings.Split(strings.TrimPrefix(ptr, "/"), "/")}
}

// Field appends an object key, escaping '~' and '/' per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return p.with(esc)
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef { return p.with(strconv.Itoa(i)) }

// Join appends every segment of other below p.
func (p PathRef) Join(other PathRef) PathRef {
	if len(other.parts) == 0 {
		return p
	}
	parts := make([]string, 0, len(p.parts)+len(other.parts))
	parts = append(parts, p.parts...)
	return PathRef{parts: append(parts, other.parts...)}
}

// Depth reports the number of segments.
func (p PathRef) Depth() int { return len(p.parts) }

// Pointer renders the path ("/" for the root).
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p PathRef) String() string { return p.Pointer() }

// Diag creates a Diagnostic at p.
func (p PathRef) Diag(code Code, msg string, params map[string]any) Diagnostic {
	return Diagnostic{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

func (p PathRef) with(seg string) PathRef {
	parts := make([]string, 0, len(p.parts)+1)
	parts = append(parts, p.parts...)
	return PathRef{parts: append(parts, seg)}
}
