package validate

import (
	"strconv"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/i18n"
)

// TreeValidator validates an element tree against a catalog, descending
// into every child. It collects every problem instead of stopping at the
// first one.
type TreeValidator struct {
	cat      *catalog.Catalog
	props    *PropValidator
	maxDepth int
	messages i18n.Translator
}

// NewTreeValidator returns a tree validator for cat.
func NewTreeValidator(cat *catalog.Catalog, opts ...Option) *TreeValidator {
	o := buildOptions(opts)
	pv := NewPropValidator(cat.Actions())
	msgs := o.messages
	if msgs == nil {
		msgs = cat.Env().Messages
	}
	if msgs != nil {
		pv = pv.WithMessages(msgs)
	}
	return &TreeValidator{cat: cat, props: pv, maxDepth: o.limits.MaxDepth, messages: msgs}
}

// ValidateTree validates node found at path, depth levels below the
// document root.
func (t *TreeValidator) ValidateTree(node uiskema.ElementNode, path uiskema.PathRef, depth int) uiskema.Result[uiskema.ValidatedNode] {
	out, ds := t.element(node.Type, true, propsOrNil(node.Props), node.Children, path, depth)
	if len(ds) > 0 {
		return uiskema.Invalid[uiskema.ValidatedNode](ds)
	}
	return uiskema.Valid(out)
}

// validateValue validates a decoded JSON value as an element.
func (t *TreeValidator) validateValue(v any, path uiskema.PathRef, depth int) (uiskema.ValidatedNode, uiskema.Diagnostics) {
	switch n := v.(type) {
	case uiskema.ElementNode:
		return t.element(n.Type, true, propsOrNil(n.Props), n.Children, path, depth)
	case *uiskema.ElementNode:
		if n != nil {
			return t.element(n.Type, true, propsOrNil(n.Props), n.Children, path, depth)
		}
	case map[string]any:
		typ, ok := n["type"].(string)
		return t.element(typ, ok, n["props"], n["children"], path, depth)
	}
	return uiskema.ValidatedNode{}, uiskema.Diagnostics{path.Diag(uiskema.CodeInvalidNode,
		t.message(uiskema.CodeInvalidNode, nil), nil)}
}

func propsOrNil(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

func (t *TreeValidator) element(typ string, typed bool, props, children any, path uiskema.PathRef, depth int) (uiskema.ValidatedNode, uiskema.Diagnostics) {
	spec, ok := t.cat.Lookup(typ)
	if !ok || !typed {
		return uiskema.ValidatedNode{}, uiskema.Diagnostics{path.Diag(uiskema.CodeUnknownComponentType,
			t.message(uiskema.CodeUnknownComponentType, map[string]string{"type": strconv.Quote(typ)}),
			map[string]any{"got": typ, "allowed": t.cat.Names()})}
	}

	if depth > t.maxDepth {
		return uiskema.ValidatedNode{}, uiskema.Diagnostics{path.Diag(uiskema.CodeMaxDepthExceeded,
			t.message(uiskema.CodeMaxDepthExceeded, map[string]string{"limit": strconv.Itoa(t.maxDepth)}),
			map[string]any{"limit": t.maxDepth, "depth": depth})}
	}

	out := uiskema.ValidatedNode{Type: spec.Name}
	var ds uiskema.Diagnostics
	if props == nil || isObject(props) {
		p, pds := t.props.Validate(spec, props, path)
		out.Props = p
		ds = uiskema.AppendDiagnostics(ds, pds...)
	} else {
		got := jsonType(props)
		ds = uiskema.AppendDiagnostics(ds, path.Field("props").Diag(uiskema.CodeInvalidPropType,
			t.message(uiskema.CodeInvalidPropType, map[string]string{"expected": "object", "got": got}),
			map[string]any{"expected": "object", "got": got}))
	}

	kids, isArray := asChildren(children)
	switch {
	case children == nil:
	case !spec.AllowsChildren && (!isArray || len(kids) > 0):
		ds = uiskema.AppendDiagnostics(ds, path.Diag(uiskema.CodeChildrenNotAllowed,
			t.message(uiskema.CodeChildrenNotAllowed, map[string]string{"type": strconv.Quote(spec.Name)}),
			map[string]any{"type": spec.Name}))
		kids = nil
	case spec.AllowsChildren && !isArray:
		ds = uiskema.AppendDiagnostics(ds, path.Field("children").Diag(uiskema.CodeChildrenRequiredButMissingArray,
			t.message(uiskema.CodeChildrenRequiredButMissingArray, map[string]string{"type": strconv.Quote(spec.Name)}),
			map[string]any{"type": spec.Name, "got": jsonType(children)}))
	}

	if len(kids) > 0 && depth >= t.maxDepth {
		ds = uiskema.AppendDiagnostics(ds, path.Field("children").Diag(uiskema.CodeMaxDepthExceeded,
			t.message(uiskema.CodeMaxDepthExceeded, map[string]string{"limit": strconv.Itoa(t.maxDepth)}),
			map[string]any{"limit": t.maxDepth}))
		return out, ds
	}
	for i, c := range kids {
		child, cds := t.validateValue(c, path.Field("children").Index(i), depth+1)
		if len(cds) > 0 {
			ds = uiskema.AppendDiagnostics(ds, cds...)
			continue
		}
		out.Children = append(out.Children, child)
	}
	if len(ds) > 0 {
		return uiskema.ValidatedNode{}, ds
	}
	return out, nil
}

func (t *TreeValidator) message(code uiskema.Code, data map[string]string) string {
	if t.messages != nil {
		return t.messages.Message(string(code), data)
	}
	return i18n.T(string(code), data)
}
