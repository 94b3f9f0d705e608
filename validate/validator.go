package validate

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/i18n"
	"github.com/reoring/uiskema/internal/jsondoc"
)

// Observer receives the outcome of every document validation.
type Observer interface {
	ObserveValidation(elapsed time.Duration, ds uiskema.Diagnostics)
}

// Validator decodes and validates whole UI documents. It is safe for
// concurrent use.
type Validator struct {
	tree     *TreeValidator
	limits   uiskema.ValidateOpt
	messages i18n.Translator
	log      *zap.Logger
	observer Observer
}

// New returns a Validator for cat.
func New(cat *catalog.Catalog, opts ...Option) *Validator {
	o := buildOptions(opts)
	tree := NewTreeValidator(cat, opts...)
	return &Validator{
		tree:     tree,
		limits:   o.limits,
		messages: tree.messages,
		log:      o.log,
		observer: o.observer,
	}
}

// Limits reports the effective limits.
func (v *Validator) Limits() uiskema.ValidateOpt { return v.limits }

// ValidateNode validates a single element tree rooted at "/".
func (v *Validator) ValidateNode(ctx context.Context, node uiskema.ElementNode) uiskema.Result[uiskema.ValidatedNode] {
	start := time.Now()
	res := v.tree.ValidateTree(node, uiskema.Root(), 0)
	v.done(ctx, start, 1, res.Diagnostics, nil)
	return res
}

// ValidateValue validates a decoded document: one element, or a non-empty
// array of elements.
func (v *Validator) ValidateValue(ctx context.Context, doc any) uiskema.Result[uiskema.Document] {
	start := time.Now()
	res, roots := v.document(doc)
	v.done(ctx, start, roots, res.Diagnostics, &res.Value)
	return res
}

// ValidateBytes decodes data as JSON and validates it.
func (v *Validator) ValidateBytes(ctx context.Context, data []byte) uiskema.Result[uiskema.Document] {
	start := time.Now()
	doc, ds := jsondoc.Decode(data, v.decodeOptions())
	if len(ds) > 0 {
		v.done(ctx, start, 0, ds, nil)
		return uiskema.Invalid[uiskema.Document](ds)
	}
	res, roots := v.document(doc)
	v.done(ctx, start, roots, res.Diagnostics, &res.Value)
	return res
}

// ValidateReader reads r up to the byte limit and validates its content.
func (v *Validator) ValidateReader(ctx context.Context, r io.Reader) uiskema.Result[uiskema.Document] {
	data, ds := jsondoc.ReadAll(r, v.decodeOptions())
	if len(ds) > 0 {
		v.done(ctx, time.Now(), 0, ds, nil)
		return uiskema.Invalid[uiskema.Document](ds)
	}
	return v.ValidateBytes(ctx, data)
}

func (v *Validator) decodeOptions() jsondoc.Options {
	return jsondoc.Options{
		MaxBytes:           v.limits.MaxBytes,
		MaxNesting:         v.limits.MaxNesting,
		AllowDuplicateKeys: v.limits.AllowDuplicateKeys,
		Messages:           v.messages,
	}
}

func (v *Validator) document(doc any) (uiskema.Result[uiskema.Document], int) {
	items, multi := asChildren(doc)
	if !multi {
		node, ds := v.tree.validateValue(doc, uiskema.Root(), 0)
		if len(ds) > 0 {
			return uiskema.Invalid[uiskema.Document](ds), 1
		}
		return uiskema.Valid(uiskema.Document{Roots: []uiskema.ValidatedNode{node}}), 1
	}
	if len(items) == 0 {
		return uiskema.Invalid[uiskema.Document](uiskema.Diagnostics{uiskema.Root().Diag(uiskema.CodeInvalidNode,
			v.tree.message(uiskema.CodeInvalidNode, nil), map[string]any{"got": "empty array"})}), 0
	}
	out := uiskema.Document{Multi: true, Roots: make([]uiskema.ValidatedNode, 0, len(items))}
	var ds uiskema.Diagnostics
	for i, it := range items {
		node, nds := v.tree.validateValue(it, uiskema.Root().Index(i), 0)
		if len(nds) > 0 {
			ds = uiskema.AppendDiagnostics(ds, nds...)
			continue
		}
		out.Roots = append(out.Roots, node)
	}
	if len(ds) > 0 {
		return uiskema.Invalid[uiskema.Document](ds), len(items)
	}
	return uiskema.Valid(out), len(items)
}

func (v *Validator) done(ctx context.Context, start time.Time, roots int, ds uiskema.Diagnostics, doc *uiskema.Document) {
	elapsed := time.Since(start)
	if v.observer != nil {
		v.observer.ObserveValidation(elapsed, ds)
	}
	if ce := v.log.Check(zap.DebugLevel, "document validated"); ce != nil {
		fields := []zap.Field{
			zap.Int("roots", roots),
			zap.Int("diagnostics", len(ds)),
			zap.Duration("elapsed", elapsed),
		}
		if id, ok := RequestID(ctx); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		if len(ds) > 0 {
			fields = append(fields, zap.String("first", string(ds[0].Code)+" at "+ds[0].Path))
		} else if doc != nil {
			if h, err := doc.Hash(); err == nil {
				fields = append(fields, zap.Uint64("hash", h))
			}
		}
		ce.Write(fields...)
	}
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is added to validation logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
