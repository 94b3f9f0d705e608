// Package jsondoc decodes untrusted JSON documents. Before decoding it scans
// the token stream to enforce a byte cap and a nesting cap and to report
// duplicate object keys with their JSON Pointer paths.
package jsondoc

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/i18n"
)

// Options bounds what Decode accepts. Zero limits are disabled.
type Options struct {
	MaxBytes           int64
	MaxNesting         int
	AllowDuplicateKeys bool
	Messages           i18n.Translator
}

func (o Options) message(code uiskema.Code, data map[string]string) string {
	if o.Messages != nil {
		return o.Messages.Message(string(code), data)
	}
	return i18n.T(string(code), data)
}

// ReadAll reads r up to the byte cap. Longer input yields too_large.
func ReadAll(r io.Reader, opt Options) ([]byte, uiskema.Diagnostics) {
	src := r
	if opt.MaxBytes > 0 {
		src = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, opt.parseError(uiskema.Root(), err)
	}
	if ds := opt.checkSize(data); len(ds) > 0 {
		return nil, ds
	}
	return data, nil
}

// Decode scans and decodes data into plain values: map[string]any, []any,
// string, bool, nil and json.Number.
func Decode(data []byte, opt Options) (any, uiskema.Diagnostics) {
	if ds := opt.checkSize(data); len(ds) > 0 {
		return nil, ds
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, opt.parseError(uiskema.Root(), errors.New("empty document"))
	}
	if !utf8.Valid(data) {
		return nil, opt.parseError(uiskema.Root(), errors.New("invalid UTF-8"))
	}
	if ds := scan(data, opt); len(ds) > 0 {
		return nil, ds
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, opt.parseError(uiskema.Root(), err)
	}
	return v, nil
}

func (o Options) checkSize(data []byte) uiskema.Diagnostics {
	if o.MaxBytes <= 0 || int64(len(data)) <= o.MaxBytes {
		return nil
	}
	limit := strconv.FormatInt(o.MaxBytes, 10)
	return uiskema.Diagnostics{uiskema.Root().Diag(uiskema.CodeTooLarge,
		o.message(uiskema.CodeTooLarge, map[string]string{"limit": limit}),
		map[string]any{"limit": o.MaxBytes})}
}

func (o Options) parseError(at uiskema.PathRef, err error) uiskema.Diagnostics {
	return uiskema.Diagnostics{at.Diag(uiskema.CodeParseError,
		o.message(uiskema.CodeParseError, map[string]string{"cause": err.Error()}),
		map[string]any{"cause": err.Error()})}
}
