package jsondoc

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/reoring/uiskema"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	path         uiskema.PathRef
	keys         map[string]struct{}
	expectingKey bool
	pendingKey   string
	nextIndex    int
}

// scanner walks the token stream keeping the pointer of the value being
// read. Duplicate keys are collected; nesting and syntax problems stop the
// scan.
type scanner struct {
	opt    Options
	stack  []frame
	done   bool
	issues uiskema.Diagnostics
}

func scan(data []byte, opt Options) uiskema.Diagnostics {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	s := &scanner{opt: opt}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return uiskema.AppendDiagnostics(s.issues, opt.parseError(s.here(), err)...)
		}
		if s.done {
			return uiskema.AppendDiagnostics(s.issues, opt.parseError(uiskema.Root(), errors.New("unexpected data after top-level value"))...)
		}
		if stop := s.token(tok); stop {
			return s.issues
		}
	}
	if len(s.stack) > 0 {
		return uiskema.AppendDiagnostics(s.issues, opt.parseError(s.here(), io.ErrUnexpectedEOF)...)
	}
	return s.issues
}

// here is the pointer of the container currently open.
func (s *scanner) here() uiskema.PathRef {
	if n := len(s.stack); n > 0 {
		return s.stack[n-1].path
	}
	return uiskema.Root()
}

// valuePath returns the pointer of the value token about to be consumed and
// advances the parent frame.
func (s *scanner) valuePath() uiskema.PathRef {
	n := len(s.stack)
	if n == 0 {
		return uiskema.Root()
	}
	top := &s.stack[n-1]
	if top.kind == kindArray {
		p := top.path.Index(top.nextIndex)
		top.nextIndex++
		return p
	}
	p := top.path.Field(top.pendingKey)
	top.expectingKey = true
	top.pendingKey = ""
	return p
}

func (s *scanner) token(tok any) bool {
	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{', '[':
			p := s.valuePath()
			if s.opt.MaxNesting > 0 && len(s.stack)+1 > s.opt.MaxNesting {
				limit := strconv.Itoa(s.opt.MaxNesting)
				s.issues = uiskema.AppendDiagnostics(s.issues, p.Diag(uiskema.CodeMaxDepthExceeded,
					s.opt.message(uiskema.CodeMaxDepthExceeded, map[string]string{"limit": limit}),
					map[string]any{"limit": s.opt.MaxNesting}))
				return true
			}
			f := frame{kind: kindArray, path: p}
			if d == '{' {
				f = frame{kind: kindObject, path: p, keys: map[string]struct{}{}, expectingKey: true}
			}
			s.stack = append(s.stack, f)
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.done = len(s.stack) == 0
		}
		return false
	}
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if key, ok := tok.(string); ok && top.kind == kindObject && top.expectingKey {
			if _, dup := top.keys[key]; dup && !s.opt.AllowDuplicateKeys {
				s.issues = uiskema.AppendDiagnostics(s.issues, top.path.Field(key).Diag(uiskema.CodeDuplicateKey,
					s.opt.message(uiskema.CodeDuplicateKey, map[string]string{"key": strconv.Quote(key)}),
					map[string]any{"key": key}))
			}
			top.keys[key] = struct{}{}
			top.expectingKey = false
			top.pendingKey = key
			return false
		}
	}
	s.valuePath()
	s.done = len(s.stack) == 0
	return false
}
