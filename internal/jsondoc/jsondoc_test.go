package jsondoc_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/internal/jsondoc"
)

var strict = jsondoc.Options{MaxBytes: 1 << 10, MaxNesting: 8}

func TestDecode_OK(t *testing.T) {
	v, ds := jsondoc.Decode([]byte(`{"type":"Metric","props":{"label":"x","n":1.5}}`), strict)
	if len(ds) != 0 {
		t.Fatalf("unexpected diagnostics: %v", ds)
	}
	m, ok := v.(map[string]any)
	if !ok || m["type"] != "Metric" {
		t.Fatalf("decoded=%#v", v)
	}
}

func TestDecode_DuplicateKeysWithPaths(t *testing.T) {
	doc := `[{"type":"Card","props":{"title":"a","title":"b"}},{"type":"Div","type":"Div"}]`
	_, ds := jsondoc.Decode([]byte(doc), strict)
	want := []string{"/0/props/title", "/1/type"}
	var got []string
	for _, d := range ds {
		if d.Code != uiskema.CodeDuplicateKey {
			t.Fatalf("code=%s", d.Code)
		}
		got = append(got, d.Path)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}

	allow := strict
	allow.AllowDuplicateKeys = true
	if _, ds := jsondoc.Decode([]byte(doc), allow); len(ds) != 0 {
		t.Fatalf("duplicates allowed but got %v", ds)
	}
}

func TestDecode_Nesting(t *testing.T) {
	doc := strings.Repeat("[", 9) + strings.Repeat("]", 9)
	_, ds := jsondoc.Decode([]byte(doc), strict)
	if len(ds) != 1 || ds[0].Code != uiskema.CodeMaxDepthExceeded {
		t.Fatalf("got %v", ds)
	}
	if ds[0].Path != "/0/0/0/0/0/0/0/0" {
		t.Fatalf("path=%s", ds[0].Path)
	}
	if _, ds := jsondoc.Decode([]byte(strings.Repeat("[", 8)+strings.Repeat("]", 8)), strict); len(ds) != 0 {
		t.Fatalf("nesting at the limit must pass: %v", ds)
	}
}

func TestDecode_TooLarge(t *testing.T) {
	big := `{"type":"` + strings.Repeat("x", 2000) + `"}`
	_, ds := jsondoc.Decode([]byte(big), strict)
	if len(ds) != 1 || ds[0].Code != uiskema.CodeTooLarge || ds[0].Path != "/" {
		t.Fatalf("got %v", ds)
	}
	_, ds = jsondoc.ReadAll(strings.NewReader(big), strict)
	if len(ds) != 1 || ds[0].Code != uiskema.CodeTooLarge {
		t.Fatalf("reader: got %v", ds)
	}
	data, ds := jsondoc.ReadAll(strings.NewReader(`{"a":1}`), strict)
	if len(ds) != 0 || string(data) != `{"a":1}` {
		t.Fatalf("data=%q ds=%v", data, ds)
	}
}

func TestDecode_ParseErrors(t *testing.T) {
	for _, doc := range []string{``, `   `, `{"type":`, `{"a":1} {"b":2}`, `[1,2`, `{"a" 1}`} {
		_, ds := jsondoc.Decode([]byte(doc), strict)
		if len(ds) == 0 || ds[len(ds)-1].Code != uiskema.CodeParseError {
			t.Fatalf("%q: got %v", doc, ds)
		}
	}
}

func TestDecode_RejectsInvalidUTF8(t *testing.T) {
	doc := []byte("{\"type\":\"Card\",\"props\":{\"title\":\"\xff\"}}")
	_, ds := jsondoc.Decode(doc, strict)
	if !ds.Has(uiskema.CodeParseError, "/") {
		t.Fatalf("got %v", ds)
	}
	if cause, _ := ds[0].Params["cause"].(string); cause != "invalid UTF-8" {
		t.Fatalf("cause=%q", cause)
	}

	if _, ds := jsondoc.Decode([]byte(`{"title":"Receita – São Paulo"}`), strict); len(ds) > 0 {
		t.Fatalf("valid UTF-8 rejected: %v", ds)
	}
}
