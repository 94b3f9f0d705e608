package catalog_test

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/schema"
)

func TestNewActionRegistry(t *testing.T) {
	r, err := catalog.NewActionRegistry(catalog.DefaultActions...)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !r.IsValidAction("export_report") || !r.IsValidAction("refresh_data") {
		t.Fatalf("default actions missing")
	}
	if r.IsValidAction("delete_everything") {
		t.Fatalf("unknown action accepted")
	}
	if diff := cmp.Diff(catalog.DefaultActions, r.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	_, err = catalog.NewActionRegistry(catalog.ActionSpec{Name: "a"}, catalog.ActionSpec{Name: "a"})
	if !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := catalog.NewActionRegistry(catalog.ActionSpec{}); err == nil {
		t.Fatalf("expected error for empty action name")
	}

	var nilReg *catalog.ActionRegistry
	if nilReg.IsValidAction("export_report") || nilReg.List() != nil {
		t.Fatalf("nil registry must be empty")
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	c := catalog.New()
	spec := catalog.ComponentSpec{Name: "Box", Props: schema.Object().MustBuild()}
	if err := c.Register(spec); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := c.Register(spec); !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := c.Register(catalog.ComponentSpec{Name: "NoProps"}); err == nil {
		t.Fatalf("expected error for nil props")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustRegister should panic on duplicates")
		}
	}()
	c.MustRegister(spec)
}

func TestDefault_Components(t *testing.T) {
	c := catalog.Default()
	want := []string{"BarChart", "Button", "Card", "Div", "Gauge", "Header", "KPI", "LineChart", "Metric", "PieChart", "SlicerCard", "Theme"}
	if diff := cmp.Diff(want, c.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	for name, children := range map[string]bool{"Theme": true, "Header": true, "Div": true, "Card": true, "Metric": false, "Button": false, "BarChart": false} {
		spec, ok := c.Lookup(name)
		if !ok {
			t.Fatalf("%s missing", name)
		}
		if spec.AllowsChildren != children {
			t.Fatalf("%s allowsChildren=%v", name, spec.AllowsChildren)
		}
	}
	if _, ok := c.Lookup("Foo"); ok {
		t.Fatalf("Foo should be absent")
	}
	if catalog.Default() != c {
		t.Fatalf("Default must return the shared catalog")
	}
}

func TestNewDefault_IsIndependent(t *testing.T) {
	c, err := catalog.NewDefault()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c == catalog.Default() {
		t.Fatalf("NewDefault must build a fresh catalog")
	}
	if err := c.Register(catalog.ComponentSpec{Name: "Extra", Props: schema.Object().MustBuild()}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := catalog.Default().Lookup("Extra"); ok {
		t.Fatalf("shared catalog was modified")
	}
}

func TestManifest_Metric(t *testing.T) {
	m := catalog.Default().Manifest()
	var metric catalog.ComponentManifest
	for _, c := range m.Components {
		if c.Name == "Metric" {
			metric = c
		}
	}
	want := catalog.ComponentManifest{
		Name:        "Metric",
		Description: "Single value read from the data store",
		Policy:      "closed",
		Props: []catalog.PropManifest{
			{Name: "label", Type: "string", Required: true},
			{Name: "valuePath", Type: "string", Required: true},
			{Name: "format", Type: `"currency" | "percent" | "number"`, Default: "number", Enum: []string{"currency", "percent", "number"}},
		},
	}
	if diff := cmp.Diff(want, metric); diff != "" {
		t.Fatalf("metric manifest (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(catalog.DefaultActions, m.Actions); diff != "" {
		t.Fatalf("actions (-want +got):\n%s", diff)
	}
}

func TestManifest_Encodings(t *testing.T) {
	m := catalog.Default().Manifest()

	raw, err := m.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var back catalog.Manifest
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if len(back.Components) != 12 || len(back.Actions) != 2 {
		t.Fatalf("decoded manifest: %d components, %d actions", len(back.Components), len(back.Actions))
	}

	y, err := m.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(y, &generic); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if _, ok := generic["components"]; !ok {
		t.Fatalf("yaml has no components key")
	}

	text := m.Text()
	for _, want := range []string{
		"- Card (children allowed): Titled container",
		"    format: \"currency\" | \"percent\" | \"number\" (default \"number\")",
		"    rule: valuePath|dataQuery",
		"- export_report: Export dashboard to PDF",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text manifest lacks %q", want)
		}
	}
}

func TestJSONSchema_Button(t *testing.T) {
	c := catalog.Default()
	sch, ok := c.JSONSchema("Button")
	if !ok {
		t.Fatalf("Button schema missing")
	}
	if !sch.Closed() || sch.Title != "Button" {
		t.Fatalf("schema=%+v", sch)
	}
	action := sch.Properties["action"]
	if action == nil || !action.Closed() {
		t.Fatalf("action block must be closed: %+v", action)
	}
	if diff := cmp.Diff([]any{"export_report", "refresh_data"}, action.Properties["type"].Enum); diff != "" {
		t.Fatalf("action enum (-want +got):\n%s", diff)
	}
	if _, ok := c.JSONSchema("Foo"); ok {
		t.Fatalf("unknown component should have no schema")
	}
	if got := len(c.JSONSchemas()); got != 12 {
		t.Fatalf("schemas=%d", got)
	}
}

func TestManifest_TaggedVariants(t *testing.T) {
	m := catalog.Default().Manifest()
	var header catalog.ComponentManifest
	for _, c := range m.Components {
		if c.Name == "Header" {
			header = c
		}
	}
	var slicers catalog.PropManifest
	for _, p := range header.Props {
		if p.Name == "slicers" {
			slicers = p
		}
	}
	if slicers.Discriminator != "type" || len(slicers.Variants) != 2 {
		t.Fatalf("slicers=%+v", slicers)
	}
	rng := slicers.Variants[1]
	if diff := cmp.Diff([]string{"range"}, rng.Tags); diff != "" {
		t.Fatalf("tags (-want +got):\n%s", diff)
	}
	required := map[string]bool{}
	for _, f := range rng.Fields {
		required[f.Name] = f.Required
	}
	if !required["storeMinPath"] || !required["storeMaxPath"] {
		t.Fatalf("range fields=%+v", rng.Fields)
	}

	text := m.Text()
	for _, want := range []string{
		`when type = "range":`,
		"storeMinPath: string (required)",
		"url: string (required)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q", want)
		}
	}
}
