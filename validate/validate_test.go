package validate_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/validate"
)

func newValidator(opts ...validate.Option) *validate.Validator {
	return validate.New(catalog.Default(), opts...)
}

func node(typ string, props map[string]any, children ...uiskema.ElementNode) uiskema.ElementNode {
	n := uiskema.ElementNode{Type: typ, Props: props}
	if len(children) > 0 {
		n.Children = children
	}
	return n
}

func metric() uiskema.ElementNode {
	return node("Metric", map[string]any{"label": "Revenue", "valuePath": "$.revenue"})
}

func TestDefaultApplication(t *testing.T) {
	res := newValidator().ValidateNode(context.Background(), metric())
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if got, _ := res.Value.Props.Get("format"); got != "number" {
		t.Fatalf("format=%v", got)
	}
	if diff := cmp.Diff([]string{"label", "valuePath", "format"}, res.Value.Props.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
}

func TestStrictRejection(t *testing.T) {
	n := node("Metric", map[string]any{"label": "x", "valuePath": "y", "extra": 1})
	res := newValidator().ValidateNode(context.Background(), n)
	if !res.Diagnostics.Has(uiskema.CodeUnknownProp, "/props/extra") {
		t.Fatalf("got %v", res.Diagnostics)
	}
}

func TestCardinality(t *testing.T) {
	v := newValidator()
	ctx := context.Background()

	bad := node("Metric", map[string]any{"label": "x", "valuePath": "y"}, node("Card", map[string]any{"title": "t"}))
	res := v.ValidateNode(ctx, bad)
	if !res.Diagnostics.Has(uiskema.CodeChildrenNotAllowed, "/") {
		t.Fatalf("got %v", res.Diagnostics)
	}

	if res := v.ValidateNode(ctx, node("Card", map[string]any{"title": "t"})); !res.OK() {
		t.Fatalf("empty card: %v", res.Diagnostics)
	}

	leafEmpty := node("Metric", map[string]any{"label": "x", "valuePath": "y"})
	leafEmpty.Children = []any{}
	if res := v.ValidateNode(ctx, leafEmpty); !res.OK() {
		t.Fatalf("leaf with empty children: %v", res.Diagnostics)
	}

	notArray := node("Card", map[string]any{"title": "t"})
	notArray.Children = map[string]any{"type": "Metric"}
	res = v.ValidateNode(ctx, notArray)
	if !res.Diagnostics.Has(uiskema.CodeChildrenRequiredButMissingArray, "/children") {
		t.Fatalf("got %v", res.Diagnostics)
	}
}

func TestRecursiveSuccess(t *testing.T) {
	doc := node("Div", map[string]any{"direction": "row"},
		node("Card", map[string]any{"title": "A"},
			node("Metric", map[string]any{"label": "L", "valuePath": "p"})))
	res := newValidator().ValidateNode(context.Background(), doc)
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	leaf := res.Value.Children[0].Children[0]
	if leaf.Type != "Metric" {
		t.Fatalf("leaf=%s", leaf.Type)
	}
	if f, _ := leaf.Props.Get("format"); f != "number" {
		t.Fatalf("nested default not applied: %v", f)
	}
}

func TestUnknownRoot(t *testing.T) {
	res := newValidator().ValidateNode(context.Background(), uiskema.ElementNode{Type: "Foo"})
	if len(res.Diagnostics) != 1 || !res.Diagnostics.Has(uiskema.CodeUnknownComponentType, "/") {
		t.Fatalf("got %v", res.Diagnostics)
	}
}

func TestActions(t *testing.T) {
	v := newValidator()
	ctx := context.Background()
	ok := node("Button", map[string]any{"label": "Export", "action": map[string]any{"type": "export_report"}})
	if res := v.ValidateNode(ctx, ok); !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	bad := node("Button", map[string]any{"label": "Export", "action": map[string]any{"type": "delete_everything"}})
	res := v.ValidateNode(ctx, bad)
	if len(res.Diagnostics) != 1 || !res.Diagnostics.Has(uiskema.CodeUnknownAction, "/props/action/type") {
		t.Fatalf("got %v", res.Diagnostics)
	}
}

func divChain(n int) uiskema.ElementNode {
	cur := node("Div", nil)
	for i := 1; i < n; i++ {
		cur = node("Div", nil, cur)
	}
	return cur
}

func TestDepthGuard(t *testing.T) {
	v := newValidator(validate.WithMaxDepth(4))
	ctx := context.Background()

	if res := v.ValidateNode(ctx, divChain(5)); !res.OK() {
		t.Fatalf("depth 4 is allowed: %v", res.Diagnostics)
	}
	res := v.ValidateNode(ctx, divChain(6))
	want := "/children/0/children/0/children/0/children/0/children"
	if len(res.Diagnostics) != 1 || !res.Diagnostics.Has(uiskema.CodeMaxDepthExceeded, want) {
		t.Fatalf("got %v", res.Diagnostics)
	}

	deep := validate.New(catalog.Default()).ValidateNode(ctx, divChain(5000))
	if len(deep.Diagnostics) != 1 || deep.Diagnostics[0].Code != uiskema.CodeMaxDepthExceeded {
		t.Fatalf("got %v", deep.Diagnostics)
	}
}

func TestDepthGuard_RawDocument(t *testing.T) {
	doc := strings.Repeat(`{"type":"Div","children":[`, 40) + `{"type":"Div"}` + strings.Repeat(`]}`, 40)
	res := newValidator().ValidateBytes(context.Background(), []byte(doc))
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != uiskema.CodeMaxDepthExceeded {
		t.Fatalf("got %v", res.Diagnostics)
	}
	if got := strings.Count(res.Diagnostics[0].Path, "/children"); got != uiskema.DefaultMaxDepth+1 {
		t.Fatalf("reported at %s", res.Diagnostics[0].Path)
	}
}

const dashboard = `[
  {"type":"Header","props":{"title":"Sales","slicers":[{"storePath":"region"},{"type":"range","storeMinPath":"lo","storeMaxPath":"hi"}]}},
  {"type":"Div","props":{"direction":"row","gap":8},"children":[
    {"type":"KPI","props":{"title":"Revenue","valuePath":"$.revenue","format":"currency"}},
    {"type":"BarChart","props":{"dataQuery":{"model":"orders","measure":"sum(total)","dimension":"month"},
      "colorScheme":["#111","#222"],"nivo":{"layout":"horizontal","customKey":{"deep":[1,2]}}}},
    {"type":"SlicerCard","props":{"fields":[{"storePath":"state","source":{"type":"static","options":[{"value":1,"label":"A"}]}}]}},
    {"type":"Button","props":{"label":"Export","action":{"type":"export_report"}}}
  ]}
]`

func TestIdempotence(t *testing.T) {
	v := newValidator()
	ctx := context.Background()
	first := v.ValidateBytes(ctx, []byte(dashboard))
	if !first.OK() {
		t.Fatalf("unexpected diagnostics: %v", first.Diagnostics)
	}
	if !first.Value.Multi || len(first.Value.Roots) != 2 {
		t.Fatalf("document=%+v", first.Value)
	}
	elems := first.Value.Elements()
	items := make([]any, len(elems))
	for i := range elems {
		items[i] = elems[i]
	}
	second := v.ValidateValue(ctx, items)
	if !second.OK() {
		t.Fatalf("revalidation: %v", second.Diagnostics)
	}
	if diff := cmp.Diff(first.Value, second.Value); diff != "" {
		t.Fatalf("normalization is not a fixed point (-first +second):\n%s", diff)
	}
	h1, err := first.Value.Hash()
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, _ := second.Value.Hash()
	if h1 != h2 {
		t.Fatalf("hash changed: %x vs %x", h1, h2)
	}
}

func TestNormalizedDashboard(t *testing.T) {
	res := newValidator().ValidateBytes(context.Background(), []byte(dashboard))
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	header := res.Value.Roots[0].Props.ToMap()
	slicers := header["slicers"].([]any)
	if got := slicers[0].(map[string]any)["type"]; got != "dropdown" {
		t.Fatalf("slicer type default=%v", got)
	}
	bar := res.Value.Roots[1].Children[1].Props.ToMap()
	nivo := bar["nivo"].(map[string]any)
	if _, ok := nivo["customKey"]; !ok {
		t.Fatalf("open nivo block dropped unknown key: %v", nivo)
	}
	if bar["format"] != "number" {
		t.Fatalf("chart format default=%v", bar["format"])
	}
	slicer := res.Value.Roots[1].Children[2].Props.ToMap()
	field := slicer["fields"].([]any)[0].(map[string]any)
	if field["type"] != "list" {
		t.Fatalf("slicer field type default=%v", field["type"])
	}
}

func TestCollectAll_DocumentOrder(t *testing.T) {
	doc := `[
	  {"type":"Metric","props":{"label":5,"format":"euro","zz":1,"aa":2}},
	  {"type":"Foo","children":[{"type":"Bar"}]},
	  {"type":"Card","props":{"title":"t"},"children":[{"type":"Button","props":{"label":"b","action":{"type":"nuke"}}}]},
	  "not an element",
	  {"type":"KPI","props":{"title":"k"}}
	]`
	res := newValidator().ValidateBytes(context.Background(), []byte(doc))
	type pc struct {
		Path string
		Code uiskema.Code
	}
	var got []pc
	for _, d := range res.Diagnostics {
		got = append(got, pc{d.Path, d.Code})
	}
	want := []pc{
		{"/0/props/label", uiskema.CodeInvalidPropType},
		{"/0/props/valuePath", uiskema.CodeMissingRequiredProp},
		{"/0/props/format", uiskema.CodeInvalidEnumValue},
		{"/0/props/aa", uiskema.CodeUnknownProp},
		{"/0/props/zz", uiskema.CodeUnknownProp},
		{"/1", uiskema.CodeUnknownComponentType},
		{"/2/children/0/props/action/type", uiskema.CodeUnknownAction},
		{"/3", uiskema.CodeInvalidNode},
		{"/4/props", uiskema.CodeRefinementFailed},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestDocumentShapes(t *testing.T) {
	v := newValidator()
	ctx := context.Background()

	res := v.ValidateBytes(ctx, []byte(`[]`))
	if !res.Diagnostics.Has(uiskema.CodeInvalidNode, "/") {
		t.Fatalf("empty array: %v", res.Diagnostics)
	}
	res = v.ValidateBytes(ctx, []byte(`{"type":"Card","props":"title"}`))
	if !res.Diagnostics.Has(uiskema.CodeInvalidPropType, "/props") {
		t.Fatalf("props string: %v", res.Diagnostics)
	}
	res = v.ValidateBytes(ctx, []byte(`{"type":"Card","props":{"title":"a","title":"b"}}`))
	if !res.Diagnostics.Has(uiskema.CodeDuplicateKey, "/props/title") {
		t.Fatalf("duplicate: %v", res.Diagnostics)
	}
	res = v.ValidateBytes(ctx, []byte(`{"type":"Card"`))
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != uiskema.CodeParseError {
		t.Fatalf("parse: %v", res.Diagnostics)
	}
	res = v.ValidateReader(ctx, strings.NewReader(`{"type":"Card","props":{"title":"t"},"id":"x"}`))
	if !res.OK() || res.Value.Multi {
		t.Fatalf("reader: %+v", res)
	}
	limited := newValidator(validate.WithLimits(uiskema.ValidateOpt{MaxBytes: 16}))
	res = limited.ValidateReader(ctx, strings.NewReader(`{"type":"Card","props":{"title":"t"}}`))
	if !res.Diagnostics.Has(uiskema.CodeTooLarge, "/") {
		t.Fatalf("too large: %v", res.Diagnostics)
	}
}

func TestNoCoercion(t *testing.T) {
	n := node("Gauge", map[string]any{"value": "42"})
	res := newValidator().ValidateNode(context.Background(), n)
	if !res.Diagnostics.Has(uiskema.CodeInvalidPropType, "/props/value") {
		t.Fatalf("got %v", res.Diagnostics)
	}
	n = node("Div", map[string]any{"gap": "8px", "padding": 4})
	if res := newValidator().ValidateNode(context.Background(), n); !res.OK() {
		t.Fatalf("union alternatives: %v", res.Diagnostics)
	}
}

func TestPortugueseMessages(t *testing.T) {
	res := newValidator(validate.WithLanguage("pt")).ValidateNode(context.Background(),
		node("Metric", map[string]any{"label": "x", "valuePath": "y", "extra": 1}))
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Message != `propriedade desconhecida "extra"` {
		t.Fatalf("got %v", res.Diagnostics)
	}
}

func TestPropValidator(t *testing.T) {
	spec, _ := catalog.Default().Lookup("Button")
	pv := validate.NewPropValidator(nil)
	_, ds := pv.Validate(spec, map[string]any{"label": "b", "action": map[string]any{"type": "export_report"}}, uiskema.Root().Field("children").Index(2))
	if !ds.Has(uiskema.CodeUnknownAction, "/children/2/props/action/type") {
		t.Fatalf("got %v", ds)
	}
	pv = validate.NewPropValidator(catalog.Default().Actions())
	props, ds := pv.Validate(spec, map[string]any{"label": "b", "action": map[string]any{"type": "refresh_data"}}, uiskema.Root())
	if len(ds) != 0 || props.Len() != 2 {
		t.Fatalf("props=%v ds=%v", props, ds)
	}
	metricSpec, _ := catalog.Default().Lookup("Metric")
	_, ds = pv.Validate(metricSpec, nil, uiskema.Root())
	if diff := cmp.Diff([]uiskema.Code{uiskema.CodeMissingRequiredProp, uiskema.CodeMissingRequiredProp}, ds.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestTreeValidator_ExplicitPathAndDepth(t *testing.T) {
	tv := validate.NewTreeValidator(catalog.Default(), validate.WithMaxDepth(3))
	res := tv.ValidateTree(divChain(2), uiskema.Root().Index(7), 3)
	if !res.Diagnostics.Has(uiskema.CodeMaxDepthExceeded, "/7/children") {
		t.Fatalf("got %v", res.Diagnostics)
	}

	// a leaf entered below the limit is rejected at its own path
	leaf := node("Card", map[string]any{"title": "t"})
	res = tv.ValidateTree(leaf, uiskema.Root(), 10)
	if res.OK() || !res.Diagnostics.Has(uiskema.CodeMaxDepthExceeded, "/") {
		t.Fatalf("got %v", res.Diagnostics)
	}
	if res := tv.ValidateTree(leaf, uiskema.Root(), 3); !res.OK() {
		t.Fatalf("depth equal to the limit is allowed: %v", res.Diagnostics)
	}
}

func TestOptionalActionBlocksStripExtraKeys(t *testing.T) {
	v := newValidator()
	n := node("SlicerCard", map[string]any{
		"actionOnApply": map[string]any{"type": "refresh_data", "extra": 1},
	})
	res := v.ValidateNode(context.Background(), n)
	if !res.OK() {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	got, _ := res.Value.Props.Get("actionOnApply")
	if diff := cmp.Diff([]string{"type"}, got.(*uiskema.Props).Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}

	bad := node("SlicerCard", map[string]any{"actionOnApply": map[string]any{"type": "launch"}})
	if res := v.ValidateNode(context.Background(), bad); !res.Diagnostics.Has(uiskema.CodeUnknownAction, "/props/actionOnApply/type") {
		t.Fatalf("got %v", res.Diagnostics)
	}

	button := node("Button", map[string]any{"label": "Go", "action": map[string]any{"type": "refresh_data", "extra": 1}})
	if res := v.ValidateNode(context.Background(), button); !res.Diagnostics.Has(uiskema.CodeUnknownProp, "/props/action/extra") {
		t.Fatalf("button action stays closed: %v", res.Diagnostics)
	}
}

type countingObserver struct {
	mu      sync.Mutex
	calls   int
	invalid int
}

func (o *countingObserver) ObserveValidation(_ time.Duration, ds uiskema.Diagnostics) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if len(ds) > 0 {
		o.invalid++
	}
}

func TestConcurrentValidation(t *testing.T) {
	defer goleak.VerifyNone(t)

	obs := &countingObserver{}
	v := newValidator(validate.WithObserver(obs))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				if res := v.ValidateBytes(context.Background(), []byte(dashboard)); !res.OK() {
					t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
				}
				return
			}
			if res := v.ValidateNode(context.Background(), uiskema.ElementNode{Type: "Foo"}); res.OK() {
				t.Errorf("Foo must be rejected")
			}
		}(i)
	}
	wg.Wait()
	if obs.calls != 16 || obs.invalid != 8 {
		t.Fatalf("observer calls=%d invalid=%d", obs.calls, obs.invalid)
	}
}

func TestRequestID(t *testing.T) {
	ctx := validate.WithRequestID(context.Background(), "req-1")
	if id, ok := validate.RequestID(ctx); !ok || id != "req-1" {
		t.Fatalf("id=%q ok=%v", id, ok)
	}
	if _, ok := validate.RequestID(context.Background()); ok {
		t.Fatalf("no id expected")
	}
}
