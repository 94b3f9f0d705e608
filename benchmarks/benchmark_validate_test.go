package benchmarks_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/reoring/uiskema/cache"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/validate"
)

// ---- Helpers ----

func smallMetricJSON() []byte {
	return []byte(`{"type":"Metric","props":{"label":"Revenue","valuePath":"$.revenue","format":"currency"}}`)
}

// generateDashboard returns a Div holding numCards Cards, each with
// perCard Metrics and one BarChart:
// {"type":"Div","children":[{"type":"Card","props":{"title":"c0"},"children":[...]}, ...]}
func generateDashboard(numCards, perCard int) []byte {
	var buf bytes.Buffer
	buf.Grow(numCards * (256 + perCard*96))
	buf.WriteString(`{"type":"Div","props":{},"children":[`)
	for i := 0; i < numCards; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"type":"Card","props":{"title":"card %d"},"children":[`, i)
		for k := 0; k < perCard; k++ {
			fmt.Fprintf(&buf, `{"type":"Metric","props":{"label":"m%d_%d","valuePath":"$.m%d"}},`, i, k, k)
		}
		buf.WriteString(`{"type":"BarChart","props":{"title":"by region","dataQuery":{"model":"sales","measure":"total","dimension":"region"},"nivo":{"layout":"vertical","padding":0.3}}}`)
		buf.WriteString(`]}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func newValidator() *validate.Validator {
	return validate.New(catalog.Default())
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_ValidateBytes_Metric(b *testing.B) {
	ctx := context.Background()
	v := newValidator()
	data := smallMetricJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := v.ValidateBytes(ctx, data); !res.OK() {
			b.Fatal(res.Diagnostics)
		}
	}
}

func Benchmark_ValidateReader_Metric(b *testing.B) {
	ctx := context.Background()
	v := newValidator()
	data := smallMetricJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := v.ValidateReader(ctx, bytes.NewReader(data)); !res.OK() {
			b.Fatal(res.Diagnostics)
		}
	}
}

// ---- Macro benchmarks (large dashboards) ----

const (
	bigCards   = 200
	bigPerCard = 8
)

func Benchmark_ValidateBytes_Dashboard(b *testing.B) {
	ctx := context.Background()
	v := newValidator()
	data := generateDashboard(bigCards, bigPerCard)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := v.ValidateBytes(ctx, data); !res.OK() {
			b.Fatal(res.Diagnostics)
		}
	}
}

func Benchmark_Cache_Hit_Dashboard(b *testing.B) {
	ctx := context.Background()
	c, err := cache.New(newValidator(), 8)
	if err != nil {
		b.Fatal(err)
	}
	data := generateDashboard(bigCards, bigPerCard)
	c.ValidateBytes(ctx, data)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := c.ValidateBytes(ctx, data); !res.OK() {
			b.Fatal(res.Diagnostics)
		}
	}
}

func TestGenerateDashboard_IsValid(t *testing.T) {
	res := newValidator().ValidateBytes(context.Background(), generateDashboard(3, 2))
	if !res.OK() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	if n := len(res.Value.Root().Children); n != 3 {
		t.Fatalf("cards=%d", n)
	}
}
