package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/metrics"
)

func TestObserveValidation(t *testing.T) {
	c := metrics.New(nil)
	c.ObserveValidation(time.Millisecond, nil)
	c.ObserveValidation(time.Millisecond, uiskema.Diagnostics{
		{Path: "/props/extra", Code: uiskema.CodeUnknownProp},
		{Path: "/props/a", Code: uiskema.CodeUnknownProp},
		{Path: "/", Code: uiskema.CodeChildrenNotAllowed},
	})
	if got := testutil.ToFloat64(c.Validations.WithLabelValues("valid")); got != 1 {
		t.Fatalf("valid=%v", got)
	}
	if got := testutil.ToFloat64(c.Validations.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid=%v", got)
	}
	if got := testutil.ToFloat64(c.Diagnostics.WithLabelValues("unknown_prop")); got != 2 {
		t.Fatalf("unknown_prop=%v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := metrics.New(nil)
	c.ObserveCache(true)
	c.ObserveCache(false)
	c.ObserveAttempt("valid")
	c.ObserveRequest("POST", "/v1/validate", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`uiskema_cache_requests_total{result="hit"} 1`,
		`uiskema_generation_attempts_total{outcome="valid"} 1`,
		`uiskema_http_requests_total{method="POST",route="/v1/validate",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("exposition lacks %q:\n%s", want, body)
		}
	}
}
