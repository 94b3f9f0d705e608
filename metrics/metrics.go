// Package metrics provides Prometheus metrics for document validation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reoring/uiskema"
)

const namespace = "uiskema"

// Collector holds all Prometheus metrics of the service.
type Collector struct {
	// Validation metrics
	Validations        *prometheus.CounterVec
	Diagnostics        *prometheus.CounterVec
	ValidationDuration prometheus.Histogram

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Generation loop metrics
	GenerationAttempts *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates a collector registered with reg. A nil reg uses a fresh
// private registry.
func New(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Collector{
		Validations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of documents validated",
			},
			[]string{"result"},
		),
		Diagnostics: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported, by code",
			},
			[]string{"code"},
		),
		ValidationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Document validation duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Result cache lookups, by hit or miss",
			},
			[]string{"result"},
		),
		GenerationAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_attempts_total",
				Help:      "Generate and validate rounds, by outcome",
			},
			[]string{"outcome"},
		),
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
		gatherer: reg,
	}
}

// ObserveValidation records one document validation.
func (c *Collector) ObserveValidation(elapsed time.Duration, ds uiskema.Diagnostics) {
	result := "valid"
	if len(ds) > 0 {
		result = "invalid"
	}
	c.Validations.WithLabelValues(result).Inc()
	c.ValidationDuration.Observe(elapsed.Seconds())
	for _, d := range ds {
		c.Diagnostics.WithLabelValues(string(d.Code)).Inc()
	}
}

// ObserveCache records a cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	if hit {
		c.CacheRequests.WithLabelValues("hit").Inc()
		return
	}
	c.CacheRequests.WithLabelValues("miss").Inc()
}

// ObserveAttempt records one generation round. outcome is "valid",
// "invalid" or "error".
func (c *Collector) ObserveAttempt(outcome string) {
	c.GenerationAttempts.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one HTTP request.
func (c *Collector) ObserveRequest(method, route, status string, elapsed time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, status).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
