// Package httpapi exposes document validation and the component catalog
// over HTTP.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/i18n"
	"github.com/reoring/uiskema/internal/jsondoc"
	"github.com/reoring/uiskema/metrics"
	"github.com/reoring/uiskema/validate"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// DocumentValidator validates raw documents. Both *validate.Validator and
// *cache.Cache satisfy it.
type DocumentValidator interface {
	ValidateBytes(ctx context.Context, data []byte) uiskema.Result[uiskema.Document]
}

// Deps wires the handler.
type Deps struct {
	Validator DocumentValidator
	Catalog   *catalog.Catalog
	// Metrics is optional. When set, its handler is mounted at MetricsPath.
	Metrics     *metrics.Collector
	MetricsPath string
	Logger      *zap.Logger
	// MaxBytes bounds request bodies; zero means uiskema.DefaultMaxBytes.
	MaxBytes int64
	Messages i18n.Translator
}

type server struct {
	Deps
}

// New builds the gin engine.
func New(d Deps) (*gin.Engine, error) {
	if d.Validator == nil || d.Catalog == nil {
		return nil, fmt.Errorf("httpapi: validator and catalog are required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.MaxBytes <= 0 {
		d.MaxBytes = uiskema.DefaultMaxBytes
	}
	if d.MetricsPath == "" {
		d.MetricsPath = "/metrics"
	}
	s := &server{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/v1")
	v1.POST("/validate", s.validateDocument)
	v1.GET("/catalog", s.catalog)
	v1.GET("/catalog/jsonschema", s.jsonSchema)

	if d.Metrics != nil {
		r.GET(d.MetricsPath, gin.WrapH(d.Metrics.Handler()))
	}
	return r, nil
}

func (s *server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(validate.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if s.Metrics != nil {
			s.Metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		}
		id, _ := validate.RequestID(c.Request.Context())
		s.Logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", id),
		)
	}
}

// ErrorPayload shapes diagnostics for JSON responses.
func ErrorPayload(ds uiskema.Diagnostics) map[string]any {
	return map[string]any{"valid": false, "diagnostics": ds}
}

// POST /v1/validate
// 200 with the normalized document, 400 with diagnostics, 413 when the body
// exceeds MaxBytes.
func (s *server) validateDocument(c *gin.Context) {
	data, ds := jsondoc.ReadAll(c.Request.Body, jsondoc.Options{MaxBytes: s.MaxBytes, Messages: s.Messages})
	if len(ds) > 0 {
		status := http.StatusBadRequest
		if ds[0].Code == uiskema.CodeTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, ErrorPayload(ds))
		return
	}
	res := s.Validator.ValidateBytes(c.Request.Context(), data)
	if !res.OK() {
		c.JSON(http.StatusBadRequest, ErrorPayload(res.Diagnostics))
		return
	}
	h, err := res.Value.Hash()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"hash":     fmt.Sprintf("%016x", h),
		"document": res.Value,
	})
}

// GET /v1/catalog?format=json|yaml|text
func (s *server) catalog(c *gin.Context) {
	m := s.Catalog.Manifest()
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		c.JSON(http.StatusOK, m)
	case "yaml":
		b, err := m.YAML()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", b)
	case "text":
		c.String(http.StatusOK, m.Text())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format %q", format)})
	}
}

// GET /v1/catalog/jsonschema?component=Name
// Without a component, all schemas are returned keyed by name.
func (s *server) jsonSchema(c *gin.Context) {
	name := c.Query("component")
	if name == "" {
		c.JSON(http.StatusOK, s.Catalog.JSONSchemas())
		return
	}
	sc, ok := s.Catalog.JSONSchema(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown component %q", name), "allowed": s.Catalog.Names()})
		return
	}
	c.JSON(http.StatusOK, sc)
}
