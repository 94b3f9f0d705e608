// Package genloop drives a document generator until it produces a document
// the validator accepts. Each rejected round feeds the diagnostics back to
// the generator; after a bounded number of rounds the loop gives up with
// ErrCouldNotBuildView.
package genloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/reoring/uiskema"
)

// ErrCouldNotBuildView is returned when no valid document was produced
// within the attempt budget. It is the only failure surfaced to end users.
var ErrCouldNotBuildView = errors.New("could not build this view")

// DefaultMaxAttempts bounds the generate and validate rounds.
const DefaultMaxAttempts = 3

// Feedback is what the generator learns about its previous round.
type Feedback struct {
	Attempt     int
	Previous    []byte
	Diagnostics uiskema.Diagnostics
}

// Generator produces raw JSON documents.
type Generator interface {
	Generate(ctx context.Context, fb Feedback) ([]byte, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, fb Feedback) ([]byte, error)

func (f GeneratorFunc) Generate(ctx context.Context, fb Feedback) ([]byte, error) { return f(ctx, fb) }

// DocumentValidator validates raw documents.
type DocumentValidator interface {
	ValidateBytes(ctx context.Context, data []byte) uiskema.Result[uiskema.Document]
}

// Observer is told the outcome of every round: "valid", "invalid" or
// "error".
type Observer interface {
	ObserveAttempt(outcome string)
}

// PermanentError marks a generator error that must not be retried.
func PermanentError(err error) error { return backoff.Permanent(err) }

type options struct {
	maxAttempts int
	newBackOff  func() backoff.BackOff
	log         *zap.Logger
	observer    Observer
}

// Option configures Run.
type Option func(*options)

// WithMaxAttempts bounds the number of validation rounds.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBackOff sets the retry policy for generator errors within a round.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(o *options) {
		if f != nil {
			o.newBackOff = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver reports round outcomes to obs.
func WithObserver(obs Observer) Option { return func(o *options) { o.observer = obs } }

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return backoff.WithMaxRetries(b, 3)
}

// Run generates, validates and regenerates until a document is valid.
// Generator errors are retried with backoff inside a round; when they
// persist, or the context ends, Run stops. The returned error always wraps
// ErrCouldNotBuildView; when the last round was rejected it also wraps the
// last diagnostics.
func Run(ctx context.Context, gen Generator, v DocumentValidator, opts ...Option) (uiskema.Document, error) {
	o := options{maxAttempts: DefaultMaxAttempts, newBackOff: defaultBackOff, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var fb Feedback
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		fb.Attempt = attempt
		data, err := generate(ctx, gen, fb, o)
		if err != nil {
			o.observe("error")
			o.log.Warn("generation failed", zap.Int("attempt", attempt), zap.Error(err))
			return uiskema.Document{}, fmt.Errorf("%w: generator: %w", ErrCouldNotBuildView, err)
		}
		res := v.ValidateBytes(ctx, data)
		if res.OK() {
			o.observe("valid")
			o.log.Debug("document accepted", zap.Int("attempt", attempt))
			return res.Value, nil
		}
		o.observe("invalid")
		o.log.Debug("document rejected",
			zap.Int("attempt", attempt),
			zap.Int("diagnostics", len(res.Diagnostics)),
			zap.String("summary", res.Diagnostics.Error()))
		fb = Feedback{Previous: data, Diagnostics: res.Diagnostics}
	}
	return uiskema.Document{}, fmt.Errorf("%w after %d attempts: %w", ErrCouldNotBuildView, o.maxAttempts, fb.Diagnostics)
}

func generate(ctx context.Context, gen Generator, fb Feedback, o options) ([]byte, error) {
	var data []byte
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		out, err := gen.Generate(ctx, fb)
		if err != nil {
			return err
		}
		data = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		o.log.Debug("retrying generator", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(o.newBackOff(), ctx), notify); err != nil {
		return nil, err
	}
	return data, nil
}

func (o options) observe(outcome string) {
	if o.observer != nil {
		o.observer.ObserveAttempt(outcome)
	}
}
