package validate

import (
	"go.uber.org/zap"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/i18n"
)

type options struct {
	limits   uiskema.ValidateOpt
	messages i18n.Translator
	log      *zap.Logger
	observer Observer
}

// Option configures a TreeValidator or Validator.
type Option func(*options)

// WithLimits sets the depth, nesting, size and duplicate-key limits. Zero
// fields fall back to the package defaults.
func WithLimits(o uiskema.ValidateOpt) Option { return func(c *options) { c.limits = o } }

// WithMaxDepth sets the maximum element depth. The root is at depth 0.
func WithMaxDepth(n int) Option { return func(c *options) { c.limits.MaxDepth = n } }

// WithMessages renders diagnostic messages with t.
func WithMessages(t i18n.Translator) Option { return func(c *options) { c.messages = t } }

// WithLanguage renders diagnostic messages in one of the built-in
// languages.
func WithLanguage(lang string) Option {
	return func(c *options) { c.messages = i18n.ForLanguage(lang) }
}

// WithLogger sets the logger. Validation events are logged at Debug.
func WithLogger(l *zap.Logger) Option {
	return func(c *options) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver reports every document validation to o.
func WithObserver(o Observer) Option { return func(c *options) { c.observer = o } }

func buildOptions(opts []Option) options {
	c := options{log: zap.NewNop()}
	for _, o := range opts {
		o(&c)
	}
	c.limits = c.limits.WithDefaults()
	return c
}
