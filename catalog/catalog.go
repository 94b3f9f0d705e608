package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/reoring/uiskema/i18n"
	"github.com/reoring/uiskema/schema"
)

// ErrDuplicate is returned when a component or action name is registered twice.
var ErrDuplicate = errors.New("duplicate name")

// ComponentSpec describes one component type: its prop schema and whether
// it may have children.
type ComponentSpec struct {
	Name           string
	Description    string
	Props          *schema.ObjectType
	AllowsChildren bool
}

// Catalog maps component type names to their specs. Components are
// registered at startup; afterwards the catalog is only read and may be
// shared between goroutines.
type Catalog struct {
	mu         sync.RWMutex
	components map[string]ComponentSpec
	actions    *ActionRegistry
	messages   i18n.Translator
	log        *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithActions sets the action registry consulted by action references.
func WithActions(r *ActionRegistry) Option { return func(c *Catalog) { c.actions = r } }

// WithLogger sets the logger used for registration events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMessages overrides the translator used in diagnostics produced
// against this catalog.
func WithMessages(t i18n.Translator) Option { return func(c *Catalog) { c.messages = t } }

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{components: map[string]ComponentSpec{}, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	if c.actions == nil {
		c.actions, _ = NewActionRegistry()
	}
	return c
}

// Register adds spec. Registering an empty name, a nil schema or a name
// that already exists is an error.
func (c *Catalog) Register(spec ComponentSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("catalog: component with empty name")
	}
	if spec.Props == nil {
		return fmt.Errorf("catalog: component %q: nil props schema", spec.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.components[spec.Name]; dup {
		return fmt.Errorf("catalog: component %q: %w", spec.Name, ErrDuplicate)
	}
	c.components[spec.Name] = spec
	c.log.Debug("component registered",
		zap.String("component", spec.Name),
		zap.Int("props", len(spec.Props.Fields())),
		zap.Bool("children", spec.AllowsChildren))
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalog) MustRegister(specs ...ComponentSpec) *Catalog {
	for _, s := range specs {
		if err := c.Register(s); err != nil {
			panic(err)
		}
	}
	return c
}

// Lookup returns the spec for a component type.
func (c *Catalog) Lookup(name string) (ComponentSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.components[name]
	return s, ok
}

// Names returns the registered component names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.components))
	for n := range c.components {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Actions returns the action registry.
func (c *Catalog) Actions() *ActionRegistry { return c.actions }

// Env returns the schema environment for checking props of this catalog.
func (c *Catalog) Env() *schema.Env {
	return &schema.Env{Actions: c.actions, Messages: c.messages}
}
