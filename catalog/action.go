package catalog

import (
	"fmt"
	"slices"
)

// ActionSpec names a side-effecting action that interactive components may
// reference. Only the name travels in documents.
type ActionSpec struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ActionRegistry is the closed set of actions known to a catalog. It is
// immutable once built.
type ActionRegistry struct {
	specs  []ActionSpec
	byName map[string]int
}

// NewActionRegistry builds a registry. Empty and duplicate names are errors.
func NewActionRegistry(specs ...ActionSpec) (*ActionRegistry, error) {
	r := &ActionRegistry{byName: make(map[string]int, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("catalog: action with empty name")
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("catalog: action %q: %w", s.Name, ErrDuplicate)
		}
		r.byName[s.Name] = len(r.specs)
		r.specs = append(r.specs, s)
	}
	return r, nil
}

// IsValidAction reports whether name is registered. A nil registry knows no
// actions.
func (r *ActionRegistry) IsValidAction(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the spec registered under name.
func (r *ActionRegistry) Lookup(name string) (ActionSpec, bool) {
	if r == nil {
		return ActionSpec{}, false
	}
	i, ok := r.byName[name]
	if !ok {
		return ActionSpec{}, false
	}
	return r.specs[i], true
}

// List returns the actions in registration order.
func (r *ActionRegistry) List() []ActionSpec {
	if r == nil {
		return nil
	}
	return slices.Clone(r.specs)
}

// Names returns the action names in registration order.
func (r *ActionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.specs))
	for i, s := range r.specs {
		out[i] = s.Name
	}
	return out
}
