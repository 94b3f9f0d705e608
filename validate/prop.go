package validate

import (
	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/i18n"
	"github.com/reoring/uiskema/schema"
)

// PropValidator validates and normalizes the prop bag of a single node.
type PropValidator struct {
	env *schema.Env
}

// NewPropValidator returns a validator resolving action references through
// actions. A nil registry rejects every action reference.
func NewPropValidator(actions schema.ActionSet) *PropValidator {
	return &PropValidator{env: &schema.Env{Actions: actions}}
}

// WithMessages returns a copy rendering diagnostics with t.
func (v *PropValidator) WithMessages(t i18n.Translator) *PropValidator {
	env := *v.env
	env.Messages = t
	return &PropValidator{env: &env}
}

// Validate checks props against spec. path addresses the node; prop
// diagnostics are reported below path + "/props". Missing props are
// treated as an empty object. The normalized props are returned even when
// there are diagnostics.
func (v *PropValidator) Validate(spec catalog.ComponentSpec, props any, path uiskema.PathRef) (*uiskema.Props, uiskema.Diagnostics) {
	if props == nil {
		props = map[string]any{}
	}
	if m, ok := props.(map[string]any); ok && m == nil {
		props = map[string]any{}
	}
	return spec.Props.CheckProps(v.env, props, path.Field("props"))
}
