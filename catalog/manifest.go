package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/uiskema/jsonschema"
	"github.com/reoring/uiskema/schema"
)

// Manifest is the read-only contract handed to document generators: every
// component with its props, and every action.
type Manifest struct {
	Components []ComponentManifest `json:"components" yaml:"components"`
	Actions    []ActionSpec        `json:"actions" yaml:"actions"`
}

// ComponentManifest describes one component type.
type ComponentManifest struct {
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	AllowsChildren bool           `json:"allowsChildren" yaml:"allowsChildren"`
	Policy         string         `json:"policy" yaml:"policy"`
	Props          []PropManifest `json:"props" yaml:"props"`
	Rules          []string       `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// PropManifest describes one declared prop. Nested objects list their own
// fields; arrays of objects list the fields of their items.
type PropManifest struct {
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	Required    bool           `json:"required" yaml:"required"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string       `json:"enum,omitempty" yaml:"enum,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Policy      string         `json:"policy,omitempty" yaml:"policy,omitempty"`
	Fields      []PropManifest `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Discriminator and Variants describe tagged unions.
	Discriminator string            `json:"discriminator,omitempty" yaml:"discriminator,omitempty"`
	Variants      []VariantManifest `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// VariantManifest lists the fields of one tagged-union variant.
type VariantManifest struct {
	Tags   []string       `json:"tags" yaml:"tags"`
	Policy string         `json:"policy" yaml:"policy"`
	Fields []PropManifest `json:"fields" yaml:"fields"`
}

// Manifest exports the catalog. Components are sorted by name; actions keep
// registration order.
func (c *Catalog) Manifest() Manifest {
	m := Manifest{Actions: c.actions.List()}
	for _, name := range c.Names() {
		spec, _ := c.Lookup(name)
		m.Components = append(m.Components, ComponentManifest{
			Name:           spec.Name,
			Description:    spec.Description,
			AllowsChildren: spec.AllowsChildren,
			Policy:         spec.Props.Policy().String(),
			Props:          propsOf(spec.Props),
			Rules:          spec.Props.Rules(),
		})
	}
	if m.Actions == nil {
		m.Actions = []ActionSpec{}
	}
	return m
}

func propsOf(o *schema.ObjectType) []PropManifest {
	fields := o.Fields()
	out := make([]PropManifest, 0, len(fields))
	for _, f := range fields {
		p := PropManifest{
			Name:        f.Name,
			Type:        schema.Describe(f.Type),
			Required:    f.Required && !f.HasDefault,
			Description: f.Description,
		}
		if f.HasDefault {
			p.Default = schema.Clone(f.Default)
		}
		if vals, ok := schema.EnumValues(f.Type); ok {
			p.Enum = vals
		}
		nested := f.Type
		if elem, ok := schema.Elem(nested); ok {
			nested = elem
		}
		if obj, ok := nested.(*schema.ObjectType); ok {
			p.Policy = obj.Policy().String()
			p.Fields = propsOf(obj)
		}
		if disc, variants, ok := schema.Variants(nested); ok {
			p.Discriminator = disc
			for _, v := range variants {
				p.Variants = append(p.Variants, VariantManifest{
					Tags:   slices.Clone(v.Tags),
					Policy: v.Object.Policy().String(),
					Fields: propsOf(v.Object),
				})
			}
		}
		out = append(out, p)
	}
	return out
}

// JSON renders the manifest as indented JSON.
func (m Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// YAML renders the manifest as YAML.
func (m Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// Text renders a compact listing meant to be embedded in a generator
// prompt.
func (m Manifest) Text() string {
	var b strings.Builder
	b.WriteString("Components:\n")
	for _, c := range m.Components {
		children := "no children"
		if c.AllowsChildren {
			children = "children allowed"
		}
		fmt.Fprintf(&b, "- %s (%s)", c.Name, children)
		if c.Description != "" {
			fmt.Fprintf(&b, ": %s", c.Description)
		}
		b.WriteByte('\n')
		writeProps(&b, c.Props, 1)
		for _, r := range c.Rules {
			fmt.Fprintf(&b, "    rule: %s\n", r)
		}
	}
	b.WriteString("Actions:\n")
	for _, a := range m.Actions {
		fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Description)
	}
	return b.String()
}

func writeProps(b *strings.Builder, props []PropManifest, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, p := range props {
		fmt.Fprintf(b, "%s%s: %s", indent, p.Name, p.Type)
		switch {
		case p.Required:
			b.WriteString(" (required)")
		case p.Default != nil:
			fmt.Fprintf(b, " (default %s)", renderDefault(p.Default))
		}
		b.WriteByte('\n')
		writeProps(b, p.Fields, depth+1)
		for _, v := range p.Variants {
			fmt.Fprintf(b, "%s    when %s = %s:\n", indent, p.Discriminator, strings.Join(quoteTags(v.Tags), " | "))
			writeProps(b, v.Fields, depth+2)
		}
	}
}

func quoteTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strconv.Quote(t)
	}
	return out
}

func renderDefault(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

// JSONSchema returns the JSON Schema of one component's props.
func (c *Catalog) JSONSchema(name string) (*js.Schema, bool) {
	spec, ok := c.Lookup(name)
	if !ok {
		return nil, false
	}
	sch := schema.JSONSchema(c.Env(), spec.Props)
	sch.Schema = js.Draft
	sch.Title = spec.Name
	if spec.Description != "" {
		sch.Description = spec.Description
	}
	return sch, true
}

// JSONSchemas returns the props schema of every component keyed by name.
func (c *Catalog) JSONSchemas() map[string]*js.Schema {
	out := map[string]*js.Schema{}
	for _, n := range c.Names() {
		out[n], _ = c.JSONSchema(n)
	}
	return out
}
