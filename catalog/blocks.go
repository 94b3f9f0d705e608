package catalog

import (
	"errors"

	"github.com/reoring/uiskema"
	s "github.com/reoring/uiskema/schema"
)

// Shared prop blocks of the dashboard catalog. Each call returns a fresh
// schema so components never share builder state.

func numOrStr() s.Type { return s.Union(s.Number(), s.String()) }

func strOrNum() s.Type { return s.Union(s.String(), s.Number()) }

func formatEnum() s.Type { return s.Enum("currency", "percent", "number") }

func titleStyle() *s.ObjectType {
	return s.Object().
		Field("fontFamily", s.String()).
		Field("fontWeight", strOrNum()).
		Field("fontSize", numOrStr()).
		Field("color", s.String()).
		Field("letterSpacing", numOrStr()).
		Field("textTransform", s.Enum("none", "uppercase", "lowercase", "capitalize")).
		Field("padding", numOrStr()).
		Field("margin", numOrStr()).
		Field("textAlign", s.Enum("left", "center", "right")).
		Strip().
		MustBuild()
}

func frameStyle() *s.ObjectType {
	return s.Object().
		Field("variant", s.Enum("hud")).
		Field("baseColor", s.String()).
		Field("cornerColor", s.String()).
		Field("cornerSize", numOrStr()).
		Field("cornerWidth", numOrStr()).
		Strip().
		MustBuild()
}

func containerStyle() *s.ObjectType {
	return s.Object().
		Field("backgroundColor", s.String()).
		Field("borderColor", s.String()).
		Field("borderStyle", s.String()).
		Field("borderWidth", numOrStr()).
		Field("borderRadius", numOrStr()).
		Field("boxShadow", s.String()).
		Field("padding", numOrStr()).
		Field("margin", numOrStr()).
		Field("frame", frameStyle()).
		Strip().
		MustBuild()
}

func nivoText() *s.ObjectType {
	return s.Object().
		Field("fontFamily", s.String()).
		Field("fontSize", s.Number()).
		Field("fill", s.String()).
		Strip().
		MustBuild()
}

func textBlock() *s.ObjectType {
	return s.Object().Field("text", nivoText()).Strip().MustBuild()
}

func nivoTheme() *s.ObjectType {
	axis := s.Object().
		Field("ticks", textBlock()).
		Field("legend", textBlock()).
		Strip().
		MustBuild()
	return s.Object().
		Field("textColor", s.String()).
		Field("fontSize", s.Number()).
		Field("fontFamily", s.String()).
		Field("axis", axis).
		Field("labels", textBlock()).
		Strip().
		MustBuild()
}

func margins() *s.ObjectType {
	return s.Object().
		Field("top", s.Number()).
		Field("right", s.Number()).
		Field("bottom", s.Number()).
		Field("left", s.Number()).
		Strip().
		MustBuild()
}

func axisBottom() *s.ObjectType {
	return s.Object().
		Field("tickRotation", s.Number()).
		Field("legend", s.String()).
		Field("legendOffset", s.Number()).
		Strip().
		MustBuild()
}

func axisLeft() *s.ObjectType {
	return s.Object().
		Field("legend", s.String()).
		Field("legendOffset", s.Number()).
		Strip().
		MustBuild()
}

func orderBy() *s.ObjectType {
	return s.Object().
		Field("field", s.String()).
		Field("dir", s.Enum("asc", "desc")).
		Strip().
		MustBuild()
}

// actionRef is the {type: action} block used by interactive controls.
func actionRef(required bool) *s.ObjectType {
	f := s.Object().Field("type", s.ActionRef())
	if required {
		return f.Required().MustBuild()
	}
	return f.Strip().MustBuild()
}

func chartQuery() *s.ObjectType {
	timeAxis := s.Object().
		Field("column", s.String()).Required().
		Field("granularity", s.Enum("day", "month", "year")).Default("month").
		Field("format", s.String()).
		Field("alias", s.String()).
		MustBuild()
	return s.Object().
		Field("model", s.String()).Required().
		Field("dimension", s.String()).
		Field("dimensionExpr", s.String()).
		Field("time", timeAxis).
		Field("measure", s.String()).Required().
		Field("filters", s.Record(s.Any())).
		Field("orderBy", orderBy()).
		Field("limit", s.Number()).
		MustBuild()
}

func option() *s.ObjectType {
	return s.Object().
		Field("value", numOrStr()).Required().
		Field("label", s.String()).Required().
		MustBuild()
}

// slicerSource selects where slicer options come from, keyed by "type".
func slicerSource(withQuery bool) s.Type {
	static := s.Object().
		Field("type", s.Literal("static")).Required().
		Field("options", s.Array(option())).Default([]any{}).
		MustBuild()
	api := s.Object().
		Field("type", s.Literal("api")).Required().
		Field("url", s.String()).Required().
		Field("method", s.Enum("GET", "POST")).
		Field("valueField", s.String()).
		Field("labelField", s.String()).
		Field("params", s.Record(s.Any())).
		MustBuild()
	opts := s.Object().
		Field("type", s.Literal("options")).Required().
		Field("model", s.String()).Required().
		Field("field", s.String()).Required().
		Field("pageSize", s.Number()).
		Field("limit", s.Number()).
		Field("dependsOn", s.Array(s.String())).
		MustBuild()
	variants := []s.Variant{
		{Tags: []string{"static"}, Object: static},
		{Tags: []string{"api"}, Object: api},
		{Tags: []string{"options"}, Object: opts},
	}
	if withQuery {
		query := s.Object().
			Field("type", s.Literal("query")).Required().
			Field("model", s.String()).Required().
			Field("dimension", s.String()).Required().
			Field("filters", s.Record(s.Any())).
			Field("limit", s.Number()).
			MustBuild()
		variants = append(variants, s.Variant{Tags: []string{"query"}, Object: query})
	}
	return s.Tagged("type", variants...).Type()
}

var slicerKinds = []string{"dropdown", "multi", "list", "tile", "tile-multi"}

// headerSlicer is either an option slicer (type defaults to dropdown) or a
// numeric range slicer.
func headerSlicer() s.Type {
	choice := s.Object().
		Field("label", s.String()).
		Field("storePath", s.String()).Required().
		Field("type", s.Enum(slicerKinds...)).Default("dropdown").
		Field("placeholder", s.String()).
		Field("clearable", s.Bool()).
		Field("width", numOrStr()).
		Field("source", slicerSource(false)).
		Field("actionOnChange", actionRef(false)).
		Field("labelStyle", titleStyle()).
		Field("optionStyle", titleStyle()).
		MustBuild()
	rng := s.Object().
		Field("label", s.String()).
		Field("type", s.Literal("range")).Required().
		Field("storeMinPath", s.String()).Required().
		Field("storeMaxPath", s.String()).Required().
		Field("prefix", s.String()).
		Field("suffix", s.String()).
		Field("step", s.Number()).
		Field("decimals", s.Number()).
		Field("placeholderMin", s.String()).
		Field("placeholderMax", s.String()).
		Field("width", numOrStr()).
		Field("clearable", s.Bool()).
		Field("actionOnChange", actionRef(false)).
		Field("labelStyle", titleStyle()).
		MustBuild()
	return s.Tagged("type",
		s.Variant{Tags: slicerKinds, Object: choice},
		s.Variant{Tags: []string{"range"}, Object: rng},
	).DefaultTag("dropdown").Type()
}

func datePicker() *s.ObjectType {
	field := s.Object().
		Field("backgroundColor", s.String()).
		Field("color", s.String()).
		Field("borderColor", s.String()).
		Field("borderWidth", numOrStr()).
		Field("borderRadius", numOrStr()).
		Field("paddingX", numOrStr()).
		Field("paddingY", numOrStr()).
		Strip().
		MustBuild()
	icon := s.Object().
		Field("color", s.String()).
		Field("backgroundColor", s.String()).
		Field("size", numOrStr()).
		Field("padding", numOrStr()).
		Field("borderRadius", numOrStr()).
		Field("position", s.Enum("left", "right")).
		Strip().
		MustBuild()
	style := s.Object().
		Field("padding", numOrStr()).
		Field("margin", numOrStr()).
		Field("fontFamily", s.String()).
		Field("fontSize", numOrStr()).
		Field("color", s.String()).
		Field("labelStyle", s.Object().Open().MustBuild()).
		Field("fieldStyle", field).
		Field("iconStyle", icon).
		Strip().
		MustBuild()
	return s.Object().
		Field("visible", s.Bool()).
		Field("mode", s.Enum("range", "single")).
		Field("position", s.Enum("left", "right", "below")).
		Field("storePath", s.String()).
		Field("format", s.String()).
		Field("presets", s.Array(s.Enum("today", "week", "month"))).
		Field("actionOnChange", actionRef(false)).
		Field("style", style).
		Strip().
		MustBuild()
}

// oneOf fails unless at least one of keys holds a non-empty value.
func oneOf(msg string, keys ...string) func(*uiskema.Props) error {
	return func(p *uiskema.Props) error {
		for _, k := range keys {
			if v, ok := p.Get(k); ok && v != nil && v != "" {
				return nil
			}
		}
		return errors.New(msg)
	}
}
