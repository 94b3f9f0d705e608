package catalog

import (
	"sync"

	s "github.com/reoring/uiskema/schema"
)

// DefaultActions are the actions exposed to dashboard buttons and controls.
var DefaultActions = []ActionSpec{
	{Name: "export_report", Description: "Export dashboard to PDF"},
	{Name: "refresh_data", Description: "Refresh all metrics"},
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	actions, err := NewActionRegistry(DefaultActions...)
	if err != nil {
		panic(err)
	}
	return New(WithActions(actions)).MustRegister(DashboardComponents()...)
})

// Default returns the shared dashboard catalog. It is built on first use
// and never modified afterwards.
func Default() *Catalog { return defaultCatalog() }

// NewDefault builds a fresh dashboard catalog with opts applied.
func NewDefault(opts ...Option) (*Catalog, error) {
	actions, err := NewActionRegistry(DefaultActions...)
	if err != nil {
		return nil, err
	}
	c := New(append([]Option{WithActions(actions)}, opts...)...)
	for _, spec := range DashboardComponents() {
		if err := c.Register(spec); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DashboardComponents returns the specs of the dashboard component set.
func DashboardComponents() []ComponentSpec {
	return []ComponentSpec{
		themeSpec(),
		headerSpec(),
		divSpec(),
		{
			Name:        "Card",
			Description: "Titled container",
			Props: s.Object().
				Field("title", s.String()).Required().
				Field("titleStyle", titleStyle()).
				Field("frame", frameStyle()).
				MustBuild(),
			AllowsChildren: true,
		},
		{
			Name:        "Metric",
			Description: "Single value read from the data store",
			Props: s.Object().
				Field("label", s.String()).Required().
				Field("valuePath", s.String()).Required().
				Field("format", formatEnum()).Default("number").
				MustBuild(),
		},
		kpiSpec(),
		chartSpec("BarChart", "Bar chart over a data query", barNivo(), true),
		chartSpec("LineChart", "Line chart over a data query", lineNivo(), false),
		chartSpec("PieChart", "Pie chart over a data query", pieNivo(), false),
		gaugeSpec(),
		slicerCardSpec(),
		{
			Name:        "Button",
			Description: "Triggers a registered action",
			Props: s.Object().
				Field("label", s.String()).Required().
				Field("action", actionRef(true)).Required().
				MustBuild(),
		},
	}
}

func themeSpec() ComponentSpec {
	border := s.Object().
		Field("style", s.Enum("none", "solid", "dashed", "dotted")).
		Field("width", numOrStr()).
		Field("color", s.String()).
		Field("radius", numOrStr()).
		Field("shadow", s.Enum("none", "sm", "md", "lg", "xl", "2xl")).
		Field("frame", frameStyle()).
		Strip().
		MustBuild()
	h1 := s.Object().
		Field("color", s.String()).
		Field("weight", strOrNum()).
		Field("size", strOrNum()).
		Field("font", s.String()).
		Field("letterSpacing", strOrNum()).
		Field("padding", strOrNum()).
		Strip().
		MustBuild()
	text := func() *s.ObjectType {
		return s.Object().
			Field("font", s.String()).
			Field("weight", strOrNum()).
			Field("color", s.String()).
			Field("letterSpacing", strOrNum()).
			Field("padding", strOrNum()).
			Strip().
			MustBuild()
	}
	kpi := s.Object().
		Field("title", text()).
		Field("value", text()).
		Strip().
		MustBuild()
	managers := s.Object().
		Field("font", s.String()).
		Field("border", border).
		Field("color", s.Object().Field("scheme", s.Array(s.String())).Strip().MustBuild()).
		Field("background", s.String()).
		Field("surface", s.String()).
		Field("h1", h1).
		Field("kpi", kpi).
		Strip().
		MustBuild()
	return ComponentSpec{
		Name:        "Theme",
		Description: "Applies a named visual theme to its children",
		Props: s.Object().
			Field("name", s.String()).Required().
			Field("headerTheme", s.String()).
			Field("managers", managers).
			MustBuild(),
		AllowsChildren: true,
	}
}

func headerSpec() ComponentSpec {
	return ComponentSpec{
		Name:        "Header",
		Description: "Dashboard title bar with date picker and slicers",
		Props: s.Object().
			Field("title", s.String()).Required().
			Field("subtitle", s.String()).
			Field("align", s.Enum("left", "center", "right")).
			Field("backgroundColor", s.String()).
			Field("textColor", s.String()).
			Field("subtitleColor", s.String()).
			Field("padding", numOrStr()).
			Field("margin", numOrStr()).
			Field("borderColor", s.String()).
			Field("borderWidth", s.Number()).
			Field("borderTopWidth", s.Number()).
			Field("borderRightWidth", s.Number()).
			Field("borderBottomWidth", s.Number()).
			Field("borderLeftWidth", s.Number()).
			Field("borderRadius", s.Number()).
			Field("width", numOrStr()).
			Field("height", numOrStr()).
			Field("frame", frameStyle()).
			Field("controlsPosition", s.Enum("left", "right", "below")).
			Field("datePicker", datePicker()).
			Field("slicers", s.Array(headerSlicer())).
			MustBuild(),
		AllowsChildren: true,
	}
}

func divSpec() ComponentSpec {
	return ComponentSpec{
		Name:        "Div",
		Description: "Flex layout container",
		Props: s.Object().
			Field("direction", s.Enum("row", "column")).
			Field("gap", numOrStr()).
			Field("wrap", s.Bool()).
			Field("justify", s.Enum("start", "center", "end", "between", "around", "evenly")).
			Field("align", s.Enum("start", "center", "end", "stretch")).
			Field("childGrow", s.Bool()).
			Field("padding", numOrStr()).
			Field("margin", numOrStr()).
			Field("backgroundColor", s.String()).
			Field("borderColor", s.String()).
			Field("borderWidth", s.Number()).
			Field("borderRadius", s.Number()).
			Field("width", numOrStr()).
			Field("height", numOrStr()).
			Field("frame", frameStyle()).
			MustBuild(),
		AllowsChildren: true,
	}
}

func kpiSpec() ComponentSpec {
	query := s.Object().
		Field("model", s.String()).Required().
		Field("measure", s.String()).Required().
		Field("filters", s.Record(s.Any())).
		Field("orderBy", orderBy()).
		Field("limit", s.Number()).
		MustBuild()
	return ComponentSpec{
		Name:        "KPI",
		Description: "Headline number from a store path or a data query",
		Props: s.Object().
			Field("title", s.String()).Required().
			Field("valuePath", s.String()).
			Field("dataQuery", query).
			Field("valueKey", s.String()).
			Field("format", formatEnum()).Default("number").
			Field("titleStyle", titleStyle()).
			Field("valueStyle", titleStyle()).
			Field("containerStyle", containerStyle()).
			Field("borderless", s.Bool()).
			Field("fr", s.Number()).
			Field("unit", s.String()).
			Refine("valuePath|dataQuery", oneOf("KPI requires either valuePath or dataQuery", "valuePath", "dataQuery")).
			MustBuild(),
	}
}

// chartSpec builds the props shared by every chart type. nivo is the
// chart library's own configuration and passes unknown keys through.
func chartSpec(name, desc string, nivo *s.ObjectType, drill bool) ComponentSpec {
	b := s.Object().
		Field("title", s.String()).
		Field("titleStyle", titleStyle()).
		Field("dataQuery", chartQuery()).Required()
	if drill {
		level := s.Object().
			Field("label", s.String()).
			Field("dimension", s.String()).
			Field("dimensionExpr", s.String()).
			Field("filterField", s.String()).
			Refine("dimension|dimensionExpr", oneOf("drill level requires dimension or dimensionExpr", "dimension", "dimensionExpr")).
			MustBuild()
		b.Field("drill", s.Object().
			Field("enabled", s.Bool()).
			Field("showBreadcrumb", s.Bool()).
			Field("levels", s.Array(level)).
			Strip().
			MustBuild())
	}
	props := b.
		Field("containerStyle", containerStyle()).
		Field("borderless", s.Bool()).
		Field("fr", s.Number()).
		Field("format", formatEnum()).Default("number").
		Field("height", s.Number()).
		Field("colorScheme", s.Union(s.String(), s.Array(s.String()))).
		Field("nivo", nivo).
		MustBuild()
	return ComponentSpec{Name: name, Description: desc, Props: props}
}

func barNivo() *s.ObjectType {
	return s.Object().
		Field("layout", s.Enum("vertical", "horizontal")).
		Field("padding", s.Number()).
		Field("groupMode", s.Enum("grouped", "stacked")).
		Field("gridX", s.Bool()).
		Field("gridY", s.Bool()).
		Field("enableLabel", s.Bool()).
		Field("labelSkipWidth", s.Number()).
		Field("labelSkipHeight", s.Number()).
		Field("labelTextColor", s.String()).
		Field("axisBottom", axisBottom()).
		Field("axisLeft", axisLeft()).
		Field("margin", margins()).
		Field("animate", s.Bool()).
		Field("motionConfig", s.String()).
		Field("theme", nivoTheme()).
		Open().
		MustBuild()
}

func lineNivo() *s.ObjectType {
	return s.Object().
		Field("gridX", s.Bool()).
		Field("gridY", s.Bool()).
		Field("curve", s.String()).
		Field("area", s.Bool()).
		Field("pointSize", s.Number()).
		Field("axisBottom", axisBottom()).
		Field("axisLeft", axisLeft()).
		Field("margin", margins()).
		Field("animate", s.Bool()).
		Field("motionConfig", s.String()).
		Field("theme", nivoTheme()).
		Open().
		MustBuild()
}

func pieNivo() *s.ObjectType {
	return s.Object().
		Field("innerRadius", s.Number()).
		Field("padAngle", s.Number()).
		Field("cornerRadius", s.Number()).
		Field("activeInnerRadiusOffset", s.Number()).
		Field("activeOuterRadiusOffset", s.Number()).
		Field("enableArcLabels", s.Bool()).
		Field("arcLabelsSkipAngle", s.Number()).
		Field("arcLabelsTextColor", s.String()).
		Field("margin", margins()).
		Field("animate", s.Bool()).
		Field("motionConfig", s.String()).
		Field("theme", nivoTheme()).
		Open().
		MustBuild()
}

func gaugeSpec() ComponentSpec {
	return ComponentSpec{
		Name:        "Gauge",
		Description: "Radial gauge for a bounded value",
		Props: s.Object().
			Field("title", s.String()).
			Field("label", s.String()).
			Field("value", s.Number()).
			Field("valuePath", s.String()).
			Field("min", s.Number()).
			Field("max", s.Number()).
			Field("format", formatEnum()).
			Field("size", s.Number()).
			Field("thickness", s.Number()).
			Field("trackColor", s.String()).
			Field("indicatorColor", s.String()).
			Field("showValue", s.Bool()).
			Field("roundedCaps", s.Bool()).
			Field("containerStyle", containerStyle()).
			Field("borderless", s.Bool()).
			Field("fr", s.Number()).
			MustBuild(),
	}
}

func slicerCardSpec() ComponentSpec {
	field := s.Object().
		Field("label", s.String()).
		Field("type", s.Enum("list", "dropdown", "multi", "tile", "tile-multi")).Default("list").
		Field("storePath", s.String()).Required().
		Field("placeholder", s.String()).
		Field("clearable", s.Bool()).
		Field("selectAll", s.Bool()).
		Field("search", s.Bool()).
		Field("width", numOrStr()).
		Field("source", slicerSource(true)).
		Field("actionOnChange", actionRef(false)).
		MustBuild()
	return ComponentSpec{
		Name:        "SlicerCard",
		Description: "Card of filter controls bound to store paths",
		Props: s.Object().
			Field("title", s.String()).
			Field("fr", s.Number()).
			Field("layout", s.Enum("vertical", "horizontal")).
			Field("applyMode", s.Enum("auto", "manual")).
			Field("actionOnApply", actionRef(false)).
			Field("containerStyle", containerStyle()).
			Field("borderless", s.Bool()).
			Field("fields", s.Array(field)).Default([]any{}).
			MustBuild(),
	}
}
