package registry

import "github.com/matzehuels/cardbuilder/pkg/layout"

// builtins is the catalogue shipped with cardbuilder. Several factories set a
// display title or name; the editor strips those before inserting.
var builtins = []Handler{
	{Metadata: Metadata{Type: "text", Category: CategoryContent, Icon: "mdi:format-text", Description: "Static or templated text"},
		Defaults: func() layout.Fields { return layout.Fields{"text": "Text", "font_size": 16.0} }},
	{Metadata: Metadata{Type: "markdown", Category: CategoryContent, Icon: "mdi:language-markdown"},
		Defaults: func() layout.Fields { return layout.Fields{"markdown_content": "**Markdown**"} }},
	{Metadata: Metadata{Type: "image", Category: CategoryContent, Icon: "mdi:image"},
		Defaults: func() layout.Fields { return layout.Fields{"image_type": "url", "image": "", "width": "100%"} }},
	{Metadata: Metadata{Type: "icon", Category: CategoryContent, Icon: "mdi:star"},
		Defaults: func() layout.Fields {
			return layout.Fields{"icons": []any{map[string]any{"icon_inactive": "mdi:lightbulb-outline", "icon_active": "mdi:lightbulb"}}}
		}},
	{Metadata: Metadata{Type: "separator", Category: CategoryContent, Icon: "mdi:minus"},
		Defaults: func() layout.Fields { return layout.Fields{"separator_style": "line", "thickness": 1.0} }},
	{Metadata: Metadata{Type: "info", Category: CategoryData, Icon: "mdi:information-outline"},
		Defaults: func() layout.Fields { return layout.Fields{"title": "Info", "info_entities": []any{}} }},
	{Metadata: Metadata{Type: "bar", Category: CategoryData, Icon: "mdi:chart-bar"},
		Defaults: func() layout.Fields { return layout.Fields{"entity": "", "height": 20.0, "bar_style": "flat"} }},
	{Metadata: Metadata{Type: "gauge", Category: CategoryData, Icon: "mdi:gauge"},
		Defaults: func() layout.Fields { return layout.Fields{"name": "Gauge", "entity": "", "min": 0.0, "max": 100.0} }},
	{Metadata: Metadata{Type: "graphs", Category: CategoryData, Icon: "mdi:chart-line"},
		Defaults: func() layout.Fields { return layout.Fields{"title": "Graph", "hours_to_show": 24.0, "entities": []any{}} }},
	{Metadata: Metadata{Type: "camera", Category: CategoryData, Icon: "mdi:cctv"},
		Defaults: func() layout.Fields { return layout.Fields{"entity": "", "live_view": false} }},
	{Metadata: Metadata{Type: "button", Category: CategoryInteractive, Icon: "mdi:gesture-tap-button"},
		Defaults: func() layout.Fields { return layout.Fields{"label": "Click me", "button_style": "flat"} }},
	{Metadata: Metadata{Type: "slider", Category: CategoryInteractive, Icon: "mdi:tune-variant"},
		Defaults: func() layout.Fields { return layout.Fields{"entity": "", "min_value": 0.0, "max_value": 100.0, "step": 1.0} }},
	{Metadata: Metadata{Type: "dropdown", Category: CategoryInteractive, Icon: "mdi:form-dropdown"},
		Defaults: func() layout.Fields { return layout.Fields{"label": "Select", "options": []any{}} }},
	{Metadata: Metadata{Type: layout.TypeHorizontal, Category: CategoryLayout, Icon: "mdi:view-column", Description: "Lays out child modules side by side"},
		Defaults: func() layout.Fields { return layout.Fields{"alignment": "left", "gap": 0.7, "wrap": false} }},
	{Metadata: Metadata{Type: layout.TypeVertical, Category: CategoryLayout, Icon: "mdi:view-sequential", Description: "Stacks child modules"},
		Defaults: func() layout.Fields { return layout.Fields{"alignment": "center", "gap": 1.2} }},
}

// Builtin returns a catalogue holding the built-in module types.
func Builtin(ids layout.IDFunc) *Catalog {
	c := New(ids)
	for _, h := range builtins {
		c.MustRegister(h)
	}
	return c
}
