package layout

import (
	"slices"
	"strconv"
	"strings"
)

// Template is a named horizontal proportion split, e.g. "1-2" for 1/3 + 2/3.
type Template struct {
	ID          string
	Name        string
	Proportions []int
}

// ColumnCount returns the number of columns the template lays out.
func (t Template) ColumnCount() int { return len(t.Proportions) }

// Widths returns each column's share of the row as a percentage.
func (t Template) Widths() []float64 {
	total := 0
	for _, p := range t.Proportions {
		total += p
	}
	out := make([]float64, len(t.Proportions))
	for i, p := range t.Proportions {
		out[i] = float64(p) * 100 / float64(total)
	}
	return out
}

var templates = []Template{
	{ID: "1-col", Name: "Single column", Proportions: []int{1}},
	{ID: "1-1", Name: "1/2 + 1/2", Proportions: []int{1, 1}},
	{ID: "1-2", Name: "1/3 + 2/3", Proportions: []int{1, 2}},
	{ID: "2-1", Name: "2/3 + 1/3", Proportions: []int{2, 1}},
	{ID: "1-1-1", Name: "1/3 + 1/3 + 1/3", Proportions: []int{1, 1, 1}},
	{ID: "1-2-1", Name: "1/4 + 1/2 + 1/4", Proportions: []int{1, 2, 1}},
	{ID: "1-1-2", Name: "1/4 + 1/4 + 1/2", Proportions: []int{1, 1, 2}},
	{ID: "2-1-1", Name: "1/2 + 1/4 + 1/4", Proportions: []int{2, 1, 1}},
	{ID: "1-1-1-1", Name: "4 equal columns", Proportions: []int{1, 1, 1, 1}},
	{ID: "1-1-1-1-1", Name: "5 equal columns", Proportions: []int{1, 1, 1, 1, 1}},
	{ID: "1-1-1-1-1-1", Name: "6 equal columns", Proportions: []int{1, 1, 1, 1, 1, 1}},
}

// legacyTemplateIDs maps ids written by older versions to current ids.
// Lookups go one way only; stored ids are left as they are.
var legacyTemplateIDs = map[string]string{
	"50-50":             "1-1",
	"33-67":             "1-2",
	"30-70":             "1-2",
	"67-33":             "2-1",
	"70-30":             "2-1",
	"33-33-33":          "1-1-1",
	"25-50-25":          "1-2-1",
	"25-25-50":          "1-1-2",
	"50-25-25":          "2-1-1",
	"25-25-25-25":       "1-1-1-1",
	"20-20-20-20-20":    "1-1-1-1-1",
	"16-16-16-16-16-16": "1-1-1-1-1-1",
}

// Templates returns all current templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = t
		out[i].Proportions = slices.Clone(t.Proportions)
	}
	return out
}

// TemplateIDs returns the current template ids in display order.
func TemplateIDs() []string {
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	return ids
}

// ResolveTemplateID maps a legacy id to its current id. Unknown and current
// ids are returned unchanged.
func ResolveTemplateID(id string) string {
	if current, ok := legacyTemplateIDs[id]; ok {
		return current
	}
	return id
}

// LookupTemplate finds a template by current or legacy id.
func LookupTemplate(id string) (Template, bool) {
	id = ResolveTemplateID(id)
	for _, t := range templates {
		if t.ID == id {
			t.Proportions = slices.Clone(t.Proportions)
			return t, true
		}
	}
	return Template{}, false
}

// EqualTemplateID returns the equal-split template id for n columns, or ""
// when n is outside 1..MaxColumns.
func EqualTemplateID(n int) string {
	switch {
	case n == 1:
		return "1-col"
	case n > 1 && n <= MaxColumns:
		return strings.TrimSuffix(strings.Repeat("1-", n), "-")
	default:
		return ""
	}
}

// Template resolves the row's column_layout. An empty or unknown id falls
// back to the equal split for the row's column count.
func (r Row) Template() (Template, bool) {
	if t, ok := LookupTemplate(r.ColumnLayout); ok {
		return t, true
	}
	return LookupTemplate(EqualTemplateID(len(r.Columns)))
}

// templateLabel is used in validation messages.
func templateLabel(id string) string {
	if id == "" {
		return `""`
	}
	return strconv.Quote(id)
}
