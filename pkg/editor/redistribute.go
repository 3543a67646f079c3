package editor

import (
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// ChangeColumnLayout switches row ri to the template templateID and reshapes
// its columns to the template's column count (see [Redistribute]). Legacy ids
// are accepted; the current id is stored.
func (e *Editor) ChangeColumnLayout(l layout.Layout, ri int, templateID string) (layout.Layout, error) {
	if err := checkRow(l, ri); err != nil {
		return l, err
	}
	tmpl, ok := layout.LookupTemplate(templateID)
	if !ok {
		return l, errs.New(errs.ErrCodeInvalidTemplate, "unknown column layout %q", templateID)
	}
	r := l.Rows[ri]
	if layout.ResolveTemplateID(r.ColumnLayout) == tmpl.ID && len(r.Columns) == tmpl.ColumnCount() {
		return l, errs.New(errs.ErrCodeNoChange, "row %d already uses column layout %s", ri, tmpl.ID)
	}
	r.Columns = Redistribute(r.Columns, tmpl.ColumnCount(), e.IDs)
	r.ColumnLayout = tmpl.ID
	return withRow(l, ri, r), nil
}

// Redistribute returns cols reshaped to target columns.
//
// With target == len(cols) the columns are returned as they are. Growing
// keeps every column and appends empty ones. Shrinking keeps the ids,
// alignments and settings of the first target columns, collects every module
// in column order, and deals them round-robin: module k goes to column
// k mod target. A single target column receives all modules in order.
// A target below one returns cols unchanged.
func Redistribute(cols []layout.Column, target int, ids layout.IDFunc) []layout.Column {
	current := len(cols)
	switch {
	case target == current, target < 1:
		return cols
	case target > current:
		out := make([]layout.Column, 0, target)
		out = append(out, cols...)
		for len(out) < target {
			out = append(out, layout.NewColumn(ids))
		}
		return out
	}

	var flat []layout.Module
	for _, c := range cols {
		flat = append(flat, c.Modules...)
	}

	out := make([]layout.Column, target)
	for i := range out {
		if i < current {
			out[i] = cols[i]
			out[i].Modules = []layout.Module{}
		} else {
			out[i] = layout.NewColumn(ids)
		}
	}
	if target == 1 {
		out[0].Modules = append(out[0].Modules, flat...)
		return out
	}
	for k, m := range flat {
		i := k % target
		out[i].Modules = append(out[i].Modules, m)
	}
	return out
}
