package editor

import (
	"errors"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// UpdateNode merges p into the row, column or module at a. Keys whose value
// is nil or layout.Unset are removed from the node rather than set; this is
// how a setting is reset to its default.
func (e *Editor) UpdateNode(l layout.Layout, a layout.Address, p layout.Patch) (layout.Layout, error) {
	if len(p) == 0 {
		return l, errs.New(errs.ErrCodeNoChange, "empty patch for %s", a)
	}
	var (
		out layout.Layout
		err error
	)
	switch a.Kind() {
	case layout.KindRow:
		if err = checkRow(l, a.Row); err != nil {
			return l, err
		}
		var r layout.Row
		if r, err = l.Rows[a.Row].Patched(p); err == nil {
			out = withRow(l, a.Row, r)
		}
	case layout.KindColumn:
		if err = checkColumn(l, a.Row, a.Column); err != nil {
			return l, err
		}
		var c layout.Column
		if c, err = l.Rows[a.Row].Columns[a.Column].Patched(p); err == nil {
			out = withColumn(l, a.Row, a.Column, c)
		}
	case layout.KindModule:
		if err = checkModule(l, a.Row, a.Column, a.Module); err != nil {
			return l, err
		}
		mods := l.Rows[a.Row].Columns[a.Column].Modules
		var m layout.Module
		if m, err = mods[a.Module].Patched(p); err == nil {
			out = withModules(l, a.Row, a.Column, replaceAt(mods, a.Module, m))
		}
	case layout.KindLayoutChild:
		if err = checkChild(l, a.Row, a.Column, a.Module, a.Child); err != nil {
			return l, err
		}
		children := l.Rows[a.Row].Columns[a.Column].Modules[a.Module].Modules
		var m layout.Module
		if m, err = children[a.Child].Patched(p); err == nil {
			out = withChildren(l, a.Row, a.Column, a.Module, replaceAt(children, a.Child, m))
		}
	}
	if err != nil {
		var pe *layout.PatchError
		if errors.As(err, &pe) {
			return l, errs.Wrap(errs.ErrCodeInvalidPatch, err, "update %s", a)
		}
		return l, err
	}
	return out, nil
}
