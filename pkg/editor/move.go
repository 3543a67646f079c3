package editor

import (
	"reflect"

	"github.com/matzehuels/cardbuilder/pkg/drag"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Move relocates the node picked up as src onto t and returns the new layout.
//
// The node at src's position must still be the one that was picked up (same
// id); otherwise the move fails with STALE_SOURCE. Every coordinate is
// resolved before anything changes, so a failed move never leaves a partial
// result. A move that would leave the layout as it is returns NO_CHANGE.
func (e *Editor) Move(l layout.Layout, src drag.Source, t drag.Target) (layout.Layout, error) {
	if src == nil || t == nil {
		return l, errs.New(errs.ErrCodeInvalidInput, "move needs a source and a target")
	}
	if drag.IsSelf(src, t) {
		return l, errs.New(errs.ErrCodeNoChange, "%s dropped on itself", src.Address())
	}
	if err := checkSource(l, src); err != nil {
		return l, err
	}

	var (
		out layout.Layout
		err error
	)
	switch s := src.(type) {
	case drag.RowSource:
		out, err = moveRow(l, s, t)
	case drag.ColumnSource:
		out, err = moveColumn(l, s, t)
	case drag.ModuleSource, drag.ChildSource:
		out, err = moveModule(l, src, t)
	default:
		err = errs.New(errs.ErrCodeUnsupported, "unknown drag source %T", src)
	}
	if err != nil {
		return l, err
	}
	if reflect.DeepEqual(out, l) {
		return l, errs.New(errs.ErrCodeNoChange, "%s is already at %s", src.Address(), drag.Describe(t))
	}
	return out, nil
}

func checkSource(l layout.Layout, src drag.Source) error {
	id, ok := l.NodeID(src.Address())
	if !ok {
		return coordinateError("no %s at %s", src.Kind(), src.Address())
	}
	if id != src.SnapshotID() {
		return errs.New(errs.ErrCodeStaleSource, "%s holds %q, dragged %q", src.Address(), id, src.SnapshotID())
	}
	return nil
}

func incompatible(src drag.Source, t drag.Target) error {
	return errs.New(errs.ErrCodeIncompatibleDrop, "cannot drop %s on %s", src.Kind(), drag.Describe(t))
}

// moveRow inserts the row at the target index of the shortened row list.
func moveRow(l layout.Layout, s drag.RowSource, t drag.Target) (layout.Layout, error) {
	rt, ok := t.(drag.RowTarget)
	if !ok {
		return l, incompatible(s, t)
	}
	if err := checkRow(l, rt.Row); err != nil {
		return l, err
	}
	row := l.Rows[s.Row]
	return layout.Layout{Rows: insertAt(removeAt(l.Rows, s.Row), rt.Row, row)}, nil
}

// moveColumn inserts the column at a column target's index, or appends it to
// a row target. Moves across rows respect the column limit and reset both
// rows to the equal-split template.
func moveColumn(l layout.Layout, s drag.ColumnSource, t drag.Target) (layout.Layout, error) {
	var (
		dstRow int
		at     = -1 // -1 appends
	)
	switch tt := t.(type) {
	case drag.ColumnTarget:
		if err := checkColumn(l, tt.Row, tt.Column); err != nil {
			return l, err
		}
		dstRow, at = tt.Row, tt.Column
	case drag.RowTarget:
		if err := checkRow(l, tt.Row); err != nil {
			return l, err
		}
		dstRow = tt.Row
	default:
		return l, incompatible(s, t)
	}

	col := l.Rows[s.Row].Columns[s.Column]
	if dstRow == s.Row {
		r := l.Rows[s.Row]
		cols := removeAt(r.Columns, s.Column)
		if at < 0 {
			at = len(cols)
		}
		r.Columns = insertAt(cols, at, col)
		return withRow(l, s.Row, r), nil
	}

	dst := l.Rows[dstRow]
	if err := checkCapacity(dst, dstRow); err != nil {
		return l, err
	}
	if at < 0 {
		at = len(dst.Columns)
	}
	rows := make([]layout.Row, len(l.Rows))
	copy(rows, l.Rows)
	rows[s.Row] = withColumns(l.Rows[s.Row], removeAt(l.Rows[s.Row].Columns, s.Column))
	rows[dstRow] = withColumns(dst, insertAt(dst.Columns, at, col))
	return layout.Layout{Rows: rows}, nil
}

// moveModule handles module and container-child sources.
func moveModule(l layout.Layout, src drag.Source, t drag.Target) (layout.Layout, error) {
	n, _ := l.Node(src.Address())
	moved := n.(layout.Module)

	switch tt := t.(type) {
	case drag.ChildTarget:
		if err := checkChild(l, tt.Row, tt.Column, tt.Module, tt.Child); err != nil {
			return l, err
		}
		if moved.IsContainer() {
			return l, nestedError(moved)
		}
		if cs, ok := src.(drag.ChildSource); ok && sameParent(cs, tt.Row, tt.Column, tt.Module) {
			return reorderChild(l, cs, tt.Child, moved), nil
		}
		children := l.Rows[tt.Row].Columns[tt.Column].Modules[tt.Module].Modules
		next := withChildren(l, tt.Row, tt.Column, tt.Module, insertAt(children, tt.Child, moved))
		return removeSource(next, src), nil

	case drag.ContainerTarget:
		if err := checkContainer(l, tt.Row, tt.Column, tt.Module); err != nil {
			return l, err
		}
		if moved.IsContainer() {
			return l, nestedError(moved)
		}
		// Insert first: removal below only touches the source list, whose
		// indices the insertion never shifts.
		children := l.Rows[tt.Row].Columns[tt.Column].Modules[tt.Module].Modules
		next := withChildren(l, tt.Row, tt.Column, tt.Module, insertAt(children, len(children), moved))
		return removeSource(next, src), nil

	case drag.ModuleTarget:
		if err := checkModule(l, tt.Row, tt.Column, tt.Module); err != nil {
			return l, err
		}
		at := tt.Module
		if ms, ok := src.(drag.ModuleSource); ok && ms.Row == tt.Row && ms.Column == tt.Column && at > ms.Module {
			at--
		}
		next := removeSource(l, src)
		mods := next.Rows[tt.Row].Columns[tt.Column].Modules
		return withModules(next, tt.Row, tt.Column, insertAt(mods, at, moved)), nil

	case drag.ColumnTarget:
		if err := checkColumn(l, tt.Row, tt.Column); err != nil {
			return l, err
		}
		next := removeSource(l, src)
		mods := next.Rows[tt.Row].Columns[tt.Column].Modules
		return withModules(next, tt.Row, tt.Column, insertAt(mods, len(mods), moved)), nil
	}
	return l, incompatible(src, t)
}

func nestedError(m layout.Module) error {
	return errs.New(errs.ErrCodeNestedContainer, "cannot move container %s into a container", m)
}

func sameParent(cs drag.ChildSource, row, col, mod int) bool {
	return cs.Row == row && cs.Column == col && cs.Module == mod
}

// reorderChild moves a child within its container so that it lands before the
// child that was at index to.
func reorderChild(l layout.Layout, cs drag.ChildSource, to int, moved layout.Module) layout.Layout {
	children := removeAt(l.Rows[cs.Row].Columns[cs.Column].Modules[cs.Module].Modules, cs.Child)
	if cs.Child < to {
		to--
	}
	return withChildren(l, cs.Row, cs.Column, cs.Module, insertAt(children, to, moved))
}

// removeSource drops the module at src's position from l.
func removeSource(l layout.Layout, src drag.Source) layout.Layout {
	switch s := src.(type) {
	case drag.ModuleSource:
		return withModules(l, s.Row, s.Column, removeAt(l.Rows[s.Row].Columns[s.Column].Modules, s.Module))
	case drag.ChildSource:
		children := l.Rows[s.Row].Columns[s.Column].Modules[s.Module].Modules
		return withChildren(l, s.Row, s.Column, s.Module, removeAt(children, s.Child))
	}
	return l
}
