package editor

import (
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

func checkCapacity(r layout.Row, ri int) error {
	if len(r.Columns) >= layout.MaxColumns {
		return errs.New(errs.ErrCodeCapacityExceeded, "row %d already has %d columns", ri, layout.MaxColumns)
	}
	return nil
}

// AddColumn appends an empty column to row ri.
func (e *Editor) AddColumn(l layout.Layout, ri int) (layout.Layout, error) {
	if err := checkRow(l, ri); err != nil {
		return l, err
	}
	r := l.Rows[ri]
	if err := checkCapacity(r, ri); err != nil {
		return l, err
	}
	return e.insertColumn(l, ri, len(r.Columns), layout.NewColumn(e.IDs)), nil
}

// AddColumnAfter inserts an empty column after column ci of row ri.
func (e *Editor) AddColumnAfter(l layout.Layout, ri, ci int) (layout.Layout, error) {
	if err := checkColumn(l, ri, ci); err != nil {
		return l, err
	}
	if err := checkCapacity(l.Rows[ri], ri); err != nil {
		return l, err
	}
	return e.insertColumn(l, ri, ci+1, layout.NewColumn(e.IDs)), nil
}

// DuplicateColumn inserts a deep copy of column ci, with fresh ids, after it.
func (e *Editor) DuplicateColumn(l layout.Layout, ri, ci int) (layout.Layout, error) {
	if err := checkColumn(l, ri, ci); err != nil {
		return l, err
	}
	r := l.Rows[ri]
	if err := checkCapacity(r, ri); err != nil {
		return l, err
	}
	return e.insertColumn(l, ri, ci+1, r.Columns[ci].Fresh(e.IDs)), nil
}

// DeleteColumn removes column ci of row ri. Removing the last column leaves
// an empty row.
func (e *Editor) DeleteColumn(l layout.Layout, ri, ci int) (layout.Layout, error) {
	if err := checkColumn(l, ri, ci); err != nil {
		return l, err
	}
	r := l.Rows[ri]
	return withRow(l, ri, withColumns(r, removeAt(r.Columns, ci))), nil
}

func (e *Editor) insertColumn(l layout.Layout, ri, at int, c layout.Column) layout.Layout {
	r := l.Rows[ri]
	return withRow(l, ri, withColumns(r, insertAt(r.Columns, at, c)))
}
