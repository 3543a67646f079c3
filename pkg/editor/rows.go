package editor

import (
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// AddRow appends a row with no columns.
func (e *Editor) AddRow(l layout.Layout) (layout.Layout, error) {
	rows := append(l.Rows[:len(l.Rows):len(l.Rows)], layout.NewRow(e.IDs))
	return layout.Layout{Rows: rows}, nil
}

// DeleteRow removes row ri. The last remaining row is never deleted.
func (e *Editor) DeleteRow(l layout.Layout, ri int) (layout.Layout, error) {
	if err := checkRow(l, ri); err != nil {
		return l, err
	}
	if len(l.Rows) == 1 {
		return l, errs.New(errs.ErrCodeLastRow, "cannot delete the last row")
	}
	return layout.Layout{Rows: removeAt(l.Rows, ri)}, nil
}

// DuplicateRow inserts a deep copy of row ri right after it. The copy and
// everything inside it get fresh ids.
func (e *Editor) DuplicateRow(l layout.Layout, ri int) (layout.Layout, error) {
	if err := checkRow(l, ri); err != nil {
		return l, err
	}
	dup := l.Rows[ri].Fresh(e.IDs)
	return layout.Layout{Rows: insertAt(l.Rows, ri+1, dup)}, nil
}
