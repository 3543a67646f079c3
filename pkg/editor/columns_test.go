package editor

import (
	"testing"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

func fullRow() layout.Row {
	cols := make([]layout.Column, layout.MaxColumns)
	for i := range cols {
		cols[i] = column("c" + string(rune('0'+i)))
	}
	return row("full", cols...)
}

func TestAddColumn(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0")}}

	for n := 1; n <= layout.MaxColumns; n++ {
		var err error
		l, err = e.AddColumn(l, 0)
		if err != nil {
			t.Fatalf("AddColumn #%d: %v", n, err)
		}
		r := l.Rows[0]
		if len(r.Columns) != n {
			t.Fatalf("columns = %d, want %d", len(r.Columns), n)
		}
		if want := layout.EqualTemplateID(n); r.ColumnLayout != want {
			t.Errorf("column_layout = %q, want %q", r.ColumnLayout, want)
		}
		last := r.Columns[n-1]
		if last.VerticalAlignment != layout.AlignCenter || len(last.Modules) != 0 {
			t.Errorf("new column = %+v, want empty centered column", last)
		}
		assertValid(t, l)
	}

	before := mustJSON(t, l)
	got, err := e.AddColumn(l, 0)
	assertCode(t, err, errs.ErrCodeCapacityExceeded)
	if mustJSON(t, got) != before {
		t.Error("refused add must return the layout unchanged")
	}
}

func TestAddColumnAfter(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("a"), column("b"))}}

	got, err := e.AddColumnAfter(l, 0, 0)
	if err != nil {
		t.Fatalf("AddColumnAfter: %v", err)
	}
	cols := got.Rows[0].Columns
	if len(cols) != 3 || cols[0].ID != "a" || cols[2].ID != "b" {
		t.Errorf("columns = %v, want a, <new>, b", moduleIDs(got.Rows[0]))
	}

	_, err = e.AddColumnAfter(layout.Layout{Rows: []layout.Row{fullRow()}}, 0, 2)
	assertCode(t, err, errs.ErrCodeCapacityExceeded)

	_, err = e.AddColumnAfter(l, 0, 5)
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
}

func TestDuplicateColumn(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("a", text("m1"), container("box", text("k")))), row("r1")}}

	got, err := e.DuplicateColumn(l, 0, 0)
	if err != nil {
		t.Fatalf("DuplicateColumn: %v", err)
	}
	cols := got.Rows[0].Columns
	if len(cols) != 2 {
		t.Fatalf("columns = %d, want 2", len(cols))
	}
	if cols[1].ID == "a" || cols[1].Modules[0].ID == "m1" || cols[1].Modules[1].Modules[0].ID == "k" {
		t.Errorf("duplicate kept an original id: %v", moduleIDs(got.Rows[0]))
	}
	if got.Rows[0].ColumnLayout != "1-1" {
		t.Errorf("column_layout = %q, want 1-1", got.Rows[0].ColumnLayout)
	}
	assertValid(t, got)

	_, err = e.DuplicateColumn(layout.Layout{Rows: []layout.Row{fullRow()}}, 0, 0)
	assertCode(t, err, errs.ErrCodeCapacityExceeded)
}

func TestDeleteColumn(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("a"), column("b"))}}

	got, err := e.DeleteColumn(l, 0, 0)
	if err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}
	if cols := got.Rows[0].Columns; len(cols) != 1 || cols[0].ID != "b" {
		t.Errorf("columns = %v, want [b]", cols)
	}
	if got.Rows[0].ColumnLayout != "1-col" {
		t.Errorf("column_layout = %q, want 1-col", got.Rows[0].ColumnLayout)
	}

	got, err = e.DeleteColumn(got, 0, 0)
	if err != nil {
		t.Fatalf("deleting the last column: %v", err)
	}
	if n := len(got.Rows[0].Columns); n != 0 {
		t.Errorf("columns = %d, want 0", n)
	}
	if got.Rows[0].ColumnLayout != "" {
		t.Errorf("column_layout = %q, want empty", got.Rows[0].ColumnLayout)
	}
	assertValid(t, got)
	if len(l.Rows[0].Columns) != 2 {
		t.Error("input layout was modified")
	}
}
