package editor

import (
	"testing"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

func TestAddRow(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("c0"))}}

	got, err := e.AddRow(l)
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if n := len(got.Rows[1].Columns); n != 0 {
		t.Errorf("new row columns = %d, want 0", n)
	}
	if len(l.Rows) != 1 {
		t.Error("input layout was modified")
	}
	assertValid(t, got)
}

func TestDeleteRow(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0"), row("r1"), row("r2")}}

	got, err := e.DeleteRow(l, 1)
	if err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if got.Rows[0].ID != "r0" || got.Rows[1].ID != "r2" {
		t.Errorf("rows = %s, %s; want r0, r2", got.Rows[0].ID, got.Rows[1].ID)
	}
	if l.Rows[1].ID != "r1" {
		t.Error("input layout was modified")
	}

	_, err = e.DeleteRow(l, 3)
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
}

func TestDeleteLastRowRefused(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("only", column("c"))}}
	before := mustJSON(t, l)

	got, err := e.DeleteRow(l, 0)
	assertCode(t, err, errs.ErrCodeLastRow)
	if !errs.IsRefusal(err) {
		t.Error("LAST_ROW should be a refusal")
	}
	if mustJSON(t, got) != before {
		t.Error("refused delete must return the layout unchanged")
	}
}

func TestDuplicateRowFreshIDs(t *testing.T) {
	e := newTestEditor()
	src := row("r0",
		column("c0", text("a"), container("box", text("k"))),
		column("c1", text("b")),
	)
	l := layout.Layout{Rows: []layout.Row{src, row("r1")}}

	got, err := e.DuplicateRow(l, 0)
	if err != nil {
		t.Fatalf("DuplicateRow: %v", err)
	}
	if len(got.Rows) != 3 || got.Rows[2].ID != "r1" {
		t.Fatalf("duplicate should be inserted right after the source")
	}

	originals := map[string]bool{}
	var collect func(ms []layout.Module)
	collect = func(ms []layout.Module) {
		for _, m := range ms {
			originals[m.ID] = true
			collect(m.Modules)
		}
	}
	originals["r0"], originals["c0"], originals["c1"] = true, true, true
	for _, c := range src.Columns {
		collect(c.Modules)
	}

	dup := got.Rows[1]
	if originals[dup.ID] {
		t.Errorf("row id %q reused", dup.ID)
	}
	for ci, c := range dup.Columns {
		if originals[c.ID] {
			t.Errorf("column id %q reused", c.ID)
		}
		for mi, m := range c.Modules {
			if originals[m.ID] {
				t.Errorf("module id %q reused", m.ID)
			}
			orig := src.Columns[ci].Modules[mi]
			if m.Type != orig.Type || m.Fields["text"] != orig.Fields["text"] {
				t.Errorf("module %d.%d = %v, want copy of %v", ci, mi, m, orig)
			}
			for _, k := range m.Modules {
				if originals[k.ID] {
					t.Errorf("child id %q reused", k.ID)
				}
			}
		}
	}
	assertValid(t, got)
}
