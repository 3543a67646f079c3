package editor

import (
	"testing"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/registry"
)

func TestNewModule(t *testing.T) {
	e := newTestEditor()
	tests := []struct {
		typ       string
		wantType  string
		wantField string
	}{
		{"text", "text", "text"},
		{"separator", "separator", "separator_style"},
		{"gauge", "gauge", "entity"},
		{"horizontal", "horizontal", "gap"},
		{"does-not-exist", "text", "text"},
	}
	for _, tt := range tests {
		m := e.NewModule(tt.typ)
		if m.Type != tt.wantType {
			t.Errorf("NewModule(%q).Type = %q, want %q", tt.typ, m.Type, tt.wantType)
		}
		if _, ok := m.Fields[tt.wantField]; !ok {
			t.Errorf("NewModule(%q) missing field %q: %v", tt.typ, tt.wantField, m.Fields)
		}
		if m.ID == "" {
			t.Errorf("NewModule(%q) has no id", tt.typ)
		}
	}
}

func TestNewModuleStripsInheritedNames(t *testing.T) {
	e := newTestEditor()
	for _, typ := range []string{"gauge", "graphs", "dropdown", "info"} {
		m := e.NewModule(typ)
		for _, k := range []string{"name", "title", "label"} {
			if _, ok := m.Fields[k]; ok {
				t.Errorf("NewModule(%q) kept %q", typ, k)
			}
		}
	}
}

func TestNewModuleContainerHasChildren(t *testing.T) {
	ids := layout.SequentialIDs()
	e := New(registry.New(ids), ids, nil)
	m := e.NewModule(layout.TypeVertical)
	if m.Type != layout.TypeText {
		t.Fatalf("type = %q; an empty registry should fall back to text", m.Type)
	}

	m = newTestEditor().NewModule(layout.TypeVertical)
	if m.Modules == nil {
		t.Error("container module should have an empty child list")
	}
}

func TestAddModule(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("c0", text("a")))}}

	got, err := e.AddModule(l, 0, 0, "markdown")
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	mods := got.Rows[0].Columns[0].Modules
	if len(mods) != 2 || mods[1].Type != "markdown" {
		t.Errorf("modules = %v, want [a, markdown]", mods)
	}
	if len(l.Rows[0].Columns[0].Modules) != 1 {
		t.Error("input layout was modified")
	}

	_, err = e.AddModule(l, 0, 1, "text")
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
	_, err = e.AddModule(l, 0, 0, " ")
	assertCode(t, err, errs.ErrCodeInvalidInput)
}

func TestAddChildModule(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("c0", text("a"), container("box", text("k"))))}}

	got, err := e.AddChildModule(l, 0, 0, 1, "image")
	if err != nil {
		t.Fatalf("AddChildModule: %v", err)
	}
	box := got.Rows[0].Columns[0].Modules[1]
	if len(box.Modules) != 2 || box.Modules[1].Type != "image" {
		t.Errorf("children = %v, want [k, image]", box.Modules)
	}
	if len(l.Rows[0].Columns[0].Modules[1].Modules) != 1 {
		t.Error("input container was modified")
	}

	_, err = e.AddChildModule(l, 0, 0, 1, layout.TypeVertical)
	assertCode(t, err, errs.ErrCodeNestedContainer)

	_, err = e.AddChildModule(l, 0, 0, 0, "text")
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
}

func TestDuplicateAndDeleteModule(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("c0", text("a"), text("b")))}}

	got, err := e.DuplicateModule(l, 0, 0, 0)
	if err != nil {
		t.Fatalf("DuplicateModule: %v", err)
	}
	mods := got.Rows[0].Columns[0].Modules
	if len(mods) != 3 || mods[0].ID != "a" || mods[2].ID != "b" {
		t.Fatalf("modules = %v, want a, <copy>, b", mods)
	}
	if mods[1].ID == "a" || mods[1].Fields["text"] != "a" {
		t.Errorf("copy = %v, want fresh id with the same fields", mods[1])
	}

	got, err = e.DeleteModule(got, 0, 0, 0)
	if err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}
	if n := len(got.Rows[0].Columns[0].Modules); n != 2 {
		t.Errorf("modules = %d, want 2", n)
	}

	_, err = e.DeleteModule(l, 0, 0, 9)
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
}

func TestDuplicateAndDeleteChildModule(t *testing.T) {
	e := newTestEditor()
	l := layout.Layout{Rows: []layout.Row{row("r0", column("c0", container("box", text("x"), text("y"))))}}

	got, err := e.DuplicateChildModule(l, 0, 0, 0, 1)
	if err != nil {
		t.Fatalf("DuplicateChildModule: %v", err)
	}
	box := got.Rows[0].Columns[0].Modules[0]
	if ids := childIDs(box); len(ids) != 3 || ids[0] != "x" || ids[1] != "y" || ids[2] == "y" {
		t.Errorf("children = %v, want x, y, <copy of y>", ids)
	}

	got, err = e.DeleteChildModule(got, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("DeleteChildModule: %v", err)
	}
	if ids := childIDs(got.Rows[0].Columns[0].Modules[0]); len(ids) != 2 || ids[0] != "y" {
		t.Errorf("children = %v, want y, <copy>", ids)
	}

	_, err = e.DeleteChildModule(l, 0, 0, 0, 2)
	assertCode(t, err, errs.ErrCodeInvalidCoordinate)
}
