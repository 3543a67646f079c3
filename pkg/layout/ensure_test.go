package layout

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	l := Default(SequentialIDs())
	if len(l.Rows) != 1 || len(l.Rows[0].Columns) != 1 {
		t.Fatalf("Default() shape = %d rows, want 1 row with 1 column", len(l.Rows))
	}
	if n := len(l.Rows[0].Columns[0].Modules); n != 0 {
		t.Errorf("modules = %d, want 0", n)
	}
	if err := Validate(l); err != nil {
		t.Errorf("Default() invalid: %v", err)
	}
}

func TestEnsure(t *testing.T) {
	if got := Ensure(nil, SequentialIDs()); len(got.Rows) != 1 {
		t.Errorf("Ensure(nil) rows = %d, want 1", len(got.Rows))
	}
	if got := Ensure(&Layout{}, SequentialIDs()); len(got.Rows) != 1 {
		t.Errorf("Ensure(empty) rows = %d, want 1", len(got.Rows))
	}

	existing := Layout{Rows: []Row{{ID: "a"}, {ID: "b"}}}
	if got := Ensure(&existing, SequentialIDs()); len(got.Rows) != 2 || got.Rows[0].ID != "a" {
		t.Errorf("Ensure(existing) should return it unchanged, got %+v", got)
	}
}

func TestCheck(t *testing.T) {
	tooMany := make([]Column, 7)
	for i := range tooMany {
		tooMany[i] = Column{ID: "c" + string(rune('a'+i))}
	}

	tests := []struct {
		name string
		l    Layout
		want string
	}{
		{"no rows", Layout{}, "no rows"},
		{"too many columns", Layout{Rows: []Row{{ID: "r", Columns: tooMany}}}, "exceeds maximum"},
		{"template mismatch", Layout{Rows: []Row{{ID: "r", ColumnLayout: "1-1", Columns: []Column{{ID: "c"}}}}}, "expects 2 columns"},
		{"unknown template", Layout{Rows: []Row{{ID: "r", ColumnLayout: "9-9", Columns: []Column{{ID: "c"}}}}}, "unknown column layout"},
		{"missing id", Layout{Rows: []Row{{}}}, "missing id"},
		{"duplicate id", Layout{Rows: []Row{{ID: "x"}, {ID: "x"}}}, "duplicate id"},
		{"nested container", Layout{Rows: []Row{{ID: "r", Columns: []Column{{ID: "c", Modules: []Module{{
			ID: "h", Type: TypeHorizontal, Modules: []Module{{ID: "v", Type: TypeVertical}},
		}}}}}}}, "nested inside container"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Check(tt.l)
			if len(problems) == 0 {
				t.Fatal("expected problems")
			}
			if !strings.Contains(problems[0].Message, tt.want) {
				t.Errorf("problem = %q, want substring %q", problems[0].Message, tt.want)
			}
			if Validate(tt.l) == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestLegacyTemplatePassesCheck(t *testing.T) {
	l := Layout{Rows: []Row{{ID: "r", ColumnLayout: "50-50", Columns: []Column{{ID: "a"}, {ID: "b"}}}}}
	if err := Validate(l); err != nil {
		t.Errorf("legacy template should validate: %v", err)
	}
}

func TestFreshAssignsNewIDsEverywhere(t *testing.T) {
	ids := SequentialIDs()
	r := Row{ID: "row", Columns: []Column{{
		ID: "col",
		Modules: []Module{{
			ID: "box", Type: TypeHorizontal,
			Modules: []Module{{ID: "kid", Type: "text", Fields: Fields{"text": "x"}}},
		}},
	}}}

	got := r.Fresh(ids)
	if got.ID == "row" || got.Columns[0].ID == "col" || got.Columns[0].Modules[0].ID == "box" ||
		got.Columns[0].Modules[0].Modules[0].ID == "kid" {
		t.Errorf("Fresh kept an old id: %+v", got)
	}
	if got.Columns[0].Modules[0].Modules[0].Fields["text"] != "x" {
		t.Error("Fresh must keep field values")
	}
	if r.Columns[0].Modules[0].Modules[0].ID != "kid" {
		t.Error("Fresh must not modify the receiver")
	}
}

func TestNewIDFormat(t *testing.T) {
	id := NewID(PrefixModule)
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != "module" || len(parts[2]) != 8 {
		t.Errorf("NewID() = %q, want module-<millis>-<8 chars>", id)
	}
	if NewID(PrefixModule) == id {
		t.Error("NewID() should be unique")
	}
}
