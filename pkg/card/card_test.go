package card

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

func sample() Card {
	return Card{
		ID:    "kitchen",
		Type:  DefaultType,
		Title: "Kitchen",
		Layout: &layout.Layout{Rows: []layout.Row{{
			ID: "r0", ColumnLayout: "1-1",
			Columns: []layout.Column{
				{ID: "c0", Modules: []layout.Module{
					{ID: "m0", Type: "text", Fields: layout.Fields{"content": "Hello"}},
					{ID: "v0", Type: "vertical", Modules: []layout.Module{{ID: "k0", Type: "gauge", Fields: layout.Fields{"entity": "sensor.temp"}}}},
				}},
				{ID: "c1", Modules: []layout.Module{}, VerticalAlignment: "top", HorizontalAlignment: layout.AlignCenter},
			},
		}}},
		Settings: map[string]any{"theme": "dark"},
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"card.json", FormatJSON, true},
		{"card.YAML", FormatYAML, true},
		{"dir/card.yml", FormatYAML, true},
		{"card.toml", FormatTOML, true},
		{"card.txt", "", false},
		{"card", "", false},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatOf(%q) = %q, %v; want %q, ok=%v", tt.path, got, err, tt.want, tt.ok)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("FormatOf(%q) code = %v, want INVALID_FORMAT", tt.path, errs.GetCode(err))
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".json", ".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "card"+ext)
			want := sample()
			if err := WriteFile(path, want); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
type: custom:layout-card
layout:
  rows:
    - id: r0
      column_layout: 50-50
      columns:
        - id: c0
          modules:
            - id: m0
              type: button
              label: Lights
        - id: c1
          modules: []
`
	c, err := Decode([]byte(src), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Layout == nil || len(c.Layout.Rows) != 1 {
		t.Fatalf("layout = %+v, want one row", c.Layout)
	}
	row := c.Layout.Rows[0]
	if tpl, ok := row.Template(); !ok || tpl.ID != "1-1" {
		t.Errorf("legacy template resolved to %v, %v; want 1-1", tpl.ID, ok)
	}
	if got := row.Columns[0].Modules[0].Fields["label"]; got != "Lights" {
		t.Errorf("label = %v, want Lights", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", "{", FormatJSON},
		{"yaml", "type: [", FormatYAML},
		{"toml", "type = ", FormatTOML},
		{"unknown", "{}", Format("xml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("Decode() = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() = %v, want not exist", err)
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (Card{}).Validate(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty card = %v, want INVALID_INPUT", err)
	}
	if err := (Card{Type: "x", ID: "../up"}).Validate(); !errs.Is(err, errs.ErrCodeInvalidID) {
		t.Errorf("bad id = %v, want INVALID_ID", err)
	}
	bad := sample()
	bad.Layout.Rows = nil
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "no rows") {
		t.Errorf("empty layout = %v, want no rows", err)
	}
}

func TestNew(t *testing.T) {
	c := New("c", layout.SequentialIDs())
	if c.Type != DefaultType || c.Layout == nil {
		t.Fatalf("New() = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestHost(t *testing.T) {
	ctx := context.Background()
	var saved []Card
	h := NewHost(sample(), func(_ context.Context, c Card) error {
		saved = append(saved, c)
		return nil
	})

	l, err := h.Layout(ctx)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	l.Rows = append(l.Rows, layout.Row{ID: "r1", Columns: []layout.Column{}})
	if got, _ := h.Layout(ctx); len(got.Rows) != 1 {
		t.Fatal("Layout() should return a copy")
	}

	if err := h.LayoutChanged(ctx, *l); err != nil {
		t.Fatalf("LayoutChanged: %v", err)
	}
	if len(saved) != 1 || len(saved[0].Layout.Rows) != 2 {
		t.Errorf("saved = %d cards, want one with 2 rows", len(saved))
	}
	if c := h.Card(); len(c.Layout.Rows) != 2 || c.UpdatedAt.IsZero() {
		t.Errorf("Card() = %+v, want updated layout", c)
	}
}

func TestHostRollsBackOnSaveError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	c := sample()
	c.UpdatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHost(c, func(context.Context, Card) error { return boom })

	if err := h.LayoutChanged(ctx, layout.Layout{Rows: []layout.Row{}}); err != boom {
		t.Fatalf("LayoutChanged() = %v, want %v", err, boom)
	}
	if got, _ := h.Layout(ctx); len(got.Rows) != 1 {
		t.Errorf("rows = %d, want 1 after failed save", len(got.Rows))
	}
	if got := h.Card().UpdatedAt; !got.Equal(c.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v after failed save", got, c.UpdatedAt)
	}
}

func TestHostWithoutLayout(t *testing.T) {
	h := NewHost(Card{Type: DefaultType}, nil)
	l, err := h.Layout(context.Background())
	if l != nil || err != nil {
		t.Errorf("Layout() = %v, %v; want nil, nil", l, err)
	}
}
