package editor

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/registry"
)

func newTestEditor() *Editor {
	ids := layout.SequentialIDs()
	return New(registry.Builtin(ids), ids, log.NewWithOptions(io.Discard, log.Options{}))
}

func text(id string) layout.Module {
	return layout.Module{ID: id, Type: "text", Fields: layout.Fields{"text": id}}
}

func container(id string, children ...layout.Module) layout.Module {
	if children == nil {
		children = []layout.Module{}
	}
	return layout.Module{ID: id, Type: layout.TypeHorizontal, Modules: children}
}

func column(id string, mods ...layout.Module) layout.Column {
	if mods == nil {
		mods = []layout.Module{}
	}
	return layout.Column{ID: id, Modules: mods, VerticalAlignment: "center", HorizontalAlignment: "center"}
}

func row(id string, cols ...layout.Column) layout.Row {
	if cols == nil {
		cols = []layout.Column{}
	}
	return layout.Row{ID: id, Columns: cols, ColumnLayout: layout.EqualTemplateID(len(cols))}
}

// ids flattens module ids per column, e.g. [[a b] [c]].
func moduleIDs(r layout.Row) [][]string {
	out := make([][]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = []string{}
		for _, m := range c.Modules {
			out[i] = append(out[i], m.ID)
		}
	}
	return out
}

func childIDs(m layout.Module) []string {
	out := []string{}
	for _, c := range m.Modules {
		out = append(out, c.ID)
	}
	return out
}

func mustJSON(t *testing.T, l layout.Layout) string {
	t.Helper()
	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func assertCode(t *testing.T, err error, want errs.Code) {
	t.Helper()
	if got := errs.GetCode(err); got != want {
		t.Errorf("error code = %q, want %q (err: %v)", got, want, err)
	}
}

func assertValid(t *testing.T, l layout.Layout) {
	t.Helper()
	if problems := layout.Check(l); len(problems) > 0 {
		t.Errorf("layout invalid: %v", problems)
	}
}
