package editor

import (
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/registry"
)

// Editor applies structural edits to layouts. It holds no layout state; one
// Editor can serve any number of cards.
type Editor struct {
	Registry registry.Registry
	IDs      layout.IDFunc
	Logger   *log.Logger
}

// New creates an editor.
// If reg is nil, the built-in catalogue is used.
// If ids is nil, layout.NewID is used.
// If logger is nil, log.Default() is used.
func New(reg registry.Registry, ids layout.IDFunc, logger *log.Logger) *Editor {
	if ids == nil {
		ids = layout.NewID
	}
	if reg == nil {
		reg = registry.Builtin(ids)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{Registry: reg, IDs: ids, Logger: logger}
}

// =============================================================================
// Coordinate resolution
// =============================================================================

func coordinateError(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidCoordinate, format, args...)
}

func checkRow(l layout.Layout, ri int) error {
	if _, ok := l.Row(ri); !ok {
		return coordinateError("row %d out of range (%d rows)", ri, len(l.Rows))
	}
	return nil
}

func checkColumn(l layout.Layout, ri, ci int) error {
	if err := checkRow(l, ri); err != nil {
		return err
	}
	if _, ok := l.Column(ri, ci); !ok {
		return coordinateError("column %d out of range in row %d (%d columns)", ci, ri, len(l.Rows[ri].Columns))
	}
	return nil
}

func checkModule(l layout.Layout, ri, ci, mi int) error {
	if err := checkColumn(l, ri, ci); err != nil {
		return err
	}
	if _, ok := l.Module(ri, ci, mi); !ok {
		return coordinateError("module %d out of range in %s", mi, layout.ColumnAddress(ri, ci))
	}
	return nil
}

func checkContainer(l layout.Layout, ri, ci, mi int) error {
	if err := checkModule(l, ri, ci, mi); err != nil {
		return err
	}
	if m := l.Rows[ri].Columns[ci].Modules[mi]; !m.IsContainer() {
		return coordinateError("module %s at %s is not a container", m, layout.ModuleAddress(ri, ci, mi))
	}
	return nil
}

func checkChild(l layout.Layout, ri, ci, mi, ki int) error {
	if err := checkContainer(l, ri, ci, mi); err != nil {
		return err
	}
	if _, ok := l.Child(ri, ci, mi, ki); !ok {
		return coordinateError("child %d out of range in %s", ki, layout.ModuleAddress(ri, ci, mi))
	}
	return nil
}

// =============================================================================
// Copy-on-write helpers
// =============================================================================

// The helpers below never write into their argument's backing array.

func replaceAt[T any](s []T, i int, v T) []T {
	out := slices.Clone(s)
	out[i] = v
	return out
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// withRow returns l with row ri replaced.
func withRow(l layout.Layout, ri int, r layout.Row) layout.Layout {
	return layout.Layout{Rows: replaceAt(l.Rows, ri, r)}
}

// withColumn returns l with column (ri, ci) replaced.
func withColumn(l layout.Layout, ri, ci int, c layout.Column) layout.Layout {
	r := l.Rows[ri]
	r.Columns = replaceAt(r.Columns, ci, c)
	return withRow(l, ri, r)
}

// withModules returns l with the module list of column (ri, ci) replaced.
func withModules(l layout.Layout, ri, ci int, ms []layout.Module) layout.Layout {
	c := l.Rows[ri].Columns[ci]
	c.Modules = ms
	return withColumn(l, ri, ci, c)
}

// withChildren returns l with the children of container (ri, ci, mi) replaced.
func withChildren(l layout.Layout, ri, ci, mi int, children []layout.Module) layout.Layout {
	m := l.Rows[ri].Columns[ci].Modules[mi]
	m.Modules = children
	return withModules(l, ri, ci, replaceAt(l.Rows[ri].Columns[ci].Modules, mi, m))
}

// withColumns returns r with a new column list and the equal-split template
// for its length.
func withColumns(r layout.Row, cols []layout.Column) layout.Row {
	r.Columns = cols
	r.ColumnLayout = layout.EqualTemplateID(len(cols))
	return r
}
