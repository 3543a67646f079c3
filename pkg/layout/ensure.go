package layout

import "fmt"

// Default returns the minimal layout: one row holding one empty column.
func Default(ids IDFunc) Layout {
	if ids == nil {
		ids = NewID
	}
	return Layout{Rows: []Row{{
		ID:           ids(PrefixRow),
		ColumnLayout: EqualTemplateID(1),
		Columns:      []Column{NewColumn(ids)},
	}}}
}

// Ensure returns *l, or [Default] when l is nil or has no rows. It never fails.
func Ensure(l *Layout, ids IDFunc) Layout {
	if l == nil || len(l.Rows) == 0 {
		return Default(ids)
	}
	return *l
}

// NewRow returns an empty row with zero columns.
func NewRow(ids IDFunc) Row {
	return Row{ID: ids(PrefixRow), Columns: []Column{}}
}

// NewColumn returns an empty column with default alignments.
func NewColumn(ids IDFunc) Column {
	return Column{
		ID:                  ids(PrefixColumn),
		Modules:             []Module{},
		VerticalAlignment:   AlignCenter,
		HorizontalAlignment: AlignCenter,
	}
}

// Problem is one invariant violation found by [Check].
type Problem struct {
	At      Address
	Message string
}

func (p Problem) String() string { return fmt.Sprintf("%s: %s", p.At, p.Message) }

// Check walks l and reports every invariant violation:
//   - a row holds more than MaxColumns columns
//   - a row's column_layout names a template whose column count differs from
//     the number of columns (unknown ids are reported too)
//   - a container module holds another container
//   - ids are missing or duplicated
func Check(l Layout) []Problem {
	var problems []Problem
	seen := make(map[string]Address)
	add := func(at Address, format string, args ...any) {
		problems = append(problems, Problem{At: at, Message: fmt.Sprintf(format, args...)})
	}
	checkID := func(at Address, id string) {
		if id == "" {
			add(at, "missing id")
			return
		}
		if prev, dup := seen[id]; dup {
			add(at, "duplicate id %q (also at %s)", id, prev)
			return
		}
		seen[id] = at
	}

	if len(l.Rows) == 0 {
		add(RowAddress(0), "layout has no rows")
	}
	for ri, r := range l.Rows {
		ra := RowAddress(ri)
		checkID(ra, r.ID)
		if n := len(r.Columns); n > MaxColumns {
			add(ra, "%d columns exceeds maximum of %d", n, MaxColumns)
		}
		if r.ColumnLayout != "" {
			t, ok := LookupTemplate(r.ColumnLayout)
			switch {
			case !ok:
				add(ra, "unknown column layout %s", templateLabel(r.ColumnLayout))
			case t.ColumnCount() != len(r.Columns):
				add(ra, "column layout %s expects %d columns, row has %d",
					templateLabel(r.ColumnLayout), t.ColumnCount(), len(r.Columns))
			}
		}
		for ci, c := range r.Columns {
			checkID(ColumnAddress(ri, ci), c.ID)
			for mi, m := range c.Modules {
				ma := ModuleAddress(ri, ci, mi)
				checkID(ma, m.ID)
				if m.Type == "" {
					add(ma, "module has no type")
				}
				for ki, child := range m.Modules {
					ka := ChildAddress(ri, ci, mi, ki)
					checkID(ka, child.ID)
					if child.IsContainer() {
						add(ka, "container %q nested inside container %q", child.Type, m.Type)
					}
				}
			}
		}
	}
	return problems
}

// Validate returns an error describing the first problem [Check] finds.
func Validate(l Layout) error {
	problems := Check(l)
	if len(problems) == 0 {
		return nil
	}
	if len(problems) == 1 {
		return fmt.Errorf("invalid layout: %s", problems[0])
	}
	return fmt.Errorf("invalid layout: %s (and %d more)", problems[0], len(problems)-1)
}

// ContainerTypes returns the module types that hold children.
func ContainerTypes() []string {
	return []string{TypeHorizontal, TypeVertical}
}
