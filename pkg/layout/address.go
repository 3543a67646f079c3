package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind names the four addressable node positions.
type Kind string

// Node kinds.
const (
	KindRow         Kind = "row"
	KindColumn      Kind = "column"
	KindModule      Kind = "module"
	KindLayoutChild Kind = "layout-child"
)

// Address locates a node by position. Unused levels are -1; use the
// constructors rather than composite literals.
type Address struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Module int `json:"module"`
	Child  int `json:"child"`
}

// RowAddress addresses a row.
func RowAddress(row int) Address { return Address{Row: row, Column: -1, Module: -1, Child: -1} }

// ColumnAddress addresses a column.
func ColumnAddress(row, col int) Address {
	return Address{Row: row, Column: col, Module: -1, Child: -1}
}

// ModuleAddress addresses a module directly inside a column.
func ModuleAddress(row, col, mod int) Address {
	return Address{Row: row, Column: col, Module: mod, Child: -1}
}

// ChildAddress addresses a child of the container module at (row, col, mod).
func ChildAddress(row, col, mod, child int) Address {
	return Address{Row: row, Column: col, Module: mod, Child: child}
}

// Kind derives the node kind from the deepest set level.
func (a Address) Kind() Kind {
	switch {
	case a.Child >= 0:
		return KindLayoutChild
	case a.Module >= 0:
		return KindModule
	case a.Column >= 0:
		return KindColumn
	default:
		return KindRow
	}
}

// Parent returns the container module address of a layout-child address.
func (a Address) Parent() Address { return ModuleAddress(a.Row, a.Column, a.Module) }

// String renders the address as "r0.c1.m2.k3", stopping at the deepest level.
func (a Address) String() string {
	parts := []string{"r" + strconv.Itoa(a.Row)}
	if a.Column >= 0 {
		parts = append(parts, "c"+strconv.Itoa(a.Column))
	}
	if a.Module >= 0 {
		parts = append(parts, "m"+strconv.Itoa(a.Module))
	}
	if a.Child >= 0 {
		parts = append(parts, "k"+strconv.Itoa(a.Child))
	}
	return strings.Join(parts, ".")
}

// ParseAddress parses the String form. The "r", "c", "m" and "k" prefixes are
// optional, so "0.1.2" equals "r0.c1.m2".
func ParseAddress(s string) (Address, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 4 || parts[0] == "" {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	idx := [4]int{-1, -1, -1, -1}
	prefixes := "rcmk"
	for i, p := range parts {
		p = strings.TrimPrefix(p, string(prefixes[i]))
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Address{}, fmt.Errorf("invalid address %q: bad index %q", s, parts[i])
		}
		idx[i] = n
	}
	return Address{Row: idx[0], Column: idx[1], Module: idx[2], Child: idx[3]}, nil
}

// =============================================================================
// Positional accessors
// =============================================================================

// Row returns the row at i.
func (l Layout) Row(i int) (Row, bool) {
	if i < 0 || i >= len(l.Rows) {
		return Row{}, false
	}
	return l.Rows[i], true
}

// Column returns the column at (row, col).
func (l Layout) Column(row, col int) (Column, bool) {
	r, ok := l.Row(row)
	if !ok || col < 0 || col >= len(r.Columns) {
		return Column{}, false
	}
	return r.Columns[col], true
}

// Module returns the module at (row, col, mod).
func (l Layout) Module(row, col, mod int) (Module, bool) {
	c, ok := l.Column(row, col)
	if !ok || mod < 0 || mod >= len(c.Modules) {
		return Module{}, false
	}
	return c.Modules[mod], true
}

// Child returns child k of the container module at (row, col, mod).
func (l Layout) Child(row, col, mod, k int) (Module, bool) {
	m, ok := l.Module(row, col, mod)
	if !ok || !m.IsContainer() || k < 0 || k >= len(m.Modules) {
		return Module{}, false
	}
	return m.Modules[k], true
}

// Node returns the Row, Column or Module at a.
func (l Layout) Node(a Address) (any, bool) {
	switch a.Kind() {
	case KindRow:
		return l.Row(a.Row)
	case KindColumn:
		return l.Column(a.Row, a.Column)
	case KindModule:
		return l.Module(a.Row, a.Column, a.Module)
	default:
		return l.Child(a.Row, a.Column, a.Module, a.Child)
	}
}

// NodeID returns the id of the node at a.
func (l Layout) NodeID(a Address) (string, bool) {
	n, ok := l.Node(a)
	if !ok {
		return "", false
	}
	switch v := n.(type) {
	case Row:
		return v.ID, true
	case Column:
		return v.ID, true
	case Module:
		return v.ID, true
	}
	return "", false
}
