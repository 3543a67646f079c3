package drag

import (
	"fmt"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// TargetKind names what a drop lands on.
type TargetKind string

// Target kinds.
const (
	TargetRow       TargetKind = "row"
	TargetColumn    TargetKind = "column"
	TargetModule    TargetKind = "module"
	TargetContainer TargetKind = "layout"
	TargetChild     TargetKind = "layout-child"
)

// Target is a drop position.
type Target interface {
	Kind() TargetKind
	Address() layout.Address
	isTarget()
}

// RowTarget is a row. Rows dropped here are inserted at Row; columns are
// appended to the row's end.
type RowTarget struct{ Row int }

// ColumnTarget is a column. Columns dropped here are inserted at Column;
// modules are appended to the column's end.
type ColumnTarget struct{ Row, Column int }

// ModuleTarget inserts the dropped module before the module at this position.
type ModuleTarget struct{ Row, Column, Module int }

// ContainerTarget appends the dropped module to a container's children.
type ContainerTarget struct{ Row, Column, Module int }

// ChildTarget inserts the dropped module before a container child.
type ChildTarget struct{ Row, Column, Module, Child int }

func (RowTarget) Kind() TargetKind       { return TargetRow }
func (ColumnTarget) Kind() TargetKind    { return TargetColumn }
func (ModuleTarget) Kind() TargetKind    { return TargetModule }
func (ContainerTarget) Kind() TargetKind { return TargetContainer }
func (ChildTarget) Kind() TargetKind     { return TargetChild }

func (t RowTarget) Address() layout.Address    { return layout.RowAddress(t.Row) }
func (t ColumnTarget) Address() layout.Address { return layout.ColumnAddress(t.Row, t.Column) }
func (t ModuleTarget) Address() layout.Address {
	return layout.ModuleAddress(t.Row, t.Column, t.Module)
}
func (t ContainerTarget) Address() layout.Address {
	return layout.ModuleAddress(t.Row, t.Column, t.Module)
}
func (t ChildTarget) Address() layout.Address {
	return layout.ChildAddress(t.Row, t.Column, t.Module, t.Child)
}

func (RowTarget) isTarget()       {}
func (ColumnTarget) isTarget()    {}
func (ModuleTarget) isTarget()    {}
func (ContainerTarget) isTarget() {}
func (ChildTarget) isTarget()     {}

// NewTarget builds a target of the given kind at a. The address must have
// exactly the depth the kind needs.
func NewTarget(kind TargetKind, a layout.Address) (Target, error) {
	want := map[TargetKind]layout.Kind{
		TargetRow:       layout.KindRow,
		TargetColumn:    layout.KindColumn,
		TargetModule:    layout.KindModule,
		TargetContainer: layout.KindModule,
		TargetChild:     layout.KindLayoutChild,
	}
	k, ok := want[kind]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown target kind %q", kind)
	}
	if a.Kind() != k {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s target needs a %s address, got %s", kind, k, a)
	}
	switch kind {
	case TargetRow:
		return RowTarget{Row: a.Row}, nil
	case TargetColumn:
		return ColumnTarget{Row: a.Row, Column: a.Column}, nil
	case TargetModule:
		return ModuleTarget{Row: a.Row, Column: a.Column, Module: a.Module}, nil
	case TargetContainer:
		return ContainerTarget{Row: a.Row, Column: a.Column, Module: a.Module}, nil
	default:
		return ChildTarget{Row: a.Row, Column: a.Column, Module: a.Module, Child: a.Child}, nil
	}
}

// Describe returns "layout-child r0.c1.m2.k0" style text for logs.
func Describe(t Target) string {
	if t == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s %s", t.Kind(), t.Address())
}
