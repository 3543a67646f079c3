package drag

import (
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Source is the node being dragged, with a deep copy of its value taken when
// the drag started.
type Source interface {
	Kind() layout.Kind
	Address() layout.Address
	// SnapshotID is the id of the dragged node at pick-up time.
	SnapshotID() string
	isSource()
}

// RowSource is a dragged row.
type RowSource struct {
	Row      int
	Snapshot layout.Row
}

// ColumnSource is a dragged column.
type ColumnSource struct {
	Row, Column int
	Snapshot    layout.Column
}

// ModuleSource is a dragged module that sits directly in a column.
type ModuleSource struct {
	Row, Column, Module int
	Snapshot            layout.Module
}

// ChildSource is a dragged child of a container module.
type ChildSource struct {
	Row, Column, Module, Child int
	Snapshot                   layout.Module
}

func (RowSource) Kind() layout.Kind    { return layout.KindRow }
func (ColumnSource) Kind() layout.Kind { return layout.KindColumn }
func (ModuleSource) Kind() layout.Kind { return layout.KindModule }
func (ChildSource) Kind() layout.Kind  { return layout.KindLayoutChild }

func (s RowSource) Address() layout.Address    { return layout.RowAddress(s.Row) }
func (s ColumnSource) Address() layout.Address { return layout.ColumnAddress(s.Row, s.Column) }
func (s ModuleSource) Address() layout.Address {
	return layout.ModuleAddress(s.Row, s.Column, s.Module)
}
func (s ChildSource) Address() layout.Address {
	return layout.ChildAddress(s.Row, s.Column, s.Module, s.Child)
}

func (s RowSource) SnapshotID() string    { return s.Snapshot.ID }
func (s ColumnSource) SnapshotID() string { return s.Snapshot.ID }
func (s ModuleSource) SnapshotID() string { return s.Snapshot.ID }
func (s ChildSource) SnapshotID() string  { return s.Snapshot.ID }

func (RowSource) isSource()    {}
func (ColumnSource) isSource() {}
func (ModuleSource) isSource() {}
func (ChildSource) isSource()  {}

// MovedModule returns the module carried by a module or child source.
func MovedModule(s Source) (layout.Module, bool) {
	switch s := s.(type) {
	case ModuleSource:
		return s.Snapshot, true
	case ChildSource:
		return s.Snapshot, true
	}
	return layout.Module{}, false
}

// Pick snapshots the node at a in l.
func Pick(l layout.Layout, a layout.Address) (Source, error) {
	switch a.Kind() {
	case layout.KindRow:
		if r, ok := l.Row(a.Row); ok {
			return RowSource{Row: a.Row, Snapshot: r.Clone()}, nil
		}
	case layout.KindColumn:
		if c, ok := l.Column(a.Row, a.Column); ok {
			return ColumnSource{Row: a.Row, Column: a.Column, Snapshot: c.Clone()}, nil
		}
	case layout.KindModule:
		if m, ok := l.Module(a.Row, a.Column, a.Module); ok {
			return ModuleSource{Row: a.Row, Column: a.Column, Module: a.Module, Snapshot: m.Clone()}, nil
		}
	case layout.KindLayoutChild:
		if m, ok := l.Child(a.Row, a.Column, a.Module, a.Child); ok {
			return ChildSource{Row: a.Row, Column: a.Column, Module: a.Module, Child: a.Child, Snapshot: m.Clone()}, nil
		}
	}
	return nil, errs.New(errs.ErrCodeInvalidCoordinate, "no %s at %s", a.Kind(), a)
}
