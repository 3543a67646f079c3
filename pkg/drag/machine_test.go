package drag

import (
	"encoding/json"
	"testing"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

func testLayout() layout.Layout {
	return layout.Layout{Rows: []layout.Row{
		{ID: "r0", ColumnLayout: "1-1", Columns: []layout.Column{
			{ID: "c0", Modules: []layout.Module{
				{ID: "a", Type: "text"},
				{ID: "b", Type: "text"},
				{ID: "box", Type: layout.TypeHorizontal, Modules: []layout.Module{{ID: "k", Type: "icon"}}},
			}},
			{ID: "c1", Modules: []layout.Module{}},
		}},
		{ID: "r1", ColumnLayout: "1-col", Columns: []layout.Column{{ID: "c2"}}},
	}}
}

func TestCompatibilityMatrix(t *testing.T) {
	row := RowSource{Row: 0}
	col := ColumnSource{Row: 0, Column: 0}
	mod := ModuleSource{Row: 0, Column: 0, Module: 0, Snapshot: layout.Module{Type: "text"}}
	child := ChildSource{Row: 0, Column: 0, Module: 2, Child: 0, Snapshot: layout.Module{Type: "icon"}}

	targets := []Target{
		RowTarget{Row: 1},
		ColumnTarget{Row: 1, Column: 0},
		ModuleTarget{Row: 0, Column: 1, Module: 0},
		ContainerTarget{Row: 0, Column: 0, Module: 2},
		ChildTarget{Row: 0, Column: 0, Module: 2, Child: 1},
	}

	tests := []struct {
		name string
		src  Source
		want []bool // parallel to targets
	}{
		{"row", row, []bool{true, false, false, false, false}},
		{"column", col, []bool{true, true, false, false, false}},
		{"module", mod, []bool{false, true, true, true, true}},
		{"layout-child", child, []bool{false, true, true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, target := range targets {
				if got := Compatible(tt.src, target); got != tt.want[i] {
					t.Errorf("Compatible(%s, %s) = %v, want %v", tt.name, Describe(target), got, tt.want[i])
				}
			}
		})
	}
}

func TestSelfTargetRejected(t *testing.T) {
	tests := []struct {
		src Source
		tgt Target
	}{
		{RowSource{Row: 1}, RowTarget{Row: 1}},
		{ColumnSource{Row: 0, Column: 1}, ColumnTarget{Row: 0, Column: 1}},
		{ModuleSource{Row: 0, Column: 0, Module: 1}, ModuleTarget{Row: 0, Column: 0, Module: 1}},
		{ModuleSource{Row: 0, Column: 0, Module: 1}, ContainerTarget{Row: 0, Column: 0, Module: 1}},
		{ChildSource{Row: 0, Column: 0, Module: 2, Child: 0}, ChildTarget{Row: 0, Column: 0, Module: 2, Child: 0}},
	}
	for _, tt := range tests {
		if Compatible(tt.src, tt.tgt) {
			t.Errorf("Compatible(%s, %s) = true, want false", tt.src.Address(), Describe(tt.tgt))
		}
	}
}

func TestContainerCannotEnterContainer(t *testing.T) {
	box := ModuleSource{Row: 0, Column: 0, Module: 2, Snapshot: layout.Module{Type: layout.TypeVertical}}
	if Compatible(box, ContainerTarget{Row: 1, Column: 0, Module: 0}) {
		t.Error("container dropped into container should be rejected")
	}
	if Compatible(box, ChildTarget{Row: 1, Column: 0, Module: 0, Child: 0}) {
		t.Error("container dropped on a container child should be rejected")
	}
	if !Compatible(box, ModuleTarget{Row: 0, Column: 1, Module: 0}) {
		t.Error("container may move between columns")
	}
}

func TestMachineLifecycle(t *testing.T) {
	var m Machine
	if m.State() != Idle {
		t.Fatalf("zero machine state = %v, want idle", m.State())
	}

	src, err := m.Start(testLayout(), layout.ModuleAddress(0, 0, 1))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if src.SnapshotID() != "b" {
		t.Errorf("snapshot id = %q, want b", src.SnapshotID())
	}
	if m.State() != Dragging {
		t.Errorf("state = %v, want dragging", m.State())
	}

	if m.Enter(RowTarget{Row: 0}) {
		t.Error("module should not hover a row")
	}
	if m.State() != Dragging {
		t.Errorf("state after rejected enter = %v, want dragging", m.State())
	}

	target := ColumnTarget{Row: 0, Column: 1}
	if !m.Enter(target) {
		t.Fatal("module should hover a column")
	}
	if m.State() != Hovering {
		t.Errorf("state = %v, want hovering", m.State())
	}

	bounds := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if m.Leave(target, Point{X: 10, Y: 10}, bounds) {
		t.Error("leave inside bounds should keep the hover")
	}
	if m.Leave(ColumnTarget{Row: 0, Column: 0}, Point{X: 500, Y: 500}, bounds) {
		t.Error("leaving a different element should keep the hover")
	}
	if m.State() != Hovering {
		t.Fatalf("state = %v, want hovering", m.State())
	}

	gotSrc, gotTgt, err := m.Drop(nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if gotSrc.Address() != src.Address() || gotTgt != Target(target) {
		t.Errorf("Drop() = %v, %v", gotSrc.Address(), Describe(gotTgt))
	}
	if m.State() != Idle {
		t.Errorf("state after drop = %v, want idle", m.State())
	}
}

func TestLeaveOutsideBoundsClearsHover(t *testing.T) {
	var m Machine
	if _, err := m.Start(testLayout(), layout.RowAddress(0)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	target := RowTarget{Row: 1}
	m.Enter(target)
	if !m.Leave(target, Point{X: 101, Y: 10}, Rect{Width: 100, Height: 50}) {
		t.Fatal("leave outside bounds should clear the hover")
	}
	if m.State() != Dragging {
		t.Errorf("state = %v, want dragging", m.State())
	}
}

func TestDropFailures(t *testing.T) {
	tests := []struct {
		name   string
		start  *layout.Address
		target Target
		want   errs.Code
	}{
		{name: "not dragging", target: RowTarget{Row: 0}, want: errs.ErrCodeInvalidInput},
		{name: "no target", start: ptr(layout.RowAddress(0)), want: errs.ErrCodeIncompatibleDrop},
		{name: "self", start: ptr(layout.RowAddress(0)), target: RowTarget{Row: 0}, want: errs.ErrCodeNoChange},
		{name: "matrix", start: ptr(layout.RowAddress(0)), target: ColumnTarget{Row: 1, Column: 0}, want: errs.ErrCodeIncompatibleDrop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Machine
			if tt.start != nil {
				if _, err := m.Start(testLayout(), *tt.start); err != nil {
					t.Fatalf("Start: %v", err)
				}
			}
			_, _, err := m.Drop(tt.target)
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("Drop() code = %q, want %q (err: %v)", got, tt.want, err)
			}
			if m.State() != Idle {
				t.Errorf("state = %v, want idle", m.State())
			}
		})
	}
}

func TestStartInvalidCoordinate(t *testing.T) {
	var m Machine
	_, err := m.Start(testLayout(), layout.ChildAddress(0, 0, 0, 0))
	if !errs.Is(err, errs.ErrCodeInvalidCoordinate) {
		t.Errorf("Start() error = %v, want INVALID_COORDINATE", err)
	}
	if m.State() != Idle {
		t.Errorf("state = %v, want idle", m.State())
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	l := testLayout()
	src, err := Pick(l, layout.ModuleAddress(0, 0, 2))
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	l.Rows[0].Columns[0].Modules[2].Modules[0].ID = "changed"
	m, _ := MovedModule(src)
	if m.Modules[0].ID != "k" {
		t.Errorf("snapshot child id = %q, want k", m.Modules[0].ID)
	}
}

func TestMachineJSON(t *testing.T) {
	var m Machine
	if _, err := m.Start(testLayout(), layout.ChildAddress(0, 0, 2, 0)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m.Enter(ModuleTarget{Row: 1, Column: 0, Module: 0})

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Machine
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.State() != Hovering {
		t.Errorf("state = %v, want hovering", got.State())
	}
	src, ok := got.Source().(ChildSource)
	if !ok || src.Snapshot.ID != "k" || src.Module != 2 {
		t.Errorf("source = %#v", got.Source())
	}
	if got.Target() != Target(ModuleTarget{Row: 1, Column: 0, Module: 0}) {
		t.Errorf("target = %s", Describe(got.Target()))
	}

	if err := json.Unmarshal([]byte(`{"state":"hovering"}`), &got); err == nil {
		t.Error("hovering without a source should be rejected")
	}
}

func TestNewTarget(t *testing.T) {
	if _, err := NewTarget(TargetContainer, layout.ColumnAddress(0, 0)); err == nil {
		t.Error("container target with a column address should fail")
	}
	if _, err := NewTarget("bogus", layout.RowAddress(0)); err == nil {
		t.Error("unknown kind should fail")
	}
	tgt, err := DecodeTarget("layout", "r0.c0.m2")
	if err != nil {
		t.Fatalf("DecodeTarget: %v", err)
	}
	if tgt != Target(ContainerTarget{Row: 0, Column: 0, Module: 2}) {
		t.Errorf("DecodeTarget = %s", Describe(tgt))
	}
}

func ptr[T any](v T) *T { return &v }
