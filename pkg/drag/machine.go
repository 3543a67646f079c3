package drag

import (
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// State is the phase of a gesture.
type State int

// Gesture phases.
const (
	Idle State = iota
	Dragging
	Hovering
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	default:
		return "idle"
	}
}

func parseState(s string) (State, bool) {
	switch s {
	case "idle", "":
		return Idle, true
	case "dragging":
		return Dragging, true
	case "hovering":
		return Hovering, true
	}
	return Idle, false
}

// Point is a pointer position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an element's bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Machine is the drag state of one editor. The zero value is idle.
// A Machine is not safe for concurrent use.
type Machine struct {
	source Source
	target Target
}

// State returns the current phase.
func (m *Machine) State() State {
	switch {
	case m.source == nil:
		return Idle
	case m.target == nil:
		return Dragging
	default:
		return Hovering
	}
}

// Source returns the dragged node, or nil when idle.
func (m *Machine) Source() Source { return m.source }

// Target returns the hovered target, or nil.
func (m *Machine) Target() Target { return m.target }

// Start picks up the node at a. Any gesture in progress is discarded.
func (m *Machine) Start(l layout.Layout, a layout.Address) (Source, error) {
	m.reset()
	src, err := Pick(l, a)
	if err != nil {
		return nil, err
	}
	m.source = src
	return src, nil
}

// Enter offers t as a drop target. It reports whether t became the hovered
// target. An incompatible target leaves the current hover unchanged.
func (m *Machine) Enter(t Target) bool {
	if !Compatible(m.source, t) {
		return false
	}
	m.target = t
	return true
}

// Leave clears the hover on t once the pointer is outside t's bounds.
// Moving onto a nested element inside the bounds keeps the hover.
// It reports whether the hover was cleared.
func (m *Machine) Leave(t Target, pointer Point, bounds Rect) bool {
	if m.target == nil || m.target != t {
		return false
	}
	if bounds.Contains(pointer) {
		return false
	}
	m.target = nil
	return true
}

// Drop ends the gesture over t and returns the validated pair. A nil t drops
// on the hovered target. The machine is idle afterwards, whatever the result.
func (m *Machine) Drop(t Target) (Source, Target, error) {
	defer m.reset()
	if m.source == nil {
		return nil, nil, errs.New(errs.ErrCodeInvalidInput, "drop without an active drag")
	}
	if t == nil {
		t = m.target
	}
	if t == nil {
		return nil, nil, errs.New(errs.ErrCodeIncompatibleDrop, "no drop target")
	}
	if IsSelf(m.source, t) {
		return nil, nil, errs.New(errs.ErrCodeNoChange, "%s dropped on itself", m.source.Address())
	}
	if !Compatible(m.source, t) {
		return nil, nil, errs.New(errs.ErrCodeIncompatibleDrop, "cannot drop %s on %s", m.source.Kind(), Describe(t))
	}
	return m.source, t, nil
}

// End cancels the gesture.
func (m *Machine) End() { m.reset() }

func (m *Machine) reset() {
	m.source = nil
	m.target = nil
}
