package drag

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// wireNode is the JSON form of a source or target.
type wireNode struct {
	Kind     string          `json:"kind"`
	At       string          `json:"at"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}

type wireMachine struct {
	State  string    `json:"state"`
	Source *wireNode `json:"source,omitempty"`
	Target *wireNode `json:"target,omitempty"`
}

// MarshalJSON encodes the machine, snapshot included, so a gesture can be
// stored between requests.
func (m Machine) MarshalJSON() ([]byte, error) {
	w := wireMachine{State: m.State().String()}
	if m.source != nil {
		n, err := encodeSource(m.source)
		if err != nil {
			return nil, err
		}
		w.Source = n
	}
	if m.target != nil {
		w.Target = &wireNode{Kind: string(m.target.Kind()), At: m.target.Address().String()}
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores a machine written by MarshalJSON.
func (m *Machine) UnmarshalJSON(data []byte) error {
	var w wireMachine
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	state, ok := parseState(w.State)
	if !ok {
		return fmt.Errorf("drag state: unknown state %q", w.State)
	}
	var out Machine
	if w.Source != nil {
		src, err := decodeSource(*w.Source)
		if err != nil {
			return err
		}
		out.source = src
	}
	if w.Target != nil {
		t, err := DecodeTarget(w.Target.Kind, w.Target.At)
		if err != nil {
			return err
		}
		out.target = t
	}
	if out.State() != state {
		return fmt.Errorf("drag state: %q does not match payload", w.State)
	}
	*m = out
	return nil
}

// DecodeTarget builds a target from its wire form, e.g. ("module", "r0.c1.m2").
func DecodeTarget(kind, at string) (Target, error) {
	a, err := layout.ParseAddress(at)
	if err != nil {
		return nil, err
	}
	return NewTarget(TargetKind(kind), a)
}

func encodeSource(s Source) (*wireNode, error) {
	var snap any
	switch s := s.(type) {
	case RowSource:
		snap = s.Snapshot
	case ColumnSource:
		snap = s.Snapshot
	case ModuleSource:
		snap = s.Snapshot
	case ChildSource:
		snap = s.Snapshot
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("drag source: %w", err)
	}
	return &wireNode{Kind: string(s.Kind()), At: s.Address().String(), Snapshot: data}, nil
}

func decodeSource(n wireNode) (Source, error) {
	a, err := layout.ParseAddress(n.At)
	if err != nil {
		return nil, err
	}
	if string(a.Kind()) != n.Kind {
		return nil, fmt.Errorf("drag source: kind %q does not match address %s", n.Kind, a)
	}
	switch a.Kind() {
	case layout.KindRow:
		var r layout.Row
		if err := json.Unmarshal(n.Snapshot, &r); err != nil {
			return nil, fmt.Errorf("drag source: %w", err)
		}
		return RowSource{Row: a.Row, Snapshot: r}, nil
	case layout.KindColumn:
		var c layout.Column
		if err := json.Unmarshal(n.Snapshot, &c); err != nil {
			return nil, fmt.Errorf("drag source: %w", err)
		}
		return ColumnSource{Row: a.Row, Column: a.Column, Snapshot: c}, nil
	default:
		var m layout.Module
		if err := json.Unmarshal(n.Snapshot, &m); err != nil {
			return nil, fmt.Errorf("drag source: %w", err)
		}
		if a.Kind() == layout.KindModule {
			return ModuleSource{Row: a.Row, Column: a.Column, Module: a.Module, Snapshot: m}, nil
		}
		return ChildSource{Row: a.Row, Column: a.Column, Module: a.Module, Child: a.Child, Snapshot: m}, nil
	}
}
