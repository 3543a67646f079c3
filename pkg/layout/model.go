package layout

import (
	"encoding/json"
	"fmt"
	"maps"
)

// MaxColumns is the largest number of columns a row may hold.
const MaxColumns = 6

// Container module types. Modules of these types own child modules.
const (
	TypeHorizontal = "horizontal"
	TypeVertical   = "vertical"
)

// TypeText is the module type used when nothing better is known.
const TypeText = "text"

// AlignCenter is the default column alignment on both axes.
const AlignCenter = "center"

// JSON keys with a dedicated struct field.
const (
	keyID                  = "id"
	keyType                = "type"
	keyRows                = "rows"
	keyColumns             = "columns"
	keyModules             = "modules"
	keyColumnLayout        = "column_layout"
	keyVerticalAlignment   = "vertical_alignment"
	keyHorizontalAlignment = "horizontal_alignment"
)

// IsContainer reports whether modules of type typ hold child modules.
func IsContainer(typ string) bool {
	return typ == TypeHorizontal || typ == TypeVertical
}

// Fields holds the settings of a node that have no dedicated struct field.
// Values are whatever JSON decoding produces: string, float64, bool, nil,
// []any and map[string]any.
type Fields map[string]any

// Clone returns a deep copy of f. A nil map stays nil.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = cloneValue(vv)
		}
		return out
	case Fields:
		return x.Clone()
	default:
		return v
	}
}

// =============================================================================
// Layout
// =============================================================================

// Layout is the root of the tree.
type Layout struct {
	Rows []Row `json:"rows"`
}

// Row is a horizontal band of columns.
type Row struct {
	ID           string
	Columns      []Column
	ColumnLayout string
	Fields       Fields
}

// Column is a vertical stack of modules inside a row.
type Column struct {
	ID                  string
	Modules             []Module
	VerticalAlignment   string
	HorizontalAlignment string
	Fields              Fields
}

// Module is one content block. Type selects the variant; container variants
// (see [IsContainer]) keep their children in Modules. For every other type
// Modules is nil.
type Module struct {
	ID      string
	Type    string
	Modules []Module
	Fields  Fields
}

// IsContainer reports whether m is a layout container.
func (m Module) IsContainer() bool { return IsContainer(m.Type) }

// String returns a short description such as "text#module-17".
func (m Module) String() string { return fmt.Sprintf("%s#%s", m.Type, m.ID) }

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	if l.Rows == nil {
		return Layout{}
	}
	rows := make([]Row, len(l.Rows))
	for i, r := range l.Rows {
		rows[i] = r.Clone()
	}
	return Layout{Rows: rows}
}

// Clone returns a deep copy of r, keeping ids.
func (r Row) Clone() Row {
	out := r
	out.Fields = r.Fields.Clone()
	if r.Columns != nil {
		out.Columns = make([]Column, len(r.Columns))
		for i, c := range r.Columns {
			out.Columns[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of c, keeping ids.
func (c Column) Clone() Column {
	out := c
	out.Fields = c.Fields.Clone()
	out.Modules = cloneModules(c.Modules)
	return out
}

// Clone returns a deep copy of m, keeping ids.
func (m Module) Clone() Module {
	out := m
	out.Fields = m.Fields.Clone()
	out.Modules = cloneModules(m.Modules)
	return out
}

func cloneModules(ms []Module) []Module {
	if ms == nil {
		return nil
	}
	out := make([]Module, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}

// ModuleCount returns the number of modules in l, container children included.
func (l Layout) ModuleCount() int {
	n := 0
	for _, r := range l.Rows {
		for _, c := range r.Columns {
			for _, m := range c.Modules {
				n += 1 + len(m.Modules)
			}
		}
	}
	return n
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON flattens Fields next to the dedicated keys.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	maps.Copy(out, r.Fields)
	out[keyID] = r.ID
	out[keyColumnLayout] = r.ColumnLayout
	cols := r.Columns
	if cols == nil {
		cols = []Column{}
	}
	out[keyColumns] = cols
	return json.Marshal(out)
}

// UnmarshalJSON reads the dedicated keys and keeps everything else in Fields.
func (r *Row) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}
	var out Row
	if err := takeString(raw, keyID, &out.ID); err != nil {
		return fmt.Errorf("row: %w", err)
	}
	if err := takeString(raw, keyColumnLayout, &out.ColumnLayout); err != nil {
		return fmt.Errorf("row: %w", err)
	}
	if v, ok := raw[keyColumns]; ok {
		delete(raw, keyColumns)
		if err := json.Unmarshal(v, &out.Columns); err != nil {
			return fmt.Errorf("row %s: columns: %w", out.ID, err)
		}
	}
	if out.Fields, err = decodeFields(raw); err != nil {
		return fmt.Errorf("row %s: %w", out.ID, err)
	}
	*r = out
	return nil
}

// MarshalJSON flattens Fields next to the dedicated keys.
func (c Column) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+4)
	maps.Copy(out, c.Fields)
	out[keyID] = c.ID
	mods := c.Modules
	if mods == nil {
		mods = []Module{}
	}
	out[keyModules] = mods
	if c.VerticalAlignment != "" {
		out[keyVerticalAlignment] = c.VerticalAlignment
	}
	if c.HorizontalAlignment != "" {
		out[keyHorizontalAlignment] = c.HorizontalAlignment
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the dedicated keys and keeps everything else in Fields.
func (c *Column) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	var out Column
	for key, dst := range map[string]*string{
		keyID:                  &out.ID,
		keyVerticalAlignment:   &out.VerticalAlignment,
		keyHorizontalAlignment: &out.HorizontalAlignment,
	} {
		if err := takeString(raw, key, dst); err != nil {
			return fmt.Errorf("column: %w", err)
		}
	}
	if v, ok := raw[keyModules]; ok {
		delete(raw, keyModules)
		if err := json.Unmarshal(v, &out.Modules); err != nil {
			return fmt.Errorf("column %s: modules: %w", out.ID, err)
		}
	}
	if out.Fields, err = decodeFields(raw); err != nil {
		return fmt.Errorf("column %s: %w", out.ID, err)
	}
	*c = out
	return nil
}

// MarshalJSON flattens Fields next to the dedicated keys. Only containers
// emit a "modules" key.
func (m Module) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Fields)+3)
	maps.Copy(out, m.Fields)
	out[keyID] = m.ID
	out[keyType] = m.Type
	if m.IsContainer() {
		children := m.Modules
		if children == nil {
			children = []Module{}
		}
		out[keyModules] = children
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the dedicated keys and keeps everything else in Fields.
// A "modules" key on a non-container module is kept as an ordinary field.
func (m *Module) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("module: %w", err)
	}
	var out Module
	if err := takeString(raw, keyID, &out.ID); err != nil {
		return fmt.Errorf("module: %w", err)
	}
	if err := takeString(raw, keyType, &out.Type); err != nil {
		return fmt.Errorf("module %s: %w", out.ID, err)
	}
	if v, ok := raw[keyModules]; ok && IsContainer(out.Type) {
		delete(raw, keyModules)
		if err := json.Unmarshal(v, &out.Modules); err != nil {
			return fmt.Errorf("module %s: modules: %w", out.ID, err)
		}
	}
	if out.IsContainer() && out.Modules == nil {
		out.Modules = []Module{}
	}
	if out.Fields, err = decodeFields(raw); err != nil {
		return fmt.Errorf("module %s: %w", out.ID, err)
	}
	*m = out
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected object, got null")
	}
	return raw, nil
}

// takeString moves raw[key] into dst. A missing key or JSON null leaves dst empty.
func takeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if s != nil {
		*dst = *s
	}
	return nil
}

func decodeFields(raw map[string]json.RawMessage) (Fields, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(Fields, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}
