package layout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Id prefixes per node kind.
const (
	PrefixRow    = "row"
	PrefixColumn = "col"
	PrefixModule = "module"
)

// IDFunc produces a fresh id for a node. prefix is one of PrefixRow,
// PrefixColumn or PrefixModule.
type IDFunc func(prefix string) string

// NewID returns "<prefix>-<unix millis>-<8 random hex chars>".
func NewID(prefix string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// SequentialIDs returns an IDFunc yielding "<prefix>-1", "<prefix>-2", ...
// with one counter shared across prefixes. Used for deterministic output.
func SequentialIDs() IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Fresh returns a deep copy of r with new ids on the row, every column and
// every module, container children included.
func (r Row) Fresh(ids IDFunc) Row {
	out := r.Clone()
	out.ID = ids(PrefixRow)
	for i := range out.Columns {
		out.Columns[i] = out.Columns[i].Fresh(ids)
	}
	return out
}

// Fresh returns a deep copy of c with new ids on the column and all modules.
func (c Column) Fresh(ids IDFunc) Column {
	out := c.Clone()
	out.ID = ids(PrefixColumn)
	for i := range out.Modules {
		out.Modules[i] = out.Modules[i].Fresh(ids)
	}
	return out
}

// Fresh returns a deep copy of m with new ids on m and its children.
func (m Module) Fresh(ids IDFunc) Module {
	out := m.Clone()
	out.ID = ids(PrefixModule)
	for i := range out.Modules {
		out.Modules[i] = out.Modules[i].Fresh(ids)
	}
	return out
}
