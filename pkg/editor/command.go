package editor

import (
	"slices"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Op names an editor operation in a [Command].
type Op string

// Operations accepted by [Editor.Exec].
const (
	OpAddRow               Op = "add_row"
	OpDeleteRow            Op = "delete_row"
	OpDuplicateRow         Op = "duplicate_row"
	OpAddColumn            Op = "add_column"
	OpAddColumnAfter       Op = "add_column_after"
	OpDuplicateColumn      Op = "duplicate_column"
	OpDeleteColumn         Op = "delete_column"
	OpAddModule            Op = "add_module"
	OpAddChildModule       Op = "add_child_module"
	OpDuplicateModule      Op = "duplicate_module"
	OpDeleteModule         Op = "delete_module"
	OpDuplicateChildModule Op = "duplicate_child_module"
	OpDeleteChildModule    Op = "delete_child_module"
	OpUpdateNode           Op = "update_node"
	OpChangeColumnLayout   Op = "change_column_layout"
)

// Command is the serialisable form of an edit, used by the CLI and the HTTP
// host. Only the fields the operation needs are read.
type Command struct {
	Op       Op           `json:"op"`
	Row      int          `json:"row"`
	Column   int          `json:"column"`
	Module   int          `json:"module"`
	Child    int          `json:"child"`
	Type     string       `json:"type,omitempty"`
	Template string       `json:"template,omitempty"`
	Target   string       `json:"target,omitempty"` // address for update_node, e.g. "r0.c1"
	Patch    layout.Patch `json:"patch,omitempty"`
}

type handler func(e *Editor, l layout.Layout, c Command) (layout.Layout, error)

var handlers = map[Op]handler{
	OpAddRow:       func(e *Editor, l layout.Layout, _ Command) (layout.Layout, error) { return e.AddRow(l) },
	OpDeleteRow:    func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) { return e.DeleteRow(l, c.Row) },
	OpDuplicateRow: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) { return e.DuplicateRow(l, c.Row) },
	OpAddColumn:    func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) { return e.AddColumn(l, c.Row) },
	OpAddColumnAfter: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.AddColumnAfter(l, c.Row, c.Column)
	},
	OpDuplicateColumn: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DuplicateColumn(l, c.Row, c.Column)
	},
	OpDeleteColumn: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DeleteColumn(l, c.Row, c.Column)
	},
	OpAddModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.AddModule(l, c.Row, c.Column, c.Type)
	},
	OpAddChildModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.AddChildModule(l, c.Row, c.Column, c.Module, c.Type)
	},
	OpDuplicateModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DuplicateModule(l, c.Row, c.Column, c.Module)
	},
	OpDeleteModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DeleteModule(l, c.Row, c.Column, c.Module)
	},
	OpDuplicateChildModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DuplicateChildModule(l, c.Row, c.Column, c.Module, c.Child)
	},
	OpDeleteChildModule: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.DeleteChildModule(l, c.Row, c.Column, c.Module, c.Child)
	},
	OpUpdateNode: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		a, err := layout.ParseAddress(c.Target)
		if err != nil {
			return l, errs.Wrap(errs.ErrCodeInvalidInput, err, "update_node target")
		}
		return e.UpdateNode(l, a, c.Patch)
	},
	OpChangeColumnLayout: func(e *Editor, l layout.Layout, c Command) (layout.Layout, error) {
		return e.ChangeColumnLayout(l, c.Row, c.Template)
	},
}

// Ops returns every supported operation, sorted.
func Ops() []Op {
	ops := make([]Op, 0, len(handlers))
	for op := range handlers {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Exec runs c against l.
func (e *Editor) Exec(l layout.Layout, c Command) (layout.Layout, error) {
	h, ok := handlers[c.Op]
	if !ok {
		return l, errs.New(errs.ErrCodeUnsupported, "unknown operation %q", c.Op)
	}
	return h(e, l, c)
}
