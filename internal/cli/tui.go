package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/pkg/card"
	"github.com/matzehuels/cardbuilder/pkg/drag"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
	"github.com/matzehuels/cardbuilder/pkg/registry"
	"github.com/matzehuels/cardbuilder/pkg/session"
)

func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [card]",
		Short: "Edit a card interactively",
		Long: `Edit a card's layout tree from the keyboard.

Pick a node up with space, move the cursor over a drop target and press
space or enter to drop it. Every change is saved to the card file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, sess, err := c.fileSession(args[0])
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal; keep session logs out of it.
			ctx := observability.WithLogger(cmd.Context(), log.New(io.Discard))
			m := newEditorModel(ctx, args[0], host, sess, c.newEditor())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// Styles
// =============================================================================

var (
	tuiCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiSourceStyle = lipgloss.NewStyle().Foreground(colorYellow)
	tuiTargetStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Model
// =============================================================================

// treeNode is one line of the flattened layout tree.
type treeNode struct {
	addr      layout.Address
	depth     int
	label     string
	container bool
}

// editorModel is the bubbletea model for the interactive editor. It drives an
// editor session: structural edits go through Session.Edit and moves through
// the drag gesture.
type editorModel struct {
	ctx  context.Context
	path string
	host *card.Host
	sess *session.Session
	ed   *editor.Editor

	nodes   []treeNode
	cursor  int
	offset  int
	height  int
	into    bool // drop into containers rather than before them
	newType string
	types   []string

	status    string
	statusErr bool
}

func newEditorModel(ctx context.Context, path string, host *card.Host, sess *session.Session, ed *editor.Editor) *editorModel {
	m := &editorModel{
		ctx:     ctx,
		path:    path,
		host:    host,
		sess:    sess,
		ed:      ed,
		height:  20,
		newType: "text",
	}
	if cat, ok := ed.Registry.(*registry.Catalog); ok {
		m.types = cat.Types()
	}
	m.refresh()
	return m
}

func (m *editorModel) Init() tea.Cmd {
	return nil
}

func (m *editorModel) layout() layout.Layout {
	p, _ := m.host.Layout(m.ctx)
	return layout.Ensure(p, m.ed.IDs)
}

// refresh rebuilds the flattened tree from the host's layout.
func (m *editorModel) refresh() {
	m.nodes = flatten(m.layout())
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func flatten(l layout.Layout) []treeNode {
	var out []treeNode
	for ri, row := range l.Rows {
		out = append(out, treeNode{addr: layout.RowAddress(ri), label: rowSummary(row)})
		widths := columnWidths(row)
		for ci, col := range row.Columns {
			out = append(out, treeNode{addr: layout.ColumnAddress(ri, ci), depth: 1, label: columnSummary(widths, ci)})
			for mi, mod := range col.Modules {
				a := layout.ModuleAddress(ri, ci, mi)
				out = append(out, treeNode{addr: a, depth: 2, label: moduleLabel(a, mod, false), container: mod.IsContainer()})
				for ki, child := range mod.Modules {
					ka := layout.ChildAddress(ri, ci, mi, ki)
					out = append(out, treeNode{addr: ka, depth: 3, label: moduleLabel(ka, child, false)})
				}
			}
		}
	}
	return out
}

func (m *editorModel) current() treeNode {
	if len(m.nodes) == 0 {
		return treeNode{addr: layout.RowAddress(0)}
	}
	return m.nodes[m.cursor]
}

func (m *editorModel) dragging() bool {
	return m.sess.Drag.State() != drag.Idle
}

func (m *editorModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *editorModel) setError(err error) {
	m.status = errs.UserMessage(err)
	m.statusErr = !errs.Is(err, errs.ErrCodeNoChange)
}

// =============================================================================
// Update
// =============================================================================

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 5)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *editorModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		if m.dragging() {
			m.sess.DragEnd(m.ctx)
		}
		return tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ", "space":
		if m.dragging() {
			m.drop()
		} else {
			m.pickUp()
		}
	case "enter":
		if m.dragging() {
			m.drop()
		}
	case "esc":
		if m.dragging() {
			m.sess.DragEnd(m.ctx)
			m.setStatus("Move cancelled")
		}
	case "i":
		if m.dragging() {
			m.into = !m.into
			m.hover()
		}
	default:
		if !m.dragging() {
			m.edit(key)
		}
	}
	return nil
}

func (m *editorModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.dragging() {
		m.hover()
	}
}

// =============================================================================
// Drag and drop
// =============================================================================

func (m *editorModel) pickUp() {
	n := m.current()
	src, err := m.sess.DragStart(m.ctx, m.host, n.addr)
	if err != nil {
		m.setError(err)
		return
	}
	m.into = false
	m.setStatus("Moving %s %s; pick a target (%s)", src.Kind(), n.addr, joinKinds(drag.AllowedTargets(src.Kind())))
}

// hover offers the node under the cursor as the drop target.
func (m *editorModel) hover() {
	t, err := targetAt(m.current(), m.into)
	if err != nil {
		m.setError(err)
		return
	}
	if m.sess.DragEnter(t) {
		m.setStatus("Drop on %s", drag.Describe(t))
		return
	}
	m.setStatus("Cannot drop on %s; target stays %s", drag.Describe(t), drag.Describe(m.sess.Drag.Target()))
}

func (m *editorModel) drop() {
	l, err := m.sess.DragDrop(m.ctx, m.ed, m.host, nil)
	m.into = false
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Moved; %s saved (%s)", m.path, plural(l.ModuleCount(), "module"))
}

// targetAt maps a tree node to the drop target it stands for. Container
// modules are appended into when into is set.
func targetAt(n treeNode, into bool) (drag.Target, error) {
	var kind drag.TargetKind
	switch n.addr.Kind() {
	case layout.KindRow:
		kind = drag.TargetRow
	case layout.KindColumn:
		kind = drag.TargetColumn
	case layout.KindModule:
		kind = drag.TargetModule
		if into && n.container {
			kind = drag.TargetContainer
		}
	default:
		kind = drag.TargetChild
	}
	return drag.NewTarget(kind, n.addr)
}

// =============================================================================
// Structural edits
// =============================================================================

// edit maps a key to an editor command for the node under the cursor.
func (m *editorModel) edit(key string) {
	n := m.current()
	a := n.addr
	var cmd editor.Command
	switch key {
	case "r":
		cmd = editor.Command{Op: editor.OpAddRow}
	case "c":
		if a.Kind() == layout.KindRow {
			cmd = editor.Command{Op: editor.OpAddColumn, Row: a.Row}
		} else {
			cmd = editor.Command{Op: editor.OpAddColumnAfter, Row: a.Row, Column: a.Column}
		}
	case "a":
		switch {
		case a.Kind() == layout.KindRow:
			m.setStatus("Select a column to add a module")
			return
		case a.Kind() == layout.KindModule && n.container:
			cmd = editor.Command{Op: editor.OpAddChildModule, Row: a.Row, Column: a.Column, Module: a.Module, Type: m.newType}
		case a.Kind() == layout.KindLayoutChild:
			cmd = editor.Command{Op: editor.OpAddChildModule, Row: a.Row, Column: a.Column, Module: a.Module, Type: m.newType}
		default:
			cmd = editor.Command{Op: editor.OpAddModule, Row: a.Row, Column: a.Column, Type: m.newType}
		}
	case "t":
		m.cycleType()
		return
	case "x", "delete":
		cmd = nodeCommand(a, editor.OpDeleteRow, editor.OpDeleteColumn, editor.OpDeleteModule, editor.OpDeleteChildModule)
	case "d":
		cmd = nodeCommand(a, editor.OpDuplicateRow, editor.OpDuplicateColumn, editor.OpDuplicateModule, editor.OpDuplicateChildModule)
	case "l":
		cmd = editor.Command{Op: editor.OpChangeColumnLayout, Row: a.Row, Template: m.nextTemplate(a.Row)}
	default:
		return
	}
	m.exec(cmd)
}

func nodeCommand(a layout.Address, row, col, mod, child editor.Op) editor.Command {
	c := editor.Command{Row: a.Row, Column: a.Column, Module: a.Module, Child: a.Child}
	switch a.Kind() {
	case layout.KindRow:
		c.Op = row
	case layout.KindColumn:
		c.Op = col
	case layout.KindModule:
		c.Op = mod
	default:
		c.Op = child
	}
	return c
}

func (m *editorModel) exec(cmd editor.Command) {
	_, err := m.sess.Edit(m.ctx, m.ed, m.host, cmd)
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("%s; %s saved", cmd.Op, m.path)
}

// nextTemplate returns the template after the row's current one.
func (m *editorModel) nextTemplate(ri int) string {
	ids := layout.TemplateIDs()
	l := m.layout()
	if ri >= len(l.Rows) {
		return ids[0]
	}
	cur := layout.ResolveTemplateID(l.Rows[ri].ColumnLayout)
	for i, id := range ids {
		if id == cur {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

func (m *editorModel) cycleType() {
	if len(m.types) == 0 {
		return
	}
	next := m.types[0]
	for i, t := range m.types {
		if t == m.newType {
			next = m.types[(i+1)%len(m.types)]
			break
		}
	}
	m.newType = next
	m.setStatus("New modules: %s", next)
}

// =============================================================================
// View
// =============================================================================

func (m *editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cardbuilder · " + m.path))
	b.WriteString("\n")
	if m.dragging() {
		mode := "before"
		if m.into {
			mode = "into"
		}
		b.WriteString(tuiHelpStyle.Render(fmt.Sprintf("↑/↓ target  space/⏎ drop  i containers: %s  esc cancel", mode)))
	} else {
		b.WriteString(tuiHelpStyle.Render(fmt.Sprintf("↑/↓ move  space pick up  r row  c column  a add %s  t type  d duplicate  x delete  l layout  q quit", m.newType)))
	}
	b.WriteString("\n\n")

	var src, tgt *layout.Address
	if s := m.sess.Drag.Source(); s != nil {
		a := s.Address()
		src = &a
	}
	if t := m.sess.Drag.Target(); t != nil {
		a := t.Address()
		tgt = &a
	}

	end := min(m.offset+m.height, len(m.nodes))
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		marker := "  "
		if i == m.cursor {
			marker = tuiCursorStyle.Render("▸ ")
		}
		line := strings.Repeat("  ", n.depth) + n.label
		if n.addr.Kind() == layout.KindRow || n.addr.Kind() == layout.KindColumn {
			style := styleColumnNode
			if n.addr.Kind() == layout.KindRow {
				style = styleRowNode
			}
			line = strings.Repeat("  ", n.depth) + nodeLabel(n.addr, n.label, style)
		}
		switch {
		case src != nil && *src == n.addr:
			line += " " + tuiSourceStyle.Render("(moving)")
		case tgt != nil && *tgt == n.addr:
			line += " " + tuiTargetStyle.Render("◆ drop here")
		}
		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(tuiErrorStyle.Render(iconError + " " + m.status))
	} else if m.status != "" {
		b.WriteString(StyleDim.Render(iconInfo + " " + m.status))
	}
	return b.String()
}
