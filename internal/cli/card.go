package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/pkg/card"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/logic"
	"github.com/matzehuels/cardbuilder/pkg/session"
)

// =============================================================================
// init
// =============================================================================

func (c *CLI) initCommand() *cobra.Command {
	var (
		id       string
		template string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [card.json|card.yaml|card.toml]",
		Short: "Create a card file with the default layout",
		Long: `Create a card file holding the default layout: one row with one empty column.

The file format follows the extension. Use --columns to start the first row
with a column layout template such as 1-2 or 1-1-1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd.Context(), args[0], id, template, force)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "card id (default: file name)")
	cmd.Flags().StringVar(&template, "columns", "", "column layout of the first row")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	_ = cmd.RegisterFlagCompletionFunc("columns", completeTemplates)

	return cmd
}

func (c *CLI) runInit(ctx context.Context, path, id, template string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cd := card.New(id, c.ids)
	if err := cd.Validate(); err != nil {
		return err
	}
	if template != "" {
		l, err := c.newEditor().ChangeColumnLayout(*cd.Layout, 0, template)
		if err != nil {
			return fmt.Errorf("apply column layout: %w", err)
		}
		cd.Layout = &l
	}
	if err := card.WriteFile(path, cd); err != nil {
		return err
	}

	printSuccess("Created card %s", StyleHighlight.Render(id))
	printFile(path)
	printNewline()
	printNextStep("Add a module", fmt.Sprintf("%s edit %s add_module --row 0 --column 0 --type text", appName, path))
	return nil
}

// =============================================================================
// show
// =============================================================================

func (c *CLI) showCommand() *cobra.Command {
	var statesPath string

	cmd := &cobra.Command{
		Use:   "show [card]",
		Short: "Print the layout tree of a card",
		Long: `Print the layout tree of a card with each node's address.

Addresses such as r0.c1.m2 are what edit, move and the HTTP API accept.
With --states, nodes hidden by their display conditions are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cd, err := card.ReadFile(args[0])
			if err != nil {
				return err
			}
			l := layout.Ensure(cd.Layout, c.ids)

			var hidden map[layout.Address]bool
			if statesPath != "" {
				states, err := readStates(statesPath)
				if err != nil {
					return err
				}
				hidden = make(map[layout.Address]bool)
				for _, a := range logic.Hidden(cmd.Context(), logic.NewConditionEvaluator(), l, states) {
					hidden[a] = true
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), layoutTree(cd, l, hidden))
			return nil
		},
	}

	cmd.Flags().StringVar(&statesPath, "states", "", "JSON file of entity states for display conditions")

	return cmd
}

func readStates(path string) (logic.States, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read states: %w", err)
	}
	var states logic.States
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("parse states %s: %w", path, err)
	}
	return states, nil
}

// layoutTree renders l as a lipgloss tree, one node per row, column, module
// and container child.
func layoutTree(cd card.Card, l layout.Layout, hidden map[layout.Address]bool) *tree.Tree {
	title := cd.Type
	if cd.ID != "" {
		title = cd.ID + " " + StyleDim.Render("("+cd.Type+")")
	}
	root := tree.Root(StyleTitle.Render(title))

	for ri, row := range l.Rows {
		ra := layout.RowAddress(ri)
		rowHidden := hidden[ra]
		rt := tree.Root(hiddenMark(nodeLabel(ra, rowSummary(row), styleRowNode), rowHidden))
		widths := columnWidths(row)
		for ci, col := range row.Columns {
			ca := layout.ColumnAddress(ri, ci)
			colHidden := rowHidden || hidden[ca]
			ct := tree.Root(hiddenMark(nodeLabel(ca, columnSummary(widths, ci), styleColumnNode), hidden[ca]))
			for mi, m := range col.Modules {
				a := layout.ModuleAddress(ri, ci, mi)
				if !m.IsContainer() {
					ct.Child(moduleLabel(a, m, colHidden || hidden[a]))
					continue
				}
				mt := tree.Root(moduleLabel(a, m, colHidden || hidden[a]))
				for ki, child := range m.Modules {
					ka := layout.ChildAddress(ri, ci, mi, ki)
					mt.Child(moduleLabel(ka, child, colHidden || hidden[a] || hidden[ka]))
				}
				ct.Child(mt)
			}
			if len(col.Modules) == 0 {
				ct.Child(StyleDim.Render("empty"))
			}
			rt.Child(ct)
		}
		root.Child(rt)
	}
	return root
}

func hiddenMark(label string, hidden bool) string {
	if !hidden {
		return label
	}
	return label + " " + StyleDim.Render("hidden")
}

func nodeLabel(a layout.Address, summary string, style lipgloss.Style) string {
	return style.Render(a.String()) + " " + summary
}

func rowSummary(r layout.Row) string {
	tpl := r.ColumnLayout
	if tpl == "" {
		tpl = "none"
	}
	return StyleDim.Render(fmt.Sprintf("row · %s · %s", tpl, plural(len(r.Columns), "column")))
}

func columnWidths(r layout.Row) []float64 {
	if t, ok := r.Template(); ok && t.ColumnCount() == len(r.Columns) {
		return t.Widths()
	}
	return nil
}

func columnSummary(widths []float64, i int) string {
	s := "column"
	if i < len(widths) {
		s += fmt.Sprintf(" · %.0f%%", widths[i])
	}
	return StyleDim.Render(s)
}

func moduleLabel(a layout.Address, m layout.Module, hidden bool) string {
	style := styleModuleNode
	if m.IsContainer() {
		style = styleContainerNode
	}
	label := m.Type
	if name := displayName(m); name != "" {
		label += " " + StyleDim.Render(fmt.Sprintf("%q", name))
	}
	if hidden {
		return styleHiddenNode.Render(a.String()+" "+m.Type) + " " + StyleDim.Render("hidden")
	}
	return StyleDim.Render(a.String()) + " " + style.Render(label)
}

// displayName picks the first text-like field a module carries.
func displayName(m layout.Module) string {
	for _, key := range []string{"name", "title", "label", "text"} {
		if s, ok := m.Fields[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [card...]",
		Short: "Check cards against the layout invariants",
		Long: `Check each card's layout: column counts, column layout templates, unique ids,
no containers nested in containers, and well-formed display conditions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				problems, err := checkCard(path)
				if err != nil {
					printError("%s: %v", path, err)
					failed++
					continue
				}
				if len(problems) == 0 {
					printSuccess("%s", path)
					continue
				}
				failed++
				printError("%s: %s", path, plural(len(problems), "problem"))
				for _, p := range problems {
					printDetail("%s", p)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d cards invalid", failed, len(args))
			}
			return nil
		},
	}
}

// checkCard returns every problem found in the card at path.
func checkCard(path string) ([]string, error) {
	cd, err := card.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var problems []string
	if cd.Type == "" {
		problems = append(problems, "card type is missing")
	}
	if cd.Layout == nil {
		return problems, nil
	}
	for _, p := range layout.Check(*cd.Layout) {
		problems = append(problems, p.String())
	}
	walkModules(*cd.Layout, func(a layout.Address, m layout.Module) {
		if _, err := logic.RuleOf(m.Fields); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", a, err))
		}
	})
	return problems, nil
}

func walkModules(l layout.Layout, fn func(a layout.Address, m layout.Module)) {
	for ri, row := range l.Rows {
		for ci, col := range row.Columns {
			for mi, m := range col.Modules {
				fn(layout.ModuleAddress(ri, ci, mi), m)
				for ki, child := range m.Modules {
					fn(layout.ChildAddress(ri, ci, mi, ki), child)
				}
			}
		}
	}
}

// =============================================================================
// Editing a card file
// =============================================================================

// fileSession opens the card at path for editing. Each layout change is
// written back to the file.
func (c *CLI) fileSession(path string) (*card.Host, *session.Session, error) {
	cd, err := card.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	host := card.NewHost(cd, func(ctx context.Context, changed card.Card) error {
		return card.WriteFile(path, changed)
	})
	return host, session.New(cd.ID, 0), nil
}

func completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return layout.TemplateIDs(), cobra.ShellCompDirectiveNoFileComp
}
