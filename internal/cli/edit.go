package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/pkg/drag"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/registry"
)

// =============================================================================
// edit
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var (
		cmdArgs editor.Command
		sets    []string
		unsets  []string
	)

	cmd := &cobra.Command{
		Use:   "edit [card] [operation]",
		Short: "Apply one editor operation to a card",
		Long: `Apply one editor operation to a card file and save the result.

Operations:
  add_row, delete_row, duplicate_row
  add_column, add_column_after, duplicate_column, delete_column
  add_module, add_child_module, duplicate_module, delete_module
  duplicate_child_module, delete_child_module
  change_column_layout, update_node

Refused edits (a seventh column, the last row, an unknown position) leave the
file untouched.`,
		Example: `  cardbuilder edit card.json add_module --row 0 --column 0 --type text
  cardbuilder edit card.json change_column_layout --row 0 --template 1-2
  cardbuilder edit card.json update_node --target r0.c0.m0 --set text='"Hello"' --unset font_size`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeOps,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdArgs.Op = editor.Op(args[1])
			patch, err := parsePatch(sets, unsets)
			if err != nil {
				return err
			}
			cmdArgs.Patch = patch
			return c.runEdit(cmd.Context(), args[0], cmdArgs)
		},
	}

	cmd.Flags().IntVarP(&cmdArgs.Row, "row", "r", 0, "row index")
	cmd.Flags().IntVarP(&cmdArgs.Column, "column", "c", 0, "column index")
	cmd.Flags().IntVarP(&cmdArgs.Module, "module", "m", 0, "module index")
	cmd.Flags().IntVarP(&cmdArgs.Child, "child", "k", 0, "container child index")
	cmd.Flags().StringVarP(&cmdArgs.Type, "type", "t", "", "module type for add_module and add_child_module")
	cmd.Flags().StringVar(&cmdArgs.Template, "template", "", "column layout for change_column_layout")
	cmd.Flags().StringVar(&cmdArgs.Target, "target", "", "node address for update_node, e.g. r0.c1.m2")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field to set as key=value; values are JSON, or strings if not valid JSON")
	cmd.Flags().StringArrayVar(&unsets, "unset", nil, "field to reset to its default")
	_ = cmd.RegisterFlagCompletionFunc("template", completeTemplates)
	_ = cmd.RegisterFlagCompletionFunc("type", c.completeTypes)

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string, cmd editor.Command) error {
	if err := checkOp(cmd.Op); err != nil {
		return err
	}
	ed := c.newEditor()
	if cmd.Type != "" {
		warnUnknownType(ed, cmd.Type)
	}

	host, sess, err := c.fileSession(path)
	if err != nil {
		return err
	}
	l, err := sess.Edit(ctx, ed, host, cmd)
	if err != nil {
		return reportRefusal(err)
	}

	printSuccess("Applied %s", StyleHighlight.Render(string(cmd.Op)))
	printFile(path)
	printLayoutStats(l)
	return nil
}

// checkOp rejects unknown operations with a suggestion.
func checkOp(op editor.Op) error {
	var names []string
	for _, known := range editor.Ops() {
		if known == op {
			return nil
		}
		names = append(names, string(known))
	}
	if guess, ok := registry.Closest(string(op), names); ok {
		return fmt.Errorf("unknown operation %q (did you mean %q?)", op, guess)
	}
	return fmt.Errorf("unknown operation %q", op)
}

func warnUnknownType(ed *editor.Editor, typ string) {
	if _, ok := ed.Registry.GetModule(typ); ok {
		return
	}
	cat, ok := ed.Registry.(*registry.Catalog)
	if !ok {
		return
	}
	if guess, ok := cat.Suggest(typ); ok {
		printWarning("unknown module type %q, did you mean %q?", typ, guess)
		return
	}
	printWarning("unknown module type %q, creating it with empty fields", typ)
}

// reportRefusal prints edits that were declined without failing the command.
func reportRefusal(err error) error {
	if errs.Is(err, errs.ErrCodeNoChange) {
		printInfo("Nothing to change: %s", errs.UserMessage(err))
		return nil
	}
	if errs.IsRefusal(err) {
		printWarning("%s", errs.UserMessage(err))
		return err
	}
	return err
}

// parsePatch builds an update_node patch from --set and --unset flags.
func parsePatch(sets, unsets []string) (layout.Patch, error) {
	if len(sets) == 0 && len(unsets) == 0 {
		return nil, nil
	}
	p := make(layout.Patch, len(sets)+len(unsets))
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		p[key] = parseValue(raw)
	}
	for _, key := range unsets {
		p[key] = layout.Unset
	}
	return p, nil
}

// parseValue decodes raw as JSON, falling back to the literal string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func completeOps(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var ops []string
	for _, op := range editor.Ops() {
		ops = append(ops, string(op))
	}
	return ops, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return registry.Builtin(c.ids).Types(), cobra.ShellCompDirectiveNoFileComp
}

// =============================================================================
// move
// =============================================================================

func (c *CLI) moveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [card] [from] [target-kind] [to]",
		Short: "Drag a node to a new position",
		Long: `Drag the node at one address and drop it on a target, as the visual editor does.

Target kinds:
  row           rows insert at the row; columns append to the row
  column        columns insert at the column; modules append to the column
  module        modules insert before the module
  layout        modules append to a container's children
  layout-child  modules insert before a container child

Rows only drop on rows. Columns drop on columns or rows. Containers never
drop into containers.`,
		Example: `  cardbuilder move card.json r1 row r0
  cardbuilder move card.json r0.c0.m2 module r0.c0.m0
  cardbuilder move card.json r0.c0.m1 layout r0.c1.m0`,
		Args: cobra.ExactArgs(4),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 2 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return targetKinds(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMove(cmd.Context(), args[0], args[1], args[2], args[3])
		},
	}
	return cmd
}

func (c *CLI) runMove(ctx context.Context, path, from, kind, to string) error {
	src, err := layout.ParseAddress(from)
	if err != nil {
		return err
	}
	target, err := drag.DecodeTarget(kind, to)
	if err != nil {
		return err
	}

	host, sess, err := c.fileSession(path)
	if err != nil {
		return err
	}
	picked, err := sess.DragStart(ctx, host, src)
	if err != nil {
		return err
	}
	if !sess.DragEnter(target) {
		sess.DragEnd(ctx)
		return fmt.Errorf("cannot drop %s on %s (allowed: %s)", picked.Kind(), drag.Describe(target), joinKinds(drag.AllowedTargets(picked.Kind())))
	}
	l, err := sess.DragDrop(ctx, c.newEditor(), host, nil)
	if err != nil {
		return reportRefusal(err)
	}

	printSuccess("Moved %s %s %s", StyleHighlight.Render(src.String()), iconArrow, drag.Describe(target))
	printFile(path)
	printLayoutStats(l)
	return nil
}

func targetKinds() []string {
	return []string{
		string(drag.TargetRow), string(drag.TargetColumn), string(drag.TargetModule),
		string(drag.TargetContainer), string(drag.TargetChild),
	}
}

func joinKinds(kinds []drag.TargetKind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}
