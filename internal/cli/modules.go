package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/registry"
)

func (c *CLI) modulesCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List module types and column layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := registry.Builtin(c.ids)
			mods := cat.List()
			if category != "" {
				mods = cat.ListCategory(registry.Category(category))
				if len(mods) == 0 {
					return fmt.Errorf("no modules in category %q", category)
				}
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			rows := make([][]string, 0, len(mods))
			for _, m := range mods {
				rows = append(rows, []string{m.Type, m.Title, string(m.Category), m.Description})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Type", "Title", "Category", "Description").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == table.HeaderRow:
						return headerStyle
					case col == 0 && layout.IsContainer(mods[row].Type):
						return styleContainerNode
					case col == 0:
						return StyleHighlight
					}
					return StyleDim
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			tpl := make([][]string, 0)
			for _, t := range layout.Templates() {
				widths := ""
				for i, w := range t.Widths() {
					if i > 0 {
						widths += " "
					}
					widths += fmt.Sprintf("%.0f%%", w)
				}
				tpl = append(tpl, []string{t.ID, t.Name, widths})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Layout", "Name", "Widths").
				Rows(tpl...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return lipgloss.NewStyle()
				}).
				Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list one category: content, layout, interactive, data")
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(registry.CategoryContent), string(registry.CategoryLayout),
			string(registry.CategoryInteractive), string(registry.CategoryData),
		}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
