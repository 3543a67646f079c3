package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/cardbuilder/pkg/layout"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds each node's fields to its label.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT source.
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph card {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for ri, row := range l.Rows {
		writeRow(&buf, ri, row, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeRow(buf *bytes.Buffer, ri int, row layout.Row, opts Options) {
	label := fmt.Sprintf("row %d", ri)
	if row.ColumnLayout != "" {
		label += " · " + row.ColumnLayout
	}
	fmt.Fprintf(buf, "\n  subgraph cluster_r%d {\n", ri)
	fmt.Fprintf(buf, "    label=%q;\n", label)
	buf.WriteString("    style=\"rounded,dashed\";\n")
	if len(row.Columns) == 0 {
		fmt.Fprintf(buf, "    %q [label=\"empty row\", shape=plaintext, style=\"\"];\n", row.ID)
	}

	var widths []float64
	if t, ok := row.Template(); ok && t.ColumnCount() == len(row.Columns) {
		widths = t.Widths()
	}
	for ci, col := range row.Columns {
		colLabel := fmt.Sprintf("column %d", ci)
		if widths != nil {
			colLabel += fmt.Sprintf(" · %.0f%%", widths[ci])
		}
		fmt.Fprintf(buf, "    subgraph cluster_r%d_c%d {\n", ri, ci)
		fmt.Fprintf(buf, "      label=%q;\n", colLabel)
		buf.WriteString("      style=rounded;\n")
		if len(col.Modules) == 0 {
			fmt.Fprintf(buf, "      %q [label=\"empty\", shape=plaintext, style=\"\"];\n", col.ID)
		}
		for _, m := range col.Modules {
			writeModule(buf, "      ", m, opts)
		}
		writeOrder(buf, "      ", col.Modules)
		buf.WriteString("    }\n")
	}
	buf.WriteString("  }\n")
}

func writeModule(buf *bytes.Buffer, indent string, m layout.Module, opts Options) {
	attrs := []string{fmt.Sprintf("label=%q", moduleLabel(m, opts.Detailed))}
	if m.IsContainer() {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, m.ID, strings.Join(attrs, ", "))
	for _, child := range m.Modules {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, child.ID,
			fmt.Sprintf("label=%q, style=\"rounded,filled,dashed\"", moduleLabel(child, opts.Detailed)))
		fmt.Fprintf(buf, "%s%q -> %q [arrowhead=none];\n", indent, m.ID, child.ID)
	}
}

// writeOrder chains siblings with invisible edges so they stack top to
// bottom in list order.
func writeOrder(buf *bytes.Buffer, indent string, ms []layout.Module) {
	for i := 1; i < len(ms); i++ {
		from := ms[i-1]
		if n := len(from.Modules); n > 0 {
			from = from.Modules[n-1]
		}
		fmt.Fprintf(buf, "%s%q -> %q [style=invis];\n", indent, from.ID, ms[i].ID)
	}
}

func moduleLabel(m layout.Module, detailed bool) string {
	label := m.Type
	if detailed {
		label += "\n" + m.ID
		for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
			label += fmt.Sprintf("\n%s: %v", k, m.Fields[k])
		}
	}
	return label
}
