package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/pkg/cache"
	"github.com/matzehuels/cardbuilder/pkg/card"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "dot", "svg", "png", "pdf"
	detailed bool     // show module ids and fields
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [card]",
		Short: "Render a card's layout tree as a diagram",
		Long: `Render a card's row/column/module tree with Graphviz.

This draws the structure of the layout for inspection, not the card itself.
PNG and PDF output need rsvg-convert on PATH. Results are cached by layout
fingerprint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>; - for stdout)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg", "comma-separated formats: "+strings.Join(render.Formats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show module ids and fields")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cd, err := card.ReadFile(input)
	if err != nil {
		return err
	}
	l := layout.Ensure(cd.Layout, c.ids)

	rc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		c.Logger.Warn("cache unavailable, rendering without it", "err", err)
		rc = cache.NewNullCache()
	}
	defer rc.Close()

	keys := cache.NewDefaultKeyer()
	dot := render.ToDOT(l, render.Options{Detailed: opts.detailed})
	prog := newProgress(c.Logger)

	for _, format := range opts.formats {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()

		cached := true
		key := keys.RenderKey(l, cache.RenderKeyOpts{Format: format, Detail: opts.detailed})
		data, err := cache.Fetch(ctx, rc, key, "render", c.Config.Cache.TTL, func() ([]byte, error) {
			cached = false
			return render.Render(ctx, dot, format)
		})
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		spinner.Stop()

		path := outputPath(opts.output, input, format, len(opts.formats) > 1)
		if path == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printSuccess("Rendered %s", format)
		printFile(path)
		printLayoutStats(l, cacheStatus(cached))
	}
	prog.done("Render complete")
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return fmt.Errorf("unsupported format %q (supported: %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// outputPath picks the file for one format. With several formats an explicit
// output is treated as a base path.
func outputPath(output, input, format string, multi bool) string {
	switch {
	case output == "-":
		return "-"
	case output == "":
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	return output
}
