// Package render draws a layout tree as a Graphviz diagram.
//
// The diagram is an inspection aid, not the card itself: rows and columns
// become nested clusters, modules become boxes stacked in column order and
// container children hang off their container with edges.
//
//	dot := render.ToDOT(l, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// PDF and PNG conversion shells out to rsvg-convert (librsvg).
package render
