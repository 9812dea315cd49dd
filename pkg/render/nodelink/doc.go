// Package nodelink renders cell hierarchies as node-link diagrams.
//
// # Overview
//
// Each cell becomes a box and each parent-child reference an arrow from the
// placing cell to the placed one. Cells with no parents sit at the top.
//
// # Usage
//
// Build the hierarchy of a library, convert it to DOT, then render:
//
//	g := hierarchy.FromLibrary(lib)
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels list element counts and edges show how many
//     instances the parent places, summed over array placements
//
// # DOT Format
//
// The [ToDOT] output can be rendered in process, saved for external Graphviz
// tools, or customized before rendering.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
