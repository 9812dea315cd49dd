// Package render groups the visual outputs of gdsr.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the cell hierarchy of a library as a
// directed graph using Graphviz. Cells appear as boxes and references as
// arrows from the placing cell to the placed one.
//
//	g := hierarchy.FromLibrary(lib)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/gdsr/pkg/render/nodelink
package render
