package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gdsr/pkg/hierarchy"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Detailed adds per-cell element counts to node labels and instance
	// counts to edges. When false, only the cell name is shown.
	Detailed bool
}

// ToDOT converts a cell hierarchy to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Parents are drawn above their children. Cells that are referenced but
// missing from the hierarchy are drawn with dashed outlines.
func ToDOT(g *hierarchy.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", name, fmtLabel(g, name, opts.Detailed))
	}
	for _, name := range g.Missing() {
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", name, name)
	}

	buf.WriteString("\n")
	for _, parent := range g.Nodes() {
		c, _ := g.Cell(parent)
		seen := make(map[string]bool)
		for _, r := range c.References {
			if !r.IsCell() || seen[r.Cell] {
				continue
			}
			seen[r.Cell] = true
			if opts.Detailed {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", parent, r.Cell, fmt.Sprintf("×%d", g.Instances(parent, r.Cell)))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", parent, r.Cell)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *hierarchy.Graph, name string, detailed bool) string {
	if !detailed {
		return name
	}
	c, _ := g.Cell(name)
	parts := []string{
		fmt.Sprintf("polygons: %d", len(c.Polygons)),
		fmt.Sprintf("paths: %d", len(c.Paths)),
		fmt.Sprintf("texts: %d", len(c.Texts)),
		fmt.Sprintf("references: %d", len(c.References)),
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose size matches the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
