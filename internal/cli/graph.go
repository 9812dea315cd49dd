package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/render/nodelink"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output path; the extension picks dot, svg or png
	cell     string // restrict the diagram to the cells below this one
	detailed bool   // element counts on nodes, instance counts on edges
}

// validGraphFormats is the set of supported diagram formats.
var validGraphFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// graphCommand creates the graph command for drawing the cell hierarchy.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Draw the cell hierarchy as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			format := graphFormat(opts.output)
			if !validGraphFormats[format] {
				return errs.New(errs.ErrCodeInvalidInput, "invalid graph format: %s (must be 'dot', 'svg' or 'png')", format)
			}
			return c.runGraph(cmd.Context(), args[0], format, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file: .svg (default), .png or .dot")
	cmd.Flags().StringVar(&opts.cell, "cell", "", "draw only this cell and the cells below it")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show element and instance counts")

	return cmd
}

// graphFormat returns the lowercase extension of path without the dot.
func graphFormat(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (c *CLI) runGraph(ctx context.Context, input, format string, opts *graphOpts) error {
	logger := loggerFromContext(ctx)

	lib, err := c.loadLibrary(ctx, input)
	if err != nil {
		return err
	}
	g := hierarchy.FromLibrary(lib)
	if opts.cell != "" {
		cell, err := c.pickCell(lib, opts.cell)
		if err != nil {
			return err
		}
		g = hierarchy.Build(lib, cell)
	}
	logger.Infof("Drawing %d cells, %d edges", g.NodeCount(), g.EdgeCount())

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "png":
		data, err = nodelink.RenderPNG(ctx, dot)
	default:
		data, err = nodelink.RenderSVG(ctx, dot)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeWriteFailed, err, "write %s", opts.output)
	}
	printSuccess("Drew hierarchy of %s", lib.Name)
	printFile(opts.output)
	return nil
}
