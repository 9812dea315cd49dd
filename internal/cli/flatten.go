package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/layout"
	"github.com/matzehuels/gdsr/pkg/observability"
)

// flattenOpts holds the command-line flags for the flatten command.
type flattenOpts struct {
	cell    string // cell to flatten, empty for the only top cell
	depth   int    // reference levels to expand
	filter  string // layer/datatype filter, e.g. "1/0,2"
	output  string // output path; .json writes JSON, empty writes a temp stream
	library string // name of the written library
	dedupe  bool   // drop elements repeating an earlier one within the tolerance
}

// flattenCommand creates the flatten command for expanding one cell's
// references into concrete elements.
func (c *CLI) flattenCommand() *cobra.Command {
	var opts flattenOpts

	cmd := &cobra.Command{
		Use:   "flatten [file]",
		Short: "Flatten a cell and write it to a new library",
		Long: `Flatten replaces the references of a cell with the transformed elements
of the cells they place and writes the result to a new library.

With --depth, references below that many levels are kept and the cells they
need are written alongside the flattened cell.

With --dedupe, elements equal to an earlier element within the configured
tolerance are dropped from the flattened cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fopts := c.cfg.FlattenOptions()
			if cmd.Flags().Changed("depth") {
				fopts.MaxDepth = opts.depth
			}
			if cmd.Flags().Changed("filter") {
				f, err := layout.ParseFilter(opts.filter)
				if err != nil {
					return err
				}
				fopts.Filter = f
			}
			return c.runFlatten(cmd.Context(), args[0], &opts, fopts)
		},
	}

	cmd.Flags().StringVar(&opts.cell, "cell", "", "cell to flatten (default: the only top cell)")
	cmd.Flags().IntVar(&opts.depth, "depth", layout.Unlimited, "reference levels to expand, -1 for all")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "keep only these layers, e.g. 1/0,2")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.gds or .json, default: temp file)")
	cmd.Flags().StringVar(&opts.library, "library", "", "name of the written library (default: generated)")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "drop repeated elements within the configured tolerance")

	return cmd
}

func (c *CLI) runFlatten(ctx context.Context, input string, opts *flattenOpts, fopts layout.FlattenOptions) error {
	logger := loggerFromContext(ctx)

	lib, err := c.loadLibrary(ctx, input)
	if err != nil {
		return err
	}
	src, err := c.pickCell(lib, opts.cell)
	if err != nil {
		return err
	}

	logger.Infof("Flattening %s (depth %d, filter %q)", src.Name, fopts.MaxDepth, fopts.Filter.String())
	prog := newProgress(logger)
	flat, err := flattenCell(ctx, src, lib, fopts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Flattened %s: %d elements", flat.Name, flat.Len()))
	if opts.dedupe {
		dropped, err := dedupe(flat, c.cfg.GeomTolerance())
		if err != nil {
			return err
		}
		logger.Infof("Dropped %d repeated elements (tolerance %g)", dropped, c.cfg.Tolerance)
	}

	name := opts.library
	if name == "" {
		name = "flat-" + uuid.NewString()[:8]
	}
	out, err := flatLibrary(name, flat, lib)
	if err != nil {
		return err
	}

	written, err := c.writeLibrary(ctx, out, opts.output)
	if err != nil {
		return err
	}
	printSuccess("Flattened %s into %s", src.Name, name)
	printFile(written)
	return nil
}

// flattenCell returns a flattened copy of src, reporting the result to the
// flatten hooks.
func flattenCell(ctx context.Context, src *layout.Cell, res layout.Resolver, opts layout.FlattenOptions) (*layout.Cell, error) {
	start := time.Now()
	flat := src.Copy()
	err := flat.Flatten(res, opts)
	observability.Flatten().OnFlattenComplete(ctx, src.Name, flat.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return flat, nil
}

// dedupe drops every element of c that equals an earlier one within tol and
// returns how many were dropped.
func dedupe(c *layout.Cell, tol geom.Tolerance) (int, error) {
	elements := c.Elements()
	kept := layout.NewCell(c.Name)
	for _, el := range elements {
		if kept.Contains(el, tol) {
			continue
		}
		if err := kept.Add(el); err != nil {
			return 0, err
		}
	}
	c.Polygons, c.Paths, c.Texts, c.References = kept.Polygons, kept.Paths, kept.Texts, kept.References
	return len(elements) - kept.Len(), nil
}

// flatLibrary collects flat and the cells its remaining references need.
// Needed cells are shared with res, not copied.
func flatLibrary(name string, flat *layout.Cell, res layout.Resolver) (*layout.Library, error) {
	out := layout.NewLibrary(name)
	if err := out.Add(false, flat); err != nil {
		return nil, err
	}
	for _, dep := range hierarchy.Build(res, flat).Nodes()[1:] {
		c, _ := res.Cell(dep)
		if err := out.Add(false, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
