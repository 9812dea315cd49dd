package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdsr/pkg/gds"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
)

// infoCommand creates the info command for summarizing a library.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Summarize a library: units, top cells and per-cell element counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInfo(ctx context.Context, path string) error {
	lib, err := c.loadLibrary(ctx, path)
	if err != nil {
		return err
	}

	g := hierarchy.FromLibrary(lib)
	height, err := g.Height()
	if err != nil {
		return err
	}
	stats := gds.LibraryStats(lib)

	fmt.Println(StyleTitle.Render(lib.Name))
	if !isJSON(path) {
		h, err := gds.ReadHeader(path)
		if err != nil {
			return err
		}
		printKeyValue("version", fmt.Sprint(h.Version))
		printKeyValue("user unit", fmt.Sprintf("%g m", h.Units.UserUnit))
		printKeyValue("db unit", fmt.Sprintf("%g m", h.Units.DatabaseUnit))
	}
	printKeyValue("cells", fmt.Sprint(stats.Cells))
	printKeyValue("elements", fmt.Sprint(stats.Elements))
	printKeyValue("top cells", strings.Join(g.Roots(), ", "))
	printKeyValue("depth", fmt.Sprint(height))
	if missing := lib.Unresolved(); len(missing) > 0 {
		printWarning("unresolved references: %s", strings.Join(missing, ", "))
	}

	printNewline()
	for _, cell := range lib.Cells() {
		printCellStats(cell.Name, len(cell.Polygons), len(cell.Paths), len(cell.Texts), len(cell.References))
	}
	return nil
}
