package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// treeCommand creates the tree command for printing a cell hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		cellName string
		depth    int
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the cell hierarchy from the top cells down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], cellName, depth)
		},
	}

	cmd.Flags().StringVar(&cellName, "cell", "", "start from this cell instead of the top cells")
	cmd.Flags().IntVar(&depth, "depth", layout.Unlimited, "levels to print, -1 for all")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, path, cellName string, depth int) error {
	lib, err := c.loadLibrary(ctx, path)
	if err != nil {
		return err
	}

	g := hierarchy.FromLibrary(lib)
	roots := g.Roots()
	if cellName != "" {
		cell, err := c.pickCell(lib, cellName)
		if err != nil {
			return err
		}
		g = hierarchy.Build(lib, cell)
		roots = []string{cell.Name}
	}
	if err := g.CheckAcyclic(); err != nil {
		return err
	}

	for _, name := range roots {
		fmt.Println(hierarchyTree(g, name, StyleTitle.Render(name), depth).String())
	}
	return nil
}

// hierarchyTree builds the tree of cells below name. Each child label
// carries the number of instances its parent places.
func hierarchyTree(g *hierarchy.Graph, name, label string, depth int) *tree.Tree {
	t := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	if depth == 0 {
		return t
	}

	cell, _ := g.Cell(name)
	seen := make(map[string]bool)
	for _, r := range cell.References {
		if !r.IsCell() || seen[r.Cell] {
			continue
		}
		seen[r.Cell] = true

		instances := StyleDim.Render(fmt.Sprintf(" ×%d", g.Instances(name, r.Cell)))
		if _, ok := g.Cell(r.Cell); !ok {
			t.Child(StyleWarning.Render(r.Cell+" (missing)") + instances)
			continue
		}
		t.Child(hierarchyTree(g, r.Cell, StyleValue.Render(r.Cell)+instances, depth-1))
	}
	return t
}
