package cli

import (
	"context"
	stdio "io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/io"
)

const (
	formatJSON = "json" // the whole library with its hierarchy
	formatFlat = "flat" // one cell flattened to concrete elements
)

// exportCommand creates the export command for writing a library as JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var format, cellName, output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a library or a flattened cell as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], format, cellName, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json (default), flat")
	cmd.Flags().StringVar(&cellName, "cell", "", "cell to flatten for --format flat (default: the only top cell)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func validateFormat(f string) error {
	if f != formatJSON && f != formatFlat {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %s (must be 'json' or 'flat')", f)
	}
	return nil
}

func (c *CLI) runExport(ctx context.Context, input, format, cellName, output string, stdout stdio.Writer) error {
	lib, err := c.loadLibrary(ctx, input)
	if err != nil {
		return err
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errs.Wrap(errs.ErrCodeFileCreate, err, "create %s", output)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case formatFlat:
		cell, err := c.pickCell(lib, cellName)
		if err != nil {
			return err
		}
		if err := io.WriteFlatJSON(cell, lib, c.cfg.FlattenOptions(), w); err != nil {
			return err
		}
	default:
		if err := io.WriteJSON(lib, w); err != nil {
			return err
		}
	}

	if output != "" {
		printSuccess("Exported %s as %s", input, format)
		printFile(output)
	}
	return nil
}

// convertCommand creates the convert command for rewriting a library in
// another format or with the configured units.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between GDSII and JSON libraries",
		Long: `Convert reads a GDSII stream or JSON library and writes it again.
The output format follows the extension of --output: .json writes JSON and
anything else writes a GDSII stream using the configured units.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.gds or .json)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output string) error {
	lib, err := c.loadLibrary(ctx, input)
	if err != nil {
		return err
	}
	written, err := c.writeLibrary(ctx, lib, output)
	if err != nil {
		return err
	}
	printSuccess("Converted %s (%d cells)", lib.Name, lib.Len())
	printFile(written)
	return nil
}
