package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/gds"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/io"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// isJSON reports whether path names a JSON library rather than a stream.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// loadLibrary reads a JSON library for .json paths and a GDSII stream
// otherwise.
func (c *CLI) loadLibrary(ctx context.Context, path string) (*layout.Library, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if isJSON(path) {
		lib, err := io.ImportJSON(path)
		if err != nil {
			return nil, err
		}
		prog.done(fmt.Sprintf("Loaded %s: %d cells", path, lib.Len()))
		return lib, nil
	}

	before := c.hooks.warnings
	lib, err := gds.ReadFile(ctx, path, c.cfg.ReadOptions(logger))
	if err != nil {
		return nil, err
	}
	if n := c.hooks.warnings - before; n > 0 {
		printWarning("%d warnings while reading %s", n, path)
	}
	prog.done(fmt.Sprintf("Loaded %s: %d cells", path, lib.Len()))
	return lib, nil
}

// selectCell returns the named cell, or the library's only top cell when
// name is empty.
func selectCell(lib *layout.Library, name string) (*layout.Cell, error) {
	if name != "" {
		c, ok := lib.Cell(name)
		if !ok {
			return nil, errs.New(errs.ErrCodeNotFound, "cell %q not in library %q", name, lib.Name)
		}
		return c, nil
	}
	roots := hierarchy.FromLibrary(lib).Roots()
	switch len(roots) {
	case 0:
		return nil, errs.New(errs.ErrCodeNotFound, "library %q has no top cell", lib.Name)
	case 1:
		c, _ := lib.Cell(roots[0])
		return c, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "library %q has %d top cells (%s), choose one with --cell",
			lib.Name, len(roots), strings.Join(roots, ", "))
	}
}

// writeLibrary writes lib as JSON for .json paths and as a GDSII stream
// otherwise. An empty path writes a stream to a temporary file. It returns
// the path written.
func (c *CLI) writeLibrary(ctx context.Context, lib *layout.Library, path string) (string, error) {
	if isJSON(path) {
		return path, io.ExportJSON(lib, path)
	}
	return gds.WriteFile(ctx, lib, path, c.cfg.WriteOptions(loggerFromContext(ctx)))
}
