package io

import (
	"encoding/json"
	"io"
	"os"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// WriteJSON encodes a library as JSON and writes it to w.
// Cells appear in library order and keep their references, so the output
// can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(lib *layout.Library, w io.Writer) error {
	out := library{Name: lib.Name, Cells: make([]cell, 0, lib.Len())}
	for _, c := range lib.Cells() {
		out.Cells = append(out.Cells, fromCell(c))
	}
	return encode(out, w)
}

// WriteFlatJSON flattens c through res with opts and writes the resulting
// geometry as a single reference-free cell.
func WriteFlatJSON(c *layout.Cell, res layout.Resolver, opts layout.FlattenOptions, w io.Writer) error {
	elements, err := c.GetElements(res, opts)
	if err != nil {
		return err
	}
	flat := layout.NewCell(c.Name)
	for _, el := range elements {
		if _, ok := el.(*layout.Reference); ok {
			continue
		}
		if err := flat.Add(el); err != nil {
			return err
		}
	}
	return encode(fromCell(flat), w)
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errs.Wrap(errs.ErrCodeWriteFailed, err, "encode json")
	}
	return nil
}

// ExportJSON writes a library to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(lib *layout.Library, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeFileCreate, err, "create %s", path)
	}
	if err := WriteJSON(lib, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeWriteFailed, err, "close %s", path)
	}
	return nil
}

func fromCell(c *layout.Cell) cell {
	out := cell{Name: c.Name}
	for _, p := range c.Polygons {
		out.Polygons = append(out.Polygons, fromPolygon(p))
	}
	for _, p := range c.Paths {
		out.Paths = append(out.Paths, fromPath(p))
	}
	for _, t := range c.Texts {
		out.Texts = append(out.Texts, fromText(t))
	}
	for _, r := range c.References {
		out.References = append(out.References, fromReference(r))
	}
	return out
}

func fromPolygon(p *layout.Polygon) polygon {
	return polygon{Points: toPoints(p.Points), Layer: p.Layer, Datatype: p.Datatype}
}

func fromPath(p *layout.Path) path {
	return path{
		Points:   toPoints(p.Points),
		Layer:    p.Layer,
		Datatype: p.Datatype,
		Type:     p.Type.String(),
		Width:    p.Width,
	}
}

func fromText(t *layout.Text) text {
	return text{
		Text:          t.Text,
		Origin:        toPoint(t.Origin),
		Layer:         t.Layer,
		Magnification: t.Magnification,
		Angle:         t.Angle,
		XReflection:   t.XReflection,
		Vertical:      t.Vertical.String(),
		Horizontal:    t.Horizontal.String(),
	}
}

func fromReference(r *layout.Reference) reference {
	out := reference{Cell: r.Cell, Grid: fromGrid(r.Grid)}
	switch el := r.Element.(type) {
	case *layout.Polygon:
		p := fromPolygon(el)
		out.Element = &instance{Polygon: &p}
	case *layout.Path:
		p := fromPath(el)
		out.Element = &instance{Path: &p}
	case *layout.Text:
		t := fromText(el)
		out.Element = &instance{Text: &t}
	}
	return out
}

func fromGrid(g geom.Grid) grid {
	return grid{
		Origin:        toPoint(g.Origin),
		Columns:       g.Columns,
		Rows:          g.Rows,
		SpacingX:      toPoint(g.SpacingX),
		SpacingY:      toPoint(g.SpacingY),
		Magnification: g.Magnification,
		Angle:         g.Angle,
		XReflection:   g.XReflection,
	}
}
