package io

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// ReadJSON decodes a JSON library from r.
//
// The input must be an object with a "name" and a "cells" array. Every
// element is validated as if it had been built through the layout
// constructors, so ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_FORMAT)
//   - A path type or text anchor is unknown (INVALID_FORMAT)
//   - An element violates its geometry rules (INVALID_GEOMETRY, INVALID_LAYER)
//   - Two cells share a name (DUPLICATE_NAME)
//
// References to cells missing from the document are kept; use
// [layout.Library.Unresolved] to find them. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*layout.Library, error) {
	var data library
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
	}

	lib := layout.NewLibrary(data.Name)
	for _, dc := range data.Cells {
		c, err := toCell(dc)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "cell %s", dc.Name)
		}
		if err := lib.Add(false, c); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// ImportJSON reads a JSON file at path and returns the decoded library.
func ImportJSON(path string) (*layout.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

func toCell(dc cell) (*layout.Cell, error) {
	c := layout.NewCell(dc.Name)
	var elements []layout.Element
	for _, p := range dc.Polygons {
		elements = append(elements, toPolygon(p))
	}
	for _, p := range dc.Paths {
		el, err := toPath(p)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	for _, t := range dc.Texts {
		el, err := toText(t)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	for _, r := range dc.References {
		el, err := toReference(r)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	if err := c.Add(elements...); err != nil {
		return nil, err
	}
	return c, nil
}

func toPolygon(p polygon) *layout.Polygon {
	return &layout.Polygon{Points: fromPoints(p.Points), Layer: p.Layer, Datatype: p.Datatype}
}

func toPath(p path) (*layout.Path, error) {
	typ, ok := pathTypeFromString[p.Type]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown path type %q", p.Type)
	}
	return &layout.Path{
		Points:   fromPoints(p.Points),
		Layer:    p.Layer,
		Datatype: p.Datatype,
		Type:     typ,
		Width:    p.Width,
	}, nil
}

func toText(t text) (*layout.Text, error) {
	v, ok := verticalFromString[t.Vertical]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown vertical presentation %q", t.Vertical)
	}
	h, ok := horizontalFromString[t.Horizontal]
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown horizontal presentation %q", t.Horizontal)
	}
	return &layout.Text{
		Text:          t.Text,
		Origin:        t.Origin.geom(),
		Layer:         t.Layer,
		Magnification: t.Magnification,
		Angle:         t.Angle,
		XReflection:   t.XReflection,
		Vertical:      v,
		Horizontal:    h,
	}, nil
}

func toReference(r reference) (*layout.Reference, error) {
	g := toGrid(r.Grid)
	if r.Element == nil {
		return &layout.Reference{Cell: r.Cell, Grid: g}, nil
	}
	set := 0
	for _, ok := range []bool{r.Element.Polygon != nil, r.Element.Path != nil, r.Element.Text != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "reference element must hold exactly one of polygon, path, text")
	}

	var (
		el  layout.Element
		err error
	)
	switch {
	case r.Element.Polygon != nil:
		el = toPolygon(*r.Element.Polygon)
	case r.Element.Path != nil:
		el, err = toPath(*r.Element.Path)
	default:
		el, err = toText(*r.Element.Text)
	}
	if err != nil {
		return nil, err
	}
	return &layout.Reference{Cell: r.Cell, Element: el, Grid: g}, nil
}

func toGrid(g grid) geom.Grid {
	return geom.Grid{
		Origin:        g.Origin.geom(),
		Columns:       g.Columns,
		Rows:          g.Rows,
		SpacingX:      g.SpacingX.geom(),
		SpacingY:      g.SpacingY.geom(),
		Magnification: g.Magnification,
		Angle:         g.Angle,
		XReflection:   g.XReflection,
	}
}
