// Package pkg holds the libraries behind gdsr, a layout database with a
// GDSII stream codec.
//
// # Overview
//
// The packages build on each other from plain geometry up to files:
//
//  1. [geom] - points, rectangles and the placement grid of references
//  2. [layout] - polygons, paths, texts, references, cells, libraries and flattening
//  3. [hierarchy] - the reference graph of a set of cells
//  4. [gds] - the GDSII record format, encoder, decoder and file helpers
//  5. [io] - JSON import and export of libraries
//  6. [config] - TOML settings shared by reading, writing and flattening
//
// Supporting packages: [errors] for coded errors, [observability] for codec
// and flatten hooks, [render] for hierarchy diagrams and [buildinfo] for
// version stamps.
//
// # Data Flow
//
//	GDSII stream / JSON file
//	         ↓
//	    [gds] or [io] (decode)
//	         ↓
//	    [layout] Library (edit, transform, flatten)
//	         ↓
//	    [gds] or [io] (encode)
//
// # Quick Start
//
// Build a cell that places an array of another and write it:
//
//	leaf := layout.NewCell("via")
//	square, _ := layout.NewPolygon([]geom.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1, 0)
//	_ = leaf.Add(square)
//
//	top := layout.NewCell("top")
//	ref, _ := layout.NewCellReference("via", geom.NewArray(geom.Point{}, 4, 4, geom.Pt(2, 0), geom.Pt(0, 2)))
//	_ = top.Add(ref)
//
//	lib := layout.NewLibrary("chip")
//	_ = lib.Add(false, leaf, top)
//	path, err := gds.WriteFile(ctx, lib, "chip.gds", gds.Options{})
//
// [geom]: github.com/matzehuels/gdsr/pkg/geom
// [layout]: github.com/matzehuels/gdsr/pkg/layout
// [hierarchy]: github.com/matzehuels/gdsr/pkg/hierarchy
// [gds]: github.com/matzehuels/gdsr/pkg/gds
// [io]: github.com/matzehuels/gdsr/pkg/io
// [config]: github.com/matzehuels/gdsr/pkg/config
// [errors]: github.com/matzehuels/gdsr/pkg/errors
// [observability]: github.com/matzehuels/gdsr/pkg/observability
// [render]: github.com/matzehuels/gdsr/pkg/render
// [buildinfo]: github.com/matzehuels/gdsr/pkg/buildinfo
package pkg
