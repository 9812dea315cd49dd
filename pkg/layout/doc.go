// Package layout provides the hierarchical layout database: libraries of
// named cells holding polygons, paths, texts and references to other cells.
//
// # Overview
//
// A [Library] owns a set of uniquely named [Cell] values. A cell owns its
// direct elements. An [Element] is one of four kinds:
//
//   - [*Polygon]: a closed point ring on a layer and datatype
//   - [*Path]: an open polyline with an end-cap style and a width
//   - [*Text]: a label with presentation anchors and its own transform
//   - [*Reference]: a cell or a single element placed over a [geom.Grid]
//
// References point at cells by name and never own them. Names are resolved
// through a [Resolver] (normally the library) when geometry is needed, so an
// edit to a cell is visible through every reference to it, and references to
// cells that do not exist yet are legal until they are used.
//
// # Basic Usage
//
//	lib := layout.NewLibrary("chip")
//	via := layout.NewCell("via")
//	sq, _ := layout.NewPolygon([]geom.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1, 0)
//	via.Add(sq)
//
//	top := layout.NewCell("top")
//	ref, _ := layout.NewCellReference("via", geom.NewArray(geom.Point{}, 4, 4, geom.Pt(2, 0), geom.Pt(0, 2)))
//	top.Add(ref)
//
//	lib.Add(false, via, top)
//
// # Flattening
//
// [Cell.GetElements] and [FlattenReference] expand references into concrete,
// transformed elements. Each copy placed by a grid is mirrored, rotated and
// scaled about the coordinate origin, in that order, before it is moved to
// its lattice point. A [Filter] restricts the result to chosen
// layer/datatype pairs, and [FlattenOptions.MaxDepth] limits how many
// reference levels are expanded. References left over at the depth limit are
// returned with the enclosing transforms folded into their grids.
//
// Reference cycles are reported as CYCLE errors rather than truncated by the
// depth limit.
//
// # Concurrency
//
// Libraries, cells and elements are not safe for concurrent mutation.
// Concurrent reads, including flattening, are safe.
package layout
