package layout

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Unlimited disables the depth limit of a flatten.
const Unlimited = -1

// FlattenOptions controls how references are expanded.
type FlattenOptions struct {
	// Filter selects the concrete elements to keep. Empty keeps everything.
	Filter Filter
	// MaxDepth is the number of reference levels to expand. Zero leaves
	// references untouched; Unlimited expands until no references remain.
	MaxDepth int
}

// FlattenReference expands ref into concrete, transformed elements.
//
// Cell instances are resolved through res. A cell that references itself,
// directly or through other cells, fails with a CYCLE error instead of
// recursing forever. References left over when the depth limit is reached
// are returned with the enclosing transforms composed into their grids.
// The result never aliases elements owned by a cell.
func FlattenReference(ref *Reference, res Resolver, opts FlattenOptions) ([]Element, error) {
	f := &flattener{res: res, filter: opts.Filter}
	return f.reference(ref, opts.MaxDepth)
}

type flattener struct {
	res    Resolver
	filter Filter
	stack  []string // cell names currently being expanded
}

func (f *flattener) reference(ref *Reference, depth int) ([]Element, error) {
	if depth == 0 {
		return []Element{ref.Copy()}, nil
	}

	if !ref.IsCell() {
		if !ref.Element.IsOn(f.filter) {
			return nil, nil
		}
		return ExpandGrid([]Element{ref.Element}, ref.Grid), nil
	}

	cell, err := f.resolve(ref.Cell)
	if err != nil {
		return nil, err
	}
	children, err := f.cell(cell, depth-1)
	if err != nil {
		return nil, err
	}
	return ExpandGrid(children, ref.Grid), nil
}

func (f *flattener) resolve(name string) (*Cell, error) {
	if i := slices.Index(f.stack, name); i >= 0 {
		cycle := append(slices.Clone(f.stack[i:]), name)
		return nil, errs.New(errs.ErrCodeCycle, "cell reference cycle: %s", strings.Join(cycle, " -> "))
	}
	if f.res == nil {
		return nil, errs.New(errs.ErrCodeUnresolvedReference, "cell %q cannot be resolved without a library", name)
	}
	cell, ok := f.res.Cell(name)
	if !ok {
		return nil, errs.New(errs.ErrCodeUnresolvedReference, "cell %q not found", name)
	}
	return cell, nil
}

// cell returns the filtered concrete elements of c followed by the
// expansion of its references, in c's local coordinates.
func (f *flattener) cell(c *Cell, depth int) ([]Element, error) {
	f.stack = append(f.stack, c.Name)
	defer func() { f.stack = f.stack[:len(f.stack)-1] }()

	out := f.concrete(c)
	for _, r := range c.References {
		sub, err := f.reference(r, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func (f *flattener) concrete(c *Cell) []Element {
	var out []Element
	for _, p := range c.Polygons {
		if p.IsOn(f.filter) {
			out = append(out, p.Copy())
		}
	}
	for _, p := range c.Paths {
		if p.IsOn(f.filter) {
			out = append(out, p.Copy())
		}
	}
	for _, t := range c.Texts {
		if t.IsOn(f.filter) {
			out = append(out, t.Copy())
		}
	}
	return out
}

// ExpandGrid places a copy of every element at every lattice point of g.
//
// Each copy is mirrored (when g.XReflection is set), rotated by g.Angle and
// scaled by g.Magnification about the coordinate origin, then translated to
// the lattice point. The lattice offset is rotated by g.Angle about
// g.Origin and the translation is rounded to [geom.RoundDecimals] digits.
// Copies are ordered by column, then row, then input order. A grid with
// zero columns or rows yields nothing.
func ExpandGrid(elements []Element, g geom.Grid) []Element {
	if g.Count() == 0 || len(elements) == 0 {
		return nil
	}
	var origin geom.Point
	out := make([]Element, 0, g.Count()*len(elements))
	for c := range g.Columns {
		for r := range g.Rows {
			offset := g.LatticePoint(c, r).Round(geom.RoundDecimals)
			for _, el := range elements {
				e := el.Copy()
				if g.XReflection {
					e.Reflect(0, origin)
				}
				if g.Angle != 0 {
					e.Rotate(g.Angle, origin)
				}
				if g.Magnification != 1 {
					e.Scale(g.Magnification, origin)
				}
				e.MoveBy(offset)
				out = append(out, e)
			}
		}
	}
	return out
}
