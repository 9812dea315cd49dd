package layout

import (
	"fmt"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Cell is a named, ordered collection of elements.
//
// A cell owns its direct elements. Cells it references are owned by the
// [Library] and reached through their names. Renaming a cell that is
// already in a library must go through [Library.Rename].
type Cell struct {
	Name       string       `json:"name"`
	Polygons   []*Polygon   `json:"polygons,omitempty"`
	Paths      []*Path      `json:"paths,omitempty"`
	Texts      []*Text      `json:"texts,omitempty"`
	References []*Reference `json:"references,omitempty"`
}

// NewCell returns an empty cell. The name is validated when the cell is
// added to a library.
func NewCell(name string) *Cell {
	return &Cell{Name: name}
}

// Add validates every element and then appends them all. If any element is
// invalid nothing is added. The cell takes ownership of the elements.
func (c *Cell) Add(elements ...Element) error {
	for _, el := range elements {
		if el == nil {
			return errs.New(errs.ErrCodeInvalidInput, "cannot add nil element to cell %q", c.Name)
		}
		if err := el.Validate(); err != nil {
			return err
		}
	}
	for _, el := range elements {
		c.add(el)
	}
	return nil
}

func (c *Cell) add(el Element) {
	switch e := el.(type) {
	case *Polygon:
		c.Polygons = append(c.Polygons, e)
	case *Path:
		c.Paths = append(c.Paths, e)
	case *Text:
		c.Texts = append(c.Texts, e)
	case *Reference:
		c.References = append(c.References, e)
	}
}

// Remove deletes every element equal in value, within tol, to one of
// elements.
func (c *Cell) Remove(tol geom.Tolerance, elements ...Element) {
	match := func(el Element) bool {
		for _, o := range elements {
			if el.Equal(o, tol) {
				return true
			}
		}
		return false
	}
	c.Polygons = removeMatching(c.Polygons, match)
	c.Paths = removeMatching(c.Paths, match)
	c.Texts = removeMatching(c.Texts, match)
	c.References = removeMatching(c.References, match)
}

func removeMatching[E Element](list []E, match func(Element) bool) []E {
	out := list[:0]
	for _, el := range list {
		if !match(el) {
			out = append(out, el)
		}
	}
	clear(list[len(out):])
	if len(out) == 0 {
		return nil
	}
	return out
}

// Contains reports whether the cell directly holds an element equal to el
// within tol.
func (c *Cell) Contains(el Element, tol geom.Tolerance) bool {
	for _, e := range c.Elements() {
		if e.Equal(el, tol) {
			return true
		}
	}
	return false
}

func (c *Cell) Len() int {
	return len(c.Polygons) + len(c.Paths) + len(c.Texts) + len(c.References)
}

func (c *Cell) IsEmpty() bool { return c.Len() == 0 }

// Elements returns the direct elements: polygons, paths, texts, then
// references, each in insertion order.
func (c *Cell) Elements() []Element {
	out := make([]Element, 0, c.Len())
	for _, p := range c.Polygons {
		out = append(out, p)
	}
	for _, p := range c.Paths {
		out = append(out, p)
	}
	for _, t := range c.Texts {
		out = append(out, t)
	}
	for _, r := range c.References {
		out = append(out, r)
	}
	return out
}

// Dependencies returns the distinct names of referenced cells in order of
// first use.
func (c *Cell) Dependencies() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range c.References {
		if r.IsCell() && !seen[r.Cell] {
			seen[r.Cell] = true
			names = append(names, r.Cell)
		}
	}
	return names
}

// BoundingBox returns the bounds of every element, with references fully
// expanded through res.
func (c *Cell) BoundingBox(res Resolver) (geom.Rect, bool) {
	return boundsOf(c.Elements(), res)
}

// MoveTo translates the cell so its bounding box starts at p.
func (c *Cell) MoveTo(p geom.Point, res Resolver) {
	if box, ok := c.BoundingBox(res); ok {
		c.MoveBy(p.Sub(box.Min))
	}
}

func (c *Cell) MoveBy(v geom.Point) {
	for _, el := range c.Elements() {
		el.MoveBy(v)
	}
}

func (c *Cell) Rotate(angle float64, centre geom.Point) {
	for _, el := range c.Elements() {
		el.Rotate(angle, centre)
	}
}

func (c *Cell) Scale(factor float64, centre geom.Point) {
	for _, el := range c.Elements() {
		el.Scale(factor, centre)
	}
}

func (c *Cell) Reflect(angle float64, centre geom.Point) {
	for _, el := range c.Elements() {
		el.Reflect(angle, centre)
	}
}

// GetElements returns the cell's concrete elements that pass opts.Filter
// followed by its references flattened to opts.MaxDepth. The cell is not
// modified and the result shares no elements with it.
func (c *Cell) GetElements(res Resolver, opts FlattenOptions) ([]Element, error) {
	f := &flattener{res: res, filter: opts.Filter}
	return f.cell(c, opts.MaxDepth)
}

// Flatten replaces every reference with its flattened contents. The cell's
// own polygons, paths and texts are kept unfiltered. On error the cell is
// left unchanged.
func (c *Cell) Flatten(res Resolver, opts FlattenOptions) error {
	f := &flattener{res: res, filter: opts.Filter, stack: []string{c.Name}}
	var expanded []Element
	for _, r := range c.References {
		sub, err := f.reference(r, opts.MaxDepth)
		if err != nil {
			return err
		}
		expanded = append(expanded, sub...)
	}
	c.References = nil
	for _, el := range expanded {
		c.add(el)
	}
	return nil
}

// Copy returns a deep copy of the cell. Referenced cells are shared by
// name and not copied.
func (c *Cell) Copy() *Cell {
	out := NewCell(c.Name)
	for _, el := range c.Elements() {
		out.add(el.Copy())
	}
	return out
}

// Equal reports whether both cells have the same name and pairwise equal
// element lists.
func (c *Cell) Equal(o *Cell, tol geom.Tolerance) bool {
	if c.Name != o.Name ||
		len(c.Polygons) != len(o.Polygons) ||
		len(c.Paths) != len(o.Paths) ||
		len(c.Texts) != len(o.Texts) ||
		len(c.References) != len(o.References) {
		return false
	}
	a, b := c.Elements(), o.Elements()
	for i := range a {
		if !a[i].Equal(b[i], tol) {
			return false
		}
	}
	return true
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell %q with %d polygons, %d paths, %d texts, %d references",
		c.Name, len(c.Polygons), len(c.Paths), len(c.Texts), len(c.References))
}
