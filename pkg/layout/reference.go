package layout

import (
	"fmt"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Reference places an instance at every lattice point of a [geom.Grid].
//
// The instance is either a cell, named by Cell and resolved through a
// [Resolver] when needed, or a single non-reference Element. Exactly one
// of the two is set. Storing the cell by name keeps the library the sole
// owner of cells: edits to a cell are visible through every reference.
type Reference struct {
	Cell    string    `json:"cell,omitempty"`
	Element Element   `json:"-"`
	Grid    geom.Grid `json:"grid"`
}

// NewCellReference returns a reference to the cell called name.
func NewCellReference(name string, grid geom.Grid) (*Reference, error) {
	r := &Reference{Cell: name, Grid: grid}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewElementReference returns a reference that arrays a single element.
// The element is copied. References of references are rejected; express
// arrays of arrays through a cell instead.
func NewElementReference(el Element, grid geom.Grid) (*Reference, error) {
	if el == nil {
		return nil, errs.New(errs.ErrCodeInvalidInstance, "reference instance is nil")
	}
	r := &Reference{Element: el.Copy(), Grid: grid}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reference) Kind() Kind { return KindReference }
func (r *Reference) element()   {}

// IsCell reports whether the instance is a cell.
func (r *Reference) IsCell() bool { return r.Element == nil }

// Validate checks the instance and the grid. A reference without an
// element instance is a cell reference, so an empty name is INVALID_NAME.
func (r *Reference) Validate() error {
	switch {
	case r.Element != nil && r.Cell != "":
		return errs.New(errs.ErrCodeInvalidInstance, "reference has both a cell and an element instance")
	case r.Element != nil:
		if _, nested := r.Element.(*Reference); nested {
			return errs.New(errs.ErrCodeInvalidInstance, "reference instance cannot be another reference")
		}
		if err := r.Element.Validate(); err != nil {
			return err
		}
	default:
		if err := errs.ValidateName(r.Cell); err != nil {
			return err
		}
	}
	if err := r.Grid.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidGeometry, err, "reference grid")
	}
	return nil
}

func (r *Reference) MoveTo(p geom.Point)                      { r.Grid.MoveTo(p) }
func (r *Reference) MoveBy(v geom.Point)                      { r.Grid.MoveBy(v) }
func (r *Reference) Rotate(angle float64, centre geom.Point)  { r.Grid.Rotate(angle, centre) }
func (r *Reference) Scale(factor float64, centre geom.Point)  { r.Grid.Scale(factor, centre) }
func (r *Reference) Reflect(angle float64, centre geom.Point) { r.Grid.Reflect(angle, centre) }

func (r *Reference) IsOn(Filter) bool { return false }

func (r *Reference) Copy() Element {
	c := *r
	if r.Element != nil {
		c.Element = r.Element.Copy()
	}
	return &c
}

func (r *Reference) Equal(o Element, tol geom.Tolerance) bool {
	q, ok := o.(*Reference)
	if !ok {
		return false
	}
	if r.Cell != q.Cell || !r.Grid.Equal(q.Grid, tol) {
		return false
	}
	if r.Element == nil || q.Element == nil {
		return r.Element == nil && q.Element == nil
	}
	return r.Element.Equal(q.Element, tol)
}

func (r *Reference) String() string {
	if r.IsCell() {
		return fmt.Sprintf("Reference to cell %q with %s", r.Cell, r.Grid)
	}
	return fmt.Sprintf("Reference to %s with %s", r.Element, r.Grid)
}
