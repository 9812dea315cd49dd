package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNegativeCount is returned by [Grid.Validate] when columns or rows
	// are negative.
	ErrNegativeCount = errors.New("grid columns and rows must not be negative")

	// ErrInvalidMagnification is returned by [Grid.Validate] when the
	// magnification is not a positive finite number.
	ErrInvalidMagnification = errors.New("grid magnification must be positive and finite")

	// ErrInvalidAngle is returned by [Grid.Validate] for NaN or infinite angles.
	ErrInvalidAngle = errors.New("grid angle must be finite")
)

// Grid describes an array placement of an instance.
//
// The zero value is not the identity placement (its magnification is 0 and
// it has no lattice points); use [NewGrid].
type Grid struct {
	Origin        Point   `json:"origin"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	SpacingX      Point   `json:"spacing_x"`
	SpacingY      Point   `json:"spacing_y"`
	Magnification float64 `json:"magnification"`
	Angle         float64 `json:"angle"`
	XReflection   bool    `json:"x_reflection"`
}

// NewGrid returns a single placement at the coordinate origin with the
// identity transform.
func NewGrid() Grid {
	return Grid{Columns: 1, Rows: 1, Magnification: 1}
}

// NewArray returns an identity-transform grid of columns × rows instances.
func NewArray(origin Point, columns, rows int, spacingX, spacingY Point) Grid {
	return Grid{
		Origin:        origin,
		Columns:       columns,
		Rows:          rows,
		SpacingX:      spacingX,
		SpacingY:      spacingY,
		Magnification: 1,
	}
}

// Validate checks the invariants a grid must hold before it is placed.
func (g Grid) Validate() error {
	if g.Columns < 0 || g.Rows < 0 {
		return ErrNegativeCount
	}
	if g.Magnification <= 0 || math.IsNaN(g.Magnification) || math.IsInf(g.Magnification, 0) {
		return ErrInvalidMagnification
	}
	if math.IsNaN(g.Angle) || math.IsInf(g.Angle, 0) {
		return ErrInvalidAngle
	}
	return nil
}

// Count returns the number of lattice points.
func (g Grid) Count() int {
	if g.Columns <= 0 || g.Rows <= 0 {
		return 0
	}
	return g.Columns * g.Rows
}

// IsIdentity reports whether the post-placement transform is the identity.
func (g Grid) IsIdentity() bool {
	return g.Magnification == 1 && NormalizeAngle(g.Angle) == 0 && !g.XReflection
}

func (g *Grid) MoveTo(p Point) { g.Origin = p }
func (g *Grid) MoveBy(v Point) { g.Origin = g.Origin.Add(v) }

// Rotate rotates the whole array by angle degrees about centre.
// Spacing vectors are lattice-local and do not change.
func (g *Grid) Rotate(angle float64, centre Point) {
	g.Origin = g.Origin.Rotate(angle, centre)
	g.Angle = NormalizeAngle(g.Angle + angle)
}

// Scale scales the whole array by factor about centre. A negative factor is
// a scale by |factor| combined with a half turn.
func (g *Grid) Scale(factor float64, centre Point) {
	g.Origin = g.Origin.Scale(factor, centre)
	g.SpacingX = g.SpacingX.Mul(math.Abs(factor))
	g.SpacingY = g.SpacingY.Mul(math.Abs(factor))
	g.Magnification *= math.Abs(factor)
	if factor < 0 {
		g.Angle = NormalizeAngle(g.Angle + 180)
	}
}

// Reflect mirrors the whole array about the line through centre at angle
// degrees.
func (g *Grid) Reflect(angle float64, centre Point) {
	g.Origin = g.Origin.Reflect(angle, centre)
	g.SpacingX = Point{g.SpacingX.X, -g.SpacingX.Y}
	g.SpacingY = Point{g.SpacingY.X, -g.SpacingY.Y}
	g.Angle = NormalizeAngle(2*angle - g.Angle)
	g.XReflection = !g.XReflection
}

// Transform applies the post-placement transform (mirror, rotate, scale,
// all about the coordinate origin) to a local point.
func (g Grid) Transform(p Point) Point {
	if g.XReflection {
		p = Point{p.X, -p.Y}
	}
	return p.Rotate(g.Angle, Point{}).Mul(g.Magnification)
}

// LatticeOffset returns the lattice-local offset of point (column, row).
func (g Grid) LatticeOffset(column, row int) Point {
	return g.SpacingX.Mul(float64(column)).Add(g.SpacingY.Mul(float64(row)))
}

// LatticePoint returns the absolute position of lattice point (column, row).
func (g Grid) LatticePoint(column, row int) Point {
	return g.Origin.Add(g.LatticeOffset(column, row)).Rotate(g.Angle, g.Origin)
}

// Corners returns the three defining points of the array in absolute
// coordinates: the origin, the far column corner and the far row corner.
func (g Grid) Corners() [3]Point {
	return [3]Point{
		g.Origin,
		g.Origin.Add(g.SpacingX.Mul(float64(g.Columns))).Rotate(g.Angle, g.Origin),
		g.Origin.Add(g.SpacingY.Mul(float64(g.Rows))).Rotate(g.Angle, g.Origin),
	}
}

// Equal reports whether g and o describe the same placement within tol.
// Angles are compared modulo 360.
func (g Grid) Equal(o Grid, tol Tolerance) bool {
	da := math.Abs(NormalizeAngle(g.Angle) - NormalizeAngle(o.Angle))
	if da > 180 {
		da = 360 - da
	}
	return g.Origin.Equal(o.Origin, tol) &&
		g.Columns == o.Columns &&
		g.Rows == o.Rows &&
		g.SpacingX.Equal(o.SpacingX, tol) &&
		g.SpacingY.Equal(o.SpacingY, tol) &&
		tol.Close(g.Magnification, o.Magnification) &&
		da < float64(tol) &&
		g.XReflection == o.XReflection
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid at %s with %d columns and %d rows, spacing (%s, %s), magnification %g, angle %g, x_reflection %t",
		g.Origin, g.Columns, g.Rows, g.SpacingX, g.SpacingY, g.Magnification, g.Angle, g.XReflection)
}
