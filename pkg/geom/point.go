package geom

import (
	"fmt"
	"math"
)

// Tolerance is the absolute per-coordinate distance under which two values
// compare equal.
type Tolerance float64

// DefaultTolerance is the tolerance used when no configuration overrides it.
const DefaultTolerance Tolerance = 1e-4

// RoundDecimals is the number of decimal digits kept when rounding composed
// translations during flattening.
const RoundDecimals = 10

// Close reports whether a and b differ by less than t.
func (t Tolerance) Close(a, b float64) bool {
	return math.Abs(a-b) < float64(t)
}

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point     { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point     { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(f float64) Point   { return Point{p.X * f, p.Y * f} }
func (p Point) Neg() Point            { return Point{-p.X, -p.Y} }
func (p Point) Cross(o Point) float64 { return p.X*o.Y - p.Y*o.X }
func (p Point) Dot(o Point) float64   { return p.X*o.X + p.Y*o.Y }

// Div divides both coordinates by f. Division by zero yields the zero vector.
func (p Point) Div(f float64) Point {
	if f == 0 {
		return Point{}
	}
	return Point{p.X / f, p.Y / f}
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// IsZero reports whether both coordinates are exactly zero.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Rotate rotates p by angle degrees counter-clockwise about centre.
func (p Point) Rotate(angle float64, centre Point) Point {
	sin, cos := SinCos(angle)
	dx, dy := p.X-centre.X, p.Y-centre.Y
	return Point{
		X: centre.X + dx*cos - dy*sin,
		Y: centre.Y + dx*sin + dy*cos,
	}
}

// Scale scales p by factor about centre.
func (p Point) Scale(factor float64, centre Point) Point {
	return Point{
		X: centre.X + (p.X-centre.X)*factor,
		Y: centre.Y + (p.Y-centre.Y)*factor,
	}
}

// Reflect mirrors p about the line through centre at angle degrees.
func (p Point) Reflect(angle float64, centre Point) Point {
	sin2, cos2 := SinCos(2 * angle)
	dx, dy := p.X-centre.X, p.Y-centre.Y
	return Point{
		X: centre.X + dx*cos2 + dy*sin2,
		Y: centre.Y + dx*sin2 - dy*cos2,
	}
}

// Round rounds both coordinates to the given number of decimal digits.
func (p Point) Round(digits int) Point {
	return Point{RoundTo(p.X, digits), RoundTo(p.Y, digits)}
}

// Equal reports whether p and o are within tol on both axes.
func (p Point) Equal(o Point, tol Tolerance) bool {
	return tol.Close(p.X, o.X) && tol.Close(p.Y, o.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// RoundTo rounds v to digits decimal places.
func RoundTo(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	r := math.Round(v*factor) / factor
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

// NormalizeAngle maps a to [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// SinCos returns the sine and cosine of angle degrees, exact for multiples
// of 90.
func SinCos(angle float64) (sin, cos float64) {
	a := NormalizeAngle(angle)
	switch a {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(a * math.Pi / 180)
}

// PointsEqual reports whether a and b have the same length and pairwise
// equal points.
func PointsEqual(a, b []Point, tol Tolerance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i], tol) {
			return false
		}
	}
	return true
}
