// Package geom provides the 2-D affine primitives used by the layout database.
//
// # Points
//
// [Point] is an immutable value type. Every operation returns a new point:
//
//	p := geom.Point{X: 1, Y: 0}
//	q := p.Rotate(90, geom.Point{}) // (0, 1)
//
// Angles are in degrees, counter-clockwise. Rotations by multiples of 90°
// are computed exactly so that orthogonal layouts survive repeated
// transforms without floating noise.
//
// # Tolerance
//
// Geometry reaches the database both from direct construction and from a
// binary round trip, so equality is tolerance-based. There is no global
// epsilon: comparisons take an explicit [Tolerance], and callers that do not
// care pass [DefaultTolerance].
//
// # Grids
//
// [Grid] describes an array placement: an origin, a column/row count, two
// lattice spacing vectors and a post-placement transform (rotation,
// magnification, x-reflection). Spacing vectors are lattice-local: they are
// measured before the grid's own rotation is applied. The absolute position
// of lattice point (c, r) is
//
//	Origin + R(Angle) * (SpacingX*c + SpacingY*r)
//
// and an instance placed there is transformed mirror → rotate → scale before
// being translated.
package geom
