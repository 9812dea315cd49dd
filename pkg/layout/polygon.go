package layout

import (
	"fmt"
	"math"
	"slices"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Polygon is a closed ring of points on a layer and datatype.
//
// Points are stored closed: the first point repeats as the last.
type Polygon struct {
	Points   []geom.Point `json:"points"`
	Layer    int          `json:"layer"`
	Datatype int          `json:"datatype"`
}

// NewPolygon builds a validated polygon, closing the ring if needed.
// The points slice is copied.
func NewPolygon(points []geom.Point, layer, datatype int) (*Polygon, error) {
	p := &Polygon{Points: closeRing(points), Layer: layer, Datatype: datatype}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func closeRing(points []geom.Point) []geom.Point {
	out := copyPoints(points)
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

func (p *Polygon) Kind() Kind { return KindPolygon }
func (p *Polygon) element()   {}

// Validate checks the layer range and that the ring has at least three
// distinct points.
func (p *Polygon) Validate() error {
	if len(p.Points) == 0 {
		return errs.New(errs.ErrCodeInvalidGeometry, "polygon has no points")
	}
	if n := distinctPoints(p.Points); n < 3 {
		return errs.New(errs.ErrCodeInvalidGeometry, "polygon needs at least 3 distinct points, got %d", n)
	}
	return errs.ValidateLayer(p.Layer)
}

func distinctPoints(points []geom.Point) int {
	seen := make(map[geom.Point]struct{}, len(points))
	for _, pt := range points {
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// MoveTo translates the polygon so its first point lands on pt.
func (p *Polygon) MoveTo(pt geom.Point) {
	if len(p.Points) == 0 {
		return
	}
	p.MoveBy(pt.Sub(p.Points[0]))
}

func (p *Polygon) MoveBy(v geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Add(v) })
}

func (p *Polygon) Rotate(angle float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Rotate(angle, centre) })
}

func (p *Polygon) Scale(factor float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Scale(factor, centre) })
}

func (p *Polygon) Reflect(angle float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Reflect(angle, centre) })
}

func (p *Polygon) IsOn(f Filter) bool { return f.Matches(p.Layer, p.Datatype) }

func (p *Polygon) Copy() Element {
	c := *p
	c.Points = copyPoints(p.Points)
	return &c
}

func (p *Polygon) Equal(o Element, tol geom.Tolerance) bool {
	q, ok := o.(*Polygon)
	if !ok {
		return false
	}
	return p.Layer == q.Layer && p.Datatype == q.Datatype && geom.PointsEqual(p.Points, q.Points, tol)
}

// Area returns the unsigned shoelace area of the ring.
func (p *Polygon) Area() float64 {
	var sum float64
	n := len(p.Points)
	for i := range n {
		sum += p.Points[i].Cross(p.Points[(i+1)%n])
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed ring.
func (p *Polygon) Perimeter() float64 {
	return polylineLength(p.Points)
}

// Contains reports whether pt lies inside the polygon or on its boundary.
func (p *Polygon) Contains(pt geom.Point) bool {
	if p.OnEdge(pt) {
		return true
	}
	inside := false
	n := len(p.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) && pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// OnEdge reports whether pt lies on one of the polygon's edges.
func (p *Polygon) OnEdge(pt geom.Point) bool {
	n := len(p.Points)
	for i := range n {
		if onSegment(pt, p.Points[i], p.Points[(i+1)%n]) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether every point lies inside the polygon or on its
// boundary. It is true for no points.
func (p *Polygon) ContainsAll(pts ...geom.Point) bool {
	return !slices.ContainsFunc(pts, func(pt geom.Point) bool { return !p.Contains(pt) })
}

// ContainsAny reports whether at least one point lies inside the polygon or
// on its boundary.
func (p *Polygon) ContainsAny(pts ...geom.Point) bool {
	return slices.ContainsFunc(pts, p.Contains)
}

// OnEdgeAll reports whether every point lies on an edge. It is true for no
// points.
func (p *Polygon) OnEdgeAll(pts ...geom.Point) bool {
	return !slices.ContainsFunc(pts, func(pt geom.Point) bool { return !p.OnEdge(pt) })
}

// OnEdgeAny reports whether at least one point lies on an edge.
func (p *Polygon) OnEdgeAny(pts ...geom.Point) bool {
	return slices.ContainsFunc(pts, p.OnEdge)
}

// Intersects reports whether the two polygons share at least one point,
// boundaries included. Layers are not compared.
func (p *Polygon) Intersects(o *Polygon) bool {
	if p.ContainsAny(o.Points...) || o.ContainsAny(p.Points...) {
		return true
	}
	n, m := len(p.Points), len(o.Points)
	for i := range n {
		a, b := p.Points[i], p.Points[(i+1)%n]
		for j := range m {
			if segmentsCross(a, b, o.Points[j], o.Points[(j+1)%m]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports whether ab and cd cross at a point interior to
// both. Touching cases are covered by the vertex checks in Intersects.
func segmentsCross(a, b, c, d geom.Point) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func onSegment(pt, a, b geom.Point) bool {
	if pt.X < math.Min(a.X, b.X) || pt.X > math.Max(a.X, b.X) ||
		pt.Y < math.Min(a.Y, b.Y) || pt.Y > math.Max(a.Y, b.Y) {
		return false
	}
	return math.Abs(pt.Sub(a).Cross(b.Sub(a))) <= 1e-12
}

func polylineLength(points []geom.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

func (p *Polygon) String() string {
	return fmt.Sprintf("Polygon with %d points on layer %d, datatype %d", len(p.Points), p.Layer, p.Datatype)
}
