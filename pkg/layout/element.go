package layout

import (
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Kind identifies the concrete type behind an [Element].
type Kind int

const (
	KindPolygon Kind = iota
	KindPath
	KindText
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

// Element is one of the shapes a [Cell] may directly contain: *Polygon,
// *Path, *Text or *Reference. The set is closed; code that needs
// per-kind behaviour switches on the concrete type.
//
// Transform methods mutate the receiver. Use Copy first to keep the
// original.
type Element interface {
	Kind() Kind

	MoveTo(p geom.Point)
	MoveBy(v geom.Point)
	Rotate(angle float64, centre geom.Point)
	Scale(factor float64, centre geom.Point)
	Reflect(angle float64, centre geom.Point)

	// IsOn reports whether the element passes f. References never match a
	// filter directly; their expansion does.
	IsOn(f Filter) bool

	Validate() error
	Copy() Element
	Equal(o Element, tol geom.Tolerance) bool
	String() string

	element()
}

// BoundingBox returns the axis-aligned bounds of el. Cell references are
// resolved through res and fully expanded; unresolvable or cyclic parts
// contribute nothing. The boolean is false when el has no extent.
func BoundingBox(el Element, res Resolver) (geom.Rect, bool) {
	switch e := el.(type) {
	case *Polygon:
		return geom.BoundingBox(e.Points)
	case *Path:
		return geom.BoundingBox(e.Points)
	case *Text:
		return geom.BoundingBox([]geom.Point{e.Origin})
	case *Reference:
		flat, err := FlattenReference(e, res, FlattenOptions{MaxDepth: Unlimited})
		if err != nil {
			return geom.Rect{}, false
		}
		return boundsOf(flat, res)
	}
	return geom.Rect{}, false
}

func boundsOf(elements []Element, res Resolver) (geom.Rect, bool) {
	var (
		box geom.Rect
		ok  bool
	)
	for _, el := range elements {
		r, has := BoundingBox(el, res)
		if !has {
			continue
		}
		if !ok {
			box, ok = r, true
			continue
		}
		box = box.Union(r)
	}
	return box, ok
}

func copyPoints(points []geom.Point) []geom.Point {
	if points == nil {
		return nil
	}
	out := make([]geom.Point, len(points))
	copy(out, points)
	return out
}

func transformPoints(points []geom.Point, fn func(geom.Point) geom.Point) {
	for i, p := range points {
		points[i] = fn(p)
	}
}
