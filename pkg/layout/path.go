package layout

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// PathType is the end-cap style of a [Path], stored as its stream value.
type PathType int

const (
	PathSquare  PathType = 0
	PathRound   PathType = 1
	PathOverlap PathType = 2
)

func (t PathType) String() string {
	switch t {
	case PathSquare:
		return "square"
	case PathRound:
		return "round"
	case PathOverlap:
		return "overlap"
	}
	return fmt.Sprintf("PathType(%d)", int(t))
}

// Valid reports whether t is one of the known end-cap styles.
func (t PathType) Valid() bool { return t >= PathSquare && t <= PathOverlap }

// Path is an open polyline with a width.
type Path struct {
	Points   []geom.Point `json:"points"`
	Layer    int          `json:"layer"`
	Datatype int          `json:"datatype"`
	Type     PathType     `json:"path_type"`
	Width    float64      `json:"width"`
}

// NewPath builds a validated path. The points slice is copied.
func NewPath(points []geom.Point, layer, datatype int, typ PathType, width float64) (*Path, error) {
	p := &Path{Points: copyPoints(points), Layer: layer, Datatype: datatype, Type: typ, Width: width}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Path) Kind() Kind { return KindPath }
func (p *Path) element()   {}

func (p *Path) Validate() error {
	if len(p.Points) < 2 {
		return errs.New(errs.ErrCodeInvalidGeometry, "path needs at least 2 points, got %d", len(p.Points))
	}
	if !p.Type.Valid() {
		return errs.New(errs.ErrCodeInvalidGeometry, "invalid path type %d", int(p.Type))
	}
	if p.Width < 0 || math.IsNaN(p.Width) || math.IsInf(p.Width, 0) {
		return errs.New(errs.ErrCodeInvalidGeometry, "invalid path width %g", p.Width)
	}
	return errs.ValidateLayer(p.Layer)
}

// MoveTo translates the path so its first point lands on pt.
func (p *Path) MoveTo(pt geom.Point) {
	if len(p.Points) == 0 {
		return
	}
	p.MoveBy(pt.Sub(p.Points[0]))
}

func (p *Path) MoveBy(v geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Add(v) })
}

func (p *Path) Rotate(angle float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Rotate(angle, centre) })
}

func (p *Path) Scale(factor float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Scale(factor, centre) })
	p.Width *= math.Abs(factor)
}

func (p *Path) Reflect(angle float64, centre geom.Point) {
	transformPoints(p.Points, func(pt geom.Point) geom.Point { return pt.Reflect(angle, centre) })
}

func (p *Path) IsOn(f Filter) bool { return f.Matches(p.Layer, p.Datatype) }

func (p *Path) Copy() Element {
	c := *p
	c.Points = copyPoints(p.Points)
	return &c
}

func (p *Path) Equal(o Element, tol geom.Tolerance) bool {
	q, ok := o.(*Path)
	if !ok {
		return false
	}
	return p.Layer == q.Layer &&
		p.Datatype == q.Datatype &&
		p.Type == q.Type &&
		tol.Close(p.Width, q.Width) &&
		geom.PointsEqual(p.Points, q.Points, tol)
}

// Length returns the centre-line length.
func (p *Path) Length() float64 { return polylineLength(p.Points) }

func (p *Path) String() string {
	return fmt.Sprintf("Path with %d points on layer %d, datatype %d, %s ends, width %g",
		len(p.Points), p.Layer, p.Datatype, p.Type, p.Width)
}
