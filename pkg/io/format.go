package io

import (
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

type library struct {
	Name  string `json:"name"`
	Cells []cell `json:"cells"`
}

type cell struct {
	Name       string      `json:"name"`
	Polygons   []polygon   `json:"polygons,omitempty"`
	Paths      []path      `json:"paths,omitempty"`
	Texts      []text      `json:"texts,omitempty"`
	References []reference `json:"references,omitempty"`
}

type point [2]float64

type polygon struct {
	Points   []point `json:"points"`
	Layer    int     `json:"layer"`
	Datatype int     `json:"datatype"`
}

type path struct {
	Points   []point `json:"points"`
	Layer    int     `json:"layer"`
	Datatype int     `json:"datatype"`
	Type     string  `json:"type"`
	Width    float64 `json:"width"`
}

type text struct {
	Text          string  `json:"text"`
	Origin        point   `json:"origin"`
	Layer         int     `json:"layer"`
	Magnification float64 `json:"magnification"`
	Angle         float64 `json:"angle,omitempty"`
	XReflection   bool    `json:"x_reflection,omitempty"`
	Vertical      string  `json:"vertical"`
	Horizontal    string  `json:"horizontal"`
}

type reference struct {
	Cell    string    `json:"cell,omitempty"`
	Element *instance `json:"element,omitempty"`
	Grid    grid      `json:"grid"`
}

// instance holds exactly one element.
type instance struct {
	Polygon *polygon `json:"polygon,omitempty"`
	Path    *path    `json:"path,omitempty"`
	Text    *text    `json:"text,omitempty"`
}

type grid struct {
	Origin        point   `json:"origin"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	SpacingX      point   `json:"spacing_x"`
	SpacingY      point   `json:"spacing_y"`
	Magnification float64 `json:"magnification"`
	Angle         float64 `json:"angle,omitempty"`
	XReflection   bool    `json:"x_reflection,omitempty"`
}

var (
	pathTypeFromString = map[string]layout.PathType{
		layout.PathSquare.String():  layout.PathSquare,
		layout.PathRound.String():   layout.PathRound,
		layout.PathOverlap.String(): layout.PathOverlap,
	}
	verticalFromString = map[string]layout.VerticalPresentation{
		layout.Top.String():    layout.Top,
		layout.Middle.String(): layout.Middle,
		layout.Bottom.String(): layout.Bottom,
	}
	horizontalFromString = map[string]layout.HorizontalPresentation{
		layout.Left.String():   layout.Left,
		layout.Centre.String(): layout.Centre,
		layout.Right.String():  layout.Right,
	}
)

func toPoint(p geom.Point) point { return point{p.X, p.Y} }
func (p point) geom() geom.Point { return geom.Point{X: p[0], Y: p[1]} }

func toPoints(points []geom.Point) []point {
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = toPoint(p)
	}
	return out
}

func fromPoints(points []point) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = p.geom()
	}
	return out
}
