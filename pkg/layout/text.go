package layout

import (
	"fmt"
	"math"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// VerticalPresentation anchors a text vertically.
type VerticalPresentation int

const (
	Top    VerticalPresentation = 0
	Middle VerticalPresentation = 1
	Bottom VerticalPresentation = 2
)

func (v VerticalPresentation) String() string {
	switch v {
	case Top:
		return "top"
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("VerticalPresentation(%d)", int(v))
}

// HorizontalPresentation anchors a text horizontally.
type HorizontalPresentation int

const (
	Left   HorizontalPresentation = 0
	Centre HorizontalPresentation = 1
	Right  HorizontalPresentation = 2
)

func (h HorizontalPresentation) String() string {
	switch h {
	case Left:
		return "left"
	case Centre:
		return "centre"
	case Right:
		return "right"
	}
	return fmt.Sprintf("HorizontalPresentation(%d)", int(h))
}

// Presentation packs the anchors into the stream's presentation value.
func Presentation(v VerticalPresentation, h HorizontalPresentation) int {
	return int(v)*4 + int(h)
}

// ParsePresentation splits a packed presentation value. Font bits above
// the low nibble are ignored.
func ParsePresentation(value int) (VerticalPresentation, HorizontalPresentation, error) {
	value &= 0x0F
	v, h := VerticalPresentation(value/4), HorizontalPresentation(value%4)
	if v > Bottom || h > Right {
		return 0, 0, errs.New(errs.ErrCodeInvalidInput, "invalid text presentation %#x", value)
	}
	return v, h, nil
}

// Text is a label placed at an origin. Texts carry no datatype.
type Text struct {
	Text          string                 `json:"text"`
	Origin        geom.Point             `json:"origin"`
	Layer         int                    `json:"layer"`
	Magnification float64                `json:"magnification"`
	Angle         float64                `json:"angle"`
	XReflection   bool                   `json:"x_reflection"`
	Vertical      VerticalPresentation   `json:"vertical_presentation"`
	Horizontal    HorizontalPresentation `json:"horizontal_presentation"`
}

// NewText returns a centred, untransformed text.
func NewText(text string, origin geom.Point, layer int) (*Text, error) {
	t := &Text{
		Text:          text,
		Origin:        origin,
		Layer:         layer,
		Magnification: 1,
		Vertical:      Middle,
		Horizontal:    Centre,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Text) Kind() Kind { return KindText }
func (t *Text) element()   {}

func (t *Text) Validate() error {
	if t.Magnification <= 0 || math.IsNaN(t.Magnification) || math.IsInf(t.Magnification, 0) {
		return errs.New(errs.ErrCodeInvalidGeometry, "text magnification must be positive, got %g", t.Magnification)
	}
	if t.Vertical < Top || t.Vertical > Bottom || t.Horizontal < Left || t.Horizontal > Right {
		return errs.New(errs.ErrCodeInvalidGeometry, "invalid text presentation %s/%s", t.Vertical, t.Horizontal)
	}
	return errs.ValidateLayer(t.Layer)
}

func (t *Text) MoveTo(p geom.Point) { t.Origin = p }
func (t *Text) MoveBy(v geom.Point) { t.Origin = t.Origin.Add(v) }

func (t *Text) Rotate(angle float64, centre geom.Point) {
	t.Origin = t.Origin.Rotate(angle, centre)
	t.Angle = geom.NormalizeAngle(t.Angle + angle)
}

func (t *Text) Scale(factor float64, centre geom.Point) {
	t.Origin = t.Origin.Scale(factor, centre)
	t.Magnification *= math.Abs(factor)
	if factor < 0 {
		t.Angle = geom.NormalizeAngle(t.Angle + 180)
	}
}

func (t *Text) Reflect(angle float64, centre geom.Point) {
	t.Origin = t.Origin.Reflect(angle, centre)
	t.Angle = geom.NormalizeAngle(2*angle - t.Angle)
	t.XReflection = !t.XReflection
}

func (t *Text) IsOn(f Filter) bool { return f.MatchesLayer(t.Layer) }

func (t *Text) Copy() Element {
	c := *t
	return &c
}

func (t *Text) Equal(o Element, tol geom.Tolerance) bool {
	u, ok := o.(*Text)
	if !ok {
		return false
	}
	return t.Text == u.Text &&
		t.Layer == u.Layer &&
		t.Origin.Equal(u.Origin, tol) &&
		tol.Close(t.Magnification, u.Magnification) &&
		tol.Close(geom.NormalizeAngle(t.Angle), geom.NormalizeAngle(u.Angle)) &&
		t.XReflection == u.XReflection &&
		t.Vertical == u.Vertical &&
		t.Horizontal == u.Horizontal
}

func (t *Text) String() string {
	return fmt.Sprintf("Text %q at %s on layer %d", t.Text, t.Origin, t.Layer)
}
