package gds

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// ReadOptions configures a [Decoder].
type ReadOptions struct {
	// Strict fails the read when a reference names a cell the stream does
	// not define. Otherwise the reference is kept and a warning is logged.
	Strict bool

	Logger *log.Logger

	// OnWarning, if set, receives every non-fatal problem found while
	// decoding.
	OnWarning func(msg string)
}

// Units describes the unit settings found in a stream.
type Units struct {
	UserUnit     float64 // meters per user unit
	DatabaseUnit float64 // meters per database unit
	Digits       int     // decimal digits resolved by one database unit
}

// Decoder reads a library from a stream.
type Decoder struct {
	rr    *RecordReader
	opts  ReadOptions
	units Units
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ReadOptions) *Decoder {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return &Decoder{
		rr:    NewRecordReader(r),
		opts:  opts,
		units: Units{UserUnit: DefaultUnits, DatabaseUnit: DefaultPrecision, Digits: unitDigits(DefaultPrecision / DefaultUnits)},
	}
}

// Units returns the unit settings of the decoded stream. It is only
// meaningful after Decode has read the UNITS record.
func (d *Decoder) Units() Units { return d.units }

// BytesRead returns the number of bytes consumed so far.
func (d *Decoder) BytesRead() int64 { return d.rr.Offset() }

func unitDigits(userPerDatabase float64) int {
	return int(math.Round(-math.Log10(userPerDatabase)))
}

// Decode reads records up to and including ENDLIB and returns the library
// they describe.
func (d *Decoder) Decode() (*layout.Library, error) {
	st := &streamReader{dec: d, lib: layout.NewLibrary(""), scale: 1 / (DefaultUnits / DefaultPrecision)}
	for first := true; ; first = false {
		rec, err := d.rr.Next()
		if errors.Is(err, io.EOF) {
			return nil, streamError(d.rr.Offset(), "", "stream ended before ENDLIB")
		}
		if err != nil {
			return nil, err
		}
		if first && rec.Type != RecHeader {
			return nil, rec.malformed("stream does not start with HEADER")
		}
		done, err := st.handle(rec)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := d.resolve(st.lib); err != nil {
		return nil, err
	}
	return st.lib, nil
}

// resolve checks every cell reference against the decoded library.
func (d *Decoder) resolve(lib *layout.Library) error {
	unresolved := lib.Unresolved()
	if len(unresolved) == 0 {
		return nil
	}
	if d.opts.Strict {
		return errs.New(errs.ErrCodeUnresolvedReference, "library %q references undefined cells: %v", lib.Name, unresolved)
	}
	for _, name := range unresolved {
		d.warn("reference to undefined cell kept unresolved", "cell", name)
	}
	return nil
}

func (d *Decoder) warn(msg string, keyvals ...any) {
	d.opts.Logger.Warn(msg, keyvals...)
	if d.opts.OnWarning != nil {
		d.opts.OnWarning(msg)
	}
}

// pending collects the records of the element being read.
type pending struct {
	kind         RecordType
	skip         bool
	layer        int
	datatype     int
	pathType     int
	width        float64
	xy           []geom.Point
	name         string
	text         string
	presentation int
	reflect      bool
	mag          float64
	angle        float64
	columns      int
	rows         int
}

// streamReader is the record state machine of one Decode call.
type streamReader struct {
	dec   *Decoder
	lib   *layout.Library
	scale float64 // user units per database unit
	cell  *layout.Cell
	el    *pending
}

func (s *streamReader) handle(rec Record) (bool, error) {
	if s.el != nil && s.el.skip && rec.Type != RecEndEl {
		return false, nil
	}
	switch rec.Type {
	case RecHeader, RecBgnLib:
	case RecLibName:
		name, err := rec.Text()
		if err != nil {
			return false, err
		}
		s.lib.Name = name
	case RecUnits:
		return false, s.units(rec)
	case RecEndLib:
		if s.cell != nil {
			return false, rec.malformed("ENDLIB inside structure %q", s.cell.Name)
		}
		return true, nil

	case RecBgnStr:
		if s.cell != nil {
			return false, rec.malformed("BGNSTR inside structure %q", s.cell.Name)
		}
		s.cell = layout.NewCell("")
	case RecStrName:
		if s.cell == nil {
			return false, rec.malformed("STRNAME outside a structure")
		}
		name, err := rec.Text()
		if err != nil {
			return false, err
		}
		s.cell.Name = name
	case RecEndStr:
		if s.cell == nil || s.el != nil {
			return false, rec.malformed("unexpected ENDSTR")
		}
		if err := s.lib.Add(false, s.cell); err != nil {
			return false, err
		}
		s.cell = nil

	case RecBoundary, RecPath, RecSRef, RecARef, RecText, RecBox, RecNode:
		if s.cell == nil {
			return false, rec.malformed("element outside a structure")
		}
		if s.el != nil {
			return false, rec.malformed("element started before ENDEL")
		}
		s.el = &pending{kind: rec.Type, mag: 1, columns: 1, rows: 1}
		if rec.Type == RecBox || rec.Type == RecNode {
			s.el.skip = true
			s.dec.opts.Logger.Debug("skipping element", "type", rec.Type, "offset", rec.Offset)
		}
	case RecEndEl:
		if s.el == nil {
			return false, rec.malformed("ENDEL without element")
		}
		err := s.commit(rec)
		s.el = nil
		return false, err

	case RecLayer, RecDatatype, RecTextType, RecWidth, RecPathType, RecXY,
		RecSName, RecColRow, RecSTrans, RecMag, RecAngle, RecPresentation, RecString:
		if s.el == nil {
			return false, rec.malformed("element record outside an element")
		}
		return false, s.field(rec)

	default:
		s.dec.opts.Logger.Debug("skipping record", "type", rec.Type, "offset", rec.Offset)
	}
	return false, nil
}

func (s *streamReader) units(rec Record) error {
	v, err := rec.Reals()
	if err != nil {
		return err
	}
	if len(v) != 2 || !(v[0] > 0) || !(v[1] > 0) {
		return rec.malformed("invalid units %v", v)
	}
	s.dec.units = Units{
		UserUnit:     v[1] / v[0],
		DatabaseUnit: v[1],
		Digits:       unitDigits(v[0]),
	}
	s.scale = v[0]
	return nil
}

func (s *streamReader) field(rec Record) error {
	el := s.el
	var err error
	switch rec.Type {
	case RecLayer:
		var v int16
		v, err = rec.int16At()
		el.layer = int(v)
	case RecDatatype, RecTextType:
		var v int16
		v, err = rec.int16At()
		el.datatype = int(v)
	case RecPathType:
		var v int16
		v, err = rec.int16At()
		el.pathType = int(v)
	case RecWidth:
		var v int32
		v, err = rec.int32At()
		// Negative widths mark absolute widths; the magnitude is what matters here.
		el.width = s.length(math.Abs(float64(v)))
	case RecXY:
		var v []int32
		v, err = rec.Int32s()
		if err == nil && len(v)%2 != 0 {
			err = rec.malformed("odd coordinate count %d", len(v))
		}
		for i := 0; err == nil && i < len(v); i += 2 {
			el.xy = append(el.xy, geom.Point{X: s.length(float64(v[i])), Y: s.length(float64(v[i+1]))})
		}
	case RecSName:
		el.name, err = rec.Text()
	case RecString:
		el.text, err = rec.Text()
	case RecColRow:
		var v []int16
		v, err = rec.Int16s()
		if err == nil && len(v) != 2 {
			err = rec.malformed("COLROW needs 2 values, got %d", len(v))
		}
		if err == nil {
			el.columns, el.rows = int(v[0]), int(v[1])
		}
	case RecSTrans:
		var v int16
		v, err = rec.int16At()
		el.reflect = uint16(v)&stransReflection != 0
		if uint16(v)&(stransAbsMag|stransAbsAngle) != 0 {
			s.dec.warn("absolute magnification or angle flags are treated as relative")
		}
	case RecMag:
		el.mag, err = rec.realAt()
	case RecAngle:
		el.angle, err = rec.realAt()
	case RecPresentation:
		var v int16
		v, err = rec.int16At()
		el.presentation = int(v)
	}
	return err
}

// length converts database units to rounded user units.
func (s *streamReader) length(v float64) float64 {
	return geom.RoundTo(v*s.scale, s.dec.units.Digits)
}

func (s *streamReader) commit(rec Record) error {
	el := s.el
	if el.skip {
		return nil
	}
	c := s.cell
	switch el.kind {
	case RecBoundary:
		if len(el.xy) == 0 {
			return rec.malformed("BOUNDARY without coordinates")
		}
		c.Polygons = append(c.Polygons, &layout.Polygon{Points: el.xy, Layer: el.layer, Datatype: el.datatype})

	case RecPath:
		if len(el.xy) == 0 {
			return rec.malformed("PATH without coordinates")
		}
		c.Paths = append(c.Paths, &layout.Path{
			Points:   el.xy,
			Layer:    el.layer,
			Datatype: el.datatype,
			Type:     layout.PathType(el.pathType),
			Width:    el.width,
		})

	case RecText:
		if len(el.xy) != 1 {
			return rec.malformed("TEXT needs 1 coordinate, got %d", len(el.xy))
		}
		v, h, err := layout.ParsePresentation(el.presentation)
		if err != nil {
			s.dec.warn("invalid text presentation, using defaults")
			v, h = layout.Middle, layout.Centre
		}
		c.Texts = append(c.Texts, &layout.Text{
			Text:          el.text,
			Origin:        el.xy[0],
			Layer:         el.layer,
			Magnification: el.mag,
			Angle:         el.angle,
			XReflection:   el.reflect,
			Vertical:      v,
			Horizontal:    h,
		})

	case RecSRef:
		if len(el.xy) != 1 {
			return rec.malformed("SREF needs 1 coordinate, got %d", len(el.xy))
		}
		g := geom.NewGrid()
		g.Origin = el.xy[0]
		s.reference(c, el, g)

	case RecARef:
		if len(el.xy) != 3 {
			return rec.malformed("AREF needs 3 coordinates, got %d", len(el.xy))
		}
		origin := el.xy[0]
		colEnd := el.xy[1].Rotate(-el.angle, origin).Sub(origin)
		rowEnd := el.xy[2].Rotate(-el.angle, origin).Sub(origin)
		digits := s.dec.units.Digits
		g := geom.Grid{
			Origin:   origin,
			Columns:  el.columns,
			Rows:     el.rows,
			SpacingX: colEnd.Div(float64(el.columns)).Round(digits),
			SpacingY: rowEnd.Div(float64(el.rows)).Round(digits),
		}
		s.reference(c, el, g)
	}
	return nil
}

func (s *streamReader) reference(c *layout.Cell, el *pending, g geom.Grid) {
	g.Magnification = el.mag
	g.Angle = el.angle
	g.XReflection = el.reflect
	c.References = append(c.References, &layout.Reference{Cell: el.name, Grid: g})
}
