package gds

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// Default unit settings.
const (
	// DefaultUnits is the size of one user unit in meters (one micron).
	DefaultUnits = 1e-6

	// DefaultPrecision is the size of one database unit in meters.
	DefaultPrecision = 1e-10

	// CellLibraryName is the library name written by [Encoder.EncodeCell].
	CellLibraryName = "library"
)

// Options configures an [Encoder].
type Options struct {
	Units     float64   // user unit in meters; zero means DefaultUnits
	Precision float64   // database unit in meters; zero means DefaultPrecision
	Timestamp time.Time // modification and access time; zero means now
	Logger    *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Units == 0 {
		o.Units = DefaultUnits
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return o
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Encoder writes libraries as a stream.
type Encoder struct {
	w    io.Writer
	opts Options
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts Options) *Encoder {
	return &Encoder{w: w, opts: opts.withDefaults()}
}

// Stats summarizes one encode call.
type Stats struct {
	Cells    int
	Elements int
	Bytes    int64
}

// Encode writes lib. Every cell of the library is written exactly once, in
// insertion order, with referenced cells written directly after the first
// cell that needs them.
func (e *Encoder) Encode(lib *layout.Library) (Stats, error) {
	if lib == nil {
		return Stats{}, errs.New(errs.ErrCodeInvalidInput, "library is nil")
	}
	return e.encode(lib.Name, lib, lib.Cells())
}

// EncodeCell writes cell and every cell it transitively references, resolved
// through res, as a library named CellLibraryName.
func (e *Encoder) EncodeCell(cell *layout.Cell, res layout.Resolver) (Stats, error) {
	if cell == nil {
		return Stats{}, errs.New(errs.ErrCodeInvalidInput, "cell is nil")
	}
	return e.encode(CellLibraryName, res, []*layout.Cell{cell})
}

func (e *Encoder) encode(name string, res layout.Resolver, roots []*layout.Cell) (Stats, error) {
	if err := errs.ValidateUnits(e.opts.Units, e.opts.Precision); err != nil {
		return Stats{}, err
	}
	if err := errs.ValidateName(name); err != nil {
		return Stats{}, err
	}

	g := hierarchy.Build(res, roots...)
	if missing := g.Missing(); len(missing) > 0 {
		return Stats{}, errs.New(errs.ErrCodeUnresolvedReference, "referenced cells not found: %v", missing)
	}
	if err := g.CheckAcyclic(); err != nil {
		return Stats{}, err
	}

	s := &streamWriter{
		rw:      newRecordWriter(e.w),
		res:     g,
		scale:   e.opts.Units / e.opts.Precision,
		written: make(map[string]bool, g.NodeCount()),
		stamp:   timestamp(e.opts.Timestamp),
		logger:  e.opts.Logger,
	}
	s.header(name, e.opts)
	for _, c := range roots {
		s.structure(c)
	}
	s.rw.empty(RecEndLib)
	if err := s.err(); err != nil {
		return Stats{}, err
	}
	if err := s.rw.flush(); err != nil {
		return Stats{}, err
	}

	stats := Stats{Cells: len(s.written), Elements: s.elements, Bytes: s.rw.written}
	e.opts.Logger.Debug("encoded library", "name", name, "cells", stats.Cells, "elements", stats.Elements, "bytes", stats.Bytes)
	return stats, nil
}

// streamWriter holds the state of one encode call.
type streamWriter struct {
	rw       *recordWriter
	res      layout.Resolver
	scale    float64
	written  map[string]bool
	stamp    []int16
	elements int
	geomErr  error
	logger   *log.Logger
}

func (s *streamWriter) err() error {
	if s.geomErr != nil {
		return s.geomErr
	}
	return s.rw.err
}

func (s *streamWriter) failed() bool { return s.err() != nil }

func (s *streamWriter) invalid(format string, args ...any) {
	if s.geomErr == nil {
		s.geomErr = errs.New(errs.ErrCodeInvalidGeometry, format, args...)
	}
}

func (s *streamWriter) header(name string, opts Options) {
	s.rw.int16s(RecHeader, StreamVersion)
	s.rw.int16s(RecBgnLib, append(s.stamp, s.stamp...)...)
	s.rw.text(RecLibName, name)
	s.rw.reals(RecUnits, opts.Precision/opts.Units, opts.Precision)
}

func timestamp(t time.Time) []int16 {
	return []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
}

// structure writes c if it has not been written yet, then every cell it
// references that is still pending.
func (s *streamWriter) structure(c *layout.Cell) {
	if s.written[c.Name] || s.failed() {
		return
	}
	s.written[c.Name] = true
	s.logger.Debug("writing cell", "name", c.Name, "elements", c.Len())

	s.rw.int16s(RecBgnStr, append(s.stamp, s.stamp...)...)
	s.rw.text(RecStrName, c.Name)
	for _, p := range c.Paths {
		s.path(p)
	}
	for _, p := range c.Polygons {
		s.polygon(p)
	}
	for _, t := range c.Texts {
		s.text(t)
	}
	for _, r := range c.References {
		s.reference(r)
	}
	s.rw.empty(RecEndStr)

	for _, r := range c.References {
		if !r.IsCell() || s.written[r.Cell] {
			continue
		}
		child, ok := s.res.Cell(r.Cell)
		if !ok {
			// Checked before writing started.
			continue
		}
		s.structure(child)
	}
}

func (s *streamWriter) element(el layout.Element) {
	switch el := el.(type) {
	case *layout.Polygon:
		s.polygon(el)
	case *layout.Path:
		s.path(el)
	case *layout.Text:
		s.text(el)
	case *layout.Reference:
		s.reference(el)
	}
}

func (s *streamWriter) layer(layer, datatype int, datatypeRecord RecordType) {
	if !fitsInt16(layer) || !fitsInt16(datatype) {
		s.invalid("layer %d or datatype %d does not fit the stream", layer, datatype)
		return
	}
	s.rw.int16s(RecLayer, int16(layer))
	s.rw.int16s(datatypeRecord, int16(datatype))
}

func (s *streamWriter) polygon(p *layout.Polygon) {
	s.elements++
	s.rw.empty(RecBoundary)
	s.layer(p.Layer, p.Datatype, RecDatatype)
	s.points(p.Points)
	s.rw.empty(RecEndEl)
}

func (s *streamWriter) path(p *layout.Path) {
	s.elements++
	s.rw.empty(RecPath)
	s.layer(p.Layer, p.Datatype, RecDatatype)
	s.rw.int16s(RecPathType, int16(p.Type))
	s.rw.int32s(RecWidth, s.coord(p.Width))
	s.points(p.Points)
	s.rw.empty(RecEndEl)
}

func (s *streamWriter) text(t *layout.Text) {
	s.elements++
	s.rw.empty(RecText)
	s.layer(t.Layer, 0, RecTextType)
	s.rw.bits(RecPresentation, uint16(layout.Presentation(t.Vertical, t.Horizontal)))
	s.transform(t.Angle, t.Magnification, t.XReflection)
	s.points([]geom.Point{t.Origin})
	s.rw.text(RecString, t.Text)
	s.rw.empty(RecEndEl)
}

func (s *streamWriter) reference(r *layout.Reference) {
	if !r.IsCell() {
		for _, el := range layout.ExpandGrid([]layout.Element{r.Element}, r.Grid) {
			s.element(el)
		}
		return
	}
	g := r.Grid
	if !fitsInt16(g.Columns) || !fitsInt16(g.Rows) {
		s.invalid("reference to %q: %d columns and %d rows exceed the stream limit", r.Cell, g.Columns, g.Rows)
		return
	}
	s.elements++
	s.rw.empty(RecARef)
	s.rw.text(RecSName, r.Cell)
	s.transform(g.Angle, g.Magnification, g.XReflection)
	s.rw.int16s(RecColRow, int16(g.Columns), int16(g.Rows))
	corners := g.Corners()
	s.points(corners[:])
	s.rw.empty(RecEndEl)
}

// transform writes STRANS, MAG and ANGLE, each only when it carries a
// non-default value.
func (s *streamWriter) transform(angle, mag float64, reflect bool) {
	if angle == 0 && mag == 1 && !reflect {
		return
	}
	var flags uint16
	if reflect {
		flags |= stransReflection
	}
	s.rw.bits(RecSTrans, flags)
	if mag != 1 {
		s.rw.reals(RecMag, mag)
	}
	if angle != 0 {
		s.rw.reals(RecAngle, angle)
	}
}

func (s *streamWriter) coord(v float64) int32 {
	d := math.Round(v * s.scale)
	if d < math.MinInt32 || d > math.MaxInt32 || math.IsNaN(d) {
		s.invalid("coordinate %g is outside the database range", v)
		return 0
	}
	return int32(d)
}

// points writes XY records of at most MaxPointsPerRecord points each.
func (s *streamWriter) points(points []geom.Point) {
	for start := 0; start < len(points); start += MaxPointsPerRecord {
		end := min(start+MaxPointsPerRecord, len(points))
		xy := make([]int32, 0, 2*(end-start))
		for _, p := range points[start:end] {
			xy = append(xy, s.coord(p.X), s.coord(p.Y))
		}
		if s.geomErr != nil {
			return
		}
		s.rw.int32s(RecXY, xy...)
	}
}
