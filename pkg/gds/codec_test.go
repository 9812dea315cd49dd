package gds

import (
	"bytes"
	"math"
	"testing"
	"time"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

var testTime = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func mustAdd(t *testing.T, c *layout.Cell, elements ...layout.Element) {
	t.Helper()
	if err := c.Add(elements...); err != nil {
		t.Fatalf("Cell.Add() error = %v", err)
	}
}

func mustLib(t *testing.T, name string, cells ...*layout.Cell) *layout.Library {
	t.Helper()
	lib := layout.NewLibrary(name)
	if err := lib.Add(false, cells...); err != nil {
		t.Fatalf("Library.Add() error = %v", err)
	}
	return lib
}

func polygon(t *testing.T, layer int, points ...geom.Point) *layout.Polygon {
	t.Helper()
	p, err := layout.NewPolygon(points, layer, 0)
	if err != nil {
		t.Fatalf("NewPolygon() error = %v", err)
	}
	return p
}

func unitSquare(t *testing.T, layer int) *layout.Polygon {
	return polygon(t, layer, geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1), geom.Pt(0, 1))
}

func cellRef(t *testing.T, name string, g geom.Grid) *layout.Reference {
	t.Helper()
	r, err := layout.NewCellReference(name, g)
	if err != nil {
		t.Fatalf("NewCellReference() error = %v", err)
	}
	return r
}

// nestedLibrary returns top -> mid -> leaf with transformed arrays at both
// levels plus a direct top -> leaf placement.
func nestedLibrary(t *testing.T) *layout.Library {
	t.Helper()

	leaf := layout.NewCell("leaf")
	path, err := layout.NewPath([]geom.Point{{0, 0}, {5, 0}, {5, 5}}, 2, 1, layout.PathRound, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	label, err := layout.NewText("pin", geom.Pt(0.5, 0.5), 3)
	if err != nil {
		t.Fatal(err)
	}
	label.Angle = 90
	label.Magnification = 2
	label.XReflection = true
	label.Vertical = layout.Top
	label.Horizontal = layout.Right
	mustAdd(t, leaf, unitSquare(t, 1), path, label)

	mid := layout.NewCell("mid")
	midGrid := geom.NewArray(geom.Pt(10, 5), 3, 2, geom.Pt(2, 0), geom.Pt(0, 3))
	midGrid.Magnification = 2
	midGrid.Angle = 90
	midGrid.XReflection = true
	mustAdd(t, mid, polygon(t, 4, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 3)), cellRef(t, "leaf", midGrid))

	top := layout.NewCell("top")
	topGrid := geom.NewArray(geom.Pt(-20, 7.5), 2, 4, geom.Pt(50, 0), geom.Pt(0, 25))
	topGrid.Magnification = 0.5
	topGrid.Angle = 30
	single := geom.NewGrid()
	single.Origin = geom.Pt(100, 100)
	mustAdd(t, top, cellRef(t, "mid", topGrid), cellRef(t, "leaf", single))

	return mustLib(t, "chip", leaf, mid, top)
}

func encode(t *testing.T, lib *layout.Library) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := NewEncoder(&buf, Options{Timestamp: testTime}).Encode(lib); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, data []byte, opts ReadOptions) *layout.Library {
	t.Helper()
	lib, err := NewDecoder(bytes.NewReader(data), opts).Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return lib
}

// records splits a stream and returns the record types in order.
func records(t *testing.T, data []byte) []RecordType {
	t.Helper()
	rr := NewRecordReader(bytes.NewReader(data))
	var out []RecordType
	for {
		rec, err := rr.Next()
		if err != nil {
			break
		}
		out = append(out, rec.Type)
	}
	if rr.Offset() != int64(len(data)) {
		t.Fatalf("records consumed %d of %d bytes", rr.Offset(), len(data))
	}
	return out
}

func count(types []RecordType, want RecordType) int {
	n := 0
	for _, rt := range types {
		if rt == want {
			n++
		}
	}
	return n
}

func TestRoundTripNestedLibrary(t *testing.T) {
	lib := nestedLibrary(t)
	got := decode(t, encode(t, lib), ReadOptions{Strict: true})

	if !lib.Equal(got, geom.DefaultTolerance) {
		for _, name := range lib.Names() {
			want, _ := lib.Cell(name)
			c, _ := got.Cell(name)
			t.Logf("want %v\n got %v", want, c)
		}
		t.Fatal("decoded library differs from the original")
	}

	top, _ := got.Cell("top")
	g := top.References[0].Grid
	if g.SpacingX != geom.Pt(50, 0) || g.SpacingY != geom.Pt(0, 25) {
		t.Errorf("spacing = %v, %v; want (50, 0), (0, 25)", g.SpacingX, g.SpacingY)
	}

	// Flattened geometry must agree as well.
	orig, _ := lib.Cell("top")
	a, err := orig.GetElements(lib, layout.FlattenOptions{MaxDepth: layout.Unlimited})
	if err != nil {
		t.Fatal(err)
	}
	b, err := top.GetElements(got, layout.FlattenOptions{MaxDepth: layout.Unlimited})
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("flattened %d elements, want %d", len(b), len(a))
	}
	for i := range a {
		if !a[i].Equal(b[i], geom.DefaultTolerance) {
			t.Errorf("flattened element %d = %v, want %v", i, b[i], a[i])
		}
	}
}

func TestEncodeHeader(t *testing.T) {
	data := encode(t, mustLib(t, "lib"))
	types := records(t, data)
	want := []RecordType{RecHeader, RecBgnLib, RecLibName, RecUnits, RecEndLib}
	if len(types) != len(want) {
		t.Fatalf("records = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("record %d = %v, want %v", i, types[i], want[i])
		}
	}

	rr := NewRecordReader(bytes.NewReader(data))
	_, _ = rr.Next()
	bgn, _ := rr.Next()
	stamp, _ := bgn.Int16s()
	if len(stamp) != 12 || stamp[0] != 2024 || stamp[1] != 3 || stamp[4] != 30 || stamp[6] != 2024 {
		t.Errorf("BGNLIB = %v", stamp)
	}
	_, _ = rr.Next()
	units, _ := rr.Next()
	v, _ := units.Reals()
	precision, userUnit := DefaultPrecision, DefaultUnits
	if len(v) != 2 || v[0] != precision/userUnit || v[1] != precision {
		t.Errorf("UNITS = %v", v)
	}
}

func TestEncodeWritesEachCellOnce(t *testing.T) {
	leaf := layout.NewCell("leaf")
	mustAdd(t, leaf, unitSquare(t, 1))

	var parents []*layout.Cell
	for _, name := range []string{"p1", "p2", "p3"} {
		p := layout.NewCell(name)
		for i := range 4 {
			g := geom.NewGrid()
			g.Origin = geom.Pt(float64(10*i), 0)
			mustAdd(t, p, cellRef(t, "leaf", g))
		}
		parents = append(parents, p)
	}
	top := layout.NewCell("top")
	for _, p := range parents {
		mustAdd(t, top, cellRef(t, p.Name, geom.NewGrid()))
	}
	mustAdd(t, top, cellRef(t, "leaf", geom.NewGrid()))

	// Parents first so every cell is reachable before it is listed.
	lib := mustLib(t, "lib", top, parents[0], parents[1], parents[2], leaf)
	types := records(t, encode(t, lib))

	if n := count(types, RecBgnStr); n != 5 {
		t.Errorf("BGNSTR count = %d, want 5", n)
	}
	if n := count(types, RecARef); n != 3*4+3+1 {
		t.Errorf("AREF count = %d, want %d", n, 3*4+3+1)
	}
	got := decode(t, encode(t, lib), ReadOptions{Strict: true})
	if got.Len() != 5 {
		t.Errorf("decoded %d cells, want 5", got.Len())
	}
}

func TestEncodeCellOrder(t *testing.T) {
	lib := nestedLibrary(t)
	data := encode(t, lib)

	rr := NewRecordReader(bytes.NewReader(data))
	var names []string
	for {
		rec, err := rr.Next()
		if err != nil {
			break
		}
		if rec.Type == RecStrName {
			s, _ := rec.Text()
			names = append(names, s)
		}
	}
	want := []string{"leaf", "mid", "top"}
	if len(names) != len(want) {
		t.Fatalf("structures = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("structure %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEncodeChunksLongPointLists(t *testing.T) {
	points := make([]geom.Point, 20000)
	for i := range points {
		points[i] = geom.Pt(float64(i)*0.01, float64(i%7))
	}
	big := layout.NewCell("big")
	mustAdd(t, big, polygon(t, 1, points...))
	lib := mustLib(t, "lib", big)

	data := encode(t, lib)
	types := records(t, data)
	if n := count(types, RecXY); n != 3 {
		t.Errorf("XY records = %d, want 3", n)
	}
	for i, rt := range types {
		if rt == RecXY && types[i-1] != RecXY && types[i-1] != RecDatatype {
			t.Errorf("XY record preceded by %v", types[i-1])
		}
	}

	got := decode(t, data, ReadOptions{})
	c, _ := got.Cell("big")
	if len(c.Polygons) != 1 {
		t.Fatalf("decoded %d polygons", len(c.Polygons))
	}
	want := big.Polygons[0].Points
	if len(c.Polygons[0].Points) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(c.Polygons[0].Points), len(want))
	}
	if !geom.PointsEqual(c.Polygons[0].Points, want, geom.DefaultTolerance) {
		t.Error("decoded points differ")
	}
}

func TestEncodeExpandsElementReferences(t *testing.T) {
	g := geom.NewArray(geom.Pt(0, 0), 2, 1, geom.Pt(5, 0), geom.Pt(0, 0))
	ref, err := layout.NewElementReference(unitSquare(t, 7), g)
	if err != nil {
		t.Fatal(err)
	}
	c := layout.NewCell("c")
	mustAdd(t, c, ref)

	data := encode(t, mustLib(t, "lib", c))
	if n := count(records(t, data), RecARef); n != 0 {
		t.Errorf("AREF count = %d, want 0", n)
	}
	got, _ := decode(t, data, ReadOptions{}).Cell("c")
	if len(got.Polygons) != 2 || len(got.References) != 0 {
		t.Fatalf("decoded %v", got)
	}
	box, _ := layout.BoundingBox(got.Polygons[1], nil)
	if !box.Min.Equal(geom.Pt(5, 0), geom.DefaultTolerance) {
		t.Errorf("second copy at %v, want (5, 0)", box.Min)
	}
}

func TestEncodeTransformRecords(t *testing.T) {
	tests := []struct {
		name                   string
		mag, angle             float64
		reflect                bool
		strans, magRec, angRec int
	}{
		{"identity", 1, 0, false, 0, 0, 0},
		{"reflection only", 1, 0, true, 1, 0, 0},
		{"magnification only", 3, 0, false, 1, 1, 0},
		{"angle only", 1, 45, false, 1, 0, 1},
		{"all", 2, 180, true, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geom.NewGrid()
			g.Magnification, g.Angle, g.XReflection = tt.mag, tt.angle, tt.reflect
			leaf := layout.NewCell("leaf")
			top := layout.NewCell("top")
			mustAdd(t, top, cellRef(t, "leaf", g))
			types := records(t, encode(t, mustLib(t, "lib", top, leaf)))

			if n := count(types, RecSTrans); n != tt.strans {
				t.Errorf("STRANS = %d, want %d", n, tt.strans)
			}
			if n := count(types, RecMag); n != tt.magRec {
				t.Errorf("MAG = %d, want %d", n, tt.magRec)
			}
			if n := count(types, RecAngle); n != tt.angRec {
				t.Errorf("ANGLE = %d, want %d", n, tt.angRec)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Run("unresolved", func(t *testing.T) {
		top := layout.NewCell("top")
		mustAdd(t, top, cellRef(t, "ghost", geom.NewGrid()))
		_, err := NewEncoder(&bytes.Buffer{}, Options{}).Encode(mustLib(t, "lib", top))
		if !errs.Is(err, errs.ErrCodeUnresolvedReference) {
			t.Errorf("Encode() error = %v, want UNRESOLVED_REFERENCE", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		a, b := layout.NewCell("a"), layout.NewCell("b")
		mustAdd(t, a, cellRef(t, "b", geom.NewGrid()))
		mustAdd(t, b, cellRef(t, "a", geom.NewGrid()))
		_, err := NewEncoder(&bytes.Buffer{}, Options{}).Encode(mustLib(t, "lib", a, b))
		if !errs.Is(err, errs.ErrCodeCycle) {
			t.Errorf("Encode() error = %v, want CYCLE", err)
		}
	})

	t.Run("datatype out of range", func(t *testing.T) {
		c := layout.NewCell("c")
		p, _ := layout.NewPolygon([]geom.Point{{0, 0}, {1, 0}, {0, 1}}, 1, 40000)
		mustAdd(t, c, p)
		_, err := NewEncoder(&bytes.Buffer{}, Options{}).Encode(mustLib(t, "lib", c))
		if !errs.Is(err, errs.ErrCodeInvalidGeometry) {
			t.Errorf("Encode() error = %v, want INVALID_GEOMETRY", err)
		}
	})

	t.Run("coordinate out of range", func(t *testing.T) {
		c := layout.NewCell("c")
		mustAdd(t, c, polygon(t, 1, geom.Pt(0, 0), geom.Pt(1e6, 0), geom.Pt(0, 1)))
		_, err := NewEncoder(&bytes.Buffer{}, Options{}).Encode(mustLib(t, "lib", c))
		if !errs.Is(err, errs.ErrCodeInvalidGeometry) {
			t.Errorf("Encode() error = %v, want INVALID_GEOMETRY", err)
		}
	})

	t.Run("invalid units", func(t *testing.T) {
		_, err := NewEncoder(&bytes.Buffer{}, Options{Units: 1e-9, Precision: 1e-6}).Encode(mustLib(t, "lib"))
		if !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("Encode() error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestEncodeCell(t *testing.T) {
	lib := nestedLibrary(t)
	mid, _ := lib.Cell("mid")

	var buf bytes.Buffer
	stats, err := NewEncoder(&buf, Options{}).EncodeCell(mid, lib)
	if err != nil {
		t.Fatalf("EncodeCell() error = %v", err)
	}
	if stats.Cells != 2 || stats.Bytes != int64(buf.Len()) {
		t.Errorf("stats = %+v, buffer %d bytes", stats, buf.Len())
	}

	got := decode(t, buf.Bytes(), ReadOptions{Strict: true})
	if got.Name != CellLibraryName {
		t.Errorf("library name = %q, want %q", got.Name, CellLibraryName)
	}
	leaf, _ := lib.Cell("leaf")
	want := mustLib(t, CellLibraryName, mid, leaf)
	if !got.Equal(want, geom.DefaultTolerance) {
		t.Errorf("decoded %v with cells %v", got, got.Names())
	}
}

func TestEncodeCustomUnits(t *testing.T) {
	c := layout.NewCell("c")
	mustAdd(t, c, polygon(t, 1, geom.Pt(0, 0), geom.Pt(1.5, 0), geom.Pt(0, 2.25)))
	lib := mustLib(t, "lib", c)

	var buf bytes.Buffer
	if _, err := NewEncoder(&buf, Options{Units: 1e-3, Precision: 1e-6}).Encode(lib); err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(bytes.NewReader(buf.Bytes()), ReadOptions{})
	got, err := dec.Decode()
	if err != nil {
		t.Fatal(err)
	}
	u := dec.Units()
	if math.Abs(u.UserUnit-1e-3) > 1e-15 || u.DatabaseUnit != 1e-6 || u.Digits != 3 {
		t.Errorf("Units() = %+v", u)
	}
	if !lib.Equal(got, geom.DefaultTolerance) {
		t.Error("decoded library differs")
	}
}
