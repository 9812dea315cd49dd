package layout_test

import (
	"fmt"

	"github.com/matzehuels/gdsr/pkg/geom"
	"github.com/matzehuels/gdsr/pkg/layout"
)

func ExampleCell_GetElements() {
	lib := layout.NewLibrary("chip")

	via := layout.NewCell("via")
	sq, _ := layout.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 1, 0)
	_ = via.Add(sq)

	top := layout.NewCell("top")
	ref, _ := layout.NewCellReference("via", geom.NewArray(geom.Point{}, 2, 2, geom.Pt(3, 0), geom.Pt(0, 3)))
	_ = top.Add(ref)
	_ = lib.Add(false, via, top)

	elements, _ := top.GetElements(lib, layout.FlattenOptions{MaxDepth: layout.Unlimited})
	for _, el := range elements {
		fmt.Println(el.(*layout.Polygon).Points[0])
	}
	// Output:
	// (0, 0)
	// (0, 3)
	// (3, 0)
	// (3, 3)
}

func ExampleFlattenReference() {
	grid := geom.NewArray(geom.Pt(10, 0), 2, 1, geom.Pt(5, 0), geom.Point{})
	grid.Angle = 90
	grid.Magnification = 2

	pin, _ := layout.NewText("pin", geom.Pt(1, 0), 0)
	ref, _ := layout.NewElementReference(pin, grid)

	elements, _ := layout.FlattenReference(ref, nil, layout.FlattenOptions{MaxDepth: layout.Unlimited})
	for _, el := range elements {
		fmt.Println(el.(*layout.Text).Origin)
	}
	// Output:
	// (10, 2)
	// (10, 7)
}

func ExampleLibrary_Add() {
	lib := layout.NewLibrary("chip")
	_ = lib.Add(false, layout.NewCell("top"))

	err := lib.Add(false, layout.NewCell("top"))
	fmt.Println(err)
	// Output:
	// DUPLICATE_NAME: cell "top" already exists in library "chip"
}
