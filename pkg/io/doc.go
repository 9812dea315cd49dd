// Package io provides JSON import and export for layout libraries.
//
// # Overview
//
// The JSON form mirrors the layout model one to one. It is meant for
// inspecting a stream with ordinary text tools, for feeding geometry to
// programs that do not read the binary format, and for writing fixtures by
// hand. Export and re-import preserve every cell, element and grid.
//
// # JSON Format
//
//	{
//	  "name": "chip",
//	  "cells": [
//	    {
//	      "name": "via",
//	      "polygons": [{"points": [[0, 0], [1, 0], [1, 1], [0, 0]], "layer": 1, "datatype": 0}]
//	    },
//	    {
//	      "name": "top",
//	      "references": [{
//	        "cell": "via",
//	        "grid": {"origin": [0, 0], "columns": 4, "rows": 1,
//	                 "spacing_x": [2, 0], "spacing_y": [0, 0], "magnification": 1}
//	      }]
//	    }
//	  ]
//	}
//
// Points are [x, y] pairs in user units. Paths carry a "type" of "square",
// "round" or "overlap"; texts carry "vertical" (top, middle, bottom) and
// "horizontal" (left, centre, right) anchors. A reference names either a
// "cell" or holds a single "element" object with one of "polygon", "path"
// or "text".
//
// # Import
//
// Use [ImportJSON] to read a library from a file path, or [ReadJSON] to
// read from any io.Reader. Both validate every element the same way the
// layout constructors do.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON] to write a whole library. [WriteFlatJSON]
// writes one cell with every reference expanded, which suits consumers that
// only want concrete geometry.
package io
