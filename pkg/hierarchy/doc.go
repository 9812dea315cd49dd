// Package hierarchy derives the cell reference graph of a layout.
//
// # Overview
//
// Cells reference each other by name, so the hierarchy of a library is
// implicit. [Build] walks the references reachable from a set of root cells
// and records one node per cell and one edge per distinct parent/child
// pair. References to names the resolver does not know are collected by
// [Graph.Missing] instead of becoming nodes.
//
// The graph answers the questions the codec and the command line ask before
// touching geometry:
//
//   - [Graph.Roots]: top-level cells that no other cell references
//   - [Graph.FindCycle]: a reference loop, found by depth-first search
//   - [Graph.TopologicalOrder]: parents before children
//   - [Graph.Depths]: the longest reference chain above each cell
//
// # Cycles
//
// Stream files describe a directed acyclic hierarchy. A cycle cannot be
// flattened or written, so [Graph.TopologicalOrder] fails with a CYCLE error
// naming the loop.
package hierarchy
