package hierarchy

import (
	"strings"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// Graph is the reference graph of a set of cells.
//
// The zero value is not usable - use Build or FromLibrary.
type Graph struct {
	cells     map[string]*layout.Cell
	order     []string            // discovery order
	outgoing  map[string][]string // parent -> distinct children
	incoming  map[string][]string // child -> distinct parents
	instances map[[2]string]int   // (parent, child) -> placements
	edges     int
	missing   []string
}

// FromLibrary builds the graph of every cell in lib.
func FromLibrary(lib *layout.Library) *Graph {
	return Build(lib, lib.Cells()...)
}

// Build walks the references reachable from roots, resolving names through
// res. Nodes are numbered in discovery order: roots first, in the order
// given, then children depth-first in reference order.
func Build(res layout.Resolver, roots ...*layout.Cell) *Graph {
	g := &Graph{
		cells:     make(map[string]*layout.Cell),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
		instances: make(map[[2]string]int),
	}
	missing := make(map[string]bool)

	var visit func(c *layout.Cell)
	visit = func(c *layout.Cell) {
		for _, r := range c.References {
			if !r.IsCell() {
				continue
			}
			key := [2]string{c.Name, r.Cell}
			g.instances[key] += r.Grid.Count()
			child, ok := g.resolve(res, r.Cell)
			if !ok {
				if !missing[r.Cell] {
					missing[r.Cell] = true
					g.missing = append(g.missing, r.Cell)
				}
				continue
			}
			g.addEdge(c.Name, r.Cell)
			if _, seen := g.cells[child.Name]; !seen {
				g.addNode(child)
				visit(child)
			}
		}
	}

	for _, c := range roots {
		if _, seen := g.cells[c.Name]; seen {
			continue
		}
		g.addNode(c)
		visit(c)
	}
	return g
}

func (g *Graph) resolve(res layout.Resolver, name string) (*layout.Cell, bool) {
	if c, ok := g.cells[name]; ok {
		return c, true
	}
	if res == nil {
		return nil, false
	}
	return res.Cell(name)
}

func (g *Graph) addNode(c *layout.Cell) {
	g.cells[c.Name] = c
	g.order = append(g.order, c.Name)
}

func (g *Graph) hasEdge(from, to string) bool {
	for _, child := range g.outgoing[from] {
		if child == to {
			return true
		}
	}
	return false
}

func (g *Graph) addEdge(from, to string) {
	if g.hasEdge(from, to) {
		return
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	g.edges++
}

// Nodes returns the cell names in discovery order.
func (g *Graph) Nodes() []string { return append([]string(nil), g.order...) }

// Cell returns the cell behind a node.
func (g *Graph) Cell(name string) (*layout.Cell, bool) {
	c, ok := g.cells[name]
	return c, ok
}

// Children returns the distinct cells name references, in first-use order.
func (g *Graph) Children(name string) []string { return g.outgoing[name] }

// Parents returns the distinct cells that reference name.
func (g *Graph) Parents(name string) []string { return g.incoming[name] }

// Instances returns how many placements of child parent makes, summed over
// all its references to child and their grids.
func (g *Graph) Instances(parent, child string) int { return g.instances[[2]string{parent, child}] }

func (g *Graph) NodeCount() int { return len(g.order) }
func (g *Graph) EdgeCount() int { return g.edges }

// Missing returns referenced names that could not be resolved, in order of
// first use.
func (g *Graph) Missing() []string { return g.missing }

// Roots returns the cells no other cell in the graph references, in
// discovery order. These are the top-level cells of a library.
func (g *Graph) Roots() []string {
	var roots []string
	for _, name := range g.order {
		if len(g.incoming[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// FindCycle returns a reference loop as a list of names whose first and
// last entries are equal, or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.order))
	var stack, cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		stack = append(stack, node)
		for _, child := range g.outgoing[node] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				for i, n := range stack {
					if n == child {
						cycle = append(append([]string(nil), stack[i:]...), child)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
		return false
	}

	for _, n := range g.order {
		if color[n] == white && dfs(n) {
			return cycle
		}
	}
	return nil
}

// CheckAcyclic returns a CYCLE error describing the first loop found.
func (g *Graph) CheckAcyclic() error {
	if cycle := g.FindCycle(); cycle != nil {
		return errs.New(errs.ErrCodeCycle, "cell reference cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// TopologicalOrder returns the cell names with every parent before its
// children. Ties keep discovery order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.CheckAcyclic(); err != nil {
		return nil, err
	}
	inDegree := make(map[string]int, len(g.order))
	queue := make([]string, 0, len(g.order))
	for _, n := range g.order {
		inDegree[n] = len(g.incoming[n])
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)
		for _, child := range g.outgoing[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return order, nil
}

// Depths returns, for every cell, the length of the longest reference chain
// from a root down to it. Roots are at depth 0. The graph must be acyclic.
func (g *Graph) Depths() (map[string]int, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	depths := make(map[string]int, len(order))
	for _, n := range order {
		for _, child := range g.outgoing[n] {
			if d := depths[n] + 1; d > depths[child] {
				depths[child] = d
			}
		}
	}
	return depths, nil
}

// Height returns the number of reference levels below the roots, that is
// the largest value in Depths.
func (g *Graph) Height() (int, error) {
	depths, err := g.Depths()
	if err != nil {
		return 0, err
	}
	height := 0
	for _, d := range depths {
		height = max(height, d)
	}
	return height, nil
}
