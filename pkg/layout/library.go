package layout

import (
	"fmt"
	"slices"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/geom"
)

// Resolver looks up cells by name. [*Library] is the usual implementation.
type Resolver interface {
	Cell(name string) (*Cell, bool)
}

// Library is the root container of a layout: a set of uniquely named cells.
//
// The library owns its cells. Cells are kept in insertion order so that
// iteration, and therefore encoding, is deterministic.
//
// The zero value is not usable - use NewLibrary.
// Library is not safe for concurrent use without external synchronization.
type Library struct {
	Name  string
	cells map[string]*Cell
	order []string
}

// NewLibrary returns an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, cells: make(map[string]*Cell)}
}

// Add inserts cells. When a name is already taken, the cell replaces the
// existing one if replace is set and the whole call fails with a
// DUPLICATE_NAME error otherwise. Names are validated before anything is
// inserted, so a failed call leaves the library unchanged.
func (l *Library) Add(replace bool, cells ...*Cell) error {
	pending := make(map[string]bool, len(cells))
	for _, c := range cells {
		if c == nil {
			return errs.New(errs.ErrCodeInvalidInput, "cannot add nil cell to library %q", l.Name)
		}
		if err := errs.ValidateName(c.Name); err != nil {
			return err
		}
		if replace {
			continue
		}
		if _, exists := l.cells[c.Name]; exists || pending[c.Name] {
			return errs.New(errs.ErrCodeDuplicateName, "cell %q already exists in library %q", c.Name, l.Name)
		}
		pending[c.Name] = true
	}
	for _, c := range cells {
		if _, exists := l.cells[c.Name]; !exists {
			l.order = append(l.order, c.Name)
		}
		l.cells[c.Name] = c
	}
	return nil
}

// Remove deletes each cell that is stored under its name and equal to it
// within tol.
func (l *Library) Remove(tol geom.Tolerance, cells ...*Cell) {
	for _, c := range cells {
		if stored, ok := l.cells[c.Name]; ok && (stored == c || stored.Equal(c, tol)) {
			l.delete(c.Name)
		}
	}
}

// RemoveNamed deletes the cells with the given names. Unknown names are
// ignored.
func (l *Library) RemoveNamed(names ...string) {
	for _, name := range names {
		l.delete(name)
	}
}

func (l *Library) delete(name string) {
	if _, ok := l.cells[name]; !ok {
		return
	}
	delete(l.cells, name)
	l.order = slices.DeleteFunc(l.order, func(n string) bool { return n == name })
}

// Rename changes a cell's name and retargets every reference to it.
func (l *Library) Rename(oldName, newName string) error {
	c, ok := l.cells[oldName]
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "cell %q not found in library %q", oldName, l.Name)
	}
	if oldName == newName {
		return nil
	}
	if err := errs.ValidateName(newName); err != nil {
		return err
	}
	if _, exists := l.cells[newName]; exists {
		return errs.New(errs.ErrCodeDuplicateName, "cell %q already exists in library %q", newName, l.Name)
	}
	delete(l.cells, oldName)
	c.Name = newName
	l.cells[newName] = c
	l.order[slices.Index(l.order, oldName)] = newName
	for _, other := range l.cells {
		for _, r := range other.References {
			if r.Cell == oldName {
				r.Cell = newName
			}
		}
	}
	return nil
}

// Cell returns the cell called name.
func (l *Library) Cell(name string) (*Cell, bool) {
	c, ok := l.cells[name]
	return c, ok
}

// Contains reports whether the library holds a cell equal to c, within tol,
// under its name.
func (l *Library) Contains(c *Cell, tol geom.Tolerance) bool {
	stored, ok := l.cells[c.Name]
	return ok && (stored == c || stored.Equal(c, tol))
}

// Cells returns the cells in insertion order.
func (l *Library) Cells() []*Cell {
	out := make([]*Cell, len(l.order))
	for i, name := range l.order {
		out[i] = l.cells[name]
	}
	return out
}

// Names returns the cell names in insertion order.
func (l *Library) Names() []string { return slices.Clone(l.order) }

func (l *Library) Len() int { return len(l.order) }

// Unresolved returns the names referenced by some cell but missing from the
// library, in order of first use.
func (l *Library) Unresolved() []string {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range l.order {
		for _, dep := range l.cells[name].Dependencies() {
			if _, ok := l.cells[dep]; !ok && !seen[dep] {
				seen[dep] = true
				missing = append(missing, dep)
			}
		}
	}
	return missing
}

// Copy returns a new library with the same name and cells. A shallow copy
// shares the cell values with l; a deep copy duplicates them.
func (l *Library) Copy(deep bool) *Library {
	out := NewLibrary(l.Name)
	for _, name := range l.order {
		c := l.cells[name]
		if deep {
			c = c.Copy()
		}
		out.cells[name] = c
		out.order = append(out.order, name)
	}
	return out
}

// Equal reports whether both libraries have the same name and equal cells
// under the same names. Insertion order is not compared.
func (l *Library) Equal(o *Library, tol geom.Tolerance) bool {
	if l.Name != o.Name || len(l.cells) != len(o.cells) {
		return false
	}
	for name, c := range l.cells {
		oc, ok := o.cells[name]
		if !ok || !c.Equal(oc, tol) {
			return false
		}
	}
	return true
}

func (l *Library) String() string {
	return fmt.Sprintf("Library %q with %d cells", l.Name, len(l.order))
}
