package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/layout"
)

func keys(m tea.Model, msgs ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestCellListModel(t *testing.T) {
	cells := []*layout.Cell{layout.NewCell("a"), layout.NewCell("b"), layout.NewCell("c")}

	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantCursor int
		wantPick   string // empty when nothing is selected
		wantQuit   bool
	}{
		{"no input", nil, 0, "", false},
		{"down twice", []tea.KeyMsg{keyDown, keyDown}, 2, "", false},
		{"down stops at end", []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown}, 2, "", false},
		{"up stops at start", []tea.KeyMsg{keyUp}, 0, "", false},
		{"select second", []tea.KeyMsg{keyDown, keyEnter}, 1, "b", true},
		{"quit", []tea.KeyMsg{keyDown, keyQuit}, 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, cmd := keys(NewCellListModel(cells), tt.keys...)
			m := final.(CellListModel)
			if m.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
			var got string
			if m.Selected != nil {
				got = m.Selected.Name
			}
			if got != tt.wantPick {
				t.Errorf("Selected = %q, want %q", got, tt.wantPick)
			}
			if quit := cmd != nil; quit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", quit, tt.wantQuit)
			}
		})
	}
}

func TestCellListModelView(t *testing.T) {
	top := layout.NewCell("top")
	m := NewCellListModel([]*layout.Cell{top, layout.NewCell("other")})
	view := m.View()
	for _, want := range []string{"Select Top Cell", "top", "other", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestPickCell(t *testing.T) {
	lib := testLibrary(t)
	if err := lib.Add(false, layout.NewCell("other")); err != nil {
		t.Fatal(err)
	}
	roots := hierarchy.FromLibrary(lib).Roots()
	if len(roots) != 2 {
		t.Fatalf("roots = %v, want two", roots)
	}

	choose := func(msgs ...tea.KeyMsg) func(tea.Model) (tea.Model, error) {
		return func(m tea.Model) (tea.Model, error) {
			final, _ := keys(m, msgs...)
			return final, nil
		}
	}

	tests := []struct {
		name        string
		cell        string
		interactive bool
		run         func(tea.Model) (tea.Model, error)
		want        string
		wantCode    errs.Code
	}{
		{"named cell skips the list", "leaf", true, nil, "leaf", ""},
		{"not a terminal", "", false, nil, "", errs.ErrCodeInvalidInput},
		{"terminal picks second", "", true, choose(keyDown, keyEnter), roots[1], ""},
		{"terminal quit", "", true, choose(keyQuit), "", errs.ErrCodeInvalidInput},
		{"program error", "", true, func(tea.Model) (tea.Model, error) { return nil, errors.New("no tty") }, "", errs.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&strings.Builder{}, LogInfo)
			c.interactive = func() bool { return tt.interactive }
			c.runPicker = func(m tea.Model) (tea.Model, error) {
				if tt.run == nil {
					t.Fatal("list shown unexpectedly")
				}
				return tt.run(m)
			}

			got, err := c.pickCell(lib, tt.cell)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("pickCell() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("pickCell() error = %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("pickCell() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}
