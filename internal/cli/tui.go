package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	errs "github.com/matzehuels/gdsr/pkg/errors"
	"github.com/matzehuels/gdsr/pkg/hierarchy"
	"github.com/matzehuels/gdsr/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CellListModel - Interactive top cell selection
// =============================================================================

// CellListModel is the bubbletea model for choosing one of several top
// cells.
type CellListModel struct {
	Cells    []*layout.Cell
	Cursor   int
	Selected *layout.Cell
}

// NewCellListModel creates a new cell list model.
func NewCellListModel(cells []*layout.Cell) CellListModel {
	return CellListModel{Cells: cells}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Cells) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Cells[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Top Cell"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, c := range m.Cells {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-24s", cursor, c.Name)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + countLine(
			count{"polygons", len(c.Polygons)},
			count{"paths", len(c.Paths)},
			count{"texts", len(c.Texts)},
			count{"references", len(c.References)},
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cells))))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// isTerminal reports whether both stdin and stdout are attached to a
// terminal.
func isTerminal() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// pickCell resolves name like selectCell. When name is empty, the library
// has several top cells and the CLI runs on a terminal, the user chooses
// one from a list instead of getting an error.
func (c *CLI) pickCell(lib *layout.Library, name string) (*layout.Cell, error) {
	cell, err := selectCell(lib, name)
	if err == nil || name != "" || !errs.Is(err, errs.ErrCodeInvalidInput) || !c.interactive() {
		return cell, err
	}

	roots := hierarchy.FromLibrary(lib).Roots()
	cells := make([]*layout.Cell, 0, len(roots))
	for _, r := range roots {
		if rc, ok := lib.Cell(r); ok {
			cells = append(cells, rc)
		}
	}

	final, runErr := c.runPicker(NewCellListModel(cells))
	if runErr != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, runErr, "cell selection")
	}
	m, ok := final.(CellListModel)
	if !ok || m.Selected == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no cell selected in library %q", lib.Name)
	}
	return m.Selected, nil
}

// runTeaProgram runs m as a full bubbletea program and returns its final
// model.
func runTeaProgram(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}
