package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table is a table rendered with lipgloss.
type Table struct {
	headers []string
	rows    [][]string
	plain   bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// Plain drops borders and colors, for text that is parsed or diffed.
func (t *Table) Plain() *Table {
	t.plain = true
	return t
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().Headers(t.headers...)
	if t.plain {
		header = lipgloss.NewStyle().PaddingRight(2)
		cell = lipgloss.NewStyle().PaddingRight(2)
		tbl = tbl.
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderRow(false).
			BorderHeader(false)
	} else {
		tbl = tbl.
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(ColorDimGray))
	}

	tbl = tbl.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return header
		}
		return cell
	})
	for _, row := range t.rows {
		tbl.Row(row...)
	}
	return tbl.String()
}
