package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table provides minimal table rendering: spacing alignment, no borders.
// Duration columns are right-aligned so their digits line up.

// Alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table represents a simple table structure
type Table struct {
	rows       [][]string
	colWidths  []int
	colAligns  []Alignment
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colAligns:  make([]Alignment, cols),
		colPadding: 2,
	}
}

// Align sets the alignment of a column.
func (t *Table) Align(col int, a Alignment) *Table {
	if col >= 0 && col < len(t.colAligns) {
		t.colAligns[col] = a
	}
	return t
}

// AddRow adds a row to the table. Cells may carry lipgloss styling; widths
// are measured on the rendered width, not the byte length.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// SetPadding sets the padding between columns
func (t *Table) SetPadding(padding int) {
	t.colPadding = padding
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			fill := t.colWidths[i] - lipgloss.Width(cell)
			switch {
			case t.colAligns[i] == AlignRight:
				sb.WriteString(strings.Repeat(" ", fill))
				sb.WriteString(cell)
			case i < len(row)-1:
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", fill))
			default:
				// Last left-aligned column: no trailing padding.
				sb.WriteString(cell)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
