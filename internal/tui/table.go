// Package tui provides terminal output components for TaskPilot.
package tui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table provides styled table rendering.
type Table struct {
	w       io.Writer
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	header := ""
	for i, col := range t.columns {
		if i > 0 {
			header += "  "
		}
		header += pad(col.Name, col.Width, col.Align)
	}
	_, _ = fmt.Fprintln(t.w, StyleHeader.Render(header))
}

// WriteRow writes a data row. Cells beyond the column count are dropped;
// missing cells render empty. Styled cells keep their styling; width
// accounting uses the visible runes only.
func (t *Table) WriteRow(cells ...string) {
	row := ""
	for i, col := range t.columns {
		if i > 0 {
			row += "  "
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		row += pad(truncate(cell, col.Width), col.Width, col.Align)
	}
	_, _ = fmt.Fprintln(t.w, row)
}

// pad aligns a cell within its column width.
func pad(s string, width int, align Alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	filler := strings.Repeat(" ", gap)
	if align == AlignRight {
		return filler + s
	}
	return s + filler
}

// truncate shortens a cell to the column width with an ellipsis.
// ANSI-styled cells are passed through untouched; styled columns are
// expected to fit their width.
func truncate(s string, width int) string {
	if strings.Contains(s, "\x1b") || visibleWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

// visibleWidth counts display runes, skipping ANSI escape sequences.
func visibleWidth(s string) int {
	if !strings.Contains(s, "\x1b") {
		return utf8.RuneCountInString(s)
	}
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}
