// Package format renders rows into an aligned, bordered text grid for the
// wire protocol. The output shape is part of the protocol contract, so the
// renderer is deliberately byte-exact:
//
//	+------+-----+
//	| name | age |
//	+------+-----+
//	| bob  | 7   |
//	+------+-----+
package format

import "strings"

// Table accumulates fixed-arity rows and renders them. The arity is set by
// the first row (or the header); rows with a different arity are dropped,
// matching the formatter's lenient contract.
type Table struct {
	rows      [][]string
	hasHeader bool
}

func NewTable() *Table {
	return &Table{}
}

// SetHeader installs head as the first rendered row.
func (t *Table) SetHeader(head []string) {
	if t.hasHeader {
		t.rows[0] = head
		return
	}
	t.rows = append([][]string{head}, t.rows...)
	t.hasHeader = true
}

// AddRow appends one row. Rows whose arity differs from the first row are
// ignored.
func (t *Table) AddRow(row []string) {
	if len(t.rows) > 0 && len(row) != len(t.rows[0]) {
		return
	}
	t.rows = append(t.rows, row)
}

// AddRows appends multiple rows with AddRow semantics.
func (t *Table) AddRows(rows [][]string) {
	for _, row := range rows {
		t.AddRow(row)
	}
}

// Len reports the number of data rows (the header excluded).
func (t *Table) Len() int {
	n := len(t.rows)
	if t.hasHeader {
		n--
	}
	return n
}

// String renders the grid. An empty table renders as an empty string.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.rows[0]))
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var border strings.Builder
	border.WriteByte('+')
	for _, w := range widths {
		border.WriteString(strings.Repeat("-", w+2))
		border.WriteByte('+')
	}

	var b strings.Builder
	b.WriteString(border.String())
	for _, row := range t.rows {
		b.WriteString("\n|")
		for i, cell := range row {
			b.WriteByte(' ')
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
		b.WriteString(border.String())
	}
	return b.String()
}
