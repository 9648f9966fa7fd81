package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Table formats rows into aligned columns. Cells may contain ANSI colour
// sequences; they do not count towards column widths.
type Table struct {
	headers []string
	rows    [][]string
	padding int
	right   map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
		right:   make(map[int]bool),
	}
}

// AlignRight right-aligns a column, for counts and other numbers.
func (t *Table) AlignRight(col int) {
	t.right[col] = true
}

// AddRow adds a row, padded or truncated to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats the table: a header line, a dashed separator and one line per
// row. Trailing spaces are trimmed.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var b strings.Builder
	t.writeLine(&b, t.headers, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.writeLine(&b, sep, widths)
	for _, row := range t.rows {
		t.writeLine(&b, row, widths)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.right[i] {
			parts[i] = padLeft(cell, widths[i])
		} else {
			parts[i] = padRight(cell, widths[i])
		}
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, strings.Repeat(" ", t.padding)), " "))
	b.WriteByte('\n')
}

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth counts the runes of s that occupy a terminal column.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiSequence.ReplaceAllString(s, ""))
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	if n := visibleWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft is padRight for right-aligned columns.
func padLeft(s string, width int) string {
	if n := visibleWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
