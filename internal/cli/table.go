// Package cli provides command-line interface utilities.
package cli

import (
	"strings"
)

// Table formats rows into aligned columns with optional per-column
// wrapping.
type Table struct {
	headers   []string
	rows      [][]string
	padding   string
	maxWidths map[int]int
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		padding:   "  ",
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth caps a column's width; longer cells wrap onto
// continuation lines.
func (t *Table) SetColumnMaxWidth(col, width int) {
	t.maxWidths[col] = width
}

// AddRow appends a row. Short rows are padded to the header count, extra
// cells are dropped.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats the table: a header line, a dashed separator and the
// rows, with wrapped cells continuing on the following lines.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	wrapped := make([][][]string, len(t.rows))
	for i, row := range t.rows {
		wrapped[i] = make([][]string, len(row))
		for j, cell := range row {
			wrapped[i][j] = wrapText(cell, t.maxWidths[j])
		}
	}

	widths := make([]int, len(t.headers))
	for j, h := range t.headers {
		widths[j] = len(h)
	}
	for _, row := range wrapped {
		for j, lines := range row {
			for _, line := range lines {
				if len(line) > widths[j] {
					widths[j] = len(line)
				}
			}
		}
	}

	var b strings.Builder
	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for j, cell := range cells {
			parts[j] = padRight(cell, widths[j])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, t.padding), " "))
		b.WriteString("\n")
	}

	writeLine(t.headers)
	separators := make([]string, len(t.headers))
	for j, w := range widths {
		separators[j] = strings.Repeat("-", w)
	}
	writeLine(separators)

	for _, row := range wrapped {
		depth := 1
		for _, lines := range row {
			if len(lines) > depth {
				depth = len(lines)
			}
		}
		for line := 0; line < depth; line++ {
			cells := make([]string, len(t.headers))
			for j := range row {
				if line < len(row[j]) {
					cells[j] = row[j][line]
				}
			}
			writeLine(cells)
		}
	}

	return b.String()
}

// padRight pads s with spaces to width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// wrapText breaks text into lines no longer than width, at word
// boundaries where possible. A width of 0 or less disables wrapping.
func wrapText(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}
