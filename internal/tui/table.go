package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Column defines a single column in a static table.
type Column struct {
	Header string
	Width  int
}

// Table renders aligned rows. A column named STATUS is coloured with
// StatusStyle.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// AddRow appends a row, padding or trimming it to the column count.
func (t *Table) AddRow(fields ...string) {
	row := make([]string, len(t.Columns))
	copy(row, fields)
	t.Rows = append(t.Rows, row)
}

// Render writes the table to w.
func (t Table) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

func (t Table) String() string {
	widths := make([]int, len(t.Columns))
	statusCol := -1
	for i, col := range t.Columns {
		widths[i] = ansi.StringWidth(col.Header)
		for _, row := range t.Rows {
			if l := ansi.StringWidth(row[i]); l > widths[i] {
				widths[i] = l
			}
		}
		if col.Width > 0 && widths[i] > col.Width {
			widths[i] = max(col.Width, ansi.StringWidth(col.Header))
		}
		if strings.EqualFold(col.Header, "STATUS") {
			statusCol = i
		}
	}

	var b strings.Builder
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = HeaderStyle.Render(pad(col.Header, widths[i]))
	}
	b.WriteString(strings.TrimRight(strings.Join(headers, "  "), " "))
	b.WriteByte('\n')

	for _, row := range t.Rows {
		parts := make([]string, len(t.Columns))
		for i := range t.Columns {
			val := TruncateWithEllipsis(row[i], widths[i])
			if i == statusCol {
				parts[i] = StatusStyle(val).Render(pad(val, widths[i]))
			} else {
				parts[i] = pad(val, widths[i])
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
