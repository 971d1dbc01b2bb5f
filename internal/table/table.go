// Package table renders ordered rows of any record type through caller
// supplied column descriptors. Every dashboard list in the app goes through
// it; views describe what to show per column and never touch row layout.
package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column describes one column over row type T. Header is required. The
// remaining fields are value-resolution strategies; when several are set the
// first one in the order below wins and the rest are ignored:
//
//  1. Cell — full render function, output used verbatim
//  2. Key — field name looked up on the row
//  3. Accessor holding a function
//  4. Accessor holding a field name
//  5. AccessorFn — secondary extraction function
//
// A column with none of the five renders blank. Views commonly start with a
// Key column and later add a Cell without removing the Key; the precedence
// exists so they don't have to.
type Column[T any] struct {
	Header     string
	Key        string
	Accessor   Accessor[T]
	AccessorFn func(T) any
	Cell       func(T) string
}

// Value resolves the cell value for row. Returns nil when no strategy is
// configured or the looked-up field does not exist.
func (c Column[T]) Value(row T) any {
	switch {
	case c.Cell != nil:
		return c.Cell(row)
	case c.Key != "":
		return fieldValue(row, c.Key)
	case c.Accessor.fn != nil:
		return c.Accessor.fn(row)
	case c.Accessor.field != "":
		return fieldValue(row, c.Accessor.field)
	case c.AccessorFn != nil:
		return c.AccessorFn(row)
	}
	return nil
}

// State is the render state, derived fresh on every render pass.
type State int

const (
	StatePopulated State = iota
	StateLoading
	StateEmpty
)

// Table is the full render input. It carries no state between renders:
// Render is a pure function of the fields, rows and columns are read-only,
// and row/column input order is display order.
type Table[T any] struct {
	Columns    []Column[T]
	Rows       []T
	KeyField   string
	Loading    bool
	EmptyState string
}

// State derives the render state. Loading wins over everything; Empty
// requires a caller-supplied EmptyState, otherwise an empty row set falls
// through to a populated table with zero body rows.
func (t Table[T]) State() State {
	switch {
	case t.Loading:
		return StateLoading
	case len(t.Rows) == 0 && t.EmptyState != "":
		return StateEmpty
	}
	return StatePopulated
}

// RowID returns row's identity, the value of the field named by KeyField.
// Callers guarantee the field exists and is unique per row; a row missing it
// yields nil, which is a caller contract violation rather than something the
// render path checks for.
func (t Table[T]) RowID(row T) any {
	return fieldValue(row, t.KeyField)
}

const loadingIndicator = "… loading"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Render produces the table for the current state: the loading indicator,
// the EmptyState content verbatim, or a header line followed by one line per
// row. width <= 0 renders at natural width.
func (t Table[T]) Render(width int) string {
	return t.render(width, loadingIndicator, -1, "")
}

// render is shared with the interactive Model, which supplies its spinner
// frame and cursor. cursor < 0 means no row is marked.
func (t Table[T]) render(width int, loading string, cursor int, marker string) string {
	switch t.State() {
	case StateLoading:
		return loadingStyle.Render(loading)
	case StateEmpty:
		return t.EmptyState
	}

	widths := t.columnWidths(width, marker != "")
	var b strings.Builder
	b.WriteString(t.renderHeader(widths, marker != ""))
	for i, row := range t.Rows {
		b.WriteByte('\n')
		prefix := ""
		if marker != "" {
			prefix = "  "
			if i == cursor {
				prefix = marker + " "
			}
		}
		b.WriteString(prefix + t.renderRow(row, widths, i == cursor && marker != ""))
	}
	return b.String()
}

func (t Table[T]) renderHeader(widths []int, indented bool) string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = padRight(truncate(c.Header, widths[i]), widths[i])
	}
	line := strings.Join(cells, "  ")
	if indented {
		line = "  " + line
	}
	return headerStyle.Render(line)
}

func (t Table[T]) renderRow(row T, widths []int, selected bool) string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		text := cellText(c, row)
		if lipgloss.Width(text) > widths[i] {
			text = truncate(text, widths[i])
		}
		cells[i] = padRight(text, widths[i])
	}
	line := strings.Join(cells, "  ")
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

var selectedStyle = lipgloss.NewStyle().Reverse(true)

// cellText formats a resolved value. nil renders blank; Cell output and
// plain strings pass through untouched so styling survives.
func cellText[T any](c Column[T], row T) string {
	v := c.Value(row)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// columnWidths sizes each column to its widest cell or header, then shrinks
// the widest columns first until the table fits.
func (t Table[T]) columnWidths(width int, indented bool) []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c.Header)
		for _, row := range t.Rows {
			if w := lipgloss.Width(cellText(c, row)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if width <= 0 || len(widths) == 0 {
		return widths
	}
	avail := width - 2*(len(widths)-1)
	if indented {
		avail -= 2
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	for total > avail {
		widest := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 3 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
