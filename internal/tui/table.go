package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/piyawatc/censedit/internal/census/editor"
	"github.com/piyawatc/censedit/internal/census/rules"
	"github.com/piyawatc/censedit/internal/core/styles"
)

const (
	minColWidth = 4
	maxColWidth = 18
	seqColWidth = 5
)

// tableView renders one page of records as a grid with a cell cursor.
// Column layout is recomputed from the displayed rows on every render;
// the cursor and scroll state persist across reloads.
type tableView struct {
	columns []string
	hidden  map[string]struct{}

	row       int
	col       int // index into visibleColumns()
	colOffset int

	width  int
	height int
}

func newTableView(columns []string) tableView {
	return tableView{
		columns: columns,
		hidden:  make(map[string]struct{}),
	}
}

func (t *tableView) visibleColumns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := t.hidden[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// currentColumn returns the field under the cursor, or "".
func (t *tableView) currentColumn() string {
	visible := t.visibleColumns()
	if t.col < 0 || t.col >= len(visible) {
		return ""
	}
	return visible[t.col]
}

func (t *tableView) moveCursor(dRow, dCol, rowCount int) {
	t.row = clamp(t.row+dRow, 0, rowCount-1)
	t.col = clamp(t.col+dCol, 0, len(t.visibleColumns())-1)
}

func (t *tableView) clampCursor(rowCount int) {
	t.row = clamp(t.row, 0, rowCount-1)
	t.col = clamp(t.col, 0, len(t.visibleColumns())-1)
}

// toggleHideCurrent hides the column under the cursor; at least one
// column always stays visible.
func (t *tableView) toggleHideCurrent() {
	col := t.currentColumn()
	if col == "" || len(t.visibleColumns()) == 1 {
		return
	}
	t.hidden[col] = struct{}{}
	t.col = clamp(t.col, 0, len(t.visibleColumns())-1)
}

func (t *tableView) showAll() {
	t.hidden = make(map[string]struct{})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// headerText is a two-line column header: the display name's main text
// and the parenthesized detail underneath.
type headerText struct {
	main string
	sub  string
}

// columnWidths sizes each column to its widest header line or value,
// bounded to keep the grid usable.
func columnWidths(columns []string, headers map[string]headerText, rows []editor.Row) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		h := headers[col]
		if h.main == "" {
			h.main = col
		}
		w := len([]rune(h.main))
		if l := len([]rune(h.sub)); l > w {
			w = l
		}
		for _, r := range rows {
			if l := len([]rune(r.Record[col])); l > w {
				w = l
			}
		}
		widths[i] = clamp(w, minColWidth, maxColWidth)
	}
	return widths
}

// columnWindow returns the half-open visible column range [start, end)
// such that the cursor column fits in totalWidth. offset is the current
// first visible column and moves only as far as needed.
func columnWindow(widths []int, totalWidth, cursor, offset int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}
	offset = clamp(offset, 0, len(widths)-1)
	if cursor < offset {
		offset = cursor
	}

	fits := func(start int) int {
		used := 0
		end := start
		for end < len(widths) {
			used += widths[end] + 1
			if used > totalWidth {
				break
			}
			end++
		}
		if end == start {
			end = start + 1 // always show at least the cursor column
		}
		return end
	}

	end := fits(offset)
	for cursor >= end && offset < len(widths)-1 {
		offset++
		end = fits(offset)
	}
	return offset, end
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// render draws the table. editBuffer replaces the cursor cell content
// when editing is non-empty-signalled by editing=true.
func (t *tableView) render(ctrl *editor.Controller, ruleSet *rules.Set, headers map[string]headerText, editing bool, editBuffer string) string {
	rows := ctrl.Displayed()
	t.clampCursor(len(rows))

	visible := t.visibleColumns()
	widths := columnWidths(visible, headers, rows)

	gridWidth := t.width - seqColWidth - 1
	if gridWidth < minColWidth {
		gridWidth = minColWidth
	}
	start, end := columnWindow(widths, gridWidth, t.col, t.colOffset)
	t.colOffset = start

	var b strings.Builder

	// two header lines: main name, then the parenthesized detail
	b.WriteString(pad("ลำดับ", seqColWidth))
	b.WriteString(" ")
	for i := start; i < end; i++ {
		name := headers[visible[i]].main
		if name == "" {
			name = visible[i]
		}
		b.WriteString(styles.Header.Render(pad(name, widths[i])))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	b.WriteString(pad("", seqColWidth))
	b.WriteString(" ")
	for i := start; i < end; i++ {
		b.WriteString(styles.Header.Render(pad(headers[visible[i]].sub, widths[i])))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	maxRows := t.height
	if maxRows < 1 {
		maxRows = len(rows)
	}

	rowStart := 0
	if t.row >= maxRows {
		rowStart = t.row - maxRows + 1
	}

	for r := rowStart; r < len(rows) && r < rowStart+maxRows; r++ {
		row := rows[r]
		b.WriteString(styles.Subtitle.Render(pad(fmt.Sprintf("%d", r+1), seqColWidth)))
		b.WriteString(" ")

		for i := start; i < end; i++ {
			field := visible[i]
			value := row.Record[field]
			if editing && r == t.row && i == t.col {
				value = editBuffer
			}
			cell := pad(value, widths[i])

			switch {
			case r == t.row && i == t.col:
				b.WriteString(styles.Cursor.Render(cell))
			case ctrl.CellEdited(row.Key, field):
				b.WriteString(styles.EditedCell.Render(cell))
			case !ruleSet.IsEditable(field):
				b.WriteString(styles.ReadonlyCell.Render(cell))
			default:
				b.WriteString(cell)
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().MaxWidth(t.width).Render(b.String())
}
