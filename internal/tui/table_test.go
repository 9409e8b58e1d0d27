package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piyawatc/censedit/internal/census/editor"
	"github.com/piyawatc/censedit/internal/data/stores"
)

func TestColumnWidthsBounds(t *testing.T) {
	columns := []string{"Sex", "FirstName", "Note", "Religion"}
	headers := map[string]headerText{
		"Sex":       {main: "เพศ"},
		"FirstName": {main: "ชื่อ"},
		"Religion":  {main: "ศาสนา", sub: "(รหัส 1-9)"},
	}
	rows := []editor.Row{
		{Record: stores.Record{"Sex": "1", "FirstName": "ยาวมากเกินสิบแปดตัวอักษรแน่นอน", "Note": "", "Religion": "1"}},
	}

	widths := columnWidths(columns, headers, rows)
	assert.Equal(t, minColWidth, widths[0], "narrow column clamps up")
	assert.Equal(t, maxColWidth, widths[1], "wide value clamps down")
	assert.Equal(t, minColWidth, widths[2], "missing header still gets the minimum")
	assert.Equal(t, 10, widths[3], "sub line widens the column")
}

func TestColumnWindow(t *testing.T) {
	widths := []int{10, 10, 10, 10}

	// everything fits
	start, end := columnWindow(widths, 80, 0, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)

	// cursor past the window scrolls right only as far as needed
	start, end = columnWindow(widths, 23, 2, 0)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	// cursor before the offset snaps the window back
	start, end = columnWindow(widths, 23, 0, 2)
	assert.Equal(t, 0, start)

	// a column wider than the terminal still shows alone
	start, end = columnWindow([]int{18, 18}, 5, 1, 0)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcd…", pad("abcdef", 5))
	assert.Equal(t, "กข   ", pad("กข", 5), "thai runes count as one cell")
}

func TestTableCursorAndHide(t *testing.T) {
	tv := newTableView([]string{"A", "B", "C"})

	tv.moveCursor(0, 5, 10)
	assert.Equal(t, 2, tv.col, "cursor clamps to last column")
	assert.Equal(t, "C", tv.currentColumn())

	tv.toggleHideCurrent()
	assert.Equal(t, []string{"A", "B"}, tv.visibleColumns())
	assert.Equal(t, "B", tv.currentColumn())

	tv.toggleHideCurrent()
	tv.toggleHideCurrent()
	assert.Equal(t, []string{"A"}, tv.visibleColumns(), "last column cannot be hidden")

	tv.showAll()
	assert.Equal(t, []string{"A", "B", "C"}, tv.visibleColumns())

	tv.moveCursor(5, 0, 3)
	assert.Equal(t, 2, tv.row)
	tv.clampCursor(1)
	assert.Equal(t, 0, tv.row, "cursor clamps after the row set shrinks")
}
