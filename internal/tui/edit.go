package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/piyawatc/censedit/internal/census/codelist"
	"github.com/piyawatc/censedit/internal/census/editor"
	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/core/styles"
	"github.com/piyawatc/censedit/internal/data/stores"
)

const queryTimeout = 30 * time.Second

type editFocus int

const (
	focusArea editFocus = iota
	focusDetail
	focusTable
)

type editMode int

const (
	modeBrowse editMode = iota
	modeEditCell
	modeFilter
	modeModal
)

// editModel is the search + edit screen. It owns the controller; every
// database call runs as a tea.Cmd.
type editModel struct {
	deps Deps
	user stores.User
	ctrl *editor.Controller

	picker  areaPicker
	detail  detailPicker
	table   tableView
	headers map[string]headerText

	focus editFocus
	mode  editMode
	modal modal

	cellInput   textinput.Model
	filterInput textinput.Model
	filterBlank bool

	busy     bool
	status   string
	searched bool

	width  int
	height int
}

func newEditModel(deps Deps, user stores.User) editModel {
	cellInput := textinput.New()
	cellInput.CharLimit = 255

	filterInput := textinput.New()
	filterInput.Placeholder = "ข้อความที่ต้องการกรอง"

	return editModel{
		deps:        deps,
		user:        user,
		ctrl:        editor.NewController(deps.Records, deps.Rules, user.Fullname, deps.Log),
		picker:      newAreaPicker(deps.Location),
		detail:      newDetailPicker(deps.Records),
		headers:     make(map[string]headerText),
		cellInput:   cellInput,
		filterInput: filterInput,
	}
}

func (m *editModel) Init() tea.Cmd {
	return nil
}

func (m *editModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.table.width = width
	// area row, detail row, blank, two header lines, status bar, help bar
	m.table.height = height - 7
}

// searchMsg carries the result of an asynchronous search or page load.
type searchMsg struct {
	err error
}

// saveMsg carries the result of an asynchronous save.
type saveMsg struct {
	affected int
	err      error
}

func (m *editModel) searchCmd(conds query.Conditions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		return searchMsg{err: m.ctrl.Search(ctx, conds)}
	}
}

func (m *editModel) pageCmd(page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		return searchMsg{err: m.ctrl.SetPage(ctx, page)}
	}
}

func (m *editModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		affected, err := m.ctrl.Save(ctx)
		return saveMsg{affected: affected, err: err}
	}
}

func (m *editModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailOptionsMsg:
		if msg.err != nil {
			m.deps.Log.Error().Err(msg.err).
				Str("field", detailLevels[msg.level].field).
				Msg("load selector options failed")
			m.status = "ไม่สามารถโหลดตัวเลือกได้"
		}
		m.detail.setOptions(msg)
		return nil

	case searchMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, query.ErrNoCriteria) {
				m.status = msg.err.Error()
				return nil
			}
			m.deps.Log.Error().Err(msg.err).Msg("search failed")
			m.mode = modeModal
			m.modal = messageModal("ไม่สามารถค้นหาข้อมูลได้", msg.err.Error())
			return nil
		}
		m.searched = true
		m.refreshHeaders()
		m.table.clampCursor(len(m.ctrl.Displayed()))
		m.status = fmt.Sprintf("พบ %d รายการ", m.ctrl.Total())
		return nil

	case saveMsg:
		m.busy = false
		if msg.err != nil {
			var verr *editor.ValidationError
			if errors.As(msg.err, &verr) {
				m.mode = modeModal
				m.modal = errorModal("ไม่สามารถบันทึกได้", verr.Problems)
				return nil
			}
			m.deps.Log.Error().Err(msg.err).Msg("save failed")
			m.mode = modeModal
			m.modal = messageModal("บันทึกล้มเหลว", msg.err.Error())
			return nil
		}
		m.status = fmt.Sprintf("บันทึกแล้ว %d แถว", msg.affected)
		if m.mode == modeModal && m.modal.kind == modalConfirmLeave {
			return m.resumePending()
		}
		return nil

	case tea.KeyMsg:
		if m.busy {
			if msg.String() == "ctrl+c" {
				return tea.Quit
			}
			return nil
		}
		switch m.mode {
		case modeModal:
			return m.updateModal(msg)
		case modeEditCell:
			return m.updateCellEdit(msg)
		case modeFilter:
			return m.updateFilter(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return nil
}

func (m *editModel) refreshHeaders() {
	if len(m.table.columns) > 0 {
		return
	}
	fields := displayColumns(m.deps.Columns.Fields(), m.ctrl.Fields())
	m.headers = buildHeaders(m.deps.Columns, fields)
	m.table = newTableView(fields)
	m.table.width = m.width
	m.table.height = m.height - 7
}

// displayColumns orders the table by the workbook display order,
// keeping only columns present in the queried table. Falls back to the
// queried order when the workbook covers none of them.
func displayColumns(ordered, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, f := range available {
		have[f] = struct{}{}
	}
	out := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if _, ok := have[f]; ok {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return available
	}
	return out
}

// buildHeaders splits each display name into its two header lines.
func buildHeaders(columns *codelist.ColumnMap, fields []string) map[string]headerText {
	out := make(map[string]headerText, len(fields))
	for _, f := range fields {
		main, sub := columns.FormatHeader(columns.ColumnName(f))
		out[f] = headerText{main: main, sub: sub}
	}
	return out
}

func (m *editModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit

	case "tab":
		switch m.focus {
		case focusArea:
			m.focus = focusDetail
			return m.loadDetailOptions()
		case focusDetail:
			m.focus = focusTable
			return nil
		default:
			m.focus = focusArea
			return nil
		}

	case "ctrl+q":
		if m.ctrl.Dirty() {
			m.mode = modeModal
			m.modal = confirmLeaveModal(actionLogout, 0)
			return nil
		}
		return func() tea.Msg { return loggedOutMsg{} }

	case "ctrl+s":
		if !m.ctrl.Dirty() {
			m.status = "ไม่มีข้อมูลที่ต้องบันทึก"
			return nil
		}
		m.busy = true
		return m.saveCmd()

	case "ctrl+l":
		if m.ctrl.Dirty() {
			m.mode = modeModal
			m.modal = confirmLeaveModal(actionClear, 0)
			return nil
		}
		m.clearSearch()
		return nil
	}

	switch m.focus {
	case focusArea:
		return m.updateArea(msg)
	case focusDetail:
		return m.updateDetail(msg)
	}
	return m.updateTable(msg)
}

func (m *editModel) updateArea(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		m.picker.focusPrev()
	case "down":
		m.picker.focusNext()
	case "left":
		m.picker.change(-1)
		m.detail.invalidate()
	case "right":
		m.picker.change(1)
		m.detail.invalidate()
	case "enter":
		if m.ctrl.Dirty() {
			m.mode = modeModal
			m.modal = confirmLeaveModal(actionSearch, 0)
			return nil
		}
		return m.startSearch()
	}
	return nil
}

func (m *editModel) updateDetail(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		m.detail.focusPrev()
		return m.loadDetailOptions()
	case "down":
		m.detail.focusNext()
		return m.loadDetailOptions()
	case "left":
		m.detail.change(-1)
	case "right":
		m.detail.change(1)
	case "enter":
		if m.ctrl.Dirty() {
			m.mode = modeModal
			m.modal = confirmLeaveModal(actionSearch, 0)
			return nil
		}
		return m.startSearch()
	}
	return nil
}

// loadDetailOptions fetches distinct values for the focused detail
// level, scoped by the named-area selection and every level above it.
func (m *editModel) loadDetailOptions() tea.Cmd {
	level := m.detail.focus
	if !m.detail.needsLoad(level) {
		return nil
	}
	scope := m.picker.conditions()
	for col, c := range m.detail.conditionsAbove(level) {
		scope[col] = c
	}
	return m.detail.loadCmd(level, scope)
}

// searchConditions merges both selector rows.
func (m *editModel) searchConditions() query.Conditions {
	conds := m.picker.conditions()
	for col, c := range m.detail.conditions() {
		conds[col] = c
	}
	return conds
}

func (m *editModel) startSearch() tea.Cmd {
	conds := m.searchConditions()
	if len(conds) == 0 {
		m.status = query.ErrNoCriteria.Error()
		return nil
	}
	m.busy = true
	m.status = "กำลังค้นหา..."
	m.focus = focusTable
	return m.searchCmd(conds)
}

func (m *editModel) updateTable(msg tea.KeyMsg) tea.Cmd {
	rows := m.ctrl.Displayed()

	switch msg.String() {
	case "up":
		m.table.moveCursor(-1, 0, len(rows))
	case "down":
		m.table.moveCursor(1, 0, len(rows))
	case "left":
		m.table.moveCursor(0, -1, len(rows))
	case "right":
		m.table.moveCursor(0, 1, len(rows))

	case "pgup":
		return m.changePage(m.ctrl.Page() - 1)
	case "pgdown":
		return m.changePage(m.ctrl.Page() + 1)

	case "enter":
		return m.startCellEdit(rows)

	case "ctrl+f":
		return m.startFilter()

	case "ctrl+g":
		m.ctrl.ClearFilters()
		m.filterBlank = false
		m.status = "ล้างตัวกรองแล้ว"

	case "ctrl+h":
		m.table.toggleHideCurrent()

	case "ctrl+u":
		m.table.showAll()
	}
	return nil
}

func (m *editModel) changePage(page int) tea.Cmd {
	if !m.searched || page < 1 || page > m.ctrl.TotalPages() || page == m.ctrl.Page() {
		return nil
	}
	if m.ctrl.Dirty() {
		m.mode = modeModal
		m.modal = confirmLeaveModal(actionPage, page)
		return nil
	}
	m.busy = true
	return m.pageCmd(page)
}

func (m *editModel) startCellEdit(rows []editor.Row) tea.Cmd {
	if m.table.row >= len(rows) {
		return nil
	}
	field := m.table.currentColumn()
	if field == "" {
		return nil
	}
	if !m.deps.Rules.IsEditable(field) {
		m.status = fmt.Sprintf("ไม่สามารถแก้ไขคอลัมน์ '%s' ได้", m.deps.Rules.DisplayName(field))
		return nil
	}

	m.mode = modeEditCell
	m.cellInput.SetValue(rows[m.table.row].Record[field])
	m.cellInput.CursorEnd()
	return m.cellInput.Focus()
}

func (m *editModel) updateCellEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.cellInput.Blur()
		return nil

	case "enter":
		rows := m.ctrl.Displayed()
		if m.table.row >= len(rows) {
			m.mode = modeBrowse
			m.cellInput.Blur()
			return nil
		}
		field := m.table.currentColumn()
		_, err := m.ctrl.OnCellChanged(rows[m.table.row].Key, field, m.cellInput.Value())
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("ค้างบันทึก %d รายการ", m.ctrl.EditCount())
		}
		m.mode = modeBrowse
		m.cellInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.cellInput, cmd = m.cellInput.Update(msg)
	return cmd
}

func (m *editModel) startFilter() tea.Cmd {
	field := m.table.currentColumn()
	if field == "" {
		return nil
	}
	m.mode = modeFilter
	current := m.ctrl.Filters()[field]
	m.filterInput.SetValue(current.Text)
	m.filterBlank = current.ShowBlank
	m.filterInput.CursorEnd()
	return m.filterInput.Focus()
}

func (m *editModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.filterInput.Blur()
		return nil

	case "ctrl+b":
		m.filterBlank = !m.filterBlank
		return nil

	case "enter":
		field := m.table.currentColumn()
		m.ctrl.ApplyFilter(field, editor.Filter{
			Text:      m.filterInput.Value(),
			ShowBlank: m.filterBlank,
		})
		m.table.clampCursor(len(m.ctrl.Displayed()))
		m.mode = modeBrowse
		m.filterInput.Blur()
		m.status = fmt.Sprintf("แสดง %d รายการ", len(m.ctrl.Displayed()))
		return nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

func (m *editModel) updateModal(msg tea.KeyMsg) tea.Cmd {
	if m.modal.kind != modalConfirmLeave {
		switch msg.String() {
		case "enter", "esc":
			m.mode = modeBrowse
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return nil
	case "up":
		m.modal.cycleChoice(-1)
		return nil
	case "down":
		m.modal.cycleChoice(1)
		return nil
	case "enter":
		switch m.modal.choice {
		case choiceSave:
			m.busy = true
			return m.saveCmd()
		case choiceDiscard:
			m.ctrl.DiscardEdits()
			return m.resumePending()
		default:
			m.mode = modeBrowse
			return nil
		}
	}
	return nil
}

// resumePending continues the action that was interrupted by the
// unsaved-edits modal.
func (m *editModel) resumePending() tea.Cmd {
	action, page := m.modal.action, m.modal.page
	m.mode = modeBrowse
	m.modal = modal{}

	switch action {
	case actionSearch:
		return m.startSearch()
	case actionPage:
		m.busy = true
		return m.pageCmd(page)
	case actionClear:
		m.clearSearch()
		return nil
	case actionLogout:
		return func() tea.Msg { return loggedOutMsg{} }
	}
	return nil
}

// clearSearch resets both selector rows, filters, and pending edits.
func (m *editModel) clearSearch() {
	m.picker.clear()
	m.detail.clear()
	m.ctrl.DiscardEdits()
	m.ctrl.ClearFilters()
	m.focus = focusArea
	m.status = ""
}

func (m *editModel) View() string {
	if m.mode == modeModal {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modal.view())
	}

	var body string
	switch {
	case !m.searched:
		body = styles.Subtitle.Render("เลือกพื้นที่แล้วกด enter เพื่อค้นหา")
	default:
		body = m.table.render(m.ctrl, m.deps.Rules, m.headers, m.mode == modeEditCell, m.cellInput.View())
	}

	if m.mode == modeFilter {
		blank := "[ ] เฉพาะค่าว่าง"
		if m.filterBlank {
			blank = "[x] เฉพาะค่าว่าง"
		}
		prompt := fmt.Sprintf("กรอง '%s': %s  %s", m.deps.Columns.ColumnName(m.table.currentColumn()), m.filterInput.View(), blank)
		body = lipgloss.JoinVertical(lipgloss.Left, body, styles.ModalBorder.Render(prompt))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.picker.view(m.focus == focusArea),
		m.detail.view(m.focus == focusDetail),
		"",
		body,
		m.statusBar(),
		m.helpBar(),
	)
}

func (m *editModel) statusBar() string {
	left := fmt.Sprintf(" %s", m.user.Fullname)
	middle := m.status
	right := ""
	if m.searched && m.ctrl.TotalPages() > 0 {
		right = fmt.Sprintf("หน้า %d/%d · %d รายการ ", m.ctrl.Page(), m.ctrl.TotalPages(), m.ctrl.Total())
	}
	if n := m.ctrl.EditCount(); n > 0 {
		middle = fmt.Sprintf("%s · แก้ไขค้าง %d", middle, n)
	}

	bar := fmt.Sprintf("%s │ %s │ %s", left, middle, right)
	return styles.StatusBar.Width(m.width).Render(bar)
}

func (m *editModel) helpBar() string {
	entries := [][2]string{
		{"enter", "แก้ไข/ค้นหา"},
		{"ctrl+s", "บันทึก"},
		{"ctrl+f", "กรอง"},
		{"ctrl+l", "ล้าง"},
		{"pgup/pgdn", "เปลี่ยนหน้า"},
		{"ctrl+q", "ออกจากระบบ"},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, styles.HelpKey.Render(e[0])+" "+styles.HelpText.Render(e[1]))
	}
	return strings.Join(parts, "  ")
}
