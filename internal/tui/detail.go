package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/core/styles"
)

// blankLabel is the explicit empty-value choice; it matches rows where
// the column itself is NULL or blank, unlike noneLabel which drops the
// column from the search entirely.
const blankLabel = "— ค่าว่าง —"

// distinctSource is the slice of the record store the detail picker
// needs: memoized distinct-value lookups under a WHERE fragment.
type distinctSource interface {
	DistinctValues(ctx context.Context, field, where string, args []any) ([]string, error)
	InvalidateCache()
}

type detailLevel struct {
	field string
	label string
}

// detailLevels sit below the named-area row. Their options come from
// the distinct values of the column, scoped by everything selected
// above them.
var detailLevels = [4]detailLevel{
	{field: "EA_Code_15", label: "เขตแจงนับ"},
	{field: "Building_No", label: "อาคาร"},
	{field: "Household_No", label: "ครัวเรือน"},
	{field: "Population_No", label: "ลำดับสมาชิก"},
}

// detailOptionsMsg delivers one level's distinct values. gen ties the
// result to the scope it was requested under.
type detailOptionsMsg struct {
	level  int
	gen    int
	values []string
	err    error
}

// detailPicker is the lower selector row. Options load lazily when a
// level gains focus and are dropped whenever anything above it changes.
type detailPicker struct {
	source    distinctSource
	selectors [len(detailLevels)]selector
	loaded    [len(detailLevels)]bool
	loading   [len(detailLevels)]bool
	focus     int
	gen       int
}

func newDetailPicker(source distinctSource) detailPicker {
	p := detailPicker{source: source}
	for i := range detailLevels {
		p.selectors[i] = newSelector(detailLevels[i].label, nil)
	}
	return p
}

func (p *detailPicker) focusNext() { p.focus = (p.focus + 1) % len(p.selectors) }

func (p *detailPicker) focusPrev() {
	p.focus = (p.focus - 1 + len(p.selectors)) % len(p.selectors)
}

// change cycles the focused selector and drops every level below it,
// whose options depend on this selection.
func (p *detailPicker) change(delta int) {
	p.selectors[p.focus].cycle(delta)
	p.dropFrom(p.focus + 1)
}

// invalidate drops all selections and loaded options; called when the
// named-area scope above the picker changes.
func (p *detailPicker) invalidate() {
	p.dropFrom(0)
}

func (p *detailPicker) dropFrom(level int) {
	p.gen++
	for i := level; i < len(p.selectors); i++ {
		p.selectors[i].reset(nil)
		p.loaded[i] = false
		p.loading[i] = false
	}
}

// clear resets the picker and the store's memoized lookups, so the next
// search round sees fresh values.
func (p *detailPicker) clear() {
	p.invalidate()
	p.focus = 0
	p.source.InvalidateCache()
}

func (p *detailPicker) needsLoad(level int) bool {
	return !p.loaded[level] && !p.loading[level]
}

// loadCmd fetches one level's distinct values under the given scope.
// The store memoizes per (field, scope), so refocusing a level is free
// when nothing above it moved.
func (p *detailPicker) loadCmd(level int, scope query.Conditions) tea.Cmd {
	p.loading[level] = true
	gen := p.gen
	return func() tea.Msg {
		where, args, err := scope.Build()
		if err != nil && !errors.Is(err, query.ErrNoCriteria) {
			return detailOptionsMsg{level: level, gen: gen, err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		values, err := p.source.DistinctValues(ctx, detailLevels[level].field, where, args)
		return detailOptionsMsg{level: level, gen: gen, values: values, err: err}
	}
}

// setOptions installs a loaded result, ignoring any that raced with a
// scope change. The blank choice is always offered first. The loading
// flag clears even for stale results; that request is finished either
// way and the level must stay loadable.
func (p *detailPicker) setOptions(msg detailOptionsMsg) {
	p.loading[msg.level] = false
	if msg.gen != p.gen || msg.err != nil {
		return
	}
	p.selectors[msg.level].reset(append([]string{blankLabel}, msg.values...))
	p.loaded[msg.level] = true
}

func (p *detailPicker) conditions() query.Conditions {
	return p.conditionsAbove(len(p.selectors))
}

// conditionsAbove returns the constraints from the levels before the
// given one; they scope that level's option query.
func (p *detailPicker) conditionsAbove(level int) query.Conditions {
	conds := query.Conditions{}
	for i := 0; i < level; i++ {
		switch v := p.selectors[i].value(); v {
		case "":
		case blankLabel:
			conds[detailLevels[i].field] = query.MatchBlank()
		default:
			conds[detailLevels[i].field] = query.Exact(v)
		}
	}
	return conds
}

func (p *detailPicker) view(active bool) string {
	parts := make([]string, 0, len(p.selectors))
	for i := range p.selectors {
		s := &p.selectors[i]
		value := s.value()
		if value == "" {
			value = noneLabel
		}
		cell := fmt.Sprintf("%s: %s", s.label, value)
		if active && i == p.focus {
			if p.loading[i] {
				cell += " …"
			}
			cell = styles.Cursor.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "  ")
}
