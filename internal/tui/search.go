package tui

import (
	"fmt"
	"strings"

	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/core/styles"
	"github.com/piyawatc/censedit/internal/data/stores"
)

// noneLabel is the first entry of every selector; choosing it clears the
// level and everything below it.
const noneLabel = "— ไม่เลือก —"

// areaSource is the slice of the location store the picker needs.
type areaSource interface {
	Regions() []string
	Provinces(region string) []string
	Districts(region, province string) []string
	Subdistricts(region, province, district string) []string
	Codes(sel stores.Selection) map[string]string
}

type selector struct {
	label   string
	options []string // options[0] is always the empty value
	index   int
}

func newSelector(label string, values []string) selector {
	return selector{label: label, options: append([]string{""}, values...)}
}

func (s *selector) value() string {
	return s.options[s.index]
}

func (s *selector) cycle(delta int) {
	n := len(s.options)
	s.index = ((s.index+delta)%n + n) % n
}

func (s *selector) reset(values []string) {
	s.options = append([]string{""}, values...)
	s.index = 0
}

// areaPicker is the cascading region → province → district → subdistrict
// selection row. Changing a level clears every level below it.
type areaPicker struct {
	source    areaSource
	selectors [4]selector
	focus     int
}

func newAreaPicker(source areaSource) areaPicker {
	p := areaPicker{source: source}
	p.selectors[0] = newSelector("ภาค", source.Regions())
	p.selectors[1] = newSelector("จังหวัด", source.Provinces(""))
	p.selectors[2] = newSelector("อำเภอ", source.Districts("", ""))
	p.selectors[3] = newSelector("ตำบล", source.Subdistricts("", "", ""))
	return p
}

func (p *areaPicker) focusNext() { p.focus = (p.focus + 1) % len(p.selectors) }

func (p *areaPicker) focusPrev() {
	p.focus = (p.focus - 1 + len(p.selectors)) % len(p.selectors)
}

// change cycles the focused selector and rebuilds all descendants.
func (p *areaPicker) change(delta int) {
	p.selectors[p.focus].cycle(delta)
	p.refreshBelow(p.focus)
}

func (p *areaPicker) refreshBelow(level int) {
	sel := p.selection()
	if level < 1 {
		p.selectors[1].reset(p.source.Provinces(sel.Region))
	}
	if level < 2 {
		sel = p.selection()
		p.selectors[2].reset(p.source.Districts(sel.Region, sel.Province))
	}
	if level < 3 {
		sel = p.selection()
		p.selectors[3].reset(p.source.Subdistricts(sel.Region, sel.Province, sel.District))
	}
}

func (p *areaPicker) selection() stores.Selection {
	return stores.Selection{
		Region:      p.selectors[0].value(),
		Province:    p.selectors[1].value(),
		District:    p.selectors[2].value(),
		Subdistrict: p.selectors[3].value(),
	}
}

// conditions translates the selected names into search conditions on the
// area code columns. Empty when nothing is selected.
func (p *areaPicker) conditions() query.Conditions {
	conds := query.Conditions{}
	for col, code := range p.source.Codes(p.selection()) {
		conds[col] = query.Exact(code)
	}
	return conds
}

func (p *areaPicker) clear() {
	p.selectors[0].index = 0
	p.refreshBelow(0)
	p.focus = 0
}

func (p *areaPicker) view(active bool) string {
	parts := make([]string, 0, len(p.selectors))
	for i := range p.selectors {
		s := &p.selectors[i]
		value := s.value()
		if value == "" {
			value = noneLabel
		}
		cell := fmt.Sprintf("%s: %s", s.label, value)
		if active && i == p.focus {
			cell = styles.Cursor.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "  ")
}
