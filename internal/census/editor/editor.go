// Package editor holds the edit-screen controller: the state machine that
// sits between the TUI and the record store. It owns the current search
// conditions, the loaded page of records, the local header filters, and
// the pending-edit tracker, so the terminal layer stays a thin view.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/piyawatc/censedit/internal/census/edits"
	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/census/rules"
	"github.com/piyawatc/censedit/internal/data/stores"
)

// RecordSource is the slice of the record store the controller depends on.
type RecordSource interface {
	FetchAllFields(ctx context.Context) ([]string, error)
	Count(ctx context.Context, conds query.Conditions) (int, error)
	Search(ctx context.Context, conds query.Conditions, fields []string, page int) ([]stores.Record, []string, error)
	SaveRows(ctx context.Context, records []stores.Record, allFields []string) (int, error)
}

// Filter narrows the displayed rows of the loaded page by one column.
// ShowBlank wins over Text, matching the search-condition builder.
type Filter struct {
	Text      string
	ShowBlank bool
}

func (f Filter) inert() bool {
	return !f.ShowBlank && strings.TrimSpace(f.Text) == ""
}

// Row is one displayed record with pending edits merged in, paired with
// the identity the edit tracker keys on.
type Row struct {
	Key    edits.RowKey
	Record stores.Record
}

// ValidationError carries every problem found while validating the
// pending edits of a save batch. Nothing is written when it is returned.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("พบข้อผิดพลาด %d รายการ: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// ErrRowNotLoaded is returned from Save when a pending edit references a
// row that is no longer part of the loaded page.
var ErrRowNotLoaded = errors.New("แถวที่แก้ไขไม่อยู่ในหน้าปัจจุบัน")

// Controller orchestrates one edit session over the record table.
type Controller struct {
	source RecordSource
	rules  *rules.Set
	log    zerolog.Logger

	fullname string
	now      func() time.Time

	tracker *edits.Tracker

	conds     query.Conditions
	allFields []string
	page      int
	total     int
	rows      []stores.Record
	filters   map[string]Filter
}

// NewController creates a controller for the given user. fullname is
// stamped into the audit columns on save.
func NewController(source RecordSource, ruleSet *rules.Set, fullname string, log zerolog.Logger) *Controller {
	return &Controller{
		source:   source,
		rules:    ruleSet,
		log:      log,
		fullname: fullname,
		now:      time.Now,
		tracker:  edits.New(),
		filters:  make(map[string]Filter),
	}
}

// Search runs a fresh query: count, reset to page one, drop header
// filters. Pending edits are left alone; the view layer is responsible
// for resolving them (save or discard) before calling Search.
func (c *Controller) Search(ctx context.Context, conds query.Conditions) error {
	if _, _, err := conds.Build(); err != nil {
		return err
	}

	if c.allFields == nil {
		fields, err := c.source.FetchAllFields(ctx)
		if err != nil {
			return err
		}
		c.allFields = fields
	}

	total, err := c.source.Count(ctx, conds)
	if err != nil {
		return err
	}

	c.conds = conds
	c.total = total
	c.page = 1
	c.filters = make(map[string]Filter)

	if err := c.loadPage(ctx); err != nil {
		return err
	}

	c.log.Debug().Int("total", total).Int("loaded", len(c.rows)).Msg("search complete")
	return nil
}

// SetPage loads another page of the current search. The page number is
// clamped to the valid range.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if c.conds == nil {
		return nil
	}
	if last := c.TotalPages(); page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	if page == c.page {
		return nil
	}
	c.page = page
	return c.loadPage(ctx)
}

func (c *Controller) loadPage(ctx context.Context) error {
	rows, _, err := c.source.Search(ctx, c.conds, c.allFields, c.page)
	if err != nil {
		return err
	}
	c.rows = rows
	return nil
}

// Page returns the current 1-based page number.
func (c *Controller) Page() int { return c.page }

// Total returns the row count of the current search.
func (c *Controller) Total() int { return c.total }

// TotalPages returns the number of pages in the current search.
func (c *Controller) TotalPages() int {
	if c.total == 0 {
		return 0
	}
	return (c.total + query.RecordsPerPage - 1) / query.RecordsPerPage
}

// Fields returns the table columns in database order.
func (c *Controller) Fields() []string { return c.allFields }

// ApplyFilter sets or clears the header filter for one column.
func (c *Controller) ApplyFilter(field string, f Filter) {
	if f.inert() {
		delete(c.filters, field)
		return
	}
	c.filters[field] = f
}

// ClearFilters drops every header filter.
func (c *Controller) ClearFilters() {
	c.filters = make(map[string]Filter)
}

// Filters returns the active header filters by column.
func (c *Controller) Filters() map[string]Filter {
	out := make(map[string]Filter, len(c.filters))
	for k, v := range c.filters {
		out[k] = v
	}
	return out
}

// Displayed returns the loaded page with pending edits merged in, then
// narrowed by the active header filters. Filtering sees edited values, so
// a row edited into a filter match stays visible.
func (c *Controller) Displayed() []Row {
	out := make([]Row, 0, len(c.rows))
	for _, rec := range c.rows {
		row := Row{Key: edits.KeyFor(rec, c.rules.PKFields()), Record: c.merged(rec)}
		if c.matches(row.Record) {
			out = append(out, row)
		}
	}
	return out
}

func (c *Controller) merged(rec stores.Record) stores.Record {
	key := edits.KeyFor(rec, c.rules.PKFields())
	merged := make(stores.Record, len(rec))
	for k, v := range rec {
		merged[k] = v
	}
	for field, value := range c.tracker.FieldsFor(key) {
		merged[field] = value
	}
	return merged
}

func (c *Controller) matches(rec stores.Record) bool {
	for field, f := range c.filters {
		value := strings.TrimSpace(rec[field])
		if f.ShowBlank {
			if value != "" {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(f.Text))) {
			return false
		}
	}
	return true
}

// CellEdited reports whether a cell holds a pending edit.
func (c *Controller) CellEdited(key edits.RowKey, field string) bool {
	return c.tracker.Has(key, field)
}

// Dirty reports whether any pending edit exists.
func (c *Controller) Dirty() bool { return c.tracker.Dirty() }

// EditCount returns the number of pending cell edits.
func (c *Controller) EditCount() int { return c.tracker.Len() }

// OnCellChanged records a cell edit. Primary-key and non-editable fields
// are rejected so the view can revert the cell. The returned bool reports
// whether the cell holds a pending edit after the call; entering a value
// equal to the original removes any earlier edit.
func (c *Controller) OnCellChanged(key edits.RowKey, field, newValue string) (bool, error) {
	if !c.rules.IsEditable(field) {
		return c.tracker.Has(key, field), fmt.Errorf("ไม่สามารถแก้ไขคอลัมน์ '%s' ได้", c.rules.DisplayName(field))
	}

	original, ok := c.originalValue(key, field)
	if !ok {
		return false, ErrRowNotLoaded
	}
	return c.tracker.Set(key, field, newValue, original), nil
}

// originalValue is the value the cell held before any pending edit: the
// tracked original if one exists, otherwise the loaded page value.
func (c *Controller) originalValue(key edits.RowKey, field string) (string, bool) {
	if orig, ok := c.tracker.Original(key, field); ok {
		return orig, true
	}
	for _, rec := range c.rows {
		if edits.KeyFor(rec, c.rules.PKFields()) == key {
			return rec[field], true
		}
	}
	return "", false
}

// DiscardEdits drops every pending edit.
func (c *Controller) DiscardEdits() {
	c.tracker.Clear()
}

// Save validates every pending edit, merges them onto the loaded records,
// stamps the audit columns, and writes all edited rows in one
// transaction. On any validation failure nothing is written and the full
// problem list is returned as a *ValidationError. On success the saved
// edits are cleared and the current page reloaded.
func (c *Controller) Save(ctx context.Context) (int, error) {
	keys := c.tracker.Rows()
	if len(keys) == 0 {
		return 0, nil
	}

	if problems := c.validatePending(keys); len(problems) > 0 {
		return 0, &ValidationError{Problems: problems}
	}

	records := make([]stores.Record, 0, len(keys))
	for _, key := range keys {
		rec, ok := c.loadedRecord(key)
		if !ok {
			return 0, ErrRowNotLoaded
		}
		merged := c.merged(rec)
		merged[stores.AuditFullnameColumn] = c.fullname
		merged[stores.AuditTimeColumn] = c.now().Format("2006-01-02 15:04:05")
		records = append(records, merged)
	}

	affected, err := c.source.SaveRows(ctx, records, c.allFields)
	if err != nil {
		return 0, err
	}

	c.tracker.ClearRows(keys)
	if err := c.loadPage(ctx); err != nil {
		return affected, err
	}

	c.log.Info().Int("rows", len(records)).Int("affected", affected).Msg("saved edits")
	return affected, nil
}

// validatePending checks every tracked edit, labelling each problem with
// the 1-based row number in the current display, or "?" when the row is
// hidden by a header filter.
func (c *Controller) validatePending(keys []edits.RowKey) []string {
	labels := make(map[edits.RowKey]string, len(keys))
	for i, row := range c.Displayed() {
		labels[row.Key] = strconv.Itoa(i + 1)
	}

	var problems []string
	for _, key := range keys {
		label, ok := labels[key]
		if !ok {
			label = "?"
		}

		pending := c.tracker.FieldsFor(key)
		fields := make([]string, 0, len(pending))
		for f := range pending {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, field := range fields {
			if err := c.rules.ValidateFieldAt(field, pending[field], label); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}
	return problems
}

func (c *Controller) loadedRecord(key edits.RowKey) (stores.Record, bool) {
	for _, rec := range c.rows {
		if edits.KeyFor(rec, c.rules.PKFields()) == key {
			return rec, true
		}
	}
	return nil, false
}
