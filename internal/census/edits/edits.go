// Package edits tracks unsaved cell edits keyed by the logical primary-key
// tuple of the edited row plus the field name. Keying by row identity (not
// visual position) is what lets pending edits survive server-side
// pagination and column filtering.
package edits

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// PKWidth is the number of fields in the logical primary key.
const PKWidth = 4

// RowKey identifies one logical row by its primary-key values in field
// order (area code, building, household, population number).
type RowKey [PKWidth]string

// KeyFor extracts the RowKey from a record using the ordered PK fields.
func KeyFor(record map[string]string, pkFields []string) RowKey {
	var key RowKey
	for i, f := range pkFields {
		if i >= PKWidth {
			break
		}
		key[i] = Normalize(record[f])
	}
	return key
}

type cellEdit struct {
	value    string
	original string
}

// Tracker records pending edits for one edit session. The zero value is
// not usable; construct with New.
type Tracker struct {
	rows map[RowKey]map[string]cellEdit
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{rows: make(map[RowKey]map[string]cellEdit)}
}

// Set records a pending edit, or removes an existing one when the new
// value matches the original after normalization. It returns true when a
// pending edit exists for the cell after the call.
func (t *Tracker) Set(row RowKey, field, newValue, original string) bool {
	if Normalize(newValue) == Normalize(original) {
		t.remove(row, field)
		return false
	}

	fields, ok := t.rows[row]
	if !ok {
		fields = make(map[string]cellEdit)
		t.rows[row] = fields
	}
	fields[field] = cellEdit{value: newValue, original: original}
	return true
}

// Get returns the pending value for a cell.
func (t *Tracker) Get(row RowKey, field string) (string, bool) {
	ce, ok := t.rows[row][field]
	if !ok {
		return "", false
	}
	return ce.value, true
}

// Original returns the value the cell held before the first pending edit.
func (t *Tracker) Original(row RowKey, field string) (string, bool) {
	ce, ok := t.rows[row][field]
	if !ok {
		return "", false
	}
	return ce.original, true
}

// Has reports whether a cell has a pending edit.
func (t *Tracker) Has(row RowKey, field string) bool {
	_, ok := t.rows[row][field]
	return ok
}

// HasRow reports whether any field of the row has a pending edit.
func (t *Tracker) HasRow(row RowKey) bool {
	return len(t.rows[row]) > 0
}

func (t *Tracker) remove(row RowKey, field string) {
	fields, ok := t.rows[row]
	if !ok {
		return
	}
	delete(fields, field)
	if len(fields) == 0 {
		delete(t.rows, row)
	}
}

// Dirty reports whether any pending edit exists.
func (t *Tracker) Dirty() bool {
	return len(t.rows) > 0
}

// Len returns the total number of pending cell edits.
func (t *Tracker) Len() int {
	n := 0
	for _, fields := range t.rows {
		n += len(fields)
	}
	return n
}

// Rows returns the edited row keys in a stable order.
func (t *Tracker) Rows() []RowKey {
	keys := make([]RowKey, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for f := 0; f < PKWidth; f++ {
			if keys[i][f] != keys[j][f] {
				return keys[i][f] < keys[j][f]
			}
		}
		return false
	})
	return keys
}

// FieldsFor returns the pending field → value edits for one row.
func (t *Tracker) FieldsFor(row RowKey) map[string]string {
	fields := t.rows[row]
	out := make(map[string]string, len(fields))
	for f, ce := range fields {
		out[f] = ce.value
	}
	return out
}

// ClearRows drops all pending edits for the given rows. Used after a
// successful save of exactly those rows.
func (t *Tracker) ClearRows(rows []RowKey) {
	for _, r := range rows {
		delete(t.rows, r)
	}
}

// Clear drops every pending edit.
func (t *Tracker) Clear() {
	t.rows = make(map[RowKey]map[string]cellEdit)
}

// Normalize maps a raw cell value to its canonical comparison form:
// surrounding whitespace stripped, and decimal representations of
// mathematically integral numbers ("5.0") reduced to their integer form
// ("5"). Zero-padded codes ("0001") are left untouched.
func Normalize(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return s
}
