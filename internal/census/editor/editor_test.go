package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piyawatc/censedit/internal/census/edits"
	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/census/rules"
	"github.com/piyawatc/censedit/internal/data/stores"
)

var pkFields = []string{"EA_Code_15", "Building_No", "Household_No", "Population_No"}

// fakeSource is an in-memory record source. Conditions are accepted but
// not evaluated; every row is part of every search result.
type fakeSource struct {
	fields    []string
	rows      []stores.Record
	saveCalls int
	saveErr   error
}

func (f *fakeSource) FetchAllFields(context.Context) ([]string, error) {
	return f.fields, nil
}

func (f *fakeSource) Count(context.Context, query.Conditions) (int, error) {
	return len(f.rows), nil
}

func (f *fakeSource) Search(_ context.Context, _ query.Conditions, _ []string, page int) ([]stores.Record, []string, error) {
	lo := (page - 1) * query.RecordsPerPage
	if lo >= len(f.rows) {
		return nil, f.fields, nil
	}
	hi := lo + query.RecordsPerPage
	if hi > len(f.rows) {
		hi = len(f.rows)
	}
	out := make([]stores.Record, 0, hi-lo)
	for _, rec := range f.rows[lo:hi] {
		cp := make(stores.Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out, f.fields, nil
}

func (f *fakeSource) SaveRows(_ context.Context, records []stores.Record, _ []string) (int, error) {
	f.saveCalls++
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	affected := 0
	for _, rec := range records {
		for _, row := range f.rows {
			if !samePK(row, rec) {
				continue
			}
			for k, v := range rec {
				row[k] = v
			}
			affected++
		}
	}
	return affected, nil
}

func samePK(a, b stores.Record) bool {
	for _, f := range pkFields {
		if a[f] != b[f] {
			return false
		}
	}
	return true
}

func testRules(t *testing.T) *rules.Set {
	t.Helper()
	table := map[string]rules.Rule{
		"Sex": {
			Kind:        rules.KindOptions,
			Allowed:     rules.AllowedSet("1", "2"),
			Description: "ต้องเป็น 1 หรือ 2",
		},
		"Age": {Kind: rules.KindIntRange, Min: 0, Max: 120, Description: "ต้องอยู่ระหว่าง 0 ถึง 120"},
	}
	return rules.New(table, pkFields, []string{"FirstName"}, nil)
}

func testRecord(t *testing.T, pop, sex, name string) stores.Record {
	t.Helper()
	return stores.Record{
		"EA_Code_15":    "100000000000001",
		"Building_No":   "0001",
		"Household_No":  "0001",
		"Population_No": pop,
		"Sex":           sex,
		"FirstName":     name,
		"Age":           "30",
	}
}

func keyFor(rec stores.Record) edits.RowKey {
	return edits.KeyFor(rec, pkFields)
}

func testController(t *testing.T, src *fakeSource) *Controller {
	t.Helper()
	c := NewController(src, testRules(t), "สมชาย ทดสอบ", zerolog.Nop())
	require.NoError(t, c.Search(context.Background(), query.Conditions{
		"RegCode": query.Exact("1"),
	}))
	return c
}

func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()
	return &fakeSource{
		fields: []string{
			"EA_Code_15", "Building_No", "Household_No", "Population_No",
			"Sex", "FirstName", "Age", "fullname", "time_edit",
		},
		rows: []stores.Record{
			testRecord(t, "0001", "1", "สมหญิง"),
			testRecord(t, "0002", "2", "สมปอง"),
			testRecord(t, "0003", "1", "สมศรี"),
		},
	}
}

func TestControllerSearch(t *testing.T) {
	c := testController(t, newFakeSource(t))

	assert.Equal(t, 3, c.Total())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 1, c.TotalPages())
	assert.Len(t, c.Displayed(), 3)
}

func TestControllerSearchNoCriteria(t *testing.T) {
	c := NewController(newFakeSource(t), testRules(t), "x", zerolog.Nop())

	err := c.Search(context.Background(), query.Conditions{})
	assert.ErrorIs(t, err, query.ErrNoCriteria)
}

func TestControllerCellChange(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[0])

	pending, err := c.OnCellChanged(key, "Sex", "2")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.True(t, c.Dirty())
	assert.True(t, c.CellEdited(key, "Sex"))
	assert.Equal(t, "2", c.Displayed()[0].Record["Sex"])

	// typing the original value back removes the pending edit
	pending, err = c.OnCellChanged(key, "Sex", "1")
	require.NoError(t, err)
	assert.False(t, pending)
	assert.False(t, c.Dirty())
}

func TestControllerCellChangeRejectsProtectedFields(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[0])

	_, err := c.OnCellChanged(key, "Population_No", "0009")
	assert.Error(t, err)

	_, err = c.OnCellChanged(key, "FirstName", "ใหม่")
	assert.Error(t, err)
	assert.False(t, c.Dirty())
}

func TestControllerFilterSeesEditedValues(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[1])

	_, err := c.OnCellChanged(key, "Sex", "1")
	require.NoError(t, err)

	c.ApplyFilter("Sex", Filter{Text: "1"})
	rows := c.Displayed()
	assert.Len(t, rows, 3, "row edited into the match must stay visible")

	c.ClearFilters()
	assert.True(t, c.Dirty(), "filters must not touch pending edits")
	assert.Len(t, c.Displayed(), 3)
}

func TestControllerFilterShowBlank(t *testing.T) {
	src := newFakeSource(t)
	src.rows[2]["Sex"] = ""
	c := testController(t, src)

	c.ApplyFilter("Sex", Filter{ShowBlank: true})
	rows := c.Displayed()
	require.Len(t, rows, 1)
	assert.Equal(t, "0003", rows[0].Record["Population_No"])
}

func TestControllerSave(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	c.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	key := keyFor(src.rows[0])

	_, err := c.OnCellChanged(key, "Sex", "2")
	require.NoError(t, err)

	affected, err := c.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.Equal(t, 1, src.saveCalls)
	assert.False(t, c.Dirty())

	saved := src.rows[0]
	assert.Equal(t, "2", saved["Sex"])
	assert.Equal(t, "สมชาย ทดสอบ", saved["fullname"])
	assert.Equal(t, "2026-03-14 09:30:00", saved["time_edit"])

	// page was re-queried after the save
	assert.Equal(t, "2", c.Displayed()[0].Record["Sex"])
}

func TestControllerSaveValidationFailure(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[1])

	_, err := c.OnCellChanged(key, "Sex", "9")
	require.NoError(t, err)

	_, err = c.Save(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 1)
	assert.Equal(t, "แถว 2, คอลัมน์ 'Sex': ต้องเป็น 1 หรือ 2", verr.Problems[0])

	assert.Zero(t, src.saveCalls, "nothing may be written on validation failure")
	assert.True(t, c.Dirty(), "failed save keeps the pending edits")
}

func TestControllerSaveHiddenRowLabel(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[1])

	_, err := c.OnCellChanged(key, "Age", "999")
	require.NoError(t, err)

	// hide the edited row behind a filter it cannot match
	c.ApplyFilter("FirstName", Filter{Text: "สมหญิง"})

	_, err = c.Save(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 1)
	assert.Equal(t, "แถว ?, คอลัมน์ 'Age': ต้องอยู่ระหว่าง 0 ถึง 120", verr.Problems[0])
}

func TestControllerSaveStoreError(t *testing.T) {
	src := newFakeSource(t)
	src.saveErr = errors.New("deadlock victim")
	c := testController(t, src)
	key := keyFor(src.rows[0])

	_, err := c.OnCellChanged(key, "Sex", "2")
	require.NoError(t, err)

	_, err = c.Save(context.Background())
	require.Error(t, err)
	assert.True(t, c.Dirty(), "edits survive a failed write")
}

func TestControllerDiscardEdits(t *testing.T) {
	src := newFakeSource(t)
	c := testController(t, src)
	key := keyFor(src.rows[0])

	_, err := c.OnCellChanged(key, "Sex", "2")
	require.NoError(t, err)
	require.True(t, c.Dirty())

	c.DiscardEdits()
	assert.False(t, c.Dirty())
	assert.Equal(t, "1", c.Displayed()[0].Record["Sex"])
}
