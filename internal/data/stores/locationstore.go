package stores

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	locationFile  = "reg_prov_dist_subdist.xlsx"
	locationSheet = "Area_code"
)

// locationRow is one administrative area from the lookup workbook.
type locationRow struct {
	RegCode     string
	RegName     string
	ProvCode    string
	ProvName    string
	DistCode    string
	DistName    string
	SubDistCode string
	SubDistName string
}

// LocationStore serves the cascading region → province → district →
// subdistrict lookups from the bundled workbook. Data is loaded once at
// construction and held for the process lifetime.
type LocationStore struct {
	rows []locationRow
}

// NewLocationStore loads the administrative-area workbook from the
// assets directory.
func NewLocationStore(assetsDir string) (*LocationStore, error) {
	path := filepath.Join(assetsDir, locationFile)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", locationFile, err)
	}
	defer f.Close()

	rows, err := f.GetRows(locationSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", locationSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: sheet %s has no data rows", locationFile, locationSheet)
	}

	idx := map[string]int{}
	for i, header := range rows[0] {
		idx[strings.TrimSpace(header)] = i
	}
	for _, required := range []string{"RegCode", "RegName", "ProvCode", "ProvName", "DistCode", "DistName", "SubDistCode", "SubDistName"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %s", locationFile, required)
		}
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	store := &LocationStore{}
	for _, row := range rows[1:] {
		lr := locationRow{
			RegCode:     cell(row, "RegCode"),
			RegName:     cell(row, "RegName"),
			ProvCode:    cell(row, "ProvCode"),
			ProvName:    cell(row, "ProvName"),
			DistCode:    cell(row, "DistCode"),
			DistName:    cell(row, "DistName"),
			SubDistCode: cell(row, "SubDistCode"),
			SubDistName: cell(row, "SubDistName"),
		}
		if lr.RegName == "" {
			continue
		}
		store.rows = append(store.rows, lr)
	}
	if len(store.rows) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", locationFile)
	}
	return store, nil
}

// newLocationStoreFromRows exists for tests.
func newLocationStoreFromRows(rows []locationRow) *LocationStore {
	return &LocationStore{rows: rows}
}

// Regions returns the distinct region names, sorted.
func (s *LocationStore) Regions() []string {
	return s.distinct(func(r locationRow) (string, bool) {
		return r.RegName, true
	})
}

// Provinces returns the distinct provinces within a region, sorted. An
// empty region returns all provinces.
func (s *LocationStore) Provinces(region string) []string {
	return s.distinct(func(r locationRow) (string, bool) {
		return r.ProvName, region == "" || r.RegName == region
	})
}

// Districts returns the distinct districts scoped by the ancestor
// selections.
func (s *LocationStore) Districts(region, province string) []string {
	return s.distinct(func(r locationRow) (string, bool) {
		ok := (region == "" || r.RegName == region) && (province == "" || r.ProvName == province)
		return r.DistName, ok
	})
}

// Subdistricts returns the distinct subdistricts scoped by the ancestor
// selections.
func (s *LocationStore) Subdistricts(region, province, district string) []string {
	return s.distinct(func(r locationRow) (string, bool) {
		ok := (region == "" || r.RegName == region) &&
			(province == "" || r.ProvName == province) &&
			(district == "" || r.DistName == district)
		return r.SubDistName, ok
	})
}

// Selection is the set of chosen area names, outermost first. Empty
// strings mean "not selected".
type Selection struct {
	Region      string
	Province    string
	District    string
	Subdistrict string
}

// Codes resolves the selected names to their numeric codes. A name that
// is not selected (or not found under its ancestors) yields no entry.
func (s *LocationStore) Codes(sel Selection) map[string]string {
	codes := map[string]string{}
	if sel.Region == "" {
		return codes
	}

	for _, r := range s.rows {
		if r.RegName != sel.Region {
			continue
		}
		codes["RegCode"] = r.RegCode

		if sel.Province == "" || r.ProvName != sel.Province {
			continue
		}
		codes["ProvCode"] = r.ProvCode

		if sel.District == "" || r.DistName != sel.District {
			continue
		}
		codes["DistCode"] = r.DistCode

		if sel.Subdistrict == "" || r.SubDistName != sel.Subdistrict {
			continue
		}
		codes["SubDistCode"] = r.SubDistCode
	}
	return codes
}

func (s *LocationStore) distinct(pick func(locationRow) (string, bool)) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range s.rows {
		v, ok := pick(r)
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
