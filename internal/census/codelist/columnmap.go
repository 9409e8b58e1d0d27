package codelist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	columnMapFile     = "column_name.xlsx"
	fieldNameColumn   = "Field_name"
	displayNameColumn = "Column_name"
)

var parenRe = regexp.MustCompile(`\(([^)]+)\)`)

// ColumnMap holds the database-field → display-name mapping and the
// ordered list of fields to show, loaded from the column-name workbook.
// It is a constructed value passed to consumers, not shared global state.
type ColumnMap struct {
	fields []string
	names  map[string]string
}

// NewColumnMap builds a map from explicit entries, preserving order.
// Used by tests and as the fallback when the workbook is unavailable.
func NewColumnMap(fields []string, names map[string]string) *ColumnMap {
	if names == nil {
		names = map[string]string{}
	}
	return &ColumnMap{fields: append([]string(nil), fields...), names: names}
}

// LoadColumnMap reads column_name.xlsx from the assets directory. Row
// order in the workbook defines display order.
func LoadColumnMap(assetsDir string) (*ColumnMap, error) {
	path := filepath.Join(assetsDir, columnMapFile)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", columnMapFile, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", columnMapFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", columnMapFile)
	}

	fieldIdx, nameIdx := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case fieldNameColumn:
			fieldIdx = i
		case displayNameColumn:
			nameIdx = i
		}
	}
	if fieldIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("%s: missing %s/%s columns", columnMapFile, fieldNameColumn, displayNameColumn)
	}

	cm := &ColumnMap{names: map[string]string{}}
	for _, row := range rows[1:] {
		if fieldIdx >= len(row) {
			continue
		}
		field := strings.TrimSpace(row[fieldIdx])
		if field == "" {
			continue
		}
		cm.fields = append(cm.fields, field)
		if nameIdx < len(row) {
			if name := strings.TrimSpace(row[nameIdx]); name != "" {
				cm.names[field] = name
			}
		}
	}
	if len(cm.fields) == 0 {
		return nil, fmt.Errorf("%s: no field rows", columnMapFile)
	}
	return cm, nil
}

// Fields returns the ordered fields to display.
func (cm *ColumnMap) Fields() []string {
	return cm.fields
}

// ColumnName returns the human display name for a field, falling back to
// the field name itself.
func (cm *ColumnMap) ColumnName(field string) string {
	if name, ok := cm.names[field]; ok {
		return name
	}
	return field
}

// FormatHeader splits a display name into its main text and the
// parenthesized sub-text, for two-line table headers.
func (cm *ColumnMap) FormatHeader(name string) (main, sub string) {
	loc := parenRe.FindStringIndex(name)
	if loc == nil {
		return name, ""
	}
	return strings.TrimSpace(name[:loc[0]]), name[loc[0]:loc[1]]
}
