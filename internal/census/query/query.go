// Package query translates selector values and header filters into the
// WHERE/ORDER BY fragments consumed by the record store. All conditions
// are combined with AND; pagination relies on the ordering being stable.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// RecordsPerPage is the fixed page size for search results.
const RecordsPerPage = 500

// ErrNoCriteria is returned when a search is attempted with no conditions
// at all. The caller surfaces it before any query is issued.
var ErrNoCriteria = errors.New("กรุณาเลือกเงื่อนไขในการค้นหาอย่างน้อยหนึ่งรายการ")

type condKind int

const (
	kindExact condKind = iota
	kindBlank
	kindFilter
)

// Condition is one constraint on a single column: an exact match, a
// match-blank marker, or a header filter.
type Condition struct {
	kind      condKind
	value     any
	text      string
	showBlank bool
}

// Exact matches the column against a concrete value.
func Exact(v any) Condition {
	return Condition{kind: kindExact, value: v}
}

// MatchBlank matches rows where the column is NULL or empty.
func MatchBlank() Condition {
	return Condition{kind: kindBlank}
}

// HeaderFilter matches by case-insensitive substring, or blank-only when
// showBlank is set. A filter with neither text nor showBlank is inert.
func HeaderFilter(text string, showBlank bool) Condition {
	return Condition{kind: kindFilter, text: strings.TrimSpace(text), showBlank: showBlank}
}

// Inert reports whether the condition contributes nothing to the query.
func (c Condition) Inert() bool {
	return c.kind == kindFilter && !c.showBlank && c.text == ""
}

// Conditions maps column name → constraint.
type Conditions map[string]Condition

// Build renders the WHERE clause (without the "WHERE" keyword) and its
// parameter list. Parameters use the @pN placeholders understood by the
// SQL Server driver. Returns ErrNoCriteria when nothing effective is set.
func (cs Conditions) Build() (string, []any, error) {
	cols := make([]string, 0, len(cs))
	for col := range cs {
		if !cs[col].Inert() {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return "", nil, ErrNoCriteria
	}
	sort.Strings(cols)

	var (
		parts []string
		args  []any
	)
	for _, col := range cols {
		c := cs[col]
		q := quoteColumn(col)
		switch c.kind {
		case kindExact:
			parts = append(parts, fmt.Sprintf("%s = @p%d", q, len(args)+1))
			args = append(args, c.value)
		case kindBlank:
			parts = append(parts, blankCheck(q))
		case kindFilter:
			if c.showBlank {
				parts = append(parts, blankCheck(q))
				continue
			}
			parts = append(parts, fmt.Sprintf("LOWER(CAST(%s AS NVARCHAR(255))) LIKE @p%d", q, len(args)+1))
			args = append(args, "%"+strings.ToLower(c.text)+"%")
		}
	}

	return strings.Join(parts, " AND "), args, nil
}

func blankCheck(quotedCol string) string {
	return fmt.Sprintf("(%s IS NULL OR LTRIM(RTRIM(CAST(%s AS NVARCHAR(255)))) = '')", quotedCol, quotedCol)
}

func quoteColumn(col string) string {
	return "[" + strings.ReplaceAll(col, "]", "") + "]"
}

// OrderBy returns a stable ORDER BY column list: the logical PK fields
// that appear in the displayed set, or the first displayed field when
// none of them are visible. OFFSET/FETCH pagination requires this.
func OrderBy(displayed, pkFields []string) string {
	shown := make(map[string]struct{}, len(displayed))
	for _, f := range displayed {
		shown[f] = struct{}{}
	}

	var cols []string
	for _, pk := range pkFields {
		if _, ok := shown[pk]; ok {
			cols = append(cols, quoteColumn(pk))
		}
	}
	if len(cols) == 0 && len(displayed) > 0 {
		cols = append(cols, quoteColumn(displayed[0]))
	}
	if len(cols) == 0 {
		for _, pk := range pkFields {
			cols = append(cols, quoteColumn(pk))
		}
	}
	return strings.Join(cols, ", ")
}

// PageClause renders the OFFSET/FETCH fragment for a 1-based page number.
func PageClause(page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", (page-1)*RecordsPerPage, RecordsPerPage)
}

// SelectColumns renders the quoted column list for a SELECT.
func SelectColumns(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteColumn(f)
	}
	return strings.Join(quoted, ", ")
}
