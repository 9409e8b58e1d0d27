package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/piyawatc/censedit/internal/census/query"
	"github.com/piyawatc/censedit/internal/data/db"
)

// Audit columns stamped on every saved row.
const (
	AuditFullnameColumn = "fullname"
	AuditTimeColumn     = "time_edit"
)

// recordTable is the edited copy of the census data.
const recordTable = "r_alldata_edit"

// Record is one row of the edited table, keyed by field name. Values are
// carried in string form; NULL scans as the empty string.
type Record map[string]string

// RecordStore reads and updates census records in r_alldata_edit.
type RecordStore struct {
	db       *db.DB
	pkFields []string

	// distinct-value lookups are memoized per store instance; the cache
	// lives for the process and is dropped only via InvalidateCache.
	mu       sync.Mutex
	distinct map[string][]string
}

// NewRecordStore creates a record store ordered by the given logical
// primary-key fields.
func NewRecordStore(database *db.DB, pkFields []string) *RecordStore {
	return &RecordStore{
		db:       database,
		pkFields: append([]string(nil), pkFields...),
		distinct: make(map[string][]string),
	}
}

// FetchAllFields returns every column name of the edited table, in table
// order.
func (s *RecordStore) FetchAllFields(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, fmt.Sprintf("SELECT TOP 0 * FROM %s", recordTable))
	if err != nil {
		return nil, fmt.Errorf("fetch %s schema: %w", recordTable, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s columns: %w", recordTable, err)
	}
	return cols, nil
}

// Count returns the total number of rows matching the conditions.
func (s *RecordStore) Count(ctx context.Context, conds query.Conditions) (int, error) {
	where, args, err := conds.Build()
	if err != nil {
		return 0, err
	}

	var total int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", recordTable, where)
	if err := s.db.Conn().QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

// Search returns one page of records matching the conditions, ordered by
// the logical PK fields (or the stable fallback when they are not part of
// the selected field set). Pages are 1-based and hold up to
// query.RecordsPerPage rows.
func (s *RecordStore) Search(ctx context.Context, conds query.Conditions, fields []string, page int) ([]Record, []string, error) {
	where, args, err := conds.Build()
	if err != nil {
		return nil, nil, err
	}
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("search: no fields selected")
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s %s",
		query.SelectColumns(fields),
		recordTable,
		where,
		query.OrderBy(fields, s.pkFields),
		query.PageClause(page),
	)

	rows, err := s.db.Conn().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("search records: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("search columns: %w", err)
	}

	var out []Record
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, fmt.Errorf("scan record: %w", err)
		}

		rec := make(Record, len(cols))
		for i, col := range cols {
			rec[col] = values[i].String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("search rows: %w", err)
	}

	return out, cols, nil
}

// SaveRows updates the given full records by their logical PK. All rows
// commit in one transaction or none do. It returns the number of rows the
// database reported as affected.
func (s *RecordStore) SaveRows(ctx context.Context, records []Record, allFields []string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	updateFields := updateColumns(allFields, s.pkFields)
	stmt := s.updateStatement(updateFields)

	var affected int64
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			args := make([]any, 0, len(updateFields)+len(s.pkFields))
			for _, f := range updateFields {
				args = append(args, nullable(rec[f]))
			}
			for _, pk := range s.pkFields {
				args = append(args, rec[pk])
			}

			res, err := tx.ExecContext(ctx, stmt, args...)
			if err != nil {
				return fmt.Errorf("update record: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// updateStatement builds the UPDATE for one row keyed by the logical PK.
func (s *RecordStore) updateStatement(updateFields []string) string {
	setParts := make([]string, len(updateFields))
	for i, f := range updateFields {
		setParts[i] = fmt.Sprintf("[%s] = @p%d", f, i+1)
	}
	whereParts := make([]string, len(s.pkFields))
	for i, pk := range s.pkFields {
		whereParts[i] = fmt.Sprintf("[%s] = @p%d", pk, len(updateFields)+i+1)
	}
	return fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		recordTable,
		strings.Join(setParts, ", "),
		strings.Join(whereParts, " AND "),
	)
}

// DistinctValues returns the distinct non-null values of one column under
// an optional WHERE fragment, memoized per (field, where, args).
func (s *RecordStore) DistinctValues(ctx context.Context, field, where string, args []any) ([]string, error) {
	key := distinctKey(field, where, args)

	s.mu.Lock()
	if cached, ok := s.distinct[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	q := fmt.Sprintf("SELECT DISTINCT [%s] FROM %s", field, recordTable)
	if where != "" {
		q += " WHERE " + where
	}
	q += fmt.Sprintf(" ORDER BY [%s]", field)

	rows, err := s.db.Conn().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", field, err)
		}
		if v.Valid {
			values = append(values, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct rows %s: %w", field, err)
	}

	s.mu.Lock()
	s.distinct[key] = values
	s.mu.Unlock()
	return values, nil
}

// InvalidateCache drops the memoized distinct-value lookups.
func (s *RecordStore) InvalidateCache() {
	s.mu.Lock()
	s.distinct = make(map[string][]string)
	s.mu.Unlock()
}

func distinctKey(field, where string, args []any) string {
	var b strings.Builder
	b.WriteString(field)
	b.WriteString("|")
	b.WriteString(where)
	for _, a := range args {
		fmt.Fprintf(&b, "|%v", a)
	}
	return b.String()
}

// updateColumns is every non-PK column plus the audit columns.
func updateColumns(allFields, pkFields []string) []string {
	pk := make(map[string]struct{}, len(pkFields))
	for _, f := range pkFields {
		pk[f] = struct{}{}
	}

	var out []string
	hasFullname, hasTime := false, false
	for _, f := range allFields {
		if _, ok := pk[f]; ok {
			continue
		}
		switch f {
		case AuditFullnameColumn:
			hasFullname = true
		case AuditTimeColumn:
			hasTime = true
		}
		out = append(out, f)
	}
	if !hasFullname {
		out = append(out, AuditFullnameColumn)
	}
	if !hasTime {
		out = append(out, AuditTimeColumn)
	}
	return out
}

// nullable maps the empty string back to NULL on write so blank edits do
// not turn NULL columns into empty strings of varying width.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
