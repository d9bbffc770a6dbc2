// ABOUTME: Tabular query results returned by the joined read catalog.
// ABOUTME: A Table keeps its column headers even when no rows matched.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Row maps column names to the values the driver returned: int64, float64,
// string or nil.
type Row map[string]any

// Table is an ordered sequence of rows with a fixed column list.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func newTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: []Row{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns one column as a slice, in row order.
func (t *Table) Values(column string) []any {
	out := make([]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[column])
	}
	return out
}

// Int64 returns an integer column value.
func (r Row) Int64(column string) (int64, bool) {
	v, ok := r[column].(int64)
	return v, ok
}

// Float64 returns a numeric column value, widening integers.
func (r Row) Float64(column string) (float64, bool) {
	switch v := r[column].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns a text column value.
func (r Row) String(column string) (string, bool) {
	v, ok := r[column].(string)
	return v, ok
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// queryTable runs query and collects every row. Column headers come from the
// statement, so a query matching nothing still yields a headed, empty table.
func queryTable(ctx context.Context, q querier, query string, args ...any) (*Table, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	t := newTable(columns)
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = normalizeValue(values[i])
		}
		t.Rows = append(t.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	}
	return v
}
