package runner

import (
	"database/sql"
	"fmt"

	"github.com/bawdo/sqlbuild/nodes"
)

// Rows iterates a result set. Each row is scanned as a whole, so values
// can be read in any order with Value or At.
type Rows struct {
	rows    *sql.Rows
	columns []string
	current []any
	err     error
}

// Columns returns the result column names.
func (r *Rows) Columns() []string { return r.columns }

// Next advances to the next row. It returns false at the end or on error.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	vals := make([]any, len(r.columns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = fmt.Errorf("scan: %w", err)
		return false
	}
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			vals[i] = string(b)
		}
	}
	r.current = vals
	return true
}

// Value returns the current row's value for a result column read in the
// rendered query. It panics when the column is not part of that query.
func (r *Rows) Value(col *nodes.ResultColumn) any {
	return r.At(col.Position())
}

// At returns the current row's value at a zero-based position.
func (r *Rows) At(pos int) any {
	if r.current == nil {
		panic("sqlbuild: no current row")
	}
	if pos < 0 || pos >= len(r.current) {
		panic(fmt.Sprintf("sqlbuild: position %d outside row of %d columns", pos, len(r.current)))
	}
	return r.current[pos]
}

// Err returns the first error met while iterating.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	if err := r.rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

// Close releases the result set.
func (r *Rows) Close() error { return r.rows.Close() }
