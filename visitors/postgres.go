package visitors

import (
	"strconv"

	"github.com/bawdo/sqlbuild/internal/quoting"
)

// PostgresVisitor generates PostgreSQL-dialect SQL.
// Placeholders are numbered ($1, $2); quoted identifiers use double quotes.
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.DoubleQuote, quoting.EscapeString,
		func(i int) string { return "$" + strconv.Itoa(i) })
	v.applyOptions(opts)
	return v
}
