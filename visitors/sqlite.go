package visitors

import (
	"github.com/bawdo/sqlbuild/internal/quoting"
	"github.com/bawdo/sqlbuild/nodes"
)

// SQLiteVisitor generates SQLite-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column" (ANSI SQL).
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.DoubleQuote, quoting.EscapeString, func(_ int) string { return "?" })
	v.applyOptions(opts)
	return v
}

// ForDialect returns the visitor for a database engine name: postgres,
// mysql or sqlite. Any other name yields the ANSI visitor.
func ForDialect(name string, opts ...Option) nodes.Visitor {
	switch name {
	case "postgres", "postgresql", "pgx":
		return NewPostgresVisitor(opts...)
	case "mysql":
		return NewMySQLVisitor(opts...)
	case "sqlite", "sqlite3":
		return NewSQLiteVisitor(opts...)
	}
	return NewANSIVisitor(opts...)
}
