// Package sqlbuild builds SQL statements from Go values.
//
// This package re-exports the most used types and constructors of the
// subpackages. Import the subpackages directly for everything else:
//   - github.com/bawdo/sqlbuild/managers (statement builders)
//   - github.com/bawdo/sqlbuild/nodes (expression tree)
//   - github.com/bawdo/sqlbuild/visitors (dialect rendering)
//   - github.com/bawdo/sqlbuild/dbspec (described schemas)
//   - github.com/bawdo/sqlbuild/plugins (statement transformers)
//   - github.com/bawdo/sqlbuild/runner (execution against a database)
package sqlbuild

import (
	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/managers"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/visitors"
)

// --- Builders ---

// SelectManager builds SELECT statements.
type SelectManager = managers.SelectManager

// InsertManager builds INSERT ... VALUES statements.
type InsertManager = managers.InsertManager

// UpdateManager builds UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager builds DELETE statements.
type DeleteManager = managers.DeleteManager

// NewSelect starts a SELECT. The FROM clause is derived from the
// referenced tables unless tables are given.
func NewSelect(from ...nodes.TableRef) *managers.SelectManager {
	m := managers.NewSelectManager()
	if len(from) > 0 {
		m.From(from...)
	}
	return m
}

// NewInsert starts an INSERT into the given table.
func NewInsert(into nodes.TableRef) *managers.InsertManager {
	return managers.NewInsertManager(into)
}

// NewUpdate starts an UPDATE of the given table.
func NewUpdate(table nodes.TableRef) *managers.UpdateManager {
	return managers.NewUpdateManager(table)
}

// NewDelete starts a DELETE from the given table.
func NewDelete(from nodes.TableRef) *managers.DeleteManager {
	return managers.NewDeleteManager(from)
}

// Union combines queries with UNION.
func Union(queries ...nodes.Query) *managers.SetOperationManager {
	return managers.Union(queries...)
}

// --- Tables and expressions ---

// Table is an ad-hoc table reference.
type Table = nodes.Table

// Node is the interface every expression implements.
type Node = nodes.Node

// NewTable creates an ad-hoc table reference.
func NewTable(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// NewSpec creates an empty schema description.
func NewSpec() *dbspec.Spec {
	return dbspec.NewSpec()
}

// Literal wraps a Go value as an SQL literal.
func Literal(value any) nodes.Node {
	return nodes.Literal(value)
}

// Star is the unqualified * projection.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// And joins conditions with AND.
func And(conds ...any) *nodes.ComboNode { return nodes.And(conds...) }

// Or joins conditions with OR.
func Or(conds ...any) *nodes.ComboNode { return nodes.Or(conds...) }

// Not negates a condition.
func Not(cond any) *nodes.NotNode { return nodes.Not(cond) }

// --- Aggregates ---

func Count(expr any) *nodes.FunctionNode         { return nodes.Count(expr) }
func CountAll() *nodes.FunctionNode              { return nodes.CountAll() }
func CountDistinct(expr any) *nodes.FunctionNode { return nodes.CountDistinct(expr) }
func Sum(expr any) *nodes.FunctionNode           { return nodes.Sum(expr) }
func Avg(expr any) *nodes.FunctionNode           { return nodes.Avg(expr) }
func Min(expr any) *nodes.FunctionNode           { return nodes.Min(expr) }
func Max(expr any) *nodes.FunctionNode           { return nodes.Max(expr) }

// --- Placeholders ---

// NewPreparer starts a placeholder sequence at the given index.
func NewPreparer(start int) *nodes.Preparer {
	return nodes.NewPreparer(start)
}

// --- Dialects ---

// Visitor renders a statement tree to SQL text.
type Visitor = nodes.Visitor

// ForDialect returns the visitor for postgres, mysql or sqlite, falling
// back to ANSI SQL.
func ForDialect(name string, opts ...visitors.Option) nodes.Visitor {
	return visitors.ForDialect(name, opts...)
}

// NewPostgresVisitor renders PostgreSQL ($n placeholders).
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor renders MySQL (? placeholders, backslash escaping).
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// NewSQLiteVisitor renders SQLite (? placeholders).
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}

// WithQuotedIdentifiers quotes every identifier in the dialect's style.
func WithQuotedIdentifiers() visitors.Option {
	return visitors.WithQuotedIdentifiers()
}

// WithoutTableAliases renders tables by name instead of t0, t1, ...
func WithoutTableAliases() visitors.Option {
	return visitors.WithoutTableAliases()
}
