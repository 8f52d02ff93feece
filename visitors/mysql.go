package visitors

import "github.com/bawdo/sqlbuild/internal/quoting"

// MySQLVisitor generates MySQL-dialect SQL.
// Quoted identifiers use backticks: `table`.`column`. String literals also
// escape backslashes.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.Backtick, quoting.EscapeStringMySQL, func(_ int) string { return "?" })
	v.applyOptions(opts)
	return v
}
