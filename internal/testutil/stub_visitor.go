// Package testutil provides shared test helpers for the sqlbuild project.
package testutil

import "github.com/bawdo/sqlbuild/nodes"

// StubVisitor implements nodes.Visitor with minimal return values for testing.
// Methods return meaningful short strings to aid in test assertions.
type StubVisitor struct{}

var _ nodes.Visitor = StubVisitor{}

func (sv StubVisitor) VisitFromTable(n *nodes.FromTable) string   { return n.Table.TableName() }
func (sv StubVisitor) VisitColumn(n *nodes.ColumnNode) string     { return n.Column.ColumnName() }
func (sv StubVisitor) VisitAllColumns(n *nodes.AllColumns) string { return "all" }
func (sv StubVisitor) VisitStar(n *nodes.StarNode) string         { return "*" }
func (sv StubVisitor) VisitNull(n *nodes.NullNode) string         { return "null" }
func (sv StubVisitor) VisitLiteral(n *nodes.LiteralNode) string   { return "lit" }
func (sv StubVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string { return n.Raw }
func (sv StubVisitor) VisitCustom(n *nodes.CustomNode) string     { return n.Raw }
func (sv StubVisitor) VisitComment(n *nodes.CommentNode) string   { return "comment" }
func (sv StubVisitor) VisitAlias(n *nodes.AliasNode) string       { return "alias" }
func (sv StubVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	return n.Left.Accept(sv) + "=?" + n.Right.Accept(sv)
}
func (sv StubVisitor) VisitBetween(n *nodes.BetweenNode) string               { return "between" }
func (sv StubVisitor) VisitUnary(n *nodes.UnaryNode) string                   { return "unary" }
func (sv StubVisitor) VisitNot(n *nodes.NotNode) string                       { return "not" }
func (sv StubVisitor) VisitCombo(n *nodes.ComboNode) string                   { return "combo" }
func (sv StubVisitor) VisitIn(n *nodes.InNode) string                         { return "in" }
func (sv StubVisitor) VisitArith(n *nodes.ArithNode) string                   { return "arith" }
func (sv StubVisitor) VisitNegate(n *nodes.NegateNode) string                 { return "negate" }
func (sv StubVisitor) VisitCase(n *nodes.CaseNode) string                     { return "case" }
func (sv StubVisitor) VisitFunction(n *nodes.FunctionNode) string             { return n.QualifiedName() }
func (sv StubVisitor) VisitSubquery(n *nodes.Subquery) string                 { return "subquery" }
func (sv StubVisitor) VisitPlaceHolder(n *nodes.PlaceHolder) string           { return "?" }
func (sv StubVisitor) VisitMultiPlaceHolder(n *nodes.MultiPlaceHolder) string { return "?" }
func (sv StubVisitor) VisitResultColumn(n *nodes.ResultColumn) string         { return n.Expr.Accept(sv) }
func (sv StubVisitor) VisitOrdering(n *nodes.OrderingNode) string             { return "ordering" }
func (sv StubVisitor) VisitJoin(n *nodes.JoinNode) string                     { return "join" }
func (sv StubVisitor) VisitSelectCore(n *nodes.SelectCore) string             { return "select_core" }
func (sv StubVisitor) VisitSetOperation(n *nodes.SetOperationNode) string     { return "set_op" }
func (sv StubVisitor) VisitInsertStatement(n *nodes.InsertStatement) string   { return "insert" }
func (sv StubVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string   { return "update" }
func (sv StubVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string   { return "delete" }
func (sv StubVisitor) VisitAssignment(n *nodes.AssignmentNode) string         { return "assign" }
func (sv StubVisitor) VisitCreateTable(n *nodes.CreateTableStatement) string  { return "create_table" }
func (sv StubVisitor) VisitColumnDef(n *nodes.ColumnDefNode) string           { return "column_def" }
func (sv StubVisitor) VisitConstraint(n *nodes.ConstraintNode) string         { return "constraint" }
func (sv StubVisitor) VisitDrop(n *nodes.DropStatement) string                { return "drop" }
func (sv StubVisitor) VisitAlterTable(n *nodes.AlterTableStatement) string    { return "alter_table" }
func (sv StubVisitor) VisitCreateIndex(n *nodes.CreateIndexStatement) string  { return "create_index" }
func (sv StubVisitor) VisitGrant(n *nodes.GrantStatement) string              { return "grant" }
