// Package nodes defines the AST node types used to represent SQL statements,
// the schema reference interfaces they are built from, and the placeholder
// trackers whose indices are assigned while a statement renders.
package nodes

// Node is the interface that all AST nodes implement. Accept renders the
// node through a visitor; Collect reports every table, column and nested
// query the node touches so that statements can be validated.
type Node interface {
	Accept(visitor Visitor) string
	Collect(refs *References)
}

// TableRef identifies a table. TableName returns the qualified name
// (e.g. "Schema1.Table1"); TableAlias returns an explicit alias, or "" when
// the render context should assign one. Identity is reference identity.
type TableRef interface {
	TableName() string
	TableAlias() string
}

// ColumnRef identifies a column and its owning table.
type ColumnRef interface {
	ColumnName() string
	ColumnTable() TableRef
}

// FunctionRef identifies a schema function by its qualified name.
type FunctionRef interface {
	FunctionName() string
}

// Query is implemented by complete queries (and the builders that wrap
// them) that may be nested as subqueries.
type Query interface {
	Node
	QueryNode() Node
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (ANSI, Postgres, MySQL, SQLite, DOT) implement this
// interface.
type Visitor interface {
	VisitFromTable(node *FromTable) string
	VisitColumn(node *ColumnNode) string
	VisitAllColumns(node *AllColumns) string
	VisitStar(node *StarNode) string
	VisitNull(node *NullNode) string
	VisitLiteral(node *LiteralNode) string
	VisitSqlLiteral(node *SqlLiteral) string
	VisitCustom(node *CustomNode) string
	VisitComment(node *CommentNode) string
	VisitAlias(node *AliasNode) string
	VisitComparison(node *ComparisonNode) string
	VisitBetween(node *BetweenNode) string
	VisitUnary(node *UnaryNode) string
	VisitNot(node *NotNode) string
	VisitCombo(node *ComboNode) string
	VisitIn(node *InNode) string
	VisitArith(node *ArithNode) string
	VisitNegate(node *NegateNode) string
	VisitCase(node *CaseNode) string
	VisitFunction(node *FunctionNode) string
	VisitSubquery(node *Subquery) string
	VisitPlaceHolder(node *PlaceHolder) string
	VisitMultiPlaceHolder(node *MultiPlaceHolder) string
	VisitResultColumn(node *ResultColumn) string
	VisitOrdering(node *OrderingNode) string
	VisitJoin(node *JoinNode) string
	VisitSelectCore(node *SelectCore) string
	VisitSetOperation(node *SetOperationNode) string
	VisitInsertStatement(node *InsertStatement) string
	VisitUpdateStatement(node *UpdateStatement) string
	VisitDeleteStatement(node *DeleteStatement) string
	VisitAssignment(node *AssignmentNode) string
	VisitCreateTable(node *CreateTableStatement) string
	VisitColumnDef(node *ColumnDefNode) string
	VisitConstraint(node *ConstraintNode) string
	VisitDrop(node *DropStatement) string
	VisitAlterTable(node *AlterTableStatement) string
	VisitCreateIndex(node *CreateIndexStatement) string
	VisitGrant(node *GrantStatement) string
}

// Resetter is implemented by visitors that carry per-render state (alias
// scopes, render passes). Statement builders call Reset before rendering a
// top-level statement.
type Resetter interface {
	Reset()
}

// Wrap converts a Go value into a Node. Nodes are returned as-is, queries
// become subqueries, column references become column nodes, nil becomes
// NULL and anything else becomes a literal.
func Wrap(val any) Node {
	switch v := val.(type) {
	case nil:
		return Null
	case Query:
		return NewSubquery(v)
	case Node:
		return v
	case ColumnRef:
		return Col(v)
	}
	return newLiteral(val)
}

// wrapAll converts each value with Wrap.
func wrapAll(vals []any) []Node {
	out := make([]Node, len(vals))
	for i, v := range vals {
		out[i] = Wrap(v)
	}
	return out
}

// collectAll calls Collect on every non-nil node.
func collectAll(refs *References, ns ...Node) {
	for _, n := range ns {
		if n != nil {
			n.Collect(refs)
		}
	}
}
