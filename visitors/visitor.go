// Package visitors provides SQL dialect generators that walk the AST.
//
// A visitor carries the render context of the statement it is rendering:
// the alias scopes that map table references to aliases, and the render
// pass that placeholder and result column indices are assigned in. Each
// top-level statement starts a new pass and a fresh alias counter.
// Conditions rendered on their own share one context until Reset.
package visitors

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bawdo/sqlbuild/internal/quoting"
	"github.com/bawdo/sqlbuild/nodes"
)

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	nodes.OpEq:      "=",
	nodes.OpNotEq:   "<>",
	nodes.OpLt:      "<",
	nodes.OpLtEq:    "<=",
	nodes.OpGt:      ">",
	nodes.OpGtEq:    ">=",
	nodes.OpLike:    "LIKE",
	nodes.OpNotLike: "NOT LIKE",
}

// Operator SQL strings for ArithOp values.
var arithOpSQL = [...]string{
	nodes.OpPlus:     " + ",
	nodes.OpMinus:    " - ",
	nodes.OpMultiply: " * ",
	nodes.OpDivide:   " / ",
	nodes.OpConcat:   " || ",
}

var comboOpSQL = [...]string{
	nodes.OpAnd: " AND ",
	nodes.OpOr:  " OR ",
}

var unaryOpSQL = [...]string{
	nodes.OpIsNull:    "IS NULL",
	nodes.OpIsNotNull: "IS NOT NULL",
	nodes.OpExists:    "EXISTS",
	nodes.OpUnique:    "UNIQUE",
}

const timestampLayout = "2006-01-02 15:04:05"

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithoutTableAliases disables table aliasing: tables render by their
// qualified name alone and columns render unqualified.
func WithoutTableAliases() Option {
	return func(b *baseVisitor) {
		b.aliases = false
	}
}

// WithQuotedIdentifiers quotes table, column and alias names with the
// dialect's identifier quote.
func WithQuotedIdentifiers() Option {
	return func(b *baseVisitor) {
		b.quote = true
	}
}

// baseVisitor implements the shared SQL generation logic used by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// escapeString escapes the body of a string literal.
	escapeString func(string) string

	// placeholder returns the bind placeholder for a given parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// numbered is true when the placeholder text carries its index, so
	// one placeholder may render at several positions.
	numbered bool

	quote   bool
	aliases bool

	// scope is the alias scope of the query level being rendered, nil
	// outside a statement.
	scope *scope

	// loose is the scope used by conditions rendered outside a statement.
	loose *scope

	pass *nodes.RenderPass

	// projection is the zero-based SELECT-list position being rendered,
	// or -1 outside a SELECT list.
	projection int

	// unqualified renders columns without a table qualifier.
	unqualified bool
}

func newBaseVisitor(outer nodes.Visitor, quoteIdent, escape func(string) string, placeholder func(int) string) *baseVisitor {
	return &baseVisitor{
		outer:        outer,
		quoteIdent:   quoteIdent,
		escapeString: escape,
		placeholder:  placeholder,
		numbered:     placeholder(1) != placeholder(2),
		aliases:      true,
		pass:         nodes.NewRenderPass(),
		projection:   -1,
	}
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Reset discards the render context. Standalone conditions rendered after
// a reset get fresh aliases and placeholder indices.
func (b *baseVisitor) Reset() {
	b.scope = nil
	b.loose = nil
	b.pass = nodes.NewRenderPass()
	b.projection = -1
	b.unqualified = false
}

// AliasesEnabled reports whether tables are rendered with aliases.
func (b *baseVisitor) AliasesEnabled() bool {
	return b.aliases
}

// enter opens a scope for a query level. A level entered outside any
// statement starts a new render pass.
func (b *baseVisitor) enter(aliases bool) {
	if b.scope == nil {
		b.pass = nodes.NewRenderPass()
	}
	b.scope = newScope(b.scope, aliases && b.aliases)
}

func (b *baseVisitor) leave() {
	b.scope = b.scope.parent
}

// current returns the active scope, falling back to the loose scope.
func (b *baseVisitor) current() *scope {
	if b.scope != nil {
		return b.scope
	}
	if b.loose == nil {
		b.loose = newScope(nil, b.aliases)
	}
	return b.loose
}

// qualifier returns the rendered qualifier for columns of t, or "".
func (b *baseVisitor) qualifier(t nodes.TableRef) string {
	if b.unqualified || !b.aliases || t == nil {
		return ""
	}
	s := b.current()
	alias, owner, ok := s.lookup(t)
	if !ok {
		alias, owner = s.register(t), s
	}
	if alias != "" {
		return b.ident(alias)
	}
	if owner == s {
		return ""
	}
	// Statement targets render unaliased; nested queries name them in full.
	return b.qualified(t.TableName())
}

func (b *baseVisitor) ident(name string) string {
	if b.quote {
		return b.quoteIdent(name)
	}
	return name
}

func (b *baseVisitor) qualified(name string) string {
	if b.quote {
		return quoting.Qualified(name, b.quoteIdent)
	}
	return name
}

func (b *baseVisitor) join(items []nodes.Node, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Accept(b.outer)
	}
	return strings.Join(parts, sep)
}

func (b *baseVisitor) VisitFromTable(n *nodes.FromTable) string {
	name := b.qualified(n.Table.TableName())
	if alias := b.current().register(n.Table); alias != "" {
		return name + " " + b.ident(alias)
	}
	return name
}

func (b *baseVisitor) VisitColumn(n *nodes.ColumnNode) string {
	name := b.ident(n.Column.ColumnName())
	if q := b.qualifier(n.Column.ColumnTable()); q != "" {
		return q + "." + name
	}
	return name
}

func (b *baseVisitor) VisitAllColumns(n *nodes.AllColumns) string {
	if q := b.qualifier(n.Table); q != "" {
		return q + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitStar(_ *nodes.StarNode) string { return "*" }
func (b *baseVisitor) VisitNull(_ *nodes.NullNode) string { return "NULL" }

func (b *baseVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) literalToSQL(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return b.quoteString(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return "TIMESTAMP '" + v.Format(timestampLayout) + "'"
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'"
	case fmt.Stringer:
		return b.quoteString(v.String())
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return b.quoteString(fmt.Sprint(val))
}

func (b *baseVisitor) quoteString(s string) string {
	return "'" + b.escapeString(s) + "'"
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string { return n.Raw }
func (b *baseVisitor) VisitCustom(n *nodes.CustomNode) string     { return "(" + n.Raw + ")" }
func (b *baseVisitor) VisitComment(n *nodes.CommentNode) string   { return " -- " + n.Text + "\n" }

func (b *baseVisitor) VisitAlias(n *nodes.AliasNode) string {
	return n.Expr.Accept(b.outer) + " AS " + b.ident(n.Name)
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Left.Accept(b.outer))
	sb.WriteString(" ")
	sb.WriteString(comparisonOpSQL[n.Op])
	sb.WriteString(" ")
	sb.WriteString(n.Right.Accept(b.outer))
	if n.Escape != 0 {
		sb.WriteString(" ESCAPE ")
		sb.WriteString(b.quoteString(string(n.Escape)))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitBetween(n *nodes.BetweenNode) string {
	op := " BETWEEN "
	if n.Negate {
		op = " NOT BETWEEN "
	}
	return "(" + n.Expr.Accept(b.outer) + op + n.Low.Accept(b.outer) + " AND " + n.High.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitUnary(n *nodes.UnaryNode) string {
	expr := n.Expr.Accept(b.outer)
	if n.Op.Prefix() {
		return "(" + unaryOpSQL[n.Op] + " " + expr + ")"
	}
	return "(" + expr + " " + unaryOpSQL[n.Op] + ")"
}

func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	expr := n.Expr.Accept(b.outer)
	if expr == "" {
		return ""
	}
	return "(NOT " + expr + ")"
}

func (b *baseVisitor) VisitCombo(n *nodes.ComboNode) string {
	return b.chain(n.Children, comboOpSQL[n.Op])
}

func (b *baseVisitor) VisitArith(n *nodes.ArithNode) string {
	return b.chain(n.Children, arithOpSQL[n.Op])
}

// chain renders children joined by sep, skipping empty ones. A single
// rendered child is returned without parentheses.
func (b *baseVisitor) chain(children []nodes.Node, sep string) string {
	parts := make([]string, 0, len(children))
	for _, c := range children {
		if s := c.Accept(b.outer); s != "" {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (b *baseVisitor) VisitNegate(n *nodes.NegateNode) string {
	return "(- " + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitIn(n *nodes.InNode) string {
	if len(n.Vals) == 0 {
		return ""
	}
	op := " IN "
	if n.Negate {
		op = " NOT IN "
	}
	expr := n.Expr.Accept(b.outer)
	if len(n.Vals) == 1 {
		if sq, ok := n.Vals[0].(*nodes.Subquery); ok {
			return "(" + expr + op + sq.Accept(b.outer) + ")"
		}
	}
	return "(" + expr + op + "(" + b.join(n.Vals, ",") + "))"
}

func (b *baseVisitor) VisitCase(n *nodes.CaseNode) string {
	if len(n.Whens) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(CASE")
	if n.Operand != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Operand.Accept(b.outer))
	}
	for _, w := range n.Whens {
		sb.WriteString(" WHEN ")
		sb.WriteString(w.Condition.Accept(b.outer))
		sb.WriteString(" THEN ")
		sb.WriteString(w.Result.Accept(b.outer))
	}
	if n.ElseVal != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(n.ElseVal.Accept(b.outer))
	}
	sb.WriteString(" END)")
	return sb.String()
}

func (b *baseVisitor) VisitFunction(n *nodes.FunctionNode) string {
	var sb strings.Builder
	sb.WriteString(n.QualifiedName())
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if n.Star {
		sb.WriteString("*")
	} else {
		sb.WriteString(b.join(n.Args, ","))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitSubquery(n *nodes.Subquery) string {
	saved := b.scope
	if saved == nil {
		b.scope = b.current()
	}
	sql := n.Query.Accept(b.outer)
	b.scope = saved
	return "(" + sql + ")"
}

func (b *baseVisitor) VisitPlaceHolder(n *nodes.PlaceHolder) string {
	if !b.numbered && n.AssignedIn(b.pass) {
		panic("sqlbuild: placeholder rendered twice; use a MultiPlaceHolder")
	}
	return b.placeholder(n.Assign(b.pass))
}

func (b *baseVisitor) VisitMultiPlaceHolder(n *nodes.MultiPlaceHolder) string {
	return b.placeholder(n.Assign(b.pass))
}

func (b *baseVisitor) VisitResultColumn(n *nodes.ResultColumn) string {
	if b.projection >= 0 {
		n.Stamp(b.pass, b.projection)
	}
	return n.Expr.Accept(b.outer)
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	s := n.Expr.Accept(b.outer)
	switch n.Direction {
	case nodes.Asc:
		s += " ASC"
	case nodes.Desc:
		s += " DESC"
	}
	switch n.Nulls {
	case nodes.NullsFirst:
		s += " NULLS FIRST"
	case nodes.NullsLast:
		s += " NULLS LAST"
	}
	return s
}

func (b *baseVisitor) VisitJoin(n *nodes.JoinNode) string {
	s := n.Left.Accept(b.outer) + " " + n.Type.String() + " " + n.Right.Accept(b.outer)
	if n.On != nil {
		if on := n.On.Accept(b.outer); on != "" {
			s += " ON " + on
		}
	}
	return s
}

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	b.enter(true)
	saved := b.projection
	defer func() {
		b.projection = saved
		b.leave()
	}()

	sources := n.FromSources()
	if len(n.Sources) == 0 {
		sources = b.scope.uncorrelated(sources)
	}
	b.scope.registerSources(sources)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeProjections(&sb, n.Projections)
	if len(sources) > 0 {
		sb.WriteString(" FROM ")
		sb.WriteString(b.join(sources, ","))
	}
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	b.writeClause(&sb, " GROUP BY ", n.Groups)
	b.writeConditions(&sb, " HAVING ", n.Havings)
	b.writeOrders(&sb, n.Orders)
	if n.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(n.Offset.Accept(b.outer))
		sb.WriteString(" ROWS")
	}
	if n.Fetch != nil {
		sb.WriteString(" FETCH NEXT ")
		sb.WriteString(n.Fetch.Accept(b.outer))
		sb.WriteString(" ROWS ONLY")
	}
	if n.Lock != nodes.NoLock {
		sb.WriteString(" ")
		sb.WriteString(n.Lock.String())
	}
	b.writeComment(&sb, n.Comment)
	return sb.String()
}

// writeProjections renders the SELECT list, tracking the position of
// each result column. Comments do not occupy a position.
func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []nodes.Node) {
	pos := 0
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(",")
		}
		b.projection = -1
		if _, ok := p.(*nodes.CommentNode); !ok {
			b.projection = pos
			pos++
		}
		sb.WriteString(p.Accept(b.outer))
	}
	b.projection = -1
}

// writeClause writes "keyword item1,item2,..." if items is non-empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []nodes.Node) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	sb.WriteString(b.join(items, ","))
}

// writeConditions ANDs conds together and writes the clause unless the
// combination renders empty.
func (b *baseVisitor) writeConditions(sb *strings.Builder, keyword string, conds []nodes.Node) {
	if len(conds) == 0 {
		return
	}
	if s := b.chain(conds, comboOpSQL[nodes.OpAnd]); s != "" {
		sb.WriteString(keyword)
		sb.WriteString(s)
	}
}

func (b *baseVisitor) writeOrders(sb *strings.Builder, orders []*nodes.OrderingNode) {
	if len(orders) == 0 {
		return
	}
	sb.WriteString(" ORDER BY ")
	for i, o := range orders {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(o.Accept(b.outer))
	}
}

func (b *baseVisitor) writeComment(sb *strings.Builder, comment string) {
	if comment != "" {
		sb.WriteString(nodes.Comment(comment).Accept(b.outer))
	}
}

func (b *baseVisitor) VisitSetOperation(n *nodes.SetOperationNode) string {
	b.enter(true)
	defer b.leave()

	var sb strings.Builder
	for i, q := range n.Queries {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(n.Type.String())
			sb.WriteString(" ")
		}
		s := q.Accept(b.outer)
		if _, nested := q.(*nodes.SetOperationNode); nested {
			s = "(" + s + ")"
		}
		sb.WriteString(s)
	}
	saved := b.unqualified
	b.unqualified = true
	b.writeOrders(&sb, n.Orders)
	b.unqualified = saved
	return sb.String()
}

// enterTarget opens an unaliased scope for a statement that modifies or
// defines t.
func (b *baseVisitor) enterTarget(t nodes.TableRef) {
	b.enter(false)
	if t != nil {
		b.scope.register(t)
	}
}

func (b *baseVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	// The source query renders before the target is registered: it cannot
	// correlate with the inserted row, and may read from the same table.
	b.enter(false)
	defer b.leave()
	var source string
	if n.Select != nil {
		source = n.Select.Accept(b.outer)
	}
	b.scope.register(n.Into)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.qualified(n.Into.TableName()))
	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		sb.WriteString(b.join(n.Columns, ","))
		sb.WriteString(")")
	}
	if n.Select != nil {
		sb.WriteString(" ")
		sb.WriteString(source)
	} else {
		sb.WriteString(" VALUES (")
		sb.WriteString(b.join(n.Values, ","))
		sb.WriteString(")")
	}
	return sb.String()
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	b.enterTarget(n.Table)
	defer b.leave()

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.qualified(n.Table.TableName()))
	sb.WriteString(" SET ")
	for i, a := range n.Assignments {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(a.Accept(b.outer))
	}
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	return sb.String()
}

func (b *baseVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	b.enterTarget(n.From)
	defer b.leave()

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.qualified(n.From.TableName()))
	b.writeConditions(&sb, " WHERE ", n.Wheres)
	return sb.String()
}

func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	return n.Left.Accept(b.outer) + " = " + n.Right.Accept(b.outer)
}

func (b *baseVisitor) VisitCreateTable(n *nodes.CreateTableStatement) string {
	b.enterTarget(n.Table)
	defer b.leave()

	defs := make([]string, 0, len(n.Columns)+len(n.Constraints))
	for _, c := range n.Columns {
		defs = append(defs, c.Accept(b.outer))
	}
	for _, c := range n.Constraints {
		defs = append(defs, c.Accept(b.outer))
	}
	return "CREATE TABLE " + b.qualified(n.Table.TableName()) + " (" + strings.Join(defs, ",") + ")"
}

func (b *baseVisitor) VisitColumnDef(n *nodes.ColumnDefNode) string {
	var sb strings.Builder
	sb.WriteString(b.ident(n.Column.ColumnName()))
	if n.Type != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Type)
	}
	if n.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(n.Default.Accept(b.outer))
	}
	for _, c := range n.Constraints {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (b *baseVisitor) VisitConstraint(n *nodes.ConstraintNode) string {
	var sb strings.Builder
	if n.Name != "" {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(b.ident(n.Name))
		sb.WriteString(" ")
	}
	sb.WriteString(n.Type.String())
	sb.WriteString(" (")
	sb.WriteString(b.join(n.Columns, ","))
	sb.WriteString(")")
	if n.Type == nodes.ForeignKeyConstraint && n.RefTable != nil {
		sb.WriteString(" REFERENCES ")
		sb.WriteString(b.qualified(n.RefTable.TableName()))
		if len(n.RefColumns) > 0 {
			sb.WriteString(" (")
			sb.WriteString(b.join(n.RefColumns, ","))
			sb.WriteString(")")
		}
	}
	return sb.String()
}

func (b *baseVisitor) VisitDrop(n *nodes.DropStatement) string {
	s := "DROP " + n.Kind.String() + " " + b.qualified(n.Name)
	if n.Behavior != nodes.NoBehavior {
		s += " " + n.Behavior.String()
	}
	return s
}

func (b *baseVisitor) VisitAlterTable(n *nodes.AlterTableStatement) string {
	b.enterTarget(n.Table)
	defer b.leave()

	s := "ALTER TABLE " + b.qualified(n.Table.TableName()) + " "
	switch n.Action {
	case nodes.AddColumnAction:
		return s + "ADD COLUMN " + n.Column.Accept(b.outer)
	case nodes.DropColumnAction:
		s += "DROP COLUMN " + n.Dropped.Accept(b.outer)
		if n.Behavior != nodes.NoBehavior {
			s += " " + n.Behavior.String()
		}
		return s
	default:
		return s + "ADD " + n.Constraint.Accept(b.outer)
	}
}

func (b *baseVisitor) VisitCreateIndex(n *nodes.CreateIndexStatement) string {
	b.enterTarget(n.Table)
	defer b.leave()

	s := "CREATE "
	if n.Unique {
		s += "UNIQUE "
	}
	return s + "INDEX " + b.qualified(n.Name) + " ON " + b.qualified(n.Table.TableName()) +
		" (" + b.join(n.Columns, ",") + ")"
}

func (b *baseVisitor) VisitGrant(n *nodes.GrantStatement) string {
	var target nodes.TableRef
	if n.Target != nil {
		target = n.Target.Table
	}
	b.enterTarget(target)
	defer b.leave()

	var sb strings.Builder
	if n.Revoke {
		sb.WriteString("REVOKE ")
		if n.GrantOption {
			sb.WriteString("GRANT OPTION FOR ")
		}
	} else {
		sb.WriteString("GRANT ")
	}
	for i, p := range n.Privileges {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.Type.String())
		if len(p.Columns) > 0 {
			sb.WriteString("(")
			sb.WriteString(b.join(p.Columns, ","))
			sb.WriteString(")")
		}
	}
	if n.Target != nil {
		sb.WriteString(" ON ")
		sb.WriteString(n.Target.Kind.String())
		sb.WriteString(" ")
		if n.Target.Table != nil {
			sb.WriteString(b.qualified(n.Target.Table.TableName()))
		} else {
			sb.WriteString(b.qualified(n.Target.Name))
		}
	}
	if n.Revoke {
		sb.WriteString(" FROM ")
	} else {
		sb.WriteString(" TO ")
	}
	sb.WriteString(strings.Join(n.Grantees, ","))
	if n.Revoke {
		if n.Behavior != nodes.NoBehavior {
			sb.WriteString(" ")
			sb.WriteString(n.Behavior.String())
		}
	} else if n.GrantOption {
		sb.WriteString(" WITH GRANT OPTION")
	}
	return sb.String()
}
