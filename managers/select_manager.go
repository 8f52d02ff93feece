// Package managers provides fluent statement builders on top of the AST.
// Each builder owns its statement tree, runs transformer plugins on a clone
// before rendering, and validates the cross references of the tree.
package managers

import (
	"fmt"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectCore and applies transformer plugins before SQL generation.
type SelectManager struct {
	treeManager
	Core *nodes.SelectCore
}

// NewSelectManager creates an empty SELECT builder. Without explicit
// sources the FROM clause lists every referenced table.
func NewSelectManager() *SelectManager {
	return &SelectManager{Core: &nodes.SelectCore{}}
}

// Select appends projections. Column references, queries and Go values
// are wrapped with nodes.Wrap.
func (m *SelectManager) Select(projections ...any) *SelectManager {
	m.touch()
	m.Core.Projections = append(m.Core.Projections, wrapAll(projections)...)
	return m
}

// SelectAll appends the unqualified wildcard.
func (m *SelectManager) SelectAll() *SelectManager {
	return m.Select(nodes.Star())
}

// SelectAllOf appends alias.* for each table.
func (m *SelectManager) SelectAllOf(tables ...nodes.TableRef) *SelectManager {
	for _, t := range tables {
		m.Select(nodes.AllOf(t))
	}
	return m
}

// SelectAs appends expr AS alias.
func (m *SelectManager) SelectAs(expr any, alias string) *SelectManager {
	return m.Select(nodes.NewAliasNode(nodes.Wrap(expr), alias))
}

// AddComment appends a comment line to the projection list.
func (m *SelectManager) AddComment(text string) *SelectManager {
	return m.Select(nodes.Comment(text))
}

// From declares source tables. Tables already part of a source are
// skipped.
func (m *SelectManager) From(tables ...nodes.TableRef) *SelectManager {
	m.touch()
	for _, t := range tables {
		if m.sourceOf(t) < 0 {
			m.Core.Sources = append(m.Core.Sources, &nodes.FromTable{Table: t})
		}
	}
	return m
}

// FromCustom adds a verbatim FROM entry.
//
// SECURITY: raw is injected into the SQL output without escaping.
func (m *SelectManager) FromCustom(raw string) *SelectManager {
	m.touch()
	m.Core.Sources = append(m.Core.Sources, nodes.NewSqlLiteral(raw))
	return m
}

// Join joins to onto the source containing from with the given ON
// condition. When no source contains from, a new join chain starting at
// from is added.
func (m *SelectManager) Join(jt nodes.JoinType, from, to nodes.TableRef, on any) *SelectManager {
	if from == nil || to == nil {
		panic("sqlbuild: join needs both tables")
	}
	m.touch()
	var cond nodes.Node
	if on != nil {
		cond = nodes.Wrap(on)
	}
	m.attachJoin(&nodes.JoinNode{Right: &nodes.FromTable{Table: to}, Type: jt, On: cond}, from)
	return m
}

// JoinOn starts a join whose condition is supplied through the returned
// JoinContext.
func (m *SelectManager) JoinOn(jt nodes.JoinType, from, to nodes.TableRef) *JoinContext {
	if from == nil || to == nil {
		panic("sqlbuild: join needs both tables")
	}
	m.touch()
	join := &nodes.JoinNode{Right: &nodes.FromTable{Table: to}, Type: jt}
	m.attachJoin(join, from)
	return &JoinContext{manager: m, join: join}
}

// JoinColumns joins on fromCols[i] = toCols[i] for every i.
func (m *SelectManager) JoinColumns(jt nodes.JoinType, from, to nodes.TableRef, fromCols, toCols []nodes.ColumnRef) *SelectManager {
	if len(fromCols) == 0 || len(fromCols) != len(toCols) {
		panic("sqlbuild: join needs matching non-empty column lists")
	}
	conds := make([]any, len(fromCols))
	for i := range fromCols {
		conds[i] = nodes.Eq(fromCols[i], toCols[i])
	}
	var on nodes.Node = conds[0].(nodes.Node)
	if len(conds) > 1 {
		on = nodes.And(conds...)
	}
	return m.Join(jt, from, to, on)
}

// Joins adds one join per descriptor, using the descriptor's columns for
// the ON condition.
func (m *SelectManager) Joins(jt nodes.JoinType, joins ...*dbspec.Join) *SelectManager {
	for _, j := range joins {
		m.Join(jt, j.From, j.To, j.Condition())
	}
	return m
}

// CrossJoin adds a CROSS JOIN, which has no ON condition.
func (m *SelectManager) CrossJoin(from, to nodes.TableRef) *SelectManager {
	return m.Join(nodes.CrossJoin, from, to, nil)
}

func (m *SelectManager) attachJoin(join *nodes.JoinNode, from nodes.TableRef) {
	if i := m.sourceOf(from); i >= 0 {
		join.Left = m.Core.Sources[i]
		m.Core.Sources[i] = join
		return
	}
	join.Left = &nodes.FromTable{Table: from}
	m.Core.Sources = append(m.Core.Sources, join)
}

func (m *SelectManager) sourceOf(t nodes.TableRef) int {
	for i, src := range m.Core.Sources {
		if nodes.ContainsTable(src, t) {
			return i
		}
	}
	return -1
}

// Where appends conditions to the WHERE clause; they are ANDed together.
func (m *SelectManager) Where(conditions ...any) *SelectManager {
	m.touch()
	m.Core.Wheres = append(m.Core.Wheres, wrapAll(conditions)...)
	return m
}

// Group appends expressions to the GROUP BY clause.
func (m *SelectManager) Group(exprs ...any) *SelectManager {
	m.touch()
	m.Core.Groups = append(m.Core.Groups, wrapAll(exprs)...)
	return m
}

// Having appends conditions to the HAVING clause.
func (m *SelectManager) Having(conditions ...any) *SelectManager {
	m.touch()
	m.Core.Havings = append(m.Core.Havings, wrapAll(conditions)...)
	return m
}

// Order appends orderings. Ordering nodes are kept as-is; other values
// order without an explicit direction.
func (m *SelectManager) Order(exprs ...any) *SelectManager {
	m.touch()
	m.Core.Orders = appendOrders(m.Core.Orders, nodes.NoDirection, exprs)
	return m
}

// OrderDesc appends descending orderings.
func (m *SelectManager) OrderDesc(exprs ...any) *SelectManager {
	m.touch()
	m.Core.Orders = appendOrders(m.Core.Orders, nodes.Desc, exprs)
	return m
}

// OrderAt appends positional orderings (1-based SELECT list positions).
func (m *SelectManager) OrderAt(positions ...any) *SelectManager {
	m.touch()
	for _, p := range positions {
		m.Core.Orders = append(m.Core.Orders, nodes.OrderAt(p))
	}
	return m
}

func appendOrders(orders []*nodes.OrderingNode, dir nodes.OrderDirection, exprs []any) []*nodes.OrderingNode {
	for _, e := range exprs {
		if o, ok := e.(*nodes.OrderingNode); ok {
			orders = append(orders, o)
			continue
		}
		orders = append(orders, nodes.OrderBy(e, dir))
	}
	return orders
}

// Distinct enables or disables the DISTINCT modifier.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	m.touch()
	m.Core.Distinct = len(on) == 0 || on[0]
	return m
}

// Offset sets OFFSET n ROWS.
func (m *SelectManager) Offset(n any) *SelectManager {
	m.touch()
	m.Core.Offset = nodes.Wrap(n)
	return m
}

// Fetch sets FETCH NEXT n ROWS ONLY.
func (m *SelectManager) Fetch(n any) *SelectManager {
	m.touch()
	m.Core.Fetch = nodes.Wrap(n)
	return m
}

// ForUpdate sets the FOR UPDATE lock mode.
func (m *SelectManager) ForUpdate() *SelectManager {
	m.touch()
	m.Core.Lock = nodes.ForUpdate
	return m
}

// ForShare sets the FOR SHARE lock mode.
func (m *SelectManager) ForShare() *SelectManager {
	m.touch()
	m.Core.Lock = nodes.ForShare
	return m
}

// Comment sets a trailing single-line comment.
func (m *SelectManager) Comment(text string) *SelectManager {
	m.touch()
	m.Core.Comment = text
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// transformed applies the plugin pipeline to a clone of the core.
func (m *SelectManager) transformed() (*nodes.SelectCore, error) {
	return plugins.ApplySelect(m.transformers, m.Core.Clone())
}

// Validate checks the transformed query and records the outcome.
func (m *SelectManager) Validate() error {
	core, err := m.transformed()
	if err != nil {
		return m.settle(err)
	}
	return m.settle(validateSelect(core, nil))
}

// MustValidate panics when Validate fails.
func (m *SelectManager) MustValidate() *SelectManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL applies all registered transformers and renders with v.
func (m *SelectManager) ToSQL(v nodes.Visitor) (string, error) {
	core, err := m.transformed()
	if err != nil {
		return "", err
	}
	return render(v, core), nil
}

// String renders ANSI SQL; a failing transformer yields "".
func (m *SelectManager) String() string {
	core, err := m.transformed()
	if err != nil {
		return ""
	}
	return ansi(core)
}

// nested returns the core as it should appear inside another statement.
// Without transformers that is the live core; otherwise it is the
// transformed clone as of this call.
func (m *SelectManager) nested() *nodes.SelectCore {
	if len(m.transformers) == 0 {
		return m.Core
	}
	core, err := m.transformed()
	if err != nil {
		panic(fmt.Sprintf("sqlbuild: nested query: %v", err))
	}
	return core
}

// Accept renders the transformed core so a SelectManager can be nested
// wherever a node is expected.
func (m *SelectManager) Accept(v nodes.Visitor) string { return m.nested().Accept(v) }

// Collect reports the references of the transformed core.
func (m *SelectManager) Collect(refs *nodes.References) { m.nested().Collect(refs) }

// QueryNode returns the transformed core for nesting as a subquery or
// set operation branch.
func (m *SelectManager) QueryNode() nodes.Node { return m.nested() }

var _ fmt.Stringer = (*SelectManager)(nil)
