package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
)

// SetOperationManager combines queries with UNION, INTERSECT or EXCEPT
// and orders the combined result.
type SetOperationManager struct {
	treeManager
	Node *nodes.SetOperationNode
}

// NewSetOperation combines queries with the given operator.
func NewSetOperation(op nodes.SetOpType, queries ...nodes.Query) *SetOperationManager {
	m := &SetOperationManager{Node: &nodes.SetOperationNode{Type: op}}
	return m.Add(queries...)
}

// Union combines queries with UNION.
func Union(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.Union, queries...)
}

// UnionAll combines queries with UNION ALL.
func UnionAll(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.UnionAll, queries...)
}

// Intersect combines queries with INTERSECT.
func Intersect(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.Intersect, queries...)
}

// IntersectAll combines queries with INTERSECT ALL.
func IntersectAll(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.IntersectAll, queries...)
}

// Except combines queries with EXCEPT.
func Except(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.Except, queries...)
}

// ExceptAll combines queries with EXCEPT ALL.
func ExceptAll(queries ...nodes.Query) *SetOperationManager {
	return NewSetOperation(nodes.ExceptAll, queries...)
}

// Add appends branches.
func (m *SetOperationManager) Add(queries ...nodes.Query) *SetOperationManager {
	m.touch()
	for _, q := range queries {
		if q == nil {
			panic("sqlbuild: nil query in set operation")
		}
		m.Node.Queries = append(m.Node.Queries, q.QueryNode())
	}
	return m
}

// Order appends orderings of the combined result.
func (m *SetOperationManager) Order(exprs ...any) *SetOperationManager {
	m.touch()
	m.Node.Orders = appendOrders(m.Node.Orders, nodes.NoDirection, exprs)
	return m
}

// OrderDesc appends descending orderings of the combined result.
func (m *SetOperationManager) OrderDesc(exprs ...any) *SetOperationManager {
	m.touch()
	m.Node.Orders = appendOrders(m.Node.Orders, nodes.Desc, exprs)
	return m
}

// OrderAt appends positional orderings.
func (m *SetOperationManager) OrderAt(positions ...any) *SetOperationManager {
	m.touch()
	for _, p := range positions {
		m.Node.Orders = append(m.Node.Orders, nodes.OrderAt(p))
	}
	return m
}

// Validate checks every branch and the combined ordering.
func (m *SetOperationManager) Validate() error {
	return m.settle(validateSetOperation(m.Node, nil))
}

// MustValidate panics when Validate fails.
func (m *SetOperationManager) MustValidate() *SetOperationManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the operation with v.
func (m *SetOperationManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Node), nil
}

// String renders ANSI SQL.
func (m *SetOperationManager) String() string { return ansi(m.Node) }

func (m *SetOperationManager) Accept(v nodes.Visitor) string  { return m.Node.Accept(v) }
func (m *SetOperationManager) Collect(refs *nodes.References) { m.Node.Collect(refs) }
func (m *SetOperationManager) QueryNode() nodes.Node          { return m.Node }
