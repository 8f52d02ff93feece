package nodes

// SetOpType represents the type of set operation.
type SetOpType int

const (
	Union SetOpType = iota
	UnionAll
	Intersect
	IntersectAll
	Except
	ExceptAll
)

// String returns the SQL keyword for this set operation type.
func (t SetOpType) String() string {
	switch t {
	case Union:
		return "UNION"
	case UnionAll:
		return "UNION ALL"
	case Intersect:
		return "INTERSECT"
	case IntersectAll:
		return "INTERSECT ALL"
	case Except:
		return "EXCEPT"
	case ExceptAll:
		return "EXCEPT ALL"
	default:
		return "UNION"
	}
}

// SetOperationNode joins two or more queries with one set operator and an
// optional ORDER BY over the combined result.
type SetOperationNode struct {
	Type    SetOpType
	Queries []Node // *SelectCore or nested *SetOperationNode
	Orders  []*OrderingNode
}

func (n *SetOperationNode) Accept(v Visitor) string { return v.VisitSetOperation(n) }
func (n *SetOperationNode) QueryNode() Node         { return n }

// Collect records every branch as a nested query plus the ordering
// references.
func (n *SetOperationNode) Collect(refs *References) {
	for _, q := range n.Queries {
		refs.AddSubquery(q)
	}
	for _, o := range n.Orders {
		collectAll(refs, o)
	}
}

// FirstSelect returns the leftmost SELECT of the operation.
func (n *SetOperationNode) FirstSelect() *SelectCore {
	if len(n.Queries) == 0 {
		return nil
	}
	switch q := n.Queries[0].(type) {
	case *SelectCore:
		return q
	case *SetOperationNode:
		return q.FirstSelect()
	}
	return nil
}
