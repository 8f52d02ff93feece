package nodes

// OrderDirection is the direction of an ORDER BY entry. NoDirection
// renders no keyword.
type OrderDirection int

const (
	NoDirection OrderDirection = iota
	Asc
	Desc
)

// NullsDirection controls NULLS FIRST/LAST positioning.
type NullsDirection int

const (
	NullsDefault NullsDirection = iota
	NullsFirst
	NullsLast
)

// OrderingNode represents an ORDER BY expression with a direction. A
// literal expression is a positional (1-based) reference into the SELECT
// list.
type OrderingNode struct {
	Expr      Node
	Direction OrderDirection
	Nulls     NullsDirection
}

// OrderBy creates an ordering on expr with the given direction.
func OrderBy(expr any, dir OrderDirection) *OrderingNode {
	return &OrderingNode{Expr: Wrap(expr), Direction: dir}
}

// OrderAt creates a positional ordering: ORDER BY pos.
func OrderAt(pos any) *OrderingNode {
	return &OrderingNode{Expr: newLiteral(pos)}
}

func (n *OrderingNode) Accept(v Visitor) string  { return v.VisitOrdering(n) }
func (n *OrderingNode) Collect(refs *References) { collectAll(refs, n.Expr) }

// NullsFirst sets NULLS FIRST and returns the node for chaining.
func (n *OrderingNode) NullsFirst() *OrderingNode {
	n.Nulls = NullsFirst
	return n
}

// NullsLast sets NULLS LAST and returns the node for chaining.
func (n *OrderingNode) NullsLast() *OrderingNode {
	n.Nulls = NullsLast
	return n
}

// Position returns the literal value of a positional ordering.
func (n *OrderingNode) Position() (any, bool) {
	lit, ok := n.Expr.(*LiteralNode)
	if !ok {
		return nil, false
	}
	return lit.Value, true
}
