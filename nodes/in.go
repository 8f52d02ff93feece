package nodes

// InNode represents an IN or NOT IN set predicate over a value list or a
// single subquery. An empty value list renders as empty text.
type InNode struct {
	Combinable
	Expr   Node
	Vals   []Node
	Negate bool
}

// In creates (expr IN (vals...)).
func In(expr any, vals ...any) *InNode {
	n := &InNode{Expr: Wrap(expr), Vals: wrapAll(vals)}
	n.self = n
	return n
}

// NotIn creates (expr NOT IN (vals...)).
func NotIn(expr any, vals ...any) *InNode {
	n := In(expr, vals...)
	n.Negate = true
	return n
}

// AddValues appends values and returns the node for chaining.
func (n *InNode) AddValues(vals ...any) *InNode {
	n.Vals = append(n.Vals, wrapAll(vals)...)
	return n
}

func (n *InNode) Accept(v Visitor) string { return v.VisitIn(n) }

func (n *InNode) Collect(refs *References) {
	collectAll(refs, n.Expr)
	collectAll(refs, n.Vals...)
}
