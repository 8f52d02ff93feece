package nodes

// Subquery nests a complete query inside an expression: (SELECT ...).
// The query renders in a child alias scope that can still resolve the
// enclosing statement's tables.
type Subquery struct {
	Predications
	Combinable
	Query Node
}

// NewSubquery wraps q in a Subquery node.
func NewSubquery(q Query) *Subquery {
	n := &Subquery{Query: q.QueryNode()}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *Subquery) Accept(v Visitor) string  { return v.VisitSubquery(n) }
func (n *Subquery) Collect(refs *References) { refs.AddSubquery(n.Query) }
