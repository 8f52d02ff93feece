package nodes

// LockMode represents row-level locking for SELECT queries.
type LockMode int

const (
	NoLock    LockMode = iota
	ForUpdate          // FOR UPDATE
	ForShare           // FOR SHARE
)

// String returns the SQL keyword for this lock mode.
func (m LockMode) String() string {
	switch m {
	case ForUpdate:
		return "FOR UPDATE"
	case ForShare:
		return "FOR SHARE"
	default:
		return ""
	}
}

// SelectCore represents the data container for a SELECT statement.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	Distinct    bool
	Projections []Node
	Sources     []Node // explicit FROM entries: *FromTable, *JoinNode, *SqlLiteral
	Wheres      []Node
	Groups      []Node
	Havings     []Node
	Orders      []*OrderingNode
	Offset      Node // OFFSET n ROWS
	Fetch       Node // FETCH NEXT n ROWS ONLY
	Lock        LockMode
	Comment     string // trailing -- comment
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }
func (n *SelectCore) QueryNode() Node         { return n }

// Collect gathers the references of every clause, including the FROM
// sources.
func (n *SelectCore) Collect(refs *References) {
	collectAll(refs, n.Sources...)
	n.collectClauses(refs)
}

// ClauseRefs gathers the references of every clause except FROM.
func (n *SelectCore) ClauseRefs() *References {
	refs := NewReferences()
	n.collectClauses(refs)
	return refs
}

func (n *SelectCore) collectClauses(refs *References) {
	collectAll(refs, n.Projections...)
	collectAll(refs, n.Wheres...)
	collectAll(refs, n.Groups...)
	collectAll(refs, n.Havings...)
	for _, o := range n.Orders {
		collectAll(refs, o)
	}
}

// FromSources returns the explicit sources when any were declared,
// otherwise one *FromTable per referenced table in first-seen order.
func (n *SelectCore) FromSources() []Node {
	if len(n.Sources) > 0 {
		return n.Sources
	}
	tables := n.ClauseRefs().Tables
	out := make([]Node, len(tables))
	for i, t := range tables {
		out[i] = &FromTable{Table: t}
	}
	return out
}

// Arity returns the number of result columns (comments excluded).
func (n *SelectCore) Arity() int {
	count := 0
	for _, p := range n.Projections {
		if _, ok := p.(*CommentNode); !ok {
			count++
		}
	}
	return count
}

// SelectsAll reports whether the projection list contains an unqualified *.
func (n *SelectCore) SelectsAll() bool {
	for _, p := range n.Projections {
		if _, ok := p.(*StarNode); ok {
			return true
		}
	}
	return false
}

// Clone returns a copy whose clause slices can be modified independently.
func (n *SelectCore) Clone() *SelectCore {
	c := *n
	c.Projections = append([]Node(nil), n.Projections...)
	c.Sources = append([]Node(nil), n.Sources...)
	c.Wheres = append([]Node(nil), n.Wheres...)
	c.Groups = append([]Node(nil), n.Groups...)
	c.Havings = append([]Node(nil), n.Havings...)
	c.Orders = append([]*OrderingNode(nil), n.Orders...)
	return &c
}
