package nodes

// JoinType represents the type of SQL JOIN.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

// String returns the SQL keywords for this join type.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case LeftOuterJoin:
		return "LEFT OUTER JOIN"
	case RightOuterJoin:
		return "RIGHT OUTER JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// JoinNode is one link of a FROM-clause join chain. Left is the chain so
// far (a *FromTable or another *JoinNode); Right is the joined table.
type JoinNode struct {
	Left  Node
	Right Node
	Type  JoinType
	On    Node // nil for CROSS JOIN
}

func (n *JoinNode) Accept(v Visitor) string  { return v.VisitJoin(n) }
func (n *JoinNode) Collect(refs *References) { collectAll(refs, n.Left, n.Right, n.On) }

// SourceTables returns the tables of a FROM source in declaration order:
// a single table for *FromTable, every table of a join chain, and nothing
// for custom fragments.
func SourceTables(source Node) []TableRef {
	switch s := source.(type) {
	case *FromTable:
		return []TableRef{s.Table}
	case *JoinNode:
		return append(SourceTables(s.Left), SourceTables(s.Right)...)
	}
	return nil
}

// ContainsTable reports whether source includes t.
func ContainsTable(source Node, t TableRef) bool {
	for _, st := range SourceTables(source) {
		if st == t {
			return true
		}
	}
	return false
}
