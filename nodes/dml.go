package nodes

// AssignmentNode represents a column = value pair in SET clauses.
type AssignmentNode struct {
	Left  Node // column
	Right Node // value
}

// Assign creates an AssignmentNode.
func Assign(col, val any) *AssignmentNode {
	return &AssignmentNode{Left: Wrap(col), Right: Wrap(val)}
}

func (n *AssignmentNode) Accept(v Visitor) string  { return v.VisitAssignment(n) }
func (n *AssignmentNode) Collect(refs *References) { collectAll(refs, n.Left, n.Right) }

// InsertStatement represents INSERT INTO ... VALUES or INSERT INTO ... SELECT.
type InsertStatement struct {
	Into    TableRef
	Columns []Node
	Values  []Node
	Select  Node // *SelectCore or *SetOperationNode; excludes Values
}

func (n *InsertStatement) Accept(v Visitor) string { return v.VisitInsertStatement(n) }

func (n *InsertStatement) Collect(refs *References) {
	refs.AddTable(n.Into)
	collectAll(refs, n.Columns...)
	collectAll(refs, n.Values...)
	if n.Select != nil {
		refs.AddSubquery(n.Select)
	}
}

// UpdateStatement represents UPDATE ... SET ... WHERE.
type UpdateStatement struct {
	Table       TableRef
	Assignments []*AssignmentNode
	Wheres      []Node
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdateStatement(n) }

func (n *UpdateStatement) Collect(refs *References) {
	refs.AddTable(n.Table)
	for _, a := range n.Assignments {
		collectAll(refs, a)
	}
	collectAll(refs, n.Wheres...)
}

// DeleteStatement represents DELETE FROM ... WHERE.
type DeleteStatement struct {
	From   TableRef
	Wheres []Node
}

func (n *DeleteStatement) Accept(v Visitor) string { return v.VisitDeleteStatement(n) }

func (n *DeleteStatement) Collect(refs *References) {
	refs.AddTable(n.From)
	collectAll(refs, n.Wheres...)
}
