package nodes

// UnaryOp represents a unary condition operator.
type UnaryOp int

const (
	OpIsNull UnaryOp = iota
	OpIsNotNull
	OpExists
	OpUnique
)

// Prefix reports whether the operator is written before its operand.
func (op UnaryOp) Prefix() bool {
	return op == OpExists || op == OpUnique
}

// UnaryNode represents a unary condition: (Expr IS NULL) or (EXISTS Expr).
type UnaryNode struct {
	Combinable
	Expr Node
	Op   UnaryOp
}

// NewUnary creates a unary condition on expr.
func NewUnary(op UnaryOp, expr any) *UnaryNode {
	n := &UnaryNode{Expr: Wrap(expr), Op: op}
	n.self = n
	return n
}

func (n *UnaryNode) Accept(v Visitor) string  { return v.VisitUnary(n) }
func (n *UnaryNode) Collect(refs *References) { collectAll(refs, n.Expr) }

func IsNull(expr any) *UnaryNode    { return NewUnary(OpIsNull, expr) }
func IsNotNull(expr any) *UnaryNode { return NewUnary(OpIsNotNull, expr) }

// Exists creates (EXISTS (subquery)).
func Exists(q Query) *UnaryNode { return NewUnary(OpExists, NewSubquery(q)) }

// Unique creates (UNIQUE (subquery)).
func Unique(q Query) *UnaryNode { return NewUnary(OpUnique, NewSubquery(q)) }

// NotNode negates a single condition: (NOT Expr). It renders empty text
// when its child does.
type NotNode struct {
	Combinable
	Expr Node
}

// Not creates a NotNode.
func Not(expr any) *NotNode {
	n := &NotNode{Expr: Wrap(expr)}
	n.self = n
	return n
}

func (n *NotNode) Accept(v Visitor) string  { return v.VisitNot(n) }
func (n *NotNode) Collect(refs *References) { collectAll(refs, n.Expr) }
