package nodes

// ArithOp is the joining operator of an ArithNode.
type ArithOp int

const (
	OpPlus ArithOp = iota
	OpMinus
	OpMultiply
	OpDivide
	OpConcat
)

// ArithNode is an n-ary arithmetic or concatenation chain: (a + b + c).
// Like ComboNode it renders empty text without children and the single
// child alone when it has one.
type ArithNode struct {
	Predications
	Arithmetics
	Combinable
	Op       ArithOp
	Children []Node
}

// NewArith creates an arithmetic chain over operands.
func NewArith(op ArithOp, operands ...any) *ArithNode {
	n := &ArithNode{Op: op}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n.Add(operands...)
}

func Add(operands ...any) *ArithNode      { return NewArith(OpPlus, operands...) }
func Subtract(operands ...any) *ArithNode { return NewArith(OpMinus, operands...) }
func Multiply(operands ...any) *ArithNode { return NewArith(OpMultiply, operands...) }
func Divide(operands ...any) *ArithNode   { return NewArith(OpDivide, operands...) }
func Concat(operands ...any) *ArithNode   { return NewArith(OpConcat, operands...) }

// Add appends operands and returns the node for chaining.
func (n *ArithNode) Add(operands ...any) *ArithNode {
	n.Children = append(n.Children, wrapAll(operands)...)
	return n
}

func (n *ArithNode) Accept(v Visitor) string  { return v.VisitArith(n) }
func (n *ArithNode) Collect(refs *References) { collectAll(refs, n.Children...) }

// NegateNode is arithmetic negation: (- Expr).
type NegateNode struct {
	Predications
	Arithmetics
	Combinable
	Expr Node
}

// Negate creates a NegateNode.
func Negate(expr any) *NegateNode {
	n := &NegateNode{Expr: Wrap(expr)}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *NegateNode) Accept(v Visitor) string  { return v.VisitNegate(n) }
func (n *NegateNode) Collect(refs *References) { collectAll(refs, n.Expr) }
