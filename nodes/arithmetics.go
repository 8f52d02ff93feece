package nodes

// Arithmetics provides math and concatenation methods to types that embed it.
// The self field must be set to the embedding node.
type Arithmetics struct {
	self Node
}

func (a Arithmetics) Plus(val any) *ArithNode     { return NewArith(OpPlus, a.self, val) }
func (a Arithmetics) Minus(val any) *ArithNode    { return NewArith(OpMinus, a.self, val) }
func (a Arithmetics) Multiply(val any) *ArithNode { return NewArith(OpMultiply, a.self, val) }
func (a Arithmetics) Divide(val any) *ArithNode   { return NewArith(OpDivide, a.self, val) }
func (a Arithmetics) Concat(val any) *ArithNode   { return NewArith(OpConcat, a.self, val) }

// Negate creates (- self).
func (a Arithmetics) Negate() *NegateNode {
	return Negate(a.self)
}
