package nodes

// Predications provides comparison methods to types that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Node
}

// Eq creates an equality comparison: (self = val).
func (p Predications) Eq(val any) *ComparisonNode {
	return NewComparison(OpEq, p.self, val)
}

// NotEq creates an inequality comparison: (self <> val).
func (p Predications) NotEq(val any) *ComparisonNode {
	return NewComparison(OpNotEq, p.self, val)
}

// Gt creates a greater-than comparison: (self > val).
func (p Predications) Gt(val any) *ComparisonNode {
	return NewComparison(OpGt, p.self, val)
}

// GtEq creates a greater-than-or-equal comparison: (self >= val).
func (p Predications) GtEq(val any) *ComparisonNode {
	return NewComparison(OpGtEq, p.self, val)
}

// Lt creates a less-than comparison: (self < val).
func (p Predications) Lt(val any) *ComparisonNode {
	return NewComparison(OpLt, p.self, val)
}

// LtEq creates a less-than-or-equal comparison: (self <= val).
func (p Predications) LtEq(val any) *ComparisonNode {
	return NewComparison(OpLtEq, p.self, val)
}

// Like creates a LIKE comparison: (self LIKE val).
func (p Predications) Like(val any) *ComparisonNode {
	return NewComparison(OpLike, p.self, val)
}

// NotLike creates a NOT LIKE comparison: (self NOT LIKE val).
func (p Predications) NotLike(val any) *ComparisonNode {
	return NewComparison(OpNotLike, p.self, val)
}

// In creates an IN predicate: (self IN (vals...)). A single query value
// renders as a subquery.
func (p Predications) In(vals ...any) *InNode {
	return In(p.self, vals...)
}

// NotIn creates a NOT IN predicate: (self NOT IN (vals...)).
func (p Predications) NotIn(vals ...any) *InNode {
	return NotIn(p.self, vals...)
}

// Between creates a BETWEEN predicate: (self BETWEEN low AND high).
func (p Predications) Between(low, high any) *BetweenNode {
	return NewBetween(p.self, low, high)
}

// IsNull creates (self IS NULL).
func (p Predications) IsNull() *UnaryNode {
	return NewUnary(OpIsNull, p.self)
}

// IsNotNull creates (self IS NOT NULL).
func (p Predications) IsNotNull() *UnaryNode {
	return NewUnary(OpIsNotNull, p.self)
}

// Asc creates an ascending ordering on self.
func (p Predications) Asc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Asc}
}

// Desc creates a descending ordering on self.
func (p Predications) Desc() *OrderingNode {
	return &OrderingNode{Expr: p.self, Direction: Desc}
}

// As creates a column alias: self AS name.
func (p Predications) As(name string) *AliasNode {
	return NewAliasNode(p.self, name)
}
