package nodes

import "strings"

// ComparisonOp represents a binary comparison operator.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpLike
	OpNotLike
)

// ComparisonNode represents a binary condition: (Left op Right), with an
// optional ESCAPE character for LIKE and NOT LIKE.
type ComparisonNode struct {
	Combinable
	Left   Node
	Right  Node
	Op     ComparisonOp
	Escape rune // 0 when no ESCAPE clause
}

// NewComparison creates a comparison of left and right.
func NewComparison(op ComparisonOp, left, right any) *ComparisonNode {
	n := &ComparisonNode{Left: Wrap(left), Right: Wrap(right), Op: op}
	n.self = n
	return n
}

func (n *ComparisonNode) Accept(v Visitor) string  { return v.VisitComparison(n) }
func (n *ComparisonNode) Collect(refs *References) { collectAll(refs, n.Left, n.Right) }

// SetEscape sets the LIKE escape character. It panics when the operator is
// not LIKE/NOT LIKE, or when a literal string pattern already contains the
// escape character without it escaping %, _ or itself.
func (n *ComparisonNode) SetEscape(c rune) *ComparisonNode {
	if n.Op != OpLike && n.Op != OpNotLike {
		panic("sqlbuild: escape character is only valid for LIKE conditions")
	}
	if lit, ok := n.Right.(*LiteralNode); ok {
		if s, ok := lit.Value.(string); ok && !escapeUsable(s, c) {
			panic("sqlbuild: LIKE pattern " + s + " already contains escape character " + string(c))
		}
	}
	n.Escape = c
	return n
}

// escapeUsable reports whether every occurrence of esc in pattern is an
// escape sequence (esc followed by %, _ or esc).
func escapeUsable(pattern string, esc rune) bool {
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		if rs[i] != esc {
			continue
		}
		if i+1 >= len(rs) {
			return false
		}
		switch rs[i+1] {
		case '%', '_', esc:
			i++
		default:
			return false
		}
	}
	return true
}

// EscapeLikeLiteral escapes %, _ and the escape character itself in s by
// prefixing them with esc, so s matches literally inside a LIKE pattern.
func EscapeLikeLiteral(s string, esc rune) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == esc {
			b.WriteRune(esc)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func Eq(l, r any) *ComparisonNode      { return NewComparison(OpEq, l, r) }
func NotEq(l, r any) *ComparisonNode   { return NewComparison(OpNotEq, l, r) }
func Like(l, r any) *ComparisonNode    { return NewComparison(OpLike, l, r) }
func NotLike(l, r any) *ComparisonNode { return NewComparison(OpNotLike, l, r) }

// LessThan creates (l < r), or (l <= r) when inclusive.
func LessThan(l, r any, inclusive bool) *ComparisonNode {
	if inclusive {
		return NewComparison(OpLtEq, l, r)
	}
	return NewComparison(OpLt, l, r)
}

// GreaterThan creates (l > r), or (l >= r) when inclusive.
func GreaterThan(l, r any, inclusive bool) *ComparisonNode {
	if inclusive {
		return NewComparison(OpGtEq, l, r)
	}
	return NewComparison(OpGt, l, r)
}

// BetweenNode represents a BETWEEN or NOT BETWEEN range predicate.
type BetweenNode struct {
	Combinable
	Expr   Node
	Low    Node
	High   Node
	Negate bool
}

// NewBetween creates (expr BETWEEN low AND high).
func NewBetween(expr, low, high any) *BetweenNode {
	n := &BetweenNode{Expr: Wrap(expr), Low: Wrap(low), High: Wrap(high)}
	n.self = n
	return n
}

func (n *BetweenNode) Accept(v Visitor) string  { return v.VisitBetween(n) }
func (n *BetweenNode) Collect(refs *References) { collectAll(refs, n.Expr, n.Low, n.High) }
