package nodes

import "strings"

// LiteralNode wraps a raw Go value (string, int, float, bool, time, bytes)
// as an AST node. It is rendered according to the value's runtime type.
type LiteralNode struct {
	Predications
	Arithmetics
	Combinable
	Value any
}

func newLiteral(val any) *LiteralNode {
	n := &LiteralNode{Value: val}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	return newLiteral(val)
}

// Value is Literal with a concrete return type, for chaining.
func Value(val any) *LiteralNode {
	return newLiteral(val)
}

func (n *LiteralNode) Accept(v Visitor) string { return v.VisitLiteral(n) }
func (n *LiteralNode) Collect(*References)     {}

// StarNode represents the unqualified SQL wildcard *.
type StarNode struct{}

func (n *StarNode) Accept(v Visitor) string { return v.VisitStar(n) }
func (n *StarNode) Collect(*References)     {}

// NullNode represents the SQL NULL literal.
type NullNode struct {
	Predications
	Combinable
}

func (n *NullNode) Accept(v Visitor) string { return v.VisitNull(n) }
func (n *NullNode) Collect(*References)     {}

// SqlLiteral represents a raw SQL fragment injected verbatim into the query.
//
// SECURITY: The Raw field is rendered directly into SQL output without
// escaping. Never pass user-controlled input to NewSqlLiteral.
type SqlLiteral struct {
	Predications
	Arithmetics
	Combinable
	Raw string
}

func NewSqlLiteral(raw string) *SqlLiteral {
	n := &SqlLiteral{Raw: raw}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *SqlLiteral) Accept(v Visitor) string { return v.VisitSqlLiteral(n) }
func (n *SqlLiteral) Collect(*References)     {}

// CustomNode is a raw condition or expression rendered inside parentheses:
// (raw). Like SqlLiteral it bypasses escaping.
type CustomNode struct {
	Predications
	Arithmetics
	Combinable
	Raw string
}

func newCustom(raw string) *CustomNode {
	n := &CustomNode{Raw: raw}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// CustomCondition creates a raw boolean condition.
func CustomCondition(raw string) *CustomNode { return newCustom(raw) }

// CustomExpression creates a raw value expression.
func CustomExpression(raw string) *CustomNode { return newCustom(raw) }

func (n *CustomNode) Accept(v Visitor) string { return v.VisitCustom(n) }
func (n *CustomNode) Collect(*References)     {}

// CommentNode renders a single-line SQL comment: " -- text\n".
// Line breaks in the text are replaced so the comment cannot end early.
type CommentNode struct {
	Text string
}

// Comment creates a CommentNode.
func Comment(text string) *CommentNode {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	return &CommentNode{Text: text}
}

func (n *CommentNode) Accept(v Visitor) string { return v.VisitComment(n) }
func (n *CommentNode) Collect(*References)     {}

// Shared leaves. None of them reference schema objects.
var (
	// QuestionMark is a bare "?" parameter marker without index tracking.
	QuestionMark = NewSqlLiteral("?")
	// AllSymbol is the unqualified wildcard "*".
	AllSymbol = &StarNode{}
	// Null is the SQL NULL literal.
	Null = newNull()
)

func newNull() *NullNode {
	n := &NullNode{}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

// Star returns the shared unqualified wildcard.
func Star() *StarNode {
	return AllSymbol
}
