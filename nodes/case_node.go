package nodes

// CaseWhen represents a single WHEN ... THEN ... pair in a CASE expression.
type CaseWhen struct {
	Condition Node
	Result    Node
}

// CaseNode represents a SQL CASE expression:
//
//	(CASE [operand] WHEN cond THEN result ... [ELSE val] END)
//
// If Operand is nil, it is a "searched CASE" (CASE WHEN cond THEN ...).
// A CASE without any WHEN renders as empty text.
type CaseNode struct {
	Predications
	Arithmetics
	Combinable
	Operand Node       // nil for searched CASE
	Whens   []CaseWhen // WHEN ... THEN ... pairs
	ElseVal Node       // ELSE value (nil if omitted)
}

func (n *CaseNode) Accept(v Visitor) string { return v.VisitCase(n) }

func (n *CaseNode) Collect(refs *References) {
	collectAll(refs, n.Operand)
	for _, w := range n.Whens {
		collectAll(refs, w.Condition, w.Result)
	}
	collectAll(refs, n.ElseVal)
}

// NewCase creates a simple CASE keyed on operand.
func NewCase(operand any) *CaseNode {
	n := newCaseNode()
	n.Operand = Wrap(operand)
	return n
}

// NewSearchedCase creates a CASE whose WHEN clauses are conditions.
func NewSearchedCase() *CaseNode {
	return newCaseNode()
}

func newCaseNode() *CaseNode {
	n := &CaseNode{}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// When adds a WHEN ... THEN ... pair and returns the CaseNode for chaining.
func (n *CaseNode) When(cond, result any) *CaseNode {
	n.Whens = append(n.Whens, CaseWhen{Condition: Wrap(cond), Result: Wrap(result)})
	return n
}

// Else sets the ELSE value and returns the CaseNode for chaining.
func (n *CaseNode) Else(result any) *CaseNode {
	n.ElseVal = Wrap(result)
	return n
}
