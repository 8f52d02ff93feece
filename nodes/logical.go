package nodes

// ComboOp is the joining operator of a ComboNode.
type ComboOp int

const (
	OpAnd ComboOp = iota
	OpOr
)

// ComboNode is an n-ary AND/OR condition: (a AND b AND c). Children that
// render as empty text are skipped; with no rendered children the node
// renders as empty text, and with one it renders as that child alone.
type ComboNode struct {
	Combinable
	Op       ComboOp
	Children []Node
}

// NewCombo creates a combination; nil conditions are ignored.
func NewCombo(op ComboOp, conds ...any) *ComboNode {
	n := &ComboNode{Op: op}
	n.self = n
	return n.Add(conds...)
}

// And creates an AND combination of conds.
func And(conds ...any) *ComboNode { return NewCombo(OpAnd, conds...) }

// Or creates an OR combination of conds.
func Or(conds ...any) *ComboNode { return NewCombo(OpOr, conds...) }

// Add appends conditions and returns the node for chaining.
func (n *ComboNode) Add(conds ...any) *ComboNode {
	for _, c := range conds {
		if c == nil {
			continue
		}
		n.Children = append(n.Children, Wrap(c))
	}
	return n
}

// Empty reports whether the combination has no children.
func (n *ComboNode) Empty() bool { return len(n.Children) == 0 }

func (n *ComboNode) Accept(v Visitor) string  { return v.VisitCombo(n) }
func (n *ComboNode) Collect(refs *References) { collectAll(refs, n.Children...) }
