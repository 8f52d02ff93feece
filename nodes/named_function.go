package nodes

// FunctionNode represents a function call: name(args), name(DISTINCT args)
// or COUNT(*). Ref, when set, supplies the schema-qualified name.
type FunctionNode struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Ref      FunctionRef
	Args     []Node
	Distinct bool
	Star     bool // renders a lone * argument
}

func (n *FunctionNode) Accept(v Visitor) string  { return v.VisitFunction(n) }
func (n *FunctionNode) Collect(refs *References) { collectAll(refs, n.Args...) }

// QualifiedName returns the name to render.
func (n *FunctionNode) QualifiedName() string {
	if n.Ref != nil {
		return n.Ref.FunctionName()
	}
	return n.Name
}

// Call creates a function call. fn is a FunctionRef or a plain name.
func Call(fn any, args ...any) *FunctionNode {
	n := &FunctionNode{Args: wrapAll(args)}
	switch f := fn.(type) {
	case FunctionRef:
		n.Ref = f
	case string:
		n.Name = f
	default:
		panic("sqlbuild: function must be a FunctionRef or a name")
	}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// AddArgs appends arguments and returns the node for chaining.
func (n *FunctionNode) AddArgs(args ...any) *FunctionNode {
	n.Args = append(n.Args, wrapAll(args)...)
	return n
}

// SetDistinct toggles the DISTINCT argument modifier.
func (n *FunctionNode) SetDistinct(on bool) *FunctionNode {
	n.Distinct = on
	return n
}

func Sum(args ...any) *FunctionNode   { return Call("SUM", args...) }
func Count(args ...any) *FunctionNode { return Call("COUNT", args...) }
func Min(args ...any) *FunctionNode   { return Call("MIN", args...) }
func Max(args ...any) *FunctionNode   { return Call("MAX", args...) }
func Avg(args ...any) *FunctionNode   { return Call("AVG", args...) }

// CountAll creates COUNT(*).
func CountAll() *FunctionNode {
	n := Call("COUNT")
	n.Star = true
	return n
}

// CountDistinct creates COUNT(DISTINCT expr).
func CountDistinct(expr any) *FunctionNode {
	return Count(expr).SetDistinct(true)
}

// Coalesce creates a COALESCE(args...) function call.
func Coalesce(args ...any) *FunctionNode { return Call("COALESCE", args...) }

// Lower creates a LOWER(expr) function call.
func Lower(expr any) *FunctionNode { return Call("LOWER", expr) }

// Upper creates an UPPER(expr) function call.
func Upper(expr any) *FunctionNode { return Call("UPPER", expr) }
