package nodes

// Combinable provides logical chaining methods to types that embed it.
// The self field must be set to the embedding node.
type Combinable struct {
	self Node
}

// And creates an AND combination of self and others.
func (c Combinable) And(others ...any) *ComboNode {
	return And(append([]any{c.self}, others...)...)
}

// Or creates an OR combination of self and others.
func (c Combinable) Or(others ...any) *ComboNode {
	return Or(append([]any{c.self}, others...)...)
}

// Not creates (NOT self).
func (c Combinable) Not() *NotNode {
	return Not(c.self)
}
