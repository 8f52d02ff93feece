package nodes

import (
	"errors"
	"fmt"
)

// ErrUnboundPlaceholder is returned by Binder.Args when a rendered
// placeholder position has no value.
var ErrUnboundPlaceholder = errors.New("sqlbuild: placeholder has no value")

// RenderPass identifies one render of a statement. Placeholder and result
// column indices are only valid for the pass that assigned them.
type RenderPass struct {
	_ byte // non-zero size so distinct passes never share an address
}

// NewRenderPass creates a fresh render pass token.
func NewRenderPass() *RenderPass {
	return &RenderPass{}
}

// Preparer hands out bound-parameter indices to the placeholders it
// creates. Indices are assigned in render order, starting at the configured
// start index each time a new render pass begins.
type Preparer struct {
	start   int
	pass    *RenderPass
	next    int
	statics []*PlaceHolder
}

// NewPreparer creates a Preparer whose first index is start. A start
// greater than 1 leaves lower positions to surrounding code.
func NewPreparer(start int) *Preparer {
	if start < 1 {
		panic("sqlbuild: preparer start index must be at least 1")
	}
	return &Preparer{start: start, next: start}
}

// StartIndex returns the first index this preparer assigns.
func (p *Preparer) StartIndex() int { return p.start }

// Count returns the number of indices assigned in the latest render pass.
func (p *Preparer) Count() int {
	if p.pass == nil {
		return 0
	}
	return p.next - p.start
}

func (p *Preparer) assign(pass *RenderPass) int {
	if p.pass != pass {
		p.pass = pass
		p.next = p.start
	}
	i := p.next
	p.next++
	return i
}

// NewPlaceHolder creates a placeholder for a single value.
func (p *Preparer) NewPlaceHolder() *PlaceHolder {
	n := &PlaceHolder{prep: p}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// AddStaticPlaceHolder creates a placeholder whose value is fixed now and
// filled in by every Binder.
func (p *Preparer) AddStaticPlaceHolder(val any) *PlaceHolder {
	n := p.NewPlaceHolder()
	n.static = true
	n.value = val
	p.statics = append(p.statics, n)
	return n
}

// NewMultiPlaceHolder creates a placeholder for one value that may appear
// at several positions.
func (p *Preparer) NewMultiPlaceHolder() *MultiPlaceHolder {
	n := &MultiPlaceHolder{prep: p}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// PlaceHolder is a single "?" position. It keeps the index it was given
// the first time it rendered in the current pass.
type PlaceHolder struct {
	Predications
	Arithmetics
	Combinable
	prep   *Preparer
	pass   *RenderPass
	index  int
	static bool
	value  any
}

func (n *PlaceHolder) Accept(v Visitor) string { return v.VisitPlaceHolder(n) }
func (n *PlaceHolder) Collect(*References)     {}

// Assign returns the placeholder's index for pass, assigning the next
// free index on first use.
func (n *PlaceHolder) Assign(pass *RenderPass) int {
	if n.pass != pass {
		n.index = n.prep.assign(pass)
		n.pass = pass
	}
	return n.index
}

// AssignedIn reports whether the placeholder already has an index in pass.
func (n *PlaceHolder) AssignedIn(pass *RenderPass) bool {
	return pass != nil && n.pass == pass
}

// InQuery reports whether the placeholder was rendered in the latest pass.
func (n *PlaceHolder) InQuery() bool {
	return n.pass != nil && n.pass == n.prep.pass
}

// Index returns the assigned index. It panics when the placeholder is not
// part of the latest rendered query.
func (n *PlaceHolder) Index() int {
	if !n.InQuery() {
		panic("sqlbuild: placeholder is not in query")
	}
	return n.index
}

// Static reports whether the placeholder carries a fixed value.
func (n *PlaceHolder) Static() (any, bool) {
	return n.value, n.static
}

// MultiPlaceHolder is one value rendered at several "?" positions. It
// records one index per occurrence, in render order.
type MultiPlaceHolder struct {
	Predications
	Arithmetics
	Combinable
	prep    *Preparer
	pass    *RenderPass
	indexes []int
}

func (n *MultiPlaceHolder) Accept(v Visitor) string { return v.VisitMultiPlaceHolder(n) }
func (n *MultiPlaceHolder) Collect(*References)     {}

// Assign records a new occurrence in pass and returns its index.
func (n *MultiPlaceHolder) Assign(pass *RenderPass) int {
	if n.pass != pass {
		n.pass = pass
		n.indexes = nil
	}
	i := n.prep.assign(pass)
	n.indexes = append(n.indexes, i)
	return i
}

// InQuery reports whether the placeholder was rendered in the latest pass.
func (n *MultiPlaceHolder) InQuery() bool {
	return n.pass != nil && n.pass == n.prep.pass && len(n.indexes) > 0
}

// Indexes returns the occurrence indices of the latest pass, or nil.
func (n *MultiPlaceHolder) Indexes() []int {
	if !n.InQuery() {
		return nil
	}
	out := make([]int, len(n.indexes))
	copy(out, n.indexes)
	return out
}

// Binder collects values for a Preparer's placeholders and lays them out
// as positional arguments.
type Binder struct {
	prep   *Preparer
	single map[*PlaceHolder]any
	multi  map[*MultiPlaceHolder]any
}

// Binder creates an empty Binder. Static placeholder values are included
// automatically.
func (p *Preparer) Binder() *Binder {
	return &Binder{
		prep:   p,
		single: make(map[*PlaceHolder]any),
		multi:  make(map[*MultiPlaceHolder]any),
	}
}

// Set binds a value to a placeholder.
func (b *Binder) Set(ph *PlaceHolder, val any) *Binder {
	if ph.prep != b.prep {
		panic("sqlbuild: placeholder belongs to a different preparer")
	}
	b.single[ph] = val
	return b
}

// SetMulti binds a value to every occurrence of a multi placeholder.
func (b *Binder) SetMulti(ph *MultiPlaceHolder, val any) *Binder {
	if ph.prep != b.prep {
		panic("sqlbuild: placeholder belongs to a different preparer")
	}
	b.multi[ph] = val
	return b
}

// Args returns the values for positions StartIndex..StartIndex+Count-1 of
// the latest render pass. Placeholders that did not render are ignored.
func (b *Binder) Args() ([]any, error) {
	p := b.prep
	args := make([]any, p.Count())
	bound := make([]bool, len(args))
	put := func(idx int, val any) {
		args[idx-p.start] = val
		bound[idx-p.start] = true
	}
	for _, ph := range p.statics {
		if ph.InQuery() {
			put(ph.index, ph.value)
		}
	}
	for ph, val := range b.single {
		if ph.InQuery() {
			put(ph.index, val)
		}
	}
	for ph, val := range b.multi {
		for _, idx := range ph.Indexes() {
			put(idx, val)
		}
	}
	for i, ok := range bound {
		if !ok {
			return nil, fmt.Errorf("index %d: %w", p.start+i, ErrUnboundPlaceholder)
		}
	}
	return args, nil
}
