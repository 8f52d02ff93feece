package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
	"github.com/bawdo/sqlbuild/visitors"
)

// treeManager is the shared base for all manager types. It holds the
// transformer pipeline and the validated flag.
type treeManager struct {
	transformers []plugins.Transformer
	validated    bool
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
	tm.validated = false
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// Validated reports whether the last Validate succeeded and nothing has
// changed since.
func (tm *treeManager) Validated() bool {
	return tm.validated
}

// touch clears the validated flag; every mutator calls it.
func (tm *treeManager) touch() {
	tm.validated = false
}

// settle records the outcome of a validation run.
func (tm *treeManager) settle(err error) error {
	tm.validated = err == nil
	return err
}

// render resets per-render visitor state and renders a top-level
// statement.
func render(v nodes.Visitor, n nodes.Node) string {
	if r, ok := v.(nodes.Resetter); ok {
		r.Reset()
	}
	return n.Accept(v)
}

func newANSI() nodes.Visitor { return visitors.NewANSIVisitor() }

// ansi renders n with the ANSI visitor.
func ansi(n nodes.Node) string {
	return render(newANSI(), n)
}

func wrapAll(vals []any) []nodes.Node {
	out := make([]nodes.Node, len(vals))
	for i, v := range vals {
		out[i] = nodes.Wrap(v)
	}
	return out
}
