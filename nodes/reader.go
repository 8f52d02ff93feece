package nodes

// Reader names SELECT-list positions for reading result rows. Each
// ResultColumn it creates is stamped with start+position when it renders
// as a projection.
type Reader struct {
	start int
	pass  *RenderPass
}

// NewReader creates a Reader whose first column index is start.
func NewReader(start int) *Reader {
	if start < 1 {
		panic("sqlbuild: reader start index must be at least 1")
	}
	return &Reader{start: start}
}

// StartIndex returns the index given to the first projection.
func (r *Reader) StartIndex() int { return r.start }

// Column wraps a projection expression in a ResultColumn.
func (r *Reader) Column(expr any) *ResultColumn {
	return &ResultColumn{reader: r, Expr: Wrap(expr)}
}

// ResultColumn marks one SELECT-list entry.
type ResultColumn struct {
	Expr   Node
	reader *Reader
	pass   *RenderPass
	index  int
}

func (n *ResultColumn) Accept(v Visitor) string  { return v.VisitResultColumn(n) }
func (n *ResultColumn) Collect(refs *References) { collectAll(refs, n.Expr) }

// Stamp records that the column rendered at the given zero-based
// projection position during pass.
func (n *ResultColumn) Stamp(pass *RenderPass, position int) {
	n.reader.pass = pass
	n.pass = pass
	n.index = n.reader.start + position
}

// InQuery reports whether the column rendered in the reader's latest pass.
func (n *ResultColumn) InQuery() bool {
	return n.pass != nil && n.pass == n.reader.pass
}

// Index returns the stamped index. It panics when the column is not part
// of the latest rendered query.
func (n *ResultColumn) Index() int {
	if !n.InQuery() {
		panic("sqlbuild: result column is not in query")
	}
	return n.index
}

// Position returns the zero-based offset of the column in a result row.
func (n *ResultColumn) Position() int {
	return n.Index() - n.reader.start
}
