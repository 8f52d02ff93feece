package nodes

// References accumulates the tables, columns and nested queries touched by
// a node tree, in first-seen order. Adding a column also adds its table.
// The zero value is ready to use.
type References struct {
	Tables     []TableRef
	Columns    []ColumnRef
	Subqueries []Node

	tables  map[TableRef]bool
	columns map[ColumnRef]bool
}

// NewReferences creates an empty References set.
func NewReferences() *References {
	return &References{}
}

// AddTable records a table reference once.
func (r *References) AddTable(t TableRef) {
	if t == nil {
		return
	}
	if r.tables == nil {
		r.tables = make(map[TableRef]bool)
	}
	if r.tables[t] {
		return
	}
	r.tables[t] = true
	r.Tables = append(r.Tables, t)
}

// AddColumn records a column reference and its owning table.
func (r *References) AddColumn(c ColumnRef) {
	if c == nil {
		return
	}
	r.AddTable(c.ColumnTable())
	if r.columns == nil {
		r.columns = make(map[ColumnRef]bool)
	}
	if r.columns[c] {
		return
	}
	r.columns[c] = true
	r.Columns = append(r.Columns, c)
}

// AddSubquery records a nested query. Its own references are not merged;
// the query is validated separately against its enclosing sources.
func (r *References) AddSubquery(q Node) {
	r.Subqueries = append(r.Subqueries, q)
}

// HasTable reports whether t has been recorded.
func (r *References) HasTable(t TableRef) bool {
	return r.tables[t]
}

// Collect gathers the references of every node into a new set.
func Collect(ns ...Node) *References {
	refs := NewReferences()
	collectAll(refs, ns...)
	return refs
}
