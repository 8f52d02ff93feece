package nodes

// Table is an ad-hoc table reference for statements built without a
// schema description. Each Table value is a distinct reference, so two
// tables with the same name render with different aliases.
type Table struct {
	Name      string
	Schema    string
	AliasName string
}

// NewTable creates a table reference with the given (possibly
// schema-qualified) name.
func NewTable(name string) *Table {
	return &Table{Name: name}
}

// InSchema sets the schema qualifier and returns the table.
func (t *Table) InSchema(schema string) *Table {
	t.Schema = schema
	return t
}

// Alias returns a new reference to the same table with a fixed alias.
func (t *Table) Alias(name string) *Table {
	return &Table{Name: t.Name, Schema: t.Schema, AliasName: name}
}

// TableName returns the schema-qualified name.
func (t *Table) TableName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// TableAlias returns the fixed alias, or "".
func (t *Table) TableAlias() string { return t.AliasName }

// Col creates a column node bound to this table.
func (t *Table) Col(name string) *ColumnNode {
	return Col(NewAttribute(t, name))
}

// Star creates a qualified star (alias.*) for this table.
func (t *Table) Star() *AllColumns {
	return &AllColumns{Table: t}
}

// Attribute is an ad-hoc column reference bound to any table reference.
type Attribute struct {
	Name     string
	Relation TableRef
}

// NewAttribute creates an Attribute for the given table and column name.
func NewAttribute(rel TableRef, name string) *Attribute {
	return &Attribute{Name: name, Relation: rel}
}

func (a *Attribute) ColumnName() string    { return a.Name }
func (a *Attribute) ColumnTable() TableRef { return a.Relation }

// FromTable is a table entry in a FROM clause (or the target of a join).
type FromTable struct {
	Table TableRef
}

func (n *FromTable) Accept(v Visitor) string  { return v.VisitFromTable(n) }
func (n *FromTable) Collect(refs *References) { refs.AddTable(n.Table) }

// ColumnNode renders a column reference qualified by its table's alias.
type ColumnNode struct {
	Predications
	Arithmetics
	Combinable
	Column ColumnRef
}

// Col wraps a column reference in a node.
func Col(ref ColumnRef) *ColumnNode {
	if ref == nil {
		panic("sqlbuild: nil column reference")
	}
	n := &ColumnNode{Column: ref}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *ColumnNode) Accept(v Visitor) string  { return v.VisitColumn(n) }
func (n *ColumnNode) Collect(refs *References) { refs.AddColumn(n.Column) }

// Cols wraps each column reference in a node.
func Cols[C ColumnRef](refs ...C) []Node {
	out := make([]Node, len(refs))
	for i, r := range refs {
		out[i] = Col(r)
	}
	return out
}

// AllColumns renders every column of one table: alias.*
type AllColumns struct {
	Table TableRef
}

// AllOf creates an AllColumns node for the table.
func AllOf(t TableRef) *AllColumns {
	return &AllColumns{Table: t}
}

func (n *AllColumns) Accept(v Visitor) string  { return v.VisitAllColumns(n) }
func (n *AllColumns) Collect(refs *References) { refs.AddTable(n.Table) }
