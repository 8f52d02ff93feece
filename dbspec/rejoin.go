package dbspec

import "github.com/bawdo/sqlbuild/nodes"

// RejoinTable is a second reference to an existing table under a fixed
// alias, used for self joins. Its columns mirror the original table's.
type RejoinTable struct {
	original *Table
	alias    string
	Columns  []*RejoinColumn
}

var _ nodes.TableRef = (*RejoinTable)(nil)

// NewRejoinTable creates a rejoin of t with the given alias.
func NewRejoinTable(t *Table, alias string) *RejoinTable {
	if alias == "" {
		panic("sqlbuild: rejoin table needs an alias")
	}
	r := &RejoinTable{original: t, alias: alias}
	for _, c := range t.Columns {
		r.Columns = append(r.Columns, &RejoinColumn{original: c, table: r})
	}
	return r
}

// OriginalTable returns the table this rejoin refers to.
func (r *RejoinTable) OriginalTable() *Table { return r.original }

func (r *RejoinTable) TableName() string  { return r.original.TableName() }
func (r *RejoinTable) TableAlias() string { return r.alias }

// FindColumn returns the rejoin column mirroring the named column, or nil.
func (r *RejoinTable) FindColumn(name string) *RejoinColumn {
	for _, c := range r.Columns {
		if c.original.Name == name {
			return c
		}
	}
	return nil
}

// Col returns the named rejoin column and panics when it does not exist.
func (r *RejoinTable) Col(name string) *RejoinColumn {
	c := r.FindColumn(name)
	if c == nil {
		panic("sqlbuild: unknown column " + r.alias + "." + name)
	}
	return c
}

// RejoinColumn is a column of a RejoinTable.
type RejoinColumn struct {
	original *Column
	table    *RejoinTable
}

var _ nodes.ColumnRef = (*RejoinColumn)(nil)

// OriginalColumn returns the column of the original table.
func (c *RejoinColumn) OriginalColumn() *Column { return c.original }

func (c *RejoinColumn) ColumnName() string          { return c.original.Name }
func (c *RejoinColumn) ColumnTable() nodes.TableRef { return c.table }

// Node wraps the column in an expression node.
func (c *RejoinColumn) Node() *nodes.ColumnNode { return nodes.Col(c) }
