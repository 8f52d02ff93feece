// Package dbspec describes database schemas: schemas, tables, columns,
// joins between tables, indexes and function packages. Tables and columns
// implement the nodes reference interfaces, so they can be used directly
// when building statements.
package dbspec

import (
	"strconv"
	"strings"

	"github.com/bawdo/sqlbuild/nodes"
)

// Spec is the root of a schema description. It owns the schemas and the
// join descriptors between their tables.
type Spec struct {
	Schemas []*Schema
	Joins   []*Join
}

// NewSpec creates an empty Spec.
func NewSpec() *Spec {
	return &Spec{}
}

// AddSchema adds a named schema. Tables of a schema render qualified with
// its name.
func (s *Spec) AddSchema(name string) *Schema {
	sc := &Schema{Name: name, Spec: s}
	s.Schemas = append(s.Schemas, sc)
	return sc
}

// AddDefaultSchema adds the unnamed schema, whose tables render without a
// qualifier.
func (s *Spec) AddDefaultSchema() *Schema {
	return s.AddSchema("")
}

// FindSchema returns the schema with the given name, or nil.
func (s *Spec) FindSchema(name string) *Schema {
	for _, sc := range s.Schemas {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// FindTable returns the named table of the named schema, or nil.
func (s *Spec) FindTable(schema, table string) *Table {
	sc := s.FindSchema(schema)
	if sc == nil {
		return nil
	}
	return sc.FindTable(table)
}

// AddJoin describes a join between two tables on equally named columns.
func (s *Spec) AddJoin(fromSchema, fromTable, toSchema, toTable string, cols ...string) *Join {
	return s.AddJoinColumns(fromSchema, fromTable, toSchema, toTable, cols, cols)
}

// AddJoinColumns describes a join where fromCols[i] = toCols[i]. It panics
// when a table or column does not exist or the column lists differ in
// length.
func (s *Spec) AddJoinColumns(fromSchema, fromTable, toSchema, toTable string, fromCols, toCols []string) *Join {
	from := s.mustTable(fromSchema, fromTable)
	to := s.mustTable(toSchema, toTable)
	if len(fromCols) == 0 || len(fromCols) != len(toCols) {
		panic("sqlbuild: join needs matching non-empty column lists")
	}
	j := &Join{From: from, To: to}
	for i := range fromCols {
		j.FromColumns = append(j.FromColumns, from.Col(fromCols[i]))
		j.ToColumns = append(j.ToColumns, to.Col(toCols[i]))
	}
	s.Joins = append(s.Joins, j)
	return j
}

func (s *Spec) mustTable(schema, table string) *Table {
	t := s.FindTable(schema, table)
	if t == nil {
		panic("sqlbuild: unknown table " + qualify(schema, table))
	}
	return t
}

// Schema groups tables, indexes and function packages under one name.
type Schema struct {
	Name             string
	Spec             *Spec
	Tables           []*Table
	Indexes          []*Index
	FunctionPackages []*FunctionPackage
}

// QualifiedName prefixes name with the schema name when it has one.
func (sc *Schema) QualifiedName(name string) string {
	return qualify(sc.Name, name)
}

// AddTable adds a table to the schema.
func (sc *Schema) AddTable(name string) *Table {
	t := &Table{Name: name, Schema: sc}
	sc.Tables = append(sc.Tables, t)
	return t
}

// FindTable returns the named table, or nil.
func (sc *Schema) FindTable(name string) *Table {
	for _, t := range sc.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddIndex adds an index on the named columns of one of the schema's
// tables. It panics when the table or a column does not exist.
func (sc *Schema) AddIndex(name, table string, cols ...string) *Index {
	t := sc.FindTable(table)
	if t == nil {
		panic("sqlbuild: unknown table " + sc.QualifiedName(table))
	}
	idx := &Index{Name: name, Schema: sc, Table: t}
	for _, c := range cols {
		idx.Columns = append(idx.Columns, t.Col(c))
	}
	sc.Indexes = append(sc.Indexes, idx)
	return idx
}

// AddFunctionPackage adds a function package. An empty name places the
// functions directly in the schema.
func (sc *Schema) AddFunctionPackage(name string) *FunctionPackage {
	p := &FunctionPackage{Name: name, Schema: sc}
	sc.FunctionPackages = append(sc.FunctionPackages, p)
	return p
}

// AddDefaultFunctionPackage adds the unnamed function package.
func (sc *Schema) AddDefaultFunctionPackage() *FunctionPackage {
	return sc.AddFunctionPackage("")
}

// Table describes a table. Each *Table is a distinct reference for alias
// assignment; a fixed Alias overrides the generated one.
type Table struct {
	Name    string
	Alias   string
	Schema  *Schema
	Columns []*Column
}

var _ nodes.TableRef = (*Table)(nil)

// TableName returns the schema-qualified table name.
func (t *Table) TableName() string {
	if t.Schema == nil {
		return t.Name
	}
	return t.Schema.QualifiedName(t.Name)
}

// TableAlias returns the fixed alias, or "".
func (t *Table) TableAlias() string { return t.Alias }

// AddColumn adds an untyped column.
func (t *Table) AddColumn(name string) *Column {
	return t.AddTypedColumn(name, "", 0)
}

// AddTypedColumn adds a column with a SQL type and an optional size
// (0 for none).
func (t *Table) AddTypedColumn(name, typ string, size int) *Column {
	c := &Column{Name: name, Type: typ, Size: size, Table: t}
	t.Columns = append(t.Columns, c)
	return c
}

// FindColumn returns the named column, or nil.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Col returns the named column and panics when it does not exist.
func (t *Table) Col(name string) *Column {
	c := t.FindColumn(name)
	if c == nil {
		panic("sqlbuild: unknown column " + t.TableName() + "." + name)
	}
	return c
}

// Star creates alias.* for the table.
func (t *Table) Star() *nodes.AllColumns {
	return nodes.AllOf(t)
}

// Column describes a table column and its DDL attributes.
type Column struct {
	Name       string
	Type       string
	Size       int
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    any
	Table      *Table
}

var _ nodes.ColumnRef = (*Column)(nil)

func (c *Column) ColumnName() string          { return c.Name }
func (c *Column) ColumnTable() nodes.TableRef { return c.Table }

// TypeSQL returns the column type as written in DDL: VARCHAR(213), or the
// bare type when no size is set.
func (c *Column) TypeSQL() string {
	if c.Type == "" || c.Size <= 0 {
		return c.Type
	}
	return c.Type + "(" + strconv.Itoa(c.Size) + ")"
}

// Node wraps the column in an expression node for use with the fluent
// predicate and arithmetic methods.
func (c *Column) Node() *nodes.ColumnNode {
	return nodes.Col(c)
}

// Join describes how two tables are joined: FromColumns[i] =
// ToColumns[i] for every i.
type Join struct {
	From        *Table
	To          *Table
	FromColumns []*Column
	ToColumns   []*Column
}

// Condition builds the ON condition of the join.
func (j *Join) Condition() nodes.Node {
	if len(j.FromColumns) == 1 {
		return nodes.Eq(j.FromColumns[0], j.ToColumns[0])
	}
	conds := make([]any, len(j.FromColumns))
	for i := range j.FromColumns {
		conds[i] = nodes.Eq(j.FromColumns[i], j.ToColumns[i])
	}
	return nodes.And(conds...)
}

// Index describes an index over columns of one table.
type Index struct {
	Name    string
	Unique  bool
	Schema  *Schema
	Table   *Table
	Columns []*Column
}

// IndexName returns the schema-qualified index name.
func (i *Index) IndexName() string {
	if i.Schema == nil {
		return i.Name
	}
	return i.Schema.QualifiedName(i.Name)
}

// FunctionPackage groups functions of a schema.
type FunctionPackage struct {
	Name      string
	Schema    *Schema
	Functions []*Function
}

// AddFunction adds a function to the package.
func (p *FunctionPackage) AddFunction(name string) *Function {
	f := &Function{Name: name, Package: p}
	p.Functions = append(p.Functions, f)
	return f
}

// Function describes a schema function callable with nodes.Call.
type Function struct {
	Name    string
	Package *FunctionPackage
}

var _ nodes.FunctionRef = (*Function)(nil)

// FunctionName returns schema.package.name, omitting empty parts.
func (f *Function) FunctionName() string {
	var parts []string
	if p := f.Package; p != nil {
		if p.Schema != nil && p.Schema.Name != "" {
			parts = append(parts, p.Schema.Name)
		}
		if p.Name != "" {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(append(parts, f.Name), ".")
}

func qualify(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}
