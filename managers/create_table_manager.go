package managers

import (
	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
)

// CreateTableManager builds CREATE TABLE statements from column
// references. Described columns contribute their type, default and
// constraints.
type CreateTableManager struct {
	treeManager
	Statement *nodes.CreateTableStatement
}

// NewCreateTableManager creates a builder for the table.
func NewCreateTableManager(t nodes.TableRef) *CreateTableManager {
	if t == nil {
		panic("sqlbuild: create table needs a table")
	}
	return &CreateTableManager{Statement: &nodes.CreateTableStatement{Table: t}}
}

// AddColumns appends column definitions.
func (m *CreateTableManager) AddColumns(cols ...nodes.ColumnRef) *CreateTableManager {
	m.touch()
	for _, c := range cols {
		m.Statement.Columns = append(m.Statement.Columns, columnDef(c))
	}
	return m
}

// AddAllColumns appends every column of a described table.
func (m *CreateTableManager) AddAllColumns() *CreateTableManager {
	t, ok := m.Statement.Table.(*dbspec.Table)
	if !ok {
		panic("sqlbuild: AddAllColumns needs a described table")
	}
	for _, c := range t.Columns {
		m.AddColumns(c)
	}
	return m
}

// ColumnConstraint adds a constraint to an already added column.
func (m *CreateTableManager) ColumnConstraint(col nodes.ColumnRef, c nodes.ConstraintType) *CreateTableManager {
	m.touch()
	def := m.def(col)
	def.Constraints = append(def.Constraints, c)
	return m
}

// Default sets the default value of an already added column.
func (m *CreateTableManager) Default(col nodes.ColumnRef, val any) *CreateTableManager {
	m.touch()
	m.def(col).Default = nodes.Wrap(val)
	return m
}

func (m *CreateTableManager) def(col nodes.ColumnRef) *nodes.ColumnDefNode {
	for _, d := range m.Statement.Columns {
		if d.Column == col {
			return d
		}
	}
	panic("sqlbuild: column " + col.ColumnName() + " has not been added")
}

// PrimaryKey adds a PRIMARY KEY table constraint.
func (m *CreateTableManager) PrimaryKey(cols ...nodes.ColumnRef) *CreateTableManager {
	return m.addConstraint(&nodes.ConstraintNode{Type: nodes.PrimaryKeyConstraint, Columns: colNodes(cols)})
}

// Unique adds a UNIQUE table constraint.
func (m *CreateTableManager) Unique(cols ...nodes.ColumnRef) *CreateTableManager {
	return m.addConstraint(&nodes.ConstraintNode{Type: nodes.UniqueConstraint, Columns: colNodes(cols)})
}

// ForeignKey adds a FOREIGN KEY table constraint. Empty refCols
// reference the primary key of ref.
func (m *CreateTableManager) ForeignKey(cols []nodes.ColumnRef, ref nodes.TableRef, refCols ...nodes.ColumnRef) *CreateTableManager {
	return m.addConstraint(foreignKey(cols, ref, refCols))
}

func (m *CreateTableManager) addConstraint(c *nodes.ConstraintNode) *CreateTableManager {
	m.touch()
	m.Statement.Constraints = append(m.Statement.Constraints, c)
	return m
}

// DropQuery returns the statement dropping the table.
func (m *CreateTableManager) DropQuery() *DropManager {
	return NewDropManager(nodes.DropTable, m.Statement.Table.TableName())
}

// Validate checks that every column belongs to the table.
func (m *CreateTableManager) Validate() error {
	stmt := m.Statement
	if len(stmt.Columns) == 0 {
		return m.settle(invalid("CREATE TABLE", "no columns"))
	}
	for _, d := range stmt.Columns {
		if err := checkOwned("CREATE TABLE", stmt.Table, d); err != nil {
			return m.settle(err)
		}
	}
	for _, c := range stmt.Constraints {
		if err := validateConstraint("CREATE TABLE", stmt.Table, c); err != nil {
			return m.settle(err)
		}
	}
	return m.settle(nil)
}

// MustValidate panics when Validate fails.
func (m *CreateTableManager) MustValidate() *CreateTableManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the statement with v.
func (m *CreateTableManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Statement), nil
}

// String renders ANSI SQL.
func (m *CreateTableManager) String() string { return ansi(m.Statement) }

// columnDef builds a definition; described columns carry their DDL
// attributes.
func columnDef(c nodes.ColumnRef) *nodes.ColumnDefNode {
	def := &nodes.ColumnDefNode{Column: c}
	col, ok := c.(*dbspec.Column)
	if !ok {
		return def
	}
	def.Type = col.TypeSQL()
	if col.Default != nil {
		def.Default = nodes.Wrap(col.Default)
	}
	if col.PrimaryKey {
		def.Constraints = append(def.Constraints, nodes.PrimaryKeyConstraint)
	}
	if col.NotNull {
		def.Constraints = append(def.Constraints, nodes.NotNullConstraint)
	}
	if col.Unique {
		def.Constraints = append(def.Constraints, nodes.UniqueConstraint)
	}
	return def
}

func colNodes(cols []nodes.ColumnRef) []nodes.Node {
	return nodes.Cols(cols...)
}

func foreignKey(cols []nodes.ColumnRef, ref nodes.TableRef, refCols []nodes.ColumnRef) *nodes.ConstraintNode {
	if ref == nil {
		panic("sqlbuild: foreign key needs a referenced table")
	}
	return &nodes.ConstraintNode{
		Type:       nodes.ForeignKeyConstraint,
		Columns:    colNodes(cols),
		RefTable:   ref,
		RefColumns: colNodes(refCols),
	}
}

// validateConstraint checks a table constraint of owner.
func validateConstraint(clause string, owner nodes.TableRef, c *nodes.ConstraintNode) error {
	if len(c.Columns) == 0 {
		return invalid(clause, "%s constraint without columns", c.Type)
	}
	if err := checkOwned(clause, owner, c.Columns...); err != nil {
		return err
	}
	if c.Type != nodes.ForeignKeyConstraint || len(c.RefColumns) == 0 {
		return nil
	}
	if len(c.RefColumns) != len(c.Columns) {
		return invalid(clause, "foreign key has %d columns but references %d", len(c.Columns), len(c.RefColumns))
	}
	return checkOwned(clause, c.RefTable, c.RefColumns...)
}
