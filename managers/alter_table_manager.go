package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
)

// AlterTableManager builds ALTER TABLE statements with a single action.
// Each action method replaces the previous one.
type AlterTableManager struct {
	treeManager
	Statement *nodes.AlterTableStatement
	hasAction bool
}

// NewAlterTableManager creates a builder altering the table.
func NewAlterTableManager(t nodes.TableRef) *AlterTableManager {
	if t == nil {
		panic("sqlbuild: alter table needs a table")
	}
	return &AlterTableManager{Statement: &nodes.AlterTableStatement{Table: t}}
}

func (m *AlterTableManager) action(a nodes.AlterAction) *nodes.AlterTableStatement {
	m.touch()
	m.hasAction = true
	m.Statement = &nodes.AlterTableStatement{Table: m.Statement.Table, Action: a}
	return m.Statement
}

// AddUnique adds a UNIQUE constraint.
func (m *AlterTableManager) AddUnique(cols ...nodes.ColumnRef) *AlterTableManager {
	m.action(nodes.AddConstraintAction).Constraint = &nodes.ConstraintNode{
		Type: nodes.UniqueConstraint, Columns: colNodes(cols),
	}
	return m
}

// AddPrimaryKey adds a PRIMARY KEY constraint.
func (m *AlterTableManager) AddPrimaryKey(cols ...nodes.ColumnRef) *AlterTableManager {
	m.action(nodes.AddConstraintAction).Constraint = &nodes.ConstraintNode{
		Type: nodes.PrimaryKeyConstraint, Columns: colNodes(cols),
	}
	return m
}

// AddForeignKey adds a FOREIGN KEY constraint referencing refCols of ref.
func (m *AlterTableManager) AddForeignKey(cols []nodes.ColumnRef, ref nodes.TableRef, refCols ...nodes.ColumnRef) *AlterTableManager {
	m.action(nodes.AddConstraintAction).Constraint = foreignKey(cols, ref, refCols)
	return m
}

// AddPrimaryKeyReference adds a FOREIGN KEY constraint referencing the
// primary key of ref.
func (m *AlterTableManager) AddPrimaryKeyReference(ref nodes.TableRef, cols ...nodes.ColumnRef) *AlterTableManager {
	return m.AddForeignKey(cols, ref)
}

// Named names the constraint of the current action.
func (m *AlterTableManager) Named(name string) *AlterTableManager {
	if m.Statement.Constraint == nil {
		panic("sqlbuild: only constraints can be named")
	}
	m.touch()
	m.Statement.Constraint.Name = name
	return m
}

// AddColumn adds a column definition.
func (m *AlterTableManager) AddColumn(col nodes.ColumnRef) *AlterTableManager {
	m.action(nodes.AddColumnAction).Column = columnDef(col)
	return m
}

// DropColumn drops a column with an optional CASCADE or RESTRICT.
func (m *AlterTableManager) DropColumn(col nodes.ColumnRef, behavior ...nodes.DropBehavior) *AlterTableManager {
	stmt := m.action(nodes.DropColumnAction)
	stmt.Dropped = nodes.Col(col)
	if len(behavior) > 0 {
		stmt.Behavior = behavior[0]
	}
	return m
}

// Validate checks that the action only touches the table (and, for
// foreign keys, the referenced table).
func (m *AlterTableManager) Validate() error {
	if !m.hasAction {
		return m.settle(invalid("ALTER TABLE", "no action"))
	}
	stmt := m.Statement
	switch stmt.Action {
	case nodes.AddColumnAction:
		return m.settle(checkOwned("ALTER TABLE", stmt.Table, stmt.Column))
	case nodes.DropColumnAction:
		return m.settle(checkOwned("ALTER TABLE", stmt.Table, stmt.Dropped))
	}
	return m.settle(validateConstraint("ALTER TABLE", stmt.Table, stmt.Constraint))
}

// MustValidate panics when Validate fails.
func (m *AlterTableManager) MustValidate() *AlterTableManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the statement with v.
func (m *AlterTableManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Statement), nil
}

// String renders ANSI SQL.
func (m *AlterTableManager) String() string { return ansi(m.Statement) }
