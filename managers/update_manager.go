package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates a new UpdateManager targeting the given table.
func NewUpdateManager(table nodes.TableRef) *UpdateManager {
	if table == nil {
		panic("sqlbuild: update needs a target table")
	}
	return &UpdateManager{Statement: &nodes.UpdateStatement{Table: table}}
}

// Set adds a column assignment to the SET clause.
// val can be a raw Go value, a column, a query or a Node.
func (m *UpdateManager) Set(col, val any) *UpdateManager {
	m.touch()
	m.Statement.Assignments = append(m.Statement.Assignments, nodes.Assign(col, val))
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conditions ...any) *UpdateManager {
	m.touch()
	m.Statement.Wheres = append(m.Statement.Wheres, wrapAll(conditions)...)
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

func (m *UpdateManager) transformed() (*nodes.UpdateStatement, error) {
	return plugins.ApplyUpdate(m.transformers, m.cloneStatement())
}

func (m *UpdateManager) cloneStatement() *nodes.UpdateStatement {
	c := *m.Statement
	c.Assignments = append([]*nodes.AssignmentNode(nil), m.Statement.Assignments...)
	c.Wheres = append([]nodes.Node(nil), m.Statement.Wheres...)
	return &c
}

// Validate checks that assignments and conditions only use the target
// table.
func (m *UpdateManager) Validate() error {
	stmt, err := m.transformed()
	if err != nil {
		return m.settle(err)
	}
	return m.settle(validateUpdate(stmt))
}

// MustValidate panics when Validate fails.
func (m *UpdateManager) MustValidate() *UpdateManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL applies transformers and renders with v.
func (m *UpdateManager) ToSQL(v nodes.Visitor) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return render(v, stmt), nil
}

// String renders ANSI SQL; a failing transformer yields "".
func (m *UpdateManager) String() string {
	s, _ := m.ToSQL(newANSI())
	return s
}

func validateUpdate(stmt *nodes.UpdateStatement) error {
	if len(stmt.Assignments) == 0 {
		return invalid("SET", "no assignments")
	}
	visible := tableSet{stmt.Table: true}
	for _, a := range stmt.Assignments {
		if err := checkOwned("SET", stmt.Table, a.Left); err != nil {
			return err
		}
		if err := checkRefs("SET", nodes.Collect(a.Right), visible); err != nil {
			return err
		}
	}
	return checkRefs("WHERE", nodes.Collect(stmt.Wheres...), visible)
}
