package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates a new DeleteManager targeting the given table.
func NewDeleteManager(from nodes.TableRef) *DeleteManager {
	if from == nil {
		panic("sqlbuild: delete needs a target table")
	}
	return &DeleteManager{Statement: &nodes.DeleteStatement{From: from}}
}

// Where appends conditions to the WHERE clause.
func (m *DeleteManager) Where(conditions ...any) *DeleteManager {
	m.touch()
	m.Statement.Wheres = append(m.Statement.Wheres, wrapAll(conditions)...)
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

func (m *DeleteManager) transformed() (*nodes.DeleteStatement, error) {
	c := *m.Statement
	c.Wheres = append([]nodes.Node(nil), m.Statement.Wheres...)
	return plugins.ApplyDelete(m.transformers, &c)
}

// Validate checks that the conditions only use the target table.
func (m *DeleteManager) Validate() error {
	stmt, err := m.transformed()
	if err != nil {
		return m.settle(err)
	}
	return m.settle(checkRefs("WHERE", nodes.Collect(stmt.Wheres...), tableSet{stmt.From: true}))
}

// MustValidate panics when Validate fails.
func (m *DeleteManager) MustValidate() *DeleteManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL applies transformers and renders with v.
func (m *DeleteManager) ToSQL(v nodes.Visitor) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return render(v, stmt), nil
}

// String renders ANSI SQL; a failing transformer yields "".
func (m *DeleteManager) String() string {
	s, _ := m.ToSQL(newANSI())
	return s
}
