package managers

import (
	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
)

// DropManager builds DROP TABLE|INDEX|VIEW|SCHEMA statements.
type DropManager struct {
	treeManager
	Statement *nodes.DropStatement
}

// NewDropManager creates a builder dropping the named object.
func NewDropManager(kind nodes.DropKind, name string) *DropManager {
	return &DropManager{Statement: &nodes.DropStatement{Kind: kind, Name: name}}
}

// DropTable drops a table.
func DropTable(t nodes.TableRef) *DropManager {
	return NewDropManager(nodes.DropTable, t.TableName())
}

// DropIndex drops a described index.
func DropIndex(idx *dbspec.Index) *DropManager {
	return NewDropManager(nodes.DropIndex, idx.IndexName())
}

// DropView drops a view by name.
func DropView(name string) *DropManager {
	return NewDropManager(nodes.DropView, name)
}

// DropSchema drops a schema by name.
func DropSchema(name string) *DropManager {
	return NewDropManager(nodes.DropSchema, name)
}

// Cascade appends CASCADE.
func (m *DropManager) Cascade() *DropManager {
	m.touch()
	m.Statement.Behavior = nodes.Cascade
	return m
}

// Restrict appends RESTRICT.
func (m *DropManager) Restrict() *DropManager {
	m.touch()
	m.Statement.Behavior = nodes.Restrict
	return m
}

// Validate checks that an object is named.
func (m *DropManager) Validate() error {
	if m.Statement.Name == "" {
		return m.settle(invalid("DROP", "no %s name", m.Statement.Kind))
	}
	return m.settle(nil)
}

// MustValidate panics when Validate fails.
func (m *DropManager) MustValidate() *DropManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the statement with v.
func (m *DropManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Statement), nil
}

// String renders ANSI SQL.
func (m *DropManager) String() string { return ansi(m.Statement) }
