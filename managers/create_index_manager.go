package managers

import (
	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
)

// CreateIndexManager builds CREATE [UNIQUE] INDEX statements.
type CreateIndexManager struct {
	treeManager
	Statement *nodes.CreateIndexStatement
}

// NewCreateIndexManager creates a builder for an index named name on t.
func NewCreateIndexManager(name string, t nodes.TableRef, cols ...nodes.ColumnRef) *CreateIndexManager {
	if t == nil {
		panic("sqlbuild: create index needs a table")
	}
	return &CreateIndexManager{Statement: &nodes.CreateIndexStatement{
		Name: name, Table: t, Columns: colNodes(cols),
	}}
}

// CreateIndex creates a builder for a described index.
func CreateIndex(idx *dbspec.Index) *CreateIndexManager {
	m := NewCreateIndexManager(idx.IndexName(), idx.Table)
	for _, c := range idx.Columns {
		m.Statement.Columns = append(m.Statement.Columns, c.Node())
	}
	m.Statement.Unique = idx.Unique
	return m
}

// AddColumns appends indexed columns.
func (m *CreateIndexManager) AddColumns(cols ...nodes.ColumnRef) *CreateIndexManager {
	m.touch()
	m.Statement.Columns = append(m.Statement.Columns, colNodes(cols)...)
	return m
}

// Unique makes the index unique.
func (m *CreateIndexManager) Unique() *CreateIndexManager {
	m.touch()
	m.Statement.Unique = true
	return m
}

// DropQuery returns the statement dropping the index.
func (m *CreateIndexManager) DropQuery() *DropManager {
	return NewDropManager(nodes.DropIndex, m.Statement.Name)
}

// Validate checks that the index is named and every column belongs to
// the indexed table.
func (m *CreateIndexManager) Validate() error {
	stmt := m.Statement
	if stmt.Name == "" {
		return m.settle(invalid("CREATE INDEX", "no index name"))
	}
	if len(stmt.Columns) == 0 {
		return m.settle(invalid("CREATE INDEX", "no columns"))
	}
	return m.settle(checkOwned("CREATE INDEX", stmt.Table, stmt.Columns...))
}

// MustValidate panics when Validate fails.
func (m *CreateIndexManager) MustValidate() *CreateIndexManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the statement with v.
func (m *CreateIndexManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Statement), nil
}

// String renders ANSI SQL.
func (m *CreateIndexManager) String() string { return ansi(m.Statement) }
