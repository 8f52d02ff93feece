package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// InsertManager provides a fluent API for building INSERT ... VALUES
// statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertManager creates a new InsertManager targeting the given table.
func NewInsertManager(into nodes.TableRef) *InsertManager {
	if into == nil {
		panic("sqlbuild: insert needs a target table")
	}
	return &InsertManager{Statement: &nodes.InsertStatement{Into: into}}
}

// Columns appends target columns.
func (m *InsertManager) Columns(cols ...any) *InsertManager {
	m.touch()
	m.Statement.Columns = append(m.Statement.Columns, wrapAll(cols)...)
	return m
}

// Values appends values, matched to the columns by position.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	m.touch()
	m.Statement.Values = append(m.Statement.Values, wrapAll(vals)...)
	return m
}

// Set appends one column together with its value.
func (m *InsertManager) Set(col, val any) *InsertManager {
	return m.Columns(col).Values(val)
}

// PreparedColumns appends columns whose values are bare ? markers.
func (m *InsertManager) PreparedColumns(cols ...any) *InsertManager {
	for _, c := range cols {
		m.Set(c, nodes.QuestionMark)
	}
	return m
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

func (m *InsertManager) transformed() (*nodes.InsertStatement, error) {
	return plugins.ApplyInsert(m.transformers, cloneInsert(m.Statement))
}

// Validate checks column/value counts and column ownership.
func (m *InsertManager) Validate() error {
	stmt, err := m.transformed()
	if err != nil {
		return m.settle(err)
	}
	return m.settle(validateInsert(stmt))
}

// MustValidate panics when Validate fails.
func (m *InsertManager) MustValidate() *InsertManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL applies transformers and renders with v.
func (m *InsertManager) ToSQL(v nodes.Visitor) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return render(v, stmt), nil
}

// String renders ANSI SQL; a failing transformer yields "".
func (m *InsertManager) String() string {
	s, _ := m.ToSQL(newANSI())
	return s
}

// InsertSelectManager builds INSERT INTO t (cols) SELECT ...
type InsertSelectManager struct {
	treeManager
	Statement *nodes.InsertStatement
}

// NewInsertSelectManager creates a builder inserting into the table.
func NewInsertSelectManager(into nodes.TableRef) *InsertSelectManager {
	if into == nil {
		panic("sqlbuild: insert needs a target table")
	}
	return &InsertSelectManager{Statement: &nodes.InsertStatement{Into: into}}
}

// Columns appends target columns.
func (m *InsertSelectManager) Columns(cols ...any) *InsertSelectManager {
	m.touch()
	m.Statement.Columns = append(m.Statement.Columns, wrapAll(cols)...)
	return m
}

// Select sets the source query.
func (m *InsertSelectManager) Select(q nodes.Query) *InsertSelectManager {
	m.touch()
	m.Statement.Select = q.QueryNode()
	return m
}

// Use registers a transformer plugin.
func (m *InsertSelectManager) Use(t plugins.Transformer) *InsertSelectManager {
	m.addTransformer(t)
	return m
}

func (m *InsertSelectManager) transformed() (*nodes.InsertStatement, error) {
	return plugins.ApplyInsert(m.transformers, cloneInsert(m.Statement))
}

// Validate checks the columns against the source query.
func (m *InsertSelectManager) Validate() error {
	stmt, err := m.transformed()
	if err != nil {
		return m.settle(err)
	}
	return m.settle(validateInsertSelect(stmt))
}

// MustValidate panics when Validate fails.
func (m *InsertSelectManager) MustValidate() *InsertSelectManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL applies transformers and renders with v.
func (m *InsertSelectManager) ToSQL(v nodes.Visitor) (string, error) {
	stmt, err := m.transformed()
	if err != nil {
		return "", err
	}
	return render(v, stmt), nil
}

// String renders ANSI SQL; a failing transformer yields "".
func (m *InsertSelectManager) String() string {
	s, _ := m.ToSQL(newANSI())
	return s
}

func cloneInsert(s *nodes.InsertStatement) *nodes.InsertStatement {
	c := *s
	c.Columns = append([]nodes.Node(nil), s.Columns...)
	c.Values = append([]nodes.Node(nil), s.Values...)
	return &c
}

func validateInsert(stmt *nodes.InsertStatement) error {
	if len(stmt.Columns) == 0 {
		return invalid("INSERT", "no columns")
	}
	if len(stmt.Columns) != len(stmt.Values) {
		return invalid("INSERT", "%d columns but %d values", len(stmt.Columns), len(stmt.Values))
	}
	if err := checkOwned("INSERT", stmt.Into, stmt.Columns...); err != nil {
		return err
	}
	return checkRefs("VALUES", nodes.Collect(stmt.Values...), tableSet{stmt.Into: true})
}

func validateInsertSelect(stmt *nodes.InsertStatement) error {
	if len(stmt.Columns) == 0 {
		return invalid("INSERT", "no columns")
	}
	if stmt.Select == nil {
		return invalid("INSERT", "no source query")
	}
	if err := checkOwned("INSERT", stmt.Into, stmt.Columns...); err != nil {
		return err
	}
	if n, all := queryArity(stmt.Select); n != len(stmt.Columns) && !all {
		return invalid("INSERT", "%d columns but the query selects %d", len(stmt.Columns), n)
	}
	return validateQuery(stmt.Select, nil)
}
