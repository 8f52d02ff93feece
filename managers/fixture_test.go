package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
)

// fixture describes Schema1.Table1 plus the default-schema tables Table1
// and Table2.
type fixture struct {
	spec   *dbspec.Spec
	table1 *dbspec.Table // Schema1.Table1
	dt1    *dbspec.Table // Table1
	dt2    *dbspec.Table // Table2
}

func newFixture() *fixture {
	f := &fixture{spec: dbspec.NewSpec()}
	schema1 := f.spec.AddSchema("Schema1")
	def := f.spec.AddDefaultSchema()

	f.table1 = schema1.AddTable("Table1")
	f.table1.AddTypedColumn("col1", "VARCHAR", 213)
	f.table1.AddTypedColumn("col2", "NUMBER", 7)
	f.table1.AddTypedColumn("col3", "TIMESTAMP", 0)
	f.table1.AddColumn("col4")

	f.dt1 = def.AddTable("Table1")
	f.dt1.AddTypedColumn("col_id", "NUMBER", 0).PrimaryKey = true
	f.dt1.AddTypedColumn("col2", "VARCHAR", 64)
	f.dt1.AddTypedColumn("col3", "DATE", 0).NotNull = true
	f.dt1.AddColumn("altCol4")

	f.dt2 = def.AddTable("Table2")
	f.dt2.AddColumn("col_id")
	f.dt2.AddColumn("col4")
	f.dt2.AddColumn("col5")

	schema1.AddIndex("Index1", "Table1", "col1", "col2")
	return f
}

// validationClause asserts that err is a validation error for clause.
func validationClause(t *testing.T, err error, clause string) {
	t.Helper()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Clause != clause {
		t.Errorf("expected clause %q, got %q (%v)", clause, ve.Clause, err)
	}
}

// failingTransformer rejects every statement.
type failingTransformer struct{ err error }

func (f failingTransformer) TransformSelect(*nodes.SelectCore) (*nodes.SelectCore, error) {
	return nil, f.err
}
func (f failingTransformer) TransformInsert(*nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return nil, f.err
}
func (f failingTransformer) TransformUpdate(*nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return nil, f.err
}
func (f failingTransformer) TransformDelete(*nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return nil, f.err
}
