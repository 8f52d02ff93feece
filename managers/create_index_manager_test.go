package managers

import (
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
)

func TestCreateIndexFromDescriptor(t *testing.T) {
	t.Parallel()
	f := newFixture()
	idx := f.spec.FindSchema("Schema1").Indexes[0]
	m := CreateIndex(idx)

	testutil.AssertEqual(t, m.String(), "CREATE INDEX Schema1.Index1 ON Schema1.Table1 (col1,col2)")
	testutil.AssertNoError(t, m.Validate())
	testutil.AssertEqual(t, m.DropQuery().String(), "DROP INDEX Schema1.Index1")
}

func TestCreateUniqueIndex(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewCreateIndexManager("ix_col2", f.dt1, f.dt1.Col("col2")).
		AddColumns(f.dt1.Col("col3")).
		Unique()

	testutil.AssertEqual(t, m.String(), "CREATE UNIQUE INDEX ix_col2 ON Table1 (col2,col3)")
}

func TestCreateIndexValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()

	validationClause(t, NewCreateIndexManager("ix", f.dt1).Validate(), "CREATE INDEX")
	validationClause(t, NewCreateIndexManager("", f.dt1, f.dt1.Col("col2")).Validate(), "CREATE INDEX")

	foreign := NewCreateIndexManager("ix", f.dt1, f.dt2.Col("col4"))
	validationClause(t, foreign.Validate(), "CREATE INDEX")
}
