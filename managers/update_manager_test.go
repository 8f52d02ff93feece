package managers

import (
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/visitors"
)

func TestUpdateSetWhere(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewUpdateManager(f.table1).
		Set(f.table1.Col("col1"), 47).
		Set(f.table1.Col("col3"), "foo").
		Where(nodes.Eq(f.table1.Col("col2"), "13"))

	testutil.AssertEqual(t, m.String(),
		"UPDATE Schema1.Table1 SET col1 = 47,col3 = 'foo' WHERE (col2 = '13')")
	testutil.AssertNoError(t, m.Validate())
}

func TestUpdateWithExpressionAndSubquery(t *testing.T) {
	t.Parallel()
	f := newFixture()
	maxID := NewSelectManager().Select(nodes.Max(f.dt2.Col("col_id")))
	m := NewUpdateManager(f.dt1).
		Set(f.dt1.Col("col_id"), nodes.Add(f.dt1.Col("col_id"), 1)).
		Set(f.dt1.Col("altCol4"), maxID)

	testutil.AssertEqual(t, m.String(),
		"UPDATE Table1 SET col_id = (col_id + 1),altCol4 = (SELECT MAX(t0.col_id) FROM Table2 t0)")
	testutil.AssertNoError(t, m.Validate())
}

func TestUpdateQuotedIdentifiers(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewUpdateManager(f.table1).Set(f.table1.Col("col1"), "it's")

	got, err := m.ToSQL(visitors.NewPostgresVisitor(visitors.WithQuotedIdentifiers()))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, `UPDATE "Schema1"."Table1" SET "col1" = 'it''s'`)
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()

	validationClause(t, NewUpdateManager(f.dt1).Validate(), "SET")

	foreign := NewUpdateManager(f.dt1).Set(f.dt2.Col("col4"), 1)
	validationClause(t, foreign.Validate(), "SET")

	where := NewUpdateManager(f.dt1).Set(f.dt1.Col("col2"), "x").Where(f.dt2.Col("col4").Eq(1))
	validationClause(t, where.Validate(), "WHERE")
}

func TestUpdateValidatedFlag(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewUpdateManager(f.dt1).Set(f.dt1.Col("col2"), "x")
	testutil.AssertNoError(t, m.Validate())
	testutil.AssertEqual(t, m.Validated(), true)
	m.Where(f.dt1.Col("col_id").Eq(1))
	testutil.AssertEqual(t, m.Validated(), false)
}
