package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/visitors"
)

func TestInsertValues(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewInsertManager(f.table1).
		Set(f.table1.Col("col1"), 13).
		Set(f.table1.Col("col3"), "feed me seymor")

	testutil.AssertEqual(t, m.String(),
		"INSERT INTO Schema1.Table1 (col1,col3) VALUES (13,'feed me seymor')")
	testutil.AssertNoError(t, m.Validate())
}

func TestInsertColumnsThenValues(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewInsertManager(f.dt2).
		Columns(f.dt2.Col("col_id"), f.dt2.Col("col4")).
		Values(1, nil)

	testutil.AssertEqual(t, m.String(), "INSERT INTO Table2 (col_id,col4) VALUES (1,NULL)")
}

func TestInsertPreparedColumns(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewInsertManager(f.dt1).
		Set(f.dt1.Col("col_id"), 13).
		PreparedColumns(f.dt1.Col("col2"), f.dt1.Col("col3"))

	testutil.AssertEqual(t, m.String(), "INSERT INTO Table1 (col_id,col2,col3) VALUES (13,?,?)")
	testutil.AssertNoError(t, m.Validate())
}

func TestInsertMySQLPlaceholders(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := nodes.NewPreparer(1)
	a, b := p.NewPlaceHolder(), p.NewPlaceHolder()
	m := NewInsertManager(f.dt2).Set(f.dt2.Col("col4"), a).Set(f.dt2.Col("col5"), b)

	got, err := m.ToSQL(visitors.NewMySQLVisitor())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "INSERT INTO Table2 (col4,col5) VALUES (?,?)")
	testutil.AssertEqual(t, a.Index(), 1)
	testutil.AssertEqual(t, b.Index(), 2)
}

func TestInsertValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()

	validationClause(t, NewInsertManager(f.dt1).Validate(), "INSERT")

	mismatch := NewInsertManager(f.dt1).Columns(f.dt1.Col("col_id")).Values(1, 2)
	validationClause(t, mismatch.Validate(), "INSERT")

	foreign := NewInsertManager(f.dt1).Set(f.dt2.Col("col4"), 1)
	err := foreign.Validate()
	validationClause(t, err, "INSERT")
	testutil.AssertEqual(t, err.Error(), "sqlbuild: invalid INSERT: column col4 does not belong to Table1")
}

func TestInsertPanicsWithoutTable(t *testing.T) {
	t.Parallel()
	testutil.AssertPanics(t, "target table", func() { NewInsertManager(nil) })
}

func TestInsertTransformerError(t *testing.T) {
	t.Parallel()
	f := newFixture()
	boom := errors.New("boom")
	m := NewInsertManager(f.dt2).Set(f.dt2.Col("col4"), 1).Use(failingTransformer{err: boom})

	_, err := m.ToSQL(visitors.NewANSIVisitor())
	testutil.AssertErrorIs(t, err, boom)
	testutil.AssertEqual(t, m.String(), "")
}

func TestInsertSelect(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q := NewSelectManager().Select(f.table1.Col("col1"), f.table1.Col("col2"), f.table1.Col("col3"))
	m := NewInsertSelectManager(f.dt1).
		Columns(f.dt1.Col("col_id"), f.dt1.Col("col2"), f.dt1.Col("col3")).
		Select(q)

	testutil.AssertEqual(t, m.String(),
		"INSERT INTO Table1 (col_id,col2,col3) SELECT t0.col1,t0.col2,t0.col3 FROM Schema1.Table1 t0")
	testutil.AssertNoError(t, m.Validate())
}

func TestInsertSelectFromSameTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q := NewSelectManager().Select(f.dt2.Col("col4"))
	m := NewInsertSelectManager(f.dt2).Columns(f.dt2.Col("col5")).Select(q)

	testutil.AssertEqual(t, m.String(), "INSERT INTO Table2 (col5) SELECT t0.col4 FROM Table2 t0")
}

func TestInsertSelectValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()

	noQuery := NewInsertSelectManager(f.dt1).Columns(f.dt1.Col("col_id"))
	validationClause(t, noQuery.Validate(), "INSERT")

	q := NewSelectManager().Select(f.table1.Col("col1"), f.table1.Col("col2"))
	arity := NewInsertSelectManager(f.dt1).Columns(f.dt1.Col("col_id")).Select(q)
	validationClause(t, arity.Validate(), "INSERT")

	bad := NewInsertSelectManager(f.dt1).Columns(f.dt1.Col("col_id")).Select(NewSelectManager().Select(nodes.NewSqlLiteral("1")))
	validationClause(t, bad.Validate(), "FROM")
}
