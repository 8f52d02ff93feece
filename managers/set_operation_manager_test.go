package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins/softdelete"
)

func branches(f *fixture) (*SelectManager, *SelectManager) {
	q1 := NewSelectManager().Select(f.table1.Col("col1"), f.table1.Col("col2"), f.table1.Col("col3"))
	q2 := NewSelectManager().Select(f.dt2.Col("col_id"), f.dt2.Col("col4"), f.dt2.Col("col5"))
	return q1, q2
}

func TestUnionAllWithOrdering(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, q2 := branches(f)
	m := UnionAll(q1, q2).OrderAt(1).Order(f.table1.Col("col1"))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t0.col2,t0.col3 FROM Schema1.Table1 t0 UNION ALL "+
			"SELECT t1.col_id,t1.col4,t1.col5 FROM Table2 t1 ORDER BY 1,col1")
	testutil.AssertNoError(t, m.Validate())
	testutil.AssertEqual(t, m.Validated(), true)
}

func TestSetOperationKeywords(t *testing.T) {
	t.Parallel()
	f := newFixture()
	cases := []struct {
		build func(...nodes.Query) *SetOperationManager
		want  string
	}{
		{Union, " UNION "},
		{Intersect, " INTERSECT "},
		{IntersectAll, " INTERSECT ALL "},
		{Except, " EXCEPT "},
		{ExceptAll, " EXCEPT ALL "},
	}
	for _, tc := range cases {
		q1, q2 := branches(f)
		got := tc.build(q1, q2).String()
		want := "SELECT t0.col1,t0.col2,t0.col3 FROM Schema1.Table1 t0" + tc.want +
			"SELECT t1.col_id,t1.col4,t1.col5 FROM Table2 t1"
		testutil.AssertEqual(t, got, want)
	}
}

func TestNestedSetOperationIsParenthesized(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, q2 := branches(f)
	q3 := NewSelectManager().Select(f.dt1.Col("col_id"), f.dt1.Col("col2"), f.dt1.Col("col3"))
	m := Except(Union(q1, q2), q3)

	testutil.AssertEqual(t, m.String(),
		"(SELECT t0.col1,t0.col2,t0.col3 FROM Schema1.Table1 t0 UNION "+
			"SELECT t1.col_id,t1.col4,t1.col5 FROM Table2 t1) EXCEPT "+
			"SELECT t2.col_id,t2.col2,t2.col3 FROM Table1 t2")
	testutil.AssertNoError(t, m.Validate())
}

func TestSetOperationArityMismatch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, _ := branches(f)
	q2 := NewSelectManager().Select(f.dt2.Col("col4"))

	validationClause(t, Union(q1, q2).Validate(), "UNION")
}

func TestSetOperationStarSkipsArityCheck(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, _ := branches(f)
	q2 := NewSelectManager().SelectAll().From(f.dt2)

	testutil.AssertNoError(t, Union(q1, q2).Validate())
}

func TestSetOperationNeedsTwoQueries(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, _ := branches(f)

	validationClause(t, UnionAll(q1).Validate(), "UNION ALL")
}

func TestSetOperationBranchOrderRejected(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, q2 := branches(f)
	q2.OrderAt(1)

	validationClause(t, Union(q1, q2).Validate(), "UNION")
}

func TestSetOperationOrderingRules(t *testing.T) {
	t.Parallel()
	f := newFixture()

	q1, q2 := branches(f)
	validationClause(t, Union(q1, q2).OrderAt(4).Validate(), "ORDER BY")

	q1, q2 = branches(f)
	validationClause(t, Union(q1, q2).Order(f.dt2.Col("col4")).Validate(), "ORDER BY")

	q1, q2 = branches(f)
	testutil.AssertNoError(t, Union(q1, q2).OrderDesc(f.table1.Col("col2")).Validate())
}

func TestSetOperationInvalidBranch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	q1, _ := branches(f)

	validationClause(t, Union(q1, NewSelectManager()).Validate(), "SELECT")
}

func TestSetOperationAsSubquery(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ids := Union(
		NewSelectManager().Select(f.dt1.Col("col_id")),
		NewSelectManager().Select(f.dt2.Col("col_id")),
	)
	m := NewSelectManager().Select(f.table1.Col("col1")).Where(nodes.In(f.table1.Col("col2"), ids))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1 FROM Schema1.Table1 t0 WHERE (t0.col2 IN "+
			"(SELECT t1.col_id FROM Table1 t1 UNION SELECT t2.col_id FROM Table2 t2))")
	testutil.AssertNoError(t, m.Validate())
}

func TestSetOperationAddPanicsOnNil(t *testing.T) {
	t.Parallel()
	testutil.AssertPanics(t, "nil query", func() {
		Union(nil)
	})
}

func TestSetOperationBranchKeepsPlugins(t *testing.T) {
	t.Parallel()
	users, admins := nodes.NewTable("users"), nodes.NewTable("admins")
	q1 := NewSelectManager().Select(users.Col("id")).Use(softdelete.New())
	q2 := NewSelectManager().Select(admins.Col("id"))
	m := Union(q1, q2)

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.id FROM users t0 WHERE (t0.deleted_at IS NULL) UNION SELECT t1.id FROM admins t1")
	testutil.AssertNoError(t, m.Validate())
	if len(q1.Core.Wheres) != 0 {
		t.Error("expected the branch's own core to be left untouched")
	}
}

func TestSetOperationBranchTransformerError(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	q1 := NewSelectManager().Select(users.Col("id")).Use(failingTransformer{err: errors.New("boom")})
	q2 := NewSelectManager().Select(users.Col("id"))
	testutil.AssertPanics(t, "boom", func() {
		Union(q1, q2)
	})
}
