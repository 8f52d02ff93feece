package managers

import (
	"errors"
	"strings"
	"testing"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins/softdelete"
	"github.com/bawdo/sqlbuild/visitors"
)

// --- Projections and FROM derivation ---

func TestSelectDerivesFromReferencedTables(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(f.table1.Col("col1"), f.dt2.Col("col5"))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t1.col5 FROM Schema1.Table1 t0,Table2 t1")
}

func TestSelectAllOf(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAllOf(f.table1)

	testutil.AssertEqual(t, m.String(), "SELECT t0.* FROM Schema1.Table1 t0")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectAllFromTablesForUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAll().From(f.dt1, f.dt2).ForUpdate()

	testutil.AssertEqual(t, m.String(), "SELECT * FROM Table1 t0,Table2 t1 FOR UPDATE")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectFromSkipsDeclaredTables(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAll().From(f.dt1, f.dt1)
	if len(m.Core.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(m.Core.Sources))
	}
}

func TestSelectAs(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().
		Select(f.table1.Col("col1"), f.table1.Col("col2")).
		SelectAs(f.table1.Col("col3"), "MyCol")

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t0.col2,t0.col3 AS MyCol FROM Schema1.Table1 t0")
}

func TestSelectCustomFromAndConditions(t *testing.T) {
	t.Parallel()
	f := newFixture()
	foo := nodes.NewSqlLiteral("fooCol")
	m := NewSelectManager().
		Select(f.dt1.Col("col_id"), foo, nodes.NewSqlLiteral("BazzCol")).
		From(f.dt1).
		FromCustom("otherTable").
		Where(foo.Lt(37), nodes.CustomCondition("bazzCol IS FUNKY"))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col_id,fooCol,BazzCol FROM Table1 t0,otherTable WHERE ((fooCol < 37) AND (bazzCol IS FUNKY))")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectProjectionComment(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().
		Select(f.table1.Col("col1"), f.table1.Col("col2")).
		AddComment("foo bar")

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t0.col2, -- foo bar\n FROM Schema1.Table1 t0")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectTrailingComment(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(f.table1.Col("col1")).Comment("report")

	testutil.AssertEqual(t, m.String(), "SELECT t0.col1 FROM Schema1.Table1 t0 -- report\n")
}

func TestSelectAggregateNeedsExplicitSource(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(nodes.CountAll()).From(f.dt1)

	testutil.AssertEqual(t, m.String(), "SELECT COUNT(*) FROM Table1 t0")
}

// --- Joins ---

func TestSelectDistinctJoinsGroupHavingOrder(t *testing.T) {
	t.Parallel()
	f := newFixture()
	t1, d1, d2 := f.table1, f.dt1, f.dt2
	m := NewSelectManager().
		Distinct().
		Select(t1.Col("col1"), d1.Col("col2"), d2.Col("col5")).
		Join(nodes.InnerJoin, t1, d1, nodes.Eq(t1.Col("col4"), d1.Col("altCol4"))).
		Join(nodes.LeftOuterJoin, d1, d2, nodes.Eq(d1.Col("col_id"), d2.Col("col_id"))).
		Where(nodes.GreaterThan(d2.Col("col4"), 42, true)).
		Group(d1.Col("col2"), d2.Col("col5")).
		Having(nodes.GreaterThan(d1.Col("col2"), 1, false)).
		Order(d1.Col("col2")).
		OrderDesc(d2.Col("col5"))

	testutil.AssertEqual(t, m.String(),
		"SELECT DISTINCT t0.col1,t1.col2,t2.col5 FROM Schema1.Table1 t0 "+
			"INNER JOIN Table1 t1 ON (t0.col4 = t1.altCol4) "+
			"LEFT OUTER JOIN Table2 t2 ON (t1.col_id = t2.col_id) "+
			"WHERE (t2.col4 >= 42) GROUP BY t1.col2,t2.col5 HAVING (t1.col2 > 1) "+
			"ORDER BY t1.col2,t2.col5 DESC")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectJoinsFromDescriptors(t *testing.T) {
	t.Parallel()
	f := newFixture()
	j := f.spec.AddJoin("", "Table1", "", "Table2", "col_id")
	m := NewSelectManager().
		Select(f.dt1.Col("col2"), f.dt2.Col("col5")).
		Joins(nodes.InnerJoin, j)

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col2,t1.col5 FROM Table1 t0 INNER JOIN Table2 t1 ON (t0.col_id = t1.col_id)")
}

func TestSelectJoinOnContext(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().
		SelectAll().
		JoinOn(nodes.LeftOuterJoin, f.dt1, f.dt2).
		On(nodes.Eq(f.dt1.Col("col_id"), f.dt2.Col("col_id")))

	testutil.AssertEqual(t, m.String(),
		"SELECT * FROM Table1 t0 LEFT OUTER JOIN Table2 t1 ON (t0.col_id = t1.col_id)")
}

func TestSelectJoinColumns(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAll().JoinColumns(nodes.InnerJoin, f.dt1, f.dt2,
		[]nodes.ColumnRef{f.dt1.Col("col_id"), f.dt1.Col("col2")},
		[]nodes.ColumnRef{f.dt2.Col("col_id"), f.dt2.Col("col4")})

	testutil.AssertEqual(t, m.String(),
		"SELECT * FROM Table1 t0 INNER JOIN Table2 t1 ON ((t0.col_id = t1.col_id) AND (t0.col2 = t1.col4))")
}

func TestSelectJoinColumnsPanicsOnMismatch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	testutil.AssertPanics(t, "matching non-empty column lists", func() {
		NewSelectManager().JoinColumns(nodes.InnerJoin, f.dt1, f.dt2,
			[]nodes.ColumnRef{f.dt1.Col("col_id")}, nil)
	})
}

func TestSelectCrossJoin(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAll().CrossJoin(f.dt1, f.dt2)

	testutil.AssertEqual(t, m.String(), "SELECT * FROM Table1 t0 CROSS JOIN Table2 t1")
}

func TestSelectJoinAttachesToExistingSource(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().SelectAll().From(f.dt2, f.dt1).
		Join(nodes.InnerJoin, f.dt1, f.table1, nodes.Eq(f.dt1.Col("col2"), f.table1.Col("col1")))

	testutil.AssertEqual(t, m.String(),
		"SELECT * FROM Table2 t0,Table1 t1 INNER JOIN Schema1.Table1 t2 ON (t1.col2 = t2.col1)")
}

func TestSelectJoinPanicsOnNilTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	testutil.AssertPanics(t, "join needs both tables", func() {
		NewSelectManager().Join(nodes.InnerJoin, f.dt1, nil, nil)
	})
}

// --- Rejoin and subqueries ---

func TestSelectRejoinTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	r := dbspec.NewRejoinTable(f.table1, "t5")
	m := NewSelectManager().Select(
		f.table1.Col("col1"), f.table1.Col("col2"), r.Col("col1"), r.Col("col2"))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t0.col2,t5.col1,t5.col2 FROM Schema1.Table1 t0,Schema1.Table1 t5")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectInSubquery(t *testing.T) {
	t.Parallel()
	f := newFixture()
	sub := NewSelectManager().Select(f.dt1.Col("col3"))
	m := NewSelectManager().
		Select(f.table1.Col("col1"), f.table1.Col("col2")).
		Where(nodes.In(f.table1.Col("col1"), sub))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1,t0.col2 FROM Schema1.Table1 t0 WHERE (t0.col1 IN (SELECT t1.col3 FROM Table1 t1))")
	testutil.AssertNoError(t, m.Validate())
}

func TestSelectInSubqueryKeepsPlugins(t *testing.T) {
	t.Parallel()
	users, orders := nodes.NewTable("users"), nodes.NewTable("orders")
	sub := NewSelectManager().Select(users.Col("id")).Use(softdelete.New())
	m := NewSelectManager().Select(orders.Col("id")).Where(nodes.In(orders.Col("user_id"), sub))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.id FROM orders t0 WHERE (t0.user_id IN "+
			"(SELECT t1.id FROM users t1 WHERE (t1.deleted_at IS NULL)))")
	testutil.AssertNoError(t, m.Validate())

	// Rendering the manager as a node applies the plugins too.
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), sub,
		"SELECT t0.id FROM users t0 WHERE (t0.deleted_at IS NULL)")
}

func TestSelectCorrelatedExists(t *testing.T) {
	t.Parallel()
	f := newFixture()
	sub := NewSelectManager().
		Select(f.dt1.Col("col_id")).
		Where(nodes.Eq(f.dt1.Col("col2"), f.table1.Col("col1")))
	m := NewSelectManager().
		Select(f.table1.Col("col1")).
		Where(nodes.Exists(sub))

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1 FROM Schema1.Table1 t0 WHERE (EXISTS (SELECT t1.col_id FROM Table1 t1 WHERE (t1.col2 = t0.col1)))")
	testutil.AssertNoError(t, m.Validate())
}

// --- Paging and rendering options ---

func TestSelectOffsetFetch(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.table1.Col("col1")
	m := NewSelectManager().Select(c).Order(c).Offset(10).Fetch(5)

	testutil.AssertEqual(t, m.String(),
		"SELECT t0.col1 FROM Schema1.Table1 t0 ORDER BY t0.col1 OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY")
}

func TestSelectRendersDeterministically(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(f.table1.Col("col1"), f.dt1.Col("col2"))
	first := m.String()
	testutil.AssertEqual(t, m.String(), first)
}

func TestSelectWithoutAliases(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(f.table1.Col("col1")).Where(f.table1.Col("col2").Eq(3))

	got, err := m.ToSQL(visitors.NewANSIVisitor(visitors.WithoutTableAliases()))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "SELECT col1 FROM Schema1.Table1 WHERE (col2 = 3)")
}

func TestSelectPostgresPlaceholders(t *testing.T) {
	t.Parallel()
	f := newFixture()
	p := nodes.NewPreparer(1)
	ph := p.NewPlaceHolder()
	m := NewSelectManager().Select(f.dt1.Col("col_id")).Where(f.dt1.Col("col2").Eq(ph))

	got, err := m.ToSQL(visitors.NewPostgresVisitor())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "SELECT t0.col_id FROM Table1 t0 WHERE (t0.col2 = $1)")
	testutil.AssertEqual(t, ph.Index(), 1)

	args, err := p.Binder().Set(ph, "x").Args()
	testutil.AssertNoError(t, err)
	if len(args) != 1 || args[0] != "x" {
		t.Errorf("unexpected args %v", args)
	}
}

// --- Plugins and validation state ---

func TestSelectSoftDeletePlugin(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager().Select(users.Col("id")).Use(softdelete.New())

	testutil.AssertEqual(t, m.String(), "SELECT t0.id FROM users t0 WHERE (t0.deleted_at IS NULL)")
	testutil.AssertNoError(t, m.Validate())
	if len(m.Core.Wheres) != 0 {
		t.Error("expected the builder's own core to be left untouched")
	}
}

func TestSelectTransformerError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := NewSelectManager().Select(nodes.NewTable("users").Col("id")).Use(failingTransformer{err: boom})

	_, err := m.ToSQL(visitors.NewANSIVisitor())
	testutil.AssertErrorIs(t, err, boom)
	if !strings.Contains(err.Error(), "plugin ") {
		t.Errorf("expected the plugin to be named, got %v", err)
	}
	testutil.AssertEqual(t, m.String(), "")
	testutil.AssertErrorIs(t, m.Validate(), boom)
	testutil.AssertEqual(t, m.Validated(), false)
}

func TestSelectValidatedFlag(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewSelectManager().Select(f.table1.Col("col1"))
	testutil.AssertEqual(t, m.Validated(), false)

	testutil.AssertNoError(t, m.Validate())
	testutil.AssertEqual(t, m.Validated(), true)

	m.Where(f.table1.Col("col2").Eq(1))
	testutil.AssertEqual(t, m.Validated(), false)
}

func TestSelectMustValidatePanics(t *testing.T) {
	t.Parallel()
	testutil.AssertPanics(t, "invalid SELECT", func() {
		NewSelectManager().MustValidate()
	})
}

func TestSelectMustValidateChains(t *testing.T) {
	t.Parallel()
	f := newFixture()
	got := NewSelectManager().Select(f.dt2.Col("col4")).MustValidate().String()
	testutil.AssertEqual(t, got, "SELECT t0.col4 FROM Table2 t0")
}
