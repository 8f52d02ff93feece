package softdelete

import (
	"testing"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
	"github.com/bawdo/sqlbuild/visitors"
)

func transform(t *testing.T, sd *SoftDelete, core *nodes.SelectCore) *nodes.SelectCore {
	t.Helper()
	result, err := sd.TransformSelect(core)
	testutil.AssertNoError(t, err)
	return result
}

func joined(users, posts *nodes.Table) *nodes.SelectCore {
	return &nodes.SelectCore{
		Projections: []nodes.Node{nodes.Star()},
		Sources: []nodes.Node{&nodes.JoinNode{
			Left:  &nodes.FromTable{Table: users},
			Right: &nodes.FromTable{Table: posts},
			Type:  nodes.InnerJoin,
			On:    users.Col("id").Eq(posts.Col("user_id")),
		}},
	}
}

func TestDefaultColumnDeletedAt(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{Projections: []nodes.Node{users.Col("id")}}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(), core),
		"SELECT t0.id FROM users t0 WHERE (t0.deleted_at IS NULL)")
}

func TestCustomColumnName(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{Projections: []nodes.Node{users.Col("id")}}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(WithColumn("removed_at")), core),
		"SELECT t0.id FROM users t0 WHERE (t0.removed_at IS NULL)")
}

func TestPreservesExistingWheres(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		Projections: []nodes.Node{users.Col("id")},
		Wheres:      []nodes.Node{users.Col("active").Eq(true)},
	}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(), core),
		"SELECT t0.id FROM users t0 WHERE ((t0.active = TRUE) AND (t0.deleted_at IS NULL))")
}

func TestAppliedToJoinedTables(t *testing.T) {
	t.Parallel()
	core := joined(nodes.NewTable("users"), nodes.NewTable("posts"))

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(), core),
		"SELECT * FROM users t0 INNER JOIN posts t1 ON (t0.id = t1.user_id) WHERE ((t0.deleted_at IS NULL) AND (t1.deleted_at IS NULL))")
}

func TestWithTablesFiltersToSpecifiedTables(t *testing.T) {
	t.Parallel()
	core := joined(nodes.NewTable("users"), nodes.NewTable("posts"))

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(WithTables("users")), core),
		"SELECT * FROM users t0 INNER JOIN posts t1 ON (t0.id = t1.user_id) WHERE (t0.deleted_at IS NULL)")
}

func TestAppliedToTableAlias(t *testing.T) {
	t.Parallel()
	u := nodes.NewTable("users").Alias("u")
	core := &nodes.SelectCore{Projections: []nodes.Node{u.Col("id")}}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(WithTables("users")), core),
		"SELECT u.id FROM users u WHERE (u.deleted_at IS NULL)")
}

func TestMatchesQualifiedNames(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users").InSchema("app")
	core := &nodes.SelectCore{Projections: []nodes.Node{users.Col("id")}}

	result := transform(t, New(WithTableColumn("app.users", "gone_at")), core)
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), result,
		"SELECT t0.id FROM app.users t0 WHERE (t0.gone_at IS NULL)")

	other := &nodes.SelectCore{Projections: []nodes.Node{nodes.NewTable("users").InSchema("audit").Col("id")}}
	if got := transform(t, New(WithTables("app.users")), other); len(got.Wheres) != 0 {
		t.Errorf("expected audit.users to be skipped, got %d conditions", len(got.Wheres))
	}
}

func TestNoTablesIsNoOp(t *testing.T) {
	t.Parallel()
	result := transform(t, New(), &nodes.SelectCore{Projections: []nodes.Node{nodes.NewSqlLiteral("1")}})
	if len(result.Wheres) != 0 {
		t.Errorf("expected no wheres, got %d", len(result.Wheres))
	}
	nilResult, err := New().TransformSelect(nil)
	testutil.AssertNoError(t, err)
	if nilResult != nil {
		t.Error("expected nil core to pass through")
	}
}

func TestWithTableColumnMultiple(t *testing.T) {
	t.Parallel()
	core := joined(nodes.NewTable("users"), nodes.NewTable("posts"))

	sd := New(
		WithTableColumn("users", "deleted_at"),
		WithTableColumn("posts", "removed_at"),
	)
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, sd, core),
		"SELECT * FROM users t0 INNER JOIN posts t1 ON (t0.id = t1.user_id) WHERE ((t0.deleted_at IS NULL) AND (t1.removed_at IS NULL))")
}

func TestWithTableColumnFallsBackToDefault(t *testing.T) {
	t.Parallel()
	core := joined(nodes.NewTable("users"), nodes.NewTable("posts"))

	sd := New(
		WithTableColumn("posts", "removed_at"),
		WithTables("users", "posts"),
	)
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, sd, core),
		"SELECT * FROM users t0 INNER JOIN posts t1 ON (t0.id = t1.user_id) WHERE ((t0.deleted_at IS NULL) AND (t1.removed_at IS NULL))")
}

func TestUsesDescribedColumn(t *testing.T) {
	t.Parallel()
	spec := dbspec.NewSpec()
	users := spec.AddDefaultSchema().AddTable("users")
	id := users.AddColumn("id")
	deleted := users.AddColumn("deleted_at")
	core := &nodes.SelectCore{Projections: []nodes.Node{id.Node()}}

	result := transform(t, New(), core)
	cond, ok := result.Wheres[0].(*nodes.UnaryNode)
	if !ok {
		t.Fatalf("expected unary condition, got %T", result.Wheres[0])
	}
	col, ok := cond.Expr.(*nodes.ColumnNode)
	if !ok || col.Column != nodes.ColumnRef(deleted) {
		t.Error("expected the schema column to be used")
	}
}

func TestImplementsTransformer(t *testing.T) {
	t.Parallel()
	var tr plugins.Transformer = New()
	if n, ok := tr.(plugins.Named); !ok || n.Name() != "softdelete" {
		t.Error("expected the plugin to be named softdelete")
	}
}
