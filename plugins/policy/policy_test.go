package policy

import (
	"errors"
	"testing"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/managers"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
	"github.com/bawdo/sqlbuild/visitors"
)

var errDenied = errors.New("access denied")

// tenantRules restricts users and posts to tenant 5 and denies secrets.
func tenantRules(ref plugins.TableRef) ([]nodes.Node, error) {
	switch {
	case ref.Matches("secrets"):
		return nil, errDenied
	case ref.Matches("users"), ref.Matches("posts"):
		return []nodes.Node{nodes.Col(nodes.NewAttribute(ref.Relation, "tenant_id")).Eq(5)}, nil
	}
	return nil, nil
}

func transform(t *testing.T, p *Policy, core *nodes.SelectCore) *nodes.SelectCore {
	t.Helper()
	result, err := p.TransformSelect(core)
	testutil.AssertNoError(t, err)
	return result
}

func TestInjectsConditionsForTable(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	core := &nodes.SelectCore{
		Projections: []nodes.Node{users.Col("id")},
		Wheres:      []nodes.Node{users.Col("active").Eq(true)},
	}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(tenantRules), core),
		"SELECT t0.id FROM users t0 WHERE ((t0.active = TRUE) AND (t0.tenant_id = 5))")
}

func TestInjectsMultipleConditions(t *testing.T) {
	t.Parallel()
	posts := nodes.NewTable("posts")
	core := &nodes.SelectCore{Projections: []nodes.Node{posts.Col("id")}}
	rules := func(ref plugins.TableRef) ([]nodes.Node, error) {
		col := func(name string) *nodes.ColumnNode { return nodes.Col(nodes.NewAttribute(ref.Relation, name)) }
		return []nodes.Node{col("tenant_id").Eq(5), col("status").NotEq("draft")}, nil
	}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(rules), core),
		"SELECT t0.id FROM posts t0 WHERE ((t0.tenant_id = 5) AND (t0.status <> 'draft'))")
}

func TestEvaluatesEveryJoinedTable(t *testing.T) {
	t.Parallel()
	users, posts, tags := nodes.NewTable("users"), nodes.NewTable("posts"), nodes.NewTable("tags")
	core := &nodes.SelectCore{
		Projections: []nodes.Node{users.Col("id")},
		Sources: []nodes.Node{
			&nodes.JoinNode{
				Left:  &nodes.JoinNode{Left: &nodes.FromTable{Table: users}, Right: &nodes.FromTable{Table: posts}, Type: nodes.InnerJoin, On: users.Col("id").Eq(posts.Col("user_id"))},
				Right: &nodes.FromTable{Table: tags},
				Type:  nodes.CrossJoin,
			},
		},
	}

	var seen []string
	rules := func(ref plugins.TableRef) ([]nodes.Node, error) {
		seen = append(seen, ref.Name)
		return tenantRules(ref)
	}
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(rules), core),
		"SELECT t0.id FROM users t0 INNER JOIN posts t1 ON (t0.id = t1.user_id) CROSS JOIN tags t2 "+
			"WHERE ((t0.tenant_id = 5) AND (t1.tenant_id = 5))")
	testutil.AssertEqual(t, len(seen), 3)
}

func TestRejectsStatementOnRuleError(t *testing.T) {
	t.Parallel()
	secrets := nodes.NewTable("secrets")
	core := &nodes.SelectCore{Projections: []nodes.Node{secrets.Col("id")}}

	_, err := New(tenantRules).TransformSelect(core)
	testutil.AssertErrorIs(t, err, errDenied)
}

func TestMasksProjectedColumn(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	p := New(nil, WithMask("users", "email", "***"))

	cases := []struct {
		name        string
		projections []nodes.Node
		want        string
	}{
		{"mixed", []nodes.Node{users.Col("id"), users.Col("email")}, "SELECT t0.id,'***' AS email FROM users t0"},
		{"only masked", []nodes.Node{users.Col("email")}, "SELECT '***' AS email FROM users t0"},
		{"aliased", []nodes.Node{users.Col("email").As("contact")}, "SELECT '***' AS contact FROM users t0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			core := &nodes.SelectCore{Projections: tc.projections}
			testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, p, core), tc.want)
		})
	}
}

func TestMaskMatchesQualifiedName(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users").InSchema("app")
	core := &nodes.SelectCore{Projections: []nodes.Node{users.Col("email")}}

	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(nil, WithMask("users", "email", nil)), core),
		"SELECT NULL AS email FROM app.users t0")
}

func TestExpandsStarOverDescribedTable(t *testing.T) {
	t.Parallel()
	spec := dbspec.NewSpec()
	sc := spec.AddDefaultSchema()
	users := sc.AddTable("users")
	users.AddColumn("id")
	users.AddColumn("email")
	posts := sc.AddTable("posts")
	posts.AddColumn("id")

	core := &nodes.SelectCore{
		Projections: []nodes.Node{nodes.Star()},
		Sources: []nodes.Node{&nodes.JoinNode{
			Left:  &nodes.FromTable{Table: users},
			Right: &nodes.FromTable{Table: posts},
			Type:  nodes.CrossJoin,
		}},
	}
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, New(nil, WithMask("users", "email", "***")), core),
		"SELECT t0.id,'***' AS email,t1.* FROM users t0 CROSS JOIN posts t1")
}

func TestStarOverAdHocTableNeedsResolver(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	newCore := func() *nodes.SelectCore {
		return &nodes.SelectCore{
			Projections: []nodes.Node{users.Star()},
			Sources:     []nodes.Node{&nodes.FromTable{Table: users}},
		}
	}

	_, err := New(nil, WithMask("users", "email", "***")).TransformSelect(newCore())
	testutil.AssertErrorIs(t, err, ErrNoColumns)

	resolver := func(plugins.TableRef) ([]string, error) { return []string{"id", "email"}, nil }
	p := New(nil, WithMask("users", "email", "***"), WithColumnResolver(resolver))
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), transform(t, p, newCore()),
		"SELECT t0.id,'***' AS email FROM users t0")
}

func TestRestrictsUpdateAndDelete(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	p := New(tenantRules)

	testutil.AssertEqual(t,
		managers.NewUpdateManager(users).Set(users.Col("name"), "x").Use(p).String(),
		"UPDATE users SET name = 'x' WHERE (tenant_id = 5)")
	testutil.AssertEqual(t,
		managers.NewDeleteManager(users).Where(users.Col("id").Eq(1)).Use(p).String(),
		"DELETE FROM users WHERE ((id = 1) AND (tenant_id = 5))")

	_, err := managers.NewDeleteManager(nodes.NewTable("secrets")).Use(p).ToSQL(visitors.NewANSIVisitor())
	testutil.AssertErrorIs(t, err, errDenied)
}

func TestComposesWithSelectManager(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := managers.NewSelectManager().Select(users.Col("id"), users.Col("email")).
		Use(New(tenantRules, WithMask("users", "email", "***")))

	got, err := m.ToSQL(visitors.NewPostgresVisitor())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "SELECT t0.id,'***' AS email FROM users t0 WHERE (t0.tenant_id = 5)")
	testutil.AssertEqual(t, len(m.Core.Wheres), 0)
}
