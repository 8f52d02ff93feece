package managers

import (
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
)

func TestGrantColumnPrivilegeAndUsage(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewGrantManager().
		OnTable(f.table1).
		Privilege(nodes.PrivInsert, f.table1.Col("col1")).
		Privilege(nodes.PrivUsage).
		Grantees("bob", "Mark")

	testutil.AssertEqual(t, m.String(), "GRANT INSERT(col1),USAGE ON TABLE Schema1.Table1 TO bob,Mark")
	testutil.AssertNoError(t, m.Validate())
}

func TestRevokeFromPublic(t *testing.T) {
	t.Parallel()
	f := newFixture()
	m := NewRevokeManager().
		OnTable(f.table1).
		Privilege(nodes.PrivInsert, f.table1.Col("col1")).
		Privilege(nodes.PrivUsage).
		Grantees(nodes.Public)

	testutil.AssertEqual(t, m.String(), "REVOKE INSERT(col1),USAGE ON TABLE Schema1.Table1 FROM PUBLIC")
	testutil.AssertNoError(t, m.Validate())
}

func TestGrantOptions(t *testing.T) {
	t.Parallel()
	f := newFixture()

	grant := NewGrantManager().OnTable(f.dt1).Privilege(nodes.PrivAll).Grantees("admin").GrantOption()
	testutil.AssertEqual(t, grant.String(), "GRANT ALL PRIVILEGES ON TABLE Table1 TO admin WITH GRANT OPTION")

	revoke := NewRevokeManager().OnTable(f.dt1).Privilege(nodes.PrivSelect).Grantees("bob").GrantOption().Cascade()
	testutil.AssertEqual(t, revoke.String(), "REVOKE GRANT OPTION FOR SELECT ON TABLE Table1 FROM bob CASCADE")
}

func TestGrantNamedTargets(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind nodes.TargetKind
		want string
	}{
		{nodes.TargetDomain, "GRANT USAGE ON DOMAIN money TO bob"},
		{nodes.TargetCollation, "GRANT USAGE ON COLLATION money TO bob"},
		{nodes.TargetCharacterSet, "GRANT USAGE ON CHARACTER SET money TO bob"},
		{nodes.TargetTranslation, "GRANT USAGE ON TRANSLATION money TO bob"},
	}
	for _, tc := range cases {
		m := NewGrantManager().On(tc.kind, "money").Privilege(nodes.PrivUsage).Grantees("bob")
		testutil.AssertEqual(t, m.String(), tc.want)
		testutil.AssertNoError(t, m.Validate())
	}
}

func TestGrantValidation(t *testing.T) {
	t.Parallel()
	f := newFixture()

	validationClause(t, NewGrantManager().Privilege(nodes.PrivSelect).Grantees("bob").Validate(), "GRANT")
	validationClause(t, NewGrantManager().OnTable(f.dt1).Grantees("bob").Validate(), "GRANT")
	validationClause(t, NewRevokeManager().OnTable(f.dt1).Privilege(nodes.PrivSelect).Validate(), "REVOKE")

	other := NewGrantManager().
		OnTable(f.table1).
		Privilege(nodes.PrivUpdate, f.dt2.Col("col4")).
		Grantees("bob")
	validationClause(t, other.Validate(), "GRANT")

	named := NewGrantManager().
		On(nodes.TargetDomain, "money").
		Privilege(nodes.PrivUpdate, f.dt2.Col("col4")).
		Grantees("bob")
	validationClause(t, named.Validate(), "GRANT")
}

func TestGrantBehaviorPanicsOnGrant(t *testing.T) {
	t.Parallel()
	testutil.AssertPanics(t, "only applies to REVOKE", func() {
		NewGrantManager().Cascade()
	})
}
