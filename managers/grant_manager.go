package managers

import (
	"github.com/bawdo/sqlbuild/nodes"
)

// GrantManager builds GRANT and REVOKE statements.
type GrantManager struct {
	treeManager
	Statement *nodes.GrantStatement
}

// NewGrantManager creates a GRANT builder.
func NewGrantManager() *GrantManager {
	return &GrantManager{Statement: &nodes.GrantStatement{}}
}

// NewRevokeManager creates a REVOKE builder.
func NewRevokeManager() *GrantManager {
	return &GrantManager{Statement: &nodes.GrantStatement{Revoke: true}}
}

// OnTable sets a table target.
func (m *GrantManager) OnTable(t nodes.TableRef) *GrantManager {
	m.touch()
	m.Statement.Target = &nodes.GrantTarget{Kind: nodes.TargetTable, Table: t}
	return m
}

// On sets a named target of the given kind.
func (m *GrantManager) On(kind nodes.TargetKind, name string) *GrantManager {
	m.touch()
	m.Statement.Target = &nodes.GrantTarget{Kind: kind, Name: name}
	return m
}

// Privilege adds a privilege, optionally restricted to columns.
func (m *GrantManager) Privilege(p nodes.PrivilegeType, cols ...nodes.ColumnRef) *GrantManager {
	m.touch()
	m.Statement.Privileges = append(m.Statement.Privileges, &nodes.Privilege{Type: p, Columns: colNodes(cols)})
	return m
}

// Grantees adds grantees; use nodes.Public for PUBLIC.
func (m *GrantManager) Grantees(names ...string) *GrantManager {
	m.touch()
	m.Statement.Grantees = append(m.Statement.Grantees, names...)
	return m
}

// GrantOption adds WITH GRANT OPTION to a GRANT, or GRANT OPTION FOR to
// a REVOKE.
func (m *GrantManager) GrantOption() *GrantManager {
	m.touch()
	m.Statement.GrantOption = true
	return m
}

// Cascade appends CASCADE to a REVOKE.
func (m *GrantManager) Cascade() *GrantManager { return m.behavior(nodes.Cascade) }

// Restrict appends RESTRICT to a REVOKE.
func (m *GrantManager) Restrict() *GrantManager { return m.behavior(nodes.Restrict) }

func (m *GrantManager) behavior(b nodes.DropBehavior) *GrantManager {
	if !m.Statement.Revoke {
		panic("sqlbuild: " + b.String() + " only applies to REVOKE")
	}
	m.touch()
	m.Statement.Behavior = b
	return m
}

// Validate checks the target, privileges and grantees.
func (m *GrantManager) Validate() error {
	return m.settle(validateGrant(m.Statement))
}

// MustValidate panics when Validate fails.
func (m *GrantManager) MustValidate() *GrantManager {
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// ToSQL renders the statement with v.
func (m *GrantManager) ToSQL(v nodes.Visitor) (string, error) {
	return render(v, m.Statement), nil
}

// String renders ANSI SQL.
func (m *GrantManager) String() string { return ansi(m.Statement) }

func validateGrant(stmt *nodes.GrantStatement) error {
	clause := "GRANT"
	if stmt.Revoke {
		clause = "REVOKE"
	}
	if stmt.Target == nil {
		return invalid(clause, "no target")
	}
	if len(stmt.Privileges) == 0 {
		return invalid(clause, "no privileges")
	}
	if len(stmt.Grantees) == 0 {
		return invalid(clause, "no grantees")
	}
	for _, p := range stmt.Privileges {
		if len(p.Columns) == 0 {
			continue
		}
		if stmt.Target.Table == nil {
			return invalid(clause, "%s columns need a table target", p.Type)
		}
		if err := checkOwned(clause, stmt.Target.Table, p.Columns...); err != nil {
			return err
		}
	}
	return nil
}
