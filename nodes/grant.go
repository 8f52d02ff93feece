package nodes

// PrivilegeType is a privilege named in GRANT or REVOKE.
type PrivilegeType int

const (
	PrivSelect PrivilegeType = iota
	PrivInsert
	PrivUpdate
	PrivDelete
	PrivReferences
	PrivUsage
	PrivAll
)

// String returns the SQL keyword for the privilege.
func (p PrivilegeType) String() string {
	switch p {
	case PrivSelect:
		return "SELECT"
	case PrivInsert:
		return "INSERT"
	case PrivUpdate:
		return "UPDATE"
	case PrivDelete:
		return "DELETE"
	case PrivReferences:
		return "REFERENCES"
	case PrivUsage:
		return "USAGE"
	default:
		return "ALL PRIVILEGES"
	}
}

// Privilege is one privilege, optionally restricted to columns:
// INSERT(col1,col2).
type Privilege struct {
	Type    PrivilegeType
	Columns []Node
}

// TargetKind is the object kind a privilege applies to.
type TargetKind int

const (
	TargetTable TargetKind = iota
	TargetDomain
	TargetCollation
	TargetCharacterSet
	TargetTranslation
)

// String returns the SQL keyword for the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetDomain:
		return "DOMAIN"
	case TargetCollation:
		return "COLLATION"
	case TargetCharacterSet:
		return "CHARACTER SET"
	case TargetTranslation:
		return "TRANSLATION"
	default:
		return "TABLE"
	}
}

// GrantTarget is the object of a GRANT or REVOKE. Table is set for table
// targets; Name for the others.
type GrantTarget struct {
	Kind  TargetKind
	Name  string
	Table TableRef
}

// Public is the grantee naming every user.
const Public = "PUBLIC"

// GrantStatement represents GRANT privileges ON target TO grantees, or
// REVOKE privileges ON target FROM grantees when Revoke is set.
type GrantStatement struct {
	Revoke      bool
	Privileges  []*Privilege
	Target      *GrantTarget
	Grantees    []string
	GrantOption bool         // WITH GRANT OPTION / REVOKE GRANT OPTION FOR
	Behavior    DropBehavior // REVOKE only
}

func (n *GrantStatement) Accept(v Visitor) string { return v.VisitGrant(n) }

func (n *GrantStatement) Collect(refs *References) {
	if n.Target != nil && n.Target.Table != nil {
		refs.AddTable(n.Target.Table)
	}
	for _, p := range n.Privileges {
		collectAll(refs, p.Columns...)
	}
}
