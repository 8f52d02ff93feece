package nodes

// ConstraintType identifies a column or table constraint.
type ConstraintType int

const (
	PrimaryKeyConstraint ConstraintType = iota
	UniqueConstraint
	NotNullConstraint
	ForeignKeyConstraint
)

// String returns the SQL keywords for the constraint type.
func (t ConstraintType) String() string {
	switch t {
	case PrimaryKeyConstraint:
		return "PRIMARY KEY"
	case UniqueConstraint:
		return "UNIQUE"
	case NotNullConstraint:
		return "NOT NULL"
	case ForeignKeyConstraint:
		return "FOREIGN KEY"
	default:
		return ""
	}
}

// ColumnDefNode is a column definition in CREATE TABLE or ALTER TABLE ADD
// COLUMN: name type [DEFAULT v] [constraints].
type ColumnDefNode struct {
	Column      ColumnRef
	Type        string
	Default     Node
	Constraints []ConstraintType
}

func (n *ColumnDefNode) Accept(v Visitor) string  { return v.VisitColumnDef(n) }
func (n *ColumnDefNode) Collect(refs *References) { refs.AddColumn(n.Column) }

// ConstraintNode is a table constraint: [CONSTRAINT name] PRIMARY KEY
// (cols), UNIQUE (cols) or FOREIGN KEY (cols) REFERENCES table [(cols)].
type ConstraintNode struct {
	Name       string
	Type       ConstraintType
	Columns    []Node
	RefTable   TableRef
	RefColumns []Node
}

func (n *ConstraintNode) Accept(v Visitor) string { return v.VisitConstraint(n) }

// Collect reports the constrained columns only; referenced columns belong
// to another table.
func (n *ConstraintNode) Collect(refs *References) { collectAll(refs, n.Columns...) }

// CreateTableStatement represents CREATE TABLE name (defs...).
type CreateTableStatement struct {
	Table       TableRef
	Columns     []*ColumnDefNode
	Constraints []*ConstraintNode
}

func (n *CreateTableStatement) Accept(v Visitor) string { return v.VisitCreateTable(n) }

func (n *CreateTableStatement) Collect(refs *References) {
	refs.AddTable(n.Table)
	for _, c := range n.Columns {
		c.Collect(refs)
	}
	for _, c := range n.Constraints {
		c.Collect(refs)
	}
}

// DropKind is the object kind of a DROP statement.
type DropKind int

const (
	DropTable DropKind = iota
	DropIndex
	DropView
	DropSchema
)

// String returns the SQL keyword of the object kind.
func (k DropKind) String() string {
	switch k {
	case DropIndex:
		return "INDEX"
	case DropView:
		return "VIEW"
	case DropSchema:
		return "SCHEMA"
	default:
		return "TABLE"
	}
}

// DropBehavior is the optional CASCADE/RESTRICT suffix.
type DropBehavior int

const (
	NoBehavior DropBehavior = iota
	Cascade
	Restrict
)

// String returns the SQL keyword, or "".
func (b DropBehavior) String() string {
	switch b {
	case Cascade:
		return "CASCADE"
	case Restrict:
		return "RESTRICT"
	default:
		return ""
	}
}

// DropStatement represents DROP kind name [CASCADE|RESTRICT].
type DropStatement struct {
	Kind     DropKind
	Name     string
	Behavior DropBehavior
}

func (n *DropStatement) Accept(v Visitor) string { return v.VisitDrop(n) }
func (n *DropStatement) Collect(*References)     {}

// AlterAction identifies an ALTER TABLE action.
type AlterAction int

const (
	AddConstraintAction AlterAction = iota
	AddColumnAction
	DropColumnAction
)

// AlterTableStatement represents ALTER TABLE name action. Exactly one of
// Constraint, Column or Dropped is set, according to Action.
type AlterTableStatement struct {
	Table      TableRef
	Action     AlterAction
	Constraint *ConstraintNode
	Column     *ColumnDefNode
	Dropped    Node
	Behavior   DropBehavior
}

func (n *AlterTableStatement) Accept(v Visitor) string { return v.VisitAlterTable(n) }

func (n *AlterTableStatement) Collect(refs *References) {
	refs.AddTable(n.Table)
	if n.Constraint != nil {
		n.Constraint.Collect(refs)
	}
	if n.Column != nil {
		n.Column.Collect(refs)
	}
	collectAll(refs, n.Dropped)
}

// CreateIndexStatement represents CREATE [UNIQUE] INDEX name ON table (cols).
type CreateIndexStatement struct {
	Name    string
	Table   TableRef
	Columns []Node
	Unique  bool
}

func (n *CreateIndexStatement) Accept(v Visitor) string { return v.VisitCreateIndex(n) }

func (n *CreateIndexStatement) Collect(refs *References) {
	refs.AddTable(n.Table)
	collectAll(refs, n.Columns...)
}
