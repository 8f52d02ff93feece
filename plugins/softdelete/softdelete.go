// Package softdelete provides a Transformer that injects "column IS NULL"
// conditions into SELECT queries, filtering out soft-deleted rows.
//
// By default it appends (alias.deleted_at IS NULL) for every table in the
// FROM clause, join targets included. Both the column name and the set of
// tables can be customised via options. Tables are matched by bare or
// schema-qualified name.
//
// # Basic usage
//
//	sd := softdelete.New()
//	q := managers.NewSelectManager().Select(users.Col("id")).Use(sd)
//	// SELECT t0.id FROM users t0 WHERE (t0.deleted_at IS NULL)
//
// # Restrict to specific tables
//
//	sd := softdelete.New(softdelete.WithTables("users"))
//
// # Per-table columns
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//
// # REPL usage
//
//	sqlbuild> plugin softdelete
//	sqlbuild> plugin softdelete removed_at on users posts
//	sqlbuild> plugin off softdelete
package softdelete

import (
	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// SoftDelete is a Transformer that appends IS NULL conditions for a
// soft-delete column on every source table (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // per-table column overrides (table name → column name)
	tables  map[string]bool   // nil means apply to all tables
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to the named tables.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		if sd.tables == nil {
			sd.tables = make(map[string]bool, len(names))
		}
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets a per-table column override. The table is added
// to the restriction list.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		WithTables(table)(sd)
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// Name identifies the plugin.
func (sd *SoftDelete) Name() string { return "softdelete" }

// TransformSelect appends one IS NULL condition per matching source
// table. The core passed in is a clone owned by the caller.
func (sd *SoftDelete) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	if core == nil {
		return nil, nil
	}
	for _, ref := range plugins.CollectTables(core) {
		if sd.appliesTo(ref) {
			core.Wheres = append(core.Wheres, column(ref.Relation, sd.columnFor(ref)).IsNull())
		}
	}
	return core, nil
}

func (sd *SoftDelete) appliesTo(ref plugins.TableRef) bool {
	if sd.tables == nil {
		return true
	}
	return sd.tables[ref.Name] || sd.tables[ref.BaseName()]
}

// columnFor returns the column name for the table, preferring a
// qualified override over a bare one.
func (sd *SoftDelete) columnFor(ref plugins.TableRef) string {
	if col, ok := sd.Columns[ref.Name]; ok {
		return col
	}
	if col, ok := sd.Columns[ref.BaseName()]; ok {
		return col
	}
	return sd.Column
}

// column resolves name against a described table so validation sees the
// schema column; other tables get an ad-hoc attribute.
func column(t nodes.TableRef, name string) *nodes.ColumnNode {
	switch tbl := t.(type) {
	case *dbspec.Table:
		if c := tbl.FindColumn(name); c != nil {
			return c.Node()
		}
	case *dbspec.RejoinTable:
		if c := tbl.FindColumn(name); c != nil {
			return c.Node()
		}
	}
	return nodes.Col(nodes.NewAttribute(t, name))
}
