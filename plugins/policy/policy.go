// Package policy provides a Transformer that enforces access rules on
// statements by injecting rule-derived WHERE conditions and masking
// projected columns.
//
// You supply a [Func] that is called once per table the statement reads or
// writes (FROM and JOIN targets for SELECT, the target table for UPDATE and
// DELETE). It returns zero or more conditions to append to the WHERE
// clause. If it returns an error the statement is rejected entirely, which
// is how hard "access denied" rules are expressed.
//
// # Basic usage
//
//	rules := func(t plugins.TableRef) ([]nodes.Node, error) {
//	    switch {
//	    case t.Matches("secrets"):
//	        return nil, errors.New("access denied")
//	    case t.Matches("users"):
//	        return []nodes.Node{nodes.Col(nodes.NewAttribute(t.Relation, "tenant_id")).Eq(42)}, nil
//	    }
//	    return nil, nil
//	}
//	q := managers.NewSelectManager().Select(users.Col("id")).Use(policy.New(rules))
//	// SELECT t0.id FROM users t0 WHERE (t0.tenant_id = 42)
//
// # Column masks
//
// A mask replaces a projected column with a fixed value rendered under the
// column's name. Star projections are expanded to explicit columns when a
// masked table is read; described tables expand from their columns, other
// tables need [WithColumnResolver].
//
//	p := policy.New(nil, policy.WithMask("users", "email", "***"))
//	// SELECT t0.id,'***' AS email FROM users t0
package policy

import (
	"errors"
	"fmt"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
)

// ErrNoColumns is returned when a star projection over a masked table
// cannot be expanded.
var ErrNoColumns = errors.New("policy: cannot expand star projection without column names")

// Func evaluates the rules for one table and returns conditions to append
// to the WHERE clause. A non-nil error rejects the statement.
type Func func(table plugins.TableRef) ([]nodes.Node, error)

// ColumnResolver returns the column names of a table, in projection order.
type ColumnResolver func(table plugins.TableRef) ([]string, error)

// Option configures a Policy.
type Option func(*Policy)

// WithMask replaces table.column with value wherever it is projected.
// The table is matched by bare or schema-qualified name.
func WithMask(table, column string, value any) Option {
	return func(p *Policy) {
		if p.masks == nil {
			p.masks = make(map[string]map[string]any)
		}
		if p.masks[table] == nil {
			p.masks[table] = make(map[string]any)
		}
		p.masks[table][column] = value
	}
}

// WithColumnResolver sets how star projections over ad-hoc tables are
// expanded when a mask applies to them.
func WithColumnResolver(r ColumnResolver) Option {
	return func(p *Policy) { p.resolve = r }
}

// Policy is a Transformer that applies row rules and column masks.
type Policy struct {
	plugins.BaseTransformer
	rules   Func
	masks   map[string]map[string]any
	resolve ColumnResolver
}

// New creates a Policy. rules may be nil when only masks are wanted.
func New(rules Func, opts ...Option) *Policy {
	p := &Policy{rules: rules}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name identifies the plugin.
func (p *Policy) Name() string { return "policy" }

// TransformSelect appends the rule conditions of every source table and
// applies column masks to the projections.
func (p *Policy) TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	if core == nil {
		return nil, nil
	}
	refs := plugins.CollectTables(core)
	for _, ref := range refs {
		conds, err := p.conditions(ref)
		if err != nil {
			return nil, err
		}
		core.Wheres = append(core.Wheres, conds...)
	}
	if len(p.masks) == 0 {
		return core, nil
	}
	// Masked columns no longer reference their table.
	core.Sources = core.FromSources()
	projections, err := p.mask(core.Projections, refs)
	if err != nil {
		return nil, err
	}
	core.Projections = projections
	return core, nil
}

// TransformUpdate restricts the rows an UPDATE may touch.
func (p *Policy) TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	if stmt == nil {
		return nil, nil
	}
	conds, err := p.conditions(plugins.TableRef{Relation: stmt.Table, Name: stmt.Table.TableName()})
	if err != nil {
		return nil, err
	}
	stmt.Wheres = append(stmt.Wheres, conds...)
	return stmt, nil
}

// TransformDelete restricts the rows a DELETE may remove.
func (p *Policy) TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	if stmt == nil {
		return nil, nil
	}
	conds, err := p.conditions(plugins.TableRef{Relation: stmt.From, Name: stmt.From.TableName()})
	if err != nil {
		return nil, err
	}
	stmt.Wheres = append(stmt.Wheres, conds...)
	return stmt, nil
}

func (p *Policy) conditions(ref plugins.TableRef) ([]nodes.Node, error) {
	if p.rules == nil {
		return nil, nil
	}
	conds, err := p.rules(ref)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", ref.Name, err)
	}
	return conds, nil
}

func (p *Policy) masksFor(t nodes.TableRef) map[string]any {
	ref := plugins.TableRef{Relation: t, Name: t.TableName()}
	if m, ok := p.masks[ref.Name]; ok {
		return m
	}
	return p.masks[ref.BaseName()]
}

// mask rewrites projections. Masked columns become value AS column; star
// projections expand when one of the tables they cover is masked.
func (p *Policy) mask(projections []nodes.Node, refs []plugins.TableRef) ([]nodes.Node, error) {
	out := make([]nodes.Node, 0, len(projections))
	for _, proj := range projections {
		switch n := proj.(type) {
		case *nodes.StarNode:
			expanded, err := p.expand(refs)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		case *nodes.AllColumns:
			ref := plugins.TableRef{Relation: n.Table, Name: n.Table.TableName()}
			expanded, err := p.expand([]plugins.TableRef{ref})
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		case *nodes.ColumnNode:
			out = append(out, p.maskColumn(n, n.Column.ColumnName()))
		case *nodes.AliasNode:
			if col, ok := n.Expr.(*nodes.ColumnNode); ok {
				if v, masked := p.masksFor(col.Column.ColumnTable())[col.Column.ColumnName()]; masked {
					out = append(out, nodes.NewAliasNode(nodes.Value(v), n.Name))
					continue
				}
			}
			out = append(out, n)
		default:
			out = append(out, proj)
		}
	}
	return out, nil
}

func (p *Policy) maskColumn(col *nodes.ColumnNode, name string) nodes.Node {
	if v, masked := p.masksFor(col.Column.ColumnTable())[name]; masked {
		return nodes.NewAliasNode(nodes.Value(v), name)
	}
	return col
}

// expand lists the columns of each table, masking as needed. Tables
// without masks keep a single alias.* projection.
func (p *Policy) expand(refs []plugins.TableRef) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, ref := range refs {
		if len(p.masksFor(ref.Relation)) == 0 {
			out = append(out, nodes.AllOf(ref.Relation))
			continue
		}
		names, err := p.columnNames(ref)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			out = append(out, p.maskColumn(column(ref.Relation, name), name))
		}
	}
	return out, nil
}

func (p *Policy) columnNames(ref plugins.TableRef) ([]string, error) {
	var cols []*dbspec.Column
	switch t := ref.Relation.(type) {
	case *dbspec.Table:
		cols = t.Columns
	case *dbspec.RejoinTable:
		cols = t.OriginalTable().Columns
	}
	if len(cols) > 0 {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		return names, nil
	}
	if p.resolve == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, ref.Name)
	}
	names, err := p.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("policy: resolve columns of %s: %w", ref.Name, err)
	}
	return names, nil
}

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
