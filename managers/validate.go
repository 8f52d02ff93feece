package managers

import (
	"errors"
	"fmt"
	"math"

	"github.com/bawdo/sqlbuild/nodes"
)

// ErrValidation is wrapped by every error returned from Validate.
var ErrValidation = errors.New("sqlbuild: invalid statement")

// ValidationError reports the clause that failed validation.
type ValidationError struct {
	Clause  string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sqlbuild: invalid %s: %s", e.Clause, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(clause, format string, args ...any) error {
	return &ValidationError{Clause: clause, Message: fmt.Sprintf(format, args...)}
}

// tableSet holds the tables visible to a query level.
type tableSet map[nodes.TableRef]bool

func (s tableSet) with(tables ...nodes.TableRef) tableSet {
	out := make(tableSet, len(s)+len(tables))
	for t := range s {
		out[t] = true
	}
	for _, t := range tables {
		out[t] = true
	}
	return out
}

// checkRefs verifies that every collected table is visible and validates
// the nested queries against the same visibility.
func checkRefs(clause string, refs *nodes.References, visible tableSet) error {
	for _, t := range refs.Tables {
		if !visible[t] {
			return invalid(clause, "table %s is not a source of the statement", t.TableName())
		}
	}
	for _, c := range refs.Columns {
		if t := c.ColumnTable(); t != nil && !visible[t] {
			return invalid(clause, "column %s of table %s is not reachable", c.ColumnName(), t.TableName())
		}
	}
	for _, q := range refs.Subqueries {
		if err := validateQuery(q, visible); err != nil {
			return err
		}
	}
	return nil
}

// validateQuery validates a nested or top-level query node.
func validateQuery(q nodes.Node, outer tableSet) error {
	switch n := q.(type) {
	case *nodes.SelectCore:
		return validateSelect(n, outer)
	case *nodes.SetOperationNode:
		return validateSetOperation(n, outer)
	}
	return nil
}

func validateSelect(core *nodes.SelectCore, outer tableSet) error {
	if core.Arity() == 0 {
		return invalid("SELECT", "no projections")
	}
	sources := core.FromSources()
	if len(core.Sources) == 0 {
		// Derived sources never repeat tables of enclosing queries.
		var local []nodes.Node
		for _, src := range sources {
			if !outer[src.(*nodes.FromTable).Table] {
				local = append(local, src)
			}
		}
		sources = local
	}
	if len(sources) == 0 {
		return invalid("FROM", "no sources")
	}

	var declared []nodes.TableRef
	for _, src := range sources {
		declared = append(declared, nodes.SourceTables(src)...)
		if err := validateJoins(src, outer); err != nil {
			return err
		}
	}
	visible := outer.with(declared...)

	clauses := []struct {
		name  string
		nodes []nodes.Node
	}{
		{"SELECT", core.Projections},
		{"WHERE", core.Wheres},
		{"GROUP BY", core.Groups},
		{"HAVING", core.Havings},
	}
	for _, c := range clauses {
		if err := checkRefs(c.name, nodes.Collect(c.nodes...), visible); err != nil {
			return err
		}
	}
	return validateOrders(core, visible)
}

// validateJoins checks that every ON condition of a join chain only uses
// tables of that chain (or of enclosing queries).
func validateJoins(src nodes.Node, outer tableSet) error {
	j, ok := src.(*nodes.JoinNode)
	if !ok {
		return nil
	}
	if j.On == nil {
		return nil
	}
	chain := outer.with(nodes.SourceTables(src)...)
	if err := checkRefs("JOIN", nodes.Collect(j.On), chain); err != nil {
		return err
	}
	return validateJoins(j.Left, outer)
}

func validateOrders(core *nodes.SelectCore, visible tableSet) error {
	var projected map[nodes.ColumnRef]bool
	if core.Distinct {
		projected = make(map[nodes.ColumnRef]bool)
		for _, c := range nodes.Collect(core.Projections...).Columns {
			projected[c] = true
		}
	}
	for _, o := range core.Orders {
		if pos, ok := o.Position(); ok {
			if err := checkPosition(pos, core.Arity()); err != nil {
				return err
			}
			continue
		}
		refs := nodes.Collect(o)
		if err := checkRefs("ORDER BY", refs, visible); err != nil {
			return err
		}
		for _, c := range refs.Columns {
			if projected != nil && !projected[c] {
				return invalid("ORDER BY", "column %s must be selected when DISTINCT is set", c.ColumnName())
			}
		}
	}
	return nil
}

// checkPosition accepts integer positions in 1..arity.
func checkPosition(pos any, arity int) error {
	var n int64
	switch v := pos.(type) {
	case int:
		n = int64(v)
	case int8:
		n = int64(v)
	case int16:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case uint:
		if uint64(v) > math.MaxInt64 {
			return invalid("ORDER BY", "position %d is outside 1..%d", v, arity)
		}
		n = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return invalid("ORDER BY", "position %d is outside 1..%d", v, arity)
		}
		n = int64(v)
	case uint8:
		n = int64(v)
	case uint16:
		n = int64(v)
	case uint32:
		n = int64(v)
	default:
		return invalid("ORDER BY", "position %v is not an integer", pos)
	}
	if n < 1 || n > int64(arity) {
		return invalid("ORDER BY", "position %d is outside 1..%d", n, arity)
	}
	return nil
}

// queryArity returns the number of result columns of a query and whether
// it selects an unqualified *.
func queryArity(q nodes.Node) (int, bool) {
	switch n := q.(type) {
	case *nodes.SelectCore:
		return n.Arity(), n.SelectsAll()
	case *nodes.SetOperationNode:
		if first := n.FirstSelect(); first != nil {
			return first.Arity(), first.SelectsAll()
		}
	}
	return 0, false
}

func validateSetOperation(op *nodes.SetOperationNode, outer tableSet) error {
	if len(op.Queries) < 2 {
		return invalid(op.Type.String(), "needs at least two queries")
	}
	arity := -1
	star := false
	for i, q := range op.Queries {
		if core, ok := q.(*nodes.SelectCore); ok && len(core.Orders) > 0 {
			return invalid(op.Type.String(), "query %d has its own ORDER BY", i+1)
		}
		if err := validateQuery(q, outer); err != nil {
			return err
		}
		n, all := queryArity(q)
		star = star || all
		if arity < 0 {
			arity = n
		} else if n != arity && !star {
			return invalid(op.Type.String(), "query %d selects %d columns, expected %d", i+1, n, arity)
		}
	}

	first := op.FirstSelect()
	var projected map[nodes.ColumnRef]bool
	if first != nil {
		projected = make(map[nodes.ColumnRef]bool)
		for _, c := range nodes.Collect(first.Projections...).Columns {
			projected[c] = true
		}
	}
	for _, o := range op.Orders {
		if pos, ok := o.Position(); ok {
			if err := checkPosition(pos, arity); err != nil {
				return err
			}
			continue
		}
		for _, c := range nodes.Collect(o).Columns {
			if !projected[c] {
				return invalid("ORDER BY", "column %s is not selected by the first query", c.ColumnName())
			}
		}
	}
	return nil
}

// checkOwned verifies that every column belongs to owner.
func checkOwned(clause string, owner nodes.TableRef, ns ...nodes.Node) error {
	refs := nodes.Collect(ns...)
	for _, c := range refs.Columns {
		if c.ColumnTable() != owner {
			return invalid(clause, "column %s does not belong to %s", c.ColumnName(), owner.TableName())
		}
	}
	return nil
}
