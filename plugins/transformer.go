// Package plugins defines the Transformer interface for AST middleware.
// Statement builders run their transformers on a clone of the statement
// just before rendering and validation, so the builder itself never sees
// plugin-added clauses.
package plugins

import (
	"fmt"

	"github.com/bawdo/sqlbuild/nodes"
)

// Transformer is the interface that AST transformation plugins implement.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error)
	TransformInsert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// Named is implemented by transformers that report a name for errors and
// for plugin clusters in DOT output.
type Named interface {
	Name() string
}

// BaseTransformer provides no-op defaults for all Transformer methods.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	return c, nil
}
func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}
func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}

// ApplySelect runs every transformer over core in order.
func ApplySelect(ts []Transformer, core *nodes.SelectCore) (*nodes.SelectCore, error) {
	return apply(ts, core, Transformer.TransformSelect)
}

// ApplyInsert runs every transformer over stmt in order.
func ApplyInsert(ts []Transformer, stmt *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return apply(ts, stmt, Transformer.TransformInsert)
}

// ApplyUpdate runs every transformer over stmt in order.
func ApplyUpdate(ts []Transformer, stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return apply(ts, stmt, Transformer.TransformUpdate)
}

// ApplyDelete runs every transformer over stmt in order.
func ApplyDelete(ts []Transformer, stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return apply(ts, stmt, Transformer.TransformDelete)
}

func apply[T any](ts []Transformer, v T, fn func(Transformer, T) (T, error)) (T, error) {
	for _, t := range ts {
		var err error
		if v, err = fn(t, v); err != nil {
			return v, fmt.Errorf("plugin %s: %w", nameOf(t), err)
		}
	}
	return v, nil
}

func nameOf(t Transformer) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}
