package dbspec

import "github.com/bawdo/sqlbuild/nodes"

// Descriptor columns carry the fluent predicate and arithmetic methods of
// nodes.ColumnNode, so users.Col("id").Eq(1) reads the same as it does for
// ad-hoc tables.

func (c *Column) Eq(val any) *nodes.ComparisonNode         { return c.Node().Eq(val) }
func (c *Column) NotEq(val any) *nodes.ComparisonNode      { return c.Node().NotEq(val) }
func (c *Column) Gt(val any) *nodes.ComparisonNode         { return c.Node().Gt(val) }
func (c *Column) GtEq(val any) *nodes.ComparisonNode       { return c.Node().GtEq(val) }
func (c *Column) Lt(val any) *nodes.ComparisonNode         { return c.Node().Lt(val) }
func (c *Column) LtEq(val any) *nodes.ComparisonNode       { return c.Node().LtEq(val) }
func (c *Column) Like(val any) *nodes.ComparisonNode       { return c.Node().Like(val) }
func (c *Column) NotLike(val any) *nodes.ComparisonNode    { return c.Node().NotLike(val) }
func (c *Column) In(vals ...any) *nodes.InNode             { return c.Node().In(vals...) }
func (c *Column) NotIn(vals ...any) *nodes.InNode          { return c.Node().NotIn(vals...) }
func (c *Column) Between(low, high any) *nodes.BetweenNode { return c.Node().Between(low, high) }
func (c *Column) IsNull() *nodes.UnaryNode                 { return c.Node().IsNull() }
func (c *Column) IsNotNull() *nodes.UnaryNode              { return c.Node().IsNotNull() }
func (c *Column) Asc() *nodes.OrderingNode                 { return c.Node().Asc() }
func (c *Column) Desc() *nodes.OrderingNode                { return c.Node().Desc() }
func (c *Column) As(name string) *nodes.AliasNode          { return c.Node().As(name) }
func (c *Column) Plus(val any) *nodes.ArithNode            { return c.Node().Plus(val) }
func (c *Column) Minus(val any) *nodes.ArithNode           { return c.Node().Minus(val) }
func (c *Column) Multiply(val any) *nodes.ArithNode        { return c.Node().Multiply(val) }
func (c *Column) Divide(val any) *nodes.ArithNode          { return c.Node().Divide(val) }
func (c *Column) Concat(val any) *nodes.ArithNode          { return c.Node().Concat(val) }

func (c *RejoinColumn) Eq(val any) *nodes.ComparisonNode         { return c.Node().Eq(val) }
func (c *RejoinColumn) NotEq(val any) *nodes.ComparisonNode      { return c.Node().NotEq(val) }
func (c *RejoinColumn) Gt(val any) *nodes.ComparisonNode         { return c.Node().Gt(val) }
func (c *RejoinColumn) GtEq(val any) *nodes.ComparisonNode       { return c.Node().GtEq(val) }
func (c *RejoinColumn) Lt(val any) *nodes.ComparisonNode         { return c.Node().Lt(val) }
func (c *RejoinColumn) LtEq(val any) *nodes.ComparisonNode       { return c.Node().LtEq(val) }
func (c *RejoinColumn) Like(val any) *nodes.ComparisonNode       { return c.Node().Like(val) }
func (c *RejoinColumn) NotLike(val any) *nodes.ComparisonNode    { return c.Node().NotLike(val) }
func (c *RejoinColumn) In(vals ...any) *nodes.InNode             { return c.Node().In(vals...) }
func (c *RejoinColumn) NotIn(vals ...any) *nodes.InNode          { return c.Node().NotIn(vals...) }
func (c *RejoinColumn) Between(low, high any) *nodes.BetweenNode { return c.Node().Between(low, high) }
func (c *RejoinColumn) IsNull() *nodes.UnaryNode                 { return c.Node().IsNull() }
func (c *RejoinColumn) IsNotNull() *nodes.UnaryNode              { return c.Node().IsNotNull() }
func (c *RejoinColumn) Asc() *nodes.OrderingNode                 { return c.Node().Asc() }
func (c *RejoinColumn) Desc() *nodes.OrderingNode                { return c.Node().Desc() }
func (c *RejoinColumn) As(name string) *nodes.AliasNode          { return c.Node().As(name) }
func (c *RejoinColumn) Plus(val any) *nodes.ArithNode            { return c.Node().Plus(val) }
func (c *RejoinColumn) Minus(val any) *nodes.ArithNode           { return c.Node().Minus(val) }
func (c *RejoinColumn) Multiply(val any) *nodes.ArithNode        { return c.Node().Multiply(val) }
func (c *RejoinColumn) Divide(val any) *nodes.ArithNode          { return c.Node().Divide(val) }
func (c *RejoinColumn) Concat(val any) *nodes.ArithNode          { return c.Node().Concat(val) }
