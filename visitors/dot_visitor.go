package visitors

import (
	"fmt"
	"strings"

	"github.com/bawdo/sqlbuild/nodes"
)

// Color constants for DOT node categories.
const (
	colorTable      = "#6CA6CD" // blue: tables, statements
	colorAttribute  = "#B0D4E8" // light blue: columns, stars
	colorComparison = "#FFB347" // orange: comparisons, predicates
	colorLogical    = "#FFEB80" // yellow: AND, OR, NOT
	colorLiteral    = "#D3D3D3" // grey: literals, placeholders
	colorJoin       = "#77DD77" // green: joins
	colorOrdering   = "#CDA0E0" // purple: ordering
	colorAssignment = "#FF6961" // red: DML and DDL
	colorArithmetic = "#98FB98" // mint green: arithmetic
	colorFunction   = "#87CEEB" // sky blue: functions, CASE
)

// dotNode represents a single node in the DOT graph.
type dotNode struct {
	id    string
	label string
	color string
}

// dotEdge represents a directed edge between two nodes in the DOT graph.
type dotEdge struct {
	from  string
	to    string
	label string
}

// pluginCluster groups nodes added by a plugin into a DOT subgraph cluster.
type pluginCluster struct {
	name    string
	color   string
	nodeIDs []string
}

// PluginProvenance tracks which WHERE indices were added by which plugins.
type PluginProvenance struct {
	entries []provenanceEntry
}

type provenanceEntry struct {
	plugin string
	color  string
	index  int
}

// NewPluginProvenance creates a new PluginProvenance tracker.
func NewPluginProvenance() *PluginProvenance {
	return &PluginProvenance{}
}

// AddWhere marks a WHERE clause index as belonging to a plugin.
func (pp *PluginProvenance) AddWhere(plugin, color string, index int) {
	pp.entries = append(pp.entries, provenanceEntry{plugin: plugin, color: color, index: index})
}

func (pp *PluginProvenance) pluginForWhere(index int) (string, string, bool) {
	for _, e := range pp.entries {
		if e.index == index {
			return e.plugin, e.color, true
		}
	}
	return "", "", false
}

// DotVisitor walks the AST and produces Graphviz DOT output.
// It implements nodes.Visitor.
type DotVisitor struct {
	nextID     int
	nodes      []dotNode
	edges      []dotEdge
	clusters   []pluginCluster
	parentID   string
	edgeLabel  string
	provenance *PluginProvenance
}

var _ nodes.Visitor = (*DotVisitor)(nil)

// NewDotVisitor creates a new DotVisitor ready to walk an AST.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{}
}

// SetProvenance configures plugin provenance tracking for clause attribution.
func (dv *DotVisitor) SetProvenance(p *PluginProvenance) {
	dv.provenance = p
}

// addNode creates a new DOT node with the given label and color, returning its ID.
func (dv *DotVisitor) addNode(label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	return id
}

// addEdge records a directed edge from one node to another.
func (dv *DotVisitor) addEdge(from, to, label string) {
	dv.edges = append(dv.edges, dotEdge{from: from, to: to, label: label})
}

// visitChild saves and restores the parent context, sets the edge label,
// and calls child.Accept to recursively visit the child node.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Node) string {
	if child == nil {
		return ""
	}
	savedParent := dv.parentID
	savedLabel := dv.edgeLabel
	dv.parentID = parentID
	dv.edgeLabel = label
	result := child.Accept(dv)
	dv.parentID = savedParent
	dv.edgeLabel = savedLabel
	return result
}

// visitChildList visits a slice of nodes as indexed children (e.g. "SELECT[0]", "SELECT[1]").
func (dv *DotVisitor) visitChildList(parentID, prefix string, items []nodes.Node) {
	for i, item := range items {
		dv.visitChild(parentID, fmt.Sprintf("%s[%d]", prefix, i), item)
	}
}

// connectToParent adds an edge from the current parentID to nodeID if a parent exists.
func (dv *DotVisitor) connectToParent(nodeID string) {
	if dv.parentID != "" {
		dv.addEdge(dv.parentID, nodeID, dv.edgeLabel)
	}
}

// leaf adds a childless node connected to the current parent.
func (dv *DotVisitor) leaf(label, color string) string {
	id := dv.addNode(label, color)
	dv.connectToParent(id)
	return id
}

// AddPluginCluster registers a plugin cluster for grouped rendering in the DOT output.
func (dv *DotVisitor) AddPluginCluster(name, color string, nodeIDs []string) {
	if len(nodeIDs) > 0 {
		dv.clusters = append(dv.clusters, pluginCluster{name: name, color: color, nodeIDs: nodeIDs})
	}
}

// NodeCount returns the number of nodes accumulated so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// NodeIDsSince returns the IDs of nodes added since (and including) the given index.
func (dv *DotVisitor) NodeIDsSince(start int) []string {
	if start >= len(dv.nodes) {
		return nil
	}
	ids := make([]string, len(dv.nodes)-start)
	for i := start; i < len(dv.nodes); i++ {
		ids[i-start] = dv.nodes[i].id
	}
	return ids
}

// visitWheres visits WHERE conditions, grouping the nodes of plugin-added
// conditions into clusters.
func (dv *DotVisitor) visitWheres(parentID string, wheres []nodes.Node) {
	type group struct {
		color string
		ids   []string
	}
	groups := make(map[string]*group)
	var order []string
	for i, w := range wheres {
		snapshot := dv.NodeCount()
		dv.visitChild(parentID, fmt.Sprintf("WHERE[%d]", i), w)
		if dv.provenance == nil {
			continue
		}
		if plugin, color, ok := dv.provenance.pluginForWhere(i); ok {
			g, exists := groups[plugin]
			if !exists {
				g = &group{color: color}
				groups[plugin] = g
				order = append(order, plugin)
			}
			g.ids = append(g.ids, dv.NodeIDsSince(snapshot)...)
		}
	}
	for _, name := range order {
		dv.AddPluginCluster(name, groups[name].color, groups[name].ids)
	}
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph AST {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	clustered := make(map[string]bool)
	for _, c := range dv.clusters {
		for _, id := range c.nodeIDs {
			clustered[id] = true
		}
	}

	for _, n := range dv.nodes {
		if !clustered[n.id] {
			fmt.Fprintf(&sb, "  %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
		}
	}

	for i, c := range dv.clusters {
		fmt.Fprintf(&sb, "  subgraph cluster_%d_%s {\n", i, c.name)
		fmt.Fprintf(&sb, "    label=\"%s\";\n", c.name)
		sb.WriteString("    style=dashed;\n")
		fmt.Fprintf(&sb, "    color=\"%s\";\n", c.color)
		sb.WriteString("    fontname=\"Helvetica\";\n")
		for _, id := range c.nodeIDs {
			for _, n := range dv.nodes {
				if n.id == id {
					fmt.Fprintf(&sb, "    %s [label=\"%s\", fillcolor=\"%s\"];\n", n.id, escapeLabel(n.label), n.color)
					break
				}
			}
		}
		sb.WriteString("  }\n")
	}

	for _, e := range dv.edges {
		if e.label != "" {
			fmt.Fprintf(&sb, "  %s -> %s [label=\"%s\"];\n", e.from, e.to, e.label)
		} else {
			fmt.Fprintf(&sb, "  %s -> %s;\n", e.from, e.to)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeLabel escapes double quotes in DOT labels.
// Backslash sequences like \n are intentional DOT line breaks and are preserved.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// --- Visitor interface implementation ---

func (dv *DotVisitor) VisitFromTable(n *nodes.FromTable) string {
	label := "Table\\n" + n.Table.TableName()
	if a := n.Table.TableAlias(); a != "" {
		label += " " + a
	}
	return dv.leaf(label, colorTable)
}

func (dv *DotVisitor) VisitColumn(n *nodes.ColumnNode) string {
	label := "Column\\n"
	if t := n.Column.ColumnTable(); t != nil {
		label += t.TableName() + "."
	}
	return dv.leaf(label+n.Column.ColumnName(), colorAttribute)
}

func (dv *DotVisitor) VisitAllColumns(n *nodes.AllColumns) string {
	return dv.leaf("Star\\n"+n.Table.TableName()+".*", colorAttribute)
}

func (dv *DotVisitor) VisitStar(_ *nodes.StarNode) string {
	return dv.leaf("Star\\n*", colorAttribute)
}

func (dv *DotVisitor) VisitNull(_ *nodes.NullNode) string {
	return dv.leaf("NULL", colorLiteral)
}

func (dv *DotVisitor) VisitLiteral(n *nodes.LiteralNode) string {
	return dv.leaf(fmt.Sprintf("Literal\\n%v", n.Value), colorLiteral)
}

func (dv *DotVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) string {
	return dv.leaf("SqlLiteral\\n"+n.Raw, colorLiteral)
}

func (dv *DotVisitor) VisitCustom(n *nodes.CustomNode) string {
	return dv.leaf("Custom\\n"+n.Raw, colorLiteral)
}

func (dv *DotVisitor) VisitComment(n *nodes.CommentNode) string {
	return dv.leaf("Comment\\n"+n.Text, colorLiteral)
}

func (dv *DotVisitor) VisitAlias(n *nodes.AliasNode) string {
	id := dv.leaf("Alias\\n"+n.Name, colorAttribute)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	label := comparisonOpSQL[n.Op]
	if n.Escape != 0 {
		label += "\\nESCAPE " + string(n.Escape)
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	return id
}

func (dv *DotVisitor) VisitBetween(n *nodes.BetweenNode) string {
	label := "BETWEEN"
	if n.Negate {
		label = "NOT BETWEEN"
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	dv.visitChild(id, "LOW", n.Low)
	dv.visitChild(id, "HIGH", n.High)
	return id
}

func (dv *DotVisitor) VisitUnary(n *nodes.UnaryNode) string {
	id := dv.leaf(unaryOpSQL[n.Op], colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitNot(n *nodes.NotNode) string {
	id := dv.leaf("NOT", colorLogical)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitCombo(n *nodes.ComboNode) string {
	id := dv.leaf(strings.TrimSpace(comboOpSQL[n.Op]), colorLogical)
	dv.visitChildList(id, "COND", n.Children)
	return id
}

func (dv *DotVisitor) VisitIn(n *nodes.InNode) string {
	label := "IN"
	if n.Negate {
		label = "NOT IN"
	}
	id := dv.leaf(label, colorComparison)
	dv.visitChild(id, "EXPR", n.Expr)
	dv.visitChildList(id, "VAL", n.Vals)
	return id
}

func (dv *DotVisitor) VisitArith(n *nodes.ArithNode) string {
	id := dv.leaf(strings.TrimSpace(arithOpSQL[n.Op]), colorArithmetic)
	dv.visitChildList(id, "OPERAND", n.Children)
	return id
}

func (dv *DotVisitor) VisitNegate(n *nodes.NegateNode) string {
	id := dv.leaf("-", colorArithmetic)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitCase(n *nodes.CaseNode) string {
	id := dv.leaf("CASE", colorFunction)
	dv.visitChild(id, "OPERAND", n.Operand)
	for i, w := range n.Whens {
		dv.visitChild(id, fmt.Sprintf("WHEN[%d]", i), w.Condition)
		dv.visitChild(id, fmt.Sprintf("THEN[%d]", i), w.Result)
	}
	dv.visitChild(id, "ELSE", n.ElseVal)
	return id
}

func (dv *DotVisitor) VisitFunction(n *nodes.FunctionNode) string {
	label := "Function\\n" + n.QualifiedName()
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	if n.Star {
		label += "\\n*"
	}
	id := dv.leaf(label, colorFunction)
	dv.visitChildList(id, "ARG", n.Args)
	return id
}

func (dv *DotVisitor) VisitSubquery(n *nodes.Subquery) string {
	id := dv.leaf("Subquery", colorTable)
	dv.visitChild(id, "QUERY", n.Query)
	return id
}

func (dv *DotVisitor) VisitPlaceHolder(_ *nodes.PlaceHolder) string {
	return dv.leaf("PlaceHolder\\n?", colorLiteral)
}

func (dv *DotVisitor) VisitMultiPlaceHolder(_ *nodes.MultiPlaceHolder) string {
	return dv.leaf("MultiPlaceHolder\\n?", colorLiteral)
}

func (dv *DotVisitor) VisitResultColumn(n *nodes.ResultColumn) string {
	id := dv.leaf("ResultColumn", colorAttribute)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	dir := ""
	switch n.Direction {
	case nodes.Asc:
		dir = "\\nASC"
	case nodes.Desc:
		dir = "\\nDESC"
	}
	switch n.Nulls {
	case nodes.NullsFirst:
		dir += "\\nNULLS FIRST"
	case nodes.NullsLast:
		dir += "\\nNULLS LAST"
	}
	id := dv.leaf("Order"+dir, colorOrdering)
	dv.visitChild(id, "EXPR", n.Expr)
	return id
}

func (dv *DotVisitor) VisitJoin(n *nodes.JoinNode) string {
	id := dv.leaf(n.Type.String(), colorJoin)
	dv.visitChild(id, "LEFT", n.Left)
	dv.visitChild(id, "RIGHT", n.Right)
	dv.visitChild(id, "ON", n.On)
	return id
}

func (dv *DotVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	label := "SelectCore"
	if n.Distinct {
		label += "\\nDISTINCT"
	}
	id := dv.leaf(label, colorTable)

	dv.visitChildList(id, "FROM", n.FromSources())
	dv.visitChildList(id, "SELECT", n.Projections)
	dv.visitWheres(id, n.Wheres)
	dv.visitChildList(id, "GROUP", n.Groups)
	dv.visitChildList(id, "HAVING", n.Havings)
	for i, o := range n.Orders {
		dv.visitChild(id, fmt.Sprintf("ORDER[%d]", i), o)
	}
	dv.visitChild(id, "OFFSET", n.Offset)
	dv.visitChild(id, "FETCH", n.Fetch)
	if n.Lock != nodes.NoLock {
		lockID := dv.addNode(n.Lock.String(), colorLogical)
		dv.addEdge(id, lockID, "LOCK")
	}
	if n.Comment != "" {
		commentID := dv.addNode("Comment\\n"+n.Comment, colorLiteral)
		dv.addEdge(id, commentID, "COMMENT")
	}
	return id
}

func (dv *DotVisitor) VisitSetOperation(n *nodes.SetOperationNode) string {
	id := dv.leaf(n.Type.String(), colorLogical)
	dv.visitChildList(id, "QUERY", n.Queries)
	for i, o := range n.Orders {
		dv.visitChild(id, fmt.Sprintf("ORDER[%d]", i), o)
	}
	return id
}

// tableNode adds a table leaf under parentID.
func (dv *DotVisitor) tableNode(parentID, label string, t nodes.TableRef) {
	if t != nil {
		dv.visitChild(parentID, label, &nodes.FromTable{Table: t})
	}
}

func (dv *DotVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	id := dv.leaf("InsertStatement", colorAssignment)
	dv.tableNode(id, "INTO", n.Into)
	dv.visitChildList(id, "COLUMN", n.Columns)
	dv.visitChildList(id, "VALUE", n.Values)
	dv.visitChild(id, "SELECT", n.Select)
	return id
}

func (dv *DotVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	id := dv.leaf("UpdateStatement", colorAssignment)
	dv.tableNode(id, "TABLE", n.Table)
	for i, a := range n.Assignments {
		dv.visitChild(id, fmt.Sprintf("SET[%d]", i), a)
	}
	dv.visitWheres(id, n.Wheres)
	return id
}

func (dv *DotVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	id := dv.leaf("DeleteStatement", colorAssignment)
	dv.tableNode(id, "FROM", n.From)
	dv.visitWheres(id, n.Wheres)
	return id
}

func (dv *DotVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	id := dv.leaf("=", colorAssignment)
	dv.visitChild(id, "COLUMN", n.Left)
	dv.visitChild(id, "VALUE", n.Right)
	return id
}

func (dv *DotVisitor) VisitCreateTable(n *nodes.CreateTableStatement) string {
	id := dv.leaf("CreateTable", colorAssignment)
	dv.tableNode(id, "TABLE", n.Table)
	for i, c := range n.Columns {
		dv.visitChild(id, fmt.Sprintf("COLUMN[%d]", i), c)
	}
	for i, c := range n.Constraints {
		dv.visitChild(id, fmt.Sprintf("CONSTRAINT[%d]", i), c)
	}
	return id
}

func (dv *DotVisitor) VisitColumnDef(n *nodes.ColumnDefNode) string {
	label := "ColumnDef\\n" + n.Column.ColumnName()
	if n.Type != "" {
		label += " " + n.Type
	}
	for _, c := range n.Constraints {
		label += "\\n" + c.String()
	}
	id := dv.leaf(label, colorAssignment)
	dv.visitChild(id, "DEFAULT", n.Default)
	return id
}

func (dv *DotVisitor) VisitConstraint(n *nodes.ConstraintNode) string {
	label := n.Type.String()
	if n.Name != "" {
		label += "\\n" + n.Name
	}
	id := dv.leaf(label, colorAssignment)
	dv.visitChildList(id, "COLUMN", n.Columns)
	dv.tableNode(id, "REFERENCES", n.RefTable)
	dv.visitChildList(id, "REF", n.RefColumns)
	return id
}

func (dv *DotVisitor) VisitDrop(n *nodes.DropStatement) string {
	return dv.leaf("DROP "+n.Kind.String()+"\\n"+n.Name, colorAssignment)
}

func (dv *DotVisitor) VisitAlterTable(n *nodes.AlterTableStatement) string {
	id := dv.leaf("AlterTable", colorAssignment)
	dv.tableNode(id, "TABLE", n.Table)
	if n.Constraint != nil {
		dv.visitChild(id, "ADD", n.Constraint)
	}
	if n.Column != nil {
		dv.visitChild(id, "ADD COLUMN", n.Column)
	}
	dv.visitChild(id, "DROP COLUMN", n.Dropped)
	return id
}

func (dv *DotVisitor) VisitCreateIndex(n *nodes.CreateIndexStatement) string {
	label := "CreateIndex\\n" + n.Name
	if n.Unique {
		label += "\\nUNIQUE"
	}
	id := dv.leaf(label, colorAssignment)
	dv.tableNode(id, "TABLE", n.Table)
	dv.visitChildList(id, "COLUMN", n.Columns)
	return id
}

func (dv *DotVisitor) VisitGrant(n *nodes.GrantStatement) string {
	label := "Grant"
	if n.Revoke {
		label = "Revoke"
	}
	if len(n.Grantees) > 0 {
		label += "\\n" + strings.Join(n.Grantees, ",")
	}
	id := dv.leaf(label, colorAssignment)
	for i, p := range n.Privileges {
		privID := dv.addNode(p.Type.String(), colorLogical)
		dv.addEdge(id, privID, fmt.Sprintf("PRIVILEGE[%d]", i))
		dv.visitChildList(privID, "COLUMN", p.Columns)
	}
	if n.Target != nil {
		if n.Target.Table != nil {
			dv.tableNode(id, "ON", n.Target.Table)
		} else {
			targetID := dv.addNode(n.Target.Kind.String()+"\\n"+n.Target.Name, colorTable)
			dv.addEdge(id, targetID, "ON")
		}
	}
	return id
}
