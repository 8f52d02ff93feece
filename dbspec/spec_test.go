package dbspec

import (
	"testing"

	"github.com/bawdo/sqlbuild/internal/testutil"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/visitors"
)

type fixture struct {
	spec      *Spec
	schema1   *Schema
	def       *Schema
	table1    *Table
	defTable1 *Table
	defTable2 *Table
}

func newFixture() *fixture {
	f := &fixture{spec: NewSpec()}
	f.schema1 = f.spec.AddSchema("Schema1")
	f.def = f.spec.AddDefaultSchema()
	f.table1 = f.schema1.AddTable("Table1")
	f.table1.AddTypedColumn("col1", "VARCHAR", 213)
	f.table1.AddTypedColumn("col2", "NUMBER", 7)
	f.table1.AddTypedColumn("col3", "TIMESTAMP", 0)
	f.defTable1 = f.def.AddTable("Table1")
	f.defTable1.AddTypedColumn("col_id", "NUMBER", 0)
	f.defTable1.AddTypedColumn("col2", "VARCHAR", 64)
	f.defTable1.AddTypedColumn("col3", "DATE", 0)
	f.defTable2 = f.def.AddTable("Table2")
	f.defTable2.AddColumn("col_id")
	f.defTable2.AddColumn("col4")
	f.defTable2.AddColumn("col5")
	return f
}

func TestTableNamesAreQualifiedBySchema(t *testing.T) {
	t.Parallel()
	f := newFixture()
	testutil.AssertEqual(t, f.table1.TableName(), "Schema1.Table1")
	testutil.AssertEqual(t, f.defTable1.TableName(), "Table1")
	testutil.AssertEqual(t, f.spec.FindTable("Schema1", "Table1"), f.table1)
	testutil.AssertEqual(t, f.spec.FindTable("", "Table2"), f.defTable2)
	if f.spec.FindTable("Nope", "Table1") != nil {
		t.Error("expected unknown schema to find nothing")
	}
}

func TestColumnTypeSQL(t *testing.T) {
	t.Parallel()
	f := newFixture()
	tests := []struct {
		col  *Column
		want string
	}{
		{f.table1.Col("col1"), "VARCHAR(213)"},
		{f.table1.Col("col3"), "TIMESTAMP"},
		{f.defTable2.Col("col4"), ""},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, tt.col.TypeSQL(), tt.want)
	}
}

func TestColumnReferences(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.table1.Col("col2")
	testutil.AssertEqual(t, c.ColumnName(), "col2")
	testutil.AssertEqual(t, c.ColumnTable(), nodes.TableRef(f.table1))
	testutil.AssertPanics(t, "unknown column Schema1.Table1.nope", func() { f.table1.Col("nope") })
}

func TestColumnNodeRenders(t *testing.T) {
	t.Parallel()
	f := newFixture()
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), f.table1.Col("col1").Node().Eq("x"), "(t0.col1 = 'x')")
}

func TestJoinCondition(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.table1.AddColumn("col4")
	f.defTable1.AddColumn("altCol4")

	single := f.spec.AddJoinColumns("Schema1", "Table1", "", "Table1", []string{"col4"}, []string{"altCol4"})
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), single.Condition(), "(t0.col4 = t1.altCol4)")

	multi := f.spec.AddJoin("", "Table1", "", "Table2", "col_id")
	testutil.AssertEqual(t, len(f.spec.Joins), 2)
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), multi.Condition(), "(t0.col_id = t1.col_id)")

	f.defTable2.AddColumn("col2")
	pair := f.spec.AddJoin("", "Table1", "", "Table2", "col_id", "col2")
	testutil.AssertSQL(t, visitors.NewANSIVisitor(), pair.Condition(),
		"((t0.col_id = t1.col_id) AND (t0.col2 = t1.col2))")
}

func TestAddJoinPanicsOnUnknownTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	testutil.AssertPanics(t, "unknown table Schema1.Missing", func() {
		f.spec.AddJoin("Schema1", "Missing", "", "Table1", "col_id")
	})
	testutil.AssertPanics(t, "matching", func() {
		f.spec.AddJoinColumns("", "Table1", "", "Table2", []string{"col_id"}, nil)
	})
}

func TestIndexName(t *testing.T) {
	t.Parallel()
	f := newFixture()
	idx := f.schema1.AddIndex("Index1", "Table1", "col1", "col2")
	testutil.AssertEqual(t, idx.IndexName(), "Schema1.Index1")
	testutil.AssertEqual(t, len(idx.Columns), 2)
	testutil.AssertEqual(t, idx.Columns[1], f.table1.Col("col2"))
	testutil.AssertPanics(t, "unknown table", func() { f.schema1.AddIndex("I", "Nope") })
}

func TestFunctionNames(t *testing.T) {
	t.Parallel()
	f := newFixture()
	func1 := f.schema1.AddFunctionPackage("fpkg").AddFunction("func1")
	func2 := f.schema1.AddFunctionPackage("").AddFunction("Func2")
	func3 := f.def.AddDefaultFunctionPackage().AddFunction("func3")

	testutil.AssertEqual(t, func1.FunctionName(), "Schema1.fpkg.func1")
	testutil.AssertEqual(t, func2.FunctionName(), "Schema1.Func2")
	testutil.AssertEqual(t, func3.FunctionName(), "func3")

	v := visitors.NewANSIVisitor()
	testutil.AssertSQL(t, v, nodes.Call(func1), "Schema1.fpkg.func1()")
	testutil.AssertSQL(t, v, nodes.Call(func2, f.table1.Col("col1")).SetDistinct(true), "Schema1.Func2(DISTINCT t0.col1)")
}

func TestRejoinTable(t *testing.T) {
	t.Parallel()
	f := newFixture()
	r := NewRejoinTable(f.table1, "t5")

	testutil.AssertEqual(t, r.OriginalTable(), f.table1)
	testutil.AssertEqual(t, r.Columns[0].OriginalColumn(), f.table1.Col("col1"))
	testutil.AssertEqual(t, r.TableName(), "Schema1.Table1")
	testutil.AssertEqual(t, r.TableAlias(), "t5")
	testutil.AssertEqual(t, r.Col("col2").ColumnTable(), nodes.TableRef(r))
	testutil.AssertPanics(t, "alias", func() { NewRejoinTable(f.table1, "") })
	testutil.AssertPanics(t, "unknown column t5.nope", func() { r.Col("nope") })
}

func TestDescriptorColumnsAreFluent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	v := visitors.NewANSIVisitor()
	col := f.table1.Col("col2")

	testutil.AssertSQL(t, v, col.Eq(1), "(t0.col2 = 1)")
	testutil.AssertSQL(t, v, col.Between(1, 5), "(t0.col2 BETWEEN 1 AND 5)")
	testutil.AssertSQL(t, v, col.Plus(1), "(t0.col2 + 1)")
	testutil.AssertSQL(t, v, col.IsNull(), "(t0.col2 IS NULL)")

	r := NewRejoinTable(f.table1, "t5")
	testutil.AssertSQL(t, v, r.Col("col2").Gt(col), "(t5.col2 > t0.col2)")
}
