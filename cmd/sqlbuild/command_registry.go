package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/sqlbuild/nodes"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer completionContext // contextNone = no arg completion
	hidden    bool              // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- display ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(_ string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "validate", handler: func(_ string) error { return s.cmdValidate() }},
		{prefix: "dot ", handler: func(a string) error { return s.cmdDot(a) }},
		{prefix: "dot", handler: func(_ string) error { return errors.New("usage: dot <filepath>") }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- distinct / locking / comment ---
		{prefix: "distinct", handler: func(_ string) error { return s.cmdDistinct() }},
		{prefix: "for update", handler: func(_ string) error { return s.cmdLock(nodes.ForUpdate) }},
		{prefix: "for share", handler: func(_ string) error { return s.cmdLock(nodes.ForShare) }},
		{prefix: "comment ", handler: func(a string) error { return s.cmdComment(a) }},

		// --- table registration ---
		{prefix: "table ", handler: func(a string) error { return s.cmdTable(a) }},
		{prefix: "alias ", handler: func(a string) error { return s.cmdAlias(a) }, completer: contextTableName},
		{prefix: "schema ", handler: func(a string) error { return s.cmdSchema(a) }},
		{prefix: "create table ", handler: func(a string) error { return s.cmdCreateTable(a) }, completer: contextTableName},
		{prefix: "drop table ", handler: func(a string) error { return s.cmdDropTable(a) }, completer: contextTableName},

		// --- query building ---
		{prefix: "from ", handler: func(a string) error { return s.cmdFrom(a) }, completer: contextTableName},
		{prefix: "select ", handler: func(a string) error { return s.cmdSelect(a) }, completer: contextColumnRef},
		{prefix: "group ", handler: func(a string) error { return s.cmdGroup(a) }, completer: contextColumnRef},
		{prefix: "having ", handler: func(a string) error { return s.cmdHaving(a) }, completer: contextColumnRef},
		{prefix: "order ", handler: func(a string) error { return s.cmdOrder(a) }, completer: contextColumnRef},
		{prefix: "limit ", handler: func(a string) error { return s.cmdLimit(a) }},
		{prefix: "fetch ", handler: func(a string) error { return s.cmdLimit(a) }, hidden: true},
		{prefix: "offset ", handler: func(a string) error { return s.cmdOffset(a) }},
		{prefix: "where ", handler: func(a string) error { return s.cmdWhere(a) }, completer: contextColumnRef},

		// --- joins ---
		{prefix: "right join ", handler: func(a string) error { return s.cmdJoin(a, nodes.RightOuterJoin) }, completer: contextTableName},
		{prefix: "cross join ", handler: func(a string) error { return s.cmdCrossJoin(a) }, completer: contextTableName},
		{prefix: "left join ", handler: func(a string) error { return s.cmdJoin(a, nodes.LeftOuterJoin) }, completer: contextTableName},
		{prefix: "full join ", handler: func(a string) error { return s.cmdJoin(a, nodes.FullOuterJoin) }, completer: contextTableName},
		{prefix: "join ", handler: func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }, completer: contextTableName},

		// --- set operations ---
		{prefix: "union all", handler: func(_ string) error { return s.cmdSetOp(nodes.UnionAll) }},
		{prefix: "intersect all", handler: func(_ string) error { return s.cmdSetOp(nodes.IntersectAll) }},
		{prefix: "except all", handler: func(_ string) error { return s.cmdSetOp(nodes.ExceptAll) }},
		{prefix: "union", handler: func(_ string) error { return s.cmdSetOp(nodes.Union) }},
		{prefix: "intersect", handler: func(_ string) error { return s.cmdSetOp(nodes.Intersect) }},
		{prefix: "except", handler: func(_ string) error { return s.cmdSetOp(nodes.Except) }},

		// --- DML builders ---
		{prefix: "insert into ", handler: func(a string) error { return s.cmdInsertInto(a) }, completer: contextTableName},
		{prefix: "delete from ", handler: func(a string) error { return s.cmdDeleteFrom(a) }, completer: contextTableName},
		{prefix: "columns ", handler: func(a string) error { return s.cmdColumns(a) }, completer: contextColumnRef},
		{prefix: "values ", handler: func(a string) error { return s.cmdValues(a) }},
		{prefix: "update ", handler: func(a string) error { return s.cmdUpdate(a) }, completer: contextTableName},
		{prefix: "set ", handler: func(a string) error { return s.cmdSet(a) }, completer: contextColumnRef},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }, hidden: true},
		{prefix: "introspect ", handler: func(a string) error { return s.cmdIntrospect(a) }},
		{prefix: "introspect", handler: func(_ string) error { return s.cmdIntrospect("") }},

		// --- engine / plugins ---
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: contextEngine},
		{prefix: "quote ", handler: func(a string) error { return s.cmdQuote(a) }},
		{prefix: "quote", handler: func(_ string) error { return s.cmdQuote("") }},
		{prefix: "plugin ", handler: func(a string) error { return s.cmdPlugin(a) }, completer: contextPlugin},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames returns the visible command prefixes without trailing
// spaces, deduplicated and sorted.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range s.commands {
		if c.hidden {
			continue
		}
		name := strings.TrimSpace(c.prefix)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Tables:
    table <name>              Register an ad-hoc table
    alias <table> <alias>     Register an aliased copy of a table
    schema <file.yaml>        Load described tables and joins
    tables                    List registered tables
    create table <name>       Print CREATE TABLE for a described table
    drop table <name>         Print DROP TABLE for a described table

  Query Building:
    from <t1>[, <t2>]         Start a query (sets FROM)
    select <expr> [as <a>],.. Add projections (table.col, *, table.*, f(x))
    distinct                  Enable DISTINCT
    where <condition>         Add a WHERE condition (any statement)
    group <expr>,...          Add GROUP BY
    having <condition>        Add a HAVING condition
    order <expr|n> [asc|desc] Add ORDER BY
    limit <n>                 Set FETCH FIRST n ROWS ONLY
    offset <n>                Set OFFSET
    for update | for share    Set the row lock
    comment <text>            Add a trailing SQL comment

  Joins:
    join <table> on <cond>    INNER JOIN (omit ON to use a schema join)
    left join <table> on ...  LEFT OUTER JOIN
    right join <table> on ... RIGHT OUTER JOIN
    full join <table> on ...  FULL OUTER JOIN
    cross join <table>        CROSS JOIN

  Set Operations:
    union | union all | intersect | intersect all | except | except all
                              Push the current query; start the next with from

  DML:
    insert into <table>       Start an INSERT
    columns <c1>, <c2>        Set the INSERT column list
    values <v1>, <v2>         Set the row of values
    update <table>            Start an UPDATE
    set <col> = <expr>        Add an assignment (repeatable)
    delete from <table>       Start a DELETE

  Output:
    sql                       Print the SQL for the current statement
    validate                  Check the statement for missing parts
    dot <file>                Write the SELECT tree as Graphviz DOT
    reset                     Discard the current statement

  Engine and Database:
    engine <name>             Set dialect: postgres, mysql, sqlite
    quote [on|off]            Quote identifiers
    connect <dsn>             Connect using the current engine
    disconnect                Close the connection
    exec                      Run the current statement and print results
    introspect [schema]       Register the tables of a live schema

  Plugins:
    plugin softdelete [col] [on t1 t2 ...]
    plugin softdelete t1.col, t2.col
    plugin policy where <cond>        Restrict rows of the tables in cond
    plugin policy deny <table>        Reject statements reading table
    plugin policy mask <t.col> [v]    Project v in place of t.col
    plugin off [name]         Disable one or all plugins
    plugins                   List enabled plugins

    help                      Show this help
    exit | quit               Leave the REPL`)
}
