package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/managers"
	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
	"github.com/bawdo/sqlbuild/runner"
	"github.com/bawdo/sqlbuild/visitors"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' first)")

// dmlMode tracks which kind of statement the session is building.
type dmlMode int

const (
	modeSelect dmlMode = iota
	modeInsert
	modeUpdate
	modeDelete
)

// setOpEntry is a query pushed by a set operation command.
type setOpEntry struct {
	op    nodes.SetOpType
	query *managers.SelectManager
}

// Session holds the REPL state: registered tables, the statement under
// construction, the dialect and any enabled plugins.
type Session struct {
	tables   map[string]nodes.TableRef
	spec     *dbspec.Spec
	query    *managers.SelectManager
	setOps   []setOpEntry
	mode     dmlMode
	insert   *managers.InsertManager
	update   *managers.UpdateManager
	del      *managers.DeleteManager
	engine   string
	quote    bool
	plugins  pluginRegistry
	policy   *policyRules
	commands []commandEntry
	conn     *runner.DB
	logger   *slog.Logger
	out      io.Writer
}

// NewSession creates a session rendering for engine.
func NewSession(engine string, out io.Writer, logger *slog.Logger) *Session {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		tables: make(map[string]nodes.TableRef),
		engine: engine,
		logger: logger,
		out:    out,
	}
	s.initCommands()
	return s
}

// Close releases the database connection, if any.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, "  "+format+"\n", args...)
}

func (s *Session) visitor() nodes.Visitor {
	var opts []visitors.Option
	if s.quote {
		opts = append(opts, visitors.WithQuotedIdentifiers())
	}
	return visitors.ForDialect(s.engine, opts...)
}

// Execute parses and runs a single command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	lower := strings.ToLower(line)
	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", strings.Fields(line)[0])
}

// --- table registration ---

// ensureTable returns the registered table, registering an ad-hoc one
// when the name is new.
func (s *Session) ensureTable(name string) nodes.TableRef {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := nodes.NewTable(name)
	s.tables[name] = t
	return t
}

func (s *Session) registerSpec(spec *dbspec.Spec) int {
	s.spec = spec
	n := 0
	for _, sc := range spec.Schemas {
		for _, t := range sc.Tables {
			s.tables[t.TableName()] = t
			n++
		}
	}
	return n
}

func (s *Session) tableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) cmdTable(args string) error {
	if args == "" {
		return errors.New("usage: table <name>")
	}
	s.ensureTable(args)
	s.printf("Registered table %q", args)
	return nil
}

func (s *Session) cmdAlias(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: alias <table> <alias>")
	}
	var alias nodes.TableRef
	switch t := s.ensureTable(parts[0]).(type) {
	case *dbspec.Table:
		alias = dbspec.NewRejoinTable(t, parts[1])
	case *nodes.Table:
		alias = t.Alias(parts[1])
	default:
		return fmt.Errorf("cannot alias %q", parts[0])
	}
	s.tables[parts[1]] = alias
	s.printf("Aliased %q as %q", parts[0], parts[1])
	return nil
}

func (s *Session) cmdSchema(args string) error {
	if args == "" {
		return errors.New("usage: schema <file.yaml>")
	}
	spec, err := dbspec.LoadYAML(args)
	if err != nil {
		return err
	}
	n := s.registerSpec(spec)
	s.printf("Loaded %d tables from %s", n, args)
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 {
		s.printf("No tables registered")
		return nil
	}
	for _, name := range s.tableNames() {
		switch t := s.tables[name].(type) {
		case *dbspec.Table:
			cols := make([]string, len(t.Columns))
			for i, c := range t.Columns {
				cols[i] = c.Name
			}
			s.printf("table: %s (%s)", name, strings.Join(cols, ", "))
		case *dbspec.RejoinTable:
			s.printf("alias: %s -> %s", name, t.TableName())
		case *nodes.Table:
			if t.AliasName != "" {
				s.printf("alias: %s -> %s", name, t.TableName())
			} else {
				s.printf("table: %s", name)
			}
		}
	}
	return nil
}

// --- query building ---

func (s *Session) requireQuery() error {
	if s.mode != modeSelect {
		return errors.New("not building a SELECT (use 'reset' first)")
	}
	if s.query == nil {
		return errNoQuery
	}
	return nil
}

func (s *Session) cmdFrom(args string) error {
	if args == "" {
		return errors.New("usage: from <table>")
	}
	s.mode = modeSelect
	if s.query == nil {
		s.query = managers.NewSelectManager()
	}
	for _, name := range splitTopLevel(args) {
		s.query.From(s.ensureTable(name))
	}
	s.printf("FROM %s", args)
	return nil
}

func (s *Session) cmdSelect(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	for _, item := range splitTopLevel(args) {
		expr, alias := splitAlias(item)
		n, err := s.parseExpr(expr)
		if err != nil {
			return fmt.Errorf("select %q: %w", item, err)
		}
		if alias != "" {
			s.query.SelectAs(n, alias)
		} else {
			s.query.Select(n)
		}
	}
	s.printf("Projections: %d", len(s.query.Core.Projections))
	return nil
}

func (s *Session) cmdDistinct() error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	s.query.Distinct()
	s.printf("DISTINCT enabled")
	return nil
}

func (s *Session) cmdWhere(args string) error {
	cond, err := s.parseExpr(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	switch s.mode {
	case modeUpdate:
		s.update.Where(cond)
	case modeDelete:
		s.del.Where(cond)
	case modeInsert:
		return errors.New("INSERT has no WHERE clause")
	default:
		if s.query == nil {
			return errNoQuery
		}
		s.query.Where(cond)
	}
	s.printf("WHERE added")
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	for _, item := range splitTopLevel(args) {
		n, err := s.parseExpr(item)
		if err != nil {
			return fmt.Errorf("group: %w", err)
		}
		s.query.Group(n)
	}
	s.printf("GROUP BY set")
	return nil
}

func (s *Session) cmdHaving(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	cond, err := s.parseExpr(args)
	if err != nil {
		return fmt.Errorf("having: %w", err)
	}
	s.query.Having(cond)
	s.printf("HAVING added")
	return nil
}

// cmdOrder accepts "expr [asc|desc]" items and bare positions.
func (s *Session) cmdOrder(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	for _, item := range splitTopLevel(args) {
		desc := false
		lower := strings.ToLower(item)
		switch {
		case strings.HasSuffix(lower, " desc"):
			desc = true
			item = strings.TrimSpace(item[:len(item)-5])
		case strings.HasSuffix(lower, " asc"):
			item = strings.TrimSpace(item[:len(item)-4])
		}
		if pos, err := strconv.Atoi(item); err == nil {
			s.query.Core.Orders = append(s.query.Core.Orders, orderAt(pos, desc))
			continue
		}
		n, err := s.parseExpr(item)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		if desc {
			s.query.OrderDesc(n)
		} else {
			s.query.Order(n)
		}
	}
	s.printf("ORDER BY set")
	return nil
}

func orderAt(pos int, desc bool) *nodes.OrderingNode {
	o := nodes.OrderAt(pos)
	if desc {
		o.Direction = nodes.Desc
	}
	return o
}

func (s *Session) cmdLimit(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 0 {
		return fmt.Errorf("limit must be a non-negative integer, got %q", args)
	}
	s.query.Fetch(n)
	s.printf("FETCH FIRST %d ROWS", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 0 {
		return fmt.Errorf("offset must be a non-negative integer, got %q", args)
	}
	s.query.Offset(n)
	s.printf("OFFSET %d", n)
	return nil
}

func (s *Session) cmdLock(mode nodes.LockMode) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	if mode == nodes.ForShare {
		s.query.ForShare()
	} else {
		s.query.ForUpdate()
	}
	s.printf("%s set", mode)
	return nil
}

func (s *Session) cmdComment(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	s.query.Comment(args)
	s.printf("Comment set")
	return nil
}

// cmdJoin handles "<table> on <condition>" and a bare "<table>", which
// looks up a join descriptor of the loaded schema.
func (s *Session) cmdJoin(args string, jt nodes.JoinType) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	lower := strings.ToLower(args)
	onIdx := strings.Index(lower, " on ")
	if onIdx < 0 {
		return s.joinByDescriptor(strings.TrimSpace(args), jt)
	}

	name := strings.TrimSpace(args[:onIdx])
	to := s.ensureTable(name)
	cond, err := s.parseExpr(args[onIdx+4:])
	if err != nil {
		return fmt.Errorf("join condition: %w", err)
	}
	from := s.joinSource(nodes.Collect(cond).Tables, to)
	if from == nil {
		return errors.New("join needs a FROM table first")
	}
	s.query.Join(jt, from, to, cond)
	s.printf("%s %s added", jt, name)
	return nil
}

func (s *Session) joinByDescriptor(name string, jt nodes.JoinType) error {
	to, ok := s.tables[name].(*dbspec.Table)
	if !ok || s.spec == nil {
		return errors.New("expected: <table> on <condition>")
	}
	for _, j := range s.spec.Joins {
		if j.To == to && s.inQuery(j.From) {
			s.query.Joins(jt, j)
			s.printf("%s %s added from schema join", jt, name)
			return nil
		}
		if j.From == to && s.inQuery(j.To) {
			s.query.Join(jt, j.To, to, j.Condition())
			s.printf("%s %s added from schema join", jt, name)
			return nil
		}
	}
	return fmt.Errorf("no schema join leads to %s (use '... on <condition>')", name)
}

func (s *Session) inQuery(t nodes.TableRef) bool {
	for _, src := range s.query.Core.Sources {
		if nodes.ContainsTable(src, t) {
			return true
		}
	}
	return false
}

// joinSource picks the table a join hangs off: the first condition table
// already in the query, else the first FROM table.
func (s *Session) joinSource(candidates []nodes.TableRef, to nodes.TableRef) nodes.TableRef {
	for _, t := range candidates {
		if t != to && s.inQuery(t) {
			return t
		}
	}
	if len(s.query.Core.Sources) == 0 {
		return nil
	}
	if tables := nodes.SourceTables(s.query.Core.Sources[0]); len(tables) > 0 {
		return tables[0]
	}
	return nil
}

func (s *Session) cmdCrossJoin(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	if args == "" {
		return errors.New("usage: cross join <table>")
	}
	to := s.ensureTable(args)
	from := s.joinSource(nil, to)
	if from == nil {
		return errors.New("join needs a FROM table first")
	}
	s.query.CrossJoin(from, to)
	s.printf("CROSS JOIN %s added", args)
	return nil
}

func (s *Session) cmdSetOp(op nodes.SetOpType) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	s.setOps = append(s.setOps, setOpEntry{op: op, query: s.query})
	s.query = nil
	s.printf("%s: start the next query with 'from <table>'", op)
	return nil
}

func (s *Session) cmdReset() error {
	s.mode = modeSelect
	s.query = nil
	s.setOps = nil
	s.insert, s.update, s.del = nil, nil, nil
	s.printf("Query cleared")
	return nil
}

// --- rendering ---

// selectWithPlugins shares q's core with a manager that runs the enabled
// plugins.
func (s *Session) selectWithPlugins(q *managers.SelectManager) *managers.SelectManager {
	m := managers.NewSelectManager()
	m.Core = q.Core
	for _, t := range s.plugins.transformers() {
		m.Use(t)
	}
	return m
}

// setOperation chains the pushed queries and the current one left to
// right. Each branch has the plugins applied.
func (s *Session) setOperation() (*managers.SetOperationManager, error) {
	branch := func(q *managers.SelectManager) (nodes.Query, error) {
		core, err := plugins.ApplySelect(s.plugins.transformers(), q.Core.Clone())
		if err != nil {
			return nil, err
		}
		return core, nil
	}
	acc, err := branch(s.setOps[0].query)
	if err != nil {
		return nil, err
	}
	var result *managers.SetOperationManager
	for i, entry := range s.setOps {
		nextQuery := s.query
		if i+1 < len(s.setOps) {
			nextQuery = s.setOps[i+1].query
		}
		next, err := branch(nextQuery)
		if err != nil {
			return nil, err
		}
		result = managers.NewSetOperation(entry.op, acc, next)
		acc = result
	}
	return result, nil
}

// statement returns the statement under construction with plugins
// attached.
func (s *Session) statement() (runner.Statement, error) {
	ts := s.plugins.transformers()
	switch s.mode {
	case modeInsert:
		m := managers.NewInsertManager(s.insert.Statement.Into)
		m.Statement = s.insert.Statement
		for _, t := range ts {
			m.Use(t)
		}
		return m, nil
	case modeUpdate:
		m := managers.NewUpdateManager(s.update.Statement.Table)
		m.Statement = s.update.Statement
		for _, t := range ts {
			m.Use(t)
		}
		return m, nil
	case modeDelete:
		m := managers.NewDeleteManager(s.del.Statement.From)
		m.Statement = s.del.Statement
		for _, t := range ts {
			m.Use(t)
		}
		return m, nil
	}
	if s.query == nil {
		return nil, errNoQuery
	}
	if len(s.setOps) > 0 {
		return s.setOperation()
	}
	return s.selectWithPlugins(s.query), nil
}

// GenerateSQL renders the current statement.
func (s *Session) GenerateSQL() (string, error) {
	stmt, err := s.statement()
	if err != nil {
		return "", err
	}
	return stmt.ToSQL(s.visitor())
}

func (s *Session) cmdSQL() error {
	sql, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	s.printf("%s;", sql)
	return nil
}

type validator interface {
	Validate() error
}

func (s *Session) cmdValidate() error {
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	v, ok := stmt.(validator)
	if !ok {
		return errors.New("statement cannot be validated")
	}
	if err := v.Validate(); err != nil {
		return err
	}
	s.printf("Valid")
	return nil
}

// cmdDot writes the current SELECT as a Graphviz DOT file. Plugins are
// applied one at a time so their WHERE conditions can be clustered.
func (s *Session) cmdDot(args string) error {
	if args == "" {
		return errors.New("usage: dot <filepath>")
	}
	dv := visitors.NewDotVisitor()
	if s.mode == modeSelect && len(s.setOps) == 0 {
		if s.query == nil {
			return errNoQuery
		}
		core := s.query.Core.Clone()
		prov := visitors.NewPluginProvenance()
		for _, entry := range s.plugins.entries {
			before := len(core.Wheres)
			var err error
			if core, err = entry.factory().TransformSelect(core); err != nil {
				return err
			}
			for i := before; i < len(core.Wheres); i++ {
				prov.AddWhere(entry.name, entry.color, i)
			}
		}
		dv.SetProvenance(prov)
		core.Accept(dv)
	} else {
		stmt, err := s.statement()
		if err != nil {
			return err
		}
		if _, err := stmt.ToSQL(dv); err != nil {
			return err
		}
	}
	if err := os.WriteFile(args, []byte(dv.ToDot()), 0o600); err != nil {
		return fmt.Errorf("write DOT file: %w", err)
	}
	s.printf("Wrote DOT to %s", args)
	return nil
}

// --- DDL from the loaded schema ---

func (s *Session) describedTable(name string) (*dbspec.Table, error) {
	t, ok := s.tables[name].(*dbspec.Table)
	if !ok {
		return nil, fmt.Errorf("%q is not a described table (load one with 'schema <file>')", name)
	}
	return t, nil
}

func (s *Session) cmdCreateTable(args string) error {
	t, err := s.describedTable(args)
	if err != nil {
		return err
	}
	m := managers.NewCreateTableManager(t).AddAllColumns()
	if err := m.Validate(); err != nil {
		return err
	}
	sql, err := m.ToSQL(s.visitor())
	if err != nil {
		return err
	}
	s.printf("%s;", sql)
	return nil
}

func (s *Session) cmdDropTable(args string) error {
	t, err := s.describedTable(args)
	if err != nil {
		return err
	}
	sql, err := managers.DropTable(t).ToSQL(s.visitor())
	if err != nil {
		return err
	}
	s.printf("%s;", sql)
	return nil
}

// --- engine / connection ---

func (s *Session) cmdEngine(args string) error {
	engine := strings.ToLower(args)
	if !isValidEngine(engine) {
		return fmt.Errorf("unknown engine %q (postgres, mysql, sqlite)", args)
	}
	s.engine = engine
	s.printf("Engine: %s", engine)
	return nil
}

func (s *Session) cmdQuote(args string) error {
	switch strings.ToLower(args) {
	case "on", "":
		s.quote = true
	case "off":
		s.quote = false
	default:
		return errors.New("usage: quote [on|off]")
	}
	s.printf("Quoted identifiers: %t", s.quote)
	return nil
}

func (s *Session) cmdConnect(args string) error {
	if s.conn != nil {
		return errors.New("already connected (use 'disconnect' first)")
	}
	if args == "" {
		return errors.New("usage: connect <dsn>")
	}
	db, err := runner.Open(context.Background(), s.engine, args, runner.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.conn = db
	s.printf("Connected to %s (%s)", s.engine, runner.SanitizeDSN(args))
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	if err := s.Close(); err != nil {
		return err
	}
	s.printf("Disconnected")
	return nil
}

func (s *Session) requireConn() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	if s.conn.Engine() != s.engine {
		s.printf("Warning: connected to %s but engine is set to %s", s.conn.Engine(), s.engine)
	}
	return nil
}

func (s *Session) cmdExec() error {
	if err := s.requireConn(); err != nil {
		return err
	}
	stmt, err := s.statement()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if s.mode != modeSelect {
		res, err := s.conn.Exec(ctx, stmt, nil)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		s.printf("%d rows affected", n)
		return nil
	}
	rows, err := s.conn.Query(ctx, stmt, nil)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	out, err := runner.FormatRows(rows)
	if err != nil {
		return err
	}
	_, _ = io.WriteString(s.out, out)
	return nil
}

func (s *Session) cmdIntrospect(args string) error {
	if err := s.requireConn(); err != nil {
		return err
	}
	schema, err := s.conn.Introspect(context.Background(), args)
	if err != nil {
		return err
	}
	n := s.registerSpec(schema.Spec)
	s.printf("Introspected %d tables", n)
	return nil
}

func isValidEngine(engine string) bool {
	for _, e := range runner.Engines() {
		if e == engine {
			return true
		}
	}
	return false
}
