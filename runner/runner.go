// Package runner executes rendered statements through database/sql. It
// picks the dialect visitor for the connected engine, binds placeholder
// values from a nodes.Binder and reads result columns by their
// nodes.ResultColumn position.
package runner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/visitors"
)

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// ErrUnknownEngine is returned by Open for engines without a driver.
var ErrUnknownEngine = errors.New("runner: unknown engine")

// Engines lists the supported engine names.
func Engines() []string { return []string{"postgres", "mysql", "sqlite"} }

// Statement is implemented by every statement builder.
type Statement interface {
	ToSQL(v nodes.Visitor) (string, error)
}

// DB is an open connection pool for one engine.
type DB struct {
	db         *sql.DB
	engine     string
	logger     *slog.Logger
	visitorOpt []visitors.Option
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) { d.logger = l }
}

// WithVisitorOptions passes options to the dialect visitor.
func WithVisitorOptions(opts ...visitors.Option) Option {
	return func(d *DB) { d.visitorOpt = append(d.visitorOpt, opts...) }
}

// Open connects to dsn with the driver registered for engine and pings
// the server.
func Open(ctx context.Context, engine, dsn string, opts ...Option) (*DB, error) {
	driver, ok := driverName[engine]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, engine)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if engine == "sqlite" {
		// An in-memory database exists once per connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &DB{db: db, engine: engine, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(d)
	}
	d.logger.Info("connected", "engine", engine, "dsn", SanitizeDSN(dsn))
	return d, nil
}

// Engine returns the engine name given to Open.
func (d *DB) Engine() string { return d.engine }

// SQL exposes the underlying pool.
func (d *DB) SQL() *sql.DB { return d.db }

// Close closes the pool.
func (d *DB) Close() error { return d.db.Close() }

// Visitor returns a fresh visitor for the engine's dialect.
func (d *DB) Visitor() nodes.Visitor {
	return visitors.ForDialect(d.engine, d.visitorOpt...)
}

// Render renders stmt in the engine's dialect.
func (d *DB) Render(stmt Statement) (string, error) {
	query, err := stmt.ToSQL(d.Visitor())
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return query, nil
}

// prepare renders stmt and collects the bound arguments of the same
// render pass.
func (d *DB) prepare(stmt Statement, b *nodes.Binder) (string, []any, error) {
	query, err := d.Render(stmt)
	if err != nil {
		return "", nil, err
	}
	var args []any
	if b != nil {
		if args, err = b.Args(); err != nil {
			return "", nil, fmt.Errorf("bind: %w", err)
		}
	}
	d.logger.Debug("statement", "sql", query, "args", len(args))
	return query, args, nil
}

// Exec runs a statement that returns no rows. b may be nil.
func (d *DB) Exec(ctx context.Context, stmt Statement, b *nodes.Binder) (sql.Result, error) {
	query, args, err := d.prepare(stmt, b)
	if err != nil {
		return nil, err
	}
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// ExecRaw runs SQL text directly.
func (d *DB) ExecRaw(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.logger.Debug("statement", "sql", query, "args", len(args))
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// Query runs a statement and returns its rows. b may be nil.
func (d *DB) Query(ctx context.Context, stmt Statement, b *nodes.Binder) (*Rows, error) {
	query, args, err := d.prepare(stmt, b)
	if err != nil {
		return nil, err
	}
	return d.query(ctx, query, args)
}

// QueryRaw runs SQL text directly.
func (d *DB) QueryRaw(ctx context.Context, query string, args ...any) (*Rows, error) {
	d.logger.Debug("statement", "sql", query, "args", len(args))
	return d.query(ctx, query, args)
}

func (d *DB) query(ctx context.Context, query string, args []any) (*Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("columns: %w", err)
	}
	return &Rows{rows: rows, columns: cols}, nil
}
