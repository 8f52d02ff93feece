package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/internal/quoting"
)

type columnInfo struct {
	name     string
	typ      string
	notNull  bool
	primary  bool
	defaults *string
}

// Introspect reads the tables and columns of a live schema into a new
// dbspec.Spec. An empty schemaName means the connection's default schema
// (public, DATABASE() or main) and yields an unnamed schema whose tables
// render unqualified.
func (d *DB) Introspect(ctx context.Context, schemaName string) (*dbspec.Schema, error) {
	tables, err := d.Tables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}

	spec := dbspec.NewSpec()
	schema := spec.AddSchema(schemaName)
	for _, name := range tables {
		cols, err := d.columns(ctx, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("introspect %s: %w", name, err)
		}
		t := schema.AddTable(name)
		for _, ci := range cols {
			typ, size := splitType(ci.typ)
			c := t.AddTypedColumn(ci.name, typ, size)
			c.NotNull = ci.notNull && !ci.primary
			c.PrimaryKey = ci.primary
			if ci.defaults != nil {
				c.Default = *ci.defaults
			}
		}
	}
	d.logger.Debug("introspected", "schema", schemaName, "tables", len(tables))
	return schema, nil
}

// Tables lists the base tables of a schema in name order.
func (d *DB) Tables(ctx context.Context, schemaName string) ([]string, error) {
	var query string
	switch d.engine {
	case "postgres":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = COALESCE(NULLIF($1, ''), 'public') AND table_type = 'BASE TABLE' ORDER BY table_name"
	case "mysql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_type = 'BASE TABLE' ORDER BY table_name"
	case "sqlite":
		query = "SELECT name FROM " + quoting.DoubleQuote(sqliteSchema(schemaName)) + ".sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
		return d.stringColumn(ctx, query)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, d.engine)
	}
	return d.stringColumn(ctx, query, schemaName)
}

func (d *DB) columns(ctx context.Context, schemaName, table string) ([]columnInfo, error) {
	var (
		query string
		args  []any
	)
	switch d.engine {
	case "postgres":
		query = `SELECT c.column_name,
       CASE WHEN c.character_maximum_length IS NULL THEN upper(c.data_type)
            ELSE upper(c.data_type) || '(' || c.character_maximum_length || ')' END,
       c.is_nullable = 'NO',
       EXISTS (SELECT 1 FROM information_schema.table_constraints tc
               JOIN information_schema.key_column_usage k
                 ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema
               WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = c.table_schema
                 AND tc.table_name = c.table_name AND k.column_name = c.column_name),
       c.column_default
FROM information_schema.columns c
WHERE c.table_schema = COALESCE(NULLIF($1, ''), 'public') AND c.table_name = $2
ORDER BY c.ordinal_position`
		args = []any{schemaName, table}
	case "mysql":
		query = `SELECT column_name, upper(column_type), is_nullable = 'NO', column_key = 'PRI', column_default
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
ORDER BY ordinal_position`
		args = []any{schemaName, table}
	case "sqlite":
		query = `SELECT name, upper(type), "notnull" <> 0, pk > 0, dflt_value FROM pragma_table_info(?, ?) ORDER BY cid`
		args = []any{table, sqliteSchema(schemaName)}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, d.engine)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var cols []columnInfo
	for rows.Next() {
		var ci columnInfo
		if err := rows.Scan(&ci.name, &ci.typ, &ci.notNull, &ci.primary, &ci.defaults); err != nil {
			return nil, err
		}
		cols = append(cols, ci)
	}
	return cols, rows.Err()
}

func (d *DB) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func sqliteSchema(name string) string {
	if name == "" {
		return "main"
	}
	return name
}

// splitType turns "VARCHAR(64)" into ("VARCHAR", 64). Types with
// precision and scale or without a size keep their full text.
func splitType(typ string) (string, int) {
	typ = strings.TrimSpace(typ)
	open := strings.IndexByte(typ, '(')
	if open < 0 || !strings.HasSuffix(typ, ")") {
		return typ, 0
	}
	size, err := strconv.Atoi(typ[open+1 : len(typ)-1])
	if err != nil {
		return typ, 0
	}
	return strings.TrimSpace(typ[:open]), size
}
