package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/managers"
	"github.com/bawdo/sqlbuild/runner"
	"github.com/bawdo/sqlbuild/visitors"
)

// options holds the persistent flags shared by every command.
type options struct {
	engine   string
	dsn      string
	quote    bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "sqlbuild",
		Short: "Build SQL statements interactively",
		Long: `sqlbuild - programmatic SQL construction

Without a subcommand sqlbuild starts an interactive session for building
SELECT, INSERT, UPDATE and DELETE statements, rendering them for PostgreSQL,
MySQL or SQLite and optionally running them against a live database.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !isValidEngine(opts.engine) {
				return fmt.Errorf("unknown engine %q (postgres, mysql, sqlite)", opts.engine)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.engine, "engine", envOr("SQLBUILD_ENGINE", "postgres"), "SQL dialect: postgres, mysql or sqlite")
	f.StringVar(&opts.dsn, "dsn", os.Getenv("DATABASE_URL"), "database connection string")
	f.BoolVar(&opts.quote, "dialect-quote", false, "quote identifiers in generated SQL")
	f.StringVar(&opts.logLevel, "log-level", envOr("SQLBUILD_LOG_LEVEL", "warn"), "log level: debug, info, warn or error")

	cmd.AddCommand(newRunCmd(opts), newDDLCmd(opts), newIntrospectCmd(opts))
	return cmd
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return strings.ToLower(v)
	}
	return def
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// newSession builds a session from the flags and connects when a DSN is
// configured.
func newSession(cmd *cobra.Command, opts *options) (*Session, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts.logLevel)
	s := NewSession(opts.engine, cmd.OutOrStdout(), logger)
	s.quote = opts.quote
	if opts.dsn != "" {
		if err := s.cmdConnect(opts.dsn); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Execute session commands from a file",
		Example: `  # Print the SQL built by a script
  sqlbuild run queries.sqlb --engine sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			return runScript(s, f, args[0])
		},
	}
}

// runScript executes one command per line and stops at the first error
// or at exit/quit.
func runScript(s *Session, r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if lower := strings.ToLower(text); lower == "exit" || lower == "quit" {
			return nil
		}
		if err := s.Execute(text); err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
	}
	return sc.Err()
}

func newDDLCmd(opts *options) *cobra.Command {
	var drop, apply bool
	cmd := &cobra.Command{
		Use:   "ddl <schema.yaml>",
		Short: "Print CREATE statements for a schema description",
		Example: `  # Recreate a schema in a local SQLite file
  sqlbuild ddl schema.yaml --engine sqlite --dsn app.db --drop --apply`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := dbspec.LoadYAML(args[0])
			if err != nil {
				return err
			}
			stmts, err := schemaDDL(spec, drop)
			if err != nil {
				return err
			}

			var vopts []visitors.Option
			if opts.quote {
				vopts = append(vopts, visitors.WithQuotedIdentifiers())
			}
			if !apply {
				visitor := visitors.ForDialect(opts.engine, vopts...)
				out := cmd.OutOrStdout()
				for _, stmt := range stmts {
					sql, err := stmt.ToSQL(visitor)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(out, "%s;\n", sql)
				}
				return nil
			}

			if opts.dsn == "" {
				return errors.New("--apply needs --dsn or DATABASE_URL")
			}
			ropts := []runner.Option{
				runner.WithLogger(newLogger(cmd.ErrOrStderr(), opts.logLevel)),
				runner.WithVisitorOptions(vopts...),
			}
			db, err := runner.Open(cmd.Context(), opts.engine, opts.dsn, ropts...)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			for _, stmt := range stmts {
				if _, err := db.Exec(cmd.Context(), stmt, nil); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d statements\n", len(stmts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "emit DROP TABLE before each CREATE")
	cmd.Flags().BoolVar(&apply, "apply", false, "execute the statements instead of printing them")
	return cmd
}

// schemaDDL validates and orders the DDL for every described table and
// index: drops in reverse declaration order, then creates, then indexes.
func schemaDDL(spec *dbspec.Spec, drop bool) ([]runner.Statement, error) {
	var tables []*dbspec.Table
	var indexes []*dbspec.Index
	for _, sc := range spec.Schemas {
		tables = append(tables, sc.Tables...)
		indexes = append(indexes, sc.Indexes...)
	}

	var stmts []runner.Statement
	if drop {
		for i := len(tables) - 1; i >= 0; i-- {
			stmts = append(stmts, managers.DropTable(tables[i]))
		}
	}
	for _, t := range tables {
		m := managers.NewCreateTableManager(t).AddAllColumns()
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.TableName(), err)
		}
		stmts = append(stmts, m)
	}
	for _, idx := range indexes {
		m := managers.CreateIndex(idx)
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("index %s: %w", idx.IndexName(), err)
		}
		stmts = append(stmts, m)
	}
	return stmts, nil
}

func newIntrospectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "introspect [schema]",
		Short: "Describe a live database schema as YAML",
		Example: `  # Dump the tables of a SQLite file
  sqlbuild introspect --engine sqlite --dsn app.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				return errors.New("introspect needs --dsn or DATABASE_URL")
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			ctx := cmd.Context()
			db, err := runner.Open(ctx, opts.engine, opts.dsn, runner.WithLogger(newLogger(cmd.ErrOrStderr(), opts.logLevel)))
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			schema, err := db.Introspect(ctx, name)
			if err != nil {
				return err
			}
			data, err := schema.Spec.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
