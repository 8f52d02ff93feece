// Command sqlbuild builds SQL statements from the command line.
//
// Configuration (flags or env vars):
//
//	--engine / SQLBUILD_ENGINE=postgres|mysql|sqlite
//	--dsn / DATABASE_URL=<dsn>      (auto-connects if set)
//	--log-level / SQLBUILD_LOG_LEVEL=debug|info|warn|error
//
// Usage:
//
//	go run ./cmd/sqlbuild
//	go run ./cmd/sqlbuild run script.sqlb
//	go run ./cmd/sqlbuild ddl schema.yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
)

const prompt = "sqlbuild> "

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runREPL reads commands with line editing, history and tab completion
// until exit, quit or EOF.
func runREPL(cmd *cobra.Command, opts *options) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: s},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()
	s.out = rl

	_, _ = fmt.Fprintf(rl, "sqlbuild (%s) - type 'help' for commands, 'exit' to quit\n\n", s.engine)
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) || err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			break
		}
		if err := s.Execute(line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  Error: %v\n", err)
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlbuild_history")
}
