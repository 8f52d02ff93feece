package main

import (
	"strings"

	"github.com/bawdo/sqlbuild/dbspec"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextNone      completionContext = iota
	contextCommand                     // start of line or partial command
	contextTableName                   // after from/join/insert into
	contextColumnRef                   // after select/where/group/set
	contextEngine                      // after engine
	contextPlugin                      // after plugin
)

var functionNames = []string{
	"AVG(", "COALESCE(", "COUNT(", "COUNT(DISTINCT ", "LOWER(", "MAX(", "MIN(", "SUM(", "UPPER(",
}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of runes of line[:pos] that form the prefix being
// completed; newLine holds the suffix to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = filterPrefix(c.sess.tableNames(), prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextEngine:
		candidates = filterPrefix(engineNames(), prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, pluginNames()...), prefix)
	}

	for _, cand := range candidates {
		newLine = append(newLine, []rune(cand[len(prefix):]+" "))
	}
	return newLine, len([]rune(prefix))
}

// parseContext examines the line up to the cursor and returns the kind of
// completion needed and the word being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") || cmd.completer == contextNone {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			return cmd.completer, lastToken(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

// completeColumnRef completes "table." with the table's described
// columns and a bare word with table and function names.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	dot := strings.IndexByte(prefix, '.')
	if dot < 0 {
		return append(filterPrefix(c.sess.tableNames(), prefix), filterPrefix(functionNames, prefix)...)
	}
	name := prefix[:dot]
	candidates := []string{name + ".*"}
	switch t := c.sess.tables[name].(type) {
	case *dbspec.Table:
		for _, col := range t.Columns {
			candidates = append(candidates, name+"."+col.Name)
		}
	case *dbspec.RejoinTable:
		for _, col := range t.Columns {
			candidates = append(candidates, name+"."+col.ColumnName())
		}
	}
	return filterPrefix(candidates, prefix)
}

func engineNames() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the text after the last space, comma or open paren.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " ,\t("); i >= 0 {
		return s[i+1:]
	}
	return s
}
