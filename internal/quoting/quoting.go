// Package quoting provides shared identifier and string literal quoting.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Qualified applies quote to every dot-separated part of a qualified name,
// so Schema1.Table1 becomes "Schema1"."Table1".
func Qualified(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// EscapeString escapes a string literal body by doubling single quotes.
// Backslashes are ordinary characters in standard SQL.
//
// SECURITY: Prefer placeholders for user-provided values. Escaping is for
// literals that are fixed by the calling program.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeStringMySQL escapes a string literal for MySQL, which treats
// backslash as an escape character inside quotes unless
// NO_BACKSLASH_ESCAPES is set.
func EscapeStringMySQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
