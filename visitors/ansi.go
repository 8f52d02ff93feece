package visitors

import "github.com/bawdo/sqlbuild/internal/quoting"

// ANSIVisitor generates standard SQL. Placeholders render as ?, and
// identifiers, when quoting is enabled, use double quotes.
type ANSIVisitor struct {
	*baseVisitor
}

// NewANSIVisitor creates an ANSIVisitor ready for use.
func NewANSIVisitor(opts ...Option) *ANSIVisitor {
	v := &ANSIVisitor{}
	v.baseVisitor = newBaseVisitor(v, quoting.DoubleQuote, quoting.EscapeString, func(_ int) string { return "?" })
	v.applyOptions(opts)
	return v
}
