package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqlbuild/dbspec"
	"github.com/bawdo/sqlbuild/nodes"
)

// tokenize splits input into tokens, keeping single-quoted strings whole
// and recognising the two-character operators !=, <>, >=, <= and ||.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		var next byte
		if i+1 < len(input) {
			next = input[i+1]
		}
		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '!' && next == '=', ch == '<' && next == '>', ch == '<' && next == '=',
			ch == '>' && next == '=', ch == '|' && next == '|':
			flush()
			tokens = append(tokens, string([]byte{ch, next}))
			i++
		case ch == '=' || ch == '<' || ch == '>' || ch == '+' || ch == '-' || ch == '/':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '*' && !strings.HasSuffix(cur.String(), "."):
			flush()
			tokens = append(tokens, "*")
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a literal token to a Go value.
func parseValue(token string) (any, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'"), nil
	}
	if i, err := strconv.Atoi(token); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

func comparisonOp(token string) (nodes.ComparisonOp, bool) {
	switch strings.ToLower(token) {
	case "=":
		return nodes.OpEq, true
	case "!=", "<>":
		return nodes.OpNotEq, true
	case "<":
		return nodes.OpLt, true
	case "<=":
		return nodes.OpLtEq, true
	case ">":
		return nodes.OpGt, true
	case ">=":
		return nodes.OpGtEq, true
	case "like":
		return nodes.OpLike, true
	}
	return 0, false
}

// parser is a recursive-descent parser over tokens. Precedence from
// loosest: OR, AND, NOT, predicates, + - ||, * /, unary minus.
type parser struct {
	tokens  []string
	pos     int
	resolve func(ref string) (nodes.Node, error)
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) peekIs(words ...string) bool {
	t := strings.ToLower(p.peek())
	for _, w := range words {
		if t == w {
			return true
		}
	}
	return false
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(tok string) error {
	if !p.peekIs(tok) {
		if p.peek() == "" {
			return fmt.Errorf("expected %s at end of input", tok)
		}
		return fmt.Errorf("expected %s, got %s", tok, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) parseOr() (nodes.Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	conds := []any{first}
	for p.peekIs("or") {
		p.pos++
		n, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		conds = append(conds, n)
	}
	if len(conds) == 1 {
		return first, nil
	}
	return nodes.Or(conds...), nil
}

func (p *parser) parseAnd() (nodes.Node, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	conds := []any{first}
	for p.peekIs("and") {
		p.pos++
		n, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		conds = append(conds, n)
	}
	if len(conds) == 1 {
		return first, nil
	}
	return nodes.And(conds...), nil
}

func (p *parser) parseNot() (nodes.Node, error) {
	if p.peekIs("not") {
		p.pos++
		n, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return nodes.Not(n), nil
	}
	if p.peekIs("exists") {
		return nil, errors.New("EXISTS subqueries are not supported here")
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (nodes.Node, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOp(p.peek()); ok {
		p.pos++
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		return nodes.NewComparison(op, left, right), nil
	}

	switch {
	case p.peekIs("is"):
		p.pos++
		negate := false
		if p.peekIs("not") {
			p.pos++
			negate = true
		}
		if err := p.expect("null"); err != nil {
			return nil, err
		}
		if negate {
			return nodes.IsNotNull(left), nil
		}
		return nodes.IsNull(left), nil
	case p.peekIs("not"):
		p.pos++
		switch {
		case p.peekIs("in"):
			p.pos++
			vals, err := p.parseList()
			if err != nil {
				return nil, err
			}
			return nodes.NotIn(left, vals...), nil
		case p.peekIs("between"):
			p.pos++
			b, err := p.parseBetween(left)
			if err != nil {
				return nil, err
			}
			b.Negate = true
			return b, nil
		case p.peekIs("like"):
			p.pos++
			right, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			return nodes.NotLike(left, right), nil
		}
		return nil, fmt.Errorf("expected IN, BETWEEN or LIKE after NOT, got %q", p.peek())
	case p.peekIs("in"):
		p.pos++
		vals, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return nodes.In(left, vals...), nil
	case p.peekIs("between"):
		p.pos++
		return p.parseBetween(left)
	}
	return left, nil
}

func (p *parser) parseBetween(expr nodes.Node) (*nodes.BetweenNode, error) {
	low, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	if err := p.expect("and"); err != nil {
		return nil, err
	}
	high, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	return nodes.NewBetween(expr, low, high), nil
}

func (p *parser) parseList() ([]any, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var vals []any
	for {
		n, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		vals = append(vals, n)
		if p.peekIs(")") {
			p.pos++
			return vals, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

var arithOps = map[string]nodes.ArithOp{
	"+":  nodes.OpPlus,
	"-":  nodes.OpMinus,
	"||": nodes.OpConcat,
	"*":  nodes.OpMultiply,
	"/":  nodes.OpDivide,
}

func (p *parser) parseArith() (nodes.Node, error) {
	return p.parseChain(p.parseTerm, "+", "-", "||")
}

func (p *parser) parseTerm() (nodes.Node, error) {
	return p.parseChain(p.parseUnary, "*", "/")
}

// parseChain parses operands joined by ops, left-associatively. A run of
// the same operator becomes one n-ary node.
func (p *parser) parseChain(operand func() (nodes.Node, error), ops ...string) (nodes.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	var run *nodes.ArithNode
	for p.peekIs(ops...) {
		op := arithOps[p.next()]
		right, err := operand()
		if err != nil {
			return nil, err
		}
		if run != nil && run.Op == op {
			run.Add(right)
			continue
		}
		run = nodes.NewArith(op, left, right)
		left = run
	}
	return left, nil
}

func (p *parser) parseUnary() (nodes.Node, error) {
	if p.peekIs("-") {
		p.pos++
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := n.(*nodes.LiteralNode); ok {
			switch v := lit.Value.(type) {
			case int:
				return nodes.Value(-v), nil
			case float64:
				return nodes.Value(-v), nil
			}
		}
		return nodes.Negate(n), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (nodes.Node, error) {
	if p.done() {
		return nil, errors.New("expected expression")
	}
	tok := p.next()

	if tok == "(" {
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return n, nil
	}
	if tok == "*" {
		return nodes.Star(), nil
	}
	if p.peekIs("(") && isIdentifier(tok) {
		return p.parseCall(tok)
	}
	if !strings.HasPrefix(tok, "'") && strings.Contains(tok, ".") {
		if _, err := strconv.ParseFloat(tok, 64); err != nil {
			return p.resolve(tok)
		}
	}
	val, err := parseValue(tok)
	if err != nil {
		return nil, err
	}
	return nodes.Wrap(val), nil
}

func (p *parser) parseCall(name string) (nodes.Node, error) {
	p.pos++ // (
	upper := strings.ToUpper(name)
	if upper == "COUNT" && p.peek() == "*" {
		p.pos++
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return nodes.CountAll(), nil
	}
	distinct := false
	if p.peekIs("distinct") {
		p.pos++
		distinct = true
	}
	var args []any
	for !p.peekIs(")") {
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		if p.peekIs(",") {
			p.pos++
			continue
		}
		if !p.peekIs(")") {
			return nil, fmt.Errorf("expected , or ) in %s call", upper)
		}
	}
	p.pos++ // )
	return nodes.Call(upper, args...).SetDistinct(distinct), nil
}

func isIdentifier(token string) bool {
	if token == "" {
		return false
	}
	ch := token[0]
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

// parseExpr parses a complete expression from input.
func (s *Session) parseExpr(input string) (nodes.Node, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty expression")
	}
	p := &parser{tokens: tokenize(input), resolve: s.resolveColRef}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected %q", p.peek())
	}
	return n, nil
}

// splitTopLevel splits input on commas outside parentheses and quotes.
func splitTopLevel(input string) []string {
	var parts []string
	depth, start := 0, 0
	inQuote := false
	for i := 0; i < len(input); i++ {
		switch ch := input[i]; {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(input[start:i]))
			start = i + 1
		}
	}
	if last := strings.TrimSpace(input[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

// splitAlias splits "expr as name" into its parts.
func splitAlias(item string) (string, string) {
	lower := strings.ToLower(item)
	if i := strings.LastIndex(lower, " as "); i > 0 && !strings.Contains(item[i:], "'") {
		return strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+4:])
	}
	return item, ""
}

// resolveColRef resolves "table.column" against the registered tables.
// The table part may itself be schema-qualified.
func (s *Session) resolveColRef(ref string) (nodes.Node, error) {
	dot := strings.LastIndexByte(ref, '.')
	if dot <= 0 || dot == len(ref)-1 {
		return nil, fmt.Errorf("expected table.column, got %q", ref)
	}
	name, col := ref[:dot], ref[dot+1:]
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown table or alias %q (register with 'table %s' first)", name, name)
	}
	if col == "*" {
		return nodes.AllOf(t), nil
	}
	return columnOf(t, col)
}

// columnOf returns a column node of t. Described tables only expose their
// declared columns.
func columnOf(t nodes.TableRef, col string) (nodes.Node, error) {
	switch t := t.(type) {
	case *dbspec.Table:
		if c := t.FindColumn(col); c != nil {
			return c.Node(), nil
		}
	case *dbspec.RejoinTable:
		if c := t.FindColumn(col); c != nil {
			return c.Node(), nil
		}
	case *nodes.Table:
		return t.Col(col), nil
	}
	return nil, fmt.Errorf("unknown column %s.%s", t.TableName(), col)
}
