package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/sqlbuild/nodes"
	"github.com/bawdo/sqlbuild/plugins"
	"github.com/bawdo/sqlbuild/plugins/policy"
	"github.com/bawdo/sqlbuild/plugins/softdelete"
)

// pluginEntry is an enabled plugin.
type pluginEntry struct {
	name    string
	factory func() plugins.Transformer // fresh instance per statement
	status  func() string
	color   string // DOT provenance color
}

// pluginRegistry holds the enabled plugins in registration order.
type pluginRegistry struct {
	entries []pluginEntry
}

// register adds or replaces a plugin by name.
func (r *pluginRegistry) register(entry pluginEntry) {
	for i, e := range r.entries {
		if e.name == entry.name {
			r.entries[i] = entry
			return
		}
	}
	r.entries = append(r.entries, entry)
}

// deregister removes a plugin by name. Returns false if not found.
func (r *pluginRegistry) deregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *pluginRegistry) names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// transformers creates one transformer per enabled plugin.
func (r *pluginRegistry) transformers() []plugins.Transformer {
	out := make([]plugins.Transformer, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.factory()
	}
	return out
}

// pluginConfigurer is a known plugin that the plugin command can enable.
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}

var configurers = []pluginConfigurer{
	{name: "softdelete", configure: configureSoftdelete},
	{name: "policy", configure: configurePolicy},
}

func pluginNames() []string {
	names := make([]string, len(configurers))
	for i, c := range configurers {
		names[i] = c.name
	}
	return names
}

// configureSoftdelete accepts no arguments (deleted_at everywhere), a
// column name, "<column> on <table> ..." or "t1.col, t2.col" pairs.
func configureSoftdelete(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var opts []softdelete.Option
	var status string

	switch {
	case strings.Contains(rest, "."):
		var pairs []string
		for _, pair := range strings.Split(rest, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			dot := strings.LastIndexByte(pair, '.')
			if dot <= 0 || dot == len(pair)-1 {
				return fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(pair[:dot], pair[dot+1:]))
			pairs = append(pairs, pair)
		}
		sort.Strings(pairs)
		status = strings.Join(pairs, ", ")

	case strings.Contains(strings.ToLower(rest), " on "):
		idx := strings.Index(strings.ToLower(rest), " on ")
		col := strings.TrimSpace(rest[:idx])
		tables := strings.Fields(rest[idx+4:])
		if col == "" || len(tables) == 0 {
			return errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")
		}
		opts = append(opts, softdelete.WithColumn(col), softdelete.WithTables(tables...))
		status = fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tables, ", "))

	case rest != "":
		col := strings.Fields(rest)[0]
		opts = append(opts, softdelete.WithColumn(col))
		status = "column: " + col

	default:
		status = "column: deleted_at"
	}

	s.plugins.register(pluginEntry{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  func() string { return status },
		color:   "#CC6666",
	})
	s.printf("Soft-delete enabled (%s)", status)
	return nil
}

// policyRules accumulates the rules given to "plugin policy".
type policyRules struct {
	conds  []nodes.Node
	denied []string
	masks  []policy.Option
	masked []string
}

// rules returns the conditions that reference the table, or an error when
// the table is denied.
func (r *policyRules) rules(ref plugins.TableRef) ([]nodes.Node, error) {
	for _, name := range r.denied {
		if ref.Matches(name) {
			return nil, fmt.Errorf("access to %s denied", name)
		}
	}
	var out []nodes.Node
	for _, c := range r.conds {
		if nodes.Collect(c).HasTable(ref.Relation) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *policyRules) status() string {
	parts := []string{fmt.Sprintf("%d conditions", len(r.conds))}
	if len(r.denied) > 0 {
		parts = append(parts, "deny: "+strings.Join(r.denied, ", "))
	}
	if len(r.masked) > 0 {
		parts = append(parts, "masks: "+strings.Join(r.masked, ", "))
	}
	return strings.Join(parts, "; ")
}

// configurePolicy adds one rule per call:
//
//	plugin policy where <condition>
//	plugin policy deny <table>
//	plugin policy mask <table>.<column> [value]
func configurePolicy(s *Session, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return errors.New("usage: plugin policy where <condition> | deny <table> | mask <table>.<column> [value]")
	}
	if s.policy == nil {
		s.policy = &policyRules{}
	}
	r := s.policy
	rest := strings.TrimSpace(args[strings.Index(args, fields[0])+len(fields[0]):])

	switch strings.ToLower(fields[0]) {
	case "where":
		cond, err := s.parseExpr(rest)
		if err != nil {
			return fmt.Errorf("policy: %w", err)
		}
		if len(nodes.Collect(cond).Tables) == 0 {
			return errors.New("policy: condition must reference a table")
		}
		r.conds = append(r.conds, cond)
	case "deny":
		r.denied = append(r.denied, fields[1])
	case "mask":
		ref := fields[1]
		dot := strings.LastIndexByte(ref, '.')
		if dot <= 0 || dot == len(ref)-1 {
			return fmt.Errorf("invalid table.column: %q", ref)
		}
		var value any
		if len(fields) > 2 {
			v, err := parseValue(strings.TrimSpace(rest[len(ref):]))
			if err != nil {
				return fmt.Errorf("policy: %w", err)
			}
			value = v
		}
		r.masks = append(r.masks, policy.WithMask(ref[:dot], ref[dot+1:], value))
		r.masked = append(r.masked, ref)
	default:
		return fmt.Errorf("unknown policy rule %q (want where, deny or mask)", fields[0])
	}

	opts := append([]policy.Option(nil), r.masks...)
	s.plugins.register(pluginEntry{
		name:    "policy",
		factory: func() plugins.Transformer { return policy.New(r.rules, opts...) },
		status:  r.status,
		color:   "#6699CC",
	})
	s.printf("Policy updated (%s)", r.status())
	return nil
}

func (s *Session) cmdPlugin(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return errors.New("usage: plugin <name> [options] | plugin off [name]")
	}
	name := strings.ToLower(fields[0])
	rest := strings.TrimSpace(args[len(fields[0]):])

	if name == "off" {
		if rest == "" || rest == "policy" {
			s.policy = nil
		}
		if rest == "" {
			s.plugins.entries = nil
			s.printf("All plugins disabled")
			return nil
		}
		if !s.plugins.deregister(rest) {
			return fmt.Errorf("plugin %q is not enabled", rest)
		}
		s.printf("Plugin %s disabled", rest)
		return nil
	}

	for _, c := range configurers {
		if c.name == name {
			return c.configure(s, rest)
		}
	}
	return fmt.Errorf("unknown plugin %q (known: %s)", name, strings.Join(pluginNames(), ", "))
}

func (s *Session) cmdPlugins() {
	if len(s.plugins.entries) == 0 {
		s.printf("No plugins enabled")
		return
	}
	for _, e := range s.plugins.entries {
		s.printf("%s: %s", e.name, e.status())
	}
}
