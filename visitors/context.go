package visitors

import (
	"strconv"

	"github.com/bawdo/sqlbuild/nodes"
)

// aliasRoot is shared by every scope of one statement so that aliases
// stay unique across subqueries and set-operation branches.
type aliasRoot struct {
	next int
	used map[string]bool
}

func (r *aliasRoot) nextAlias() string {
	for {
		a := "t" + strconv.Itoa(r.next)
		r.next++
		if !r.used[a] {
			r.used[a] = true
			return a
		}
	}
}

// scope maps the tables visible at one query level to their aliases. A
// table registered with an empty alias renders by name only.
type scope struct {
	parent  *scope
	root    *aliasRoot
	aliases map[nodes.TableRef]string
	enabled bool
}

func newScope(parent *scope, enabled bool) *scope {
	s := &scope{parent: parent, aliases: make(map[nodes.TableRef]string), enabled: enabled}
	if parent != nil {
		s.root = parent.root
	} else {
		s.root = &aliasRoot{used: make(map[string]bool)}
	}
	return s
}

// register returns the alias of t in this scope, assigning one if needed.
func (s *scope) register(t nodes.TableRef) string {
	if a, ok := s.aliases[t]; ok {
		return a
	}
	a := ""
	if s.enabled {
		a = t.TableAlias()
		if a == "" {
			a = s.root.nextAlias()
		} else {
			s.root.used[a] = true
		}
	}
	s.aliases[t] = a
	return a
}

// registerSources assigns aliases to the FROM tables of one query level.
// Explicit aliases are reserved first so sequential aliases skip them.
func (s *scope) registerSources(sources []nodes.Node) {
	var tables []nodes.TableRef
	for _, src := range sources {
		tables = append(tables, nodes.SourceTables(src)...)
	}
	if s.enabled {
		for _, t := range tables {
			if a := t.TableAlias(); a != "" {
				s.root.used[a] = true
			}
		}
	}
	for _, t := range tables {
		s.register(t)
	}
}

// lookup finds t in this scope or an enclosing one.
func (s *scope) lookup(t nodes.TableRef) (string, *scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if a, ok := cur.aliases[t]; ok {
			return a, cur, true
		}
	}
	return "", nil, false
}

// uncorrelated drops derived FROM tables that an enclosing query already
// declares, so correlated references are not joined a second time.
func (s *scope) uncorrelated(sources []nodes.Node) []nodes.Node {
	if s.parent == nil {
		return sources
	}
	out := make([]nodes.Node, 0, len(sources))
	for _, src := range sources {
		if ft, ok := src.(*nodes.FromTable); ok {
			if _, _, found := s.parent.lookup(ft.Table); found {
				continue
			}
		}
		out = append(out, src)
	}
	return out
}
