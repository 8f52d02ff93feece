package plugins

import (
	"strings"

	"github.com/bawdo/sqlbuild/nodes"
)

// TableRef pairs a source table with its name. Relation is used to build
// column references (keeping any alias); Name is the qualified table name
// used for matching.
type TableRef struct {
	Relation nodes.TableRef
	Name     string
}

// BaseName returns Name without its schema qualifier.
func (r TableRef) BaseName() string {
	if i := strings.LastIndex(r.Name, "."); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// Matches reports whether name is the qualified or the bare table name.
func (r TableRef) Matches(name string) bool {
	return name == r.Name || name == r.BaseName()
}

// CollectTables returns the FROM tables of a SelectCore in declaration
// order, including join targets. Without explicit sources the tables are
// derived from the clauses. Custom FROM fragments are skipped.
func CollectTables(core *nodes.SelectCore) []TableRef {
	var refs []TableRef
	for _, src := range core.FromSources() {
		for _, t := range nodes.SourceTables(src) {
			refs = append(refs, TableRef{Relation: t, Name: t.TableName()})
		}
	}
	return refs
}
