package dbspec

import (
	"errors"
	"slices"
	"strings"

	"github.com/zoobzio/dbml"
)

// FromDBML builds a Spec from a DBML project. Every table lands in the
// default schema, ordered by name; columns keep their names only.
func FromDBML(project *dbml.Project) (*Spec, error) {
	if project == nil {
		return nil, errors.New("dbml project cannot be nil")
	}
	var tables []*dbml.Table
	for _, t := range project.Tables {
		tables = append(tables, t)
	}
	slices.SortFunc(tables, func(a, b *dbml.Table) int { return strings.Compare(a.Name, b.Name) })

	spec := NewSpec()
	sc := spec.AddDefaultSchema()
	for _, dt := range tables {
		t := sc.AddTable(dt.Name)
		for _, col := range dt.Columns {
			t.AddColumn(col.Name)
		}
	}
	return spec, nil
}

// ToDBML exports the tables of every schema as a DBML project. Tables are
// named by their qualified name and columns carry their DDL type.
func (s *Spec) ToDBML(name string) *dbml.Project {
	project := dbml.NewProject(name)
	for _, sc := range s.Schemas {
		for _, t := range sc.Tables {
			dt := dbml.NewTable(t.TableName())
			for _, c := range t.Columns {
				dt.AddColumn(dbml.NewColumn(c.Name, c.TypeSQL()))
			}
			project.AddTable(dt)
		}
	}
	return project
}
