package dbspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// specDoc is the YAML form of a Spec.
type specDoc struct {
	Schemas []schemaDoc `json:"schemas" yaml:"schemas"`
	Joins   []joinDoc   `json:"joins,omitempty" yaml:"joins,omitempty"`
}

type schemaDoc struct {
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Tables   []tableDoc   `json:"tables,omitempty" yaml:"tables,omitempty"`
	Indexes  []indexDoc   `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Packages []packageDoc `json:"packages,omitempty" yaml:"packages,omitempty"`
}

type tableDoc struct {
	Name    string      `json:"name" yaml:"name"`
	Alias   string      `json:"alias,omitempty" yaml:"alias,omitempty"`
	Columns []columnDoc `json:"columns,omitempty" yaml:"columns,omitempty"`
}

type columnDoc struct {
	Default    any    `json:"default,omitempty" yaml:"default,omitempty"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Size       int    `json:"size,omitempty" yaml:"size,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	NotNull    bool   `json:"not_null,omitempty" yaml:"not_null,omitempty"`
	Unique     bool   `json:"unique,omitempty" yaml:"unique,omitempty"`
}

type indexDoc struct {
	Name    string   `json:"name" yaml:"name"`
	Table   string   `json:"table" yaml:"table"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique,omitempty" yaml:"unique,omitempty"`
}

type packageDoc struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Functions []string `json:"functions" yaml:"functions"`
}

type joinDoc struct {
	From joinSideDoc `json:"from" yaml:"from"`
	To   joinSideDoc `json:"to" yaml:"to"`
}

type joinSideDoc struct {
	Schema  string   `json:"schema,omitempty" yaml:"schema,omitempty"`
	Table   string   `json:"table" yaml:"table"`
	Columns []string `json:"columns" yaml:"columns"`
}

// LoadYAML reads a schema description from a YAML file.
func LoadYAML(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a Spec from its YAML description. Unknown tables or
// columns referenced by indexes and joins are reported as errors.
func ParseYAML(data []byte) (*Spec, error) {
	var doc specDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	spec := NewSpec()
	for _, sd := range doc.Schemas {
		sc := spec.AddSchema(sd.Name)
		for _, td := range sd.Tables {
			t := sc.AddTable(td.Name)
			t.Alias = td.Alias
			for _, cd := range td.Columns {
				c := t.AddTypedColumn(cd.Name, cd.Type, cd.Size)
				c.PrimaryKey = cd.PrimaryKey
				c.NotNull = cd.NotNull
				c.Unique = cd.Unique
				c.Default = cd.Default
			}
		}
		for _, id := range sd.Indexes {
			t := sc.FindTable(id.Table)
			if t == nil {
				return nil, fmt.Errorf("index %s: unknown table %s", id.Name, sc.QualifiedName(id.Table))
			}
			cols, err := findColumns(t, id.Columns)
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", id.Name, err)
			}
			sc.Indexes = append(sc.Indexes, &Index{Name: id.Name, Unique: id.Unique, Schema: sc, Table: t, Columns: cols})
		}
		for _, pd := range sd.Packages {
			p := sc.AddFunctionPackage(pd.Name)
			for _, fn := range pd.Functions {
				p.AddFunction(fn)
			}
		}
	}

	for i, jd := range doc.Joins {
		j, err := buildJoin(spec, jd)
		if err != nil {
			return nil, fmt.Errorf("join %d: %w", i, err)
		}
		spec.Joins = append(spec.Joins, j)
	}
	return spec, nil
}

func buildJoin(spec *Spec, jd joinDoc) (*Join, error) {
	from := spec.FindTable(jd.From.Schema, jd.From.Table)
	if from == nil {
		return nil, fmt.Errorf("unknown table %s", qualify(jd.From.Schema, jd.From.Table))
	}
	to := spec.FindTable(jd.To.Schema, jd.To.Table)
	if to == nil {
		return nil, fmt.Errorf("unknown table %s", qualify(jd.To.Schema, jd.To.Table))
	}
	toNames := jd.To.Columns
	if len(toNames) == 0 {
		toNames = jd.From.Columns
	}
	if len(jd.From.Columns) == 0 || len(jd.From.Columns) != len(toNames) {
		return nil, fmt.Errorf("column lists of %s and %s do not match", from.TableName(), to.TableName())
	}
	fromCols, err := findColumns(from, jd.From.Columns)
	if err != nil {
		return nil, err
	}
	toCols, err := findColumns(to, toNames)
	if err != nil {
		return nil, err
	}
	return &Join{From: from, To: to, FromColumns: fromCols, ToColumns: toCols}, nil
}

func findColumns(t *Table, names []string) ([]*Column, error) {
	cols := make([]*Column, len(names))
	for i, n := range names {
		c := t.FindColumn(n)
		if c == nil {
			return nil, fmt.Errorf("unknown column %s.%s", t.TableName(), n)
		}
		cols[i] = c
	}
	return cols, nil
}

// YAML encodes the Spec in the form ParseYAML reads.
func (s *Spec) YAML() ([]byte, error) {
	var doc specDoc
	for _, sc := range s.Schemas {
		sd := schemaDoc{Name: sc.Name}
		for _, t := range sc.Tables {
			td := tableDoc{Name: t.Name, Alias: t.Alias}
			for _, c := range t.Columns {
				td.Columns = append(td.Columns, columnDoc{
					Name:       c.Name,
					Type:       c.Type,
					Size:       c.Size,
					PrimaryKey: c.PrimaryKey,
					NotNull:    c.NotNull,
					Unique:     c.Unique,
					Default:    c.Default,
				})
			}
			sd.Tables = append(sd.Tables, td)
		}
		for _, idx := range sc.Indexes {
			sd.Indexes = append(sd.Indexes, indexDoc{
				Name:    idx.Name,
				Table:   idx.Table.Name,
				Columns: columnNames(idx.Columns),
				Unique:  idx.Unique,
			})
		}
		for _, p := range sc.FunctionPackages {
			pd := packageDoc{Name: p.Name}
			for _, f := range p.Functions {
				pd.Functions = append(pd.Functions, f.Name)
			}
			sd.Packages = append(sd.Packages, pd)
		}
		doc.Schemas = append(doc.Schemas, sd)
	}
	for _, j := range s.Joins {
		doc.Joins = append(doc.Joins, joinDoc{
			From: joinSideDoc{Schema: schemaName(j.From), Table: j.From.Name, Columns: columnNames(j.FromColumns)},
			To:   joinSideDoc{Schema: schemaName(j.To), Table: j.To.Name, Columns: columnNames(j.ToColumns)},
		})
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return out, nil
}

func columnNames(cols []*Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func schemaName(t *Table) string {
	if t.Schema == nil {
		return ""
	}
	return t.Schema.Name
}
