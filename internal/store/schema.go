// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store loads a produced dataset into a relational database,
// upserting every table by its primary key so a re-run replaces rows instead
// of duplicating them.
package store

import (
	"fmt"
	"strings"

	"github.com/pdiddy/candidate-dataset/internal/output"
)

// Kind is the storage type of a column.
type Kind int

const (
	Text Kind = iota
	Int
	NullInt
	Real
)

// Column is one loaded column.
type Column struct {
	Name string
	Kind Kind
	// References names the table whose id this column points at.
	References string
}

// Table describes one dataset table and its CSV file.
type Table struct {
	Name    string
	File    string
	Columns []Column
	Key     []string
}

// Tables lists the dataset tables in foreign-key order: every referenced
// table precedes the tables that reference it.
var Tables = []Table{
	{
		Name: "universities",
		File: output.UniversitiesFile,
		Columns: []Column{
			{Name: "id"}, {Name: "name"}, {Name: "country"},
			{Name: "ranking", Kind: NullInt},
			{Name: "logo_url"}, {Name: "website"},
			{Name: "created_at"}, {Name: "updated_at"},
		},
		Key: []string{"id"},
	},
	{
		Name: "research_topics",
		File: output.TopicsFile,
		Columns: []Column{
			{Name: "id"}, {Name: "name"}, {Name: "description"},
			{Name: "created_at"}, {Name: "updated_at"},
		},
		Key: []string{"id"},
	},
	{
		Name: "candidates",
		File: output.CandidatesFile,
		Columns: []Column{
			{Name: "id"}, {Name: "name"},
			{Name: "university_id", References: "universities"},
			{Name: "graduation_year", Kind: Int},
			{Name: "total_citations", Kind: Int},
			{Name: "h_index", Kind: Int},
			{Name: "publication_count", Kind: Int},
			{Name: "ranking_score", Kind: Int},
			{Name: "research_interests"},
			{Name: "profile_image_url"}, {Name: "linkedin_url"}, {Name: "google_scholar_url"},
			{Name: "created_at"}, {Name: "updated_at"},
		},
		Key: []string{"id"},
	},
	{
		Name: "publications",
		File: output.PublicationsFile,
		Columns: []Column{
			{Name: "id"},
			{Name: "candidate_id", References: "candidates"},
			{Name: "title"}, {Name: "venue"},
			{Name: "year", Kind: NullInt},
			{Name: "citations", Kind: Int},
			{Name: "doi"}, {Name: "abstract"},
			// topic_id may name a label outside every candidate's top three.
			{Name: "topic_id"},
			{Name: "created_at"}, {Name: "updated_at"},
		},
		Key: []string{"id"},
	},
	{
		Name: "candidate_topics",
		File: output.CandidateTopicsFile,
		Columns: []Column{
			{Name: "candidate_id", References: "candidates"},
			{Name: "topic_id", References: "research_topics"},
			{Name: "created_at"},
		},
		Key: []string{"candidate_id", "topic_id"},
	},
	{
		Name: "academic_metrics",
		File: output.AcademicMetricsFile,
		Columns: []Column{
			{Name: "id"},
			{Name: "university_id", References: "universities"},
			{Name: "year", Kind: Int},
			{Name: "publications_count", Kind: Int},
			{Name: "total_citations", Kind: Int},
			{Name: "h_index_avg", Kind: Real},
			{Name: "conference_papers", Kind: Int},
			{Name: "journal_papers", Kind: Int},
			{Name: "created_at"}, {Name: "updated_at"},
		},
		Key: []string{"id"},
	},
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func (t Table) isKey(name string) bool {
	for _, k := range t.Key {
		if k == name {
			return true
		}
	}
	return false
}

// dialect captures the SQL differences between the supported databases.
type dialect struct {
	types       map[Kind]string
	placeholder func(i int) string
}

var sqliteDialect = dialect{
	types:       map[Kind]string{Text: "TEXT", Int: "INTEGER", NullInt: "INTEGER", Real: "REAL"},
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	types:       map[Kind]string{Text: "TEXT", Int: "BIGINT", NullInt: "BIGINT", Real: "DOUBLE PRECISION"},
	placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
}

// createStatement returns the CREATE TABLE statement for t.
func (d dialect) createStatement(t Table) string {
	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		def := c.Name + " " + d.types[c.Kind]
		if len(t.Key) == 1 && t.Key[0] == c.Name {
			def += " PRIMARY KEY"
		}
		if c.References != "" {
			def += " REFERENCES " + c.References + "(id)"
		}
		defs = append(defs, def)
	}
	if len(t.Key) > 1 {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(t.Key, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// schemaStatements returns every DDL statement for the dataset.
func (d dialect) schemaStatements() []string {
	var stmts []string
	for _, t := range Tables {
		stmts = append(stmts, d.createStatement(t))
		for _, c := range t.Columns {
			if c.References != "" {
				stmts = append(stmts, fmt.Sprintf(
					"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", t.Name, c.Name, t.Name, c.Name))
			}
		}
	}
	return stmts
}

// upsertStatement returns an INSERT that updates every non-key column when
// the primary key already exists.
func (d dialect) upsertStatement(t Table) string {
	cols := t.ColumnNames()
	params := make([]string, len(cols))
	var updates []string
	for i, c := range cols {
		params[i] = d.placeholder(i + 1)
		if !t.isKey(c) {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		t.Name, strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(t.Key, ", "))
	if len(updates) == 0 {
		return stmt + "DO NOTHING"
	}
	return stmt + "DO UPDATE SET " + strings.Join(updates, ", ")
}
