// Package query builds parameterized PostgreSQL statements from a mapping of
// Go field names to table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps field names to alias-qualified columns for one table.
// Builders only reference fields through the map, so column names never
// come from request input.
type ProjectionMap struct {
	from    string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap describes table in schema under alias. An empty schema
// leaves the table unqualified.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	from := table + " " + alias
	if schema != "" {
		from = schema + "." + from
	}
	return &ProjectionMap{
		from:    from,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to field. Columns are selected in the order projected.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the FROM target, e.g. "public.prompts p".
func (p *ProjectionMap) From() string {
	return p.from
}

// Column returns the qualified column for field. Referencing an unprojected
// field is a programming error and panics.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.columns[field]
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected from %s", field, p.from))
	}
	return col
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
