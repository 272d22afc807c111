package query

import (
	"strconv"
	"strings"
)

// SortField orders results by a projected field.
type SortField struct {
	Field      string
	Descending bool
}

// predicate renders one WHERE term, binding values through bind, which
// returns the positional placeholder for each value.
type predicate func(bind func(any) string) string

// Builder assembles SELECT statements over a ProjectionMap with numbered
// ($1, $2, ...) parameters.
type Builder struct {
	projection *ProjectionMap
	predicates []predicate
	sort       []SortField
}

// NewBuilder starts a statement over projection ordered by sort.
func NewBuilder(projection *ProjectionMap, sort ...SortField) *Builder {
	return &Builder{projection: projection, sort: sort}
}

// WhereSearch matches search as a literal, case-insensitive substring of
// any of fields. Blank searches add nothing.
func (b *Builder) WhereSearch(search string, fields ...string) *Builder {
	if strings.TrimSpace(search) == "" || len(fields) == 0 {
		return b
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = b.projection.Column(f)
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"

	b.predicates = append(b.predicates, func(bind func(any) string) string {
		terms := make([]string, len(columns))
		for i, col := range columns {
			terms[i] = col + " ILIKE " + bind(pattern)
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	})
	return b
}

// Build returns the ordered SELECT.
func (b *Builder) Build() (string, []any) {
	return b.render(true, "")
}

// BuildCount returns a COUNT(*) over the same predicates, unordered.
func (b *Builder) BuildCount() (string, []any) {
	var sql strings.Builder
	sql.WriteString("SELECT COUNT(*) FROM ")
	sql.WriteString(b.projection.From())
	args := b.writeWhere(&sql)
	return sql.String(), args
}

// BuildPage returns one page of the ordered SELECT. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	offset := (page - 1) * pageSize
	return b.render(true, " LIMIT "+strconv.Itoa(pageSize)+" OFFSET "+strconv.Itoa(offset))
}

// BuildSingle selects the row whose idField equals id, ignoring other
// predicates and ordering.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	single := &Builder{projection: b.projection}
	col := b.projection.Column(idField)
	single.predicates = []predicate{func(bind func(any) string) string {
		return col + " = " + bind(id)
	}}
	return single.render(false, "")
}

func (b *Builder) render(ordered bool, suffix string) (string, []any) {
	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(b.projection.Columns())
	sql.WriteString(" FROM ")
	sql.WriteString(b.projection.From())

	args := b.writeWhere(&sql)

	if ordered && len(b.sort) > 0 {
		sql.WriteString(" ORDER BY ")
		for i, f := range b.sort {
			if i > 0 {
				sql.WriteString(", ")
			}
			sql.WriteString(b.projection.Column(f.Field))
			if f.Descending {
				sql.WriteString(" DESC")
			} else {
				sql.WriteString(" ASC")
			}
		}
	}

	sql.WriteString(suffix)
	return sql.String(), args
}

func (b *Builder) writeWhere(sql *strings.Builder) []any {
	if len(b.predicates) == 0 {
		return nil
	}

	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for i, p := range b.predicates {
		if i == 0 {
			sql.WriteString(" WHERE ")
		} else {
			sql.WriteString(" AND ")
		}
		sql.WriteString(p(bind))
	}
	return args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
