package prompts

import (
	"slices"
	"strings"

	"github.com/JaimeStill/gallery/pkg/pagination"
)

// SortNewest returns a copy of items ordered by CreatedAt descending.
// Records without a creation time sort last; ties keep their input order.
func SortNewest(items []Prompt) []Prompt {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Prompt) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// Matches reports whether p's title or description contains query, ignoring
// case. Surrounding whitespace in query is significant. A blank query matches
// every record.
func Matches(p Prompt, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Filter returns the records matching query, preserving order.
func Filter(items []Prompt, query string) []Prompt {
	if strings.TrimSpace(query) == "" {
		return items
	}

	matched := make([]Prompt, 0, len(items))
	for _, p := range items {
		if Matches(p, query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Browse orders items newest first, filters by query, and returns the requested page.
func Browse(items []Prompt, query string, page, pageSize int) pagination.PageResult[Prompt] {
	return pagination.Slice(Filter(SortNewest(items), query), page, pageSize)
}
