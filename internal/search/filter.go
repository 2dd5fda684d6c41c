package search

import "github.com/featherai/docs-mcp-server/internal/docindex"

// Filter returns the records whose title, content or section contains the
// trimmed query, case-insensitively. Index order is preserved.
// An empty or whitespace-only query yields an empty result.
func Filter(query string, records []docindex.Record) []docindex.Record {
	n := newNeedle(query)
	results := make([]docindex.Record, 0)
	if len(n) == 0 {
		return results
	}

	for _, r := range records {
		if n.matches(r) {
			results = append(results, r)
		}
	}
	return results
}

// Matches reports whether a single record matches query under Filter's rule
func Matches(query string, r docindex.Record) bool {
	return newNeedle(query).matches(r)
}

func (n needle) matches(r docindex.Record) bool {
	return n.in(r.Title) || n.in(r.Content) || n.in(r.Section)
}
