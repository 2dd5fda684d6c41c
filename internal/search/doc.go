// Package search implements the documentation search core: a substring
// filter over an ordered index and a highlighter that wraps matches in a
// marker pair.
//
// # Matching
//
// Both operations trim the query with [strings.TrimSpace] and compare runes
// after simple Unicode lowercasing. A record matches when the folded query
// is a substring of its title, content or section. No ranking is applied:
// results keep index order.
//
// Matches are found by a literal scan, never by compiling a pattern from the
// query, so characters such as `.` or `*` in a query only ever match
// themselves.
//
// # Highlighting
//
//	search.Highlight("Tool Calling", "call")
//	// Tool <mark class="bg-feather-cyan text-gray-900 px-1 rounded">Call</mark>ing
//
// [Highlight] returns text with only the markers inserted. When the result is
// rendered as raw HTML and the text is not trusted, use a [Highlighter]
// built with [WithEscapeHTML] instead:
//
//	h := search.NewHighlighter(search.WithEscapeHTML(true))
//	h.Highlight("<b>a.b</b>", "a.b")
//
// # Thread Safety
//
// All functions are pure and a Highlighter is immutable after construction,
// so everything here is safe for concurrent use.
package search
