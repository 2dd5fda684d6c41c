package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of a match within a text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// needle is a trimmed query lowered rune by rune
type needle []rune

// newNeedle trims and folds a raw query; an empty needle means no active search
func newNeedle(query string) needle {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	runes := make([]rune, 0, utf8.RuneCountInString(query))
	for _, r := range query {
		runes = append(runes, unicode.ToLower(r))
	}
	return runes
}

// matchAt reports the byte length of a match of n starting at s[i:]
func (n needle) matchAt(s string, i int) (int, bool) {
	j := i
	for _, want := range n {
		if j >= len(s) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s[j:])
		if unicode.ToLower(r) != want {
			return 0, false
		}
		j += size
	}
	return j - i, true
}

// in reports whether n occurs anywhere in s
func (n needle) in(s string) bool {
	if len(n) == 0 {
		return false
	}
	for i := 0; i < len(s); {
		if _, ok := n.matchAt(s, i); ok {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return false
}

// spans returns the leftmost, non-overlapping matches of n in s
func (n needle) spans(s string) []Span {
	if len(n) == 0 {
		return nil
	}
	var out []Span
	for i := 0; i < len(s); {
		if length, ok := n.matchAt(s, i); ok {
			out = append(out, Span{Start: i, End: i + length})
			i += length
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return out
}

// Spans returns the byte ranges in text matched by query, case-insensitively.
// An empty (or whitespace-only) query has no matches.
func Spans(text, query string) []Span {
	return newNeedle(query).spans(text)
}

// ContainsFold reports whether the trimmed query occurs in text, case-insensitively
func ContainsFold(text, query string) bool {
	return newNeedle(query).in(text)
}
