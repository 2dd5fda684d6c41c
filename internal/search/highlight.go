package search

import (
	"html"
	"strings"
)

// Marker is the fixed markup pair inserted around a matched span
type Marker struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// DefaultMarker is the highlight wrapper used by the FeatherAI docs site
var DefaultMarker = Marker{
	Open:  `<mark class="bg-feather-cyan text-gray-900 px-1 rounded">`,
	Close: `</mark>`,
}

// Highlighter wraps query matches in a Marker
type Highlighter struct {
	marker     Marker
	escapeHTML bool
}

// Option configures a Highlighter
type Option func(*Highlighter)

// WithMarker replaces the default marker pair
func WithMarker(m Marker) Option {
	return func(h *Highlighter) {
		h.marker = m
	}
}

// WithEscapeHTML escapes the text around the markers so the output is safe to
// render as HTML. The markers themselves are inserted verbatim.
func WithEscapeHTML(escape bool) Option {
	return func(h *Highlighter) {
		h.escapeHTML = escape
	}
}

// NewHighlighter returns a Highlighter using DefaultMarker unless overridden
func NewHighlighter(opts ...Option) *Highlighter {
	h := &Highlighter{marker: DefaultMarker}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Marker returns the marker pair in use
func (h *Highlighter) Marker() Marker {
	return h.marker
}

// EscapesHTML reports whether text segments are HTML-escaped
func (h *Highlighter) EscapesHTML() bool {
	return h.escapeHTML
}

// Highlight returns text with every case-insensitive, non-overlapping
// occurrence of the trimmed query wrapped in the marker pair.
// Matched text keeps its original casing. An empty query returns text
// unchanged (escaped, if the highlighter escapes HTML).
func (h *Highlighter) Highlight(text, query string) string {
	out, _ := h.highlight(text, query)
	return out
}

// HighlightCount is Highlight that also reports the number of wrapped matches
func (h *Highlighter) HighlightCount(text, query string) (string, int) {
	return h.highlight(text, query)
}

func (h *Highlighter) highlight(text, query string) (string, int) {
	spans := Spans(text, query)
	if len(spans) == 0 {
		return h.segment(text), 0
	}

	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(h.marker.Open)+len(h.marker.Close)))

	last := 0
	for _, sp := range spans {
		b.WriteString(h.segment(text[last:sp.Start]))
		b.WriteString(h.marker.Open)
		b.WriteString(h.segment(text[sp.Start:sp.End]))
		b.WriteString(h.marker.Close)
		last = sp.End
	}
	b.WriteString(h.segment(text[last:]))

	return b.String(), len(spans)
}

func (h *Highlighter) segment(s string) string {
	if h.escapeHTML {
		return html.EscapeString(s)
	}
	return s
}

var (
	rawHighlighter  = NewHighlighter()
	safeHighlighter = NewHighlighter(WithEscapeHTML(true))
)

// Highlight wraps matches of query in text with DefaultMarker.
// text is otherwise returned as-is; see HighlightHTML for untrusted text.
func Highlight(text, query string) string {
	return rawHighlighter.Highlight(text, query)
}

// HighlightHTML is Highlight with the surrounding text HTML-escaped
func HighlightHTML(text, query string) string {
	return safeHighlighter.Highlight(text, query)
}
