package docindex

import (
	"regexp"
	"strconv"
	"strings"
)

var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
var inlineCodeRegex = regexp.MustCompile("`([^`]*)`")
var emphasisRegex = regexp.MustCompile(`\*\*([^*]+)\*\*|\*([^*]+)\*`)

// Page is one markdown documentation page and the route it is served at
type Page struct {
	Route  string
	Source string
}

// StripMarkdownLinks removes markdown link syntax, keeping only the text
// Example: "[Text](url)" -> "Text"
func StripMarkdownLinks(text string) string {
	return markdownLinkRegex.ReplaceAllString(text, "$1")
}

// PlainText strips inline markdown (links, code spans, emphasis)
func PlainText(text string) string {
	text = StripMarkdownLinks(text)
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = emphasisRegex.ReplaceAllString(text, "$1$2")
	return text
}

// CreateAnchor creates an id fragment from text
// Example: "Tool Calling" -> "tool-calling"
func CreateAnchor(text string) string {
	anchor := strings.ToLower(strings.TrimSpace(text))
	anchor = strings.Join(strings.Fields(anchor), "-")
	anchor = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, anchor)
	for strings.Contains(anchor, "--") {
		anchor = strings.ReplaceAll(anchor, "--", "-")
	}
	return strings.Trim(anchor, "-")
}

// ParseMarkdown extracts records from a page.
// The first H1 names the section, every H2 starts a record, and text before
// the first H2 becomes an overview record. Fenced code blocks and H3+
// headings are skipped.
func ParseMarkdown(page Page) []Record {
	lines := strings.Split(page.Source, "\n")

	var records []Record
	var section string
	var title string
	var overview bool
	var content strings.Builder
	inFence := false

	ids := make(map[string]int)
	headings := 0

	saveCurrent := func() {
		if title == "" || (overview && content.Len() == 0) {
			content.Reset()
			return
		}
		records = append(records, Record{
			ID:      uniqueID(ids, recordAnchor(section, title, overview, headings)),
			Title:   title,
			Content: content.String(),
			Section: section,
			Route:   page.Route,
		})
		content.Reset()
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence || line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "###"):
			continue
		case strings.HasPrefix(line, "##"):
			saveCurrent()
			title = PlainText(strings.TrimSpace(strings.TrimLeft(line, "#")))
			overview = false
			headings++
		case strings.HasPrefix(line, "#"):
			if section != "" {
				// A second H1 on the same page is treated as body text
				appendText(&content, PlainText(strings.TrimLeft(line, "#")))
				continue
			}
			section = PlainText(strings.TrimSpace(strings.TrimLeft(line, "#")))
			title = section
			overview = true
		default:
			if title == "" {
				continue
			}
			appendText(&content, PlainText(trimListMarker(line)))
		}
	}

	saveCurrent()
	return records
}

// recordAnchor builds "<section>-<title>" ("<section>-overview" for the
// overview record). A title without any anchor characters falls back to
// "heading-<n>", n being the position of the H2 on the page.
func recordAnchor(section, title string, overview bool, heading int) string {
	suffix := "overview"
	if !overview {
		suffix = CreateAnchor(title)
		if suffix == "" {
			suffix = "heading-" + strconv.Itoa(heading)
		}
	}
	if prefix := CreateAnchor(section); prefix != "" {
		return prefix + "-" + suffix
	}
	return suffix
}

// uniqueID returns id, or id-2, id-3... when it was already used on the page
func uniqueID(seen map[string]int, id string) string {
	seen[id]++
	if seen[id] == 1 {
		return id
	}
	for n := seen[id]; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if seen[candidate] == 0 {
			seen[candidate] = 1
			return candidate
		}
	}
}

// appendText adds a line to content, collapsing whitespace to single spaces
func appendText(b *strings.Builder, line string) {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(line)
}

// trimListMarker drops a leading bullet or blockquote marker
func trimListMarker(line string) string {
	for _, prefix := range []string{"- ", "* ", "+ ", "> "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return line
}
