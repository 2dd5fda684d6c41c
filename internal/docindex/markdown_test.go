package docindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherai/docs-mcp-server/internal/docindex"
)

func TestStripMarkdownLinks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple markdown link", "[Text](https://example.com)", "Text"},
		{"link in middle", "Start [Link Text](https://example.com) End", "Start Link Text End"},
		{"multiple links", "[First](url1) and [Second](url2)", "First and Second"},
		{"no link", "Plain text without links", "Plain text without links"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, docindex.StripMarkdownLinks(tt.input))
		})
	}
}

func TestPlainText(t *testing.T) {
	input := "Use **`AIAgent.arun()`** with *asyncio*, see [docs](/async-execution)"
	assert.Equal(t, "Use AIAgent.arun() with asyncio, see docs", docindex.PlainText(input))
}

func TestCreateAnchor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tool Calling", "tool-calling"},
		{"  API Reference  ", "api-reference"},
		{"Pydantic BaseModel Schema", "pydantic-basemodel-schema"},
		{"arun() Method", "arun-method"},
		{"Step 1 - Install", "step-1-install"},
		{"async_execution", "asyncexecution"},
		{"日本語", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, docindex.CreateAnchor(tt.input))
		})
	}
}

func TestParseMarkdown(t *testing.T) {
	page := docindex.Page{
		Route: "/tool-calling",
		Source: `# Tool Calling

Tool calling allows agents to use **custom functions**.

## Defining Tools

Define a plain Python function and pass it in the tools list.

` + "```python" + `
def get_weather(city: str) -> str:
    ## not a heading
    return "sunny"
` + "```" + `

### Type hints

- Type hints describe parameters
- Docstrings become descriptions

## Automatic [Tool Execution](/tool-calling#execution)

The agent calls tools when needed.
`,
	}

	records := docindex.ParseMarkdown(page)

	expected := []docindex.Record{
		{
			ID:      "tool-calling-overview",
			Title:   "Tool Calling",
			Content: "Tool calling allows agents to use custom functions.",
			Section: "Tool Calling",
			Route:   "/tool-calling",
		},
		{
			ID:      "tool-calling-defining-tools",
			Title:   "Defining Tools",
			Content: "Define a plain Python function and pass it in the tools list. Type hints describe parameters Docstrings become descriptions",
			Section: "Tool Calling",
			Route:   "/tool-calling",
		},
		{
			ID:      "tool-calling-automatic-tool-execution",
			Title:   "Automatic Tool Execution",
			Content: "The agent calls tools when needed.",
			Section: "Tool Calling",
			Route:   "/tool-calling",
		},
	}
	assert.Equal(t, expected, records)
}

func TestParseMarkdown_NoOverviewText(t *testing.T) {
	page := docindex.Page{
		Route:  "/",
		Source: "# Getting Started\n## Installation\npip install feather-ai\n",
	}

	records := docindex.ParseMarkdown(page)

	require.Len(t, records, 1)
	assert.Equal(t, "getting-started-installation", records[0].ID)
}

func TestParseMarkdown_RepeatedHeadings(t *testing.T) {
	page := docindex.Page{
		Route: "/guide",
		Source: `# Guide
Intro text.
## Example
First example.
## Example
Second example.
## Example
Third example.
## Example 2
Numbered heading.
`,
	}

	records := docindex.ParseMarkdown(page)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"guide-overview",
		"guide-example",
		"guide-example-2",
		"guide-example-3",
		"guide-example-2-2",
	}, ids)

	data, err := docindex.Marshal(docindex.New("test", records))
	require.NoError(t, err)
	_, err = docindex.Parse(data, docindex.FormatJSON)
	assert.NoError(t, err)
}

func TestParseMarkdown_HeadingWithoutAnchorText(t *testing.T) {
	page := docindex.Page{
		Route:  "/ja",
		Source: "## 日本語\nはじめに\n## 設定\n設定の説明\n",
	}

	records := docindex.ParseMarkdown(page)

	require.Len(t, records, 2)
	assert.Equal(t, "heading-1", records[0].ID)
	assert.Equal(t, "日本語", records[0].Title)
	assert.Equal(t, "heading-2", records[1].ID)

	data, err := docindex.Marshal(docindex.New("test", records))
	require.NoError(t, err)
	_, err = docindex.Parse(data, docindex.FormatJSON)
	assert.NoError(t, err)
}

func TestParseMarkdown_Empty(t *testing.T) {
	assert.Empty(t, docindex.ParseMarkdown(docindex.Page{Route: "/"}))
}
