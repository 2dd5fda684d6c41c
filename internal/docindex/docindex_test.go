package docindex_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherai/docs-mcp-server/internal/docindex"
)

const embeddedIndex = "../../tools/data/index/featherai.json"

func TestLoadFile_EmbeddedIndex(t *testing.T) {
	idx, err := docindex.LoadFile(embeddedIndex)
	require.NoError(t, err)

	assert.Equal(t, "featherai", idx.Site())
	assert.Equal(t, docindex.IndexSchemaVersion, idx.Version())
	assert.Equal(t, 37, idx.Len())

	records := idx.Records()
	assert.Equal(t, "getting-started-intro", records[0].ID)
	assert.Equal(t, "api-document-class", records[len(records)-1].ID)
}

func TestIndex_Sections(t *testing.T) {
	idx, err := docindex.LoadFile(embeddedIndex)
	require.NoError(t, err)

	want := []docindex.Section{
		{Label: "Getting Started", Route: "/", Records: 4},
		{Label: "System Instructions", Route: "/system-instructions", Records: 3},
		{Label: "Tool Calling", Route: "/tool-calling", Records: 4},
		{Label: "Structured Output", Route: "/structured-output", Records: 4},
		{Label: "Multimodal", Route: "/multimodal", Records: 5},
		{Label: "Async Execution", Route: "/async-execution", Records: 5},
		{Label: "Examples", Route: "/examples", Records: 3},
		{Label: "Featured Projects", Route: "/featured-projects", Records: 3},
		{Label: "API Reference", Route: "/api-reference", Records: 6},
	}
	assert.Equal(t, want, idx.Sections())
}

func TestIndex_SectionsInterleaved(t *testing.T) {
	idx := docindex.New("test", []docindex.Record{
		{ID: "1", Section: "B", Route: "/b"},
		{ID: "2", Section: "A", Route: "/a"},
		{ID: "3", Section: "B", Route: "/b2"},
	})

	assert.Equal(t, []docindex.Section{
		{Label: "B", Route: "/b", Records: 2},
		{Label: "A", Route: "/a", Records: 1},
	}, idx.Sections())
	assert.Empty(t, docindex.New("empty", nil).Sections())
}

func TestIndex_Immutable(t *testing.T) {
	input := []docindex.Record{{ID: "a", Title: "Original"}}
	idx := docindex.New("test", input)

	input[0].Title = "Changed by caller"
	assert.Equal(t, "Original", idx.Records()[0].Title)

	out := idx.Records()
	out[0].Title = "Changed by reader"
	assert.Equal(t, "Original", idx.Records()[0].Title)
}

func TestIndex_ByID(t *testing.T) {
	idx, err := docindex.LoadFile(embeddedIndex)
	require.NoError(t, err)

	r, ok := idx.ByID("tool-calling-overview")
	require.True(t, ok)
	assert.Equal(t, "Tool Calling", r.Title)
	assert.Equal(t, "/tool-calling", r.Route)

	_, ok = idx.ByID("missing")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "not json",
			input:   `{"version": 1,`,
			wantErr: "failed to decode index",
		},
		{
			name:    "missing records",
			input:   `{"version": 1, "site": "x"}`,
			wantErr: "invalid index",
		},
		{
			name:    "missing route",
			input:   `{"version": 1, "site": "x", "records": [{"id": "a", "title": "A", "content": "", "section": "S"}]}`,
			wantErr: "invalid index",
		},
		{
			name:    "relative route",
			input:   `{"version": 1, "site": "x", "records": [{"id": "a", "title": "A", "content": "", "section": "S", "route": "docs"}]}`,
			wantErr: "invalid index",
		},
		{
			name:    "empty id",
			input:   `{"version": 1, "site": "x", "records": [{"id": "", "title": "A", "content": "", "section": "S", "route": "/"}]}`,
			wantErr: "invalid index",
		},
		{
			name:    "title not a string",
			input:   `{"version": 1, "site": "x", "records": [{"id": "a", "title": 3, "content": "", "section": "S", "route": "/"}]}`,
			wantErr: "invalid index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docindex.Parse([]byte(tt.input), docindex.FormatJSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_SchemaErrorLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{
			name: "route of second record",
			input: `{"version": 1, "site": "x", "records": [
				{"id": "a", "title": "A", "content": "", "section": "S", "route": "/"},
				{"id": "b", "title": "B", "content": "", "section": "S", "route": "nope"}
			]}`,
			wantPath: "$.records.1.route",
		},
		{
			name:     "empty id",
			input:    `{"version": 1, "site": "x", "records": [{"id": "", "title": "A", "content": "", "section": "S", "route": "/"}]}`,
			wantPath: "$.records.0.id",
		},
		{
			name:     "empty site",
			input:    `{"version": 1, "site": "", "records": []}`,
			wantPath: "$.site",
		},
		{
			name:     "missing records",
			input:    `{"version": 1, "site": "x"}`,
			wantPath: "$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := docindex.Parse([]byte(tt.input), docindex.FormatJSON)
			require.Error(t, err)

			var schemaErr *docindex.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.wantPath, schemaErr.Path)
			assert.NotEmpty(t, schemaErr.Message)
		})
	}
}

func TestParse_DuplicateID(t *testing.T) {
	input := `{"version": 1, "site": "x", "records": [
		{"id": "a", "title": "A", "content": "", "section": "S", "route": "/"},
		{"id": "a", "title": "B", "content": "", "section": "S", "route": "/"}
	]}`

	_, err := docindex.Parse([]byte(input), docindex.FormatJSON)
	assert.ErrorIs(t, err, docindex.ErrDuplicateID)
}

func TestParse_NewerVersion(t *testing.T) {
	input := `{"version": 99, "site": "x", "records": []}`

	_, err := docindex.Parse([]byte(input), docindex.FormatJSON)
	assert.ErrorIs(t, err, docindex.ErrUnsupportedVersion)
}

func TestParse_YAMLMatchesJSON(t *testing.T) {
	yamlInput := `
version: 1
site: featherai-docs
records:
  - id: installation
    title: Installation
    content: "Requires Python 3.9 or higher."
    section: Getting Started
    route: /
  - id: tools
    title: Tool Calling
    content: Tools are plain functions.
    section: Tool Calling
    route: /tool-calling
`
	jsonInput := `{"version": 1, "site": "featherai-docs", "records": [
		{"id": "installation", "title": "Installation", "content": "Requires Python 3.9 or higher.", "section": "Getting Started", "route": "/"},
		{"id": "tools", "title": "Tool Calling", "content": "Tools are plain functions.", "section": "Tool Calling", "route": "/tool-calling"}
	]}`

	fromYAML, err := docindex.Parse([]byte(yamlInput), docindex.FormatYAML)
	require.NoError(t, err)
	fromJSON, err := docindex.Parse([]byte(jsonInput), docindex.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, fromJSON.File(), fromYAML.File())
}

func TestMarshal_RoundTripThroughFile(t *testing.T) {
	idx, err := docindex.LoadFile(embeddedIndex)
	require.NoError(t, err)

	data, err := docindex.Marshal(idx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	reloaded, err := docindex.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, idx.File(), reloaded.File())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := docindex.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, docindex.FormatYAML, docindex.FormatFromPath("index.yaml"))
	assert.Equal(t, docindex.FormatYAML, docindex.FormatFromPath("/x/INDEX.YML"))
	assert.Equal(t, docindex.FormatJSON, docindex.FormatFromPath("index.json"))
	assert.Equal(t, docindex.FormatJSON, docindex.FormatFromPath("index"))
	assert.Equal(t, "yaml", docindex.FormatYAML.String())
}
