package docindex

const (
	// IndexSchemaVersion increments when the index file format changes
	IndexSchemaVersion = 1

	// DefaultSite is the site name of the embedded FeatherAI index
	DefaultSite = "featherai"

	// SchemaURL identifies the embedded index JSON Schema
	SchemaURL = "https://featherai.dev/schema/docindex.json"
)
