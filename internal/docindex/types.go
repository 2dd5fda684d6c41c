package docindex

// Record represents one searchable documentation entry
type Record struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Section string `json:"section" yaml:"section"`
	Route   string `json:"route" yaml:"route"` // Navigation target, never interpreted by search
}

// Section is a sidebar navigation entry derived from an Index
type Section struct {
	Label   string `json:"label"`
	Route   string `json:"route"`
	Records int    `json:"records"`
}

// File is the on-disk shape of an index (JSON or YAML)
type File struct {
	Version int      `json:"version" yaml:"version"`
	Site    string   `json:"site" yaml:"site"`
	Records []Record `json:"records" yaml:"records"`
}
