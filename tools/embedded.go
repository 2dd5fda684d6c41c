package tools

import (
	"embed"
	"io/fs"
	"strings"
)

// Embedded documentation indexes, one JSON file per site.
// The server works standalone and falls back to these when no local
// index file is usable.

//go:embed data/index/*.json
var embeddedFS embed.FS

// embeddedDataProvider implements DataProvider using embed.FS.
type embeddedDataProvider struct {
	fs embed.FS
}

// NewEmbeddedDataProvider creates a production DataProvider that uses embedded files.
func NewEmbeddedDataProvider() DataProvider {
	return &embeddedDataProvider{fs: embeddedFS}
}

// ReadFile reads the named file from the embedded filesystem.
func (p *embeddedDataProvider) ReadFile(name string) ([]byte, error) {
	return p.fs.ReadFile(name)
}

// ReadDir reads the named directory from the embedded filesystem.
func (p *embeddedDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return p.fs.ReadDir(name)
}

// EmbeddedSites lists the sites that have an embedded index
func EmbeddedSites() ([]string, error) {
	entries, err := defaultDataProvider.ReadDir("data/index")
	if err != nil {
		return nil, err
	}

	sites := make([]string, 0, len(entries))
	for _, entry := range entries {
		site, ok := strings.CutSuffix(entry.Name(), ".json")
		if entry.IsDir() || !ok || site == "" {
			continue
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// Default provider used by package-level functions
var defaultDataProvider DataProvider = NewEmbeddedDataProvider()
