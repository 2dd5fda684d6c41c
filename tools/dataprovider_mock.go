package tools

import (
	"io/fs"
	"testing/fstest"

	"github.com/featherai/docs-mcp-server/internal/docindex"
)

// MockDataProvider implements DataProvider over an in-memory file tree,
// so tests can run against indexes that are not compiled in.
type MockDataProvider struct {
	files fstest.MapFS
}

// NewMockDataProvider creates an empty mock data provider.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{files: fstest.MapFS{}}
}

// AddFile adds a file to the mock provider.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = &fstest.MapFile{Data: content, Mode: 0644}
}

// AddIndex stores idx as the embedded index of its site.
func (m *MockDataProvider) AddIndex(idx *docindex.Index) error {
	data, err := docindex.Marshal(idx)
	if err != nil {
		return err
	}
	m.AddFile(embeddedIndexPath(idx.Site()), data)
	return nil
}

func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.files, name)
}

func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(m.files, name)
}

// SetDefaultDataProvider replaces the provider used for embedded indexes.
func SetDefaultDataProvider(provider DataProvider) {
	defaultDataProvider = provider
}

// ResetDefaultDataProvider resets the default provider to use embedded data.
func ResetDefaultDataProvider() {
	defaultDataProvider = NewEmbeddedDataProvider()
}
