package tools

import (
	"io/fs"
)

// DataProvider defines the interface for accessing embedded data files.
// It lets tests swap the compiled-in indexes for in-memory ones.
//
// Implementations:
//   - embeddedDataProvider: Uses embed.FS for production (real embedded files)
//   - MockDataProvider: Uses in-memory map for testing
type DataProvider interface {
	// ReadFile reads the named file and returns its contents.
	// The name is relative to the data root (e.g., "data/index/featherai.json").
	ReadFile(name string) ([]byte, error)

	// ReadDir reads the named directory and returns its entries.
	// The name is relative to the data root (e.g., "data/index").
	ReadDir(name string) ([]fs.DirEntry, error)
}
