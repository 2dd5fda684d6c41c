package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/featherai/docs-mcp-server/internal/config"
	"github.com/featherai/docs-mcp-server/internal/docindex"
	"github.com/featherai/docs-mcp-server/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	indexDir      = "index"
	lockFile      = "index.lock"
	lockTimeout   = 5 * time.Second // Max time to wait for lock
	lockRetryWait = 500 * time.Millisecond

	dataDirName = ".featherai-docs"
)

var (
	dataDir     string // Data directory for the extracted/local index
	settings    = config.Default()
	highlighter = settings.Highlighter()
)

// ErrRecordNotFound is returned when a record id is not in the current index
var ErrRecordNotFound = errors.New("record not found")

// Configure applies server settings. It must run before InitializeDocSearch.
func Configure(cfg config.Config) {
	settings = cfg
	highlighter = cfg.Highlighter()
	dataDir = resolveDataDir(cfg.DataDir)
	indexMgr = &indexHolder{}
}

// resolveDataDir picks the data directory: explicit override, then the user
// home directory, then a data/ directory next to the binary, then ./data
func resolveDataDir(override string) string {
	if override != "" {
		if err := os.MkdirAll(filepath.Join(override, indexDir), 0755); err != nil {
			log.Printf("Warning: Could not create data directory at %s: %v", override, err)
		}
		log.Printf("✓ Data directory: %s (configured)", override)
		return override
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userDataDir := filepath.Join(homeDir, dataDirName)

		if info, err := os.Stat(userDataDir); err == nil && info.IsDir() {
			log.Printf("✓ Data directory: %s (user home)", userDataDir)
			return userDataDir
		}

		if err := os.MkdirAll(filepath.Join(userDataDir, indexDir), 0755); err == nil {
			log.Printf("✓ Data directory created: %s", userDataDir)
			return userDataDir
		}

		log.Printf("Warning: Could not create user data directory at %s: %v", userDataDir, err)
	} else {
		log.Printf("Warning: Could not determine user home directory: %v", err)
	}

	if execPath, err := os.Executable(); err == nil {
		relativeDataDir := filepath.Join(filepath.Dir(execPath), "data")
		if info, err := os.Stat(relativeDataDir); err == nil && info.IsDir() {
			log.Printf("✓ Data directory: %s (relative to binary)", relativeDataDir)
			return relativeDataDir
		}
	}

	fallback := filepath.Join(".", "data")
	log.Printf("⚠️  Data directory (fallback): %s", fallback)
	os.MkdirAll(filepath.Join(fallback, indexDir), 0755)
	return fallback
}

// cleanStaleLock removes lock file if the owning process is dead
func cleanStaleLock() error {
	lockPath := filepath.Join(dataDir, lockFile)

	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		log.Printf("Warning: Corrupted lock file (invalid PID), removing...")
		return os.Remove(lockPath)
	}

	if isProcessRunning(pid) {
		return fmt.Errorf("lock held by running process %d", pid)
	}

	log.Printf("Stale lock detected (PID %d not running), cleaning...", pid)
	return os.Remove(lockPath)
}

// acquireLock takes the data directory lock, waiting up to lockTimeout
func acquireLock() error {
	lockPath := filepath.Join(dataDir, lockFile)
	ourPID := os.Getpid()

	if data, err := os.ReadFile(lockPath); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid == ourPID {
			return nil
		}
	}

	startTime := time.Now()

	for {
		if err := cleanStaleLock(); err != nil {
			elapsed := time.Since(startTime)
			if elapsed >= lockTimeout {
				return fmt.Errorf("timeout waiting for index lock after %v: %w", elapsed, err)
			}

			log.Printf("Index locked by another process, waiting... (%v elapsed)", elapsed.Round(100*time.Millisecond))
			time.Sleep(lockRetryWait)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
			return fmt.Errorf("failed to create lock directory: %w", err)
		}
		if err := os.WriteFile(lockPath, []byte(strconv.Itoa(ourPID)), 0644); err != nil {
			return fmt.Errorf("failed to create lock file: %w", err)
		}

		log.Printf("✓ Index lock acquired (PID %d)", ourPID)
		return nil
	}
}

// releaseLock removes the lock file if this process owns it
func releaseLock() error {
	lockPath := filepath.Join(dataDir, lockFile)

	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err == nil && pid != os.Getpid() {
		log.Printf("Warning: Lock file contains different PID (%d vs %d), not removing", pid, os.Getpid())
		return nil
	}

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	log.Printf("✓ Index lock released")
	return nil
}

// indexHolder publishes the current index. Indexes are immutable, so
// searches read the pointer without locking and a refresh swaps in a new
// value while in-flight searches finish on the old one.
type indexHolder struct {
	current atomic.Pointer[docindex.Index]

	// refreshMu serializes loads; the fields below are guarded by it
	refreshMu sync.Mutex
	source    string    // file the current index came from, "" for embedded
	modTime   time.Time // modification time of source when loaded
	size      int64     // size of source when loaded
}

var (
	indexMgr = &indexHolder{}
)

// localIndexPath is the configured index file, or the data directory copy
func localIndexPath() string {
	if settings.Index.Path != "" {
		return settings.Index.Path
	}
	return filepath.Join(dataDir, indexDir, settings.Index.Site+".json")
}

// embeddedIndexPath is the embedded index for a site
func embeddedIndexPath(site string) string {
	return "data/index/" + site + ".json"
}

// loadEmbeddedIndex parses the index compiled into the binary
func loadEmbeddedIndex() (*docindex.Index, error) {
	data, err := defaultDataProvider.ReadFile(embeddedIndexPath(settings.Index.Site))
	if err != nil {
		sites, _ := EmbeddedSites()
		return nil, fmt.Errorf("no embedded index for site %q (embedded: %s): %w",
			settings.Index.Site, strings.Join(sites, ", "), err)
	}
	return docindex.Parse(data, docindex.FormatJSON)
}

// extractEmbeddedIndex writes the embedded index to the data directory so it can be edited locally
func extractEmbeddedIndex(path string) error {
	data, err := defaultDataProvider.ReadFile(embeddedIndexPath(settings.Index.Site))
	if err != nil {
		return fmt.Errorf("failed to read embedded index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move index into place: %w", err)
	}

	log.Printf("✓ Embedded index extracted to %s", path)
	return nil
}

// store publishes idx; info is nil for the embedded index. Callers hold refreshMu.
func (h *indexHolder) store(idx *docindex.Index, source string, info os.FileInfo) {
	h.current.Store(idx)
	h.source = source
	h.modTime, h.size = time.Time{}, 0
	if info != nil {
		h.modTime, h.size = info.ModTime(), info.Size()
	}
}

// unchanged reports whether path still matches the loaded file.
// Edits that keep both size and mtime (within filesystem granularity) need a forced refresh.
func (h *indexHolder) unchanged(path string, info os.FileInfo) bool {
	return h.source == path && info.ModTime().Equal(h.modTime) && info.Size() == h.size
}

// loadFrom loads an index file and publishes it; callers hold refreshMu
func (h *indexHolder) loadFrom(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	idx, err := docindex.LoadFile(path)
	if err != nil {
		return err
	}

	h.store(idx, path, info)
	return nil
}

// InitializeDocSearch loads the documentation index
// Priority: configured index file > data directory copy > embedded index
func InitializeDocSearch() error {
	startTime := time.Now()
	log.Printf("Initializing documentation search...")

	indexMgr.refreshMu.Lock()
	defer indexMgr.refreshMu.Unlock()

	path := localIndexPath()

	// Strategy 1: explicitly configured index file
	if settings.Index.Path != "" {
		err := indexMgr.loadFrom(path)
		if err == nil {
			logInitialized(startTime, path)
			return nil
		}
		log.Printf("Warning: Configured index %s unusable: %v", path, err)
		return initializeEmbedded(startTime)
	}

	// Strategy 2: data directory copy, extracted from the embedded index on first run
	if err := acquireLock(); err != nil {
		log.Printf("Warning: %v", err)
		return initializeEmbedded(startTime)
	}
	defer func() {
		if err := releaseLock(); err != nil {
			log.Printf("Error releasing lock: %v", err)
		}
	}()

	if _, err := os.Stat(path); err == nil {
		err := indexMgr.loadFrom(path)
		if err == nil {
			logInitialized(startTime, path)
			return nil
		}
		log.Printf("Warning: Local index corrupted (%v), re-extracting...", err)
	}

	if err := extractEmbeddedIndex(path); err != nil {
		log.Printf("Warning: %v", err)
		return initializeEmbedded(startTime)
	}
	if err := indexMgr.loadFrom(path); err != nil {
		return fmt.Errorf("failed to open extracted index: %w", err)
	}
	logInitialized(startTime, path)
	return nil
}

// initializeEmbedded publishes the embedded index directly; callers hold refreshMu
func initializeEmbedded(startTime time.Time) error {
	idx, err := loadEmbeddedIndex()
	if err != nil {
		return err
	}
	indexMgr.store(idx, "", nil)
	logInitialized(startTime, "embedded")
	return nil
}

func logInitialized(startTime time.Time, source string) {
	idx := indexMgr.current.Load()
	log.Printf("✓ Documentation search initialized (%d records, site %s, %s) in %v",
		idx.Len(), idx.Site(), source, time.Since(startTime).Round(time.Millisecond))
}

// currentIndex returns the published index, initializing on first use
func currentIndex() (*docindex.Index, error) {
	idx := indexMgr.current.Load()
	if idx != nil {
		return idx, nil
	}

	log.Printf("Doc index not initialized, initializing now...")
	if err := InitializeDocSearch(); err != nil {
		return nil, fmt.Errorf("failed to initialize documentation index: %w", err)
	}

	idx = indexMgr.current.Load()
	if idx == nil {
		return nil, fmt.Errorf("index still nil after initialization")
	}
	return idx, nil
}

// refreshDocumentationIndex reloads the local index file when it changed
// since the last load. It reports whether a new index was published.
func refreshDocumentationIndex(force bool) (bool, error) {
	startTime := time.Now()

	indexMgr.refreshMu.Lock()
	defer indexMgr.refreshMu.Unlock()

	path := localIndexPath()
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("index file unavailable: %w", err)
	}

	if !force && indexMgr.unchanged(path, info) {
		log.Printf("Index file unchanged since last load, skipping refresh")
		return false, nil
	}

	if err := indexMgr.loadFrom(path); err != nil {
		return false, fmt.Errorf("reload failed: %w", err)
	}

	log.Printf("✓ Documentation index refreshed from %s in %v", path, time.Since(startTime).Round(time.Millisecond))
	return true, nil
}

// SearchResult is one matching record with highlighted display fields
type SearchResult struct {
	Record      docindex.Record `json:"record"`
	TitleHTML   string          `json:"title_html"`
	ContentHTML string          `json:"content_html"`
}

// SearchDocumentationInput defines input for search_documentation tool
type SearchDocumentationInput struct {
	Query      string `json:"query" jsonschema:"Search text, matched case-insensitively as a substring of title, content or section"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to the server setting)"`
}

// SearchDocumentationOutput defines output for search_documentation tool
type SearchDocumentationOutput struct {
	Results   []SearchResult `json:"results"`
	Query     string         `json:"query"`
	Active    bool           `json:"active"`
	TotalHits int            `json:"total_hits"`
	Site      string         `json:"site"`
}

// SearchDocumentation filters the documentation index by query
func SearchDocumentation(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentationInput) (*mcp.CallToolResult, SearchDocumentationOutput, error) {
	idx, err := currentIndex()
	if err != nil {
		return nil, SearchDocumentationOutput{}, err
	}

	output := SearchDocumentationOutput{
		Results: []SearchResult{},
		Query:   input.Query,
		Active:  strings.TrimSpace(input.Query) != "",
		Site:    idx.Site(),
	}
	if !output.Active {
		return nil, output, nil
	}

	matches := search.Filter(input.Query, idx.Records())
	output.TotalHits = len(matches)

	limit := input.MaxResults
	if limit <= 0 {
		limit = settings.Search.MaxResults
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	h := highlighter
	for _, r := range matches {
		output.Results = append(output.Results, SearchResult{
			Record:      r,
			TitleHTML:   h.Highlight(r.Title, input.Query),
			ContentHTML: h.Highlight(r.Content, input.Query),
		})
	}

	return nil, output, nil
}

// HighlightTextInput defines input for highlight_text tool
type HighlightTextInput struct {
	Text  string `json:"text" jsonschema:"Text to annotate"`
	Query string `json:"query" jsonschema:"Literal text to highlight, matched case-insensitively"`
}

// HighlightTextOutput defines output for highlight_text tool
type HighlightTextOutput struct {
	Highlighted string        `json:"highlighted"`
	Matches     int           `json:"matches"`
	Spans       []search.Span `json:"spans"`
}

// HighlightText wraps every occurrence of query in text with the configured marker
func HighlightText(ctx context.Context, req *mcp.CallToolRequest, input HighlightTextInput) (*mcp.CallToolResult, HighlightTextOutput, error) {
	highlighted, count := highlighter.HighlightCount(input.Text, input.Query)

	spans := search.Spans(input.Text, input.Query)
	if spans == nil {
		spans = []search.Span{}
	}

	return nil, HighlightTextOutput{
		Highlighted: highlighted,
		Matches:     count,
		Spans:       spans,
	}, nil
}

// GetDocumentationRecordInput defines input for get_documentation_record tool
type GetDocumentationRecordInput struct {
	ID string `json:"id" jsonschema:"Record id, as returned by search_documentation"`
}

// GetDocumentationRecordOutput defines output for get_documentation_record tool
type GetDocumentationRecordOutput struct {
	Record docindex.Record `json:"record"`
}

// GetDocumentationRecord looks up a single record by id
func GetDocumentationRecord(ctx context.Context, req *mcp.CallToolRequest, input GetDocumentationRecordInput) (*mcp.CallToolResult, GetDocumentationRecordOutput, error) {
	idx, err := currentIndex()
	if err != nil {
		return nil, GetDocumentationRecordOutput{}, err
	}

	record, ok := idx.ByID(input.ID)
	if !ok {
		return nil, GetDocumentationRecordOutput{}, fmt.Errorf("%w: %q", ErrRecordNotFound, input.ID)
	}
	return nil, GetDocumentationRecordOutput{Record: record}, nil
}

// RefreshDocumentationIndexInput defines input for refresh_documentation_index tool
type RefreshDocumentationIndexInput struct {
	Force bool `json:"force,omitempty" jsonschema:"Reload even if the index file is unchanged (optional, defaults to false)"`
}

// RefreshDocumentationIndexOutput defines output for refresh_documentation_index tool
type RefreshDocumentationIndexOutput struct {
	Updated bool   `json:"updated"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	Message string `json:"message"`
}

// RefreshDocumentationIndex reloads the local index file
func RefreshDocumentationIndex(ctx context.Context, req *mcp.CallToolRequest, input RefreshDocumentationIndexInput) (*mcp.CallToolResult, RefreshDocumentationIndexOutput, error) {
	output := RefreshDocumentationIndexOutput{
		Source: localIndexPath(),
	}

	updated, err := refreshDocumentationIndex(input.Force)
	if err != nil {
		return nil, output, fmt.Errorf("refresh failed: %w", err)
	}

	if idx := indexMgr.current.Load(); idx != nil {
		output.Records = idx.Len()
	}

	output.Updated = updated
	if updated {
		output.Message = fmt.Sprintf("Documentation index reloaded, %d records", output.Records)
	} else {
		output.Message = "Index file unchanged"
	}

	return nil, output, nil
}

// RegisterDocSearchTools registers documentation search tools
func RegisterDocSearchTools(server *mcp.Server) error {
	if err := InitializeDocSearch(); err != nil {
		log.Printf("Warning: Documentation search initialization failed: %v", err)
		log.Printf("Documentation search will attempt to initialize on first use")
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_documentation",
			Description: "Search the FeatherAI documentation. Returns every entry whose title, content or section contains the query (case-insensitive), in documentation order, with matches highlighted.",
		},
		SearchDocumentation,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "highlight_text",
			Description: "Wrap every case-insensitive occurrence of a literal query in text with the highlight marker.",
		},
		HighlightText,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_documentation_record",
			Description: "Fetch one documentation entry by id, including its route.",
		},
		GetDocumentationRecord,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "refresh_documentation_index",
			Description: "Reload the local documentation index file if its size or modification time changed. Use force to reload an edit that kept both.",
		},
		RefreshDocumentationIndex,
	)

	return nil
}

// CloseDocSearch drops the current index and releases the data directory lock
func CloseDocSearch() error {
	if indexMgr != nil {
		if idx := indexMgr.current.Swap(nil); idx != nil {
			log.Printf("✓ Doc index released (%d records)", idx.Len())
		}
	}

	if dataDir == "" {
		return nil
	}
	return releaseLock()
}
