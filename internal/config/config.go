package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/featherai/docs-mcp-server/internal/docindex"
	"github.com/featherai/docs-mcp-server/internal/search"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvConfigPath = "FEATHERDOCS_CONFIG"
	EnvDataDir    = "FEATHERDOCS_DATA_DIR"
	EnvIndexPath  = "FEATHERDOCS_INDEX"
)

// DefaultServerName is reported to MCP clients when the config sets none
const DefaultServerName = "featherai-docs-mcp-server"

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds server settings loaded from YAML
type Config struct {
	Server struct {
		Name string `yaml:"name"`
	} `yaml:"server"`

	// DataDir overrides the per-user data directory (optional)
	DataDir string `yaml:"data_dir"`

	Index struct {
		Site string `yaml:"site"`
		Path string `yaml:"path"` // Local index file; empty means data dir or embedded
	} `yaml:"index"`

	Search struct {
		MaxResults int           `yaml:"max_results"` // 0 = no cap
		EscapeHTML bool          `yaml:"escape_html"`
		Marker     search.Marker `yaml:"marker"`
	} `yaml:"search"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	var cfg Config
	cfg.Server.Name = DefaultServerName
	cfg.Index.Site = docindex.DefaultSite
	cfg.Search.EscapeHTML = true
	cfg.Search.Marker = search.DefaultMarker
	return cfg
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path falls back to FEATHERDOCS_CONFIG,
// and to defaults only when that is unset too.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if indexPath := os.Getenv(EnvIndexPath); indexPath != "" {
		cfg.Index.Path = indexPath
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field values and fills in defaults for blanks
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		c.Server.Name = DefaultServerName
	}
	if strings.TrimSpace(c.Index.Site) == "" {
		c.Index.Site = docindex.DefaultSite
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("%w: search.max_results must be >= 0, got %d", ErrInvalidConfig, c.Search.MaxResults)
	}

	marker := c.Search.Marker
	switch {
	case marker.Open == "" && marker.Close == "":
		c.Search.Marker = search.DefaultMarker
	case marker.Open == "" || marker.Close == "":
		return fmt.Errorf("%w: search.marker needs both open and close", ErrInvalidConfig)
	}

	return nil
}

// Highlighter builds the highlighter described by the search settings
func (c Config) Highlighter() *search.Highlighter {
	return search.NewHighlighter(
		search.WithMarker(c.Search.Marker),
		search.WithEscapeHTML(c.Search.EscapeHTML),
	)
}
