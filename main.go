package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/featherai/docs-mcp-server/internal/config"
	"github.com/featherai/docs-mcp-server/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	version     = "0.1.0"
	description = "MCP server for searching the FeatherAI documentation"
)

func main() {
	var (
		flagConfig  string
		flagVersion bool
		flagSites   bool
	)
	flag.StringVar(&flagConfig, "config", "", "Path to YAML config file (defaults to $"+config.EnvConfigPath+")")
	flag.BoolVar(&flagVersion, "version", false, "Print version and exit")
	flag.BoolVar(&flagSites, "sites", false, "List sites with an embedded index and exit")
	flag.Parse()

	if flagVersion {
		fmt.Printf("%s version %s\n", config.DefaultServerName, version)
		os.Exit(0)
	}

	if flagSites {
		sites, err := tools.EmbeddedSites()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list embedded sites: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(strings.Join(sites, "\n"))
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("%s v%s starting...", cfg.Server.Name, version)

	tools.Configure(cfg)

	server := createMCPServer(cfg.Server.Name)

	if err := registerTools(server); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	log.Printf("✓ Server ready and waiting for connections")

	defer func() {
		if err := tools.CloseDocSearch(); err != nil {
			log.Printf("Error closing doc search: %v", err)
		}
	}()

	// Run server with stdio transport
	ctx := context.Background()
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Printf("Server error: %v", err)
	}
}

// createMCPServer initializes the MCP server
func createMCPServer(name string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: description,
		},
	)

	log.Printf("Server initialized: %s v%s", name, version)
	return server
}

// registerTools registers all MCP tools
func registerTools(server *mcp.Server) error {
	if err := tools.RegisterDocSearchTools(server); err != nil {
		return fmt.Errorf("failed to register doc search tools: %w", err)
	}
	tools.RegisterSectionTools(server)

	log.Printf("✓ All tools registered: 5 tools (search + highlight + record + refresh + sections)")
	return nil
}
