package tools

import (
	"context"
	"fmt"

	"github.com/featherai/docs-mcp-server/internal/docindex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListSectionsInput defines input for list_sections tool
type ListSectionsInput struct {
	// No input needed - returns all sections
}

// ListSectionsOutput defines output for list_sections tool
type ListSectionsOutput struct {
	Site     string             `json:"site"`
	Sections []docindex.Section `json:"sections"`
	Count    int                `json:"count"`
}

// ListSections returns the documentation navigation: one entry per section,
// in the order the sections first appear in the index
func ListSections(ctx context.Context, req *mcp.CallToolRequest, input ListSectionsInput) (*mcp.CallToolResult, ListSectionsOutput, error) {
	idx, err := currentIndex()
	if err != nil {
		return nil, ListSectionsOutput{}, fmt.Errorf("failed to load documentation index: %w", err)
	}

	sections := idx.Sections()
	return nil, ListSectionsOutput{
		Site:     idx.Site(),
		Sections: sections,
		Count:    len(sections),
	}, nil
}

// RegisterSectionTools registers navigation tools
func RegisterSectionTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_sections",
			Description: "List documentation sections with the route of each section page and how many entries it holds.",
		},
		ListSections,
	)
}
