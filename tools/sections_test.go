package tools

import (
	"context"
	"testing"

	"github.com/featherai/docs-mcp-server/internal/docindex"
)

func TestListSections(t *testing.T) {
	setupDocSearch(t, nil)

	_, output, err := ListSections(context.Background(), nil, ListSectionsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Count != 9 || len(output.Sections) != 9 {
		t.Fatalf("Expected 9 sections, got %d", output.Count)
	}

	first := output.Sections[0]
	if first.Label != "Getting Started" || first.Route != "/" || first.Records != 4 {
		t.Errorf("Unexpected first section: %+v", first)
	}

	last := output.Sections[len(output.Sections)-1]
	if last.Label != "API Reference" || last.Route != "/api-reference" {
		t.Errorf("Unexpected last section: %+v", last)
	}

	total := 0
	for _, s := range output.Sections {
		total += s.Records
	}
	if total != 37 {
		t.Errorf("Section counts should cover all 37 records, got %d", total)
	}
}

func TestListSections_EmptyIndex(t *testing.T) {
	setupDocSearch(t, nil)
	useMockIndex(t, []docindex.Record{})

	_, output, err := ListSections(context.Background(), nil, ListSectionsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output.Sections == nil || output.Count != 0 {
		t.Errorf("Expected empty section list, got %+v", output)
	}
}
