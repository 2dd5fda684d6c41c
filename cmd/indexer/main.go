package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/featherai/docs-mcp-server/internal/docindex"
)

func main() {
	var site string
	flag.StringVar(&site, "site", docindex.DefaultSite, "Site name recorded in the index")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-site name] <pages-dir> <index-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s docs/pages tools/data/index/featherai.json\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	pagesDir := flag.Arg(0)
	indexFile := flag.Arg(1)

	log.Printf("FeatherAI Documentation Indexer v%d", docindex.IndexSchemaVersion)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Step 1: Read pages
	log.Printf("Reading pages: %s", pagesDir)
	pages, err := readPages(pagesDir)
	if err != nil {
		log.Fatalf("Failed to read pages: %v", err)
	}

	// Step 2: Extract records
	var records []docindex.Record
	for _, page := range pages {
		pageRecords := docindex.ParseMarkdown(page)
		log.Printf("  %-24s %d records", page.Route, len(pageRecords))
		records = append(records, pageRecords...)
	}

	// Step 3: Validate through the same path the server loads with
	data, err := docindex.Marshal(docindex.New(site, records))
	if err != nil {
		log.Fatalf("Failed to encode index: %v", err)
	}
	idx, err := docindex.Parse(data, docindex.FormatJSON)
	if err != nil {
		log.Fatalf("Generated index is invalid: %v", err)
	}

	// Step 4: Write
	if err := os.MkdirAll(filepath.Dir(indexFile), 0755); err != nil {
		log.Fatalf("Failed to create index directory: %v", err)
	}
	if err := os.WriteFile(indexFile, data, 0644); err != nil {
		log.Fatalf("Failed to write index: %v", err)
	}

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✓ Indexing complete!")
	log.Printf("")
	log.Printf("Index details:")
	log.Printf("  Location: %s", indexFile)
	log.Printf("  Site:     %s", idx.Site())
	log.Printf("  Pages:    %d", len(pages))
	log.Printf("  Sections: %d", len(idx.Sections()))
	log.Printf("  Records:  %d", idx.Len())
}

// readPages loads every *.md file in dir. index.md is served at "/", any
// other file at "/<name>". Pages are ordered with index.md first, then by name.
func readPages(dir string) ([]docindex.Page, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no markdown pages in %s", dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		ri, rj := pageRoute(matches[i]), pageRoute(matches[j])
		if ri == "/" || rj == "/" {
			return ri == "/" && rj != "/"
		}
		return ri < rj
	})

	pages := make([]docindex.Page, 0, len(matches))
	for _, path := range matches {
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		pages = append(pages, docindex.Page{
			Route:  pageRoute(path),
			Source: string(source),
		})
	}
	return pages, nil
}

func pageRoute(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "index" {
		return "/"
	}
	return "/" + docindex.CreateAnchor(name)
}
