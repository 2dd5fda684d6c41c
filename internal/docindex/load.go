package docindex

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed index.schema.json
var schemaJSON []byte

var (
	// ErrDuplicateID is returned when two records share an id
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrUnsupportedVersion is returned for index files newer than this build understands
	ErrUnsupportedVersion = errors.New("unsupported index version")
)

// Format is the encoding of an index file
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension; anything not YAML is JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SchemaError describes a schema violation at a location in the index document
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func indexSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse index schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(SchemaURL, schemaDoc); err != nil {
			compileErr = fmt.Errorf("failed to add index schema: %w", err)
			return
		}

		compiledSchema, compileErr = compiler.Compile(SchemaURL)
	})
	return compiledSchema, compileErr
}

// Validate checks a decoded index document against the index JSON Schema.
// doc must be JSON-shaped (maps, slices, strings, numbers).
func Validate(doc any) error {
	schema, err := indexSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			leaf := deepestCause(validationErr)
			path := "$"
			if len(leaf.InstanceLocation) > 0 {
				path = "$." + strings.Join(leaf.InstanceLocation, ".")
			}
			return &SchemaError{Path: path, Message: leaf.Error()}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// deepestCause walks the cause tree and returns the error reported at the
// deepest instance location; the root error always points at the document.
func deepestCause(validationErr *jsonschema.ValidationError) *jsonschema.ValidationError {
	deepest := validationErr
	for _, cause := range validationErr.Causes {
		if c := deepestCause(cause); len(c.InstanceLocation) > len(deepest.InstanceLocation) {
			deepest = c
		}
	}
	return deepest
}

// Parse decodes, validates and builds an Index from raw file contents
func Parse(data []byte, format Format) (*Index, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid index: %w", err)
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if file.Version > IndexSchemaVersion {
		return nil, fmt.Errorf("%w: have v%d, support up to v%d", ErrUnsupportedVersion, file.Version, IndexSchemaVersion)
	}

	seen := make(map[string]struct{}, len(file.Records))
	for _, r := range file.Records {
		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	return New(file.Site, file.Records), nil
}

// toJSON normalizes YAML input to JSON so both formats share one validation path
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode yaml index: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert yaml index: %w", err)
	}
	return raw, nil
}

// LoadFile reads and parses an index file, picking the format from its extension
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	idx, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

// Marshal encodes an index as indented JSON
func Marshal(idx *Index) ([]byte, error) {
	data, err := json.MarshalIndent(idx.File(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	return append(data, '\n'), nil
}
