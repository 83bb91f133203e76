package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://specindex.invalid/schemas/"

// Schema names, one per record kind.
const (
	SchemaTOC        = "toc"
	SchemaSection    = "section"
	SchemaMetadata   = "metadata"
	SchemaValidation = "validation"
)

// RecordError is a schema violation in one record of a file.
type RecordError struct {
	Record  int    `json:"record"` // 1-based; 0 for whole-document files
	Message string `json:"message"`
}

// CheckResult summarises a schema check of one file.
type CheckResult struct {
	Path    string        `json:"path"`
	Schema  string        `json:"schema"`
	Records int           `json:"records"`
	Errors  []RecordError `json:"errors"`
}

// OK reports whether every record conformed.
func (r *CheckResult) OK() bool {
	return len(r.Errors) == 0
}

// Checker validates output files against the embedded JSON schemas.
type Checker struct {
	schemas map[string]*jsonschema.Schema
}

// NewChecker compiles the embedded schemas.
func NewChecker() (*Checker, error) {
	compiler := jsonschema.NewCompiler()
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(schemaBaseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to load schema %s: %w", entry.Name(), err)
		}
	}

	c := &Checker{schemas: make(map[string]*jsonschema.Schema)}
	for _, name := range []string{SchemaTOC, SchemaSection, SchemaMetadata, SchemaValidation} {
		schema, err := compiler.Compile(schemaBaseURL + name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		c.schemas[name] = schema
	}
	return c, nil
}

// SchemaForPath picks the schema from an output file's suffix. The merged
// spec file returns "spec", whose records carry their own type.
func SchemaForPath(p string) (string, error) {
	switch {
	case strings.HasSuffix(p, "-toc.jsonl"):
		return SchemaTOC, nil
	case strings.HasSuffix(p, "-sections.jsonl"):
		return SchemaSection, nil
	case strings.HasSuffix(p, "-spec.jsonl"):
		return "spec", nil
	case strings.HasSuffix(p, "-metadata.json"):
		return SchemaMetadata, nil
	case strings.HasSuffix(p, "-validation.json"):
		return SchemaValidation, nil
	}
	return "", fmt.Errorf("cannot tell the record kind of %s", p)
}

// Validate checks a single decoded JSON value against the named schema.
func (c *Checker) Validate(name string, doc any) error {
	schema, ok := c.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	return schema.Validate(doc)
}

// CheckFile validates every record of an output file.
func (c *Checker) CheckFile(p string) (*CheckResult, error) {
	name, err := SchemaForPath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Path: p, Schema: name, Errors: []RecordError{}}

	if strings.HasSuffix(p, ".json") {
		result.Records = 1
		doc, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if err := c.Validate(name, doc); err != nil {
			result.Errors = append(result.Errors, RecordError{Message: err.Error()})
		}
		return result, nil
	}

	records, err := ReadJSONL[json.RawMessage](bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	checked := c.CheckRecords(name, records)
	checked.Path = p
	return checked, nil
}

// CheckRecords validates already split records against the named schema, or
// against each record's own type when name is "spec".
func (c *Checker) CheckRecords(name string, records []json.RawMessage) *CheckResult {
	result := &CheckResult{Schema: name, Records: len(records), Errors: []RecordError{}}
	for i, raw := range records {
		if err := c.checkRecord(name, raw); err != nil {
			result.Errors = append(result.Errors, RecordError{Record: i + 1, Message: err.Error()})
		}
	}
	return result
}

func (c *Checker) checkRecord(name string, raw json.RawMessage) error {
	doc, err := decode(raw)
	if err != nil {
		return err
	}
	if name == "spec" {
		m, ok := doc.(map[string]any)
		if !ok {
			return fmt.Errorf("record is not an object")
		}
		switch m["type"] {
		case TypeMetadata:
			name = SchemaMetadata
		case TypeTOC:
			name = SchemaTOC
		case TypeSection:
			name = SchemaSection
		default:
			return fmt.Errorf("unknown record type %v", m["type"])
		}
	}
	return c.Validate(name, doc)
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
