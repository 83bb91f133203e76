package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// Entry is a single configuration key with its default value.
type Entry struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Description string `json:"description"`
}

// DefaultEntries returns the default configuration entries.
func DefaultEntries() []Entry {
	p := specindex.DefaultConfig()
	tags := make(map[string]any, len(p.Tags))
	for category, tokens := range p.Tags {
		tags[category] = tokens
	}

	return []Entry{
		// ===================
		// Parser
		// ===================
		{
			Key:         "parser.doc_title",
			Value:       "",
			Description: "Document title stamped on every record (defaults to the file name)",
		},
		{
			Key:         "parser.max_toc_pages",
			Value:       p.MaxTOCPages,
			Description: "Number of leading pages scanned for the table of contents",
		},
		{
			Key:         "parser.toc_page_start",
			Value:       p.TOCPageStart,
			Description: "First page of an explicit ToC range (0 to detect automatically)",
		},
		{
			Key:         "parser.toc_page_end",
			Value:       p.TOCPageEnd,
			Description: "Last page of an explicit ToC range (0 to detect automatically)",
		},
		{
			Key:         "parser.toc_min_lines",
			Value:       p.TOCMinLines,
			Description: "Minimum ToC-style lines for a page to count as a ToC page",
		},
		{
			Key:         "parser.toc_line_ratio",
			Value:       p.TOCLineRatio,
			Description: "Minimum share of ToC-style lines among non-blank lines on a ToC page",
		},
		{
			Key:         "parser.resolve_tolerance",
			Value:       p.ResolveTolerance,
			Description: "Page window searched when locating a heading by title",
		},
		{
			Key:         "parser.page_tolerance",
			Value:       p.PageTolerance,
			Description: "Page drift accepted by the validator",
		},
		{
			Key:         "parser.title_similarity",
			Value:       p.TitleSimilarityThreshold,
			Description: "Minimum token overlap for two titles to match",
		},
		{
			Key:         "parser.min_title_length",
			Value:       p.MinTitleLength,
			Description: "Heading titles shorter than this are rejected",
		},
		{
			Key:         "parser.prose_line_ratio",
			Value:       p.ProseLineRatio,
			Description: "Lines at least this fraction of the widest line are treated as wrapped prose",
		},
		{
			Key:         "parser.min_quality_score",
			Value:       p.MinQualityScore,
			Description: "Quality score a validation report needs to pass",
		},
		{
			Key:         "parser.fallback_to_headings",
			Value:       p.FallbackToHeadings,
			Description: "Build the ToC from inline headings when no ToC is found",
		},

		// ===================
		// Tags
		// ===================
		{
			Key:         "tags",
			Value:       tags,
			Description: "Keyword categories: a title containing any token gets the category as a tag",
		},

		// ===================
		// Runtime
		// ===================
		{
			Key:         "logging.level",
			Value:       "normal",
			Description: "Console log level: none, normal or debug",
		},
		{
			Key:         "output.dir",
			Value:       "out",
			Description: "Directory result files are written to",
		},
		{
			Key:         "extract.prefer_pdftotext",
			Value:       true,
			Description: "Use the pdftotext binary for PDFs when it is installed",
		},
		{
			Key:         "server.addr",
			Value:       ":8080",
			Description: "Listen address of the HTTP API",
		},
	}
}

// Default returns the configuration produced by DefaultEntries alone.
func Default() *Config {
	p := specindex.DefaultConfig()
	tags := make(map[string][]string, len(p.Tags))
	for category, tokens := range p.Tags {
		tags[category] = append([]string(nil), tokens...)
	}

	return &Config{
		Parser: ParserConfig{
			MaxTOCPages:        p.MaxTOCPages,
			TOCPageStart:       p.TOCPageStart,
			TOCPageEnd:         p.TOCPageEnd,
			TOCMinLines:        p.TOCMinLines,
			TOCLineRatio:       p.TOCLineRatio,
			ResolveTolerance:   p.ResolveTolerance,
			PageTolerance:      p.PageTolerance,
			TitleSimilarity:    p.TitleSimilarityThreshold,
			MinTitleLength:     p.MinTitleLength,
			ProseLineRatio:     p.ProseLineRatio,
			MinQualityScore:    p.MinQualityScore,
			FallbackToHeadings: p.FallbackToHeadings,
		},
		Tags:    tags,
		Logging: LoggingConfig{Level: "normal"},
		Output:  OutputConfig{Dir: "out"},
		Extract: ExtractConfig{PreferPdftotext: true},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// WriteDefault writes the default configuration to path, with each key
// preceded by its description. Existing files are not overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	descriptions := make(map[string]string)
	for _, e := range DefaultEntries() {
		descriptions[e.Key] = e.Description
	}
	annotate(&doc, "", descriptions)

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# specindex configuration\n" +
		"# Values can be overridden with SPECINDEX_* environment variables,\n" +
		"# e.g. SPECINDEX_PARSER_PAGE_TOLERANCE=3\n\n"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// annotate sets the head comment of every mapping key that has a description.
func annotate(node *yaml.Node, prefix string, descriptions map[string]string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + key.Value
		}
		if desc, ok := descriptions[path]; ok {
			key.HeadComment = desc
		}
		if !strings.HasPrefix(path, "tags.") {
			annotate(value, path, descriptions)
		}
	}
}
