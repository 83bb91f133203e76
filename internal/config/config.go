// Package config loads specindex settings from a YAML file, SPECINDEX_*
// environment variables and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// Config is the complete configuration of the tool.
type Config struct {
	Parser  ParserConfig        `mapstructure:"parser" yaml:"parser"`
	Tags    map[string][]string `mapstructure:"tags" yaml:"tags"`
	Logging LoggingConfig       `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig        `mapstructure:"output" yaml:"output"`
	Extract ExtractConfig       `mapstructure:"extract" yaml:"extract"`
	Server  ServerConfig        `mapstructure:"server" yaml:"server"`
}

// ParserConfig tunes the section index stages.
type ParserConfig struct {
	DocTitle           string  `mapstructure:"doc_title" yaml:"doc_title"`
	MaxTOCPages        int     `mapstructure:"max_toc_pages" yaml:"max_toc_pages"`
	TOCPageStart       int     `mapstructure:"toc_page_start" yaml:"toc_page_start"`
	TOCPageEnd         int     `mapstructure:"toc_page_end" yaml:"toc_page_end"`
	TOCMinLines        int     `mapstructure:"toc_min_lines" yaml:"toc_min_lines"`
	TOCLineRatio       float64 `mapstructure:"toc_line_ratio" yaml:"toc_line_ratio"`
	ResolveTolerance   int     `mapstructure:"resolve_tolerance" yaml:"resolve_tolerance"`
	PageTolerance      int     `mapstructure:"page_tolerance" yaml:"page_tolerance"`
	TitleSimilarity    float64 `mapstructure:"title_similarity" yaml:"title_similarity"`
	MinTitleLength     int     `mapstructure:"min_title_length" yaml:"min_title_length"`
	ProseLineRatio     float64 `mapstructure:"prose_line_ratio" yaml:"prose_line_ratio"`
	MinQualityScore    float64 `mapstructure:"min_quality_score" yaml:"min_quality_score"`
	FallbackToHeadings bool    `mapstructure:"fallback_to_headings" yaml:"fallback_to_headings"`
}

// LoggingConfig selects the console log level: none, normal or debug.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// OutputConfig controls where result files are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ExtractConfig controls PDF text extraction.
type ExtractConfig struct {
	PreferPdftotext bool `mapstructure:"prefer_pdftotext" yaml:"prefer_pdftotext"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Load reads configuration from cfgFile, or from config.yaml in the working
// directory or $HOME/.specindex when cfgFile is empty. A missing config file
// is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	for _, e := range DefaultEntries() {
		v.SetDefault(e.Key, e.Value)
	}

	// Environment variables with SPECINDEX_ prefix, e.g. SPECINDEX_PARSER_PAGE_TOLERANCE
	v.SetEnvPrefix("SPECINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.specindex")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	p := c.Parser
	var problems []string
	if p.MaxTOCPages < 1 {
		problems = append(problems, "parser.max_toc_pages must be at least 1")
	}
	if p.TOCPageStart < 0 || p.TOCPageEnd < 0 || (p.TOCPageStart > 0 && p.TOCPageEnd < p.TOCPageStart) {
		problems = append(problems, "parser.toc_page_start and toc_page_end must form a range")
	}
	if p.ResolveTolerance < 0 || p.PageTolerance < 0 {
		problems = append(problems, "parser tolerances must not be negative")
	}
	for key, v := range map[string]float64{
		"parser.toc_line_ratio":   p.TOCLineRatio,
		"parser.title_similarity": p.TitleSimilarity,
		"parser.prose_line_ratio": p.ProseLineRatio,
	} {
		if v < 0 || v > 1 {
			problems = append(problems, key+" must be between 0 and 1")
		}
	}
	if p.MinQualityScore < 0 || p.MinQualityScore > 100 {
		problems = append(problems, "parser.min_quality_score must be between 0 and 100")
	}
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q must be none, normal or debug", c.Logging.Level))
	}

	if len(problems) > 0 {
		// Map iteration above is unordered.
		sort.Strings(problems)
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ToParserConfig converts the parser settings for the section index.
func (c *Config) ToParserConfig() *specindex.Config {
	p := c.Parser
	tags := specindex.TagTable{}
	for category, tokens := range c.Tags {
		tags[strings.ToLower(category)] = tokens
	}
	if len(tags) == 0 {
		tags = specindex.DefaultTagTable()
	}

	return &specindex.Config{
		DocTitle:                 p.DocTitle,
		MaxTOCPages:              p.MaxTOCPages,
		TOCPageStart:             p.TOCPageStart,
		TOCPageEnd:               p.TOCPageEnd,
		TOCMinLines:              p.TOCMinLines,
		TOCLineRatio:             p.TOCLineRatio,
		ResolveTolerance:         p.ResolveTolerance,
		PageTolerance:            p.PageTolerance,
		TitleSimilarityThreshold: p.TitleSimilarity,
		MinTitleLength:           p.MinTitleLength,
		ProseLineRatio:           p.ProseLineRatio,
		MinQualityScore:          p.MinQualityScore,
		FallbackToHeadings:       p.FallbackToHeadings,
		Tags:                     tags,
	}
}
