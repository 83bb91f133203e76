package output

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/itsmostafa/specindex/internal/specindex"
	"github.com/itsmostafa/specindex/internal/version"
)

// Metadata describes one run.
type Metadata struct {
	RunID            string    `json:"run_id"`
	Tool             string    `json:"tool"`
	DocTitle         string    `json:"doc_title"`
	Source           string    `json:"source"`
	GeneratedAt      time.Time `json:"generated_at"`
	PageCount        int       `json:"page_count"`
	TOCCount         int       `json:"toc_count"`
	SectionCount     int       `json:"section_count"`
	ResolvedCount    int       `json:"resolved_count"`
	FigureCount      int       `json:"figure_count"`
	TableCount       int       `json:"table_count"`
	TokenEstimate    int       `json:"token_estimate"`
	MaxSectionTokens int       `json:"max_section_tokens"`
	Coverage         float64   `json:"coverage"`
	QualityScore     float64   `json:"quality_score"`
	Passed           bool      `json:"passed"`
	Warnings         []string  `json:"warnings"`
}

// NewMetadata summarises a run. Coverage is the share of ToC entries whose
// heading was found in the body text.
func NewMetadata(docTitle, source string, pageCount int, result *specindex.Result) Metadata {
	meta := Metadata{
		RunID:       uuid.New().String(),
		Tool:        version.Tool(),
		DocTitle:    docTitle,
		Source:      source,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		PageCount:   pageCount,
		Warnings:    []string{},
	}
	if result == nil {
		return meta
	}

	meta.TOCCount = len(result.TOC)
	meta.SectionCount = len(result.Sections)
	for i := range result.Sections {
		s := &result.Sections[i]
		if s.Resolved() {
			meta.ResolvedCount++
		}
		meta.FigureCount += len(s.Figures)
		meta.TableCount += len(s.Tables)

		tokens := EstimateTokens(s.Content)
		meta.TokenEstimate += tokens
		meta.MaxSectionTokens = max(meta.MaxSectionTokens, tokens)
	}
	if meta.TOCCount > 0 {
		meta.Coverage = math.Round(10000*float64(meta.ResolvedCount)/float64(meta.TOCCount)) / 100
	}
	if result.Report != nil {
		meta.QualityScore = result.Report.QualityScore
		meta.Passed = result.Report.Passed
	}
	if result.Warnings != nil {
		meta.Warnings = result.Warnings
	}
	return meta
}
