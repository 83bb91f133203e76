package specindex

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPages is returned when a stage receives an empty page sequence.
	ErrNoPages = errors.New("no pages supplied")

	// ErrPageSequence is returned when page numbers are not contiguous from 1.
	ErrPageSequence = errors.New("page numbers must be contiguous from 1")

	// ErrInvalidNumbering is returned when a section id cannot be split into numeric segments.
	ErrInvalidNumbering = errors.New("invalid section numbering")
)

// Page is one page of extracted document text. Numbers are 1-based.
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

// Confidence grades how strongly a line looks like a heading.
type Confidence string

const (
	// Strong candidates carry a trailing page number behind a dotted leader.
	Strong Confidence = "strong"
	// Weak candidates match structurally but carry no leader.
	Weak Confidence = "weak"
)

// HeadingCandidate is the result of parsing a single line with the Grammar.
// It is not persisted.
type HeadingCandidate struct {
	RawLine    string     `json:"raw_line"`
	SectionID  string     `json:"section_id,omitempty"` // Empty for un-numbered front matter
	Title      string     `json:"title"`
	Page       int        `json:"page,omitempty"` // 0 when absent
	Line       int        `json:"line"`           // Line index within the page
	Confidence Confidence `json:"confidence"`
	Strategy   string     `json:"strategy"`
}

// TocEntry is one numbered entry of the document's table of contents.
type TocEntry struct {
	SectionID string   `json:"section_id"`
	Title     string   `json:"title"`
	Page      int      `json:"page"`
	Level     int      `json:"level"`
	ParentID  string   `json:"parent_id,omitempty"`
	FullPath  string   `json:"full_path"`
	DocTitle  string   `json:"doc_title"`
	Tags      []string `json:"tags"`
}

// Resolution records how a section's start page was found.
type Resolution string

const (
	ResolvedByID      Resolution = "section_id"
	ResolvedByTitle   Resolution = "title"
	ResolvedByTOCPage Resolution = "toc_page"
)

// Section is a ToC entry reconciled against the body text.
type Section struct {
	SectionID      string     `json:"section_id"`
	Title          string     `json:"title"`
	Page           int        `json:"page"`
	Level          int        `json:"level"`
	ParentID       string     `json:"parent_id,omitempty"`
	FullPath       string     `json:"full_path"`
	DocTitle       string     `json:"doc_title"`
	Tags           []string   `json:"tags"`
	Content        string     `json:"content"`
	PageStart      int        `json:"page_start"`
	PageEnd        int        `json:"page_end"`
	SubtreePageEnd int        `json:"subtree_page_end"`
	Figures        []string   `json:"figures"`
	Tables         []string   `json:"tables"`
	ResolvedBy     Resolution `json:"resolved_by,omitempty"`
}

// Resolved reports whether the section was located in the body text. Only
// an explicit ToC page fallback counts as unresolved; records without a
// resolution are taken as found.
func (s *Section) Resolved() bool {
	return s.ResolvedBy != ResolvedByTOCPage
}

// IssueKind classifies a ValidationIssue.
type IssueKind string

const (
	IssueMissing       IssueKind = "missing"
	IssueExtra         IssueKind = "extra"
	IssueTitleMismatch IssueKind = "title_mismatch"
	IssuePageMismatch  IssueKind = "page_mismatch"
	IssueOrderError    IssueKind = "order_error"
)

// ValidationIssue is a single discrepancy between the ToC and the built sections.
type ValidationIssue struct {
	Kind      IssueKind `json:"kind"`
	SectionID string    `json:"section_id"`
	Detail    string    `json:"detail"`
}

// ValidationReport summarises how well the built sections match the ToC.
type ValidationReport struct {
	TocCount        int               `json:"toc_count"`
	ParsedCount     int               `json:"parsed_count"`
	MatchedCount    int               `json:"matched_count"`
	Issues          []ValidationIssue `json:"issues"`
	QualityScore    float64           `json:"quality_score"`
	TitleAccuracy   float64           `json:"title_accuracy"`
	PageAccuracy    float64           `json:"page_accuracy"`
	Passed          bool              `json:"passed"`
	Recommendations []string          `json:"recommendations"`
}

// Count returns the number of issues of the given kind.
func (r *ValidationReport) Count(kind IssueKind) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			n++
		}
	}
	return n
}

// String returns a JSON representation of the report for debugging.
func (r *ValidationReport) String() string {
	b, _ := json.MarshalIndent(r, "", "  ")
	return string(b)
}

// TagTable maps a tag category to the lowercase tokens that trigger it.
type TagTable map[string][]string

// DefaultTagTable returns the keyword categories used when none are configured.
func DefaultTagTable() TagTable {
	return TagTable{
		"power":  {"power", "voltage", "current", "vbus", "watt"},
		"device": {"source", "sink", "device", "port", "cable", "plug"},
		"state":  {"state", "transition", "mode"},
		"comm":   {"message", "protocol", "sop", "communication"},
	}
}

// Config holds the tunable parameters of every stage.
type Config struct {
	// DocTitle is stamped on every entry and section
	DocTitle string

	// MaxTOCPages bounds how many leading pages are scanned for the ToC
	MaxTOCPages int

	// TOCPageStart and TOCPageEnd select an explicit ToC page range when both are set
	TOCPageStart int
	TOCPageEnd   int

	// TOCMinLines is the minimum number of strong lines on a ToC page
	TOCMinLines int

	// TOCLineRatio is the minimum share of strong lines among non-blank lines on a ToC page
	TOCLineRatio float64

	// ResolveTolerance is the page window used by the builder's title fallback
	ResolveTolerance int

	// PageTolerance is the page drift the validator accepts
	PageTolerance int

	// TitleSimilarityThreshold is the minimum token-overlap ratio for matching titles
	TitleSimilarityThreshold float64

	// MinTitleLength rejects shorter heading titles
	MinTitleLength int

	// ProseLineRatio marks a preceding line as wrapped prose when it is at least this
	// fraction of the widest line on the page
	ProseLineRatio float64

	// MinQualityScore is the score a report needs to pass
	MinQualityScore float64

	// FallbackToHeadings rebuilds the ToC from inline headings when none is found
	FallbackToHeadings bool

	// Tags is the keyword-category lookup table
	Tags TagTable
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTOCPages:              20,
		TOCMinLines:              3,
		TOCLineRatio:             0.4,
		ResolveTolerance:         3,
		PageTolerance:            2,
		TitleSimilarityThreshold: 0.6,
		MinTitleLength:           2,
		ProseLineRatio:           0.6,
		MinQualityScore:          70,
		FallbackToHeadings:       true,
		Tags:                     DefaultTagTable(),
	}
}

// validatePages checks the page-sequence precondition shared by every stage.
func validatePages(pages []Page) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	for i, p := range pages {
		if p.Number != i+1 {
			return fmt.Errorf("%w: position %d holds page %d", ErrPageSequence, i, p.Number)
		}
	}
	return nil
}
