package specindex

import (
	"fmt"
	"slices"
)

// Validator cross-checks built sections against the ToC.
type Validator struct {
	config *Config
}

// NewValidator creates a new Validator.
func NewValidator(config *Config) *Validator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Validator{config: config}
}

// Validate aligns ToC entries with sections by id and reports every
// discrepancy. Sections that fell back to their ToC page are counted as
// missing. The result depends only on the inputs.
func (v *Validator) Validate(toc []TocEntry, sections []Section) *ValidationReport {
	report := &ValidationReport{
		TocCount:        len(toc),
		Issues:          []ValidationIssue{},
		Recommendations: []string{},
	}

	byID := make(map[string]*Section, len(sections))
	for i := range sections {
		s := &sections[i]
		if s.Resolved() {
			report.ParsedCount++
		}
		if _, dup := byID[s.SectionID]; !dup {
			byID[s.SectionID] = s
		}
	}

	var matched []*Section
	titleOK, pageOK := 0, 0
	inTOC := make(map[string]bool, len(toc))

	for _, entry := range toc {
		inTOC[entry.SectionID] = true

		s, ok := byID[entry.SectionID]
		switch {
		case !ok:
			report.addIssue(IssueMissing, entry.SectionID, "no section was built for this entry")
			continue
		case !s.Resolved():
			report.addIssue(IssueMissing, entry.SectionID,
				fmt.Sprintf("heading not found in body text; ToC page %d used", entry.Page))
			continue
		}

		matched = append(matched, s)

		if sim := TitleSimilarity(entry.Title, s.Title); sim < v.config.TitleSimilarityThreshold {
			report.addIssue(IssueTitleMismatch, entry.SectionID,
				fmt.Sprintf("ToC title %q vs heading %q (similarity %.2f)", entry.Title, s.Title, sim))
		} else {
			titleOK++
		}

		if diff := abs(s.PageStart - entry.Page); diff > v.config.PageTolerance {
			report.addIssue(IssuePageMismatch, entry.SectionID,
				fmt.Sprintf("ToC page %d vs body page %d (off by %d)", entry.Page, s.PageStart, diff))
		} else {
			pageOK++
		}
	}

	for i := range sections {
		s := &sections[i]
		if !inTOC[s.SectionID] {
			report.addIssue(IssueExtra, s.SectionID, "section has no ToC entry")
			inTOC[s.SectionID] = true
		}
	}

	v.checkOrder(report, matched)

	report.MatchedCount = len(matched)
	report.QualityScore = percent(report.MatchedCount, report.TocCount)
	report.TitleAccuracy = percent(titleOK, report.MatchedCount)
	report.PageAccuracy = percent(pageOK, report.MatchedCount)
	report.Passed = report.TocCount > 0 && report.QualityScore >= v.config.MinQualityScore
	report.Recommendations = recommendations(report)

	return report
}

// checkOrder walks matched sections in numeric id order and flags any whose
// start page falls before that of a section numbered earlier.
func (v *Validator) checkOrder(report *ValidationReport, matched []*Section) {
	ordered := slices.Clone(matched)
	slices.SortStableFunc(ordered, func(a, b *Section) int {
		return CompareSectionIDs(a.SectionID, b.SectionID)
	})

	var latest *Section
	for _, s := range ordered {
		if latest != nil && s.PageStart < latest.PageStart {
			report.addIssue(IssueOrderError, s.SectionID,
				fmt.Sprintf("starts on page %d, before %s on page %d", s.PageStart, latest.SectionID, latest.PageStart))
			continue
		}
		latest = s
	}
}

func (r *ValidationReport) addIssue(kind IssueKind, sectionID, detail string) {
	r.Issues = append(r.Issues, ValidationIssue{Kind: kind, SectionID: sectionID, Detail: detail})
}

// recommendations suggests what to look at next, based on the issue mix.
func recommendations(r *ValidationReport) []string {
	recs := []string{}
	if r.TocCount == 0 {
		return append(recs, "No ToC entries found; set an explicit ToC page range or enable heading fallback")
	}
	if r.QualityScore < 95 {
		recs = append(recs, fmt.Sprintf("Only %.1f%% coverage; review missing sections", r.QualityScore))
	}
	if r.Count(IssueTitleMismatch) > 0 {
		recs = append(recs, "Title extraction needs improvement")
	}
	if r.Count(IssueOrderError) > 0 {
		recs = append(recs, "Check document structure for out-of-order sections")
	}
	if r.Count(IssuePageMismatch) > 0 {
		recs = append(recs, "Page numbers are off; check the front-matter page offset")
	}
	if r.Count(IssueExtra) > 0 {
		recs = append(recs, fmt.Sprintf("%d sections have no ToC entry", r.Count(IssueExtra)))
	}
	if len(recs) == 0 {
		recs = append(recs, "Extraction matches the ToC")
	}
	return recs
}
