// Package render formats run summaries, validation reports and section trees
// for the terminal.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/specindex"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// idStyle for section ids in trees and issue lists
	idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

// FormatHeader renders the run header with the input document and its page count.
func FormatHeader(w io.Writer, source, docTitle string, pages int) {
	if docTitle == "" {
		docTitle = dimStyle.Render("(untitled)")
	}
	content := fmt.Sprintf("%s %s\n%s %s  %s %s",
		dimStyle.Render("Document:"), titleStyle.Render(docTitle),
		dimStyle.Render("Source:"), filepath.Base(source),
		dimStyle.Render("Pages:"), formatNumber(pages),
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatSummary renders the run summary box followed by the written files.
func FormatSummary(w io.Writer, meta output.Metadata, names output.Names) {
	line1 := fmt.Sprintf("%s %d  %s %d  %s %d/%d",
		dimStyle.Render("ToC entries:"), meta.TOCCount,
		dimStyle.Render("Sections:"), meta.SectionCount,
		dimStyle.Render("Resolved:"), meta.ResolvedCount, meta.TOCCount,
	)
	line2 := fmt.Sprintf("%s %d  %s %d  %s %.2f%%",
		dimStyle.Render("Figures:"), meta.FigureCount,
		dimStyle.Render("Tables:"), meta.TableCount,
		dimStyle.Render("Coverage:"), meta.Coverage,
	)
	line3 := fmt.Sprintf("%s ~%s  %s %.2f  %s",
		dimStyle.Render("Tokens:"), formatNumber(meta.TokenEstimate),
		dimStyle.Render("Quality:"), meta.QualityScore,
		status(meta.Passed),
	)

	content := titleStyle.Render("Parse Complete") + "\n" + line1 + "\n" + line2 + "\n" + line3
	fmt.Fprintln(w, boxStyle.Render(content))

	for _, warning := range meta.Warnings {
		fmt.Fprintln(w, warnStyle.Render("! ")+warning)
	}
	for _, p := range names.All() {
		fmt.Fprintln(w, dimStyle.Render("wrote ")+p)
	}
}

// FormatReport renders a validation report. At most maxIssues issues are
// listed; zero lists them all.
func FormatReport(w io.Writer, report specindex.ValidationReport, maxIssues int) {
	line1 := fmt.Sprintf("%s %d  %s %d  %s %d",
		dimStyle.Render("ToC:"), report.TocCount,
		dimStyle.Render("Parsed:"), report.ParsedCount,
		dimStyle.Render("Matched:"), report.MatchedCount,
	)
	line2 := fmt.Sprintf("%s %.2f  %s %.2f%%  %s %.2f%%  %s",
		dimStyle.Render("Quality:"), report.QualityScore,
		dimStyle.Render("Titles:"), report.TitleAccuracy,
		dimStyle.Render("Pages:"), report.PageAccuracy,
		status(report.Passed),
	)

	kinds := []specindex.IssueKind{
		specindex.IssueMissing, specindex.IssueExtra, specindex.IssueTitleMismatch,
		specindex.IssuePageMismatch, specindex.IssueOrderError,
	}
	counts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		counts = append(counts, fmt.Sprintf("%s %d", dimStyle.Render(string(kind)+":"), report.Count(kind)))
	}

	content := titleStyle.Render("Validation") + "\n" + line1 + "\n" + line2 + "\n" + strings.Join(counts, "  ")
	fmt.Fprintln(w, boxStyle.Render(content))

	for i, issue := range report.Issues {
		if maxIssues > 0 && i == maxIssues {
			fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("... %d more issues", len(report.Issues)-maxIssues)))
			break
		}
		fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render(string(issue.Kind)), idStyle.Render(issue.SectionID), issue.Detail)
	}
	for _, rec := range report.Recommendations {
		fmt.Fprintln(w, warnStyle.Render("> ")+rec)
	}
}

// FormatTree renders the section hierarchy with page ranges. Nodes deeper
// than maxDepth are omitted; zero shows every level.
func FormatTree(w io.Writer, nodes []*specindex.Node, maxDepth int) {
	specindex.Walk(nodes, func(n *specindex.Node, depth int) bool {
		if maxDepth > 0 && depth >= maxDepth {
			return false
		}
		s := n.Section
		pages := fmt.Sprintf("p.%d", s.PageStart)
		if s.SubtreePageEnd > s.PageStart {
			pages = fmt.Sprintf("p.%d-%d", s.PageStart, s.SubtreePageEnd)
		}
		marker := ""
		if !s.Resolved() {
			marker = " " + warnStyle.Render("*")
		}
		fmt.Fprintf(w, "%s%s %s %s%s\n",
			strings.Repeat("  ", depth), idStyle.Render(s.SectionID), s.Title, dimStyle.Render(pages), marker)
		return true
	})
}

// FormatCheck renders schema check results, one line per file.
func FormatCheck(w io.Writer, results []*output.CheckResult) {
	for _, r := range results {
		if r.OK() {
			fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("OK"), r.Path,
				dimStyle.Render(fmt.Sprintf("(%d records, %s)", r.Records, r.Schema)))
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render("FAIL"), r.Path,
			dimStyle.Render(fmt.Sprintf("(%d of %d records invalid)", len(r.Errors), r.Records)))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(fmt.Sprintf("record %d:", e.Record)), firstLine(e.Message))
		}
	}
}

func status(passed bool) string {
	if passed {
		return successStyle.Render("PASS")
	}
	return errorStyle.Render("FAIL")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
