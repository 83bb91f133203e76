package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/itsmostafa/specindex/internal/specindex"
)

// WriteValidationJSON writes the report as indented JSON.
func WriteValidationJSON(w io.Writer, report *specindex.ValidationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// WriteValidationCSV writes the report as a spreadsheet-friendly table: a
// block of summary metrics, a blank row, then one row per issue.
func WriteValidationCSV(w io.Writer, report *specindex.ValidationReport) error {
	cw := csv.NewWriter(w)

	formatFloat := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	rows := [][]string{
		{"metric", "value"},
		{"toc_count", strconv.Itoa(report.TocCount)},
		{"parsed_count", strconv.Itoa(report.ParsedCount)},
		{"matched_count", strconv.Itoa(report.MatchedCount)},
		{"quality_score", formatFloat(report.QualityScore)},
		{"title_accuracy", formatFloat(report.TitleAccuracy)},
		{"page_accuracy", formatFloat(report.PageAccuracy)},
		{"passed", strconv.FormatBool(report.Passed)},
		{},
		{"kind", "section_id", "detail"},
	}
	for _, issue := range report.Issues {
		rows = append(rows, []string{string(issue.Kind), issue.SectionID, issue.Detail})
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteValidationFile writes the report to path as CSV when the path ends in
// .csv and as JSON otherwise.
func WriteValidationFile(path string, report *specindex.ValidationReport) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return writeFile(path, func(w io.Writer) error { return WriteValidationCSV(w, report) })
	}
	return writeFile(path, func(w io.Writer) error { return WriteValidationJSON(w, report) })
}
