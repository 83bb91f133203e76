package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itsmostafa/specindex/internal/output"
	"github.com/itsmostafa/specindex/internal/specindex"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatNumber(tt.n); got != tt.want {
				t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatHeader(&buf, "/data/usbpd.pdf", "USB PD", 1234)

	out := buf.String()
	for _, want := range []string{"USB PD", "usbpd.pdf", "1,234"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReport(t *testing.T) {
	report := specindex.ValidationReport{
		TocCount:     3,
		ParsedCount:  2,
		MatchedCount: 2,
		QualityScore: 66.67,
		Issues: []specindex.ValidationIssue{
			{Kind: specindex.IssueMissing, SectionID: "2.1", Detail: "not found"},
			{Kind: specindex.IssueExtra, SectionID: "9", Detail: "not in ToC"},
		},
		Recommendations: []string{"Check the ToC page range"},
	}

	var buf bytes.Buffer
	FormatReport(&buf, report, 1)
	out := buf.String()

	for _, want := range []string{"66.67", "FAIL", "missing", "2.1", "1 more issues", "Check the ToC page range"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "not in ToC") {
		t.Errorf("issue beyond the limit was printed:\n%s", out)
	}
}

func TestFormatTree(t *testing.T) {
	sections := []specindex.Section{
		{SectionID: "1", Title: "Introduction", PageStart: 3, SubtreePageEnd: 5, ResolvedBy: specindex.ResolvedByID},
		{SectionID: "1.1", Title: "Scope", PageStart: 4, SubtreePageEnd: 4, ResolvedBy: specindex.ResolvedByTOCPage},
		{SectionID: "2", Title: "Overview", PageStart: 6, SubtreePageEnd: 6, ResolvedBy: specindex.ResolvedByTitle},
	}
	nodes := specindex.BuildTree(sections)

	var buf bytes.Buffer
	FormatTree(&buf, nodes, 0)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "p.3-5") {
		t.Errorf("line 0 = %q, want subtree page range", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") || !strings.Contains(lines[1], "*") {
		t.Errorf("line 1 = %q, want indented unresolved marker", lines[1])
	}

	buf.Reset()
	FormatTree(&buf, nodes, 1)
	if strings.Contains(buf.String(), "Scope") {
		t.Errorf("depth limit ignored:\n%s", buf.String())
	}
}

func TestFormatCheck(t *testing.T) {
	results := []*output.CheckResult{
		{Path: "a-toc.jsonl", Schema: output.SchemaTOC, Records: 4, Errors: []output.RecordError{}},
		{Path: "a-sections.jsonl", Schema: output.SchemaSection, Records: 2, Errors: []output.RecordError{
			{Record: 2, Message: "missing properties: 'title'\nmore detail"},
		}},
	}

	var buf bytes.Buffer
	FormatCheck(&buf, results)
	out := buf.String()

	if !strings.Contains(out, "a-toc.jsonl") || !strings.Contains(out, "FAIL") {
		t.Errorf("missing file status lines:\n%s", out)
	}
	if !strings.Contains(out, "record 2:") || strings.Contains(out, "more detail") {
		t.Errorf("record error not reduced to its first line:\n%s", out)
	}
}

func TestFormatSummary(t *testing.T) {
	meta := output.Metadata{TOCCount: 2, SectionCount: 2, ResolvedCount: 1, Coverage: 50, Passed: true,
		Warnings: []string{"section 1.1 unresolved"}}
	names := output.NamesFor("out", "usb-pd")

	var buf bytes.Buffer
	FormatSummary(&buf, meta, names)
	out := buf.String()

	for _, want := range []string{"1/2", "50.00%", "PASS", "section 1.1 unresolved", names.Spec} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
