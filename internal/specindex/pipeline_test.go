package specindex

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func samplePages() []Page {
	return []Page{
		{Number: 1, Text: "USB Power Delivery Specification\n\nRevision 3.1\n"},
		{Number: 2, Text: "Table of Contents\n\n" +
			"1 Introduction ........ 3\n" +
			"1.1 Scope ........ 3\n" +
			"2 Power Delivery Contract ........ 4\n" +
			"2.1 Source Power Capabilities ........ 4\n" +
			"2.2 Sink Requests ........ 5\n"},
		{Number: 3, Text: "1 Introduction\n\n" +
			"This specification defines how power is negotiated between a source and a sink.\n\n" +
			"1.1 Scope\n\n" +
			"The scope covers all USB Type-C devices.\n"},
		{Number: 4, Text: "2 Power Delivery Contract\n\n" +
			"A contract is formed after the sink evaluates the offered capabilities.\n\n" +
			"2.1 Source Power Capabilities\n\n" +
			"The source advertises its capabilities, see Figure 2-1 and Table 2-1.\n"},
		{Number: 5, Text: "2.2 Sink Requests\n\n" +
			"The sink requests one of the advertised power levels.\n"},
	}
}

func TestProcessorProcess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DocTitle = "USB PD"
	rec := &Recorder{}

	result, err := NewProcessor(cfg, rec).Process(context.Background(), samplePages())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(result.TOC) != 5 {
		t.Fatalf("expected 5 ToC entries, got %d", len(result.TOC))
	}
	if len(result.Headings) != 5 {
		t.Errorf("expected 5 inline headings, got %d: %+v", len(result.Headings), result.Headings)
	}
	if len(result.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(result.Sections))
	}

	r := result.Report
	if r.QualityScore != 100 || len(r.Issues) != 0 || !r.Passed {
		t.Errorf("report = %s", r)
	}

	caps := result.Sections[3]
	if caps.SectionID != "2.1" || caps.PageStart != 4 || caps.PageEnd != 4 {
		t.Errorf("section 2.1 = %s %d-%d", caps.SectionID, caps.PageStart, caps.PageEnd)
	}
	if !slices.Equal(caps.Figures, []string{"Figure 2-1"}) || !slices.Equal(caps.Tables, []string{"Table 2-1"}) {
		t.Errorf("references = %v %v", caps.Figures, caps.Tables)
	}
	if caps.DocTitle != "USB PD" {
		t.Errorf("doc title = %q", caps.DocTitle)
	}
	if got := result.Sections[0].Content; got != "This specification defines how power is negotiated between a source and a sink." {
		t.Errorf("section 1 content = %q", got)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	stages := map[string]bool{}
	for _, e := range rec.Filter(EventStageComplete) {
		stages[e.Stage] = true
	}
	for _, stage := range []string{"toc", "headings", "build", "validate"} {
		if !stages[stage] {
			t.Errorf("missing stage_complete event for %s", stage)
		}
	}
}

func TestProcessorFallbackToHeadings(t *testing.T) {
	body := samplePages()[2:]
	for i := range body {
		body[i].Number = i + 1
	}

	result, err := NewProcessor(nil, nil).Process(context.Background(), body)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.TOC) != 5 {
		t.Fatalf("expected 5 rebuilt entries, got %d", len(result.TOC))
	}
	if result.Report.QualityScore != 100 {
		t.Errorf("quality = %.2f, want 100", result.Report.QualityScore)
	}
	if !slices.Contains(result.Warnings, "ToC rebuilt from inline headings") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestProcessorWithoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FallbackToHeadings = false
	body := []Page{{Number: 1, Text: "1 Introduction\n\nBody."}}

	result, err := NewProcessor(cfg, nil).Process(context.Background(), body)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(result.TOC) != 0 || len(result.Sections) != 0 {
		t.Errorf("expected empty output, got %d entries and %d sections", len(result.TOC), len(result.Sections))
	}
	if result.Report.QualityScore != 0 {
		t.Errorf("quality = %.2f, want 0", result.Report.QualityScore)
	}
}

func TestProcessorErrors(t *testing.T) {
	if _, err := NewProcessor(nil, nil).Process(context.Background(), nil); !errors.Is(err, ErrNoPages) {
		t.Errorf("error = %v, want ErrNoPages", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProcessor(nil, nil).Process(ctx, samplePages()); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
