package specindex

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRecordsRoundTrip(t *testing.T) {
	entry := NewTocEntry("2.1.2", "Power Delivery Contract Negotiation", 53, "USB PD", DefaultTagTable())
	section := Section{
		SectionID: "2.1.2", Title: "Power Delivery Contract Negotiation", Page: 53, Level: 3,
		ParentID: "2.1", FullPath: "2.1.2 Power Delivery Contract Negotiation", DocTitle: "USB PD",
		Tags: []string{"power"}, Content: "The Source shall...", PageStart: 54, PageEnd: 55,
		SubtreePageEnd: 57, Figures: []string{"Figure 2-1"}, Tables: []string{}, ResolvedBy: ResolvedByID,
	}
	report := ValidationReport{
		TocCount: 2, ParsedCount: 1, MatchedCount: 1,
		Issues:       []ValidationIssue{{Kind: IssueMissing, SectionID: "3", Detail: "no section"}},
		QualityScore: 50, TitleAccuracy: 100, PageAccuracy: 100,
		Recommendations: []string{"Only 50.0% coverage; review missing sections"},
	}

	tests := []struct {
		name string
		in   any
		out  any
	}{
		{"toc entry", &entry, &TocEntry{}},
		{"section", &section, &Section{}},
		{"report", &report, &ValidationReport{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if err := json.Unmarshal(data, tt.out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(tt.in, tt.out) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", tt.out, tt.in)
			}
		})
	}
}

func TestTocEntryJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(NewTocEntry("1", "Introduction", 3, "Doc", nil))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, field := range []string{`"section_id"`, `"title"`, `"page"`, `"level"`, `"full_path"`, `"doc_title"`, `"tags"`} {
		if !strings.Contains(s, field) {
			t.Errorf("missing %s in %s", field, s)
		}
	}
	if strings.Contains(s, `"parent_id"`) {
		t.Errorf("level 1 entry should omit parent_id: %s", s)
	}
}

func TestValidatePages(t *testing.T) {
	tests := []struct {
		name  string
		pages []Page
		want  error
	}{
		{"valid", []Page{{Number: 1}, {Number: 2, Text: "x"}}, nil},
		{"empty", nil, ErrNoPages},
		{"out of order", []Page{{Number: 2}, {Number: 1}}, ErrPageSequence},
		{"duplicate", []Page{{Number: 1}, {Number: 1}}, ErrPageSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePages(tt.pages)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxTOCPages != 20 {
		t.Errorf("expected MaxTOCPages 20, got %d", cfg.MaxTOCPages)
	}
	if cfg.PageTolerance != 2 {
		t.Errorf("expected PageTolerance 2, got %d", cfg.PageTolerance)
	}
	if cfg.ResolveTolerance != 3 {
		t.Errorf("expected ResolveTolerance 3, got %d", cfg.ResolveTolerance)
	}
	if cfg.TitleSimilarityThreshold != 0.6 {
		t.Errorf("expected TitleSimilarityThreshold 0.6, got %f", cfg.TitleSimilarityThreshold)
	}
	if len(cfg.Tags) != 4 {
		t.Errorf("expected 4 tag categories, got %d", len(cfg.Tags))
	}
}

func TestRecorderAndFanOut(t *testing.T) {
	rec := &Recorder{}
	var seen []EventKind
	obs := fanOut{rec, ObserverFunc(func(e Event) { seen = append(seen, e.Kind) })}

	obs.Observe(Event{Kind: EventTOCPage, Page: 2})
	obs.Observe(Event{Kind: EventTOCEmpty})
	obs.Observe(Event{Kind: EventTOCPage, Page: 3})

	if got := len(rec.Events()); got != 3 {
		t.Errorf("recorded %d events, want 3", got)
	}
	if got := rec.Filter(EventTOCPage); len(got) != 2 || got[1].Page != 3 {
		t.Errorf("Filter(toc_page) = %+v", got)
	}
	if len(seen) != 3 {
		t.Errorf("func observer saw %d events, want 3", len(seen))
	}

	// A nil observer is replaced by one that discards.
	observerOrDiscard(nil).Observe(Event{Kind: EventTOCEmpty})
}
