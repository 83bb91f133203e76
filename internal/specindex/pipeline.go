package specindex

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is everything one run produces.
type Result struct {
	TOC      []TocEntry
	Headings []HeadingCandidate
	Sections []Section
	Report   *ValidationReport
	Warnings []string
}

// Processor runs extraction, detection, building and validation end to end.
type Processor struct {
	config   *Config
	observer Observer
}

// NewProcessor creates a new Processor. A nil observer discards events.
func NewProcessor(config *Config, observer Observer) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Processor{config: config, observer: observerOrDiscard(observer)}
}

// Process reconciles the pages into sections and validates them against the ToC.
// Only a malformed page sequence or a cancelled context is returned as an error.
func (p *Processor) Process(ctx context.Context, pages []Page) (*Result, error) {
	if err := validatePages(pages); err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}

	warnings := &warningCollector{}
	obs := fanOut{p.observer, warnings}

	var toc []TocEntry
	var headings []HeadingCandidate

	// The ToC extractor and the heading detector only share the pages.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		entries, err := NewTOCExtractor(p.config, obs).Extract(pages)
		if err != nil {
			return err
		}
		toc = entries
		obs.Observe(Event{Stage: "toc", Kind: EventStageComplete, Count: len(entries), Duration: time.Since(start)})
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		found, err := NewHeadingDetector(p.config, obs).Detect(pages)
		if err != nil {
			return err
		}
		headings = found
		obs.Observe(Event{Stage: "headings", Kind: EventStageComplete, Count: len(found), Duration: time.Since(start)})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}

	if len(toc) == 0 && p.config.FallbackToHeadings {
		toc = EntriesFromHeadings(headings, p.config, obs)
		obs.Observe(Event{
			Stage:  "toc",
			Kind:   EventTOCFallback,
			Count:  len(toc),
			Detail: "ToC rebuilt from inline headings",
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}

	start := time.Now()
	sections, err := NewSectionBuilder(p.config, obs).Build(toc, headings, pages)
	if err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}
	obs.Observe(Event{Stage: "build", Kind: EventStageComplete, Count: len(sections), Duration: time.Since(start)})

	start = time.Now()
	report := NewValidator(p.config).Validate(toc, sections)
	obs.Observe(Event{Stage: "validate", Kind: EventStageComplete, Count: len(report.Issues), Duration: time.Since(start)})

	return &Result{
		TOC:      toc,
		Headings: headings,
		Sections: sections,
		Report:   report,
		Warnings: warnings.list(),
	}, nil
}

// warningCollector keeps a readable line for every event a caller should see.
type warningCollector struct {
	Recorder
}

func (w *warningCollector) list() []string {
	warnings := []string{}
	for _, e := range w.Events() {
		switch e.Kind {
		case EventTOCEmpty, EventTOCFallback:
			warnings = append(warnings, e.Detail)
		case EventEntryDropped:
			warnings = append(warnings, fmt.Sprintf("dropped ToC entry %s (page %d): %s", e.SectionID, e.Page, e.Detail))
		case EventUnresolved:
			warnings = append(warnings, fmt.Sprintf("section %s: %s %d", e.SectionID, e.Detail, e.Page))
		}
	}
	return warnings
}
