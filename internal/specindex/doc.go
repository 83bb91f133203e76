// Package specindex reconstructs the section tree of a numbered technical
// specification from its per-page text.
//
// # Overview
//
// Three noisy signals are reconciled into one section tree:
//
//   - The table of contents, found on leading pages whose lines mostly carry
//     dotted leaders and page numbers ("2.1.2 Contract Negotiation ..... 53").
//
//   - Inline headings, the numbered titles where each section actually begins
//     in the body. ToC page numbers drift from these because of front-matter
//     pagination.
//
//   - The raw page text, sliced into each section's content.
//
// The Validator then cross-checks the reconciled sections against the ToC and
// produces a quality score.
//
// # Usage
//
//	cfg := specindex.DefaultConfig()
//	cfg.DocTitle = "USB Power Delivery Specification"
//	result, err := specindex.NewProcessor(cfg, nil).Process(ctx, pages)
//
// # Architecture
//
//   - grammar.go: heading strategies and the false-positive filter
//   - toc.go: ToC page detection and entry extraction
//   - headings.go: inline heading detection with the structural position check
//   - builder.go: section resolution, page ranges and content slicing
//   - tree.go: nesting of flat sections by dotted ids
//   - validate.go: fuzzy validation and scoring
//   - pipeline.go: the end-to-end Processor
//   - events.go: the Observer used instead of global logging
package specindex
