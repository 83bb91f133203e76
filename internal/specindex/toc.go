package specindex

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// TOCExtractor finds the table of contents pages and turns their lines into entries.
type TOCExtractor struct {
	grammar  *Grammar
	config   *Config
	observer Observer
}

// NewTOCExtractor creates a new ToC extractor.
func NewTOCExtractor(config *Config, observer Observer) *TOCExtractor {
	if config == nil {
		config = DefaultConfig()
	}
	return &TOCExtractor{
		grammar:  NewGrammar(config),
		config:   config,
		observer: observerOrDiscard(observer),
	}
}

// tocPageStats holds the parsed lines of one candidate page.
type tocPageStats struct {
	nonBlank   int
	candidates []HeadingCandidate
	strong     int
	rejected   []rejectedLine
}

// rejectedLine is a leader line the false-positive filter turned down.
type rejectedLine struct {
	candidate HeadingCandidate
	reason    string
}

// scanPage parses every line of a page with the grammar.
func scanPage(g *Grammar, text string) tocPageStats {
	var stats tocPageStats
	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.nonBlank++
		c, reason, ok := g.match(line)
		if !ok {
			continue
		}
		if reason != "" {
			if c.Confidence == Strong {
				stats.rejected = append(stats.rejected, rejectedLine{candidate: c, reason: reason})
			}
			continue
		}
		c.Line = i
		stats.candidates = append(stats.candidates, c)
		if c.Confidence == Strong {
			stats.strong++
		}
	}
	return stats
}

// isTOCPage reports whether the page's lines predominantly carry leaders and page numbers.
func isTOCPage(stats tocPageStats, config *Config) bool {
	if stats.nonBlank == 0 || stats.strong < config.TOCMinLines {
		return false
	}
	return float64(stats.strong)/float64(stats.nonBlank) >= config.TOCLineRatio
}

// scanRange returns the inclusive 0-based page indices to scan for the ToC.
func (e *TOCExtractor) scanRange(pageCount int) (int, int) {
	if e.config.TOCPageStart > 0 && e.config.TOCPageEnd >= e.config.TOCPageStart {
		return e.config.TOCPageStart - 1, min(e.config.TOCPageEnd, pageCount) - 1
	}
	limit := e.config.MaxTOCPages
	if limit <= 0 || limit > pageCount {
		limit = pageCount
	}
	return 0, limit - 1
}

// Extract scans the leading pages for a run of ToC pages and returns their
// entries in the order encountered. An empty result is not an error.
func (e *TOCExtractor) Extract(pages []Page) ([]TocEntry, error) {
	if err := validatePages(pages); err != nil {
		return nil, fmt.Errorf("extracting toc: %w", err)
	}

	first, last := e.scanRange(len(pages))
	explicit := e.config.TOCPageStart > 0

	var found bool
	var candidates []HeadingCandidate
	for i := first; i <= last; i++ {
		stats := scanPage(e.grammar, pages[i].Text)

		if explicit || isTOCPage(stats, e.config) {
			found = true
			e.observer.Observe(Event{Stage: "toc", Kind: EventTOCPage, Page: pages[i].Number, Count: stats.strong})
			for _, r := range stats.rejected {
				e.drop(r.candidate, r.reason)
			}
			for _, c := range stats.candidates {
				if c.Confidence != Strong && c.Strategy != frontMatterStrategy.Name() {
					continue
				}
				candidates = append(candidates, c)
			}
		} else if found {
			// Stop when we hit a non-ToC page after finding the ToC
			break
		}
	}

	entries := e.buildEntries(candidates)
	if len(entries) == 0 {
		e.observer.Observe(Event{Stage: "toc", Kind: EventTOCEmpty, Detail: "no strong heading lines in scanned pages"})
	}
	return entries, nil
}

// buildEntries converts accepted candidates into entries, dropping those that
// break the numbering invariants.
func (e *TOCExtractor) buildEntries(candidates []HeadingCandidate) []TocEntry {
	entries := make([]TocEntry, 0, len(candidates))
	seen := make(map[string]bool)
	lastChild := make(map[string]int)

	for _, c := range candidates {
		if c.SectionID == "" {
			e.observer.Observe(Event{Stage: "toc", Kind: EventFrontMatter, Page: c.Page, Detail: c.Title})
			continue
		}

		segs, err := ParseSectionID(c.SectionID)
		if err != nil {
			e.drop(c, err.Error())
			continue
		}
		if c.Page < 1 {
			e.drop(c, "page number missing")
			continue
		}
		if seen[c.SectionID] {
			e.drop(c, "duplicate section id")
			continue
		}

		parent := ParentID(c.SectionID)
		if parent != "" && !seen[parent] {
			e.drop(c, fmt.Sprintf("parent %s not seen earlier", parent))
			continue
		}
		last := segs[len(segs)-1]
		if prev, ok := lastChild[parent]; ok && last <= prev {
			e.drop(c, fmt.Sprintf("sibling number %d does not follow %d", last, prev))
			continue
		}

		seen[c.SectionID] = true
		lastChild[parent] = last
		entries = append(entries, NewTocEntry(c.SectionID, c.Title, c.Page, e.config.DocTitle, e.config.Tags))
	}

	return entries
}

func (e *TOCExtractor) drop(c HeadingCandidate, reason string) {
	e.observer.Observe(Event{
		Stage:     "toc",
		Kind:      EventEntryDropped,
		SectionID: c.SectionID,
		Page:      c.Page,
		Detail:    reason,
	})
}

// NewTocEntry builds an entry, deriving its level, parent, path and tags.
func NewTocEntry(sectionID, title string, page int, docTitle string, tags TagTable) TocEntry {
	return TocEntry{
		SectionID: sectionID,
		Title:     title,
		Page:      page,
		Level:     Level(sectionID),
		ParentID:  ParentID(sectionID),
		FullPath:  sectionID + " " + title,
		DocTitle:  docTitle,
		Tags:      InferTags(title, tags),
	}
}

// InferTags returns the sorted categories whose trigger tokens appear in title.
func InferTags(title string, table TagTable) []string {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = true
	}

	tags := []string{}
	for category, triggers := range table {
		for _, t := range triggers {
			if tokens[strings.ToLower(t)] {
				tags = append(tags, strings.ToLower(category))
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// EntriesFromHeadings reconstructs ToC entries from inline headings, used when
// no ToC could be found. The first occurrence of each id wins and the numbering
// invariants are enforced as for extracted entries.
func EntriesFromHeadings(headings []HeadingCandidate, config *Config, observer Observer) []TocEntry {
	e := NewTOCExtractor(config, observer)
	candidates := make([]HeadingCandidate, 0, len(headings))
	seen := make(map[string]bool)
	for _, h := range headings {
		if h.SectionID == "" || seen[h.SectionID] {
			continue
		}
		seen[h.SectionID] = true
		candidates = append(candidates, h)
	}
	return e.buildEntries(candidates)
}

// splitLines splits page text into lines, normalising line endings.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
