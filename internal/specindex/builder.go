package specindex

import (
	"fmt"
	"regexp"
	"strings"
)

// SectionBuilder reconciles ToC entries with inline headings and slices the
// page text into section content.
type SectionBuilder struct {
	config   *Config
	observer Observer
}

// NewSectionBuilder creates a new section builder.
func NewSectionBuilder(config *Config, observer Observer) *SectionBuilder {
	if config == nil {
		config = DefaultConfig()
	}
	return &SectionBuilder{config: config, observer: observerOrDiscard(observer)}
}

// position addresses a line in the document. Pages are 1-based, lines 0-based.
type position struct {
	page int
	line int
}

func (p position) before(o position) bool {
	return p.page < o.page || (p.page == o.page && p.line < o.line)
}

// resolution is where one ToC entry was located.
type resolution struct {
	heading *HeadingCandidate // nil when falling back to the ToC page
	pos     position          // heading line, or the top of the fallback page
	by      Resolution
}

// contentStart is the first line belonging to the section body.
func (r resolution) contentStart() position {
	if r.heading == nil {
		return r.pos
	}
	return position{page: r.pos.page, line: r.pos.line + 1}
}

// Build emits one Section per ToC entry, in ToC order. Unresolvable entries
// fall back to their stated page and never cause an error.
func (b *SectionBuilder) Build(toc []TocEntry, headings []HeadingCandidate, pages []Page) ([]Section, error) {
	if err := validatePages(pages); err != nil {
		return nil, fmt.Errorf("building sections: %w", err)
	}

	byID := make(map[string][]*HeadingCandidate)
	for i := range headings {
		h := &headings[i]
		byID[h.SectionID] = append(byID[h.SectionID], h)
	}

	resolved := make([]resolution, len(toc))
	floor := position{page: 1, line: -1}
	for i, entry := range toc {
		r := b.resolve(entry, byID, headings, floor, len(pages))
		if r.by == ResolvedByTOCPage {
			b.observer.Observe(Event{
				Stage:     "build",
				Kind:      EventUnresolved,
				SectionID: entry.SectionID,
				Page:      r.pos.page,
				Detail:    "no inline heading found, using ToC page",
			})
		} else {
			floor = r.pos
		}
		resolved[i] = r
	}

	doc := newDocument(pages)
	sections := make([]Section, len(toc))
	for i, entry := range toc {
		r := resolved[i]

		pageEnd := len(pages)
		end := doc.end()
		if i+1 < len(toc) {
			next := resolved[i+1].pos
			pageEnd = max(r.pos.page, next.page-1)
			end = next
		}

		title := entry.Title
		if r.heading != nil {
			title = r.heading.Title
		}

		content := doc.slice(r.contentStart(), end)
		sections[i] = Section{
			SectionID:  entry.SectionID,
			Title:      title,
			Page:       entry.Page,
			Level:      entry.Level,
			ParentID:   entry.ParentID,
			FullPath:   entry.FullPath,
			DocTitle:   entry.DocTitle,
			Tags:       entry.Tags,
			Content:    content,
			PageStart:  r.pos.page,
			PageEnd:    pageEnd,
			Figures:    findReferences(figureRe, "Figure", content),
			Tables:     findReferences(tableRe, "Table", content),
			ResolvedBy: r.by,
		}
	}

	setSubtreeEnds(sections)
	return sections, nil
}

// resolve locates the body heading for one entry: by section id, then by
// normalized title near the stated page, then the stated page itself.
func (b *SectionBuilder) resolve(entry TocEntry, byID map[string][]*HeadingCandidate, headings []HeadingCandidate, floor position, pageCount int) resolution {
	if h := b.matchByID(entry, byID[entry.SectionID], floor); h != nil {
		return resolution{heading: h, pos: position{h.Page, h.Line}, by: ResolvedByID}
	}
	if h := b.matchByTitle(entry, headings); h != nil {
		return resolution{heading: h, pos: position{h.Page, h.Line}, by: ResolvedByTitle}
	}

	page := min(max(entry.Page, 1), pageCount)
	return resolution{pos: position{page: page}, by: ResolvedByTOCPage}
}

// matchByID picks among headings sharing the entry's id. A candidate at or
// after the previous section with a similar title is preferred, then any
// candidate after the previous section, then the first one.
func (b *SectionBuilder) matchByID(entry TocEntry, candidates []*HeadingCandidate, floor position) *HeadingCandidate {
	if len(candidates) == 0 {
		return nil
	}

	var after *HeadingCandidate
	for _, h := range candidates {
		if (position{h.Page, h.Line}).before(floor) {
			continue
		}
		if TitleSimilarity(h.Title, entry.Title) >= b.config.TitleSimilarityThreshold {
			return h
		}
		if after == nil {
			after = h
		}
	}
	if after != nil {
		return after
	}
	return candidates[0]
}

// matchByTitle finds the heading with the same normalized title closest to
// the stated page, within the resolve tolerance.
func (b *SectionBuilder) matchByTitle(entry TocEntry, headings []HeadingCandidate) *HeadingCandidate {
	want := NormalizeTitle(entry.Title)
	if want == "" {
		return nil
	}

	var best *HeadingCandidate
	bestDist := b.config.ResolveTolerance + 1
	for i := range headings {
		h := &headings[i]
		dist := abs(h.Page - entry.Page)
		if dist >= bestDist || NormalizeTitle(h.Title) != want {
			continue
		}
		best, bestDist = h, dist
	}
	return best
}

// setSubtreeEnds records, for every section, the last page covered by the
// section together with all of its descendants.
func setSubtreeEnds(sections []Section) {
	for i := range sections {
		end := sections[i].PageEnd
		for j := range sections {
			if IsDescendant(sections[j].SectionID, sections[i].SectionID) {
				end = max(end, sections[j].PageEnd)
			}
		}
		sections[i].SubtreePageEnd = end
	}
}

// document holds the page text split into lines for slicing.
type document struct {
	lines [][]string // indexed by page number - 1
}

func newDocument(pages []Page) *document {
	d := &document{lines: make([][]string, len(pages))}
	for i, p := range pages {
		d.lines[i] = splitLines(p.Text)
	}
	return d
}

// end is the position just past the last line of the document.
func (d *document) end() position {
	return position{page: len(d.lines) + 1}
}

// slice returns the text from start up to but excluding end, trimmed.
// An empty or inverted range yields "".
func (d *document) slice(start, end position) string {
	if !start.before(end) {
		return ""
	}

	var b strings.Builder
	for page := start.page; page <= len(d.lines) && page <= end.page; page++ {
		lines := d.lines[page-1]
		from, to := 0, len(lines)
		if page == start.page {
			from = min(start.line, len(lines))
		}
		if page == end.page {
			to = min(end.line, len(lines))
		}
		for _, line := range lines[from:max(from, to)] {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

var (
	figureRe = regexp.MustCompile(`\bFigure\s+(\d+)\s*[-–]\s*(\d+)`)
	tableRe  = regexp.MustCompile(`\bTable\s+(\d+)\s*[-–]\s*(\d+)`)
)

// findReferences returns the normalized "<label> N-M" references in text in
// first-occurrence order without duplicates.
func findReferences(re *regexp.Regexp, label, text string) []string {
	refs := []string{}
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		ref := label + " " + m[1] + "-" + m[2]
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
