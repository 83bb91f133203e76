package specindex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// HeadingDetector finds numbered headings where sections begin in the body text.
type HeadingDetector struct {
	grammar  *Grammar
	config   *Config
	observer Observer
}

// NewHeadingDetector creates a new inline heading detector.
func NewHeadingDetector(config *Config, observer Observer) *HeadingDetector {
	if config == nil {
		config = DefaultConfig()
	}
	return &HeadingDetector{
		grammar:  NewGrammar(config),
		config:   config,
		observer: observerOrDiscard(observer),
	}
}

// Detect scans every page line by line and returns the accepted headings in
// document order. Page is always the scanned page.
func (d *HeadingDetector) Detect(pages []Page) ([]HeadingCandidate, error) {
	if err := validatePages(pages); err != nil {
		return nil, fmt.Errorf("detecting headings: %w", err)
	}

	var headings []HeadingCandidate
	for _, page := range pages {
		if isTOCPage(scanPage(d.grammar, page.Text), d.config) {
			continue
		}
		headings = append(headings, d.detectPage(page)...)
	}
	return headings, nil
}

// detectPage applies the grammar and the structural position check to one page.
func (d *HeadingDetector) detectPage(page Page) []HeadingCandidate {
	lines := splitLines(page.Text)

	widest := 0
	for _, line := range lines {
		widest = max(widest, utf8.RuneCountInString(strings.TrimSpace(line)))
	}

	var found []HeadingCandidate
	prev := ""
	prevIsHeading := false
	blankBefore := true // the first non-blank line starts a paragraph

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blankBefore = true
			continue
		}

		c, ok := d.grammar.Parse(line)
		accepted := ok &&
			c.SectionID != "" &&
			c.Strategy != leaderStrategy.Name() &&
			d.startsParagraph(prev, prevIsHeading, blankBefore, widest)

		if accepted {
			if c.Strategy == trailingPageStrategy.Name() {
				// Inline headings carry no page leaders; the number belongs to the title.
				c.Title = c.Title + " " + strconv.Itoa(c.Page)
			}
			c.Page = page.Number
			c.Line = i
			found = append(found, c)
		}

		prev = trimmed
		prevIsHeading = accepted
		blankBefore = false
	}
	return found
}

// startsParagraph reports whether a line can begin a paragraph given the
// line before it. A heading embedded in wrapped prose fails this check.
func (d *HeadingDetector) startsParagraph(prev string, prevIsHeading, blankBefore bool, widest int) bool {
	switch {
	case blankBefore, prevIsHeading:
		return true
	case strings.ContainsAny(prev[len(prev)-1:], ".:;!?"):
		return true
	}
	return float64(utf8.RuneCountInString(prev)) < d.config.ProseLineRatio*float64(widest)
}
