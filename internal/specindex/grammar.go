package specindex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maruel/natural"
)

// Strategy recognises one structural shape of heading line.
type Strategy interface {
	Name() string
	Match(line string) (HeadingCandidate, bool)
}

// regexStrategy matches a line against a pattern whose groups are, in order,
// the optional section id, the title and the optional page number.
type regexStrategy struct {
	name       string
	re         *regexp.Regexp
	confidence Confidence
	hasID      bool
	hasPage    bool
}

func (s *regexStrategy) Name() string { return s.name }

func (s *regexStrategy) Match(line string) (HeadingCandidate, bool) {
	m := s.re.FindStringSubmatch(line)
	if m == nil {
		return HeadingCandidate{}, false
	}

	c := HeadingCandidate{
		RawLine:    line,
		Confidence: s.confidence,
		Strategy:   s.name,
	}

	groups := m[1:]
	if s.hasID {
		c.SectionID = groups[0]
		groups = groups[1:]
	}
	c.Title = cleanTitle(groups[0])
	if s.hasPage {
		page, err := strconv.Atoi(groups[1])
		if err != nil {
			return HeadingCandidate{}, false
		}
		c.Page = page
	}

	return c, true
}

const (
	idPattern     = `(\d+(?:\.\d+)*)\.?`
	leaderPattern = `(?:[.…·]\s*){2,}`
)

var (
	leaderStrategy = &regexStrategy{
		name:       "leader",
		re:         regexp.MustCompile(`^\s*` + idPattern + `\s+(\S.*?)\s*` + leaderPattern + `(\d{1,4})\s*$`),
		confidence: Strong,
		hasID:      true,
		hasPage:    true,
	}

	trailingPageStrategy = &regexStrategy{
		name:       "trailing_page",
		re:         regexp.MustCompile(`^\s*` + idPattern + `\s+(\S.*?)\s+(\d{1,4})\s*$`),
		confidence: Weak,
		hasID:      true,
		hasPage:    true,
	}

	frontMatterStrategy = &regexStrategy{
		name:       "front_matter",
		re:         regexp.MustCompile(`^\s*([A-Za-z][^.…·]*?)\s*` + leaderPattern + `(\d{1,4})\s*$`),
		confidence: Weak,
		hasPage:    true,
	}

	bareStrategy = &regexStrategy{
		name:       "bare",
		re:         regexp.MustCompile(`^\s*` + idPattern + `\s+(\S.*?)\s*$`),
		confidence: Weak,
		hasID:      true,
	}
)

// DefaultStrategies returns the heading strategies, most specific first.
func DefaultStrategies() []Strategy {
	return []Strategy{leaderStrategy, trailingPageStrategy, frontMatterStrategy, bareStrategy}
}

var (
	captionRe      = regexp.MustCompile(`(?i)^(?:(?:figure|table)\b|(?:fig|tbl)\.)`)
	versionTitleRe = regexp.MustCompile(`(?i)^v?\d+(\.\d+)*[a-z]?$`)
	versionRunRe   = regexp.MustCompile(`(?i)^(?:[./-]\d|[/,&]\s*v?\d+\.\d|(?:v|rev\.?|revision|version)\s*\d)`)
	voltageRe      = regexp.MustCompile(`(?i)(?:[+\-±]\s*\d+(?:\.\d+)?\s*[mk]?V\b|^\d+(?:\.\d+)?\s*[mk]?[VAW]$)`)
	proseRe        = regexp.MustCompile(`^[a-z]+\b`)
	mathRe         = regexp.MustCompile(`[+\-*/=]\s*\d+[\s+\-*/=]+\d+`)
	ellipsisRe     = regexp.MustCompile(`\d+[….]{2,}\d+`)
)

var unitAbbreviations = map[string]bool{
	"ms": true, "us": true, "ns": true, "ps": true, "fs": true,
	"mv": true, "kv": true, "ma": true, "ua": true, "na": true,
	"db": true, "hz": true, "khz": true, "mhz": true, "ghz": true,
	"kb": true, "mb": true, "gb": true, "tb": true,
	"mm": true, "cm": true, "km": true, "in": true, "ft": true,
	"kg": true, "mg": true, "lb": true,
	"version": true, "version:": true, "release date:": true,
}

// Grammar parses heading candidates from single lines of text.
// It is stateless and safe for concurrent use.
type Grammar struct {
	strategies     []Strategy
	minTitleLength int
}

// NewGrammar creates a Grammar using the default strategies.
func NewGrammar(config *Config) *Grammar {
	if config == nil {
		config = DefaultConfig()
	}
	return &Grammar{
		strategies:     DefaultStrategies(),
		minTitleLength: config.MinTitleLength,
	}
}

// ParseHeading parses a line with the default grammar.
func ParseHeading(line string) (HeadingCandidate, bool) {
	return defaultGrammar.Parse(line)
}

var defaultGrammar = NewGrammar(nil)

// Parse tries each strategy in order. The first structural match is then
// checked against the false-positive filter; a rejected line does not fall
// through to later strategies.
func (g *Grammar) Parse(line string) (HeadingCandidate, bool) {
	c, reason, ok := g.match(line)
	if !ok || reason != "" {
		return HeadingCandidate{}, false
	}
	return c, true
}

// match returns the first structural match and its reject reason, if any.
func (g *Grammar) match(line string) (HeadingCandidate, string, bool) {
	for _, s := range g.strategies {
		c, ok := s.Match(line)
		if !ok {
			continue
		}
		return c, g.RejectReason(c), true
	}
	return HeadingCandidate{}, "", false
}

// RejectReason returns why a structurally matched candidate is a false
// positive, or "" when it is acceptable.
func (g *Grammar) RejectReason(c HeadingCandidate) string {
	title := c.Title
	n := utf8.RuneCountInString(title)

	if n < g.minTitleLength {
		return "title too short"
	}
	if !strings.ContainsFunc(title, unicode.IsLetter) {
		return "title has no letters"
	}
	if alnumCount(title) < 2 {
		return "title is mostly symbols"
	}
	if c.SectionID == "" {
		return ""
	}

	for _, seg := range strings.Split(c.SectionID, ".") {
		if len(seg) > 3 {
			return "segment too long for a section number"
		}
	}
	if captionRe.MatchString(title) {
		return "figure or table caption"
	}
	if versionTitleRe.MatchString(title) || versionRunRe.MatchString(title) {
		return "version number"
	}
	if unitAbbreviations[strings.ToLower(title)] {
		return "abbreviation"
	}
	// An all-lowercase first word marks prose; mixed case such as "eMarker" does not.
	if proseRe.MatchString(title) {
		return "running prose"
	}
	if voltageRe.MatchString(title) {
		return "voltage expression"
	}
	if mathRe.MatchString(title) || ellipsisRe.MatchString(title) {
		return "numeric expression"
	}
	return ""
}

func alnumCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// cleanTitle collapses whitespace and strips trailing leader dots.
func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, " .…·")
}

// Level returns the number of dot-delimited segments in a section id.
func Level(sectionID string) int {
	if sectionID == "" {
		return 0
	}
	return strings.Count(sectionID, ".") + 1
}

// ParentID returns the parent section id.
// For example, "1.2.3" returns "1.2", and "1" returns "".
func ParentID(sectionID string) string {
	i := strings.LastIndexByte(sectionID, '.')
	if i < 0 {
		return ""
	}
	return sectionID[:i]
}

// ParseSectionID splits a section id into its numeric segments.
func ParseSectionID(sectionID string) ([]int, error) {
	if sectionID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidNumbering)
	}
	parts := strings.Split(sectionID, ".")
	segs := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || p == "" || strings.HasPrefix(p, "+") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumbering, sectionID)
		}
		segs[i] = n
	}
	return segs, nil
}

// CompareSectionIDs orders section ids numerically segment by segment, so
// "2.9" sorts before "2.10" and a parent before its children.
func CompareSectionIDs(a, b string) int {
	switch {
	case a == b:
		return 0
	case natural.Less(a, b):
		return -1
	default:
		return 1
	}
}

// IsDescendant reports whether id lies below ancestor in the section tree.
func IsDescendant(id, ancestor string) bool {
	return strings.HasPrefix(id, ancestor+".")
}
