package specindex

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle folds case and compatibility forms and replaces punctuation
// with single spaces, so "Power-Delivery  (PD)" becomes "power delivery pd".
func NormalizeTitle(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

// titleTokens returns the distinct normalized tokens of s.
func titleTokens(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, f := range strings.Fields(NormalizeTitle(s)) {
		tokens[f] = struct{}{}
	}
	return tokens
}

// TitleSimilarity returns the token-overlap ratio of two titles: the number of
// shared normalized tokens divided by the size of the larger token set.
// Two titles without tokens are identical.
func TitleSimilarity(a, b string) float64 {
	ta, tb := titleTokens(a), titleTokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(ta), len(tb)))
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns 100*n/total rounded to two decimals, or 0 when total is 0.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * float64(n) / float64(total))
}
