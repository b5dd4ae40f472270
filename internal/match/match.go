// Package match decides whether two bibliographic titles denote the same work.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default similarity thresholds. Short titles need a stricter bar because
// generic phrasing produces high bigram overlap. These are tuned by hand and
// not validated against a ground-truth dataset.
const (
	DefaultShortThreshold = 0.85
	DefaultLongThreshold  = 0.80
	DefaultShortLength    = 30
)

// Matcher compares titles with a tiered equality / substring / Dice test.
type Matcher struct {
	ShortThreshold float64 // Used when the shorter normalized title is below ShortLength runes
	LongThreshold  float64
	ShortLength    int
}

// NewMatcher returns a Matcher with the default thresholds.
func NewMatcher() Matcher {
	return Matcher{
		ShortThreshold: DefaultShortThreshold,
		LongThreshold:  DefaultLongThreshold,
		ShortLength:    DefaultShortLength,
	}
}

// IsSimilar normalizes both titles and reports whether they match.
func (m Matcher) IsSimilar(a, b string) bool {
	return m.IsSimilarNormalized(NormalizeTitle(a), NormalizeTitle(b))
}

// IsSimilarNormalized reports whether two already-normalized titles match:
//  1. equal
//  2. one is a substring of the other (appended subtitles)
//  3. Dice coefficient at or above the length-dependent threshold
func (m Matcher) IsSimilarNormalized(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return Dice(a, b) >= m.threshold(a, b)
}

// threshold returns the bar for a title pair.
func (m Matcher) threshold(a, b string) float64 {
	shorter := min(len([]rune(a)), len([]rune(b)))
	if shorter < m.ShortLength {
		return m.ShortThreshold
	}
	return m.LongThreshold
}

// NormalizeTitle lower-cases a title, strips punctuation and collapses
// whitespace. Compatibility forms (ligatures, full-width letters) are folded
// first so the same title typed in different encodings compares equal.
func NormalizeTitle(title string) string {
	folded, _, err := transform.String(norm.NFKC, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	pendingSpace := false

	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
		// Punctuation, symbols and combining marks are dropped.
	}

	return sb.String()
}

// NormalizeDOI normalizes a DOI for comparison. It removes common URL and
// scheme prefixes and lower-cases the result (DOIs are case-insensitive).
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			lower = lower[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(lower)
}

// doiPrefixes lists the forms sources use to wrap a bare DOI, longest first.
var doiPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"dx.doi.org/",
	"doi.org/",
	"doi:",
}
