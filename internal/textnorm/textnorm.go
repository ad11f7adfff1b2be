// Package textnorm canonicalizes raw bibliographic text into comparable
// token streams. All matching elsewhere in shelfcheck operates on the
// output of this package, never on raw strings.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen filters out stray initials, articles and page-number debris.
// Single-letter author initials are deliberately not tokens; multi-letter
// abbreviations survive.
const minTokenLen = 3

var (
	urlPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	parenYear       = regexp.MustCompile(`\(\d{4}\)`)
	quoteChars      = regexp.MustCompile("[\"'“”‘’`´]")
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
)

// stripAccents removes combining marks after NFD decomposition, folding
// accented Latin letters to their base form (física -> fisica).
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean canonicalizes text for comparison: lowercase, URLs removed,
// parenthesised 4-digit years removed, quote characters removed, accents
// folded, remaining non-alphanumerics collapsed to single spaces.
//
// Clean is pure, idempotent and nil-safe; a string with no alphanumeric
// content cleans to "".
func Clean(text string) string {
	t := strings.ToLower(text)
	t = urlPattern.ReplaceAllString(t, "")
	t = parenYear.ReplaceAllString(t, "")
	t = quoteChars.ReplaceAllString(t, "")
	if folded, _, err := transform.String(stripAccents, t); err == nil {
		t = folded
	}
	t = nonAlphanumeric.ReplaceAllString(t, " ")
	return strings.Join(strings.Fields(t), " ")
}

// Tokens splits cleaned text into normalized words, discarding words
// shorter than three characters. Order is preserved but callers use the
// result for set membership, not ordering.
func Tokens(text string) []string {
	var tokens []string
	for _, w := range strings.Fields(Clean(text)) {
		if len(w) >= minTokenLen {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
