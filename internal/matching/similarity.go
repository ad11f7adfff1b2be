package matching

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// tokenPresent reports whether tok appears in refTokens, either exactly or
// within Jaro-Winkler similarity minSim. The fuzzy pass absorbs OCR noise
// and inflection differences (serway/serwey, funcion/funciones) without a
// full edit-distance scan on the exact-hit fast path.
func tokenPresent(tok string, refTokens []string, minSim float32) bool {
	for _, r := range refTokens {
		if r == tok {
			return true
		}
	}
	if minSim >= 1 {
		return false
	}
	for _, r := range refTokens {
		if edlib.JaroWinklerSimilarity(tok, r) >= minSim {
			return true
		}
	}
	return false
}

// TitleScore scores, on a 0-100 scale, how completely the catalog title is
// contained in the reference. The measure is asymmetric by construction:
// it asks whether the (short) title fits inside the (long, noisy)
// reference, so extra words, punctuation debris and word order in the
// reference never lower the score.
func TitleScore(titleTokens []string, cleanTitle, cleanRef string, refTokens []string, minTokenSim float32) int {
	if cleanTitle == "" || cleanRef == "" {
		return 0
	}
	if strings.Contains(" "+cleanRef+" ", " "+cleanTitle+" ") {
		return 100
	}
	if len(titleTokens) == 0 {
		// Title made only of short words; token containment cannot be
		// evaluated, fall back to whole-string similarity.
		return int(edlib.JaroWinklerSimilarity(cleanTitle, cleanRef) * 100)
	}

	hits := 0
	for _, tok := range titleTokens {
		if tokenPresent(tok, refTokens, minTokenSim) {
			hits++
		}
	}
	return hits * 100 / len(titleTokens)
}

// AuthorHits counts catalog author tokens (typically surnames) found in
// the reference token set.
func AuthorHits(authorTokens, refTokens []string, minTokenSim float32) int {
	hits := 0
	for _, tok := range authorTokens {
		if tokenPresent(tok, refTokens, minTokenSim) {
			hits++
		}
	}
	return hits
}
