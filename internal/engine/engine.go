// Package engine makes the final per-reference decision: classify,
// retrieve, validate, pick the best candidate, and resolve stock and
// edition freshness into one result record.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/libstack/shelfcheck/internal/catalog"
	"github.com/libstack/shelfcheck/internal/links"
	"github.com/libstack/shelfcheck/internal/matching"
	"github.com/libstack/shelfcheck/internal/textnorm"
)

// Status is the decision outcome for one reference.
type Status string

const (
	StatusInStock             Status = "IN_STOCK"
	StatusOutOfStock          Status = "OUT_OF_STOCK"
	StatusOutdatedEditionOnly Status = "OUTDATED_EDITION_ONLY"
	StatusNotFound            Status = "NOT_FOUND"
	// StatusVerifyOnline marks journal/serial citations, which are never
	// expected to be held as physical stock.
	StatusVerifyOnline Status = "VERIFY_ONLINE"
)

// Classification separates monographs from serial literature.
type Classification string

const (
	ClassBook    Classification = "Book"
	ClassArticle Classification = "Article"
)

// Result is the flat decision record for one input reference.
type Result struct {
	Reference      string
	Classification Classification
	Status         Status

	// Stock counts copies current enough for the citation; OutdatedStock
	// counts copies from editions predating the cited year. Stock > 0
	// exactly when Status is IN_STOCK.
	Stock         int
	OutdatedStock int

	MatchedTitle  string
	MatchedAuthor string
	Confidence    int
	Explanation   string

	Links links.Set

	// Entry is the accepted catalog entry, nil when nothing matched.
	Entry *catalog.Entry
}

var citedYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// CitedYear extracts the first plausible 4-digit year from a citation,
// or 0 when none is present.
func CitedYear(raw string) int {
	m := citedYearPattern.FindString(raw)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// Engine holds the shared read-only state for a batch run.
type Engine struct {
	index  *catalog.Index
	policy matching.Policy
}

// New builds an engine over a finished catalog index. The index must not
// be mutated afterwards.
func New(index *catalog.Index, policy matching.Policy) *Engine {
	return &Engine{index: index, policy: policy}
}

// isArticle reports whether the reference carries journal/serial
// indicators (persistent identifiers, journal keywords).
func (e *Engine) isArticle(raw string) bool {
	lowered := strings.ToLower(raw)
	for _, kw := range e.policy.ArticleKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Decide resolves one raw reference into a Result. It never fails: an
// unusable reference or an empty catalog resolves to NOT_FOUND.
func (e *Engine) Decide(raw string) Result {
	res := Result{
		Reference:      raw,
		Classification: ClassBook,
		Status:         StatusNotFound,
	}

	if e.isArticle(raw) {
		res.Classification = ClassArticle
		res.Status = StatusVerifyOnline
		res.Explanation = "journal or serial indicators found; verify against external sources"
		res.Links = links.For(raw, true)
		return res
	}
	res.Links = links.For(raw, false)

	cleanRef := textnorm.Clean(raw)
	if len(cleanRef) < e.policy.MinReferenceLen {
		res.Explanation = "reference has no scoreable text"
		return res
	}
	refTokens := textnorm.Tokens(raw)

	candidates := matching.Retrieve(cleanRef, refTokens, e.index, e.policy.RetrievalLimit)

	var best matching.Evaluation
	var bestEntry *catalog.Entry
	for _, c := range candidates {
		entry := e.index.Entries[c.Index]
		ev := e.policy.Validate(cleanRef, refTokens, entry)
		// Strictly greater keeps the first candidate on ties, preserving
		// retrieval order.
		if ev.Confidence > best.Confidence {
			best = ev
			bestEntry = entry
		}
	}

	if bestEntry == nil || best.Confidence < e.policy.Threshold {
		res.Explanation = "no catalog candidate cleared the acceptance threshold"
		return res
	}

	res.Entry = bestEntry
	res.MatchedTitle = bestEntry.Title
	res.MatchedAuthor = bestEntry.Author
	res.Confidence = best.Confidence
	res.Stock = bestEntry.Stock
	res.Explanation = fmt.Sprintf("%s: %q (confidence %d%%, title score %d)",
		best.Reason, bestEntry.Title, best.Confidence, best.TitleScore)

	if cited := CitedYear(raw); cited > 0 && res.Stock > 0 {
		if latest := bestEntry.LatestKnownYear(); latest > 0 && latest < cited {
			// Every held copy with a known edition year predates the
			// citation; the citation implies a specific-or-later edition.
			res.Status = StatusOutdatedEditionOnly
			res.OutdatedStock = res.Stock
			res.Stock = 0
			res.Explanation += fmt.Sprintf("; latest held edition %d predates cited year %d", latest, cited)
			return res
		}
	}

	if res.Stock > 0 {
		res.Status = StatusInStock
	} else {
		res.Status = StatusOutOfStock
	}
	return res
}
