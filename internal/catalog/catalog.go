// Package catalog builds the in-memory inventory index that references are
// matched against. The index is built once per run and never mutated
// afterwards, so the per-reference phase can read it without locking.
package catalog

import (
	"sort"
	"strings"

	"github.com/libstack/shelfcheck/internal/textnorm"
)

// Row is one raw inventory line as supplied by the catalog source.
// Quantity and Year carry the loader's per-row defaults: quantity 1 when
// absent or non-numeric, year 0 when unknown.
type Row struct {
	Title    string
	Author   string
	Quantity int
	Year     int
}

// Entry is one deduplicated title/author identity with stock accumulated
// across every contributing catalog row.
type Entry struct {
	// Display fields from the first contributing row.
	Title  string
	Author string

	TitleTokens  []string
	AuthorTokens []string
	CleanTitle   string

	// Stock is the total copies across all editions. Never negative.
	Stock int

	// Editions maps edition year to copies held for that year. Year 0
	// collects rows whose edition year could not be determined.
	Editions map[int]int
}

// LatestKnownYear returns the most recent edition year recorded for the
// entry, or 0 when every contributing row had an unknown year.
func (e *Entry) LatestKnownYear() int {
	latest := 0
	for year := range e.Editions {
		if year > latest {
			latest = year
		}
	}
	return latest
}

// EditionYears returns the recorded edition years in ascending order,
// excluding the unknown-year bucket.
func (e *Entry) EditionYears() []int {
	years := make([]int, 0, len(e.Editions))
	for year := range e.Editions {
		if year > 0 {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years
}

// StockSince returns the copies held for editions from year onward.
// Unknown-year copies are excluded: they cannot vouch for freshness.
func (e *Entry) StockSince(year int) int {
	total := 0
	for y, qty := range e.Editions {
		if y > 0 && y >= year {
			total += qty
		}
	}
	return total
}

// Index is the read-only catalog index shared by all reference decisions.
type Index struct {
	Entries []*Entry

	// CleanTitles is parallel to Entries and exists for fast candidate
	// retrieval without touching the entry structs.
	CleanTitles []string

	// Merged counts rows folded into an existing identity.
	// Skipped counts rows discarded for lacking a usable title.
	Merged  int
	Skipped int
}

// identityKey joins the title and author token sets into the entry's
// dedup key. The two segments stay distinct so two authors sharing a
// title word set are never merged.
func identityKey(titleTokens, authorTokens []string) string {
	return strings.Join(titleTokens, "_") + "|" + strings.Join(authorTokens, "_")
}

// BuildIndex folds catalog rows into deduplicated entries. Rows sharing a
// normalized (title, author) identity are merged by summing quantities and
// recording each contributing edition year; overwriting instead of
// accumulating would silently undercount stock.
//
// Rows whose title normalizes to fewer than two characters are skipped and
// counted, never fatal.
func BuildIndex(rows []Row) *Index {
	idx := &Index{}
	byKey := make(map[string]*Entry, len(rows))

	for _, row := range rows {
		clean := textnorm.Clean(row.Title)
		if len(clean) < 2 {
			idx.Skipped++
			continue
		}

		qty := row.Quantity
		if qty < 0 {
			qty = 0
		}

		titleTokens := textnorm.Tokens(row.Title)
		authorTokens := textnorm.Tokens(row.Author)
		key := identityKey(titleTokens, authorTokens)

		if entry, ok := byKey[key]; ok {
			entry.Stock += qty
			entry.Editions[row.Year] += qty
			idx.Merged++
			continue
		}

		entry := &Entry{
			Title:        row.Title,
			Author:       row.Author,
			TitleTokens:  titleTokens,
			AuthorTokens: authorTokens,
			CleanTitle:   clean,
			Stock:        qty,
			Editions:     map[int]int{row.Year: qty},
		}
		byKey[key] = entry
		idx.Entries = append(idx.Entries, entry)
		idx.CleanTitles = append(idx.CleanTitles, clean)
	}

	return idx
}
