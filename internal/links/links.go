// Package links builds outbound vendor-search URLs for references that
// could not be resolved against the catalog, so a librarian can check
// acquisition options in one click.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

// maxQueryWords caps very long citations to their leading words, which in
// practice carry the author and title.
const maxQueryWords = 10

var (
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	urlPattern  = regexp.MustCompile(`http\S+`)
	parenYear   = regexp.MustCompile(`\(\d{4}\)`)
	// Accents are kept here: vendor search engines handle them and they
	// improve Spanish-language results.
	queryChars = regexp.MustCompile(`[^a-zA-Z0-9áéíóúÁÉÍÓÚñÑüÜ ]`)
	quoteChars = regexp.MustCompile("[\"“”]")
)

// Set holds the outbound search URLs for one reference.
type Set struct {
	BookFinder string
	Buscalibre string
	Google     string
}

// Query distills a raw citation into a short web-search query: quotes,
// URLs and parenthesised years stripped, capped at the leading words, with
// any extractable 4-digit year re-appended.
func Query(raw string) string {
	s := quoteChars.ReplaceAllString(raw, "")

	year := yearPattern.FindString(s)

	core := urlPattern.ReplaceAllString(s, "")
	core = parenYear.ReplaceAllString(core, "")
	words := strings.Fields(core)
	if len(words) > maxQueryWords {
		words = words[:maxQueryWords]
	}
	core = queryChars.ReplaceAllString(strings.Join(words, " "), " ")

	// Re-append the year only when trimming removed it.
	if year != "" && !strings.Contains(core, year) {
		core += " " + year
	}
	return strings.Join(strings.Fields(core), " ")
}

// For returns the vendor links for a reference. Articles are routed to
// Google Scholar, since they are never expected as physical stock.
func For(raw string, article bool) Set {
	q := url.QueryEscape(Query(raw))

	if article {
		scholar := "https://scholar.google.com/scholar?q=" + q
		return Set{
			BookFinder: scholar,
			Buscalibre: "https://www.buscalibre.cl/libros/search?q=" + q,
			Google:     scholar,
		}
	}
	return Set{
		BookFinder: "https://www.bookfinder.com/search/?keywords=" + q + "&mode=basic&st=sr&ac=qr",
		Buscalibre: "https://www.buscalibre.cl/libros/search?q=" + q,
		Google:     "https://www.google.com/search?q=" + q,
	}
}
