// Package ingest loads catalog and reference files in the tabular formats
// libraries actually export: CSV with unpredictable delimiters and
// encodings, JSONL, and Parquet. Per-row problems are recovered locally;
// only a catalog missing its required columns aborts the run.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoTitleColumn is the structural failure: no matching cannot proceed
// without a detectable title column, so it surfaces before any row work.
var ErrNoTitleColumn = errors.New("catalog has no detectable title column")

// ErrNoAuthorColumn mirrors ErrNoTitleColumn for the author column. Rows
// may leave the author empty, but the column itself must exist.
var ErrNoAuthorColumn = errors.New("catalog has no detectable author column")

var fieldYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Column needles, matched against lowercased trimmed headers. "tit"
// covers título/title/titre, "aut" covers autor/author.
var (
	titleNeedles    = []string{"tit"}
	authorNeedles   = []string{"aut"}
	quantityNeedles = []string{"ejem", "copia", "stock", "cant", "qty", "quan"}
	yearNeedles     = []string{"año", "ano", "year", "edic", "fecha"}
	refNeedles      = []string{"ref", "bib"}
)

// readTextFile reads a file as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8. Library exports from older ILS systems are
// routinely Latin-1.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s as latin-1: %w", path, err)
	}
	return string(decoded), nil
}

// sniffDelimiter picks the CSV delimiter from the header line by simple
// majority among comma, semicolon and tab.
func sniffDelimiter(header string) rune {
	best, count := ',', strings.Count(header, ",")
	if c := strings.Count(header, ";"); c > count {
		best, count = ';', c
	}
	if c := strings.Count(header, "\t"); c > count {
		best = '\t'
	}
	return best
}

// findColumn returns the index of the first header containing any needle,
// or -1.
func findColumn(headers []string, needles []string) int {
	for i, h := range headers {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return i
			}
		}
	}
	return -1
}

func lowerHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return headers
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// coerceQuantity parses a quantity field, defaulting to one copy when the
// field is absent or non-numeric. An explicit zero is respected: it means
// a cataloged title with no copies on the shelf.
func coerceQuantity(raw string) int {
	if raw == "" {
		return 1
	}
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 0 {
		return 1
	}
	return qty
}

// coerceYear extracts a 4-digit 19xx/20xx year from free text, or 0 when
// the edition year is unknown.
func coerceYear(raw string) int {
	m := fieldYearPattern.FindString(raw)
	if m == "" {
		return 0
	}
	year, _ := strconv.Atoi(m)
	return year
}
