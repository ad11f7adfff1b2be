package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/libstack/shelfcheck/internal/catalog"
	"github.com/parquet-go/parquet-go"
)

// LoadCatalog loads catalog rows from a CSV, JSONL or Parquet file,
// selected by extension.
func LoadCatalog(path string) ([]catalog.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return loadCatalogCSV(path)
	case ".jsonl", ".json":
		return loadCatalogJSONL(path)
	case ".parquet":
		return loadCatalogParquet(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (supported: .csv, .jsonl, .parquet)", filepath.Ext(path))
	}
}

func loadCatalogCSV(path string) ([]catalog.Row, error) {
	text, err := readTextFile(path)
	if err != nil {
		return nil, err
	}

	firstLine, _, _ := strings.Cut(text, "\n")
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(firstLine)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	headers := lowerHeaders(records[0])
	titleCol := findColumn(headers, titleNeedles)
	authorCol := findColumn(headers, authorNeedles)
	if titleCol < 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTitleColumn)
	}
	if authorCol < 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoAuthorColumn)
	}
	quantityCol := findColumn(headers, quantityNeedles)
	yearCol := findColumn(headers, yearNeedles)

	slog.Debug("Catalog columns detected",
		"title", headers[titleCol], "author", headers[authorCol],
		"quantity_col", quantityCol, "year_col", yearCol)

	rows := make([]catalog.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, catalog.Row{
			Title:    cell(record, titleCol),
			Author:   cell(record, authorCol),
			Quantity: coerceQuantity(cell(record, quantityCol)),
			Year:     coerceYear(cell(record, yearCol)),
		})
	}
	return rows, nil
}

// loadCatalogJSONL reads one JSON object per line and applies the same
// column detection as CSV to the object keys.
func loadCatalogJSONL(path string) ([]catalog.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var rows []catalog.Row
	var titleKey, authorKey, quantityKey, yearKey string

	scanner := bufio.NewScanner(file)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, maxLine), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse catalog JSON at line %d: %w", lineNum, err)
		}

		if titleKey == "" {
			keys := sortedKeys(record)
			titleKey = findKey(keys, titleNeedles)
			authorKey = findKey(keys, authorNeedles)
			quantityKey = findKey(keys, quantityNeedles)
			yearKey = findKey(keys, yearNeedles)
			if titleKey == "" {
				return nil, fmt.Errorf("%s: %w", path, ErrNoTitleColumn)
			}
			if authorKey == "" {
				return nil, fmt.Errorf("%s: %w", path, ErrNoAuthorColumn)
			}
		}

		rows = append(rows, catalog.Row{
			Title:    stringValue(record[titleKey]),
			Author:   stringValue(record[authorKey]),
			Quantity: coerceQuantity(stringValue(record[quantityKey])),
			Year:     coerceYear(stringValue(record[yearKey])),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	return rows, nil
}

// parquetCatalogRecord is the expected schema for Parquet catalogs. Unlike
// the free-form CSV path, Parquet files are schema-bound exports and use
// canonical column names.
type parquetCatalogRecord struct {
	Title    string `parquet:"title,optional"`
	Author   string `parquet:"author,optional"`
	Quantity int64  `parquet:"quantity,optional"`
	Year     int64  `parquet:"year,optional"`
}

func loadCatalogParquet(path string) ([]catalog.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet catalog opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[parquetCatalogRecord](pf)
	defer reader.Close()

	var rows []catalog.Row
	batch := make([]parquetCatalogRecord, 128) // Read in batches

	for {
		n, err := reader.Read(batch)
		for _, rec := range batch[:n] {
			quantity := int(rec.Quantity)
			if quantity == 0 {
				// Optional zero is indistinguishable from absent; fall
				// back to the one-copy default like CSV does.
				quantity = 1
			}
			rows = append(rows, catalog.Row{
				Title:    rec.Title,
				Author:   rec.Author,
				Quantity: quantity,
				Year:     int(rec.Year),
			})
		}
		if err != nil {
			break
		}
	}

	return rows, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		// JSON numbers arrive as float64; quantities and years are whole.
		return fmt.Sprintf("%d", int64(val))
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func sortedKeys(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	// Deterministic detection regardless of map iteration order.
	sort.Strings(keys)
	return keys
}

func findKey(keys []string, needles []string) string {
	for _, k := range keys {
		lowered := strings.ToLower(strings.TrimSpace(k))
		for _, n := range needles {
			if strings.Contains(lowered, n) {
				return k
			}
		}
	}
	return ""
}
