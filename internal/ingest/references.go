package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// LoadReferences loads the ordered citation list from a plain-text, CSV,
// JSONL or Parquet file. Order is preserved; results are later emitted in
// this same order.
func LoadReferences(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return loadReferencesText(path)
	case ".csv", ".tsv":
		return loadReferencesCSV(path)
	case ".jsonl", ".json":
		return loadReferencesJSONL(path)
	case ".parquet":
		return loadReferencesParquet(path)
	default:
		return nil, fmt.Errorf("unsupported references format: %s (supported: .txt, .csv, .jsonl, .parquet)", filepath.Ext(path))
	}
}

// loadReferencesText treats every non-blank line as one citation.
func loadReferencesText(path string) ([]string, error) {
	text, err := readTextFile(path)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			refs = append(refs, line)
		}
	}
	return refs, nil
}

// loadReferencesCSV picks the reference column: a single-column file uses
// that column, otherwise the first header containing "ref" or "bib",
// otherwise the first column. The header row is never a citation.
func loadReferencesCSV(path string) ([]string, error) {
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
		return nil, fmt.Errorf("failed to parse references CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("references file %s is empty", path)
	}

	refCol := 0
	if len(records[0]) > 1 {
		if col := findColumn(lowerHeaders(records[0]), refNeedles); col >= 0 {
			refCol = col
		}
	}

	slog.Debug("Reference column detected", "column", refCol, "header", records[0][refCol])

	refs := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if ref := cell(record, refCol); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func loadReferencesJSONL(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open references file: %w", err)
	}
	defer file.Close()

	var refs []string
	var refKey string

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
			return nil, fmt.Errorf("failed to parse references JSON at line %d: %w", lineNum, err)
		}

		if refKey == "" {
			keys := sortedKeys(record)
			refKey = findKey(keys, refNeedles)
			if refKey == "" && len(keys) > 0 {
				refKey = keys[0]
			}
		}

		if ref := stringValue(record[refKey]); ref != "" {
			refs = append(refs, ref)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading references: %w", err)
	}
	return refs, nil
}

type parquetReferenceRecord struct {
	Reference string `parquet:"reference,optional"`
}

func loadReferencesParquet(path string) ([]string, error) {
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

	reader := parquet.NewGenericReader[parquetReferenceRecord](pf)
	defer reader.Close()

	var refs []string
	batch := make([]parquetReferenceRecord, 128)
	for {
		n, err := reader.Read(batch)
		for _, rec := range batch[:n] {
			if ref := strings.TrimSpace(rec.Reference); ref != "" {
				refs = append(refs, ref)
			}
		}
		if err != nil {
			break
		}
	}

	return refs, nil
}
