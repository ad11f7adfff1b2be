// Package report renders batch results for tabular display and export,
// one flat record per input reference, in input order.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/libstack/shelfcheck/internal/engine"
	"gopkg.in/yaml.v3"
)

// Record is the flat export row for one reference. Field names are display
// labels, not contractual identifiers.
type Record struct {
	Reference     string `json:"reference" yaml:"reference"`
	Type          string `json:"type" yaml:"type"`
	Status        string `json:"status" yaml:"status"`
	Stock         int    `json:"stock" yaml:"stock"`
	OutdatedStock int    `json:"outdated_stock,omitempty" yaml:"outdatedstock,omitempty"`
	Match         string `json:"match,omitempty" yaml:"match,omitempty"`
	Confidence    int    `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Observations  string `json:"observations" yaml:"observations"`
	BookFinder    string `json:"link_bookfinder" yaml:"link_bookfinder"`
	Buscalibre    string `json:"link_buscalibre" yaml:"link_buscalibre"`
	Google        string `json:"link_google" yaml:"link_google"`
}

// Summary aggregates one batch run.
type Summary struct {
	Total      int `json:"total" yaml:"total"`
	InStock    int `json:"in_stock" yaml:"instock"`
	OutOfStock int `json:"out_of_stock" yaml:"outofstock"`
	Outdated   int `json:"outdated" yaml:"outdated"`
	NotFound   int `json:"not_found" yaml:"notfound"`
	Articles   int `json:"articles" yaml:"articles"`

	// Accepted counts references matched to a catalog entry regardless of
	// stock level; MeanConfidence averages over them.
	Accepted       int     `json:"accepted" yaml:"accepted"`
	MeanConfidence float64 `json:"mean_confidence" yaml:"meanconfidence"`
}

// NewRecord flattens an engine result.
func NewRecord(r engine.Result) Record {
	return Record{
		Reference:     r.Reference,
		Type:          string(r.Classification),
		Status:        string(r.Status),
		Stock:         r.Stock,
		OutdatedStock: r.OutdatedStock,
		Match:         r.MatchedTitle,
		Confidence:    r.Confidence,
		Observations:  r.Explanation,
		BookFinder:    r.Links.BookFinder,
		Buscalibre:    r.Links.Buscalibre,
		Google:        r.Links.Google,
	}
}

// Summarize computes the batch summary.
func Summarize(results []engine.Result) Summary {
	s := Summary{Total: len(results)}
	confidenceSum := 0
	for _, r := range results {
		switch r.Status {
		case engine.StatusInStock:
			s.InStock++
		case engine.StatusOutOfStock:
			s.OutOfStock++
		case engine.StatusOutdatedEditionOnly:
			s.Outdated++
		case engine.StatusNotFound:
			s.NotFound++
		case engine.StatusVerifyOnline:
			s.Articles++
		}
		if r.Entry != nil {
			s.Accepted++
			confidenceSum += r.Confidence
		}
	}
	if s.Accepted > 0 {
		s.MeanConfidence = float64(confidenceSum) / float64(s.Accepted)
	}
	return s
}

// WriteText prints a human-readable report: the summary block plus the
// acquisition list of unresolved book references with their search links.
func WriteText(w io.Writer, results []engine.Result, summary Summary) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Shelfcheck Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total references:  %d\n", summary.Total)
	fmt.Fprintf(w, "In stock:          %d\n", summary.InStock)
	fmt.Fprintf(w, "Out of stock:      %d\n", summary.OutOfStock)
	fmt.Fprintf(w, "Outdated edition:  %d\n", summary.Outdated)
	fmt.Fprintf(w, "Not found:         %d\n", summary.NotFound)
	fmt.Fprintf(w, "Articles:          %d\n", summary.Articles)
	if summary.Accepted > 0 {
		fmt.Fprintf(w, "Mean confidence:   %.1f%%\n", summary.MeanConfidence)
	}

	missing := 0
	for _, r := range results {
		if r.Classification == engine.ClassBook && r.Stock == 0 {
			missing++
		}
	}

	fmt.Fprintf(w, "\nAcquisition list (%d):\n", missing)
	fmt.Fprintln(w, "========================================")
	for _, r := range results {
		if r.Classification != engine.ClassBook || r.Stock > 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", truncate(r.Reference, 100))
		fmt.Fprintf(w, "  Status: %s", r.Status)
		if r.Explanation != "" {
			fmt.Fprintf(w, " (%s)", r.Explanation)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  BookFinder: %s\n", r.Links.BookFinder)
		fmt.Fprintf(w, "  Buscalibre: %s\n", r.Links.Buscalibre)
		fmt.Fprintf(w, "  Google:     %s\n", r.Links.Google)
	}
	return nil
}

// WriteCSV writes one row per reference with a header row.
func WriteCSV(w io.Writer, results []engine.Result) error {
	writer := csv.NewWriter(w)
	header := []string{
		"Referencia", "Tipo", "Estado", "Stock", "Stock desactualizado",
		"Match", "Confianza", "Observaciones", "Link_BF", "Link_BL", "Link_GG",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		rec := NewRecord(r)
		row := []string{
			rec.Reference, rec.Type, rec.Status,
			strconv.Itoa(rec.Stock), strconv.Itoa(rec.OutdatedStock),
			rec.Match, strconv.Itoa(rec.Confidence), rec.Observations,
			rec.BookFinder, rec.Buscalibre, rec.Google,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

type document struct {
	GeneratedAt string   `json:"generated_at" yaml:"generatedat"`
	Summary     Summary  `json:"summary" yaml:"summary"`
	Results     []Record `json:"results" yaml:"results"`
}

func newDocument(results []engine.Result, summary Summary) document {
	doc := document{
		GeneratedAt: time.Now().Format("2006-01-02_15-04-05"),
		Summary:     summary,
		Results:     make([]Record, 0, len(results)),
	}
	for _, r := range results {
		doc.Results = append(doc.Results, NewRecord(r))
	}
	return doc
}

// WriteJSON writes the summary and all result records as one document.
func WriteJSON(w io.Writer, results []engine.Result, summary Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(newDocument(results, summary)); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes the same document as YAML.
func WriteYAML(w io.Writer, results []engine.Result, summary Summary) error {
	data, err := yaml.Marshal(newDocument(results, summary))
	if err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
