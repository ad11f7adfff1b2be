package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/libstack/shelfcheck/internal/catalog"
	"github.com/libstack/shelfcheck/internal/matching"
)

func testEngine(rows []catalog.Row) *Engine {
	return New(catalog.BuildIndex(rows), matching.DefaultPolicy())
}

func TestDecideInStock(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Introduction to Operations Research", Author: "Hillier, Frederick S.", Quantity: 3, Year: 2015},
	})

	res := eng.Decide("Hillier, F.S. Introduction to Operations Research. 2015.")

	if res.Status != StatusInStock {
		t.Fatalf("status = %s, want IN_STOCK (%s)", res.Status, res.Explanation)
	}
	if res.Stock != 3 {
		t.Errorf("stock = %d, want 3", res.Stock)
	}
	if res.Classification != ClassBook {
		t.Errorf("classification = %s, want Book", res.Classification)
	}
	if res.MatchedTitle != "Introduction to Operations Research" {
		t.Errorf("matched title = %q", res.MatchedTitle)
	}
	if !strings.Contains(res.Explanation, "exact match") {
		t.Errorf("explanation should cite the rule, got %q", res.Explanation)
	}
}

func TestDecideRejectsShortGenericTitle(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Física", Quantity: 5},
	})

	res := eng.Decide("Física general, Serway, 2018")

	if res.Status != StatusNotFound {
		t.Fatalf("status = %s, want NOT_FOUND despite high raw similarity", res.Status)
	}
	if res.Stock != 0 {
		t.Errorf("stock = %d, want 0", res.Stock)
	}
	if res.Entry != nil {
		t.Errorf("no entry should be matched, got %q", res.Entry.Title)
	}
}

func TestDecideClassifiesArticles(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Journal keeping for beginners", Author: "Adams", Quantity: 1},
	})

	tests := []string{
		"Smith, J. Optical interconnects. Journal of Lightwave Technology, 2019.",
		"García, M. Ensayo sobre redes. Revista de Ingeniería, 12(3), 2020.",
		"Lee, K. https://doi.org/10.1000/xyz123 Deep learning survey. 2021.",
		"Brown, A. Scaling consensus. Proceedings of SOSP, 2017.",
	}

	for _, ref := range tests {
		res := eng.Decide(ref)
		if res.Classification != ClassArticle {
			t.Errorf("%q: classification = %s, want Article", ref, res.Classification)
		}
		if res.Status != StatusVerifyOnline {
			t.Errorf("%q: status = %s, want VERIFY_ONLINE", ref, res.Status)
		}
		if res.Entry != nil {
			t.Errorf("%q: articles must skip catalog lookup", ref)
		}
	}
}

func TestDecideOutdatedEditionOnly(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Manual de instalaciones electricas industriales", Author: "Paredes, Luis", Quantity: 2, Year: 2005},
	})

	res := eng.Decide("Paredes, L. Manual de instalaciones electricas industriales. 2020.")

	if res.Status != StatusOutdatedEditionOnly {
		t.Fatalf("status = %s, want OUTDATED_EDITION_ONLY (%s)", res.Status, res.Explanation)
	}
	if res.Stock != 0 {
		t.Errorf("current stock = %d, want 0", res.Stock)
	}
	if res.OutdatedStock != 2 {
		t.Errorf("outdated stock = %d, want 2", res.OutdatedStock)
	}
}

func TestDecideFreshEditionStaysInStock(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Manual de instalaciones electricas industriales", Author: "Paredes, Luis", Quantity: 1, Year: 2005},
		{Title: "Manual de instalaciones electricas industriales", Author: "Paredes, Luis", Quantity: 2, Year: 2021},
	})

	res := eng.Decide("Paredes, L. Manual de instalaciones electricas industriales. 2020.")

	if res.Status != StatusInStock {
		t.Fatalf("status = %s, want IN_STOCK (%s)", res.Status, res.Explanation)
	}
	if res.Stock != 3 {
		t.Errorf("stock = %d, want accumulated 3", res.Stock)
	}
}

func TestDecideUnknownEditionYearsNeverOutdated(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Manual de instalaciones electricas industriales", Author: "Paredes, Luis", Quantity: 2, Year: 0},
	})

	res := eng.Decide("Paredes, L. Manual de instalaciones electricas industriales. 2020.")

	if res.Status != StatusInStock {
		t.Errorf("status = %s, want IN_STOCK when edition years are unknown", res.Status)
	}
}

func TestDecideOutOfStock(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Introduction to Operations Research", Author: "Hillier, Frederick S.", Quantity: 0},
	})

	res := eng.Decide("Hillier, F.S. Introduction to Operations Research.")

	if res.Status != StatusOutOfStock {
		t.Fatalf("status = %s, want OUT_OF_STOCK (%s)", res.Status, res.Explanation)
	}
	if res.Stock != 0 {
		t.Errorf("stock = %d, want 0", res.Stock)
	}
	if res.Entry == nil {
		t.Error("a matched zero-stock title should still reference its entry")
	}
}

func TestDecideUnusableReference(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Introduction to Operations Research", Author: "Hillier", Quantity: 1},
	})

	for _, ref := range []string{"", "¡¡--!!", "ab"} {
		res := eng.Decide(ref)
		if res.Status != StatusNotFound {
			t.Errorf("%q: status = %s, want NOT_FOUND", ref, res.Status)
		}
	}
}

func TestDecideEmptyCatalog(t *testing.T) {
	eng := testEngine(nil)

	res := eng.Decide("Hillier, F.S. Introduction to Operations Research. 2015.")
	if res.Status != StatusNotFound {
		t.Errorf("status = %s, want NOT_FOUND with empty catalog", res.Status)
	}
}

func TestCitedYear(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Hillier (2015). Operations Research", 2015},
		{"no year here", 0},
		{"page 1234 then 1998", 1998},
		{"early 1899 print", 0},
	}

	for _, tt := range tests {
		if got := CitedYear(tt.input); got != tt.expected {
			t.Errorf("CitedYear(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestRunnerPreservesOrder(t *testing.T) {
	eng := testEngine([]catalog.Row{
		{Title: "Introduction to Operations Research", Author: "Hillier, Frederick S.", Quantity: 3},
		{Title: "Física General", Author: "Serway", Quantity: 5},
	})

	refs := []string{
		"Hillier, F.S. Introduction to Operations Research. 2015.",
		"Serway. Física General. 2018.",
		"Unrelated medieval history treatise, 1998",
		"Smith, J. Journal of Applied Physics, 2019.",
	}

	runner := Runner{Engine: eng, Concurrency: 4}
	results := runner.Run(context.Background(), refs)

	if len(results) != len(refs) {
		t.Fatalf("got %d results for %d references", len(results), len(refs))
	}
	for i, res := range results {
		if res.Reference != refs[i] {
			t.Errorf("result %d out of order: %q", i, res.Reference)
		}
	}
	if results[0].Status != StatusInStock {
		t.Errorf("results[0].Status = %s, want IN_STOCK", results[0].Status)
	}
	if results[3].Status != StatusVerifyOnline {
		t.Errorf("results[3].Status = %s, want VERIFY_ONLINE", results[3].Status)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	eng := testEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := (&Runner{Engine: eng, Concurrency: 2}).Run(ctx, []string{"one", "two"})

	if len(results) != 2 {
		t.Fatalf("cancelled run must still return one result per input, got %d", len(results))
	}
	for _, res := range results {
		if res.Status != StatusNotFound {
			t.Errorf("status = %s, want NOT_FOUND for cancelled work", res.Status)
		}
	}
}
