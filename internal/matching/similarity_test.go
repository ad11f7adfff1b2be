package matching

import (
	"strings"
	"testing"

	"github.com/libstack/shelfcheck/internal/textnorm"
)

func TestTitleScoreFullContainment(t *testing.T) {
	ref := "hillier f s introduction to operations research 2015"
	refTokens := textnorm.Tokens(ref)
	titleTokens := []string{"introduction", "operations", "research"}

	score := TitleScore(titleTokens, "introduction to operations research", ref, refTokens, 0.92)
	if score != 100 {
		t.Errorf("expected 100 for fully contained title, got %d", score)
	}
}

func TestTitleScoreMonotonicUnderNoise(t *testing.T) {
	title := "introduction to operations research"
	titleTokens := []string{"introduction", "operations", "research"}

	ref := "hillier introduction to operations research"
	noisy := ref + " madrid pearson ninth edition proceedings volume appendix"

	base := TitleScore(titleTokens, title, ref, textnorm.Tokens(ref), 0.92)
	withNoise := TitleScore(titleTokens, title, noisy, textnorm.Tokens(noisy), 0.92)

	if withNoise < base {
		t.Errorf("adding noise shrank containment score: %d -> %d", base, withNoise)
	}
}

func TestTitleScorePartialContainment(t *testing.T) {
	// 4 of 5 title tokens present: 80.
	title := "analisis matematico para ingenieros modernos"
	titleTokens := strings.Fields(title)
	ref := "analisis matematico para ingenieros de larson 2010"

	score := TitleScore(titleTokens, title, ref, textnorm.Tokens(ref), 0.92)
	if score != 80 {
		t.Errorf("expected 80 for 4/5 token containment, got %d", score)
	}
}

func TestTitleScoreFuzzyTokenEquality(t *testing.T) {
	// OCR-style misspelling of a token still counts as contained.
	titleTokens := []string{"fisica", "serway"}
	ref := "fisica general serwey 2018"

	score := TitleScore(titleTokens, "fisica serway", ref, textnorm.Tokens(ref), 0.92)
	if score != 100 {
		t.Errorf("expected 100 with fuzzy token equality, got %d", score)
	}

	strict := TitleScore(titleTokens, "fisica serway", ref, textnorm.Tokens(ref), 1.0)
	if strict != 50 {
		t.Errorf("expected 50 with fuzzy matching disabled, got %d", strict)
	}
}

func TestTitleScoreEmptyInputs(t *testing.T) {
	if score := TitleScore(nil, "", "some reference", []string{"some", "reference"}, 0.92); score != 0 {
		t.Errorf("expected 0 for empty title, got %d", score)
	}
	if score := TitleScore([]string{"fisica"}, "fisica", "", nil, 0.92); score != 0 {
		t.Errorf("expected 0 for empty reference, got %d", score)
	}
}

func TestAuthorHits(t *testing.T) {
	refTokens := textnorm.Tokens("hillier f s introduction to operations research 2015")

	tests := []struct {
		name         string
		authorTokens []string
		expected     int
	}{
		{"surname present", []string{"hillier", "frederick"}, 1},
		{"no author tokens", nil, 0},
		{"author absent from reference", []string{"taha"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthorHits(tt.authorTokens, refTokens, 0.92)
			if got != tt.expected {
				t.Errorf("AuthorHits(%v) = %d, want %d", tt.authorTokens, got, tt.expected)
			}
		})
	}
}
