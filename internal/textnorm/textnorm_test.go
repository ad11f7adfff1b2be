package textnorm

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "citation with punctuation and year",
			input:    "Hillier, F.S. Introduction to Operations Research. 2015.",
			expected: "hillier f s introduction to operations research 2015",
		},
		{
			name:     "parenthesised year removed",
			input:    "Serway, R. (2018). Física general",
			expected: "serway r fisica general",
		},
		{
			name:     "typographic and straight quotes removed",
			input:    `“Física” 'general' "tomo I"`,
			expected: "fisica general tomo i",
		},
		{
			name:     "urls removed",
			input:    "available at https://example.com/book?id=1 online",
			expected: "available at online",
		},
		{
			name:     "accents folded",
			input:    "Álgebra y Análisis Matemático",
			expected: "algebra y analisis matematico",
		},
		{
			name:     "no alphanumeric content",
			input:    "¡¡¡---!!!",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Hillier, F.S. Introduction to Operations Research. 2015.",
		"Física general (2018), “Serway”",
		"see https://example.com now",
		"",
		"¡números! 123",
	}

	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "short words and initials filtered",
			input:    "Hillier, F.S. Introduction to Operations Research",
			expected: []string{"hillier", "introduction", "operations", "research"},
		},
		{
			name:     "accented words tokenized after folding",
			input:    "Física para Ciencias e Ingeniería",
			expected: []string{"fisica", "para", "ciencias", "ingenieria"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only short words",
			input:    "a of el un",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
