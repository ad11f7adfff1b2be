// Package matching turns a normalized reference plus a catalog entry into
// a calibrated 0-100 confidence. The decision rules live in an ordered,
// data-driven table so thresholds can be tuned from a YAML file instead of
// a code change.
package matching

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AuthorCondition constrains a rule to the state of the author signal.
type AuthorCondition string

const (
	// AuthorAny places no constraint on author evidence.
	AuthorAny AuthorCondition = "any"
	// AuthorHit requires at least one catalog author token in the reference.
	AuthorHit AuthorCondition = "hit"
	// AuthorNoHit requires that no catalog author token was found.
	AuthorNoHit AuthorCondition = "no-hit"
	// AuthorSignal is the neutral-positive form: an author hit, or a
	// catalog entry with no author tokens at all. Absence of ground truth
	// cannot penalize a match.
	AuthorSignal AuthorCondition = "signal"
)

// Rule is one row of the decision ladder. Rules are evaluated top-down and
// the first rule whose conditions all hold decides the confidence; later
// rules are unreachable once an earlier one fires.
type Rule struct {
	Name string `yaml:"name"`

	// MinTitleScore is the minimum containment title score (0-100).
	MinTitleScore int `yaml:"min_title_score,omitempty"`
	// MinTitleLen / MaxTitleLen bound the normalized catalog title length
	// in characters. Zero means unbounded.
	MinTitleLen int `yaml:"min_title_len,omitempty"`
	MaxTitleLen int `yaml:"max_title_len,omitempty"`

	Author AuthorCondition `yaml:"author"`

	// Confidence is the calibrated output score when the rule fires. It is
	// a final verdict, never an input to further math.
	Confidence int `yaml:"confidence"`
}

func (r Rule) matches(titleScore, titleLen, authorHits, authorTokens int) bool {
	if titleScore < r.MinTitleScore {
		return false
	}
	if r.MinTitleLen > 0 && titleLen < r.MinTitleLen {
		return false
	}
	if r.MaxTitleLen > 0 && titleLen > r.MaxTitleLen {
		return false
	}
	switch r.Author {
	case AuthorHit:
		return authorHits > 0
	case AuthorNoHit:
		return authorHits == 0
	case AuthorSignal:
		return authorHits > 0 || authorTokens == 0
	default:
		return true
	}
}

// Policy is the full scoring configuration: the rule ladder plus the
// engine-level tunables that the project's iterations kept adjusting.
type Policy struct {
	Rules []Rule `yaml:"rules"`

	// Threshold is the global acceptance cut-off on confidence.
	Threshold int `yaml:"threshold"`
	// RetrievalLimit bounds the candidate prefilter breadth.
	RetrievalLimit int `yaml:"retrieval_limit"`
	// TokenSimilarity is the Jaro-Winkler floor for treating two tokens as
	// the same word. 1.0 disables fuzzy token equality.
	TokenSimilarity float32 `yaml:"token_similarity"`
	// MinReferenceLen is the minimum cleaned reference length worth scoring.
	MinReferenceLen int `yaml:"min_reference_len"`
	// ArticleKeywords classify a reference as a journal/serial citation.
	ArticleKeywords []string `yaml:"article_keywords"`
}

// DefaultPolicy returns the tuned defaults. The ladder encodes the
// interaction between the two signals:
//
//   - title containment alone over-triggers on generic short titles and on
//     other-author editions, so the short-title guard and the author-missing
//     demotion sit ahead of the acceptance rules;
//   - author evidence alone is not required when the title is both very
//     high-scoring and long enough to be self-identifying (codes,
//     handbooks, multi-word technical manuals).
func DefaultPolicy() Policy {
	return Policy{
		Rules: []Rule{
			{Name: "short generic title without author evidence", MaxTitleLen: 11, Author: AuthorNoHit, Confidence: 0},
			{Name: "exact match", MinTitleScore: 90, Author: AuthorSignal, Confidence: 100},
			{Name: "long self-identifying title", MinTitleScore: 95, MinTitleLen: 21, Author: AuthorAny, Confidence: 92},
			{Name: "title found but author missing", MinTitleScore: 90, Author: AuthorAny, Confidence: 45},
			{Name: "flexible match", MinTitleScore: 80, Author: AuthorSignal, Confidence: 85},
			{Name: "author-confirmed match", MinTitleScore: 65, Author: AuthorSignal, Confidence: 70},
		},
		Threshold:       70,
		RetrievalLimit:  20,
		TokenSimilarity: 0.92,
		MinReferenceLen: 6,
		ArticleKeywords: []string{
			"revista", "journal", "doi.org", "issn",
			"transactions", "proceedings", "arxiv",
		},
	}
}

// LoadPolicy reads a YAML policy file over the defaults: keys absent from
// the file keep their default values, a rules list replaces the default
// ladder wholesale.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := policy.Check(); err != nil {
		return policy, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return policy, nil
}

// Check validates the policy tunables.
func (p Policy) Check() error {
	if len(p.Rules) == 0 {
		return fmt.Errorf("policy has no rules")
	}
	if p.Threshold < 0 || p.Threshold > 100 {
		return fmt.Errorf("threshold %d out of range 0-100", p.Threshold)
	}
	if p.RetrievalLimit < 1 {
		return fmt.Errorf("retrieval_limit must be at least 1")
	}
	if p.TokenSimilarity <= 0 || p.TokenSimilarity > 1 {
		return fmt.Errorf("token_similarity %v out of range (0, 1]", p.TokenSimilarity)
	}
	for i, r := range p.Rules {
		switch r.Author {
		case AuthorAny, AuthorHit, AuthorNoHit, AuthorSignal:
		default:
			return fmt.Errorf("rule %d (%s): unknown author condition %q", i, r.Name, r.Author)
		}
		if r.Confidence < 0 || r.Confidence > 100 {
			return fmt.Errorf("rule %d (%s): confidence %d out of range 0-100", i, r.Name, r.Confidence)
		}
	}
	return nil
}

// YAML renders the policy as it would appear in a policy file.
func (p Policy) YAML() ([]byte, error) {
	return yaml.Marshal(p)
}
