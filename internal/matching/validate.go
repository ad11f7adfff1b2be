package matching

import "github.com/libstack/shelfcheck/internal/catalog"

// Evaluation is the validator's verdict for one candidate entry.
type Evaluation struct {
	// Confidence is the calibrated 0-100 acceptance score.
	Confidence int
	// Reason names the ladder rule that decided the confidence.
	Reason string

	// Raw signals, kept for explanations and reports.
	TitleScore int
	AuthorHits int
}

// Validate re-scores a retrieved candidate with the full title+author
// ladder. cleanRef and refTokens must come from textnorm; an empty
// reference scores zero everywhere.
func (p Policy) Validate(cleanRef string, refTokens []string, entry *catalog.Entry) Evaluation {
	ev := Evaluation{
		TitleScore: TitleScore(entry.TitleTokens, entry.CleanTitle, cleanRef, refTokens, p.TokenSimilarity),
		AuthorHits: AuthorHits(entry.AuthorTokens, refTokens, p.TokenSimilarity),
	}

	titleLen := len(entry.CleanTitle)
	for _, rule := range p.Rules {
		if rule.matches(ev.TitleScore, titleLen, ev.AuthorHits, len(entry.AuthorTokens)) {
			ev.Confidence = rule.Confidence
			ev.Reason = rule.Name
			return ev
		}
	}

	ev.Reason = "no rule matched"
	return ev
}
