package matching

import (
	"sort"
	"strings"

	"github.com/libstack/shelfcheck/internal/catalog"
)

// Candidate pairs a catalog index position with its retrieval score.
type Candidate struct {
	Index int
	Score int
}

// Retrieve returns the top limit catalog entries by cheap containment
// score. This is a recall-oriented prefilter: exact token membership only,
// no fuzzy comparison, and a low score here does not reject an entry that
// validation later accepts on author evidence.
//
// An empty catalog or an empty reference returns nil, never a spurious
// match.
func Retrieve(cleanRef string, refTokens []string, idx *catalog.Index, limit int) []Candidate {
	if cleanRef == "" || limit < 1 || len(idx.Entries) == 0 {
		return nil
	}

	refSet := make(map[string]struct{}, len(refTokens))
	for _, tok := range refTokens {
		refSet[tok] = struct{}{}
	}
	paddedRef := " " + cleanRef + " "

	candidates := make([]Candidate, 0, len(idx.Entries))
	for i, entry := range idx.Entries {
		score := retrievalScore(entry.TitleTokens, idx.CleanTitles[i], paddedRef, refSet)
		if score > 0 {
			candidates = append(candidates, Candidate{Index: i, Score: score})
		}
	}

	// Stable sort keeps catalog order among equal scores, which in turn
	// keeps tie-breaking deterministic downstream.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func retrievalScore(titleTokens []string, cleanTitle, paddedRef string, refSet map[string]struct{}) int {
	if strings.Contains(paddedRef, " "+cleanTitle+" ") {
		return 100
	}
	if len(titleTokens) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range titleTokens {
		if _, ok := refSet[tok]; ok {
			hits++
		}
	}
	return hits * 100 / len(titleTokens)
}
