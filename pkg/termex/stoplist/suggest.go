package stoplist

import "sort"

// Stats holds the document frequency of one token
type Stats struct {
	Token     string
	DF        int64
	DFPercent float64
}

// Candidate represents a suggested stopword
type Candidate struct {
	Token     string
	DFPercent float64
	Score     float64 // confidence in [0,1]
}

// DefaultMinDFPercent is the share of documents above which a token is
// suggested as a stopword
const DefaultMinDFPercent = 60.0

// DocumentFrequencies counts in how many documents each token appears.
// Results are sorted by DF descending, then token.
func DocumentFrequencies(docs [][]string) []Stats {
	df := make(map[string]int64)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	total := float64(len(docs))
	stats := make([]Stats, 0, len(df))
	for tok, n := range df {
		stats = append(stats, Stats{Token: tok, DF: n, DFPercent: 100 * float64(n) / total})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].DF != stats[j].DF {
			return stats[i].DF > stats[j].DF
		}
		return stats[i].Token < stats[j].Token
	})
	return stats
}

// SuggestCandidates suggests tokens that should be stopwords: tokens not
// already stopped that appear in more than minDFPercent of the documents.
// A non-positive minDFPercent uses DefaultMinDFPercent.
func (m *Manager) SuggestCandidates(stats []Stats, minDFPercent float64) []Candidate {
	if minDFPercent <= 0 {
		minDFPercent = DefaultMinDFPercent
	}

	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) || s.DFPercent <= minDFPercent {
			continue // already a stopword or too rare
		}
		candidates = append(candidates, Candidate{
			Token:     s.Token,
			DFPercent: s.DFPercent,
			Score:     (s.DFPercent - minDFPercent) / (100 - minDFPercent),
		})
	}
	return candidates
}
