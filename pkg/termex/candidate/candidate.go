// Package candidate turns C-value results into candidate terms and prunes
// them with token-based post filters.
package candidate

import (
	"github.com/cognicore/termex/pkg/termex/cvalue"
	"github.com/cognicore/termex/pkg/termex/span"
)

// Term is a scored candidate with every place it occurs in the corpus
type Term struct {
	Label       string
	Score       float64
	Occurrences []span.Span
}

// Words returns the label tokens
func (t Term) Words() []string {
	return span.Key(t.Label).Words()
}

// Len returns the term length in tokens, as counted when the term has
// occurrences and from the label otherwise.
func (t Term) Len() int {
	if len(t.Occurrences) > 0 {
		return t.Occurrences[0].Len()
	}
	return span.Key(t.Label).Len()
}

// Docs returns the distinct documents the term occurs in, in first-seen order
func (t Term) Docs() []string {
	seen := make(map[string]struct{})
	var docs []string
	for _, occ := range t.Occurrences {
		d := occ.Doc()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		docs = append(docs, d)
	}
	return docs
}

// FromResult builds candidate terms for every scored term at or above
// threshold. Result order is preserved.
func FromResult(res *cvalue.Result, threshold float64) []Term {
	if res == nil {
		return nil
	}
	var out []Term
	for _, sc := range res.Scores {
		if sc.Score < threshold {
			continue
		}
		out = append(out, Term{
			Label:       sc.Term.String(),
			Score:       sc.Score,
			Occurrences: res.Occurrences(sc.Term),
		})
	}
	return out
}
