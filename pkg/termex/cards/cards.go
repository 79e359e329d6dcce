package cards

import (
	"crypto/rand"
	"fmt"
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/termex/pkg/termex/candidate"
	"github.com/cognicore/termex/pkg/termex/cvalue"
	"github.com/cognicore/termex/pkg/termex/span"
)

// maxBullets caps the occurrence lines rendered per card
const maxBullets = 3

// Builder constructs explainable term cards
type Builder struct {
	entropy *ulid.MonotonicEntropy
}

// New creates a new card builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Card represents a structured, explainable extracted term
type Card struct {
	ID             string
	Rank           int
	Term           string
	Score          float64
	Bullets        []string
	Sources        []SourceRef
	ScoreBreakdown map[string]float64
	Explain        Explain
}

// SourceRef references one occurrence of the term
type SourceRef struct {
	Doc   string
	Start int
	End   int
}

// Explain shows the statistics the C-value came from
type Explain struct {
	Length      int
	Frequency   int64
	NestedFreq  int64
	NestedCount int64
	Corrected   bool // frequency was reduced by longer containing terms
}

// Build creates the card of the rank-th term (1-based)
func (b *Builder) Build(rank int, term candidate.Term, res *cvalue.Result) Card {
	key := span.Key(term.Label)
	card := Card{
		ID:             ulid.MustNew(ulid.Now(), b.entropy).String(),
		Rank:           rank,
		Term:           term.Label,
		Score:          term.Score,
		Bullets:        make([]string, 0, min(len(term.Occurrences), maxBullets)),
		Sources:        make([]SourceRef, 0, len(term.Occurrences)),
		ScoreBreakdown: make(map[string]float64),
		Explain:        Explain{Length: term.Len()},
	}

	for i, occ := range term.Occurrences {
		card.Sources = append(card.Sources, SourceRef{Doc: occ.Doc(), Start: occ.Start(), End: occ.End()})
		if i < maxBullets {
			card.Bullets = append(card.Bullets, fmt.Sprintf("%s [%d:%d] %s", occ.Doc(), occ.Start(), occ.End(), occ.Text()))
		}
	}

	if res == nil {
		return card
	}
	if n := res.Counts().Length(key); n > 0 {
		card.Explain.Length = n
	}
	freq := res.Frequency(key)
	corrected := float64(freq)
	card.Explain.Frequency = freq
	if st, ok := res.Stat(key); ok && st.NestedCount > 0 {
		card.Explain.NestedFreq = st.NestedFreq
		card.Explain.NestedCount = st.NestedCount
		card.Explain.Corrected = true
		corrected = st.Corrected(freq)
	}

	card.ScoreBreakdown["log2_len"] = math.Log2(float64(card.Explain.Length))
	card.ScoreBreakdown["freq"] = float64(card.Explain.Frequency)
	card.ScoreBreakdown["nested_penalty"] = float64(card.Explain.Frequency) - corrected
	card.ScoreBreakdown["corrected_freq"] = corrected

	return card
}

// BuildAll creates one card per term, ranked in input order
func (b *Builder) BuildAll(terms []candidate.Term, res *cvalue.Result) []Card {
	out := make([]Card, 0, len(terms))
	for i, t := range terms {
		out = append(out, b.Build(i+1, t, res))
	}
	return out
}
