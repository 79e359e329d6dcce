package cvalue

import (
	"github.com/cognicore/termex/pkg/termex/ngram"
	"github.com/cognicore/termex/pkg/termex/span"
)

// StatTriple is the nested bookkeeping for a term string b:
// f(b) its corpus frequency, t(b) its frequency as a nested string of longer
// candidates, c(b) the number of those longer candidates.
type StatTriple struct {
	Freq        int64
	NestedFreq  int64
	NestedCount int64
}

// Corrected returns the frequency discounted by the average nested frequency.
func (t StatTriple) Corrected(freq int64) float64 {
	return float64(freq) - float64(t.NestedFreq)/float64(t.NestedCount)
}

// nestedStats is the accumulator of the scoring fold. A key is only read
// after every longer candidate has been folded in, which Order guarantees.
type nestedStats map[span.Key]*StatTriple

// fold propagates candidate a into the triples of all its substrings.
func (s nestedStats) fold(a span.Span, c *Counts) {
	freqA := c.Freq(a.Key())

	var priorNested int64
	if t, ok := s[a.Key()]; ok {
		priorNested = t.NestedFreq
	}

	for _, b := range ngram.Substrings(a) {
		t, ok := s[b.Key()]
		if !ok {
			s[b.Key()] = &StatTriple{
				Freq:        c.Freq(b.Key()),
				NestedFreq:  freqA,
				NestedCount: 1,
			}
			continue
		}
		t.NestedFreq += freqA - priorNested
		t.NestedCount++
	}
}

func (s nestedStats) snapshot() map[span.Key]StatTriple {
	out := make(map[span.Key]StatTriple, len(s))
	for k, t := range s {
		out[k] = *t
	}
	return out
}
