package cvalue

import (
	"github.com/cognicore/termex/pkg/termex/ngram"
	"github.com/cognicore/termex/pkg/termex/span"
)

// Counts maintains raw occurrence counts per term key, the token length of
// each key, and every occurrence seen. Keys are remembered in first-seen
// order so that downstream ordering is deterministic.
type Counts struct {
	freq        map[span.Key]int64
	length      map[span.Key]int
	occurrences map[span.Key][]span.Span
	order       []span.Key
	maxLen      int
}

// NewCounts creates an empty counter
func NewCounts() *Counts {
	return &Counts{
		freq:        make(map[span.Key]int64),
		length:      make(map[span.Key]int),
		occurrences: make(map[span.Key][]span.Span),
	}
}

// Add records one occurrence of s
func (c *Counts) Add(s span.Span) {
	k := s.Key()
	if _, seen := c.freq[k]; !seen {
		c.order = append(c.order, k)
		c.length[k] = s.Len()
		if s.Len() > c.maxLen {
			c.maxLen = s.Len()
		}
	}
	c.freq[k]++
	c.occurrences[k] = append(c.occurrences[k], s)
}

// Merge folds other into c. Keys new to c are appended in other's order.
func (c *Counts) Merge(other *Counts) {
	for _, k := range other.order {
		if _, seen := c.freq[k]; !seen {
			c.order = append(c.order, k)
			c.length[k] = other.length[k]
		}
		c.freq[k] += other.freq[k]
		c.occurrences[k] = append(c.occurrences[k], other.occurrences[k]...)
	}
	if other.maxLen > c.maxLen {
		c.maxLen = other.maxLen
	}
}

// Freq returns the occurrence count of k, zero if never counted
func (c *Counts) Freq(k span.Key) int64 {
	return c.freq[k]
}

// Length returns the token length of k, zero if never counted
func (c *Counts) Length(k span.Key) int {
	return c.length[k]
}

// Has reports whether k was counted
func (c *Counts) Has(k span.Key) bool {
	_, ok := c.freq[k]
	return ok
}

// Occurrences returns every counted occurrence of k
func (c *Counts) Occurrences(k span.Key) []span.Span {
	occ := c.occurrences[k]
	out := make([]span.Span, len(occ))
	copy(out, occ)
	return out
}

// Representative returns one occurrence of k
func (c *Counts) Representative(k span.Key) (span.Span, bool) {
	occ := c.occurrences[k]
	if len(occ) == 0 {
		return span.Span{}, false
	}
	return occ[0], true
}

// Keys returns the distinct keys in first-seen order
func (c *Counts) Keys() []span.Key {
	out := make([]span.Key, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of distinct keys
func (c *Counts) Len() int {
	return len(c.order)
}

// MaxLength returns the longest counted key length
func (c *Counts) MaxLength() int {
	return c.maxLen
}

// countSequences registers every candidate of length 2..maxLen found in seqs.
//
// A whole sequence is a candidate when its length fits maxLen and is never
// stop-filtered. Generated sub n-grams span sizes 2..min(maxLen, len-1) and are
// dropped when any token is a stopword. maxLen == 0 means unbounded.
func countSequences(seqs []span.Span, maxLen int, stops StopSet) *Counts {
	c := NewCounts()
	for _, seq := range seqs {
		n := seq.Len()
		if n < 2 {
			continue
		}

		limit := maxLen
		if limit == 0 {
			limit = n
		}
		if n <= limit {
			c.Add(seq)
		}

		upper := min(limit, n-1)
		for size := 2; size <= upper; size++ {
			for _, gram := range ngram.Ngrams(seq, size) {
				if stops != nil && containsStop(gram, stops) {
					continue
				}
				c.Add(gram)
			}
		}
	}
	return c
}

func containsStop(s span.Span, stops StopSet) bool {
	for i := 0; i < s.Len(); i++ {
		if stops.IsStop(s.Token(i).Text) {
			return true
		}
	}
	return false
}
