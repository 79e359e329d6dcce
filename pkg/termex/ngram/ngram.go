// Package ngram generates contiguous fixed-size windows over token spans.
package ngram

import (
	"fmt"

	"github.com/cognicore/termex/pkg/termex/span"
)

// Ngrams returns the overlapping windows of the given size, left to right.
//
// When the span is shorter than size the whole span is returned as the only
// element; callers that care about exact length must check Len themselves.
// A size below 1 is a programming error and panics.
func Ngrams(s span.Span, size int) []span.Span {
	if size < 1 {
		panic(fmt.Sprintf("ngram: size must be >= 1, got %d", size))
	}
	if s.Len() <= size {
		return []span.Span{s}
	}

	n := s.Len() - size + 1
	grams := make([]span.Span, 0, n)
	for i := 0; i < n; i++ {
		grams = append(grams, s.Slice(i, i+size))
	}
	return grams
}

// Range returns the n-grams for every size in [from, to), shortest size
// first. Sizes the span cannot fill are skipped, so no degenerate whole-span
// element is ever returned.
func Range(s span.Span, from, to int) []span.Span {
	if from < 1 {
		from = 1
	}
	if to > s.Len()+1 {
		to = s.Len() + 1
	}

	var grams []span.Span
	for size := from; size < to; size++ {
		grams = append(grams, Ngrams(s, size)...)
	}
	return grams
}

// Substrings returns every contiguous sub-span with length in [2, Len-1],
// longest first. These are the spans a candidate term can nest.
func Substrings(s span.Span) []span.Span {
	var subs []span.Span
	for size := s.Len() - 1; size >= 2; size-- {
		subs = append(subs, Ngrams(s, size)...)
	}
	return subs
}
