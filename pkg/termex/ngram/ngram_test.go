package ngram

import (
	"reflect"
	"testing"

	"github.com/cognicore/termex/pkg/termex/span"
)

func keys(spans []span.Span) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text()
	}
	return out
}

func TestNgrams(t *testing.T) {
	s := span.FromWords("d", "the", "old", "car", "engine")

	tests := []struct {
		name string
		size int
		want []string
	}{
		{"unigrams", 1, []string{"the", "old", "car", "engine"}},
		{"bigrams", 2, []string{"the old", "old car", "car engine"}},
		{"trigrams", 3, []string{"the old car", "old car engine"}},
		{"whole", 4, []string{"the old car engine"}},
		{"too long", 6, []string{"the old car engine"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(Ngrams(s, tt.size))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ngrams(%d) = %v, want %v", tt.size, got, tt.want)
			}
		})
	}
}

func TestNgramsCount(t *testing.T) {
	s := span.FromWords("d", "a", "b", "c", "d", "e", "f", "g")
	for size := 1; size <= s.Len(); size++ {
		if got, want := len(Ngrams(s, size)), s.Len()-size+1; got != want {
			t.Errorf("size %d: got %d grams, want %d", size, got, want)
		}
	}
}

func TestNgramsPreservesPositions(t *testing.T) {
	s := span.FromWords("doc-7", "a", "b", "c")
	grams := Ngrams(s, 2)

	if grams[1].Doc() != "doc-7" || grams[1].Start() != 1 || grams[1].End() != 3 {
		t.Errorf("second bigram at %s[%d:%d]", grams[1].Doc(), grams[1].Start(), grams[1].End())
	}
}

func TestNgramsPanicsOnZeroSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Ngrams(0) should panic")
		}
	}()
	Ngrams(span.FromWords("d", "a"), 0)
}

func TestRangeSkipsDegenerateSizes(t *testing.T) {
	s := span.FromWords("d", "a", "b", "c")

	got := keys(Range(s, 2, 3))
	if !reflect.DeepEqual(got, []string{"a b", "b c"}) {
		t.Errorf("Range(2,3) = %v", got)
	}

	got = keys(Range(s, 2, 10))
	want := []string{"a b", "b c", "a b c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range(2,10) = %v, want %v", got, want)
	}

	if got := Range(span.FromWords("d", "a"), 2, 5); len(got) != 0 {
		t.Errorf("Range on a single token should be empty, got %v", keys(got))
	}
}

func TestSubstrings(t *testing.T) {
	s := span.FromWords("d", "the", "old", "car", "engine")
	got := keys(Substrings(s))
	want := []string{"the old car", "old car engine", "the old", "old car", "car engine"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Substrings = %v, want %v", got, want)
	}

	if len(Substrings(span.FromWords("d", "a", "b"))) != 0 {
		t.Error("a bigram nests no substrings of length >= 2")
	}
}
