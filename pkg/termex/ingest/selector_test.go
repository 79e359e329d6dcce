package ingest

import (
	"reflect"
	"testing"

	"github.com/cognicore/termex/pkg/termex/span"
	"github.com/cognicore/termex/pkg/termex/stoplist"
)

func texts(seqs []span.Span) []string {
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = s.Text()
	}
	return out
}

func tagged(t *testing.T, text string) *Document {
	t.Helper()
	tokens, err := WhitespaceTagger{}.Tag("d1", text)
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	return NewDocument("d1", tokens)
}

func TestSelectorRuns(t *testing.T) {
	stops := stoplist.NewManager([]string{"the", "is"})
	sel := NewSelector("", NotStop(stops), NotPunct())
	doc := tagged(t, "the old car engine is running .")

	sel.Apply(doc)

	seqs, ok := doc.Sequences(DefaultSelectionAttribute)
	if !ok {
		t.Fatal("selection attribute not set")
	}
	want := []string{"old car engine", "running"}
	if got := texts(seqs); !reflect.DeepEqual(got, want) {
		t.Errorf("runs = %v, want %v", got, want)
	}
	if seqs[0].Start() != 1 || seqs[0].End() != 4 {
		t.Errorf("first run covers [%d,%d), want [1,4)", seqs[0].Start(), seqs[0].End())
	}
	for _, s := range seqs {
		if !s.Contiguous() {
			t.Errorf("run %q is not contiguous", s.Text())
		}
	}
}

func TestSelectorNarrowsExistingSequences(t *testing.T) {
	doc := tagged(t, "old car engine 42 new car")
	NewSelector("terms", NotNum()).Apply(doc)
	NewSelector("terms", func(tok span.Token) bool { return tok.Text != "car" }).Apply(doc)

	seqs, _ := doc.Sequences("terms")
	want := []string{"old", "engine", "new"}
	if got := texts(seqs); !reflect.DeepEqual(got, want) {
		t.Errorf("runs = %v, want %v", got, want)
	}
}

func TestSelectorNothingKept(t *testing.T) {
	doc := tagged(t, ". , ;")
	NewSelector("", NotPunct()).Apply(doc)

	seqs, ok := doc.Sequences(DefaultSelectionAttribute)
	if !ok {
		t.Fatal("attribute should be set even when empty")
	}
	if len(seqs) != 0 {
		t.Errorf("got %v, want no runs", texts(seqs))
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		tok  string
		keep bool
	}{
		{"punct word", NotPunct(), "engine", true},
		{"punct comma", NotPunct(), ",", false},
		{"punct mixed", NotPunct(), "e.g.", true},
		{"num integer", NotNum(), "42", false},
		{"num decimal", NotNum(), "3.14", false},
		{"num comma", NotNum(), "1,000", false},
		{"num fraction", NotNum(), "1/2", false},
		{"num signed", NotNum(), "-7", false},
		{"num exponent", NotNum(), "1e5", false},
		{"num word", NotNum(), "Seven", false},
		{"num plain word", NotNum(), "engine", true},
		{"num nan word", NotNum(), "nan", true},
		{"num alnum", NotNum(), "gpt4", true},
		{"url scheme", NotURL(), "https://example.com/a", false},
		{"url www", NotURL(), "www.example.org", false},
		{"url bare", NotURL(), "example.com", false},
		{"url word", NotURL(), "engine", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(span.Token{Text: tt.tok}); got != tt.keep {
				t.Errorf("pred(%q) = %v, want %v", tt.tok, got, tt.keep)
			}
		})
	}
}

func TestOnPOS(t *testing.T) {
	pred := OnPOS("NN", "JJ")
	if !pred(span.Token{Text: "car", Tag: "NN"}) {
		t.Error("NN should be kept")
	}
	if pred(span.Token{Text: "runs", Tag: "VBZ"}) {
		t.Error("VBZ should be dropped")
	}
	if pred(span.Token{Text: "car"}) {
		t.Error("untagged token should be dropped")
	}
}
