package ingest

import (
	"reflect"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Tokenize("The old car-engine, rebuilt in 1998!")
	want := []string{"the", "old", "car-engine", "rebuilt", "in", "1998"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizerHyphenCleanup(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Tokenize("--state--of--the--art-- -")
	want := []string{"state-of-the-art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizerKeepCase(t *testing.T) {
	tokenizer := NewTokenizer(KeepCase())

	got := tokenizer.Tokenize("BERT Transformer")
	want := []string{"BERT", "Transformer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizerTagPositions(t *testing.T) {
	tokens, err := NewTokenizer().Tag("d1", "new car engine")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	for i, tok := range tokens {
		if tok.Doc != "d1" || tok.Index != i {
			t.Errorf("token %d = %+v, want doc d1 index %d", i, tok, i)
		}
		if tok.Tag != "" {
			t.Errorf("token %d has tag %q, want none", i, tok.Tag)
		}
	}
}

func TestTokenizerStemming(t *testing.T) {
	tokens, err := NewTokenizer(WithStemming("english")).Tag("d1", "cars engines")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	got := []string{tokens[0].Text, tokens[1].Text}
	want := []string{"car", "engin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stems = %v, want %v", got, want)
	}
}

func TestTokenizerStemmingUnknownLanguage(t *testing.T) {
	if _, err := NewTokenizer(WithStemming("klingon")).Tag("d1", "cars"); err == nil {
		t.Error("expected error for unsupported stemmer language")
	}
}

func TestWhitespaceTagger(t *testing.T) {
	tokens, err := WhitespaceTagger{Lowercase: true}.Tag("d1", "  The  car, engine ")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	var got []string
	for _, tok := range tokens {
		got = append(got, tok.Text)
	}
	want := []string{"the", "car,", "engine"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("texts = %v, want %v", got, want)
	}
	if tokens[2].Index != 2 {
		t.Errorf("last index = %d, want 2", tokens[2].Index)
	}
}

func TestProseTagger(t *testing.T) {
	tokens, err := ProseTagger{Lowercase: true}.Tag("d1", "The old car engine stalled")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	var got []string
	for i, tok := range tokens {
		got = append(got, tok.Text)
		if tok.Tag == "" {
			t.Errorf("token %q has no part-of-speech tag", tok.Text)
		}
		if tok.Index != i || tok.Doc != "d1" {
			t.Errorf("token %d = %+v", i, tok)
		}
	}
	want := []string{"the", "old", "car", "engine", "stalled"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("texts = %v, want %v", got, want)
	}
}
