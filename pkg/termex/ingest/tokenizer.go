package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/cognicore/termex/pkg/termex/span"
)

// Tagger turns raw text into the tokens of one document
type Tagger interface {
	Tag(docID, text string) ([]span.Token, error)
}

// Tokenizer handles text tokenization and normalization.
// A word is a run of letters, digits and inner hyphens.
type Tokenizer struct {
	keepCase bool
	language string // snowball stemmer language, empty disables stemming
}

// TokenizerOption configures a Tokenizer
type TokenizerOption func(*Tokenizer)

// KeepCase disables lowercasing
func KeepCase() TokenizerOption {
	return func(t *Tokenizer) { t.keepCase = true }
}

// WithStemming normalizes every word to its snowball stem.
// Example: "engines" → "engin"
func WithStemming(language string) TokenizerOption {
	return func(t *Tokenizer) { t.language = language }
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits text into normalized words.
func (t *Tokenizer) Tokenize(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.cleanToken(current.String()); word != "" {
			words = append(words, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			if !t.keepCase {
				r = unicode.ToLower(r)
			}
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return words
}

// Tag implements Tagger. Tokens carry no part-of-speech tag.
func (t *Tokenizer) Tag(docID, text string) ([]span.Token, error) {
	words := t.Tokenize(text)
	tokens := make([]span.Token, 0, len(words))
	for _, w := range words {
		if t.language != "" {
			stem, err := snowball.Stem(w, t.language, true)
			if err != nil {
				return nil, fmt.Errorf("stem %q: %w", w, err)
			}
			w = stem
		}
		tokens = append(tokens, span.Token{Text: w, Doc: docID, Index: len(tokens)})
	}
	return tokens, nil
}

// cleanToken strips leading/trailing hyphens and normalizes consecutive hyphens
func (t *Tokenizer) cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// WhitespaceTagger splits on whitespace only, keeping punctuation attached.
type WhitespaceTagger struct {
	Lowercase bool
}

// Tag implements Tagger
func (w WhitespaceTagger) Tag(docID, text string) ([]span.Token, error) {
	fields := strings.Fields(text)
	tokens := make([]span.Token, len(fields))
	for i, f := range fields {
		if w.Lowercase {
			f = strings.ToLower(f)
		}
		tokens[i] = span.Token{Text: f, Doc: docID, Index: i}
	}
	return tokens, nil
}
