// Package span holds the token-level data model shared by the ingestion
// pipeline and the C-value engine: tokens, contiguous token sequences and the
// canonical term key used to aggregate them.
package span

import "strings"

// Token is an atomic unit of text with its corpus position.
type Token struct {
	Text  string
	Tag   string // part-of-speech tag, empty if the tagger does not provide one
	Doc   string // owning document ID
	Index int    // position inside the owning document
}

// Span is an immutable contiguous run of tokens taken from one document.
type Span struct {
	tokens []Token
	key    Key
}

// New creates a span over a copy of tokens.
func New(tokens []Token) Span {
	cp := make([]Token, len(tokens))
	copy(cp, tokens)
	return Span{tokens: cp, key: keyOf(cp)}
}

// FromWords builds a span from bare strings, numbering tokens from zero.
// The strings must not contain whitespace.
func FromWords(doc string, words ...string) Span {
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Text: w, Doc: doc, Index: i}
	}
	return Span{tokens: tokens, key: keyOf(tokens)}
}

// Len returns the token count.
func (s Span) Len() int {
	return len(s.tokens)
}

// Key returns the canonical term key.
func (s Span) Key() Key {
	return s.key
}

// Text is the space-joined rendering of the span.
func (s Span) Text() string {
	return string(s.key)
}

// Token returns the i-th token.
func (s Span) Token(i int) Token {
	return s.tokens[i]
}

// Tokens returns a copy of the span's tokens.
func (s Span) Tokens() []Token {
	cp := make([]Token, len(s.tokens))
	copy(cp, s.tokens)
	return cp
}

// Words returns the token texts.
func (s Span) Words() []string {
	words := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		words[i] = t.Text
	}
	return words
}

// Slice returns the sub-span [i, j). Spans are immutable, so the backing
// array is shared.
func (s Span) Slice(i, j int) Span {
	sub := s.tokens[i:j:j]
	return Span{tokens: sub, key: keyOf(sub)}
}

// Doc returns the owning document ID, or "" for an empty span.
func (s Span) Doc() string {
	if len(s.tokens) == 0 {
		return ""
	}
	return s.tokens[0].Doc
}

// Start is the document index of the first token.
func (s Span) Start() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return s.tokens[0].Index
}

// End is one past the document index of the last token.
func (s Span) End() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return s.tokens[len(s.tokens)-1].Index + 1
}

// Contiguous reports whether every token belongs to the same document and
// indices increase by exactly one.
func (s Span) Contiguous() bool {
	for i := 1; i < len(s.tokens); i++ {
		prev, cur := s.tokens[i-1], s.tokens[i]
		if cur.Doc != prev.Doc || cur.Index != prev.Index+1 {
			return false
		}
	}
	return true
}

// Key is the canonical term key: the space-joined token texts. Spans with
// equal keys are the same term for counting purposes.
type Key string

// KeyOf joins words into a key.
func KeyOf(words ...string) Key {
	return Key(strings.Join(words, " "))
}

func (k Key) String() string {
	return string(k)
}

// Words splits the key back into token texts.
func (k Key) Words() []string {
	return strings.Fields(string(k))
}

// Len returns the number of tokens in the key.
func (k Key) Len() int {
	return len(k.Words())
}

func keyOf(tokens []Token) Key {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return Key(tokens[0].Text)
	}
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return Key(b.String())
}
