package ingest

import "github.com/cognicore/termex/pkg/termex/span"

// Document is a tokenized document with optional named token-sequence
// attributes, such as the runs kept by a Selector.
type Document struct {
	ID     string
	Tokens []span.Token
	attrs  map[string][]span.Span
}

// NewDocument creates a document over tokens
func NewDocument(id string, tokens []span.Token) *Document {
	return &Document{ID: id, Tokens: tokens, attrs: make(map[string][]span.Span)}
}

// Span returns the whole document as one span
func (d *Document) Span() span.Span {
	return span.New(d.Tokens)
}

// SetSequences stores seqs under attr, replacing any previous value
func (d *Document) SetSequences(attr string, seqs []span.Span) {
	if d.attrs == nil {
		d.attrs = make(map[string][]span.Span)
	}
	d.attrs[attr] = seqs
}

// Sequences returns the spans stored under attr
func (d *Document) Sequences(attr string) ([]span.Span, bool) {
	seqs, ok := d.attrs[attr]
	return seqs, ok
}
