package ingest

import (
	"io"
	"log/slog"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/ngram"
	"github.com/cognicore/termex/pkg/termex/span"
)

// Extractor flattens a corpus into the token sequences the C-value engine
// analyzes.
type Extractor struct {
	attr   string
	maxLen int
	log    *slog.Logger
}

// NewExtractor creates an extractor reading sequences from attr. An empty
// attr uses every document whole. When maxLen > 0, longer sequences are
// replaced by their maxLen-grams.
func NewExtractor(attr string, maxLen int, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{attr: attr, maxLen: maxLen, log: log.With("component", "extractor")}
}

// Extract returns the sequences of every document, in corpus order.
// A document holding a malformed sequence contributes nothing.
func (e *Extractor) Extract(docs []*Document) []span.Span {
	var out []span.Span
	for _, doc := range docs {
		seqs, err := e.sequences(doc)
		if err != nil {
			e.log.Warn("skipping document", "doc", doc.ID, "error", err)
			continue
		}
		for _, seq := range seqs {
			out = append(out, e.chunk(seq)...)
		}
	}
	return out
}

func (e *Extractor) sequences(doc *Document) ([]span.Span, error) {
	if e.attr == "" {
		return []span.Span{doc.Span()}, nil
	}
	seqs, ok := doc.Sequences(e.attr)
	if !ok {
		e.log.Debug("sequence attribute not set, using whole document", "doc", doc.ID, "attribute", e.attr)
		return []span.Span{doc.Span()}, nil
	}
	for _, seq := range seqs {
		if err := validate(doc, seq); err != nil {
			return nil, err
		}
	}
	return seqs, nil
}

func validate(doc *Document, seq span.Span) error {
	if seq.Len() == 0 {
		return nil
	}
	if !seq.Contiguous() || seq.Doc() != doc.ID {
		return internalerr.ErrMalformedSequence
	}
	if seq.Start() < 0 || seq.End() > len(doc.Tokens) {
		return internalerr.ErrMalformedSequence
	}
	return nil
}

func (e *Extractor) chunk(seq span.Span) []span.Span {
	if seq.Len() == 0 {
		return nil
	}
	if e.maxLen > 0 && seq.Len() > e.maxLen {
		return ngram.Ngrams(seq, e.maxLen)
	}
	return []span.Span{seq}
}
