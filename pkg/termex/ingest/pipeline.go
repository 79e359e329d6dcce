package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates the ingestion flow:
// raw text → tagging → token selection
type Pipeline struct {
	tagger   Tagger
	selector *Selector
	log      *slog.Logger
}

// NewPipeline creates an ingestion pipeline. selector may be nil.
func NewPipeline(tagger Tagger, selector *Selector, log *slog.Logger) *Pipeline {
	if tagger == nil {
		tagger = NewTokenizer()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{tagger: tagger, selector: selector, log: log.With("component", "ingest")}
}

// Selector returns the pipeline selector, or nil
func (p *Pipeline) Selector() *Selector {
	return p.selector
}

// Process runs one document through the pipeline
func (p *Pipeline) Process(d Doc) (*Document, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	tokens, err := p.tagger.Tag(d.ID, d.Text)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", d.ID, err)
	}

	doc := NewDocument(d.ID, tokens)
	if p.selector != nil {
		p.selector.Apply(doc)
	}
	return doc, nil
}

// ProcessAll processes docs with up to workers goroutines, keeping corpus
// order. Documents that fail are logged and left out.
func (p *Pipeline) ProcessAll(ctx context.Context, docs []Doc, workers int) ([]*Document, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]*Document, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := p.Process(docs[i])
			if err != nil {
				p.log.Warn("skipping document", "doc", docs[i].ID, "error", err)
				return nil
			}
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Document, 0, len(results))
	for _, doc := range results {
		if doc != nil {
			out = append(out, doc)
		}
	}
	return out, nil
}
