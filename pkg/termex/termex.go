// Package termex extracts multi-word terms from a document corpus with the
// C-value method and keeps an explainable, persisted record of every run.
package termex

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/termex/pkg/termex/candidate"
	"github.com/cognicore/termex/pkg/termex/cards"
	"github.com/cognicore/termex/pkg/termex/config"
	"github.com/cognicore/termex/pkg/termex/cvalue"
	"github.com/cognicore/termex/pkg/termex/ingest"
	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/metrics"
	"github.com/cognicore/termex/pkg/termex/span"
	"github.com/cognicore/termex/pkg/termex/store"
	"github.com/cognicore/termex/pkg/termex/store/memstore"
)

// Termex is the term extraction facade
type Termex struct {
	mu        sync.Mutex
	store     store.Store
	pipeline  *ingest.Pipeline
	extractor *ingest.Extractor
	engine    *cvalue.Engine
	threshold float64
	filters   []candidate.Filter
	cards     *cards.Builder
	metrics   *metrics.Metrics
	workers   int
	snapshot  string
	entropy   *ulid.MonotonicEntropy
	log       *slog.Logger
	last      *Report
}

// Options configures a Termex instance
type Options struct {
	Store     store.Store      // nil uses an in-memory store
	Pipeline  *ingest.Pipeline // nil tokenizes with the default tokenizer
	Extractor *ingest.Extractor
	CValue    cvalue.Config

	// CandidateThreshold is applied to C-value scores to produce candidate terms
	CandidateThreshold float64
	Filters            []candidate.Filter

	Metrics *metrics.Metrics
	Workers int // parallel document processing
	Logger  *slog.Logger

	// ConfigSnapshot is stored as JSON with every run
	ConfigSnapshot any
}

// New creates a Termex instance with the given dependencies
func New(opts Options) (*Termex, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.CValue.Logger == nil {
		opts.CValue.Logger = log
	}
	engine, err := cvalue.New(opts.CValue)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 0 {
		return nil, internalerr.NewConfigError("termex", "Workers", "must not be negative")
	}

	t := &Termex{
		store:     opts.Store,
		pipeline:  opts.Pipeline,
		extractor: opts.Extractor,
		engine:    engine,
		threshold: opts.CandidateThreshold,
		filters:   opts.Filters,
		cards:     cards.New(),
		metrics:   opts.Metrics,
		workers:   max(opts.Workers, 1),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		log:       log.With("component", "termex"),
	}
	if t.store == nil {
		t.store = memstore.New()
	}
	if t.pipeline == nil {
		t.pipeline = ingest.NewPipeline(nil, nil, log)
	}
	if t.extractor == nil {
		attr := ""
		if sel := t.pipeline.Selector(); sel != nil {
			attr = sel.Attribute()
		}
		t.extractor = ingest.NewExtractor(attr, opts.CValue.MaxLength, log)
	}
	if t.metrics == nil {
		t.metrics = metrics.New(nil)
	}
	if opts.ConfigSnapshot != nil {
		data, err := json.Marshal(opts.ConfigSnapshot)
		if err != nil {
			return nil, fmt.Errorf("encode config snapshot: %w", err)
		}
		t.snapshot = string(data)
	}
	return t, nil
}

// FromConfig builds a Termex instance from a configuration file's contents
func FromConfig(cfg *config.Config, st store.Store, m *metrics.Metrics, log *slog.Logger) (*Termex, error) {
	comp, err := (&config.Loader{Log: log}).Load(cfg)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Store:              st,
		Pipeline:           ingest.NewPipeline(comp.Tagger, comp.Selector, log),
		Extractor:          comp.Extractor,
		CValue:             comp.CValue,
		CandidateThreshold: cfg.CandidateThreshold,
		Filters:            comp.Filters,
		Metrics:            m,
		Workers:            cfg.Workers,
		Logger:             log,
		ConfigSnapshot:     cfg,
	})
}

// Close cleanly shuts down the Termex instance
func (t *Termex) Close() error {
	return t.store.Close()
}

// Store returns the run store
func (t *Termex) Store() store.Store {
	return t.store
}

// Metrics returns the run collectors
func (t *Termex) Metrics() *metrics.Metrics {
	return t.metrics
}

// Report is the outcome of one extraction run
type Report struct {
	RunID      string
	CreatedAt  time.Time
	Corpus     string
	Docs       int // documents tokenized
	Skipped    int // documents dropped as invalid or untaggable
	Sequences  int
	Candidates int // distinct candidates scored
	Terms      []candidate.Term
	Cards      []cards.Card
	Result     *cvalue.Result
}

// Last returns the report of the most recent run
func (t *Termex) Last() (*Report, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		t.log.Warn("results requested before any extraction run")
		return nil, false
	}
	return t.last, true
}

// Run extracts terms from docs and persists the run. corpus names the
// input in the stored record.
func (t *Termex) Run(ctx context.Context, corpus string, docs []ingest.Doc) (*Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rep, err := t.run(ctx, corpus, docs)
	if err != nil {
		t.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	status := "ok"
	if len(rep.Terms) == 0 {
		status = "empty"
	}
	t.metrics.RunsTotal.WithLabelValues(status).Inc()
	t.metrics.LastRunTerms.Set(float64(len(rep.Terms)))
	t.last = rep
	return rep, nil
}

func (t *Termex) run(ctx context.Context, corpus string, docs []ingest.Doc) (*Report, error) {
	now := time.Now()
	rep := &Report{
		RunID:     ulid.MustNew(ulid.Timestamp(now), t.entropy).String(),
		CreatedAt: now,
		Corpus:    corpus,
	}
	log := t.log.With("run", rep.RunID)

	stage := time.Now()
	processed, err := t.pipeline.ProcessAll(ctx, docs, t.workers)
	if err != nil {
		return nil, fmt.Errorf("process documents: %w", err)
	}
	t.metrics.ObserveStage("ingest", time.Since(stage).Seconds())
	rep.Docs = len(processed)
	rep.Skipped = len(docs) - len(processed)
	t.metrics.DocsProcessedTotal.Add(float64(rep.Docs))
	t.metrics.DocsSkippedTotal.Add(float64(rep.Skipped))
	if rep.Docs == 0 {
		return nil, fmt.Errorf("run %s: %w", rep.RunID, internalerr.ErrEmptyCorpus)
	}

	stage = time.Now()
	seqs := t.extractor.Extract(processed)
	t.metrics.ObserveStage("extract", time.Since(stage).Seconds())
	rep.Sequences = len(seqs)
	t.metrics.SequencesTotal.Add(float64(len(seqs)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage = time.Now()
	res := t.engine.Compute(seqs)
	t.metrics.ObserveStage("cvalue", time.Since(stage).Seconds())
	rep.Result = res
	rep.Candidates = len(res.Steps)
	t.metrics.CandidatesTotal.Add(float64(rep.Candidates))

	rep.Terms = candidate.Apply(candidate.FromResult(res, t.threshold), t.filters...)
	rep.Cards = t.cards.BuildAll(rep.Terms, res)
	t.metrics.TermsAcceptedTotal.Add(float64(len(rep.Terms)))

	stage = time.Now()
	if err := t.persist(ctx, rep); err != nil {
		return nil, fmt.Errorf("persist run %s: %w", rep.RunID, err)
	}
	t.metrics.ObserveStage("persist", time.Since(stage).Seconds())

	log.Info("extraction finished",
		"docs", rep.Docs,
		"skipped", rep.Skipped,
		"sequences", rep.Sequences,
		"candidates", rep.Candidates,
		"terms", len(rep.Terms),
	)
	return rep, nil
}

func (t *Termex) persist(ctx context.Context, rep *Report) error {
	run := store.Run{
		ID:         rep.RunID,
		CreatedAt:  rep.CreatedAt,
		Corpus:     rep.Corpus,
		Docs:       rep.Docs,
		Sequences:  rep.Sequences,
		Candidates: rep.Candidates,
		ConfigJSON: t.snapshot,
	}

	terms := make([]store.Term, len(rep.Terms))
	for i, term := range rep.Terms {
		key := span.Key(term.Label)
		st, _ := rep.Result.Stat(key)
		terms[i] = store.Term{
			Rank:        i + 1,
			Label:       term.Label,
			Score:       term.Score,
			Length:      rep.Result.Counts().Length(key),
			Freq:        rep.Result.Frequency(key),
			NestedFreq:  st.NestedFreq,
			NestedCount: st.NestedCount,
		}
	}
	stored := make([]store.Card, 0, len(rep.Cards))
	for _, c := range rep.Cards {
		sc, err := storeCard(rep.RunID, c)
		if err != nil {
			return fmt.Errorf("encode card %s: %w", c.Term, err)
		}
		stored = append(stored, sc)
	}
	return t.store.SaveRun(ctx, run, terms, stored)
}

func storeCard(runID string, c cards.Card) (store.Card, error) {
	sources := make([]string, len(c.Sources))
	for i, src := range c.Sources {
		data, err := json.Marshal(src)
		if err != nil {
			return store.Card{}, err
		}
		sources[i] = string(data)
	}
	score, err := json.Marshal(struct {
		Score     float64            `json:"score"`
		Breakdown map[string]float64 `json:"breakdown"`
		Explain   cards.Explain      `json:"explain"`
	}{c.Score, c.ScoreBreakdown, c.Explain})
	if err != nil {
		return store.Card{}, err
	}
	return store.Card{
		ID:        c.ID,
		RunID:     runID,
		Term:      c.Term,
		Bullets:   c.Bullets,
		Sources:   sources,
		ScoreJSON: string(score),
	}, nil
}
