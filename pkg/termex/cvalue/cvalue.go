// Package cvalue implements C-value multi-word term extraction
// (Frantzi, Ananiadou & Mima, https://doi.org/10.1007/s007999900023).
//
// Computation runs in three phases over a flat list of token sequences:
//
//  1. Counting: every candidate of 2..MaxLength tokens is counted per raw
//     occurrence (optionally in parallel partitions).
//  2. Ordering: candidates are grouped by descending length, then sorted by
//     descending frequency within the group.
//  3. Scoring fold: candidates are scored in that order while each one
//     updates the nested statistics of its substrings, so shorter terms see
//     the frequency they borrow from longer ones.
//
// The fold is strictly sequential.
package cvalue

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cognicore/termex/pkg/termex/span"
)

// Scored is a candidate term and its C-value
type Scored struct {
	Score float64
	Term  span.Key
}

// Step records how one candidate was handled in processing order
type Step struct {
	Term      span.Key
	Length    int
	Frequency int64
	Score     float64
	Accepted  bool
	Corrected bool // a nested-frequency correction was applied
}

// Result holds the outcome of one computation
type Result struct {
	Scores []Scored // accepted candidates, descending by score
	Steps  []Step   // every candidate, in processing order

	maxLen int
	counts *Counts
	stats  map[span.Key]StatTriple
}

// MaxLength returns the effective maximum term length used for scoring
func (r *Result) MaxLength() int {
	return r.maxLen
}

// Terms returns the accepted terms, best first
func (r *Result) Terms() []span.Key {
	out := make([]span.Key, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = s.Term
	}
	return out
}

// Score returns the score of an accepted term
func (r *Result) Score(k span.Key) (float64, bool) {
	for _, s := range r.Scores {
		if s.Term == k {
			return s.Score, true
		}
	}
	return 0, false
}

// Frequency returns the raw corpus frequency counted for k
func (r *Result) Frequency(k span.Key) int64 {
	return r.counts.Freq(k)
}

// Stat returns the final nested statistics of k, if k was ever nested
func (r *Result) Stat(k span.Key) (StatTriple, bool) {
	t, ok := r.stats[k]
	return t, ok
}

// Occurrences returns every corpus occurrence counted for k
func (r *Result) Occurrences(k span.Key) []span.Span {
	return r.counts.Occurrences(k)
}

// Counts exposes the frequency counter the result was computed from
func (r *Result) Counts() *Counts {
	return r.counts
}

// Engine computes C-values with a validated configuration
type Engine struct {
	cfg Config
}

// New validates cfg and creates an engine
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Compute scores every candidate term found in seqs. The engine keeps no
// state between calls.
func (e *Engine) Compute(seqs []span.Span) *Result {
	log := e.cfg.logger()

	counts := e.count(seqs)
	maxLen := e.cfg.MaxLength
	if maxLen == 0 {
		maxLen = counts.MaxLength()
	}
	log.Debug("candidates counted", "sequences", len(seqs), "distinct", counts.Len(), "max_length", maxLen)

	ordered := Order(counts, maxLen)
	stats := make(nestedStats)
	res := &Result{
		Steps:  make([]Step, 0, len(ordered)),
		maxLen: maxLen,
		counts: counts,
	}

	for _, k := range ordered {
		length := counts.Length(k)
		freq := counts.Freq(k)
		weight := math.Log2(float64(length))

		step := Step{Term: k, Length: length, Frequency: freq}
		t, nested := stats[k]
		if length == maxLen || !nested {
			step.Score = weight * float64(freq)
		} else {
			step.Score = weight * t.Corrected(freq)
			step.Corrected = true
		}
		step.Accepted = step.Score >= e.cfg.Threshold

		if step.Accepted {
			res.Scores = append(res.Scores, Scored{Score: step.Score, Term: k})
		}
		if step.Accepted || !e.cfg.PropagateAcceptedOnly {
			rep, _ := counts.Representative(k)
			stats.fold(rep, counts)
		}
		res.Steps = append(res.Steps, step)
	}

	sort.SliceStable(res.Scores, func(i, j int) bool {
		return res.Scores[i].Score > res.Scores[j].Score
	})
	res.stats = stats.snapshot()

	if len(res.Scores) == 0 {
		log.Warn("no candidate terms found", "sequences", len(seqs), "threshold", e.cfg.Threshold)
	}
	return res
}

func (e *Engine) count(seqs []span.Span) *Counts {
	workers := e.cfg.Workers
	if workers <= 1 || len(seqs) < 2*workers {
		return countSequences(seqs, e.cfg.MaxLength, e.cfg.Stops)
	}

	// Partitions are contiguous and merged in order, which keeps first-seen
	// key order identical to the sequential count.
	parts := make([]*Counts, workers)
	size := (len(seqs) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * size
		hi := min(lo+size, len(seqs))
		if lo >= hi {
			parts[w] = NewCounts()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			parts[w] = countSequences(seqs[lo:hi], e.cfg.MaxLength, e.cfg.Stops)
		}()
	}
	wg.Wait()

	merged := parts[0]
	for _, p := range parts[1:] {
		merged.Merge(p)
	}
	return merged
}

// ComputeTerms scores whitespace-tokenised strings, one sequence per string.
func ComputeTerms(terms []string, cfg Config) (*Result, error) {
	eng, err := New(cfg)
	if err != nil {
		return nil, err
	}

	seqs := make([]span.Span, 0, len(terms))
	for i, term := range terms {
		seqs = append(seqs, span.FromWords(strconv.Itoa(i), strings.Fields(term)...))
	}
	return eng.Compute(seqs), nil
}
