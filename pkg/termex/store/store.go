package store

import (
	"context"
	"time"
)

// Store is the main interface for persisting extraction runs
type Store interface {
	Close() error

	// Runs. SaveRun writes the run, its terms and its cards atomically,
	// replacing any terms and cards previously stored for the run.
	SaveRun(ctx context.Context, r Run, terms []Term, cards []Card) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Terms
	RunTerms(ctx context.Context, runID string, k int) ([]Term, error)
	TermHistory(ctx context.Context, label string) ([]Term, error)

	// Cards
	UpsertCard(ctx context.Context, c Card) error
	GetCardsByRun(ctx context.Context, runID string, k int) ([]Card, error)
}

// Run represents one stored extraction over a corpus
type Run struct {
	ID         string // ULID, sorts by creation time
	CreatedAt  time.Time
	Corpus     string
	Docs       int
	Sequences  int
	Candidates int
	ConfigJSON string
}

// Term represents a scored term of a run
type Term struct {
	RunID       string
	Rank        int // 1-based position in the run result
	Label       string
	Score       float64
	Length      int
	Freq        int64
	NestedFreq  int64
	NestedCount int64
}

// Card represents a stored term card
type Card struct {
	ID        string
	RunID     string
	Term      string
	Bullets   []string
	Sources   []string // JSON-encoded SourceRefs
	ScoreJSON string
}
