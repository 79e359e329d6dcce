package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]store.Run
	terms map[string][]store.Term
	cards map[string]store.Card
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:  make(map[string]store.Run),
		terms: make(map[string][]store.Term),
		cards: make(map[string]store.Card),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun stores a run and replaces its terms and cards.
func (s *Store) SaveRun(ctx context.Context, r store.Run, terms []store.Term, cards []store.Card) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run ID is required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[r.ID] = r
	cp := make([]store.Term, len(terms))
	for i, t := range terms {
		t.RunID = r.ID
		cp[i] = t
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Rank < cp[j].Rank })
	s.terms[r.ID] = cp

	for id, c := range s.cards {
		if c.RunID == r.ID {
			delete(s.cards, id)
		}
	}
	for _, c := range cards {
		c.RunID = r.ID
		s.putCard(c)
	}
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RunTerms returns the top k terms of a run by rank. k <= 0 returns all.
func (s *Store) RunTerms(ctx context.Context, runID string, k int) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	terms := s.terms[runID]
	if k > 0 && len(terms) > k {
		terms = terms[:k]
	}
	out := make([]store.Term, len(terms))
	copy(out, terms)
	return out, nil
}

// TermHistory returns every stored score of label, oldest run first.
func (s *Store) TermHistory(ctx context.Context, label string) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Term
	for _, terms := range s.terms {
		for _, t := range terms {
			if t.Label == label {
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunID < out[j].RunID })
	return out, nil
}

// UpsertCard inserts or updates a card.
func (s *Store) UpsertCard(ctx context.Context, c store.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCard(c)
	return nil
}

func (s *Store) putCard(c store.Card) {
	c.Bullets = append([]string(nil), c.Bullets...)
	c.Sources = append([]string(nil), c.Sources...)
	s.cards[c.ID] = c
}

// GetCardsByRun returns up to k cards of a run in creation order.
func (s *Store) GetCardsByRun(ctx context.Context, runID string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cards []store.Card
	for _, c := range s.cards {
		if c.RunID == runID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	if len(cards) > k {
		cards = cards[:k]
	}
	return cards, nil
}

var _ store.Store = (*Store)(nil)
