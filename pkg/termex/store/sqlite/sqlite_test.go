package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/store"
)

func openTest(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	created := time.Date(2026, 10, 14, 9, 30, 0, 123, time.UTC)
	run := store.Run{
		ID:         "01JABCDEF",
		CreatedAt:  created,
		Corpus:     "testdata/cars.txt",
		Docs:       3,
		Sequences:  3,
		Candidates: 3,
		ConfigJSON: `{"max_term_length":4}`,
	}
	terms := []store.Term{
		{Rank: 1, Label: "car engine", Score: 2.5, Length: 2, Freq: 3, NestedFreq: 2, NestedCount: 4},
		{Rank: 2, Label: "the old car engine", Score: 2, Length: 4, Freq: 1},
	}
	if err := st.SaveRun(ctx, run, terms, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.CreatedAt.Equal(created) || got.ConfigJSON != run.ConfigJSON || got.Corpus != run.Corpus {
		t.Errorf("run = %+v, want %+v", got, run)
	}

	stored, err := st.RunTerms(ctx, run.ID, 0)
	if err != nil {
		t.Fatalf("RunTerms: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d terms, want 2", len(stored))
	}
	want := terms[0]
	want.RunID = run.ID
	if stored[0] != want {
		t.Errorf("term = %+v, want %+v", stored[0], want)
	}
}

func TestSQLiteSaveRunReplacesTerms(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	run := store.Run{ID: "01A", CreatedAt: time.Now()}
	st.SaveRun(ctx, run, []store.Term{{Rank: 1, Label: "a b"}, {Rank: 2, Label: "c d"}}, nil)
	if err := st.SaveRun(ctx, run, []store.Term{{Rank: 1, Label: "e f"}}, nil); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	stored, _ := st.RunTerms(ctx, "01A", 0)
	if len(stored) != 1 || stored[0].Label != "e f" {
		t.Errorf("terms = %+v", stored)
	}
}

func TestSQLiteNotFound(t *testing.T) {
	st := openTest(t)
	if _, err := st.GetRun(context.Background(), "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRun err = %v, want ErrNotFound", err)
	}
	if _, err := st.RunTerms(context.Background(), "missing", 5); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("RunTerms err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteListRunsAndHistory(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	for i, id := range []string{"01A", "01C", "01B"} {
		terms := []store.Term{{Rank: 1, Label: "car engine", Score: float64(i)}}
		if err := st.SaveRun(ctx, store.Run{ID: id, CreatedAt: time.Now()}, terms, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "01C" || runs[2].ID != "01A" {
		t.Errorf("runs = %+v", runs)
	}

	hist, err := st.TermHistory(ctx, "car engine")
	if err != nil {
		t.Fatalf("TermHistory: %v", err)
	}
	if len(hist) != 3 || hist[0].RunID != "01A" || hist[1].Score != 2 {
		t.Errorf("history = %+v", hist)
	}
}

func TestSQLiteCards(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)
	st.SaveRun(ctx, store.Run{ID: "r1", CreatedAt: time.Now()}, nil, nil)

	card := store.Card{
		ID:        "c1",
		RunID:     "r1",
		Term:      "car engine",
		Bullets:   []string{"0 [2:4] car engine"},
		Sources:   []string{`{"Doc":"0","Start":2,"End":4}`},
		ScoreJSON: `{"freq":3}`,
	}
	if err := st.UpsertCard(ctx, card); err != nil {
		t.Fatalf("UpsertCard: %v", err)
	}
	card.Term = "car engines"
	if err := st.UpsertCard(ctx, card); err != nil {
		t.Fatalf("UpsertCard update: %v", err)
	}

	cards, err := st.GetCardsByRun(ctx, "r1", 10)
	if err != nil {
		t.Fatalf("GetCardsByRun: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Term != "car engines" || cards[0].Sources[0] != card.Sources[0] || cards[0].ScoreJSON != card.ScoreJSON {
		t.Errorf("card = %+v", cards[0])
	}
}

func TestSQLiteSaveRunWritesCards(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)
	run := store.Run{ID: "r1", CreatedAt: time.Now()}
	terms := []store.Term{{Rank: 1, Label: "car engine"}, {Rank: 2, Label: "old car"}}

	cards := []store.Card{{ID: "c1", Term: "car engine"}, {ID: "c2", Term: "old car"}}
	if err := st.SaveRun(ctx, run, terms, cards); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, err := st.GetCardsByRun(ctx, "r1", 0)
	if err != nil {
		t.Fatalf("GetCardsByRun: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "r1" {
		t.Fatalf("cards = %+v", got)
	}

	if err := st.SaveRun(ctx, run, terms[:1], []store.Card{{ID: "c3", Term: "car engine"}}); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}
	got, _ = st.GetCardsByRun(ctx, "r1", 0)
	if len(got) != 1 || got[0].ID != "c3" {
		t.Errorf("resaved cards = %+v, want only c3", got)
	}
}

func TestSQLiteSaveRunIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	// duplicate rank violates the terms primary key
	terms := []store.Term{{Rank: 1, Label: "car engine"}, {Rank: 1, Label: "old car"}}
	cards := []store.Card{{ID: "c1", Term: "car engine"}}
	if err := st.SaveRun(ctx, store.Run{ID: "r1", CreatedAt: time.Now()}, terms, cards); err == nil {
		t.Fatal("SaveRun with duplicate ranks should fail")
	}

	if _, err := st.GetRun(ctx, "r1"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRun err = %v, want ErrNotFound", err)
	}
	if got, _ := st.GetCardsByRun(ctx, "r1", 0); len(got) != 0 {
		t.Errorf("cards left behind: %+v", got)
	}
}
