package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/termex/pkg/termex/internalerr"
	"github.com/cognicore/termex/pkg/termex/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	// foreign_keys is per connection, so it goes in the DSN for every pooled one
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	corpus TEXT,
	docs INTEGER NOT NULL DEFAULT 0,
	sequences INTEGER NOT NULL DEFAULT 0,
	candidates INTEGER NOT NULL DEFAULT 0,
	config_json TEXT
);

CREATE TABLE IF NOT EXISTS terms (
	run_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	label TEXT NOT NULL,
	score REAL NOT NULL,
	length INTEGER NOT NULL,
	freq INTEGER NOT NULL,
	nested_freq INTEGER NOT NULL,
	nested_count INTEGER NOT NULL,
	PRIMARY KEY(run_id, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_terms_label ON terms(label);

CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	term TEXT NOT NULL,
	bullets TEXT,
	sources TEXT,
	score_json TEXT,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun upserts a run and replaces its terms and cards in one transaction
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run, terms []store.Term, cards []store.Card) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run ID is required", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, corpus, docs, sequences, candidates, config_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	corpus=excluded.corpus,
	docs=excluded.docs,
	sequences=excluded.sequences,
	candidates=excluded.candidates,
	config_json=excluded.config_json;
`, r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Corpus, r.Docs, r.Sequences, r.Candidates, r.ConfigJSON)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM terms WHERE run_id = ?`, r.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO terms (run_id, rank, label, score, length, freq, nested_freq, nested_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range terms {
		if _, err := stmt.ExecContext(ctx, r.ID, t.Rank, t.Label, t.Score, t.Length, t.Freq, t.NestedFreq, t.NestedCount); err != nil {
			return fmt.Errorf("insert term %q: %w", t.Label, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE run_id = ?`, r.ID); err != nil {
		return err
	}
	for _, c := range cards {
		c.RunID = r.ID
		if err := upsertCard(ctx, tx, c); err != nil {
			return fmt.Errorf("insert card %q: %w", c.Term, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, corpus, docs, sequences, candidates, config_json
FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// ListRuns returns up to limit runs, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, corpus, docs, sequences, candidates, config_json
FROM runs
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var r store.Run
	var created string
	var corpus, cfg sql.NullString
	if err := sc.Scan(&r.ID, &created, &corpus, &r.Docs, &r.Sequences, &r.Candidates, &cfg); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: parse created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Corpus = corpus.String
	r.ConfigJSON = cfg.String
	return r, nil
}

// RunTerms returns the top k terms of a run by rank. k <= 0 returns all.
func (s *sqliteStore) RunTerms(ctx context.Context, runID string, k int) ([]store.Term, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = -1
	}
	return s.queryTerms(ctx, `
SELECT run_id, rank, label, score, length, freq, nested_freq, nested_count
FROM terms
WHERE run_id = ?
ORDER BY rank ASC
LIMIT ?;
`, runID, k)
}

// TermHistory returns every stored score of label, oldest run first
func (s *sqliteStore) TermHistory(ctx context.Context, label string) ([]store.Term, error) {
	return s.queryTerms(ctx, `
SELECT run_id, rank, label, score, length, freq, nested_freq, nested_count
FROM terms
WHERE label = ?
ORDER BY run_id ASC;
`, label)
}

func (s *sqliteStore) queryTerms(ctx context.Context, query string, args ...any) ([]store.Term, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []store.Term
	for rows.Next() {
		var t store.Term
		if err := rows.Scan(&t.RunID, &t.Rank, &t.Label, &t.Score, &t.Length, &t.Freq, &t.NestedFreq, &t.NestedCount); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// UpsertCard inserts or updates a card
func (s *sqliteStore) UpsertCard(ctx context.Context, c store.Card) error {
	return upsertCard(ctx, s.db, c)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertCard(ctx context.Context, db execer, c store.Card) error {
	bulletsJSON, err := json.Marshal(c.Bullets)
	if err != nil {
		return err
	}
	sourcesJSON, err := json.Marshal(c.Sources)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO cards (id, run_id, term, bullets, sources, score_json)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	run_id=excluded.run_id,
	term=excluded.term,
	bullets=excluded.bullets,
	sources=excluded.sources,
	score_json=excluded.score_json;
`, c.ID, c.RunID, c.Term, string(bulletsJSON), string(sourcesJSON), c.ScoreJSON)
	return err
}

// GetCardsByRun retrieves up to k cards of a run in creation order
func (s *sqliteStore) GetCardsByRun(ctx context.Context, runID string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, term, bullets, sources, score_json
FROM cards
WHERE run_id = ?
ORDER BY id ASC
LIMIT ?;
`, runID, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []store.Card
	for rows.Next() {
		var c store.Card
		var bulletsJSON, sourcesJSON string
		if err := rows.Scan(&c.ID, &c.RunID, &c.Term, &bulletsJSON, &sourcesJSON, &c.ScoreJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(bulletsJSON), &c.Bullets); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &c.Sources); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
