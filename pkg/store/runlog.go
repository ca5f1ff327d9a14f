// Package store persists an audit log of batch runs in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

// Run summarizes one recorded batch.
type Run struct {
	ID        int64 `json:"id"`
	StartedAt int64 `json:"started_at"`
	Queries   int   `json:"queries"`
	Found     int   `json:"found"`
	NotFound  int   `json:"not_found"`
}

// RunQuery is one query outcome within a run.
type RunQuery struct {
	Query   string `json:"query"`
	Matched bool   `json:"matched"`
	Hits    int    `json:"hits"`
}

// RunLog manages the runs/run_queries SQLite tables.
type RunLog struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// run-log tables exist.
func Open(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  INTEGER NOT NULL,
		queries     INTEGER NOT NULL,
		found       INTEGER NOT NULL,
		not_found   INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_queries (
		run_id   INTEGER NOT NULL REFERENCES runs(id),
		query    TEXT NOT NULL,
		matched  INTEGER NOT NULL,
		hits     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS run_queries_run_id ON run_queries(run_id);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run log tables: %w", err)
	}

	return &RunLog{db: db}, nil
}

// Close closes the underlying database.
func (l *RunLog) Close() error {
	return l.db.Close()
}

// Record persists one batch run and its per-query outcomes, returning the
// new run's ID.
func (l *RunLog) Record(batch *lookup.BatchResult) (int64, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, queries, found, not_found) VALUES (?, ?, ?, ?)`,
		time.Now().Unix(), batch.Queries(), len(batch.Found), len(batch.NotFound),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	const q = `INSERT INTO run_queries (run_id, query, matched, hits) VALUES (?, ?, ?, ?)`
	for _, qr := range batch.Found {
		if _, err := tx.Exec(q, runID, qr.Query, 1, len(qr.Records)); err != nil {
			return 0, fmt.Errorf("insert query %q: %w", qr.Query, err)
		}
	}
	for _, query := range batch.NotFound {
		if _, err := tx.Exec(q, runID, query, 0, 0); err != nil {
			return 0, fmt.Errorf("insert query %q: %w", query, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Recent returns the most recent runs, newest first.
func (l *RunLog) Recent(limit int) ([]Run, error) {
	rows, err := l.db.Query(
		`SELECT id, started_at, queries, found, not_found FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Queries, &r.Found, &r.NotFound); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunQueries returns the per-query outcomes of one run in insertion order.
func (l *RunLog) RunQueries(runID int64) ([]RunQuery, error) {
	rows, err := l.db.Query(
		`SELECT query, matched, hits FROM run_queries WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run queries: %w", err)
	}
	defer rows.Close()

	var queries []RunQuery
	for rows.Next() {
		var q RunQuery
		var matched int
		if err := rows.Scan(&q.Query, &matched, &q.Hits); err != nil {
			return nil, fmt.Errorf("scan run query: %w", err)
		}
		q.Matched = matched != 0
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
