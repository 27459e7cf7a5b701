// Package history keeps a local journal of finalized outcomes across runs,
// so past checks can be reviewed without re-hitting the remote service.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"platecheck/internal/result"
)

// Entry is one journaled outcome.
type Entry struct {
	ID        int64
	RunID     string
	Plate     string
	Status    result.Status
	Message   string
	Attempts  int
	CheckedAt time.Time
}

// Store is a SQLite-backed outcome journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			plate TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			checked_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checks_plate ON checks(plate);`,
		`CREATE INDEX IF NOT EXISTS idx_checks_run ON checks(run_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init history schema: %w", err)
		}
	}
	return nil
}

// Record appends one outcome under the given run ID.
func (s *Store) Record(runID string, o result.Outcome) error {
	_, err := s.db.Exec(
		`INSERT INTO checks(run_id, plate, status, message, attempts, checked_at) VALUES(?,?,?,?,?,?)`,
		runID, o.Plate, string(o.Status), o.Message, o.Attempts, o.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first. A plate filter of ""
// matches everything.
func (s *Store) Recent(plateFilter string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, run_id, plate, status, message, attempts, checked_at
		FROM checks`
	args := []any{}
	if plateFilter != "" {
		query += ` WHERE plate = ?`
		args = append(args, plateFilter)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Plate, &status, &e.Message, &e.Attempts, &e.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Status = result.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
