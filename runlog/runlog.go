// Package runlog persists a history of conversion runs to sqlite.
package runlog

import (
	"database/sql"
	"time"
)

// Run is one recorded conversion run.
type Run struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Config      string    `json:"config"` // JSON snapshot of the run parameters
	State       string    `json:"state"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store records runs in a sqlite database.
type Store struct {
	db *sql.DB
}

// New creates a store and ensures the runs table exists.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.createRunsTable(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		config TEXT, -- JSON object
		state TEXT NOT NULL,
		error TEXT,
		created_at DATETIME NOT NULL,
		completed_at DATETIME
	)`

	_, err := s.db.Exec(query)
	return err
}

// Start records a new run in its initial state.
func (s *Store) Start(r Run) error {
	query := `
	INSERT OR REPLACE INTO runs (
		id, source, config, state, error, created_at, completed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		r.ID,
		r.Source,
		r.Config,
		r.State,
		r.Error,
		r.CreatedAt,
		r.CompletedAt,
	)
	return err
}

// Finish records a run's terminal state and completion time.
func (s *Store) Finish(id, state, errMsg string) error {
	_, err := s.db.Exec(
		"UPDATE runs SET state = ?, error = ?, completed_at = ? WHERE id = ?",
		state, errMsg, time.Now(), id,
	)
	return err
}

// Get returns one run by id.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(`
	SELECT id, source, COALESCE(config, ''), state, COALESCE(error, ''), created_at, completed_at
	FROM runs WHERE id = ?`, id)

	var r Run
	if err := row.Scan(&r.ID, &r.Source, &r.Config, &r.State, &r.Error, &r.CreatedAt, &r.CompletedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
	SELECT id, source, COALESCE(config, ''), state, COALESCE(error, ''), created_at, completed_at
	FROM runs
	ORDER BY created_at DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Config, &r.State, &r.Error, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
