// Package store handles SQLite persistence for projects and records.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the SQLite file name inside a timesheet directory.
const DBFileName = "worktime.db"

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

// Store is the SQLite database handle.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Open opens or creates the database inside the timesheet directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create timesheet directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema.
func (s *Store) initialize() error {
	schema := `
		-- WAL keeps concurrent show/work invocations from blocking each other
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;

		-- Metadata table for version tracking
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- Project tree: name is a single path segment, the dotted path is
		-- derived by walking parents
		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			parent INTEGER REFERENCES projects(id),
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(parent, name)
		);

		-- Work records: [start, end) unix seconds, NULL end = still running
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id),
			start INTEGER NOT NULL,
			end INTEGER,
			note TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent);
		CREATE INDEX IF NOT EXISTS idx_records_project ON records(project_id);
		CREATE INDEX IF NOT EXISTS idx_records_start ON records(start);
		CREATE INDEX IF NOT EXISTS idx_records_open ON records(end) WHERE end IS NULL;
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}

	return nil
}

// Stats returns row counts for the stats command footer and init output.
type Stats struct {
	ProjectCount int
	RecordCount  int
	OpenRecords  int
}

// Stats returns statistics about the store.
func (s *Store) Stats() (*Stats, error) {
	var stats Stats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&stats.ProjectCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&stats.RecordCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records WHERE end IS NULL").Scan(&stats.OpenRecords); err != nil {
		return nil, err
	}

	return &stats, nil
}
