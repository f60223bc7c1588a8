// Package store persists scene snapshots to SQLite so the installation
// comes back in its last state after a restart.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing has been saved.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store wraps the SQLite connection. A single row holds the latest
// serialized scene-manager document; history is not kept.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scene_snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			document BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create scene_snapshot table: %w", err)
	}
	return nil
}

// SaveSnapshot upserts the latest scene-manager document.
func (s *Store) SaveSnapshot(doc []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO scene_snapshot (id, document, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, saved_at = excluded.saved_at
	`, doc, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the latest saved document, or ErrNoSnapshot.
func (s *Store) LoadSnapshot() ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT document FROM scene_snapshot WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return doc, nil
}

// Clear removes the stored snapshot. Used by the reset-state startup flag.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM scene_snapshot`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
