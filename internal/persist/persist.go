// Package persist implements the keyed object store behind session
// resume: a short string key maps to a blob of serialized
// Submission/Grade state, kept in a single sqlite table.
package persist

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is a keyed byte store backing the --resume flag.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at dbPath and ensures the schema
// exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes value under key, overwriting any prior value.
func (s *Store) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("persist: put %q: %w", key, err)
	}
	return nil
}

// Get reads the value stored under key. The second return is false when
// no such key exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: get %q: %w", key, err)
	}
	return value, true, nil
}

// Delete removes key, if present.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("persist: delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every key currently stored, for diagnostic/resume-picker use.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM blobs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("persist: list keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
