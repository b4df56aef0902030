// Package state persists per-script resume positions in SQLite so a
// presentation can pick up where it left off.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the positions database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path, creating parent directories
// and running migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the schema when missing.
func (s *Store) Migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS positions (
	script     TEXT PRIMARY KEY,
	slide      INTEGER NOT NULL,
	build      INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrating state db: %w", err)
	}
	return nil
}

// SavePosition upserts the cursor for script. Parked positions are worth
// saving too; LoadPosition hands back whatever was stored and the deck's
// own clamping keeps it valid after the script changed.
func (s *Store) SavePosition(script string, slide, build int) error {
	const q = `
INSERT INTO positions (script, slide, build, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(script) DO UPDATE SET
	slide = excluded.slide,
	build = excluded.build,
	updated_at = excluded.updated_at;`
	if _, err := s.db.Exec(q, script, slide, build, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving position for %s: %w", script, err)
	}
	return nil
}

// LoadPosition returns the stored cursor for script; ok is false when the
// script has never been presented.
func (s *Store) LoadPosition(script string) (slide, build int, ok bool, err error) {
	const q = `SELECT slide, build FROM positions WHERE script = ?;`
	row := s.db.QueryRow(q, script)
	switch err := row.Scan(&slide, &build); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, 0, false, nil
	case err != nil:
		return 0, 0, false, fmt.Errorf("loading position for %s: %w", script, err)
	}
	return slide, build, true, nil
}

// Forget drops the stored position for script.
func (s *Store) Forget(script string) error {
	if _, err := s.db.Exec(`DELETE FROM positions WHERE script = ?;`, script); err != nil {
		return fmt.Errorf("forgetting position for %s: %w", script, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
