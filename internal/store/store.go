// Package store persists notes in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Note is a single persisted note.
type Note struct {
	ID   int64
	Text string
}

// ErrUnavailable reports that the underlying database could not be
// opened, read, or written. Every failing store operation wraps it,
// so callers match with errors.Is regardless of the cause.
var ErrUnavailable = errors.New("storage unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// Store handles SQLite operations for notes.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Safe to call on every process start.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, unavailable("create data dir", err)
		}
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, unavailable("open database", err)
	}
	poolSettings(db)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, unavailable("init schema", err)
	}
	return s, nil
}

// poolSettings pins the pool to a single connection. SQLite allows one
// writer at a time; a single shared connection avoids SQLITE_BUSY
// between overlapping statements and keeps DSN pragmas applied to
// every query.
func poolSettings(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS notes (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    note TEXT
)`)
	return err
}

// Search returns notes whose text contains term as a substring,
// newest first, skipping offset rows and returning at most limit.
// An empty term matches all notes. The term is not escaped: % and _
// keep their LIKE wildcard meaning.
func (s *Store) Search(term string, limit, offset int) ([]Note, error) {
	rows, err := s.db.Query(`
		SELECT id, note FROM notes
		WHERE note LIKE ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, "%"+term+"%", limit, offset)
	if err != nil {
		return nil, unavailable("query notes", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Text); err != nil {
			return nil, unavailable("scan note", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read notes", err)
	}
	return notes, nil
}

// Count returns the number of notes matching term under the same
// match rule as Search.
func (s *Store) Count(term string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM notes WHERE note LIKE ?
	`, "%"+term+"%").Scan(&n)
	if err != nil {
		return 0, unavailable("count notes", err)
	}
	return n, nil
}

// Create inserts a new note and returns it with the assigned id.
// Validation of the text is the caller's responsibility.
func (s *Store) Create(text string) (Note, error) {
	res, err := s.db.Exec(`INSERT INTO notes (note) VALUES (?)`, text)
	if err != nil {
		return Note{}, unavailable("insert note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, unavailable("insert note id", err)
	}
	return Note{ID: id, Text: text}, nil
}

// Update overwrites the text of the note with the given id. Updating
// an id that does not exist is a no-op, not an error.
func (s *Store) Update(id int64, text string) error {
	if _, err := s.db.Exec(`UPDATE notes SET note = ? WHERE id = ?`, text, id); err != nil {
		return unavailable("update note", err)
	}
	return nil
}

// Delete removes the note with the given id. Deleting an id that does
// not exist is a no-op, not an error.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return unavailable("delete note", err)
	}
	return nil
}
