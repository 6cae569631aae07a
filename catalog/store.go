// Package catalog implements the shared registry of known users and known
// databases. One Store is opened at server startup, shared by every session,
// and closed at shutdown.
//
// The registries live in a single DuckDB file with UNIQUE-constrained
// relations. A mutex serializes access above the backing store so that every
// check-then-mutate pair is one atomic step: uniqueness can never be violated
// by two sessions racing on the same name, and a read issued after a
// successful mutation always observes it.
package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/fastdb-io/fastdb/auth"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username VARCHAR NOT NULL UNIQUE,
	digest   VARCHAR NOT NULL
);
CREATE TABLE IF NOT EXISTS databases (
	dbname VARCHAR NOT NULL UNIQUE
);`

// Store is the catalog store. All methods are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	algo string
}

// Open opens (creating if necessary) the catalog file at path. digestAlgo
// names the password hash algorithm used for stored credentials.
func Open(path, digestAlgo string) (*Store, error) {
	if _, ok := auth.Digest(digestAlgo, ""); !ok {
		return nil, fmt.Errorf("unsupported digest algorithm %q", digestAlgo)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	return &Store{db: db, algo: digestAlgo}, nil
}

// Close releases the catalog's backing connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// UserExists reports whether a user with the given name is registered and
// the stored digest matches the digest of password. Absence and a wrong
// password are both simply false.
func (s *Store) UserExists(username, password string) bool {
	digest, _ := auth.Digest(s.algo, password)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM users WHERE username = ? AND digest = ?`,
		username, digest,
	).Scan(&one)
	return err == nil
}

// DatabaseExists reports whether dbname is registered.
func (s *Store) DatabaseExists(dbname string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.databaseExistsLocked(dbname)
}

func (s *Store) databaseExistsLocked(dbname string) bool {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM databases WHERE dbname = ?`, dbname).Scan(&one)
	return err == nil
}

// InsertUser registers a user, storing only the password digest. Returns
// ErrDuplicateUser if the username is already taken.
func (s *Store) InsertUser(username, password string) error {
	digest, _ := auth.Digest(s.algo, password)

	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	if err := s.db.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&one); err == nil {
		return ErrDuplicateUser
	}
	if _, err := s.db.Exec(`INSERT INTO users (username, digest) VALUES (?, ?)`, username, digest); err != nil {
		return fmt.Errorf("failed to insert user %s: %w", username, err)
	}
	return nil
}

// DeleteUser removes a user. Returns ErrUnknownUser if absent.
func (s *Store) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownUser
	}
	return nil
}

// InsertDatabase registers a database name. Returns ErrDuplicateDatabase if
// already present.
func (s *Store) InsertDatabase(dbname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.databaseExistsLocked(dbname) {
		return ErrDuplicateDatabase
	}
	if _, err := s.db.Exec(`INSERT INTO databases (dbname) VALUES (?)`, dbname); err != nil {
		return fmt.Errorf("failed to insert database %s: %w", dbname, err)
	}
	return nil
}

// DeleteDatabase removes the catalog row only. The caller removes the
// backing store afterwards, in that order: a crash in between leaves an
// orphaned file, never a catalog row pointing at nothing. Returns
// ErrUnknownDatabase if absent.
func (s *Store) DeleteDatabase(dbname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM databases WHERE dbname = ?`, dbname)
	if err != nil {
		return fmt.Errorf("failed to delete database %s: %w", dbname, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUnknownDatabase
	}
	return nil
}

// ListDatabases returns the registered database names.
func (s *Store) ListDatabases() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT dbname FROM databases ORDER BY dbname`)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
