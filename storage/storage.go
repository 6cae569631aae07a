// Package storage manages the backing-store files of registered databases.
//
// Each database is one file named <dbname>.db inside the data directory. The
// catalog row is the authority on existence: create inserts only the row and
// the engine materializes the file on first use; drop removes the row then
// the file. The filesystem is reached through billy so tests can run against
// memfs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"

	"github.com/fastdb-io/fastdb"
)

// Manager owns the data directory.
type Manager struct {
	root string
	fs   billy.Filesystem
}

// NewManager opens (creating if necessary) the data directory at root.
func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", root, err)
	}
	return &Manager{root: root, fs: osfs.New(root)}, nil
}

// NewManagerWithFS builds a Manager over an arbitrary filesystem, typically
// memfs in tests. Path still resolves against root.
func NewManagerWithFS(root string, fs billy.Filesystem) *Manager {
	return &Manager{root: root, fs: fs}
}

func fileName(dbname string) string {
	return dbname + fastdb.DatabaseExt
}

// Path returns the backing-store location passed to the engine.
func (m *Manager) Path(dbname string) string {
	return filepath.Join(m.root, fileName(dbname))
}

// Exists reports whether the backing store for dbname has been materialized.
// A registered database has no file until its first use.
func (m *Manager) Exists(dbname string) bool {
	_, err := m.fs.Stat(fileName(dbname))
	return err == nil
}

// Remove deletes the backing store for dbname. Removing an absent store is
// not an error; the catalog row is the authority on existence.
func (m *Manager) Remove(dbname string) error {
	err := m.fs.Remove(fileName(dbname))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove backing store for %s: %w", dbname, err)
	}
	return nil
}

// List returns the database names that have a backing store on disk.
func (m *Manager) List() ([]string, error) {
	entries, err := m.fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fastdb.DatabaseExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fastdb.DatabaseExt))
	}
	return names, nil
}
