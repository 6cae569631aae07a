package storage

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastdb-io/fastdb"
)

// touch materializes a backing store the way the engine would.
func touch(t *testing.T, m *Manager, dbname string) {
	t.Helper()
	f, err := m.fs.Create(dbname + fastdb.DatabaseExt)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestExistsAndRemove(t *testing.T) {
	m := NewManagerWithFS("databases", memfs.New())

	assert.False(t, m.Exists("shop"))
	touch(t, m, "shop")
	assert.True(t, m.Exists("shop"))

	require.NoError(t, m.Remove("shop"))
	assert.False(t, m.Exists("shop"))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	m := NewManagerWithFS("databases", memfs.New())
	assert.NoError(t, m.Remove("ghost"))
}

func TestList(t *testing.T) {
	m := NewManagerWithFS("databases", memfs.New())

	touch(t, m, "shop")
	touch(t, m, "logs")

	// Files without the database extension are not backing stores.
	f, err := m.fs.Create("notes.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	names, err := m.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shop", "logs"}, names)
}

func TestPath(t *testing.T) {
	m := NewManagerWithFS(filepath.Join("var", "data"), memfs.New())
	assert.Equal(t, filepath.Join("var", "data", "shop.db"), m.Path("shop"))
}

func TestOSManager(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "databases"))
	require.NoError(t, err)

	touch(t, m, "ondisk")
	assert.True(t, m.Exists("ondisk"))

	names, err := m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"ondisk"}, names)
}
