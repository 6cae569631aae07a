package catalog

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"), "sha256")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRejectsUnknownDigest(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "catalog.db"), "md5")
	assert.Error(t, err)
}

func TestUserInsertAndExists(t *testing.T) {
	s := openTestStore(t)

	assert.False(t, s.UserExists("alice", "secret"))

	require.NoError(t, s.InsertUser("alice", "secret"))
	assert.True(t, s.UserExists("alice", "secret"))
	assert.False(t, s.UserExists("alice", "wrong"))
	assert.False(t, s.UserExists("bob", "secret"))
}

func TestInsertUserDuplicate(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.InsertUser("alice", "secret"))
	assert.ErrorIs(t, s.InsertUser("alice", "other"), ErrDuplicateUser)

	// The original credentials still hold.
	assert.True(t, s.UserExists("alice", "secret"))
}

func TestDeleteUser(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.InsertUser("alice", "secret"))
	require.NoError(t, s.DeleteUser("alice"))
	assert.False(t, s.UserExists("alice", "secret"))

	assert.ErrorIs(t, s.DeleteUser("alice"), ErrUnknownUser)
}

func TestDatabaseLifecycle(t *testing.T) {
	s := openTestStore(t)

	assert.False(t, s.DatabaseExists("shop"))
	require.NoError(t, s.InsertDatabase("shop"))
	assert.True(t, s.DatabaseExists("shop"))

	assert.ErrorIs(t, s.InsertDatabase("shop"), ErrDuplicateDatabase)

	names, err := s.ListDatabases()
	require.NoError(t, err)
	assert.Equal(t, []string{"shop"}, names)

	require.NoError(t, s.DeleteDatabase("shop"))
	assert.False(t, s.DatabaseExists("shop"))
	assert.ErrorIs(t, s.DeleteDatabase("shop"), ErrUnknownDatabase)
}

func TestListDatabases(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.InsertDatabase(name))
	}
	names, err := s.ListDatabases()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

// Uniqueness must hold when many goroutines race on the same name: exactly
// one insert wins, the rest get the duplicate error.
func TestConcurrentInsertDatabase(t *testing.T) {
	s := openTestStore(t)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.InsertDatabase("contested")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateDatabase)
		}
	}
	assert.Equal(t, 1, winners)

	names, err := s.ListDatabases()
	require.NoError(t, err)
	assert.Equal(t, []string{"contested"}, names)
}
