package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCreateDatabase(t *testing.T) {
	cmd, ok := Classify("create-database$CREATE DATABASE shop;")
	require.True(t, ok)
	assert.Equal(t, CreateDatabase{Name: "shop"}, cmd)

	cmd, ok = Classify("create-database$create   database IF NOT EXISTS logs ;")
	require.True(t, ok)
	assert.Equal(t, CreateDatabase{Name: "logs", IfNotExists: true}, cmd)
}

func TestClassifyShowDatabases(t *testing.T) {
	cmd, ok := Classify("show-databases$SHOW DATABASES;")
	require.True(t, ok)
	assert.Equal(t, ShowDatabases{}, cmd)
}

func TestClassifyDropDatabase(t *testing.T) {
	cmd, ok := Classify("drop-database$drop database old_logs;")
	require.True(t, ok)
	assert.Equal(t, DropDatabase{Name: "old_logs"}, cmd)
}

func TestClassifyUseDatabase(t *testing.T) {
	// Trailing semicolon is optional for USE.
	cmd, ok := Classify("use-database$USE shop")
	require.True(t, ok)
	assert.Equal(t, UseDatabase{Name: "shop"}, cmd)

	cmd, ok = Classify("use-database$use shop;")
	require.True(t, ok)
	assert.Equal(t, UseDatabase{Name: "shop"}, cmd)
}

func TestClassifyUserCommands(t *testing.T) {
	cmd, ok := Classify("add-user$ADD USER alice PASSWORD s3cret;")
	require.True(t, ok)
	assert.Equal(t, AddUser{Username: "alice", Password: "s3cret"}, cmd)

	cmd, ok = Classify("delete-user$DELETE USER alice;")
	require.True(t, ok)
	assert.Equal(t, DeleteUser{Username: "alice"}, cmd)
}

func TestClassifyPassThrough(t *testing.T) {
	cases := []string{
		"SELECT * FROM users;",              // no separator
		"unknown-key$SHOW DATABASES;",       // separator, unknown key
		"create-database$DROP DATABASE x;",  // key/body mismatch
		"create-database$",                  // empty body
		"$CREATE DATABASE shop;",            // empty key
		"use-database$USE shop extra words", // partial match is no match
	}
	for _, text := range cases {
		_, ok := Classify(text)
		assert.False(t, ok, text)
	}
}

func TestTag(t *testing.T) {
	tagged, ok := Tag("CREATE DATABASE shop;")
	require.True(t, ok)
	assert.Equal(t, "create-database$CREATE DATABASE shop;", tagged)

	tagged, ok = Tag("use shop")
	require.True(t, ok)
	assert.Equal(t, "use-database$use shop", tagged)

	tagged, ok = Tag("SELECT * FROM users;")
	assert.False(t, ok)
	assert.Equal(t, "SELECT * FROM users;", tagged)
}

func TestIsRead(t *testing.T) {
	assert.True(t, IsRead("SELECT * FROM t;"))
	assert.True(t, IsRead("  select id from t;"))
	assert.True(t, IsRead("SELECT"))

	assert.False(t, IsRead("INSERT INTO t VALUES (1);"))
	assert.False(t, IsRead("selection_log;")) // leading keyword, not prefix
	assert.False(t, IsRead(""))
}

func TestIsComplete(t *testing.T) {
	assert.True(t, IsComplete("SELECT * FROM users;"))
	assert.True(t, IsComplete("SELECT 1;  "))
	assert.True(t, IsComplete("SELECT 1; -- trailing comment"))
	assert.True(t, IsComplete("INSERT INTO t VALUES ('a;b');"))

	assert.False(t, IsComplete("SELECT * FROM users"))
	assert.False(t, IsComplete("SELECT ';'"))
	assert.False(t, IsComplete("SELECT 1; SELECT 2"))
	assert.False(t, IsComplete(""))
}

func TestReplyStrings(t *testing.T) {
	assert.Equal(t, "ERROR: Database 'shop' already exists", ErrDatabaseExists("shop"))
	assert.Equal(t, "ERROR: No database in use", ErrNoDatabaseSelected())
	assert.Equal(t, "Database changed", DatabaseChanged())
	assert.Equal(t, "2 row(s) in set (0.00 sec)", RowsInSet(2, 0.0))
	assert.Equal(t, "Query OK, 0 row(s) affected (0.00 sec)", QueryOK(0, 0.0))
}
