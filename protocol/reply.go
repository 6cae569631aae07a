package protocol

import "fmt"

// Login replies. AccessDenied is followed by the server closing the
// connection; there is no retry within one connection.
const (
	AccessGranted = "ok"
	AccessDenied  = "access denied"
)

// errPrefix distinguishes error replies from confirmations.
const errPrefix = "ERROR: "

// Error replies.

func ErrDatabaseExists(name string) string {
	return fmt.Sprintf("%sDatabase '%s' already exists", errPrefix, name)
}

func ErrUnknownDatabase(name string) string {
	return fmt.Sprintf("%sUnknown database '%s'", errPrefix, name)
}

func ErrNoSuchDatabase(name string) string {
	return fmt.Sprintf("%sNo such database '%s'", errPrefix, name)
}

func ErrUserExists(name string) string {
	return fmt.Sprintf("%sUser '%s' already exists", errPrefix, name)
}

func ErrNoUser(name string) string {
	return fmt.Sprintf("%sNo user named '%s'", errPrefix, name)
}

func ErrNoDatabaseSelected() string {
	return errPrefix + "No database in use"
}

// ErrEngine wraps the engine's own message.
func ErrEngine(msg string) string {
	return errPrefix + msg
}

// Confirmation replies.

func DatabaseCreated(name string) string {
	return fmt.Sprintf("Database '%s' created", name)
}

func DatabaseDeleted(name string) string {
	return fmt.Sprintf("Database '%s' deleted", name)
}

func DatabaseChanged() string {
	return "Database changed"
}

func UserAdded(name string) string {
	return fmt.Sprintf("User '%s' added successfully", name)
}

func UserDeleted(name string) string {
	return fmt.Sprintf("User '%s' deleted successfully", name)
}

// Result suffixes. Timing is reported the same way for reads and writes.

func RowsInSet(n int, secs float64) string {
	return fmt.Sprintf("%d row(s) in set (%.2f sec)", n, secs)
}

func EmptySet(secs float64) string {
	return fmt.Sprintf("Empty set (%.2f sec)", secs)
}

func QueryOK(affected int64, secs float64) string {
	return fmt.Sprintf("Query OK, %d row(s) affected (%.2f sec)", affected, secs)
}
