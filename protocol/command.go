// Package protocol defines the FastDB wire protocol: the separator framing
// shared by client and server, the classification of incoming requests into
// catalog meta-commands or pass-through statements, and the reply strings.
//
// A request is either "<key>$<body>", where key names one of the registered
// meta-command patterns, or opaque statement text forwarded to the engine of
// the session's selected database. The separator has no escaping mechanism;
// a password or statement containing '$' is misparsed. That is a protocol
// limitation, not something this package tries to repair.
package protocol

// Separator splits key from body in command frames and username from
// password in the login frame.
const Separator = "$"

// MaxFrame bounds one received message. One read call is one message;
// anything longer is truncated.
const MaxFrame = 1024

// Command is a classified catalog meta-command. The concrete types form a
// closed set; each carries the fields captured from its pattern.
type Command interface {
	// Key returns the registry key the command was matched under.
	Key() string
}

// CreateDatabase registers a new database in the catalog.
type CreateDatabase struct {
	Name        string
	IfNotExists bool
}

// ShowDatabases lists the registered databases.
type ShowDatabases struct{}

// DropDatabase removes a database from the catalog along with its backing
// store.
type DropDatabase struct {
	Name string
}

// UseDatabase selects the session's active database.
type UseDatabase struct {
	Name string
}

// AddUser registers a new user.
type AddUser struct {
	Username string
	Password string
}

// DeleteUser removes a user.
type DeleteUser struct {
	Username string
}

func (CreateDatabase) Key() string { return "create-database" }
func (ShowDatabases) Key() string  { return "show-databases" }
func (DropDatabase) Key() string   { return "drop-database" }
func (UseDatabase) Key() string    { return "use-database" }
func (AddUser) Key() string        { return "add-user" }
func (DeleteUser) Key() string     { return "delete-user" }
