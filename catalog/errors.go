package catalog

import "errors"

// Domain outcomes of catalog mutations. These are expected results that the
// session turns into protocol replies, not infrastructure failures.
var (
	ErrDuplicateUser     = errors.New("user already exists")
	ErrUnknownUser       = errors.New("no such user")
	ErrDuplicateDatabase = errors.New("database already exists")
	ErrUnknownDatabase   = errors.New("no such database")
)
