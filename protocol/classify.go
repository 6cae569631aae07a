package protocol

import (
	"regexp"
	"strings"
)

// Patterns for the meta-command bodies. Keywords are case-insensitive,
// whitespace between keywords is one-or-more, identifiers are \w+.
var (
	reCreateDatabase = regexp.MustCompile(`(?i)^\s*CREATE\s+DATABASE\s+(?P<ifnotexists>IF\s+NOT\s+EXISTS\s+)?(?P<dbname>\w+)\s*;\s*$`)
	reShowDatabases  = regexp.MustCompile(`(?i)^\s*SHOW\s+DATABASES\s*;\s*$`)
	reDropDatabase   = regexp.MustCompile(`(?i)^\s*DROP\s+DATABASE\s+(?P<dbname>\w+)\s*;\s*$`)
	reUseDatabase    = regexp.MustCompile(`(?i)^\s*USE\s+(?P<dbname>\w+)\s*;?\s*$`)
	reAddUser        = regexp.MustCompile(`(?i)^\s*ADD\s+USER\s+(?P<username>\w+)\s+PASSWORD\s+(?P<pass>\w+)\s*;\s*$`)
	reDeleteUser     = regexp.MustCompile(`(?i)^\s*DELETE\s+USER\s+(?P<username>\w+)\s*;\s*$`)
)

var matchers = map[string]func(body string) (Command, bool){
	"create-database": func(body string) (Command, bool) {
		m := reCreateDatabase.FindStringSubmatch(body)
		if m == nil {
			return nil, false
		}
		return CreateDatabase{Name: m[2], IfNotExists: m[1] != ""}, true
	},
	"show-databases": func(body string) (Command, bool) {
		if !reShowDatabases.MatchString(body) {
			return nil, false
		}
		return ShowDatabases{}, true
	},
	"drop-database": func(body string) (Command, bool) {
		m := reDropDatabase.FindStringSubmatch(body)
		if m == nil {
			return nil, false
		}
		return DropDatabase{Name: m[1]}, true
	},
	"use-database": func(body string) (Command, bool) {
		m := reUseDatabase.FindStringSubmatch(body)
		if m == nil {
			return nil, false
		}
		return UseDatabase{Name: m[1]}, true
	},
	"add-user": func(body string) (Command, bool) {
		m := reAddUser.FindStringSubmatch(body)
		if m == nil {
			return nil, false
		}
		return AddUser{Username: m[1], Password: m[2]}, true
	},
	"delete-user": func(body string) (Command, bool) {
		m := reDeleteUser.FindStringSubmatch(body)
		if m == nil {
			return nil, false
		}
		return DeleteUser{Username: m[1]}, true
	},
}

var taggers = []struct {
	key string
	re  *regexp.Regexp
}{
	{"create-database", reCreateDatabase},
	{"show-databases", reShowDatabases},
	{"drop-database", reDropDatabase},
	{"use-database", reUseDatabase},
	{"add-user", reAddUser},
	{"delete-user", reDeleteUser},
}

// Tag prefixes a statement with its command key when it fully matches one
// of the meta-command patterns. Clients send tagged frames; anything that
// does not match goes over the wire unchanged.
func Tag(statement string) (string, bool) {
	for _, t := range taggers {
		if t.re.MatchString(statement) {
			return t.key + Separator + statement, true
		}
	}
	return statement, false
}

// Classify decides what a request is. When the text splits on the separator
// into exactly two non-empty parts and the body fully matches the pattern
// registered under the key, the tagged command is returned. Everything else
// is a pass-through statement, never an error: an unknown key or a failed
// match just means the text goes to the engine as-is.
func Classify(text string) (Command, bool) {
	key, body, found := strings.Cut(text, Separator)
	if !found || key == "" || body == "" {
		return nil, false
	}
	match, ok := matchers[key]
	if !ok {
		return nil, false
	}
	return match(body)
}

// IsRead reports whether a pass-through statement produces rows. Only the
// leading keyword matters; the formatter needs to know whether to expect a
// row set or an affected count, not what the statement means.
func IsRead(statement string) bool {
	rest := strings.TrimSpace(statement)
	if len(rest) < 6 {
		return false
	}
	return strings.EqualFold(rest[:6], "select") &&
		(len(rest) == 6 || !isWordChar(rest[6]))
}

func isWordChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
