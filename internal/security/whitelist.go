package security

import (
	"strings"
)

// Whitelist is a set of usernames that are always authorized.
type Whitelist struct {
	users []string
}

// ParseWhitelist parses a comma-separated list of usernames.
// Surrounding whitespace is ignored and empty entries are dropped.
func ParseWhitelist(raw string) Whitelist {
	var users []string
	for _, u := range strings.Split(raw, ",") {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		users = append(users, u)
	}
	return Whitelist{users: users}
}

// Empty reports whether the whitelist has no entries
func (w Whitelist) Empty() bool {
	return len(w.users) == 0
}

// Len returns the number of entries, duplicates included
func (w Whitelist) Len() int {
	return len(w.users)
}

// Contains checks if a user is in the whitelist.
// GitHub logins are case-insensitive, so the comparison is too.
// An empty whitelist contains nobody.
func (w Whitelist) Contains(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		return false
	}

	for _, u := range w.users {
		if strings.EqualFold(u, username) {
			return true
		}
	}
	return false
}

// String returns the normalized comma-separated form
func (w Whitelist) String() string {
	return strings.Join(w.users, ",")
}
