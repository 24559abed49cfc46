package users

import (
	"crypto/subtle"

	"github.com/jrsteele09/go-token-server/sessions"
)

var _ CredentialStore = (*StaticRepo)(nil)

// StaticRepo is an immutable, username keyed record set. It is safe for
// concurrent use because nothing mutates it after construction.
type StaticRepo struct {
	users map[string][]User
	count int
}

// NewStaticRepo indexes the records by username. Records sharing a username are
// kept in source order so lookups behave like a linear scan of the source list.
func NewStaticRepo(records []User) *StaticRepo {
	users := make(map[string][]User, len(records))
	for _, u := range records {
		users[u.Username] = append(users[u.Username], u)
	}
	return &StaticRepo{users: users, count: len(records)}
}

// FindUser matches both fields byte for byte. Password comparison runs in
// constant time over its length.
func (r *StaticRepo) FindUser(username, password string) (sessions.Identity, bool) {
	for _, u := range r.users[username] {
		if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1 {
			return u.Identity(), true
		}
	}
	return sessions.Identity{}, false
}

// Len returns the number of loaded records.
func (r *StaticRepo) Len() int {
	return r.count
}
