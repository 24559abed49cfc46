package users

import "github.com/jrsteele09/go-token-server/sessions"

// CredentialStore looks up a user by exact username and password. A miss is
// reported through the bool, never as an error.
type CredentialStore interface {
	FindUser(username, password string) (sessions.Identity, bool)
}
