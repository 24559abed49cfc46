package token

import (
	"context"

	"github.com/jrsteele09/go-token-server/sessions"
)

// Registry is the authoritative mapping from issued token strings to session
// identities. Access and refresh tokens live in separate namespaces. Lookups match
// the full token string only. Implementations must be safe for concurrent use.
type Registry interface {
	PutAccess(ctx context.Context, token string, identity sessions.Identity) error
	PutRefresh(ctx context.Context, token string, identity sessions.Identity) error
	GetAccess(ctx context.Context, token string) (sessions.Identity, bool, error)
	GetRefresh(ctx context.Context, token string) (sessions.Identity, bool, error)
	// DeleteAccess removes an access token and reports whether it was present.
	// Deleting an absent token is not an error.
	DeleteAccess(ctx context.Context, token string) (bool, error)
	// Len returns the number of live access and refresh tokens.
	Len(ctx context.Context) (access int, refresh int, err error)
}
