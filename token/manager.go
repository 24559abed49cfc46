package token

import (
	"context"

	"github.com/jrsteele09/go-token-server/sessions"
	"github.com/pkg/errors"
)

// Pair is the access and refresh token issued together on login.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager mints tokens with an Issuer and records them in a Registry.
type Manager struct {
	issuer   Issuer
	registry Registry
}

type ManagerOption func(*Manager)

// WithIssuer replaces the default crypto/rand issuer.
func WithIssuer(issuer Issuer) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func New(registry Registry, options ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.issuer == nil {
		m.issuer = NewRandomIssuer(MinTokenBytes)
	}
	return m
}

// IssuePair mints an access token and an independent refresh token for identity and
// stores both. A failure after the first insert can leave an orphaned access token;
// nothing is rolled back.
func (m *Manager) IssuePair(ctx context.Context, identity sessions.Identity) (*Pair, error) {
	accessToken, err := m.issuer.NewToken()
	if err != nil {
		return nil, errors.Wrap(err, "Manager.IssuePair access token")
	}
	refreshToken, err := m.issuer.NewToken()
	if err != nil {
		return nil, errors.Wrap(err, "Manager.IssuePair refresh token")
	}

	if err := m.registry.PutAccess(ctx, accessToken, identity); err != nil {
		return nil, errors.Wrap(err, "Manager.IssuePair PutAccess")
	}
	if err := m.registry.PutRefresh(ctx, refreshToken, identity); err != nil {
		return nil, errors.Wrap(err, "Manager.IssuePair PutRefresh")
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// IssueAccess mints and stores a new access token for identity.
func (m *Manager) IssueAccess(ctx context.Context, identity sessions.Identity) (string, error) {
	accessToken, err := m.issuer.NewToken()
	if err != nil {
		return "", errors.Wrap(err, "Manager.IssueAccess")
	}
	if err := m.registry.PutAccess(ctx, accessToken, identity); err != nil {
		return "", errors.Wrap(err, "Manager.IssueAccess PutAccess")
	}
	return accessToken, nil
}

// AccessIdentity resolves an access token.
func (m *Manager) AccessIdentity(ctx context.Context, accessToken string) (sessions.Identity, bool, error) {
	identity, ok, err := m.registry.GetAccess(ctx, accessToken)
	if err != nil {
		return sessions.Identity{}, false, errors.Wrap(err, "Manager.AccessIdentity")
	}
	return identity, ok, nil
}

// RefreshIdentity resolves a refresh token.
func (m *Manager) RefreshIdentity(ctx context.Context, refreshToken string) (sessions.Identity, bool, error) {
	identity, ok, err := m.registry.GetRefresh(ctx, refreshToken)
	if err != nil {
		return sessions.Identity{}, false, errors.Wrap(err, "Manager.RefreshIdentity")
	}
	return identity, ok, nil
}

// RevokeAccess deletes an access token and reports whether it existed.
func (m *Manager) RevokeAccess(ctx context.Context, accessToken string) (bool, error) {
	removed, err := m.registry.DeleteAccess(ctx, accessToken)
	if err != nil {
		return false, errors.Wrap(err, "Manager.RevokeAccess")
	}
	return removed, nil
}
