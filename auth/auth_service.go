package auth

import (
	"context"

	"github.com/jrsteele09/go-token-server/metrics"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/jrsteele09/go-token-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	OperationLogin   = "login"
	OperationLogout  = "logout"
	OperationRefresh = "refresh"
)

// LoginResult is returned on a successful login. The token strings are only ever
// handed out here.
type LoginResult struct {
	Role         string
	AccessToken  string
	RefreshToken string
}

// RefreshResult carries the newly minted access token.
type RefreshResult struct {
	AccessToken string
}

// AuthService implements login, logout and refresh. Each call is a standalone
// transaction against the token registry; no other state is kept between requests.
type AuthService struct {
	credentials       users.CredentialStore
	tokens            *token.Manager
	metrics           *metrics.Metrics
	verifyLogoutOwner bool
}

// AuthServiceOption defines a function type to modify the AuthService instance.
type AuthServiceOption func(*AuthService)

// WithLogoutOwnerCheck makes Logout require that the token was issued to the
// supplied username. Disabled by default: logout revokes by token value alone.
func WithLogoutOwnerCheck(enabled bool) AuthServiceOption {
	return func(as *AuthService) {
		as.verifyLogoutOwner = enabled
	}
}

// WithMetrics records every operation outcome.
func WithMetrics(m *metrics.Metrics) AuthServiceOption {
	return func(as *AuthService) {
		as.metrics = m
	}
}

// NewAuthService wires the credential store and token manager together.
func NewAuthService(credentials users.CredentialStore, tokens *token.Manager, options ...AuthServiceOption) (*AuthService, error) {
	if credentials == nil {
		return nil, errors.New("[NewAuthService] credential store is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAuthService] token manager is required")
	}

	as := &AuthService{
		credentials: credentials,
		tokens:      tokens,
	}

	for _, opt := range options {
		opt(as)
	}

	return as, nil
}

// Login checks the credentials and issues an access and refresh token pair.
// Unknown users and wrong passwords produce the same error.
func (as *AuthService) Login(ctx context.Context, params LoginParameters) (result *LoginResult, err error) {
	defer func() { as.metrics.Observe(OperationLogin, err) }()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	identity, ok := as.credentials.FindUser(params.Username, params.Password)
	if !ok {
		log.Ctx(ctx).Debug().Str("username", params.Username).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	pair, err := as.tokens.IssuePair(ctx, identity)
	if err != nil {
		return nil, internalError(errors.Wrap(err, "[Login] IssuePair"))
	}

	log.Ctx(ctx).Debug().Str("username", identity.Username).Str("user_id", identity.UserID).Msg("Login succeeded")
	return &LoginResult{
		Role:         identity.Role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout revokes an access token. Refresh tokens and other access tokens for the
// same identity stay valid.
func (as *AuthService) Logout(ctx context.Context, params LogoutParameters) (err error) {
	defer func() { as.metrics.Observe(OperationLogout, err) }()

	if err := params.Validate(); err != nil {
		return err
	}

	if as.verifyLogoutOwner {
		identity, ok, err := as.tokens.AccessIdentity(ctx, params.AccessToken)
		if err != nil {
			return internalError(errors.Wrap(err, "[Logout] AccessIdentity"))
		}
		if !ok || identity.Username != params.Username {
			return ErrInvalidAccessToken
		}
	}

	removed, err := as.tokens.RevokeAccess(ctx, params.AccessToken)
	if err != nil {
		return internalError(errors.Wrap(err, "[Logout] RevokeAccess"))
	}
	if !removed {
		return ErrInvalidAccessToken
	}

	log.Ctx(ctx).Debug().Str("username", params.Username).Msg("Logout succeeded")
	return nil
}

// Refresh mints a new access token bound to the refresh token's identity. The
// refresh token is not rotated and earlier access tokens are not revoked.
func (as *AuthService) Refresh(ctx context.Context, params RefreshParameters) (result *RefreshResult, err error) {
	defer func() { as.metrics.Observe(OperationRefresh, err) }()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	identity, ok, err := as.tokens.RefreshIdentity(ctx, params.RefreshToken)
	if err != nil {
		return nil, internalError(errors.Wrap(err, "[Refresh] RefreshIdentity"))
	}
	if !ok {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := as.tokens.IssueAccess(ctx, identity)
	if err != nil {
		return nil, internalError(errors.Wrap(err, "[Refresh] IssueAccess"))
	}

	log.Ctx(ctx).Debug().Str("username", identity.Username).Msg("Access token refreshed")
	return &RefreshResult{AccessToken: accessToken}, nil
}
