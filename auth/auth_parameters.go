package auth

import apperrors "github.com/jrsteele09/go-token-server/internal/errors"

// LoginParameters are the inputs to Login.
type LoginParameters struct {
	Username string
	Password string
}

// Validate rejects missing or empty fields.
func (p LoginParameters) Validate() error {
	if p.Username == "" || p.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// LogoutParameters are the inputs to Logout. AccessToken is the bearer token the
// caller wants revoked.
type LogoutParameters struct {
	Username    string
	AccessToken string
}

func (p LogoutParameters) Validate() error {
	if p.Username == "" || p.AccessToken == "" {
		return ErrMissingLogoutFields
	}
	return nil
}

// RefreshParameters are the inputs to Refresh.
type RefreshParameters struct {
	RefreshToken string
}

func (p RefreshParameters) Validate() error {
	if p.RefreshToken == "" {
		return ErrMissingRefreshToken
	}
	return nil
}

// internalError hides infrastructure failures behind a generic message.
func internalError(err error) error {
	return apperrors.Wrap(apperrors.KindInternal, MsgInternal, err)
}
