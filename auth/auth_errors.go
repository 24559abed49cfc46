package auth

import apperrors "github.com/jrsteele09/go-token-server/internal/errors"

// Caller facing messages. They are part of the wire contract.
const (
	MsgMissingCredentials   = "Missing username or password"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgMissingLogoutFields  = "Missing username or authHeader"
	MsgInvalidAccessToken   = "Invalid or expired token"
	MsgMissingRefreshToken  = "Missing refresh token"
	MsgInvalidRefreshToken  = "Invalid or expired refresh token"
	MsgInvalidRequestFormat = "Invalid request format"
	MsgInternal             = "Internal server error"

	MsgLoginSuccessful   = "Login successful"
	MsgLogoutSuccessful  = "Logout successful"
	MsgRefreshSuccessful = "Token refreshed successfully"
)

var (
	ErrMissingCredentials  = apperrors.New(apperrors.KindInvalidInput, MsgMissingCredentials)
	ErrInvalidCredentials  = apperrors.New(apperrors.KindInvalidCredentials, MsgInvalidCredentials)
	ErrMissingLogoutFields = apperrors.New(apperrors.KindInvalidInput, MsgMissingLogoutFields)
	ErrInvalidAccessToken  = apperrors.New(apperrors.KindInvalidToken, MsgInvalidAccessToken)
	ErrMissingRefreshToken = apperrors.New(apperrors.KindInvalidInput, MsgMissingRefreshToken)
	ErrInvalidRefreshToken = apperrors.New(apperrors.KindInvalidToken, MsgInvalidRefreshToken)
	ErrMalformedRequest    = apperrors.New(apperrors.KindMalformedRequest, MsgInvalidRequestFormat)
)
