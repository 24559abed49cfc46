package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/go-token-server/auth"
	apperrors "github.com/jrsteele09/go-token-server/internal/errors"
)

// loginRequest is the login body: {"baseInfo": ..., "wsRequest": {"username", "password"}}.
// baseInfo is accepted and ignored.
type loginRequest struct {
	BaseInfo  json.RawMessage `json:"baseInfo"`
	WSRequest *struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"wsRequest"`
}

func (r loginRequest) parameters() auth.LoginParameters {
	if r.WSRequest == nil {
		return auth.LoginParameters{}
	}
	return auth.LoginParameters{Username: r.WSRequest.Username, Password: r.WSRequest.Password}
}

// logoutRequest carries the access token in wsRequest.authHeader.
type logoutRequest struct {
	BaseInfo  json.RawMessage `json:"baseInfo"`
	WSRequest *struct {
		Username   string `json:"username"`
		AuthHeader string `json:"authHeader"`
	} `json:"wsRequest"`
}

func (r logoutRequest) parameters() auth.LogoutParameters {
	if r.WSRequest == nil {
		return auth.LogoutParameters{}
	}
	return auth.LogoutParameters{Username: r.WSRequest.Username, AccessToken: r.WSRequest.AuthHeader}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r refreshRequest) parameters() auth.RefreshParameters {
	return auth.RefreshParameters{RefreshToken: r.RefreshToken}
}

// decodeRequest reads the whole body, bounded by maxBytes, into dst. Any failure to
// produce exactly one JSON value of the right shape is a malformed request.
func decodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return auth.ErrMalformedRequest
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.KindMalformedRequest, auth.MsgInvalidRequestFormat, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperrors.Wrap(apperrors.KindMalformedRequest, auth.MsgInvalidRequestFormat, err)
	}
	return nil
}
