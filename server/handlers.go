package server

import (
	"net/http"

	"github.com/jrsteele09/go-token-server/auth"
)

const indexMessage = "Token server is running. Use POST " + RouteAuthLogin + " to test"

// IndexHandler answers the root path with a plain informational string.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, indexMessage)
	}
}

// LoginHandler exchanges a username and password for an access and refresh token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeRequest(w, r, s.config.GetMaxBodyBytes(), &req); err != nil {
			writeError(w, r, err)
			return
		}

		result, err := s.auth.Login(r.Context(), req.parameters())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeEnvelope(w, http.StatusOK, auth.MsgLoginSuccessful, loginResponse{
			Role:         result.Role,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		})
	}
}

// LogoutHandler revokes the access token passed as wsRequest.authHeader.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logoutRequest
		if err := decodeRequest(w, r, s.config.GetMaxBodyBytes(), &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := s.auth.Logout(r.Context(), req.parameters()); err != nil {
			writeError(w, r, err)
			return
		}

		writeEnvelope(w, http.StatusOK, auth.MsgLogoutSuccessful, nil)
	}
}

// RefreshHandler mints a new access token from a refresh token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeRequest(w, r, s.config.GetMaxBodyBytes(), &req); err != nil {
			writeError(w, r, err)
			return
		}

		result, err := s.auth.Refresh(r.Context(), req.parameters())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeEnvelope(w, http.StatusOK, auth.MsgRefreshSuccessful, refreshResponse{AccessToken: result.AccessToken})
	}
}
