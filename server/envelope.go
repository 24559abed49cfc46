package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-token-server/auth"
	apperrors "github.com/jrsteele09/go-token-server/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"

	// ResponseCode is carried by every envelope regardless of outcome.
	ResponseCode = 1073741824
)

// Envelope is the uniform response body. WSResponse is an empty object on failure.
type Envelope struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	WSResponse any    `json:"wsResponse"`
}

type emptyPayload struct{}

type loginResponse struct {
	Role         string `json:"role"`
	AccessToken  string `json:"accesstoken"`
	RefreshToken string `json:"refreshtoken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func writeEnvelope(w http.ResponseWriter, status int, message string, payload any) {
	if payload == nil {
		payload = emptyPayload{}
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Code:       ResponseCode,
		Message:    message,
		WSResponse: payload,
	})
}

// writeError maps err onto a status and writes the failure envelope. Internal
// failures are logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	writeEnvelope(w, status, apperrors.MessageOf(err, auth.MsgInternal), nil)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if apperrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if apperrors.KindOf(err).IsClient() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
