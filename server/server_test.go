package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-token-server/auth"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/metrics"
	"github.com/jrsteele09/go-token-server/server"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/jrsteele09/go-token-server/users"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	WSResponse map[string]interface{} `json:"wsResponse"`
}

type testServer struct {
	handler  http.Handler
	registry *token.InMemoryRegistry
}

func setupTestServer(t *testing.T, options ...auth.AuthServiceOption) *testServer {
	t.Helper()

	registry := token.NewInMemoryRegistry()
	m := metrics.New(registry)
	credentials := users.NewStaticRepo([]users.User{
		{ID: "1", Username: "alice", Password: "secret", Role: "admin"},
	})
	options = append(options, auth.WithMetrics(m))
	authService, err := auth.NewAuthService(credentials, token.New(registry), options...)
	require.NoError(t, err)

	s, err := server.New(config.New(), authService, m)
	require.NoError(t, err)
	return &testServer{handler: s, registry: registry}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) post(t *testing.T, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := ts.do(t, http.MethodPost, path, string(raw))
	return rec, decodeEnvelope(t, rec)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, server.ResponseCode, env.Code)
	require.NotNil(t, env.WSResponse)
	return env
}

func loginBody(username, password string) map[string]any {
	return map[string]any{
		"baseInfo":  map[string]any{"client": "test"},
		"wsRequest": map[string]any{"username": username, "password": password},
	}
}

func logoutBody(username, accessToken string) map[string]any {
	return map[string]any{
		"wsRequest": map[string]any{"username": username, "authHeader": accessToken},
	}
}

func (ts *testServer) login(t *testing.T) (string, string) {
	t.Helper()
	rec, env := ts.post(t, server.RouteAuthLogin, loginBody("alice", "secret"))
	require.Equal(t, http.StatusOK, rec.Code)
	return env.WSResponse["accesstoken"].(string), env.WSResponse["refreshtoken"].(string)
}

func TestLoginEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("success", func(t *testing.T) {
		rec, env := ts.post(t, server.RouteAuthLogin, loginBody("alice", "secret"))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, auth.MsgLoginSuccessful, env.Message)
		require.Equal(t, "admin", env.WSResponse["role"])
		require.Len(t, env.WSResponse["accesstoken"], 64)
		require.Len(t, env.WSResponse["refreshtoken"], 64)
	})

	cases := []struct {
		name    string
		body    any
		message string
	}{
		{"wrong password", loginBody("alice", "wrong"), auth.MsgInvalidCredentials},
		{"unknown user", loginBody("bob", "secret"), auth.MsgInvalidCredentials},
		{"missing password", loginBody("alice", ""), auth.MsgMissingCredentials},
		{"missing wsRequest", map[string]any{"baseInfo": map[string]any{}}, auth.MsgMissingCredentials},
		{"null body", nil, auth.MsgMissingCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := ts.post(t, server.RouteAuthLogin, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tc.message, env.Message)
			require.Empty(t, env.WSResponse)
		})
	}
}

func TestMalformedRequests(t *testing.T) {
	ts := setupTestServer(t)

	common := []string{
		"",
		"{not json",
		"[1, 2",
		`{"refreshToken": "a"} {"refreshToken": "b"}`,
	}
	cases := map[string][]string{
		server.RouteAuthLogin: append(common,
			`{"wsRequest": "alice"}`,
			`{"wsRequest": {"username": 1, "password": "secret"}}`,
		),
		server.RouteAuthLogout: append(common,
			`{"wsRequest": ["alice"]}`,
			`{"wsRequest": {"username": "alice", "authHeader": true}}`,
		),
		server.RouteAuthRefresh: append(common,
			`{"refreshToken": 42}`,
			`"just a string"`,
		),
	}

	for path, bodies := range cases {
		for _, body := range bodies {
			rec := ts.do(t, http.MethodPost, path, body)
			require.Equal(t, http.StatusBadRequest, rec.Code, "path %s body %q", path, body)
			env := decodeEnvelope(t, rec)
			require.Equal(t, auth.MsgInvalidRequestFormat, env.Message)
			require.Empty(t, env.WSResponse)
		}
	}
}

func TestBodyTooLarge(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "128")
	ts := setupTestServer(t)

	body := `{"refreshToken": "` + strings.Repeat("a", 512) + `"}`
	rec := ts.do(t, http.MethodPost, server.RouteAuthRefresh, body)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, auth.MsgInvalidRequestFormat, decodeEnvelope(t, rec).Message)
}

func TestLogoutEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	accessToken, _ := ts.login(t)

	rec, env := ts.post(t, server.RouteAuthLogout, logoutBody("alice", accessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, auth.MsgLogoutSuccessful, env.Message)
	require.Empty(t, env.WSResponse)

	rec, env = ts.post(t, server.RouteAuthLogout, logoutBody("alice", accessToken))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, auth.MsgInvalidAccessToken, env.Message)

	rec, env = ts.post(t, server.RouteAuthLogout, logoutBody("", accessToken))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, auth.MsgMissingLogoutFields, env.Message)
}

func TestLogoutEndpoint_OwnerCheck(t *testing.T) {
	ts := setupTestServer(t, auth.WithLogoutOwnerCheck(true))
	accessToken, _ := ts.login(t)

	rec, env := ts.post(t, server.RouteAuthLogout, logoutBody("mallory", accessToken))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, auth.MsgInvalidAccessToken, env.Message)

	rec, _ = ts.post(t, server.RouteAuthLogout, logoutBody("alice", accessToken))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	accessToken, refreshToken := ts.login(t)

	rec, env := ts.post(t, server.RouteAuthRefresh, map[string]any{"refreshToken": refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, auth.MsgRefreshSuccessful, env.Message)
	newAccessToken := env.WSResponse["accessToken"].(string)
	require.NotEqual(t, accessToken, newAccessToken)

	// both access tokens can be logged out independently
	rec, _ = ts.post(t, server.RouteAuthLogout, logoutBody("alice", accessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.post(t, server.RouteAuthLogout, logoutBody("alice", newAccessToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = ts.post(t, server.RouteAuthRefresh, map[string]any{"refreshToken": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, auth.MsgInvalidRefreshToken, env.Message)

	rec, env = ts.post(t, server.RouteAuthRefresh, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, auth.MsgMissingRefreshToken, env.Message)
}

func TestRouting(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("index", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
		require.Contains(t, rec.Body.String(), server.RouteAuthLogin)
	})

	notFound := []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, server.RouteAuthLogin},
		{http.MethodPost, "/"},
		{http.MethodPut, server.RouteAuthLogout},
		{http.MethodPost, server.RouteAuthLogin + "/"},
		{http.MethodPost, server.RouteAuthLogin + "?x=1"},
		{http.MethodPost, server.RouteAuthLogout + "?"},
		{http.MethodPost, server.RouteAuthRefresh + "?refreshToken=abc"},
		{http.MethodGet, "/?debug=1"},
	}
	for _, tc := range notFound {
		rec := ts.do(t, tc.method, tc.path, "")
		require.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		require.Equal(t, "Not Found", rec.Body.String())
	}

	t.Run("query string does not reach login", func(t *testing.T) {
		raw, err := json.Marshal(loginBody("alice", "secret"))
		require.NoError(t, err)
		rec := ts.do(t, http.MethodPost, server.RouteAuthLogin+"?x=1", string(raw))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Not Found", rec.Body.String())

		access, refresh, err := ts.registry.Len(context.Background())
		require.NoError(t, err)
		require.Zero(t, access)
		require.Zero(t, refresh)
	})

	t.Run("metrics", func(t *testing.T) {
		ts.login(t)
		rec := ts.do(t, http.MethodGet, server.RouteMetrics, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `tokensrv_auth_operations_total{operation="login",outcome="success"}`)
		require.Contains(t, rec.Body.String(), `tokensrv_registry_tokens{kind="access"}`)
	})
}

func TestCors(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("preflight", func(t *testing.T) {
		rec := ts.do(t, http.MethodOptions, server.RouteAuthLogin, "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Empty(t, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight on unknown path", func(t *testing.T) {
		rec := ts.do(t, http.MethodOptions, "/anything", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("headers on every response", func(t *testing.T) {
		for _, rec := range []*httptest.ResponseRecorder{
			ts.do(t, http.MethodGet, "/", ""),
			ts.do(t, http.MethodGet, "/missing", ""),
			ts.do(t, http.MethodPost, server.RouteAuthLogin, "{bad"),
		} {
			require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("configured origin", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
		rec := setupTestServer(t).do(t, http.MethodGet, "/", "")
		require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "6f1c2c8e-7d55-4a59-9a8c-2f1d2a0d4b11")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, "6f1c2c8e-7d55-4a59-9a8c-2f1d2a0d4b11", rec.Header().Get("X-Request-ID"))
}

func TestNewRequiresAuthService(t *testing.T) {
	_, err := server.New(config.New(), nil, nil)
	require.Error(t, err)
}

func TestWithoutMetrics(t *testing.T) {
	registry := token.NewInMemoryRegistry()
	authService, err := auth.NewAuthService(users.NewStaticRepo(nil), token.New(registry))
	require.NoError(t, err)
	s, err := server.New(config.New(), authService, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, server.RouteMetrics, bytes.NewReader(nil)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
