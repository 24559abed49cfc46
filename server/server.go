package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-token-server/auth"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
	config  config.Config
	auth    *auth.AuthService
	metrics *metrics.Metrics
}

// New builds the HTTP front end for the auth service. m may be nil, in which case
// the metrics route is not registered.
func New(config config.Config, authService *auth.AuthService, m *metrics.Metrics) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}

	s := &Server{
		env:     config.GetEnv(),
		mux:     http.NewServeMux(),
		config:  config,
		auth:    authService,
		metrics: m,
	}

	s.initRoutes()
	s.logRoutes()

	// Applied to every request, including unmatched routes and pre-flights
	s.handler = ChainMiddleware(s.mux.ServeHTTP,
		s.RequestLoggingMiddleware,
		s.RecoverMiddleware,
		s.CorsMiddleware,
	)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("*", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colouredMethod(method), path)
}
