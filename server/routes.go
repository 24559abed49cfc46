package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex+"{$}", s.exactURL(s.IndexHandler()))

	s.RegisterRouteFunc("POST "+RouteAuthLogin, s.exactURL(s.LoginHandler()))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, s.exactURL(s.LogoutHandler()))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, s.exactURL(s.RefreshHandler()))

	if s.metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	}

	// Anything else, including a known path with the wrong method
	s.RegisterRouteFunc(RouteIndex, s.NotFoundHandler())
}

// exactURL answers 404 when the request carries a query string. Routes match
// on the whole request URL, so "/v1/api/auth/login?x=1" is not the login route.
func (s *Server) exactURL(next http.HandlerFunc) http.HandlerFunc {
	notFound := s.NotFoundHandler()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" || r.URL.ForceQuery {
			notFound(w, r)
			return
		}
		next(w, r)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not Found")
	}
}
