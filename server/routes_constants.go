package server

// Route path constants
const (
	RouteIndex       = "/"
	RouteAuthLogin   = "/v1/api/auth/login"
	RouteAuthLogout  = "/v1/api/auth/logout"
	RouteAuthRefresh = "/v1/api/auth/refresh-token"
	RouteMetrics     = "/metrics"
)
