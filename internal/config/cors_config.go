package config

type Cors struct{}

var _ CorsConfig = Cors{}

func (Cors) GetAllowedOrigin() string {
	return GetEnv("CORS_ALLOWED_ORIGIN", "*")
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type"
}
