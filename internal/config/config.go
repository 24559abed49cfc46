package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	TokenConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetUsersFile() string
}

type CorsConfig interface {
	GetAllowedOrigin() string
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SecurityConfig interface {
	GetMaxBodyBytes() int64
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
	GetLogoutVerifyOwner() bool
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Tokens
}

func New() Config {
	return mainConfig{}
}
