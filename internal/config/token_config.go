package config

import (
	"strings"

	"github.com/jrsteele09/go-token-server/internal/errors"
	"github.com/jrsteele09/go-token-server/token"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	MinTokenBytes = token.MinTokenBytes
)

type TokenConfig interface {
	GetTokenBytes() int
	GetTokenBackend() (string, error)
	GetRedisAddr() string
	GetRedisKeyPrefix() string
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetTokenBytes() int {
	n := GetEnvInt("TOKEN_BYTES", MinTokenBytes)
	if n < MinTokenBytes {
		return MinTokenBytes
	}
	return n
}

func (Tokens) GetTokenBackend() (string, error) {
	backend := strings.ToLower(GetEnv("TOKEN_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendRedis:
		return backend, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidConfig, "unknown TOKEN_BACKEND %q", backend)
}

func (Tokens) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Tokens) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "tokensrv")
}
