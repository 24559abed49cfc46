package token_test

import (
	"testing"

	"github.com/jrsteele09/go-token-server/token"
	"github.com/jrsteele09/go-token-server/token/registrytest"
)

func TestInMemoryRegistry(t *testing.T) {
	registrytest.Run(t, func(t *testing.T) token.Registry {
		return token.NewInMemoryRegistry()
	})
}
