package token

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

// MinTokenBytes is the smallest random payload an issued token may carry (256 bits).
const MinTokenBytes = 32

// Issuer produces opaque bearer token strings.
type Issuer interface {
	NewToken() (string, error)
}

var _ Issuer = RandomIssuer{}

// RandomIssuer hex encodes bytes read from crypto/rand. Tokens carry no counter,
// timestamp or other derivable state.
type RandomIssuer struct {
	size int
}

// NewRandomIssuer returns an issuer producing size random bytes per token. Sizes
// below MinTokenBytes are raised to it.
func NewRandomIssuer(size int) RandomIssuer {
	if size < MinTokenBytes {
		size = MinTokenBytes
	}
	return RandomIssuer{size: size}
}

func (i RandomIssuer) NewToken() (string, error) {
	size := i.size
	if size < MinTokenBytes {
		size = MinTokenBytes
	}
	tokenBytes := make([]byte, size)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "RandomIssuer.NewToken rand.Read")
	}
	return hex.EncodeToString(tokenBytes), nil
}
