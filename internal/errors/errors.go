package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The wire format only ever carries a message, but
// handlers map the kind onto an HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindInvalidCredentials
	KindInvalidToken
	KindMalformedRequest
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidToken:
		return "invalid_token"
	case KindMalformedRequest:
		return "malformed_request"
	default:
		return "internal"
	}
}

// IsClient reports whether the kind is caused by the caller rather than the server.
func (k Kind) IsClient() bool {
	return k != KindInternal
}

// Error carries a Kind, the message returned to the caller and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller facing message of the first *Error in err's chain.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// ErrInvalidConfig is returned when configuration values cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
