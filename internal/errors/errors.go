// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Domain error taxonomy. Services return these (wrapped with context);
// the transport layer maps them to distinguishable responses so no
// failure surfaces as a silent no-op.
var (
	// ErrSourceUnavailable: the remote catalog fetch failed. Recoverable;
	// the caller may retry or degrade to cached-only data.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrDuplicateKey: a unique-constraint violation on insert. Benign
	// "already exists", not a fault.
	ErrDuplicateKey = errors.New("already exists")

	// ErrNotFound: lookup by email/id/connection failed.
	ErrNotFound = errors.New("not found")

	// ErrValidation: rejected before any storage call (self-connection,
	// empty required field).
	ErrValidation = errors.New("invalid input")
)

// SourceUnavailable wraps a remote catalog failure.
func SourceUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, op, err)
}

// NotFound builds a typed not-found error.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Validation builds a typed validation error.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// FromStorage converts gorm/infra errors into domain errors.
// Keeps repositories clean by centralizing the translation.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)

	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)

	default:
		return err
	}
}

// IsDuplicate reports whether err is a benign already-exists outcome.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// HTTPStatus maps a domain error to an HTTP status code for the transport
// layer.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
