package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels the HTTP layer maps to status codes. Wrap them with %w.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("too many requests")

	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrInterestClosed matches ErrInvalidInput.
var ErrInterestClosed = fmt.Errorf("%w: league no longer accepts interest", ErrInvalidInput)
