package client

import (
	"errors"

	clienterrors "github.com/vitaltrack/vitaltrack/client/internal/errors"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	// ErrTimeout matches any error from an attempt that outlived its timeout.
	ErrTimeout = clienterrors.ErrTimeout
	// ErrNetwork matches a network failure that exhausted the retry budget.
	ErrNetwork = clienterrors.ErrNetwork
	// ErrUnauthorized matches an HTTP 401.
	ErrUnauthorized = clienterrors.ErrUnauthorized
	// ErrNotFound matches an HTTP 404.
	ErrNotFound = clienterrors.ErrNotFound
)

type (
	TimeoutError = clienterrors.TimeoutError
	NetworkError = clienterrors.NetworkError
	HTTPError    = clienterrors.HTTPError
)

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsNetwork reports whether err is an exhausted network failure.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return clienterrors.StatusCode(err) }
