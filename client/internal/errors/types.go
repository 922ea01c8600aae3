// Package errors provides error classification for the client SDK.
// The retry loop decides what to do with a failed attempt based on the
// category returned here.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCategory determines how the retry loop treats a failed attempt.
type ErrorCategory int

const (
	// Network errors (DNS, refused, reset) are retried with exponential backoff.
	Network ErrorCategory = iota

	// Timeout errors share the Network retry budget but are reported
	// distinctly once it runs out.
	Timeout

	// ColdStart is a 503 on the first attempt: wait once, then retry.
	ColdStart

	// HTTP covers every other non-2xx response. Never retried.
	HTTP

	// Canceled means the caller's own context ended the request.
	Canceled
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Network:
		return "Network"
	case Timeout:
		return "Timeout"
	case ColdStart:
		return "ColdStart"
	case HTTP:
		return "HTTP"
	case Canceled:
		return "Canceled"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Retryable reports whether the backoff budget applies to this category.
func (c ErrorCategory) Retryable() bool { return c == Network || c == Timeout }

var (
	ErrTimeout      = stderrors.New("request timeout")
	ErrNetwork      = stderrors.New("network error")
	ErrUnauthorized = stderrors.New("unauthorized")
	ErrNotFound     = stderrors.New("resource not found")
)

// TimeoutError is returned when the retry budget runs out and the last
// attempt outlived its timeout.
type TimeoutError struct {
	Method   string
	Path     string
	Timeout  time.Duration
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: request timeout after %s (%d attempts)", e.Method, e.Path, e.Timeout, e.Attempts)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTimeout) match.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NetworkError is returned once the network retry budget is exhausted.
type NetworkError struct {
	Method   string
	Path     string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error after %d attempts: %v", e.Method, e.Path, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPError carries a non-2xx response that was not absorbed by the client.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	StatusText string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.StatusCode, e.StatusText)
}

// Is maps 401 and 404 onto the shared sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
