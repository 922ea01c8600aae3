package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ClassifyStatus maps a non-2xx status code to a category. Only the first
// attempt of a request may be treated as a cold start.
func ClassifyStatus(statusCode, attempt int) ErrorCategory {
	if statusCode == http.StatusServiceUnavailable && attempt == 1 {
		return ColdStart
	}
	return HTTP
}

// ClassifyTransportError maps an error from http.Client.Do to a category.
//
// callerDone is true when the caller's context has ended; attemptExpired is
// true when the per-attempt deadline fired. An expired attempt is always a
// timeout, whatever the underlying cause looks like.
func ClassifyTransportError(err error, callerDone, attemptExpired bool) ErrorCategory {
	switch {
	case callerDone:
		return Canceled
	case attemptExpired:
		return Timeout
	case stderrors.Is(err, context.DeadlineExceeded):
		return Timeout
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	return Network
}

// StatusText returns the reason phrase of resp.Status ("404 Not Found" ->
// "Not Found"), falling back to the canonical text for the code. A status
// that is already a bare phrase is returned unchanged.
func StatusText(statusCode int, status string) string {
	code := strconv.Itoa(statusCode)
	if text, ok := strings.CutPrefix(status, code+" "); ok && text != "" {
		return text
	}
	if status != "" && !strings.HasPrefix(status, code) {
		return status
	}
	return http.StatusText(statusCode)
}

// NewHTTPError creates an HTTPError for a response that is being surfaced.
func NewHTTPError(method, path string, statusCode int, status string, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		StatusText: StatusText(statusCode, status),
		Body:       body,
	}
}
