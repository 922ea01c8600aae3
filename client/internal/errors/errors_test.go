package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

type timeoutNetErr struct{}

func (timeoutNetErr) Error() string   { return "i/o timeout" }
func (timeoutNetErr) Timeout() bool   { return true }
func (timeoutNetErr) Temporary() bool { return true }

var _ net.Error = timeoutNetErr{}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		code, attempt int
		want          ErrorCategory
	}{
		{503, 1, ColdStart},
		{503, 2, HTTP},
		{500, 1, HTTP},
		{401, 1, HTTP},
		{404, 3, HTTP},
	}
	for _, c := range cases {
		if got := ClassifyStatus(c.code, c.attempt); got != c.want {
			t.Fatalf("ClassifyStatus(%d, %d) = %s, want %s", c.code, c.attempt, got, c.want)
		}
	}
}

func TestClassifyTransportError(t *testing.T) {
	t.Parallel()
	refused := &url.Error{Op: "Get", URL: "http://x", Err: stderrors.New("connection refused")}
	cases := []struct {
		name           string
		err            error
		callerDone     bool
		attemptExpired bool
		want           ErrorCategory
	}{
		{"refused", refused, false, false, Network},
		{"caller canceled", context.Canceled, true, false, Canceled},
		{"caller wins over expiry", context.DeadlineExceeded, true, true, Canceled},
		{"attempt expired hides refused", refused, false, true, Timeout},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), false, false, Timeout},
		{"net timeout", &url.Error{Op: "Get", URL: "http://x", Err: timeoutNetErr{}}, false, false, Timeout},
	}
	for _, c := range cases {
		if got := ClassifyTransportError(c.err, c.callerDone, c.attemptExpired); got != c.want {
			t.Fatalf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()
	for _, c := range []ErrorCategory{ColdStart, HTTP, Canceled} {
		if c.Retryable() {
			t.Fatalf("%s must not be retryable", c)
		}
	}
	for _, c := range []ErrorCategory{Network, Timeout} {
		if !c.Retryable() {
			t.Fatalf("%s must be retryable", c)
		}
	}
}

func TestHTTPError_Sentinels(t *testing.T) {
	t.Parallel()
	unauth := NewHTTPError("GET", "/users/me", 401, "401 Unauthorized", nil)
	if !stderrors.Is(unauth, ErrUnauthorized) || stderrors.Is(unauth, ErrNotFound) {
		t.Fatalf("401 sentinel mapping wrong: %v", unauth)
	}
	missing := NewHTTPError("GET", "/medications/9", 404, "", nil)
	if !stderrors.Is(missing, ErrNotFound) {
		t.Fatalf("404 should match ErrNotFound")
	}
	if missing.StatusText != "Not Found" {
		t.Fatalf("fallback status text: %q", missing.StatusText)
	}
	if StatusCode(fmt.Errorf("wrapped: %w", missing)) != 404 {
		t.Fatal("StatusCode should unwrap")
	}
	if StatusCode(stderrors.New("plain")) != 0 {
		t.Fatal("StatusCode of plain error should be 0")
	}
}

func TestTypedErrors_Is(t *testing.T) {
	t.Parallel()
	te := &TimeoutError{Method: "GET", Path: "/ping", Err: context.DeadlineExceeded}
	if !stderrors.Is(te, ErrTimeout) || stderrors.Is(te, ErrNetwork) {
		t.Fatal("timeout must be distinct from network")
	}
	ne := &NetworkError{Method: "POST", Path: "/auth/login", Attempts: 4, Err: stderrors.New("refused")}
	if !stderrors.Is(ne, ErrNetwork) || stderrors.Is(ne, ErrTimeout) {
		t.Fatal("network must be distinct from timeout")
	}
}

func TestStatusText(t *testing.T) {
	t.Parallel()
	if got := StatusText(418, "418 I'm a teapot"); got != "I'm a teapot" {
		t.Fatalf("got %q", got)
	}
	if got := StatusText(503, ""); got != "Service Unavailable" {
		t.Fatalf("got %q", got)
	}
	if got := StatusText(503, "Warming Up"); got != "Warming Up" {
		t.Fatalf("got %q", got)
	}
	if got := StatusText(404, "404"); got != "Not Found" {
		t.Fatalf("got %q", got)
	}
}
