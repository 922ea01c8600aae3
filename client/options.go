package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
//
// Options are applied before any transport wrapper is installed, so their
// order does not matter. Options must be deterministic and side-effect free.
type Option func(*Client) error

// SleepFunc waits for d or until ctx ends, returning ctx.Err() in the latter
// case. The retry loop uses it for backoff and wake-up waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// WithTimeout sets the default per-attempt timeout. RequestOptions.Timeout
// overrides it for a single call. The value must be greater than zero.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithMaxRetries sets how many times a network failure is retried after the
// first attempt. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("max retries must be >= 0")
		}
		c.maxRetries = n
		return nil
	}
}

// WithRetryDelay sets the base of the exponential backoff: the wait after
// failed attempt n is d * 2^(n-1).
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("retry delay must be > 0")
		}
		c.retryDelay = d
		return nil
	}
}

// WithWakeUpDelay sets how long to wait after a first-attempt 503 before
// retrying.
func WithWakeUpDelay(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("wake-up delay must be >= 0")
		}
		c.wakeUpDelay = d
		return nil
	}
}

// WithHealthPath sets the liveness path WakeUpServer calls.
func WithHealthPath(p string) Option {
	return func(c *Client) error {
		if p == "" {
			return fmt.Errorf("health path cannot be empty")
		}
		c.healthPath = p
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. The client is copied,
// so wrapping its transport does not affect the caller's instance.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithTokenStore sets where the bearer token is read from and written to.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) error {
		if ts == nil {
			return fmt.Errorf("token store cannot be nil")
		}
		c.tokens = ts
		return nil
	}
}

// WithLogger sets the logger used for retry, wake-up and connection events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithSleep replaces the wait function used between attempts.
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) error {
		if fn == nil {
			return fmt.Errorf("sleep func cannot be nil")
		}
		c.sleep = fn
		return nil
	}
}

// WithDebugLogging installs a transport that logs each request/response
// when enabled is true. The debug transport sits beneath the bearer-token
// wrapper regardless of option order.
//
// Do not enable this option in production environments as it increases
// verbosity and may include headers and bodies in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = c.debug || enabled
		return nil
	}
}
