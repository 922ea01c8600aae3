package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitaltrack/vitaltrack/client/tokenstore"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the VitalTrack API. It retries network failures with
// exponential backoff, waits out a cold-starting backend once, and keeps a
// connected/disconnected flag that observers can subscribe to.
//
// A Client is safe for concurrent use; requests never wait on each other.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     zerolog.Logger
	sleep   SleepFunc
	debug   bool

	maxRetries  int
	retryDelay  time.Duration
	timeout     time.Duration
	wakeUpDelay time.Duration
	healthPath  string

	conn *connState

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL (e.g. "https://api.example.com/api")
// with the documented defaults. Additional options can be provided via
// functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid baseURL %q", baseURL)
	}

	def := DefaultConfig()
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{},
		log:         log.Logger,
		sleep:       sleepContext,
		maxRetries:  def.MaxRetries,
		retryDelay:  def.RetryDelay,
		timeout:     def.Timeout,
		wakeUpDelay: def.WakeUpDelay,
		healthPath:  def.HealthPath,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.tokens == nil {
		c.tokens = tokenstore.NewStatic("")
	}
	c.log = c.log.With().Str("component", "vitaltrack-client").Logger()

	if c.debug {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: base, log: c.log}
	}
	// Wrap HTTP transport to automatically add Authorization header
	c.wrapTransportWithToken()

	// Optimistic until the first request says otherwise.
	c.conn = newConnState(true, c.baseURL, &c.log)
	return c, nil
}

// NewFromConfig constructs a Client from a Config (see LoadConfig). Options
// are applied after the config values, so they win.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{
		WithMaxRetries(cfg.MaxRetries),
		WithRetryDelay(cfg.RetryDelay),
		WithTimeout(cfg.Timeout),
		WithWakeUpDelay(cfg.WakeUpDelay),
		WithDebugLogging(bool(cfg.Debug)),
	}
	if cfg.HealthPath != "" {
		base = append(base, WithHealthPath(cfg.HealthPath))
	}
	return New(cfg.APIURL, append(base, opts...)...)
}

// BaseURL returns the address requests are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Connection state
// --------------------------------------------------------------------

// Connected reports whether the most recent request outcome reached the
// backend. A fresh client starts out connected.
func (c *Client) Connected() bool { return c.conn.get() }

// OnConnectionChange registers fn to be called with the new state each time
// the connection flag flips. Observers run synchronously, in registration
// order, on the goroutine whose request caused the flip; they must return
// quickly and must not issue requests through this client. The returned
// function unregisters fn.
func (c *Client) OnConnectionChange(fn func(connected bool)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return c.conn.subscribe(fn)
}

// --------------------------------------------------------------------
// Wake-up
// --------------------------------------------------------------------

// WakeResult is the outcome of WakeUpServer.
type WakeResult struct {
	// OK is true when the liveness call returned 2xx.
	OK bool
	// Connected is the connection state after the call.
	Connected bool
	Elapsed   time.Duration
	// Err is the failure that was logged instead of returned.
	Err error
}

// WakeUpServer calls the liveness endpoint through the normal retry path so
// a sleeping backend gets its cold start over with before real work. It
// never fails: problems are logged and reported in the result, and the
// connection flag reflects the outcome.
func (c *Client) WakeUpServer(ctx context.Context) WakeResult {
	start := time.Now()
	_, err := c.Request(ctx, c.healthPath, RequestOptions{Method: http.MethodGet})
	res := WakeResult{
		OK:        err == nil,
		Connected: c.Connected(),
		Elapsed:   time.Since(start),
		Err:       err,
	}
	if err != nil {
		c.log.Error().Err(err).Dur("elapsed", res.Elapsed).Bool("connected", res.Connected).Msg("server wake-up failed")
	} else {
		c.log.Info().Dur("elapsed", res.Elapsed).Msg("server is awake")
	}
	return res
}

// Health fetches the liveness payload.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	if err := c.Get(ctx, c.healthPath, &hs); err != nil {
		return nil, err
	}
	return &hs, nil
}
