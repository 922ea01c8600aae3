package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	clienterrors "github.com/vitaltrack/vitaltrack/client/internal/errors"
)

// RequestIDHeader carries one ID per logical request; every retry of that
// request reuses it.
const RequestIDHeader = "X-Request-ID"

// RequestOptions describes one logical call.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Header values are added to the request; keys are case-insensitive.
	Header http.Header
	// Body is replayed unchanged on every attempt.
	Body []byte
	// Timeout bounds each attempt. Zero means the client default.
	Timeout time.Duration
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v. An empty body leaves v untouched.
func (r *Response) JSON(v any) error {
	if v == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Request performs one logical call against path (relative to the base URL).
//
//   - A 2xx response is returned and marks the client connected.
//   - A 503 on the first attempt waits WakeUpDelay and retries once; this
//     does not use up the network retry budget.
//   - Network failures and attempts that outlive their timeout are retried
//     MaxRetries times, waiting RetryDelay*2^(n-1) after failed attempt n.
//     Exhausting the budget marks the client disconnected and returns a
//     *TimeoutError if the last attempt timed out, else a *NetworkError.
//   - Any other non-2xx response returns a *HTTPError at once.
//   - If ctx ends, its error is returned and the connection flag is left alone.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	reqID := uuid.NewString()
	logger := c.log.With().Str("method", method).Str("path", path).Str("request_id", reqID).Logger()

	start := time.Now()
	resp, outcome, err := c.retryLoop(ctx, method, path, reqID, timeout, opts, &logger)
	requestsTotal.WithLabelValues(method, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return resp, err
}

func (c *Client) retryLoop(ctx context.Context, method, path, reqID string, timeout time.Duration, opts RequestOptions, logger *zerolog.Logger) (*Response, string, error) {
	bo := c.newBackOff()
	retries := 0

	for attempt := 1; ; attempt++ {
		resp, expired, err := c.attempt(ctx, method, path, reqID, timeout, opts)
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				c.conn.set(true)
				return resp, outcomeSuccess, nil
			}
			if clienterrors.ClassifyStatus(resp.StatusCode, attempt) == clienterrors.ColdStart {
				retriesTotal.WithLabelValues("cold_start").Inc()
				logger.Info().Dur("delay", c.wakeUpDelay).Msg("backend is starting up, waiting before retry")
				if err := c.sleep(ctx, c.wakeUpDelay); err != nil {
					return nil, outcomeCanceled, fmt.Errorf("%s %s: %w", method, path, err)
				}
				continue
			}
			return nil, outcomeHTTP, clienterrors.NewHTTPError(method, path, resp.StatusCode, resp.StatusText, resp.Body)
		}

		category := clienterrors.ClassifyTransportError(err, ctx.Err() != nil, expired)
		if category == clienterrors.Canceled {
			return nil, outcomeCanceled, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}

		if retries >= c.maxRetries {
			c.conn.set(false)
			logger.Warn().Err(err).Str("category", category.String()).Int("attempts", attempt).Msg("retries exhausted")
			if category == clienterrors.Timeout {
				return nil, outcomeTimeout, &clienterrors.TimeoutError{Method: method, Path: path, Timeout: timeout, Attempts: attempt, Err: err}
			}
			return nil, outcomeNetwork, &clienterrors.NetworkError{Method: method, Path: path, Attempts: attempt, Err: err}
		}
		retries++
		delay := bo.NextBackOff()
		reason := "network"
		if category == clienterrors.Timeout {
			reason = "timeout"
		}
		retriesTotal.WithLabelValues(reason).Inc()
		logger.Warn().Err(err).Str("category", category.String()).Int("attempt", attempt).Dur("delay", delay).Msg("request failed, retrying")
		if err := c.sleep(ctx, delay); err != nil {
			return nil, outcomeCanceled, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
}

// attempt sends a single HTTP request and reads the whole body. expired is
// true when the per-attempt deadline fired.
func (c *Client) attempt(ctx context.Context, method, path, reqID string, timeout time.Duration, opts RequestOptions) (resp *Response, expired bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		expired = errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	}()

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, c.url(path), body)
	if err != nil {
		return nil, false, err
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, reqID)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, false, err
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		StatusText: clienterrors.StatusText(httpResp.StatusCode, httpResp.Status),
		Header:     httpResp.Header,
		Body:       data,
	}, false, nil
}

// newBackOff returns a deterministic doubling schedule starting at
// retryDelay. Randomisation is off so the delays are exactly
// retryDelay*2^(n-1).
func (c *Client) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Duration(math.MaxInt64)
	exp.MaxElapsedTime = 0
	exp.Reset()
	return exp
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// --------------------------------------------------------------------
// JSON verbs
// --------------------------------------------------------------------

// Get fetches path and decodes the JSON response into out (which may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Delete removes path and decodes any response body into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	opts := RequestOptions{Method: method}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		opts.Body = b
	}
	resp, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if err := resp.JSON(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
