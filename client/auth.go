package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

// wrapTransportWithToken wraps the HTTP client's transport so every request
// carries the stored bearer token, when there is one.
func (c *Client) wrapTransportWithToken() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{
		base:   baseTransport,
		tokens: c.tokens,
		log:    c.log,
	}
}

// bearerTransport wraps an http.RoundTripper to add the Authorization header
// from a TokenStore. The token is read per request so a login or logout in
// the same process takes effect immediately.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenStore
	log    zerolog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token()
	if err != nil {
		// Send unauthenticated; the backend answers 401 if it cares.
		t.log.Warn().Err(err).Msg("could not read auth token")
	}
	if token == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}
