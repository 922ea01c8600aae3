package client

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"testing"
	"time"
)

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "://nope", "/api"} {
		if _, err := New(raw); err == nil {
			t.Fatalf("New(%q) should fail", raw)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New("http://localhost:5000/api/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "http://localhost:5000/api" {
		t.Fatalf("base url = %s", c.BaseURL())
	}
	if c.maxRetries != 3 || c.retryDelay != time.Second || c.timeout != 30*time.Second || c.wakeUpDelay != 5*time.Second {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.healthPath != "/health" {
		t.Fatalf("health path = %s", c.healthPath)
	}
	if !c.Connected() {
		t.Fatalf("a new client starts connected")
	}
	if _, ok := c.http.Transport.(*bearerTransport); !ok {
		t.Fatalf("transport = %T, want *bearerTransport", c.http.Transport)
	}
}

func TestOptionValidation(t *testing.T) {
	cases := map[string]Option{
		"timeout":     WithTimeout(0),
		"retries":     WithMaxRetries(-1),
		"retry delay": WithRetryDelay(0),
		"wake delay":  WithWakeUpDelay(-time.Second),
		"health path": WithHealthPath(""),
		"http client": WithHTTPClient(nil),
		"token store": WithTokenStore(nil),
		"sleep func":  WithSleep(nil),
	}
	for name, opt := range cases {
		if _, err := New("http://x", opt); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	c, err := New("http://x", WithMaxRetries(0), WithWakeUpDelay(0), WithRetryDelay(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.maxRetries != 0 || c.wakeUpDelay != 0 || c.retryDelay != 10*time.Millisecond {
		t.Fatalf("options not applied")
	}
}

func TestWithHTTPClientCopies(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c, err := New("http://x", WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if hc.Transport != nil {
		t.Fatalf("caller's client was modified")
	}
	if c.http.Timeout != time.Minute {
		t.Fatalf("settings not copied")
	}
}

func TestDebugTransportBeneathBearer(t *testing.T) {
	called := false
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: make(http.Header)}, nil
	})
	// option order must not matter
	c, err := New("http://x", WithDebugLogging(true), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt, ok := c.http.Transport.(*bearerTransport)
	if !ok {
		t.Fatalf("transport = %T", c.http.Transport)
	}
	if _, ok := bt.base.(*debugTransport); !ok {
		t.Fatalf("bearer base = %T, want *debugTransport", bt.base)
	}
	if _, err := c.Request(context.Background(), "/health", RequestOptions{}); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !called {
		t.Fatalf("base transport not invoked")
	}
}

func TestDebugLoggingFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("VITALTRACK_DEBUG", "true")
	c, err := New("http://x")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt := c.http.Transport.(*bearerTransport)
	if _, ok := bt.base.(*debugTransport); !ok {
		t.Fatalf("debug transport not installed from env")
	}

	t.Setenv("VITALTRACK_DEBUG", "")
	c, err = New("http://x")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt = c.http.Transport.(*bearerTransport)
	if _, ok := bt.base.(*debugTransport); ok {
		t.Fatalf("debug transport installed without env")
	}
}

// clearConfigEnv unsets every variable LoadConfig reads, including the
// unprefixed fallbacks envconfig also consults.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_URL", "MAX_RETRIES", "RETRY_DELAY", "TIMEOUT", "WAKE_UP_DELAY", "HEALTH_PATH", "TOKEN_DB", "DEBUG"} {
		for _, name := range []string{"VITALTRACK_" + k, k} {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VITALTRACK_API_URL", "https://api.example.com/api")
	t.Setenv("VITALTRACK_MAX_RETRIES", "5")
	t.Setenv("VITALTRACK_RETRY_DELAY", "250ms")
	t.Setenv("VITALTRACK_TIMEOUT", "10s")
	t.Setenv("VITALTRACK_WAKE_UP_DELAY", "2s")
	t.Setenv("VITALTRACK_TOKEN_DB", "/tmp/vt.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{
		APIURL:      "https://api.example.com/api",
		MaxRetries:  5,
		RetryDelay:  250 * time.Millisecond,
		Timeout:     10 * time.Second,
		WakeUpDelay: 2 * time.Second,
		HealthPath:  "/health",
		TokenDB:     "/tmp/vt.db",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("cfg = %+v\nwant %+v", cfg, want)
	}

	c, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if c.maxRetries != 5 || c.retryDelay != 250*time.Millisecond || c.timeout != 10*time.Second || c.wakeUpDelay != 2*time.Second {
		t.Fatalf("config not applied")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.APIURL != def.APIURL || cfg.MaxRetries != def.MaxRetries || cfg.RetryDelay != def.RetryDelay ||
		cfg.Timeout != def.Timeout || cfg.WakeUpDelay != def.WakeUpDelay || cfg.HealthPath != def.HealthPath {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TokenDB == "" {
		t.Fatalf("token db path should default")
	}
}

func TestLoadConfigBlankDebug(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VITALTRACK_DEBUG", "")
	t.Setenv("DEBUG", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Debug {
		t.Fatalf("blank debug should read as false")
	}

	t.Setenv("VITALTRACK_DEBUG", "true")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Debug {
		t.Fatalf("debug not read")
	}

	t.Setenv("VITALTRACK_DEBUG", "sometimes")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("VITALTRACK_MAX_RETRIES", "-1")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected validation error")
	}
	t.Setenv("VITALTRACK_MAX_RETRIES", "many")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, err := New("http://x")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestWakeUpServerColdStart(t *testing.T) {
	c, sc, sl := newScripted(t, "http://x/api", []step{{status: 503}, {status: 200, body: `{"status":"UP"}`}})

	res := c.WakeUpServer(context.Background())
	if !res.OK || !res.Connected || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if sc.count() != 2 || sc.reqs[0].URL.Path != "/api/health" {
		t.Fatalf("attempts = %d path = %s", sc.count(), sc.reqs[0].URL.Path)
	}
	if want := []time.Duration{5 * time.Second}; !reflect.DeepEqual(sl.got(), want) {
		t.Fatalf("waits = %v", sl.got())
	}
}

func TestWakeUpServerNeverFails(t *testing.T) {
	c, _, _ := newScripted(t, "http://x/api", []step{{err: errRefused}}, WithMaxRetries(1))

	res := c.WakeUpServer(context.Background())
	if res.OK || res.Connected {
		t.Fatalf("unexpected result %+v", res)
	}
	if !IsNetwork(res.Err) {
		t.Fatalf("err = %v", res.Err)
	}
	if c.Connected() {
		t.Fatalf("expected disconnected")
	}
}

func TestHealthDecodes(t *testing.T) {
	c, _, _ := newScripted(t, "http://x/api", []step{{status: 200, body: `{"status":"UP","timestamp":"2026-01-02T03:04:05Z"}`}},
		WithHealthPath("/status"))
	hs, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if hs.Status != "UP" {
		t.Fatalf("status = %s", hs.Status)
	}
}
