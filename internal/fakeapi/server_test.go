package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthAndFaults(t *testing.T) {
	fake := New()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	fake.FailNext(http.StatusServiceUnavailable, 1)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, "GET", "/api/health", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/health", "", "").StatusCode)
	assert.Equal(t, 2, fake.Hits("/api/health"))
}

func TestAuthRequired(t *testing.T) {
	fake := New()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "GET", "/api/medications", "", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, "GET", "/api/medications", "bogus", "").StatusCode)

	token := fake.IssueToken("a@example.com")
	resp := do(t, srv, "GET", "/api/medications", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var meds []medication
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meds))
	assert.Empty(t, meds)
}

func TestRegisterLoginFlow(t *testing.T) {
	fake := New()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	body := `{"email":"a@example.com","password":"pw","name":"Ann"}`
	resp := do(t, srv, "POST", "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/auth/register", "", body).StatusCode)

	assert.Equal(t, http.StatusUnauthorized,
		do(t, srv, "POST", "/api/auth/login", "", `{"email":"a@example.com","password":"nope"}`).StatusCode)

	resp = do(t, srv, "POST", "/api/auth/login", "", `{"email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var auth authResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "Ann", auth.User.Name)
}

func TestRecordsAreScopedToOwner(t *testing.T) {
	fake := New()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	alice := fake.IssueToken("alice@example.com")
	bob := fake.IssueToken("bob@example.com")

	resp := do(t, srv, "POST", "/api/health-records", alice, `{"type":"heart_rate","value":61,"unit":"bpm"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))

	path := "/api/health-records/" + jsonNumber(rec.ID)
	assert.Equal(t, http.StatusOK, do(t, srv, "GET", path, alice, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, srv, "GET", path, bob, "").StatusCode)
	assert.Equal(t, http.StatusNoContent, do(t, srv, "DELETE", path, alice, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, srv, "GET", path, alice, "").StatusCode)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
