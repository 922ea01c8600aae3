package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	clienterrors "github.com/vitaltrack/vitaltrack/client/internal/errors"
	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

type call struct {
	method string
	path   string
	in     any
}

// stubRequester records calls and answers them with reply/err.
type stubRequester struct {
	calls []call
	reply string
	err   error
}

func (s *stubRequester) do(method, path string, in, out any) error {
	s.calls = append(s.calls, call{method: method, path: path, in: in})
	if s.err != nil {
		return s.err
	}
	if out != nil && s.reply != "" {
		return json.Unmarshal([]byte(s.reply), out)
	}
	return nil
}

func (s *stubRequester) Get(_ context.Context, path string, out any) error {
	return s.do("GET", path, nil, out)
}
func (s *stubRequester) Post(_ context.Context, path string, in, out any) error {
	return s.do("POST", path, in, out)
}
func (s *stubRequester) Put(_ context.Context, path string, in, out any) error {
	return s.do("PUT", path, in, out)
}
func (s *stubRequester) Delete(_ context.Context, path string, out any) error {
	return s.do("DELETE", path, nil, out)
}

type memTokens struct {
	token  string
	clears int
}

func (m *memTokens) Token() (string, error)    { return m.token, nil }
func (m *memTokens) SetToken(tok string) error { m.token = tok; return nil }
func (m *memTokens) Clear() error              { m.token = ""; m.clears++; return nil }

func TestLoginStoresToken(t *testing.T) {
	r := &stubRequester{reply: `{"token":"abc","user":{"id":1,"email":"a@example.com"}}`}
	tokens := &memTokens{}

	resp, err := Login(context.Background(), r, tokens, types.LoginRequest{Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != 1 || tokens.token != "abc" {
		t.Fatalf("token not stored: %+v", tokens)
	}
	if len(r.calls) != 1 || r.calls[0].method != "POST" || r.calls[0].path != "/auth/login" {
		t.Fatalf("calls = %+v", r.calls)
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	r := &stubRequester{reply: `{"user":{"id":1}}`}
	if _, err := Login(context.Background(), r, &memTokens{}, types.LoginRequest{Email: "a@example.com", Password: "pw"}); err == nil {
		t.Fatalf("expected error for missing token")
	}
}

func TestRegisterValidates(t *testing.T) {
	r := &stubRequester{}
	_, err := Register(context.Background(), r, &memTokens{}, types.RegisterRequest{Email: "a@example.com", Password: "pw", DateOfBirth: "01/02/1990"})
	if err == nil {
		t.Fatalf("expected date validation error")
	}
	if len(r.calls) != 0 {
		t.Fatalf("validation should prevent the call")
	}
}

func TestCanceledContextShortCircuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &stubRequester{}
	if _, err := ListMedications(ctx, r, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("no call expected")
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	r := &stubRequester{err: clienterrors.NewHTTPError("GET", "/users/me", 401, "401 Unauthorized", nil)}
	tokens := &memTokens{token: "old"}

	_, err := GetProfile(context.Background(), r, tokens)
	if !errors.Is(err, clienterrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if tokens.token != "" || tokens.clears != 1 {
		t.Fatalf("token not cleared: %+v", tokens)
	}
}

func TestOtherErrorsKeepToken(t *testing.T) {
	r := &stubRequester{err: clienterrors.NewHTTPError("GET", "/medications/4", 404, "404 Not Found", nil)}
	tokens := &memTokens{token: "keep"}

	_, err := GetMedication(context.Background(), r, tokens, 4)
	if !errors.Is(err, clienterrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if tokens.token != "keep" {
		t.Fatalf("token cleared on 404")
	}
}

func TestMedicationPaths(t *testing.T) {
	r := &stubRequester{reply: `{"id":9,"name":"Aspirin"}`}
	tokens := &memTokens{}
	ctx := context.Background()
	req := types.MedicationRequest{Name: "Aspirin", Dosage: "81mg", Frequency: "daily"}

	if _, err := CreateMedication(ctx, r, tokens, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := UpdateMedication(ctx, r, tokens, 9, req); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := DeleteMedication(ctx, r, tokens, 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []call{
		{method: "POST", path: "/medications", in: req},
		{method: "PUT", path: "/medications/9", in: req},
		{method: "DELETE", path: "/medications/9"},
	}
	for i, w := range want {
		got := r.calls[i]
		if got.method != w.method || got.path != w.path {
			t.Fatalf("call %d = %s %s, want %s %s", i, got.method, got.path, w.method, w.path)
		}
	}
	if err := DeleteMedication(ctx, r, tokens, -1); err == nil {
		t.Fatalf("expected id validation error")
	}
}

func TestCreateHealthRecordFillsDefaults(t *testing.T) {
	r := &stubRequester{reply: `{"id":1}`}
	before := time.Now().UTC()

	_, err := CreateHealthRecord(context.Background(), r, nil, types.HealthRecordRequest{Type: types.BloodSugar, Value: 98})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sent := r.calls[0].in.(types.HealthRecordRequest)
	if sent.Unit != "mg/dL" {
		t.Fatalf("unit = %q", sent.Unit)
	}
	if sent.RecordedAt.Before(before) {
		t.Fatalf("recorded_at not defaulted: %v", sent.RecordedAt)
	}
}

func TestCreateHealthRecordKeepsExplicitValues(t *testing.T) {
	r := &stubRequester{reply: `{"id":1}`}
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	_, err := CreateHealthRecord(context.Background(), r, nil, types.HealthRecordRequest{Type: types.Weight, Value: 80, Unit: "lb", RecordedAt: at})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sent := r.calls[0].in.(types.HealthRecordRequest)
	if sent.Unit != "lb" || !sent.RecordedAt.Equal(at) {
		t.Fatalf("explicit values overwritten: %+v", sent)
	}
}

func TestListHealthRecordsQuery(t *testing.T) {
	r := &stubRequester{reply: `[]`}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	_, err := ListHealthRecords(context.Background(), r, nil, types.HealthRecordFilter{Type: types.HeartRate, From: from, To: to, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	u, err := url.Parse(r.calls[0].path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if u.Path != "/health-records" || q.Get("type") != "heart_rate" || q.Get("limit") != "20" ||
		q.Get("from") != "2026-01-01T00:00:00Z" || q.Get("to") != "2026-01-03T00:00:00Z" {
		t.Fatalf("path = %s", r.calls[0].path)
	}

	r.calls = nil
	if _, err := ListHealthRecords(context.Background(), r, nil, types.HealthRecordFilter{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if r.calls[0].path != "/health-records" {
		t.Fatalf("empty filter path = %s", r.calls[0].path)
	}

	if _, err := ListHealthRecords(context.Background(), r, nil, types.HealthRecordFilter{From: to, To: from}); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestLogoutClears(t *testing.T) {
	tokens := &memTokens{token: "x"}
	if err := Logout(tokens); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if tokens.token != "" {
		t.Fatalf("token not cleared")
	}
	if err := Logout(nil); err != nil {
		t.Fatalf("nil store: %v", err)
	}
}
