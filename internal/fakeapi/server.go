// Package fakeapi is an in-memory stand-in for the VitalTrack backend. It
// serves the same REST surface under /api and can be told to answer the
// next N requests with a fixed status, which is how cold starts and outages
// are reproduced in tests and in `vitaltrack dev-server`.
package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Prefix is the path every route is mounted under.
const Prefix = "/api"

type ctxKey struct{}

// Server holds all backend state in memory.
type Server struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*user
	byEmail map[string]int64
	tokens  map[string]int64
	meds    map[int64]*medication
	records map[int64]*record

	faults []int // queued status codes, consumed one per request
	hits   map[string]int

	router *mux.Router
}

// New builds a Server with its routes registered.
func New() *Server {
	s := &Server{
		users:   make(map[int64]*user),
		byEmail: make(map[string]int64),
		tokens:  make(map[string]int64),
		meds:    make(map[int64]*medication),
		records: make(map[int64]*record),
		hits:    make(map[string]int),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	router.Use(s.faultMiddleware)

	api := router.PathPrefix(Prefix).Subrouter()
	api.HandleFunc("/health", s.health).Methods("GET")
	api.HandleFunc("/auth/register", s.register).Methods("POST")
	api.HandleFunc("/auth/login", s.login).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/users/me", s.getProfile).Methods("GET")
	authed.HandleFunc("/users/me", s.updateProfile).Methods("PUT")
	authed.HandleFunc("/medications", s.listMedications).Methods("GET")
	authed.HandleFunc("/medications", s.createMedication).Methods("POST")
	authed.HandleFunc("/medications/{id:[0-9]+}", s.getMedication).Methods("GET")
	authed.HandleFunc("/medications/{id:[0-9]+}", s.updateMedication).Methods("PUT")
	authed.HandleFunc("/medications/{id:[0-9]+}", s.deleteMedication).Methods("DELETE")
	authed.HandleFunc("/health-records", s.listRecords).Methods("GET")
	authed.HandleFunc("/health-records", s.createRecord).Methods("POST")
	authed.HandleFunc("/health-records/{id:[0-9]+}", s.getRecord).Methods("GET")
	authed.HandleFunc("/health-records/{id:[0-9]+}", s.updateRecord).Methods("PUT")
	authed.HandleFunc("/health-records/{id:[0-9]+}", s.deleteRecord).Methods("DELETE")
	return router
}

// FailNext makes the next n requests, on any route, answer with status.
func (s *Server) FailNext(status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.faults = append(s.faults, status)
	}
}

// Hits reports how many requests reached path (e.g. "/api/health"),
// including those answered by an injected fault.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// IssueToken creates a user if needed and returns a valid bearer token.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		id = s.newUserLocked(email, "", "", "")
	}
	token := uuid.NewString()
	s.tokens[token] = id
	return token
}

func (s *Server) faultMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		status := 0
		if len(s.faults) > 0 {
			status, s.faults = s.faults[0], s.faults[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "injected fault")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		uid, known := s.tokens[token]
		s.mu.Unlock()
		if !ok || !known {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, uid)))
	})
}

func userID(r *http.Request) int64 {
	uid, _ := r.Context().Value(ctxKey{}).(int64)
	return uid
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func (s *Server) newUserLocked(email, password, name, dob string) int64 {
	s.nextID++
	now := time.Now().UTC()
	s.users[s.nextID] = &user{
		ID: s.nextID, Email: email, Name: name, DateOfBirth: dob,
		CreatedAt: now, UpdatedAt: now, password: password,
	}
	s.byEmail[email] = s.nextID
	return s.nextID
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	s.mu.Lock()
	if _, exists := s.byEmail[in.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	id := s.newUserLocked(in.Email, in.Password, in.Name, in.DateOfBirth)
	token := uuid.NewString()
	s.tokens[token] = id
	u := *s.users[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: &u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	id, ok := s.byEmail[in.Email]
	if !ok || s.users[id].password != in.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := uuid.NewString()
	s.tokens[token] = id
	u := *s.users[id]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: &u})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u, ok := s.users[userID(r)]
	var out user
	if ok {
		out = *u
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	u, ok := s.users[userID(r)]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.DateOfBirth != "" {
		u.DateOfBirth = in.DateOfBirth
	}
	u.UpdatedAt = time.Now().UTC()
	out := *u
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listMedications(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	out := []medication{}
	for _, m := range s.meds {
		if m.UserID == uid {
			out = append(out, *m)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createMedication(w http.ResponseWriter, r *http.Request) {
	var in medicationInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	s.mu.Lock()
	s.nextID++
	m := &medication{ID: s.nextID, UserID: userID(r), Active: true, CreatedAt: time.Now().UTC()}
	applyMedication(m, in)
	s.meds[m.ID] = m
	out := *m
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) ownedMedicationLocked(r *http.Request) (*medication, bool) {
	m, ok := s.meds[pathID(r)]
	if !ok || m.UserID != userID(r) {
		return nil, false
	}
	return m, true
}

func (s *Server) getMedication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m, ok := s.ownedMedicationLocked(r)
	var out medication
	if ok {
		out = *m
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "medication not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateMedication(w http.ResponseWriter, r *http.Request) {
	var in medicationInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	m, ok := s.ownedMedicationLocked(r)
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "medication not found")
		return
	}
	applyMedication(m, in)
	out := *m
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteMedication(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m, ok := s.ownedMedicationLocked(r)
	if ok {
		delete(s.meds, m.ID)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "medication not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func applyMedication(m *medication, in medicationInput) {
	m.Name, m.Dosage, m.Frequency = in.Name, in.Dosage, in.Frequency
	m.StartDate, m.EndDate, m.Notes = in.StartDate, in.EndDate, in.Notes
	if in.Active != nil {
		m.Active = *in.Active
	}
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	q := r.URL.Query()
	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from")
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to")
			return
		}
		to = t
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	s.mu.Lock()
	out := []record{}
	for _, rec := range s.records {
		if rec.UserID != uid {
			continue
		}
		if t := q.Get("type"); t != "" && rec.Type != t {
			continue
		}
		if !from.IsZero() && rec.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && rec.RecordedAt.After(to) {
			continue
		}
		out = append(out, *rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if !decode(w, r, &in) {
		return
	}
	if in.Type == "" {
		writeError(w, http.StatusBadRequest, "type required")
		return
	}
	s.mu.Lock()
	s.nextID++
	rec := &record{ID: s.nextID, UserID: userID(r), CreatedAt: time.Now().UTC()}
	applyRecord(rec, in)
	s.records[rec.ID] = rec
	out := *rec
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) ownedRecordLocked(r *http.Request) (*record, bool) {
	rec, ok := s.records[pathID(r)]
	if !ok || rec.UserID != userID(r) {
		return nil, false
	}
	return rec, true
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, ok := s.ownedRecordLocked(r)
	var out record
	if ok {
		out = *rec
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	rec, ok := s.ownedRecordLocked(r)
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	applyRecord(rec, in)
	out := *rec
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, ok := s.ownedRecordLocked(r)
	if ok {
		delete(s.records, rec.ID)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func applyRecord(rec *record, in recordInput) {
	rec.Type, rec.Unit, rec.Notes = in.Type, in.Unit, in.Notes
	rec.Systolic, rec.Diastolic, rec.Value = in.Systolic, in.Diastolic, in.Value
	rec.RecordedAt = in.RecordedAt
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
}
