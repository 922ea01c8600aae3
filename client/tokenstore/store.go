// Package tokenstore keeps the bearer token on disk between CLI runs.
package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const (
	sessionBucket = "session"

	// TokenKey is the key the bearer token is stored under.
	TokenKey = "auth_token"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("token store closed")

// Store is a bbolt-backed token store. It is safe for concurrent use,
// including Close racing an in-flight Token.
type Store struct {
	mu sync.RWMutex // guards db; readers hold it for the whole transaction
	db *bbolt.DB
}

// Open opens (or creates) the store at path, creating parent directories.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("token store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Token returns the stored token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return "", ErrClosed
	}
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", sessionBucket)
		}
		// Get's slice is only valid inside the transaction
		token = string(bucket.Get([]byte(TokenKey)))
		return nil
	})
	return token, err
}

// SetToken stores token, replacing any previous one.
func (s *Store) SetToken(token string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if token == "" {
		return errors.New("cannot store empty token")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", sessionBucket)
		}
		return bucket.Put([]byte(TokenKey), []byte(token))
	})
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", sessionBucket)
		}
		return bucket.Delete([]byte(TokenKey))
	})
}

// Close releases the database file lock.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Static is an in-memory store, used when no database path is configured.
type Static struct {
	mu    sync.RWMutex
	token string
}

// NewStatic returns a Static holding token (which may be empty).
func NewStatic(token string) *Static { return &Static{token: token} }

func (s *Static) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *Static) SetToken(token string) error {
	if token == "" {
		return errors.New("cannot store empty token")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *Static) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
