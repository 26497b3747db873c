// Package auth implements the shared-password login gate and its in-memory
// session store.
package auth

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// SessionCookie is the cookie name carrying the session ID.
const SessionCookie = "session_id"

type session struct {
	expiresAt time.Time
}

// Store is an in-memory session store keyed by opaque UUIDs. Sessions do not
// survive a restart; that is acceptable for a single shared-password gate.
type Store struct {
	mu       sync.Mutex
	sessions map[string]session
	password string
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store checking against password, issuing
// sessions valid for ttl.
func NewStore(password string, ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]session),
		password: password,
		ttl:      ttl,
		now:      time.Now,
	}
	// Background cleanup every 10 minutes
	go s.cleanup()
	return s
}

// Login verifies the password and issues a new session ID.
func (s *Store) Login(password string) (string, error) {
	if password == "" {
		return "", youtube.NewValidationError(youtube.MsgPasswordRequired)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", &youtube.APIError{
			Category: youtube.CategoryAuth,
			Message:  youtube.MsgPasswordIncorrect,
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = session{expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

// Valid reports whether the session ID exists and has not expired. Expired
// sessions are evicted on access.
func (s *Store) Valid(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return false
	}
	return true
}

// Logout invalidates the session ID.
func (s *Store) Logout(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := s.now()
		for id, sess := range s.sessions {
			if now.After(sess.expiresAt) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
