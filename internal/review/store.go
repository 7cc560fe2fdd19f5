package review

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/mrlokans/pantry/internal/extraction"
)

const (
	DefaultSessionTTL = 30 * time.Minute

	cleanupInterval = 5 * time.Minute
)

// Session is one in-flight review of a parsed batch, addressed by an
// opaque token.
type Session struct {
	Token     string
	UserID    uint
	Queue     *Queue
	CreatedAt time.Time

	lastTouched time.Time
}

// SessionStore keeps review sessions in memory. Sessions expire after a
// period of inactivity; commit and abandonment remove them eagerly.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &SessionStore{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

// Create opens a new session over the given items and returns it.
func (s *SessionStore) Create(userID uint, items []extraction.ParsedItem) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &Session{
		Token:       token,
		UserID:      userID,
		Queue:       NewQueue(items),
		CreatedAt:   now,
		lastTouched: now,
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// Get returns the session for a token and refreshes its expiry.
func (s *SessionStore) Get(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Since(session.lastTouched) > s.ttl {
		delete(s.sessions, token)
		return nil, false
	}
	session.lastTouched = time.Now()
	return session, true
}

// Delete removes a session, ending the review.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop terminates the background cleanup goroutine.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *SessionStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, session := range s.sessions {
		if now.Sub(session.lastTouched) > s.ttl {
			delete(s.sessions, token)
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
