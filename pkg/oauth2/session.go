package oauth2

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session represents a user session with tokens
type Session struct {
	ID           string    `json:"id"`
	UserInfo     *UserInfo `json:"user_info"`
	TokenSet     *TokenSet `json:"token_set"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

// SessionStore persists authenticated sessions.
type SessionStore interface {
	Create(ctx context.Context, userInfo *UserInfo, tokenSet *TokenSet, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, sessionID string, tokenSet *TokenSet) error
	Delete(ctx context.Context, sessionID string) error
	Cleanup()
}

func newSession(userInfo *UserInfo, tokenSet *TokenSet, now time.Time, ttl time.Duration) (*Session, error) {
	sessionID, err := GenerateRandomString(32)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:           sessionID,
		UserInfo:     userInfo,
		TokenSet:     tokenSet,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastAccessed: now,
	}, nil
}

type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	done     chan struct{}
	once     sync.Once
	now      func() time.Time
}

func NewInMemorySessionStore() *InMemorySessionStore {
	store := &InMemorySessionStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	go store.cleanupRoutine()
	return store
}

func (s *InMemorySessionStore) Create(_ context.Context, userInfo *UserInfo, tokenSet *TokenSet, ttl time.Duration) (*Session, error) {
	session, err := newSession(userInfo, tokenSet, s.now(), ttl)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session

	cp := *session
	return &cp, nil
}

func (s *InMemorySessionStore) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionExpired
	}

	session.LastAccessed = now
	cp := *session
	return &cp, nil
}

func (s *InMemorySessionStore) Update(_ context.Context, sessionID string, tokenSet *TokenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return ErrSessionNotFound
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		delete(s.sessions, sessionID)
		return ErrSessionExpired
	}

	session.TokenSet = tokenSet
	session.LastAccessed = now
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemorySessionStore) Cleanup() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *InMemorySessionStore) cleanupRoutine() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *InMemorySessionStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
