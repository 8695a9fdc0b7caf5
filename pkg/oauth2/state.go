package oauth2

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrStateNotFound = errors.New("state not found")
	ErrStateExpired  = errors.New("state expired")
)

// StateStorage keeps the state and nonce of pending logins.
type StateStorage interface {
	SaveState(state string, nonce string, expiresAt time.Time) error
	// ConsumeState returns the nonce saved for state and forgets it.
	ConsumeState(state string) (string, error)
	Cleanup()
}

type InMemoryStorage struct {
	mu   sync.Mutex
	data map[string]*stateData
	done chan struct{}
	once sync.Once
	now  func() time.Time
}

type stateData struct {
	nonce     string
	expiresAt time.Time
}

func NewInMemoryStorage() *InMemoryStorage {
	s := &InMemoryStorage{
		data: make(map[string]*stateData),
		done: make(chan struct{}),
		now:  time.Now,
	}
	go s.cleanupRoutine()
	return s
}

func (s *InMemoryStorage) SaveState(state string, nonce string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[state] = &stateData{
		nonce:     nonce,
		expiresAt: expiresAt,
	}
	return nil
}

func (s *InMemoryStorage) ConsumeState(state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.data[state]
	if !exists {
		return "", ErrStateNotFound
	}
	delete(s.data, state)

	if s.now().After(data.expiresAt) {
		return "", ErrStateExpired
	}
	return data.nonce, nil
}

func (s *InMemoryStorage) Cleanup() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *InMemoryStorage) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
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

func (s *InMemoryStorage) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, data := range s.data {
		if now.After(data.expiresAt) {
			delete(s.data, state)
		}
	}
}
