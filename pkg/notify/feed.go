package notify

import (
	"sync"
	"time"

	"travel/pkg/idgen"
	"travel/pkg/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const maxPerSession = 50

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier raises user-facing notifications for one session.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

type sessionFeed struct {
	items      []Notification
	lastAccess time.Time
}

// Feed stores dismissable notifications per session in memory.
type Feed struct {
	mu       sync.Mutex
	sessions map[string]*sessionFeed
	ids      idgen.Generator
	logger   logger.Logger
	idleTTL  time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewFeed(ids idgen.Generator, log logger.Logger, idleTTL time.Duration) *Feed {
	f := &Feed{
		sessions: make(map[string]*sessionFeed),
		ids:      ids,
		logger:   log,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
	}
	go f.cleanupRoutine()
	return f
}

// For returns a Notifier bound to sessionID.
func (f *Feed) For(sessionID string) Notifier {
	return sessionNotifier{feed: f, sessionID: sessionID}
}

func (f *Feed) push(sessionID string, level Level, msg string) {
	n := Notification{
		ID:        f.ids.GenerateString(),
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now(),
	}

	f.mu.Lock()
	sf := f.session(sessionID)
	sf.items = append(sf.items, n)
	if len(sf.items) > maxPerSession {
		sf.items = sf.items[len(sf.items)-maxPerSession:]
	}
	f.mu.Unlock()

	fields := []logger.Field{
		{Key: "session", Value: sessionID},
		{Key: "notification_id", Value: n.ID},
	}
	if level == LevelError {
		f.logger.Error(msg, fields...)
		return
	}
	f.logger.Info(msg, fields...)
}

// session must be called with f.mu held.
func (f *Feed) session(sessionID string) *sessionFeed {
	sf, ok := f.sessions[sessionID]
	if !ok {
		sf = &sessionFeed{}
		f.sessions[sessionID] = sf
	}
	sf.lastAccess = time.Now()
	return sf
}

// List returns the session's notifications, oldest first.
func (f *Feed) List(sessionID string) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	sf := f.session(sessionID)
	out := make([]Notification, len(sf.items))
	copy(out, sf.items)
	return out
}

// Dismiss removes one notification and reports whether it existed.
func (f *Feed) Dismiss(sessionID, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	sf := f.session(sessionID)
	for i, n := range sf.items {
		if n.ID == id {
			sf.items = append(sf.items[:i], sf.items[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Feed) Cleanup() {
	f.once.Do(func() {
		close(f.done)
	})
}

func (f *Feed) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.removeIdle(time.Now())
		case <-f.done:
			return
		}
	}
}

func (f *Feed) removeIdle(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, sf := range f.sessions {
		if now.Sub(sf.lastAccess) > f.idleTTL {
			delete(f.sessions, id)
		}
	}
}

type sessionNotifier struct {
	feed      *Feed
	sessionID string
}

func (n sessionNotifier) Success(msg string) { n.feed.push(n.sessionID, LevelSuccess, msg) }
func (n sessionNotifier) Error(msg string)   { n.feed.push(n.sessionID, LevelError, msg) }
func (n sessionNotifier) Info(msg string)    { n.feed.push(n.sessionID, LevelInfo, msg) }
