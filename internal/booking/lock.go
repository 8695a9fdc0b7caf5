package booking

import "sync"

// sessionLocks serializes work per booking session. An entry lives only while
// someone holds or waits for it, so arbitrary cookie values do not accumulate.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock blocks until sid is free and returns its unlock func.
func (l *sessionLocks) lock(sid string) func() {
	l.mu.Lock()
	m, ok := l.locks[sid]
	if !ok {
		m = &sessionLock{}
		l.locks[sid] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()

		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, sid)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
