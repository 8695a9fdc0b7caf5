package oauth2

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"travel/pkg/db"
	"travel/pkg/logger"

	"github.com/goccy/go-json"
)

// PostgresSessionStore keeps sessions in the portal_sessions table.
type PostgresSessionStore struct {
	db     db.SQLExecutor
	logger logger.Logger
	done   chan struct{}
	once   sync.Once
	now    func() time.Time
}

func NewPostgresSessionStore(executor db.SQLExecutor, log logger.Logger) *PostgresSessionStore {
	s := &PostgresSessionStore{
		db:     executor,
		logger: log,
		done:   make(chan struct{}),
		now:    time.Now,
	}
	go s.cleanupRoutine()
	return s
}

func (s *PostgresSessionStore) Create(ctx context.Context, userInfo *UserInfo, tokenSet *TokenSet, ttl time.Duration) (*Session, error) {
	session, err := newSession(userInfo, tokenSet, s.now().UTC(), ttl)
	if err != nil {
		return nil, err
	}

	user, err := json.Marshal(userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user info: %w", err)
	}
	tokens, err := json.Marshal(tokenSet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token set: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO portal_sessions (id, user_info, token_set, created_at, expires_at, last_accessed)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID, user, tokens, session.CreatedAt, session.ExpiresAt, session.LastAccessed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

func (s *PostgresSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var (
		session      = Session{ID: sessionID}
		user, tokens []byte
	)
	err := s.db.QueryRowContext(ctx,
		`UPDATE portal_sessions SET last_accessed = $2
		 WHERE id = $1
		 RETURNING user_info, token_set, created_at, expires_at, last_accessed`,
		sessionID, s.now().UTC(),
	).Scan(&user, &tokens, &session.CreatedAt, &session.ExpiresAt, &session.LastAccessed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	if err := json.Unmarshal(user, &session.UserInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if err := json.Unmarshal(tokens, &session.TokenSet); err != nil {
		return nil, fmt.Errorf("failed to decode token set: %w", err)
	}
	return &session, nil
}

func (s *PostgresSessionStore) Update(ctx context.Context, sessionID string, tokenSet *TokenSet) error {
	tokens, err := json.Marshal(tokenSet)
	if err != nil {
		return fmt.Errorf("failed to encode token set: %w", err)
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE portal_sessions SET token_set = $2, last_accessed = $3
		 WHERE id = $1 AND expires_at > $3`,
		sessionID, tokens, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Cleanup() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *PostgresSessionStore) cleanupRoutine() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.removeExpired(context.Background()); err != nil {
				s.logger.Warn("failed to remove expired sessions", logger.Err(err))
			}
		case <-s.done:
			return
		}
	}
}

func (s *PostgresSessionStore) removeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
