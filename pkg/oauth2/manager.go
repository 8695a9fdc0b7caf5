package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"travel/cfg"
	"travel/pkg/logger"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrNoRefreshToken   = errors.New("no refresh token available")
)

// Manager manages OAuth2/OIDC providers and authentication flow
type Manager struct {
	providers      map[string]Provider
	stateStorage   StateStorage
	sessionStore   SessionStore
	logger         logger.Logger
	stateTimeout   time.Duration
	sessionTimeout time.Duration
	secureCookies  bool
	afterLogin     string
}

type Option func(*Manager)

func WithSessionTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.sessionTimeout = ttl
		}
	}
}

func WithStateStorage(s StateStorage) Option {
	return func(m *Manager) { m.stateStorage = s }
}

func WithLogger(log logger.Logger) Option {
	return func(m *Manager) { m.logger = log }
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(m *Manager) { m.secureCookies = secure }
}

// WithRedirectAfterLogin makes the callback redirect to url instead of answering with JSON.
func WithRedirectAfterLogin(url string) Option {
	return func(m *Manager) { m.afterLogin = url }
}

func NewManager(sessions SessionStore, opts ...Option) *Manager {
	mgr := &Manager{
		providers:      make(map[string]Provider),
		sessionStore:   sessions,
		logger:         logger.Nop(),
		stateTimeout:   10 * time.Minute,
		sessionTimeout: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	if mgr.stateStorage == nil {
		mgr.stateStorage = NewInMemoryStorage()
	}
	return mgr
}

// ProvidersFromConfig builds every provider whose client credentials are configured.
func ProvidersFromConfig(ctx context.Context, c *cfg.OAuth2Config) ([]Provider, error) {
	var providers []Provider

	if c.GoogleClientID != "" && c.GoogleClientSecret != "" {
		google, err := NewGoogleProvider(ctx, c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google provider: %w", err)
		}
		providers = append(providers, google)
	}

	if c.FacebookClientID != "" && c.FacebookClientSecret != "" {
		providers = append(providers, NewFacebookProvider(c.FacebookClientID, c.FacebookClientSecret, c.FacebookRedirectURL, nil))
	}

	if c.OIDCAlias != "" && c.OIDCIssuer != "" && c.OIDCClientID != "" {
		generic, err := NewOIDCProvider(ctx, strings.ToLower(c.OIDCAlias), c.OIDCIssuer, c.OIDCClientID, c.OIDCClientSecret, c.OIDCRedirectURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s provider: %w", c.OIDCAlias, err)
		}
		providers = append(providers, generic)
	}

	return providers, nil
}

// RegisterProvider registers a new authentication provider
func (m *Manager) RegisterProvider(provider Provider) {
	m.providers[provider.GetName()] = provider
}

// Providers returns the registered provider names in sorted order.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAuthURL generates authorization URL with state and nonce
func (m *Manager) GetAuthURL(providerName string) (string, error) {
	provider, exists := m.providers[providerName]
	if !exists {
		return "", ErrProviderNotFound
	}

	state, err := GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	nonce, err := GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	expiresAt := time.Now().Add(m.stateTimeout)
	if err := m.stateStorage.SaveState(state, nonce, expiresAt); err != nil {
		return "", fmt.Errorf("failed to save state: %w", err)
	}

	return provider.GetAuthURL(state, nonce), nil
}

// HandleCallback handles OAuth2/OIDC callback and creates a session
func (m *Manager) HandleCallback(ctx context.Context, providerName, code, state string) (*Session, error) {
	provider, exists := m.providers[providerName]
	if !exists {
		return nil, ErrProviderNotFound
	}

	nonce, err := m.stateStorage.ConsumeState(state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	userInfo, tokenSet, err := provider.HandleCallback(ctx, code, state, nonce)
	if err != nil {
		return nil, fmt.Errorf("callback failed: %w", err)
	}

	session, err := m.sessionStore.Create(ctx, userInfo, tokenSet, m.sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.logger.Info("user logged in",
		logger.Field{Key: "provider", Value: providerName},
		logger.Field{Key: "user_id", Value: userInfo.ID},
	)
	return session, nil
}

// GetSession retrieves a session by ID
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return m.sessionStore.Get(ctx, sessionID)
}

// RefreshSession refreshes tokens for a session whose provider issues refresh tokens.
func (m *Manager) RefreshSession(ctx context.Context, sessionID string) error {
	session, err := m.sessionStore.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.TokenSet == nil || session.TokenSet.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	provider, exists := m.providers[session.UserInfo.Provider]
	if !exists {
		return ErrProviderNotFound
	}

	refresher, ok := provider.(Refresher)
	if !ok {
		return fmt.Errorf("provider %s does not support token refresh", provider.GetName())
	}

	tokenSet, err := refresher.RefreshToken(ctx, session.TokenSet.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	return m.sessionStore.Update(ctx, sessionID, tokenSet)
}

// DeleteSession deletes a session (logout)
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	return m.sessionStore.Delete(ctx, sessionID)
}

// Cleanup cleans up storage resources
func (m *Manager) Cleanup() {
	m.stateStorage.Cleanup()
	m.sessionStore.Cleanup()
}
