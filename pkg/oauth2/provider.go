package oauth2

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Provider defines the base interface for authentication providers
type Provider interface {
	GetName() string
	GetAuthURL(state string, nonce string) string
	HandleCallback(ctx context.Context, code string, state string, nonce string) (*UserInfo, *TokenSet, error)
}

// Refresher is implemented by providers that issue refresh tokens.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// UserInfo represents unified user information across providers
type UserInfo struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Name          string    `json:"name"`
	Picture       string    `json:"picture"`
	Provider      string    `json:"provider"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenSet represents the complete token response from providers
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// GenerateRandomString returns n random bytes encoded as unpadded base64url.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
