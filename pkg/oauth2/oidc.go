package oauth2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// OIDCProvider implements Provider for any issuer that supports discovery.
type OIDCProvider struct {
	config       *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	providerName string
	offline      bool
}

// NewOIDCProvider discovers the issuer's endpoints and keys.
func NewOIDCProvider(ctx context.Context, name, issuer, clientID, clientSecret, redirectURL string, scopes []string) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider %s: %w", name, err)
	}

	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier:     provider.Verifier(&oidc.Config{ClientID: clientID}),
		providerName: name,
	}, nil
}

// NewGoogleProvider creates the google OIDC provider. It asks for offline access so sessions can be refreshed.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*OIDCProvider, error) {
	p, err := NewOIDCProvider(ctx, "google", googleIssuer, clientID, clientSecret, redirectURL, nil)
	if err != nil {
		return nil, err
	}
	p.offline = true
	return p, nil
}

func (p *OIDCProvider) GetName() string {
	return p.providerName
}

func (p *OIDCProvider) GetAuthURL(state string, nonce string) string {
	opts := []oauth2.AuthCodeOption{oidc.Nonce(nonce)}
	if p.offline {
		opts = append(opts, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	}
	return p.config.AuthCodeURL(state, opts...)
}

func (p *OIDCProvider) HandleCallback(ctx context.Context, code string, state string, nonce string) (*UserInfo, *TokenSet, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, nil, errors.New("no id_token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, nil, errors.New("nonce mismatch")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	userInfo := &UserInfo{
		ID:            idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		Provider:      p.providerName,
		CreatedAt:     time.Now(),
	}

	return userInfo, tokenSetFrom(token), nil
}

func (p *OIDCProvider) RefreshToken(ctx context.Context, refreshToken string) (*TokenSet, error) {
	token, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	ts := tokenSetFrom(token)
	if ts.RefreshToken == "" {
		ts.RefreshToken = refreshToken
	}
	return ts, nil
}

func tokenSetFrom(token *oauth2.Token) *TokenSet {
	ts := &TokenSet{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		ts.IDToken = idToken
	}
	return ts
}
