package apiclient

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type actorKey struct{}

// WithActor attaches the id of the acting user. Backend calls made with the returned
// context carry a service token whose subject is that id.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

func ActorFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}

// ServiceClaims identify the portal and the user it acts for.
type ServiceClaims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}

// TokenSigner issues short-lived HS256 tokens for backend calls.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenSigner(secret, issuer string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("service token secret is empty")
	}
	return &TokenSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *TokenSigner) Sign(actor string) (string, error) {
	now := s.now()
	claims := ServiceClaims{
		Actor: actor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token produced by Sign.
func (s *TokenSigner) Parse(token string) (*ServiceClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &ServiceClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*ServiceClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid service token")
	}
	return claims, nil
}
