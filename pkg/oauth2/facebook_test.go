package oauth2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookProvider_AuthURL(t *testing.T) {
	p := NewFacebookProvider("client", "secret", "http://localhost:8080/auth/callback/facebook", nil)

	u, err := url.Parse(p.GetAuthURL("st", "ignored"))
	require.NoError(t, err)
	assert.Equal(t, "www.facebook.com", u.Host)
	assert.Equal(t, "st", u.Query().Get("state"))
	assert.Equal(t, "public_profile email", u.Query().Get("scope"))
	assert.Empty(t, u.Query().Get("nonce"))
}

func TestFacebookProvider_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "email")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"10","name":"Minh","email":"minh@example.com","picture":{"data":{"url":"https://cdn/p.jpg"}}}`))
	}))
	defer srv.Close()

	p := NewFacebookProvider("client", "secret", "", nil)
	p.graphURL = srv.URL

	user, err := p.me(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "10", user.ID)
	assert.Equal(t, "https://cdn/p.jpg", user.Picture.Data.URL)
}

func TestFacebookProvider_MeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"expired"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewFacebookProvider("client", "secret", "", nil)
	p.graphURL = srv.URL

	_, err := p.me(context.Background(), srv.Client())
	assert.ErrorContains(t, err, "status 401")
}
