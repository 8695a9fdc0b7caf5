package cfg

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:9090")
	t.Setenv("BACKEND_TOKEN_SECRET", "secret")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.HTTP.Port)
	assert.Equal(t, "memory", c.Session.Store)
	assert.Equal(t, 24*time.Hour, c.Booking.StateTTL)
	assert.Equal(t, 10*time.Second, c.Backend.Timeout)
	assert.Empty(t, c.Captcha.SiteKey)
	assert.Empty(t, c.Observability.OTLPEndpoint)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:9090")
	t.Setenv("BACKEND_TOKEN_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CAPTCHA_SITE_KEY", "site-key")
	t.Setenv("SESSION_STORE", "postgres")
	t.Setenv("FLIGHT_CACHE_TTL", "90s")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", c.HTTP.Port)
	assert.Equal(t, "site-key", c.Captcha.SiteKey)
	assert.Equal(t, "postgres", c.Session.Store)
	assert.Equal(t, 90*time.Second, c.Cache.FlightTTL)
}

func TestLoad_MissingRequired(t *testing.T) {
	// Setenv restores the original values after the test.
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("BACKEND_TOKEN_SECRET", "")
	require.NoError(t, os.Unsetenv("BACKEND_BASE_URL"))
	require.NoError(t, os.Unsetenv("BACKEND_TOKEN_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://localhost:9090")
	t.Setenv("BACKEND_TOKEN_SECRET", "secret")
	t.Setenv("SESSION_STORE", "file")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_STORE")
}
