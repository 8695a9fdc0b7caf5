package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// BrowserCookie identifies one browser's booking state and notification feed.
	BrowserCookie = "booking_sid"
	browserMaxAge = 7 * 86400

	browserSessionKey = "browser_session"
)

// BrowserSessions issues the browser session cookie. The id is the only key to
// the booking state, so it comes from a random uuid and never from a sequence.
type BrowserSessions struct {
	secure bool
	newID  func() string
}

type SessionOption func(*BrowserSessions)

// WithSessionIDs replaces the uuid source.
func WithSessionIDs(newID func() string) SessionOption {
	return func(b *BrowserSessions) { b.newID = newID }
}

func NewBrowserSessions(secure bool, opts ...SessionOption) *BrowserSessions {
	b := &BrowserSessions{secure: secure, newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BrowserSession returns the browser session id, if the request carries one.
func BrowserSession(c *gin.Context) (string, bool) {
	if v, ok := c.Get(browserSessionKey); ok {
		if sid, ok := v.(string); ok && sid != "" {
			return sid, true
		}
	}
	sid, err := c.Cookie(BrowserCookie)
	if err != nil || sid == "" {
		return "", false
	}
	return sid, true
}

// Ensure returns the browser session id, issuing a new cookie on first use.
func (b *BrowserSessions) Ensure(c *gin.Context) string {
	if sid, ok := BrowserSession(c); ok {
		return sid
	}
	sid := b.newID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(BrowserCookie, sid, browserMaxAge, "/", "", b.secure, true)
	c.Set(browserSessionKey, sid)
	return sid
}

// IdentityFunc resolves the authenticated user of a request.
type IdentityFunc func(c *gin.Context) (userID string, ok bool)

// Anonymous is an IdentityFunc that never authenticates.
func Anonymous(*gin.Context) (string, bool) { return "", false }
