package oauth2

import (
	"errors"
	"net/http"

	"travel/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "session_id"
	cookieMaxAge      = 86400 // 24 hours

	sessionContextKey = "session"
	userContextKey    = "user"
)

// RegisterRoutes mounts the login, callback and session endpoints under /auth.
func RegisterRoutes(r gin.IRouter, manager *Manager) {
	auth := r.Group("/auth")
	auth.GET("/:provider", LoginHandler(manager))
	auth.GET("/callback/:provider", CallbackHandler(manager))
	auth.POST("/logout", LogoutHandler(manager))

	protected := auth.Group("")
	protected.Use(AuthMiddleware(manager))
	protected.GET("/me", MeHandler())
	protected.POST("/refresh", RefreshTokenHandler(manager))
}

// LoginHandler starts the OAuth2 flow of a provider
// @Summary Start social login
// @Description Redirects the browser to the provider's login page
// @Tags oauth2
// @Param provider path string true "Provider alias (google, facebook, ...)"
// @Success 307 {string} string "Redirect"
// @Failure 404 {object} map[string]string "Unknown provider"
// @Router /auth/{provider} [get]
func LoginHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authURL, err := manager.GetAuthURL(c.Param("provider"))
		if errors.Is(err, ErrProviderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			manager.logger.Error("failed to start login", logger.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// CallbackHandler handles the provider callback
// @Summary Social login callback
// @Description Exchanges the code, creates the session and sets the session cookie
// @Tags oauth2
// @Produce json
// @Param provider path string true "Provider alias"
// @Param code query string true "OAuth2 code"
// @Param state query string true "OAuth2 state"
// @Success 200 {object} map[string]interface{} "Authenticated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/callback/{provider} [get]
func CallbackHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reason := c.Query("error"); reason != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login cancelled: " + reason})
			return
		}

		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code or state"})
			return
		}

		session, err := manager.HandleCallback(c.Request.Context(), c.Param("provider"), code, state)
		switch {
		case errors.Is(err, ErrProviderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired login state"})
			return
		case err != nil:
			manager.logger.Warn("login callback failed",
				logger.Field{Key: "provider", Value: c.Param("provider")},
				logger.Err(err),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookieName, session.ID, cookieMaxAge, "/", "", manager.secureCookies, true)

		if manager.afterLogin != "" {
			c.Redirect(http.StatusFound, manager.afterLogin)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":       session.UserInfo,
			"expires_at": session.ExpiresAt,
		})
	}
}

// MeHandler returns authenticated user info from session
// @Summary Get authenticated user info
// @Description Returns user info from session
// @Tags oauth2
// @Produce json
// @Success 200 {object} map[string]interface{} "User info"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/me [get]
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":       session.UserInfo,
			"created_at": session.CreatedAt,
			"expires_at": session.ExpiresAt,
		})
	}
}

// RefreshTokenHandler refreshes the access token using refresh token
// @Summary Refresh access token
// @Description Refreshes the provider tokens of the current session
// @Tags oauth2
// @Produce json
// @Success 200 {object} map[string]string "Token refreshed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Provider cannot refresh"
// @Router /auth/refresh [post]
func RefreshTokenHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			return
		}

		err := manager.RefreshSession(c.Request.Context(), session.ID)
		switch {
		case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		case errors.Is(err, ErrNoRefreshToken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			manager.logger.Error("failed to refresh session", logger.Err(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to refresh token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "token refreshed"})
	}
}

// LogoutHandler logs out the user by deleting the session
// @Summary Logout
// @Description Deletes user session and clears cookie
// @Tags oauth2
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /auth/logout [post]
func LogoutHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie(sessionCookieName); err == nil {
			if err := manager.DeleteSession(c.Request.Context(), sessionID); err != nil {
				manager.logger.Warn("failed to delete session", logger.Err(err))
			}
		}

		c.SetCookie(sessionCookieName, "", -1, "/", "", manager.secureCookies, true)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
			return
		}

		session, err := manager.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth attaches the session when the request carries a valid one.
func OptionalAuth(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, err := c.Cookie(sessionCookieName); err == nil {
			if session, err := manager.GetSession(c.Request.Context(), sessionID); err == nil {
				setSession(c, session)
			}
		}
		c.Next()
	}
}

func setSession(c *gin.Context, session *Session) {
	c.Set(sessionContextKey, session)
	c.Set(userContextKey, session.UserInfo)
}

// SessionFrom returns the session attached by AuthMiddleware or OptionalAuth.
func SessionFrom(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*Session)
	return session, ok && session != nil
}

// Identity resolves the logged in user id of a request that went through OptionalAuth or AuthMiddleware.
func Identity(c *gin.Context) (string, bool) {
	session, ok := SessionFrom(c)
	if !ok || session.UserInfo == nil || session.UserInfo.ID == "" {
		return "", false
	}
	return session.UserInfo.ID, true
}
