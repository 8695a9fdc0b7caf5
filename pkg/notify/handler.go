package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionIDFunc resolves the notification session of a request.
type SessionIDFunc func(c *gin.Context) (string, bool)

type Handler struct {
	feed      *Feed
	sessionID SessionIDFunc
}

func NewHandler(feed *Feed, sessionID SessionIDFunc) *Handler {
	return &Handler{feed: feed, sessionID: sessionID}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/notifications", h.List)
	r.DELETE("/v1/notifications/:id", h.Dismiss)
}

// List godoc
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {array} Notification
// @Router       /v1/notifications [get]
func (h *Handler) List(c *gin.Context) {
	sid, ok := h.sessionID(c)
	if !ok {
		c.JSON(http.StatusOK, []Notification{})
		return
	}
	c.JSON(http.StatusOK, h.feed.List(sid))
}

// Dismiss godoc
// @Summary      Dismiss a notification
// @Tags         notifications
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /v1/notifications/{id} [delete]
func (h *Handler) Dismiss(c *gin.Context) {
	sid, ok := h.sessionID(c)
	if !ok || !h.feed.Dismiss(sid, c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
