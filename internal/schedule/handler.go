package schedule

import (
	"context"
	"errors"
	"net/http"

	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/notify"
	"travel/pkg/validate"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	feed     *notify.Feed
	sessions *web.BrowserSessions
	identity web.IdentityFunc
}

func NewHandler(s *Service, feed *notify.Feed, sessions *web.BrowserSessions, identity web.IdentityFunc) *Handler {
	return &Handler{service: s, feed: feed, sessions: sessions, identity: identity}
}

// RegisterRoutes mounts the form check. Create, update and delete go through
// the admin schedules screen.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/admin/schedules/draft", h.Draft)
}

// DraftResponse is the form after the arrival suggestion, with any validation problems.
type DraftResponse struct {
	Form   *Form             `json:"form"`
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Draft godoc
// @Summary      Check a schedule form
// @Description  Suggests an arrival two hours after departure when none is set and validates the form
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        request body Form true "Schedule form"
// @Success      200 {object} DraftResponse
// @Router       /v1/admin/schedules/draft [post]
func (h *Handler) Draft(c *gin.Context) {
	var f Form
	if err := c.ShouldBindJSON(&f); err != nil {
		web.BadRequest(c, err)
		return
	}
	if existingID := c.Query("existingId"); existingID != "" {
		n, ctx, ok := h.session(c)
		if !ok {
			return
		}
		loaded, err := h.service.Load(ctx, existingID)
		if err != nil {
			n.Error(web.BackendMessage(err, "Failed to load schedule"))
			web.WriteError(c, err)
			return
		}
		f.Existing = loaded.Existing
	}

	form, err := h.service.Draft(&f)
	resp := DraftResponse{Form: form, Valid: err == nil}
	var fe *validate.FieldErrors
	if errors.As(err, &fe) {
		resp.Fields = fe.Fields
	} else if err != nil {
		web.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) session(c *gin.Context) (notify.Notifier, context.Context, bool) {
	actor, ok := h.identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
		return nil, nil, false
	}
	sid := h.sessions.Ensure(c)
	return h.feed.For(sid), apiclient.WithActor(c.Request.Context(), actor), true
}
