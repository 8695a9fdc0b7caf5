package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"travel/internal/schedule"
	"travel/internal/web"
	"travel/pkg/apiclient"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	workspaces *Workspaces
	sessions   *web.BrowserSessions
	identity   web.IdentityFunc
}

func NewHandler(ws *Workspaces, sessions *web.BrowserSessions, identity web.IdentityFunc) *Handler {
	return &Handler{workspaces: ws, sessions: sessions, identity: identity}
}

// RegisterRoutes mounts the admin screens on r. Callers put the auth middleware on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/admin")
	registerScreen(g, h, "airlines", func(w *Workspace) *Screen[apiclient.Airline, apiclient.AirlineInput] { return w.Airlines })
	registerScreen(g, h, "aircraft", func(w *Workspace) *Screen[apiclient.Aircraft, apiclient.AircraftInput] { return w.Aircraft })
	registerScreen(g, h, "flights", func(w *Workspace) *Screen[apiclient.Flight, apiclient.FlightInput] { return w.Flights })
	registerScreen(g, h, "hotels", func(w *Workspace) *Screen[apiclient.Hotel, apiclient.HotelInput] { return w.Hotels })
	registerScreen(g, h, "amenities", func(w *Workspace) *Screen[apiclient.Amenity, apiclient.AmenityInput] { return w.Amenities })
	registerScreen(g, h, "partners", func(w *Workspace) *Screen[apiclient.Partner, apiclient.PartnerInput] { return w.Partners })
	registerScreen(g, h, "schedules", func(w *Workspace) *Screen[apiclient.FlightSchedule, schedule.Form] { return w.Schedules })
	registerList(g, h, "payments", func(w *Workspace) *Screen[apiclient.Payment, struct{}] { return w.Payments })

	g.POST("/amenities/bulk-status", h.BulkAmenityStatus)
	g.GET("/payments/:id/saga-logs", h.SagaLogs)
}

// session resolves the workspace and a context carrying the acting admin.
func (h *Handler) session(c *gin.Context) (*Workspace, context.Context, bool) {
	actor, ok := h.identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session found"})
		return nil, nil, false
	}
	sid := h.sessions.Ensure(c)
	return h.workspaces.Get(sid), apiclient.WithActor(c.Request.Context(), actor), true
}

func registerList[T any, W any](g *gin.RouterGroup, h *Handler, name string, pick func(*Workspace) *Screen[T, W]) {
	g.GET("/"+name, func(c *gin.Context) {
		ws, ctx, ok := h.session(c)
		if !ok {
			return
		}
		view, err := pick(ws).Load(ctx, listParams(c))
		if err != nil {
			sendError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})
}

func registerScreen[T any, W any](g *gin.RouterGroup, h *Handler, name string, pick func(*Workspace) *Screen[T, W]) {
	registerList(g, h, name, pick)

	g.POST("/"+name, func(c *gin.Context) {
		var in W
		if err := c.ShouldBindJSON(&in); err != nil {
			web.BadRequest(c, err)
			return
		}
		ws, ctx, ok := h.session(c)
		if !ok {
			return
		}
		screen := pick(ws)
		item, err := screen.Create(ctx, in)
		if err != nil {
			sendError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item, "view": screen.View()})
	})

	g.PUT("/"+name+"/:id", func(c *gin.Context) {
		var in W
		if err := c.ShouldBindJSON(&in); err != nil {
			web.BadRequest(c, err)
			return
		}
		ws, ctx, ok := h.session(c)
		if !ok {
			return
		}
		screen := pick(ws)
		item, err := screen.Update(ctx, c.Param("id"), in)
		if err != nil {
			sendError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item, "view": screen.View()})
	})

	g.DELETE("/"+name+"/:id", func(c *gin.Context) {
		ws, ctx, ok := h.session(c)
		if !ok {
			return
		}
		screen := pick(ws)
		if err := screen.Delete(ctx, c.Param("id")); err != nil {
			sendError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"view": screen.View()})
	})
}

// listParams reads search, page and size; every other query key is a filter.
func listParams(c *gin.Context) apiclient.ListParams {
	p := apiclient.ListParams{
		Search: c.Query("search"),
		Size:   apiclient.DefaultPageSize,
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 && v <= 100 {
		p.Size = v
	}
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "search", "page", "size", "lang":
			continue
		}
		if len(values) > 0 && values[0] != "" {
			if p.Filters == nil {
				p.Filters = make(map[string]string)
			}
			p.Filters[key] = values[0]
		}
	}
	return p
}

type bulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Active bool     `json:"active"`
}

// BulkAmenityStatus godoc
// @Summary      Activate or deactivate several amenities
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body bulkStatusRequest true "Amenity ids and target status"
// @Success      200 {object} BulkResult
// @Failure      409 {object} map[string]string
// @Router       /v1/admin/amenities/bulk-status [post]
func (h *Handler) BulkAmenityStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	ws, ctx, ok := h.session(c)
	if !ok {
		return
	}
	result, err := ws.SetAmenitiesActive(ctx, req.IDs, req.Active)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SagaLogs godoc
// @Summary      Saga log of a payment
// @Tags         admin
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {array} apiclient.SagaLog
// @Failure      404 {object} map[string]string
// @Router       /v1/admin/payments/{id}/saga-logs [get]
func (h *Handler) SagaLogs(c *gin.Context) {
	ws, ctx, ok := h.session(c)
	if !ok {
		return
	}
	logs, err := ws.SagaLogs(ctx, c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReadOnly):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		web.WriteError(c, err)
	}
}
